package pp_variants

import "errors"

var (
	ErrMissingMacroName    = errors.New("expected macro name after conditional directive")
	ErrMacroLimit          = errors.New("too many distinct conditional macros")
	ErrUnmatchedEndif      = errors.New("#endif without matching #ifdef or #ifndef")
	ErrUnmatchedElse       = errors.New("#else or #elsif without matching #ifdef or #ifndef")
	ErrElseAfterElse       = errors.New("#else or #elsif after #else in conditional block")
	ErrUnclosedConditional = errors.New("unclosed #ifdef or #ifndef")
	ErrGraphNotBuilt       = errors.New("flow graph has not been built")

	// ErrUnresolvedMacro indicates a conditional was reached during
	// enumeration whose macro never got an id. The build pass registers
	// every conditional macro, so hitting this is an internal defect.
	ErrUnresolvedMacro = errors.New("conditional macro was never assigned an id")
)
