package pp_variants

// TokenKind classifies the tokens handed to the flow graph. Identifier is used
// exclusively for macro names that follow a directive; ordinary source words
// are Text.
type TokenKind int

const (
	Text TokenKind = iota
	Identifier
	Ifdef
	Ifndef
	Elsif
	Else
	Endif
	Define
	DefineBody
)

var kindNames = [...]string{
	Text:       "text",
	Identifier: "identifier",
	Ifdef:      "#ifdef",
	Ifndef:     "#ifndef",
	Elsif:      "#elsif",
	Else:       "#else",
	Endif:      "#endif",
	Define:     "#define",
	DefineBody: "define-body",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

type Token struct {
	Kind TokenKind
	Text string
}

// TokenSequence is the externally owned, random-access source sequence.
// Positions into it are plain indices.
type TokenSequence []Token

// isBranching reports whether a token splits the flow two ways.
func isBranching(k TokenKind) bool {
	return k == Ifdef || k == Ifndef || k == Elsif
}

// joinsBlock reports whether a token continues or closes an open conditional
// block, meaning the preceding token must not get a plain fallthrough edge.
func joinsBlock(k TokenKind) bool {
	return k == Elsif || k == Else || k == Endif
}

// emitted reports whether tokens of this kind appear in generated variants.
// Directives and macro names never do.
func emitted(k TokenKind) bool {
	return k == Text
}
