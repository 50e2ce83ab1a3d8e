package pp_variants

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func text(words ...string) []Token {
	toks := make([]Token, 0, len(words))
	for _, w := range words {
		toks = append(toks, Token{Kind: Text, Text: w})
	}
	return toks
}

func ifdef(name string) []Token {
	return []Token{{Kind: Ifdef, Text: "#ifdef"}, {Kind: Identifier, Text: name}}
}

func ifndef(name string) []Token {
	return []Token{{Kind: Ifndef, Text: "#ifndef"}, {Kind: Identifier, Text: name}}
}

func elsif(name string) []Token {
	return []Token{{Kind: Elsif, Text: "#elsif"}, {Kind: Identifier, Text: name}}
}

func els() []Token   { return []Token{{Kind: Else, Text: "#else"}} }
func endif() []Token { return []Token{{Kind: Endif, Text: "#endif"}} }

func seq(parts ...[]Token) TokenSequence {
	var s TokenSequence
	for _, p := range parts {
		s = append(s, p...)
	}
	return s
}

func TestBuildFlowGraphEdges(t *testing.T) {
	// A `#ifdef M  B `#endif  C   at positions 0..5.
	tree := NewFlowTree(seq(text("A"), ifdef("M"), text("B"), endif(), text("C")))
	if err := tree.BuildFlowGraph(); err != nil {
		t.Fatalf("build error: %v", err)
	}

	want := [][]int{
		0: {1},    // A → #ifdef
		1: {2, 4}, // #ifdef: true → macro name, false → #endif
		2: {3},    // M → B
		3: {4},    // B merges into #endif
		4: {5},    // #endif → C
		5: nil,    // terminal
	}
	if diff := cmp.Diff(want, tree.edges); diff != "" {
		t.Errorf("edge map mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFlowGraphChainedBlocks(t *testing.T) {
	// Nested endifs back to back: the outer merge edge must come from the
	// inner #endif, exactly once.
	tree := NewFlowTree(seq(ifdef("A"), ifdef("B"), text("x"), endif(), endif()))
	if err := tree.BuildFlowGraph(); err != nil {
		t.Fatalf("build error: %v", err)
	}

	want := [][]int{
		0: {1, 6}, // outer #ifdef
		1: {2},    // A → inner #ifdef
		2: {3, 5}, // inner #ifdef
		3: {4},    // B → x
		4: {5},    // x → inner #endif
		5: {6},    // inner #endif merges into outer #endif
		6: nil,
	}
	if diff := cmp.Diff(want, tree.edges); diff != "" {
		t.Errorf("edge map mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		input TokenSequence
		want  error
	}{
		{"lone endif", seq(endif()), ErrUnmatchedEndif},
		{"lone else", seq(els()), ErrUnmatchedElse},
		{"lone elsif", seq(elsif("M"), endif()), ErrUnmatchedElse},
		{"double else", seq(ifdef("M"), els(), els(), endif()), ErrElseAfterElse},
		{"elsif after else", seq(ifdef("M"), els(), elsif("N"), endif()), ErrElseAfterElse},
		{"ifdef without name", seq([]Token{{Kind: Ifdef, Text: "#ifdef"}}, text("A"), endif()), ErrMissingMacroName},
		{"ifdef at end of input", seq(text("A"), []Token{{Kind: Ifdef, Text: "#ifdef"}}), ErrMissingMacroName},
		{"elsif without name", seq(ifdef("M"), []Token{{Kind: Elsif, Text: "#elsif"}}, text("A"), endif()), ErrMissingMacroName},
		{"unclosed block", seq(ifdef("M"), text("A")), ErrUnclosedConditional},
		{"unclosed nested block", seq(ifdef("M"), ifdef("N"), text("A"), endif()), ErrUnclosedConditional},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewFlowTree(tt.input)
			err := tree.BuildFlowGraph()
			if err == nil {
				t.Fatalf("expected error %v", tt.want)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v; want %v", err, tt.want)
			}
		})
	}
}

func TestMacroLimit(t *testing.T) {
	tree := NewFlowTree(seq(ifdef("A"), endif(), ifdef("B"), endif()))
	tree.MacroLimit = 1
	err := tree.BuildFlowGraph()
	if !errors.Is(err, ErrMacroLimit) {
		t.Errorf("got %v; want %v", err, ErrMacroLimit)
	}
}

func TestMacroNames(t *testing.T) {
	tree := NewFlowTree(seq(
		ifdef("FEATURE"), elsif("LEGACY"), endif(),
		ifndef("FEATURE"), endif(), // repeat must not get a second id
		ifdef("DEBUG"), endif(),
	))
	if err := tree.BuildFlowGraph(); err != nil {
		t.Fatalf("build error: %v", err)
	}
	want := []string{"FEATURE", "LEGACY", "DEBUG"}
	if diff := cmp.Diff(want, tree.MacroNames()); diff != "" {
		t.Errorf("macro names mismatch (-want +got):\n%s", diff)
	}
}

func TestMacroNamesBeforeBuild(t *testing.T) {
	tree := NewFlowTree(seq(ifdef("M"), endif()))
	if got := tree.MacroNames(); got != nil {
		t.Errorf("got %v; want nil before build", got)
	}
}
