/*
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pp_variants

import (
	"fmt"

	"github.com/edwingeng/deque"
)

// DefaultMacroLimit caps the distinct macros referenced by conditional
// directives unless FlowTree.MacroLimit says otherwise.
const DefaultMacroLimit = 128

// FlowTree is the control flow graph over a token sequence. Each position maps
// to its possible successor positions: branching directives carry exactly two
// edges ([0] condition true, [1] condition false), everything else at most one.
type FlowTree struct {
	// MacroLimit is the capacity of the macro assumption set. Exceeding it
	// fails BuildFlowGraph.
	MacroLimit int

	seq    TokenSequence
	edges  [][]int
	macros *macroTable
	seeded map[string]bool
}

func NewFlowTree(seq TokenSequence) *FlowTree {
	return &FlowTree{
		MacroLimit: DefaultMacroLimit,
		seq:        seq,
		seeded:     map[string]bool{},
	}
}

// conditionalBlock tracks one open `#ifdef/#ifndef ... #endif` group during the
// build pass.
type conditionalBlock struct {
	open    int
	negated bool
	elsifs  []int
	els     int // -1 until #else is seen
	endif   int
}

// BuildFlowGraph constructs the edge map in a single left-to-right pass,
// keeping a stack of open conditional blocks. It fails on malformed nesting
// and leaves no partial graph behind.
func (t *FlowTree) BuildFlowGraph() error {
	t.edges = make([][]int, len(t.seq))
	t.macros = newMacroTable(t.MacroLimit)

	blocks := deque.NewDeque()
	for pos := range t.seq {
		switch t.seq[pos].Kind {
		case Ifdef, Ifndef:
			if err := t.registerMacro(pos); err != nil {
				t.edges = nil
				return err
			}
			blocks.PushBack(&conditionalBlock{
				open:    pos,
				negated: t.seq[pos].Kind == Ifndef,
				els:     -1,
			})

		case Elsif:
			block, err := t.innermost(blocks, pos)
			if err != nil {
				return err
			}
			if err := t.registerMacro(pos); err != nil {
				t.edges = nil
				return err
			}
			block.elsifs = append(block.elsifs, pos)

		case Else:
			block, err := t.innermost(blocks, pos)
			if err != nil {
				return err
			}
			block.els = pos

		case Endif:
			if blocks.Len() == 0 {
				t.edges = nil
				return fmt.Errorf("token %d: %w", pos, ErrUnmatchedEndif)
			}
			block := blocks.PopBack().(*conditionalBlock)
			block.endif = pos
			t.addBlockEdges(block)

		default:
			// Plain fallthrough, unless the next token belongs to the
			// enclosing block's structure; the block's own edges cover
			// that case.
			if next := pos + 1; next < len(t.seq) && !joinsBlock(t.seq[next].Kind) {
				t.edges[pos] = append(t.edges[pos], next)
			}
		}
	}

	if blocks.Len() > 0 {
		block := blocks.Back().(*conditionalBlock)
		pos := block.open
		t.edges = nil
		return fmt.Errorf("token %d: %w", pos, ErrUnclosedConditional)
	}
	return nil
}

// innermost returns the currently open block for an #elsif/#else at pos,
// rejecting directives with no open block or after the block's #else.
func (t *FlowTree) innermost(blocks deque.Deque, pos int) (*conditionalBlock, error) {
	if blocks.Len() == 0 {
		t.edges = nil
		return nil, fmt.Errorf("token %d: %w", pos, ErrUnmatchedElse)
	}
	block := blocks.Back().(*conditionalBlock)
	if block.els >= 0 {
		t.edges = nil
		return nil, fmt.Errorf("token %d: %w", pos, ErrElseAfterElse)
	}
	return block, nil
}

// registerMacro checks that the token after a branching directive is a macro
// name and assigns it an id.
func (t *FlowTree) registerMacro(pos int) error {
	name := pos + 1
	if name >= len(t.seq) || t.seq[name].Kind != Identifier {
		return fmt.Errorf("token %d: %w", pos, ErrMissingMacroName)
	}
	if _, err := t.macros.resolve(t.seq[name].Text); err != nil {
		return fmt.Errorf("token %d: %w", name, err)
	}
	return nil
}

// macroIDOf returns the id of the macro tested by the branching directive at
// pos. The build pass registered it, so a miss is an internal defect.
func (t *FlowTree) macroIDOf(pos int) (int, error) {
	name := pos + 1
	if name >= len(t.seq) || t.seq[name].Kind != Identifier {
		return 0, fmt.Errorf("token %d: %w", pos, ErrUnresolvedMacro)
	}
	id, ok := t.macros.lookup(t.seq[name].Text)
	if !ok {
		return 0, fmt.Errorf("token %d: %w", pos, ErrUnresolvedMacro)
	}
	return id, nil
}

// addBlockEdges emits the edges of one completed conditional block. Every
// branch body reconverges on the position right after `#endif`.
func (t *FlowTree) addBlockEdges(b *conditionalBlock) {
	hasElsif := len(b.elsifs) > 0
	hasElse := b.els >= 0

	// Condition-true edge first, condition-false second. The order is
	// load-bearing: the enumerator indexes edges by assumed truth.
	t.edges[b.open] = append(t.edges[b.open], b.open+1)
	switch {
	case hasElsif:
		t.edges[b.open] = append(t.edges[b.open], b.elsifs[0])
	case hasElse:
		t.edges[b.open] = append(t.edges[b.open], b.els)
	default:
		t.edges[b.open] = append(t.edges[b.open], b.endif)
	}

	for i, pos := range b.elsifs {
		t.edges[pos] = append(t.edges[pos], pos+1)
		switch {
		case i+1 < len(b.elsifs):
			t.edges[pos] = append(t.edges[pos], b.elsifs[i+1])
		case hasElse:
			t.edges[pos] = append(t.edges[pos], b.els)
		default:
			t.edges[pos] = append(t.edges[pos], b.endif)
		}
	}

	if hasElse {
		t.edges[b.els] = append(t.edges[b.els], b.els+1)
	}

	// Merge edges: the last token of each branch body falls through to
	// `#endif`.
	t.addMergeEdge(b.endif-1, b.endif)
	for _, pos := range b.elsifs {
		t.addMergeEdge(pos-1, b.endif)
	}
	if hasElse {
		t.addMergeEdge(b.els-1, b.endif)
	}

	// `#endif` continues to the following token unless a chained directive
	// supplies that edge itself.
	if next := b.endif + 1; next < len(t.seq) && !joinsBlock(t.seq[next].Kind) {
		t.edges[b.endif] = append(t.edges[b.endif], next)
	}
}

// addMergeEdge inserts from→to at most once. Empty branch bodies make several
// merge rules target the same edge.
func (t *FlowTree) addMergeEdge(from, to int) {
	for _, succ := range t.edges[from] {
		if succ == to {
			return
		}
	}
	t.edges[from] = append(t.edges[from], to)
}

// Assume pins a macro's definedness for every generated variant, halving the
// search space per pinned macro. Names never referenced by a conditional are
// ignored so one project-wide defines set can serve many inputs. Call before
// GenerateVariants.
func (t *FlowTree) Assume(name string, defined bool) {
	t.seeded[name] = defined
}

// MacroNames returns the conditional macro names registered by the build pass,
// in id order.
func (t *FlowTree) MacroNames() []string {
	if t.macros == nil {
		return nil
	}
	return append([]string(nil), t.macros.names...)
}
