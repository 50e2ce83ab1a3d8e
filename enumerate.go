package pp_variants

// VariantReceiver receives enumeration progress. It is called with
// complete=false before every node expansion and with complete=true exactly
// once per finished variant, with tokens holding that variant's filtered
// sequence and variantIndex its 0-based completion order. Returning false from
// a progress call abandons the search below the current node. The tokens slice
// is reused between calls; receivers must copy it to retain it.
type VariantReceiver func(tokens []Token, variantIndex int, complete bool) bool

// enumeration is the state of one GenerateVariants call. A fresh instance per
// call keeps repeated enumerations of the same tree identical.
type enumeration struct {
	tree     *FlowTree
	receiver VariantReceiver

	// Shared along the single in-progress path.
	buf      []Token
	variants int

	// assumed marks macros decided somewhere on the current path; truth
	// holds their pinned values. Mutated and restored around each branch.
	assumed macroSet
	truth   macroSet
}

// GenerateVariants walks the flow graph depth first from the first position
// and hands every complete variant to the receiver. The condition-true edge is
// always explored first, so variant numbering is deterministic. An empty
// sequence yields no variants.
func (t *FlowTree) GenerateVariants(receiver VariantReceiver) error {
	if t.edges == nil {
		return ErrGraphNotBuilt
	}
	if len(t.seq) == 0 {
		return nil
	}

	e := &enumeration{
		tree:     t,
		receiver: receiver,
		assumed:  newMacroSet(t.MacroLimit),
		truth:    newMacroSet(t.MacroLimit),
	}
	for name, defined := range t.seeded {
		if id, ok := t.macros.lookup(name); ok {
			e.assumed.set(id)
			e.truth.assign(id, defined)
		}
	}
	return e.dfs(0)
}

func (e *enumeration) dfs(pos int) error {
	if !e.receiver(e.buf, e.variants, false) {
		return nil
	}

	tok := e.tree.seq[pos]
	if emitted(tok.Kind) {
		e.buf = append(e.buf, tok)
		defer func() { e.buf = e.buf[:len(e.buf)-1] }()
	}

	if isBranching(tok.Kind) {
		if err := e.branch(pos); err != nil {
			return err
		}
	} else {
		// At most one edge here; terminal positions have none.
		for _, next := range e.tree.edges[pos] {
			if err := e.dfs(next); err != nil {
				return err
			}
		}
	}

	if pos == len(e.tree.seq)-1 {
		e.receiver(e.buf, e.variants, true)
		e.variants++
	}
	return nil
}

// branch explores a conditional directive. A macro already decided on this
// path pins the directive to its single consistent edge; an undecided macro is
// assumed true, then false, with the assumption released on the way out even
// when an error unwinds the recursion.
func (e *enumeration) branch(pos int) error {
	id, err := e.tree.macroIDOf(pos)
	if err != nil {
		return err
	}
	negated := e.tree.seq[pos].Kind == Ifndef
	succ := e.tree.edges[pos]

	if e.assumed.test(id) {
		if e.truth.test(id) != negated {
			return e.dfs(succ[0])
		}
		return e.dfs(succ[1])
	}

	e.assumed.set(id)
	defer e.assumed.clear(id)

	e.truth.assign(id, !negated)
	if err := e.dfs(succ[0]); err != nil {
		return err
	}
	e.truth.assign(id, negated)
	return e.dfs(succ[1])
}
