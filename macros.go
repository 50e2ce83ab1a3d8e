package pp_variants

// macroTable hands out dense ids to conditional macro names in first-sight
// scan order, up to a fixed capacity.
type macroTable struct {
	ids   map[string]int
	names []string
	limit int
}

func newMacroTable(limit int) *macroTable {
	return &macroTable{ids: map[string]int{}, limit: limit}
}

func (t *macroTable) resolve(name string) (int, error) {
	if id, ok := t.ids[name]; ok {
		return id, nil
	}
	if len(t.names) >= t.limit {
		return 0, ErrMacroLimit
	}
	id := len(t.names)
	t.ids[name] = id
	t.names = append(t.names, name)
	return id, nil
}

func (t *macroTable) lookup(name string) (int, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// macroSet is a fixed-capacity set of macro ids, one bit per id.
type macroSet []uint64

func newMacroSet(capacity int) macroSet {
	return make(macroSet, (capacity+63)/64)
}

func (s macroSet) test(id int) bool {
	return s[id/64]&(1<<(uint(id)%64)) != 0
}

func (s macroSet) set(id int) {
	s[id/64] |= 1 << (uint(id) % 64)
}

func (s macroSet) clear(id int) {
	s[id/64] &^= 1 << (uint(id) % 64)
}

func (s macroSet) assign(id int, v bool) {
	if v {
		s.set(id)
	} else {
		s.clear(id)
	}
}
