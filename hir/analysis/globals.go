package analysis

// GlobalVariableLayout resolves a `GlobalValue` instruction's symbolic
// reference to a concrete linear-memory address, scoped per function
// (spec.md §6: `get_computed_addr(func_id, gv_id) -> Option<u32>`). Layout
// assignment itself (how addresses are chosen) is owned by the HIR side;
// this type is just the read-only table the emitter consults.
type GlobalVariableLayout struct {
	addrs map[string]map[string]uint32
}

// NewGlobalVariableLayout returns an empty layout table.
func NewGlobalVariableLayout() *GlobalVariableLayout {
	return &GlobalVariableLayout{addrs: make(map[string]map[string]uint32)}
}

// Define records the address assigned to gvName within funcID.
func (g *GlobalVariableLayout) Define(funcID, gvName string, addr uint32) {
	m, ok := g.addrs[funcID]
	if !ok {
		m = make(map[string]uint32)
		g.addrs[funcID] = m
	}
	m[gvName] = addr
}

// GetComputedAddr returns the address assigned to gvName within funcID, and
// whether one has been assigned.
func (g *GlobalVariableLayout) GetComputedAddr(funcID, gvName string) (uint32, bool) {
	m, ok := g.addrs[funcID]
	if !ok {
		return 0, false
	}
	addr, ok := m[gvName]
	return addr, ok
}
