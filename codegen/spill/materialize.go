package spill

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// Materialize turns a Plan into real IR: splits first (so spill/reload
// placements that reference a split's single instruction have something to
// anchor to), then every spill, then every reload (spec.md §4.7 Phase 2).
// After this call the function is semantically invalid until Reconstruct
// runs -- Spill retires a value whose downstream uses still name it.
func Materialize(fn *hir.ConcreteFunction, plan *Plan) {
	for i := range plan.Splits {
		materializeSplit(fn, &plan.Splits[i])
	}
	for i := range plan.Spills {
		sr := &plan.Spills[i]
		block, before := resolvePlacement(fn, plan, sr.Placement)
		sr.Materialized = fn.Spill(block, before, sr.Value, sr.Local)
	}
	for i := range plan.Reloads {
		rr := &plan.Reloads[i]
		block, before := resolvePlacement(fn, plan, rr.Placement)
		inst, v := fn.Reload(block, before, rr.Value, rr.Type, rr.Local)
		rr.Materialized = inst
		rr.Result = v
	}
}

// materializeSplit creates the synthetic edge block, redirects Pred's
// terminator to it, and gives it its own unconditional branch carrying the
// original successor's arguments onward to Succ.
func materializeSplit(fn *hir.ConcreteFunction, sp *SplitRecord) {
	dfg := fn.DFG()
	term := dfg.BlockByID(sp.Pred).Terminator()
	succ := dfg.InstByID(term).Successors()[sp.SuccIndex]
	origArgs := append([]hir.Value(nil), succ.Args...)

	block := fn.CreateBlock()
	fn.RedirectSuccessor(term, sp.SuccIndex, block)
	fn.Br(block, sp.Succ, origArgs...)
	sp.Block = block
}

// resolvePlacement turns a Placement into the (block, before-instruction)
// pair fn.Spill/fn.Reload expect. An AtSplit placement resolves to the
// split block's own branch -- the one instruction it contains.
func resolvePlacement(fn *hir.ConcreteFunction, plan *Plan, p Placement) (hir.BlockID, hir.Inst) {
	if p.Kind == At {
		return p.Block, p.Before
	}
	sp := plan.Splits[p.Split]
	return sp.Block, fn.DFG().BlockByID(sp.Block).Terminator()
}
