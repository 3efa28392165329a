package spill

import (
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/hir/analysis"
)

// Reconstruct restores SSA form around the Spill/Reload pseudo-instructions
// Materialize inserted (spec.md §4.7 Phase 3): for every spilled value, it
// places a block parameter at that value's iterated dominance frontier
// (classic Cytron et al. phi placement, treating each Reload as a fresh
// definition alongside the value's own original def site), then walks the
// dominator tree in preorder rewriting every downstream use to whichever
// definition -- the original value, a reload's result, or an inserted
// block parameter -- currently reaches that point.
func Reconstruct(fn *hir.ConcreteFunction, cfg *analysis.ControlFlowGraph, dt *analysis.DominatorTree, df *analysis.DominanceFrontier, plan *Plan) {
	if len(plan.Reloads) == 0 {
		return
	}
	dfg := fn.DFG()
	children := domChildren(cfg, dt)

	byValue := map[hir.Value][]*ReloadRecord{}
	for i := range plan.Reloads {
		r := &plan.Reloads[i]
		byValue[r.Value] = append(byValue[r.Value], r)
	}

	for v, reloads := range byValue {
		origDef := definingBlockOf(dfg, cfg, v)

		reloadAt := map[hir.BlockID]hir.Value{}
		defSites := map[hir.BlockID]bool{origDef: true}
		for _, r := range reloads {
			blk := reloadBlockOf(plan, r)
			reloadAt[blk] = r.Result
			defSites[blk] = true
		}

		phiAt := placePhis(fn, df, defSites, dfg.ValueType(v))
		renameValue(fn, children, cfg.EntryBlock(), v, reloadAt, phiAt)
	}
}

func reloadBlockOf(plan *Plan, r *ReloadRecord) hir.BlockID {
	if r.Placement.Kind == At {
		return r.Placement.Block
	}
	return plan.Splits[r.Placement.Split].Block
}

// definingBlockOf finds the block that owns v's original definition, either
// as a block parameter or as an instruction result.
func definingBlockOf(dfg *hir.DataFlowGraph, cfg *analysis.ControlFlowGraph, v hir.Value) hir.BlockID {
	d := dfg.ValueDataOf(v)
	if !d.IsParam {
		return dfg.InstByID(d.Inst).Block()
	}
	for _, b := range cfg.ReversePostOrder() {
		for _, p := range dfg.BlockByID(b).Params() {
			if p.Value == v {
				return b
			}
		}
	}
	panic("BUG: block-parameter value has no owning block: " + v.String())
}

func domChildren(cfg *analysis.ControlFlowGraph, dt *analysis.DominatorTree) map[hir.BlockID][]hir.BlockID {
	children := map[hir.BlockID][]hir.BlockID{}
	entry := cfg.EntryBlock()
	for _, b := range cfg.ReversePostOrder() {
		if b == entry {
			continue
		}
		p := dt.IDom(b)
		children[p] = append(children[p], b)
	}
	return children
}

// placePhis computes the iterated dominance frontier of defSites and
// inserts a fresh block parameter of type ty at each frontier block,
// returning the block -> new-parameter-value map.
func placePhis(fn *hir.ConcreteFunction, df *analysis.DominanceFrontier, defSites map[hir.BlockID]bool, ty hir.Type) map[hir.BlockID]hir.Value {
	phiAt := map[hir.BlockID]hir.Value{}
	worklist := make([]hir.BlockID, 0, len(defSites))
	for b := range defSites {
		worklist = append(worklist, b)
	}
	for len(worklist) > 0 {
		top := len(worklist) - 1
		b := worklist[top]
		worklist = worklist[:top]

		for _, d := range df.Of(b) {
			if _, ok := phiAt[d]; ok {
				continue
			}
			phiAt[d] = fn.AddBlockParam(d, ty)
			if !defSites[d] {
				defSites[d] = true
				worklist = append(worklist, d)
			}
		}
	}
	return phiAt
}

// renameValue walks the dominator tree in preorder, rewriting every use of
// v to the definition currently reaching that point, and threading that
// definition across any outgoing edge that lands on a block with a phi.
func renameValue(
	fn *hir.ConcreteFunction, children map[hir.BlockID][]hir.BlockID, root hir.BlockID,
	v hir.Value, reloadAt, phiAt map[hir.BlockID]hir.Value,
) {
	dfg := fn.DFG()

	type frame struct {
		block hir.BlockID
		cur   hir.Value
	}
	stack := []frame{{block: root, cur: v}}
	for len(stack) > 0 {
		top := len(stack) - 1
		fr := stack[top]
		stack = stack[:top]

		cur := fr.cur
		if phi, ok := phiAt[fr.block]; ok {
			cur = phi
		}

		for _, instID := range dfg.BlockInsts(fr.block) {
			rewriteUses(fn, instID, v, cur)
			if reload, ok := reloadAt[fr.block]; ok && dfg.FirstResult(instID) == reload {
				cur = reload
			}
		}

		if term := dfg.BlockByID(fr.block).Terminator(); term.Valid() {
			inst := dfg.InstByID(term)
			for i, s := range inst.Successors() {
				if _, ok := phiAt[s.Block]; ok {
					fn.AppendSuccessorArgument(term, i, cur)
				}
			}
		}

		for _, c := range children[fr.block] {
			stack = append(stack, frame{block: c, cur: cur})
		}
	}
}

// rewriteUses overwrites every plain argument, branch condition, and
// successor argument of inst equal to old with new.
func rewriteUses(fn *hir.ConcreteFunction, instID hir.Inst, old, new_ hir.Value) {
	dfg := fn.DFG()
	inst := dfg.InstByID(instID)

	for i, a := range inst.Args() {
		if a == old {
			dfg.ReplaceArgument(instID, i, new_)
		}
	}
	if inst.Cond() == old {
		fn.ReplaceCond(instID, new_)
	}
	for si, s := range inst.Successors() {
		for ai, a := range s.Args {
			if a == old {
				dfg.ReplaceSuccessorArgument(instID, si, ai, new_)
			}
		}
	}
}
