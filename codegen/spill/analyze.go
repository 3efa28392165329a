package spill

import (
	"sort"

	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/hir/analysis"
)

// Analyze computes where spills and reloads must go so that no block ever
// holds more than Budget concurrently live values (spec.md §4.7 Phase 1).
// Pressure is tracked per block from its liveness-computed live-in set
// forward; a value chosen for eviction keeps one local slot for every spill
// and every reload planReloads discovers, including when a later block
// evicts it again.
func Analyze(fn *hir.ConcreteFunction, cfg *analysis.ControlFlowGraph, liveness *analysis.LivenessAnalysis) *Plan {
	dfg := fn.DFG()
	plan := &Plan{}
	locals := map[hir.Value]hir.LocalID{}

	for _, b := range cfg.ReversePostOrder() {
		live := map[hir.Value]struct{}{}
		for v := range liveness.LiveIn(b) {
			live[v] = struct{}{}
		}
		for _, p := range dfg.BlockByID(b).Params() {
			live[p.Value] = struct{}{}
		}

		insts := dfg.BlockInsts(b)
		lastUse := computeLastUse(dfg, insts)

		for idx, instID := range insts {
			inst := dfg.InstByID(instID)

			if len(live) > Budget {
				for _, v := range selectExcess(live, inst, len(live)-Budget) {
					local, ok := locals[v]
					if !ok {
						local = dfg.AllocLocal(dfg.ValueType(v))
						locals[v] = local
					}
					plan.Spills = append(plan.Spills, SpillRecord{
						Value: v, Type: dfg.ValueType(v), Local: local,
						Placement: Placement{Kind: At, Block: b, Before: instID},
					})
					delete(live, v)
					planReloads(fn, cfg, liveness, plan, v, dfg.ValueType(v), local, b, idx)
				}
			}

			for v := range live {
				if lastUse[v] == idx && !liveness.IsLiveOut(b, v) {
					delete(live, v)
				}
			}
			for _, r := range inst.Results() {
				live[r] = struct{}{}
			}
		}
	}
	return plan
}

// computeLastUse finds, for every value referenced anywhere in insts, the
// index of its final reference (as a plain argument, branch condition, or
// successor argument).
func computeLastUse(dfg *hir.DataFlowGraph, insts []hir.Inst) map[hir.Value]int {
	lastUse := map[hir.Value]int{}
	for idx, instID := range insts {
		inst := dfg.InstByID(instID)
		mark := func(v hir.Value) {
			if v.Valid() {
				lastUse[v] = idx
			}
		}
		for _, a := range inst.Args() {
			mark(a)
		}
		mark(inst.Cond())
		for _, s := range inst.Successors() {
			for _, a := range s.Args {
				mark(a)
			}
		}
	}
	return lastUse
}

// selectExcess picks n values to evict from live, preferring ones the
// current instruction doesn't itself consume, in ascending value-id order
// for determinism.
func selectExcess(live map[hir.Value]struct{}, inst *hir.Instruction, n int) []hir.Value {
	needed := map[hir.Value]struct{}{}
	for _, a := range inst.Args() {
		needed[a] = struct{}{}
	}
	if inst.Cond().Valid() {
		needed[inst.Cond()] = struct{}{}
	}

	var candidates, fallback []hir.Value
	for v := range live {
		if _, ok := needed[v]; ok {
			fallback = append(fallback, v)
		} else {
			candidates = append(candidates, v)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	sort.Slice(fallback, func(i, j int) bool { return fallback[i] < fallback[j] })

	picks := append(candidates, fallback...)
	if len(picks) > n {
		picks = picks[:n]
	}
	return picks
}

// planReloads finds every place downstream of a spill that still needs v,
// walking forward from the spill's own block. A use found later in the same
// block gets a direct reload there; otherwise the walk continues into every
// successor whose live-in set still carries v, so divergent arms each get
// their own independent reload (Phase 3 unifies them at the join with a
// freshly inserted block parameter). A join block reached via more than one
// predecessor, only some of which pass through this spill, gets the reload
// spliced onto just the reached edge(s) via a split -- the other
// predecessors never spilled v and have nothing to reload.
func planReloads(
	fn *hir.ConcreteFunction, cfg *analysis.ControlFlowGraph, liveness *analysis.LivenessAnalysis,
	plan *Plan, v hir.Value, ty hir.Type, local hir.LocalID, startBlock hir.BlockID, startIdx int,
) {
	dfg := fn.DFG()
	visited := map[hir.BlockID]bool{}

	var walk func(b hir.BlockID, from int, via hir.BlockID, hasVia bool)
	walk = func(b hir.BlockID, from int, via hir.BlockID, hasVia bool) {
		// Once a block has been entered fresh (from == 0) by any path, every
		// later path converging on it is redundant: either a use was already
		// found and reloaded there, or it was already queued onward. Without
		// this guard two divergent arms that both reach the same downstream
		// block before finding a use would double-record its reload.
		if from == 0 {
			if visited[b] {
				return
			}
			visited[b] = true
		}

		insts := dfg.BlockInsts(b)
		for idx := from; idx < len(insts); idx++ {
			inst := dfg.InstByID(insts[idx])
			if usesValue(inst, v) {
				plan.Reloads = append(plan.Reloads, ReloadRecord{
					Value: v, Type: ty, Local: local,
					Placement: Placement{Kind: At, Block: b, Before: insts[idx]},
				})
				return
			}
		}

		if from == 0 && hasVia && len(cfg.Predecessors(b)) > 1 {
			split := splitIndex(plan, fn, via, b)
			plan.Reloads = append(plan.Reloads, ReloadRecord{
				Value: v, Type: ty, Local: local,
				Placement: Placement{Kind: AtSplit, Split: split},
			})
			return
		}

		for _, s := range cfg.Successors(b) {
			if _, ok := liveness.LiveIn(s)[v]; !ok {
				continue
			}
			walk(s, 0, b, true)
		}
	}
	walk(startBlock, startIdx, hir.BlockIDInvalid, false)
}

func usesValue(inst *hir.Instruction, v hir.Value) bool {
	for _, a := range inst.Args() {
		if a == v {
			return true
		}
	}
	if inst.Cond() == v {
		return true
	}
	for _, s := range inst.Successors() {
		for _, a := range s.Args {
			if a == v {
				return true
			}
		}
	}
	return false
}

// splitIndex returns the index into plan.Splits of the (pred, succ) edge's
// split record, creating one if this is the first reload to need it.
func splitIndex(plan *Plan, fn *hir.ConcreteFunction, pred, succ hir.BlockID) int {
	for i, s := range plan.Splits {
		if s.Pred == pred && s.Succ == succ {
			return i
		}
	}
	term := fn.DFG().BlockByID(pred).Terminator()
	inst := fn.DFG().InstByID(term)
	succIndex := -1
	for i, s := range inst.Successors() {
		if s.Block == succ {
			succIndex = i
			break
		}
	}
	if succIndex < 0 {
		panic("BUG: split edge " + pred.String() + "->" + succ.String() + " not found among its terminator's successors")
	}
	plan.Splits = append(plan.Splits, SplitRecord{Pred: pred, SuccIndex: succIndex, Succ: succ})
	return len(plan.Splits) - 1
}
