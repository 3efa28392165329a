package analysis

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// LivenessAnalysis computes classic backward live-variable sets per block,
// treating block parameters and terminator successor arguments as uses/defs
// like any other operand (spec.md §4.7 needs live-out sets to decide which
// values must survive a spill across a branch). Grounded on the same
// fixed-point iteration style as
// internal/engine/wazevo/ssa.calculateDominators, applied to the classic
// liveness equations instead of dominance.
type LivenessAnalysis struct {
	liveIn  map[hir.BlockID]map[hir.Value]struct{}
	liveOut map[hir.BlockID]map[hir.Value]struct{}
}

// BuildLivenessAnalysis computes live-in/live-out sets for every block of fn
// reachable per cfg.
func BuildLivenessAnalysis(fn hir.Function, cfg *ControlFlowGraph) *LivenessAnalysis {
	dfg := fn.DFG()
	blocks := cfg.ReversePostOrder()

	uses := make(map[hir.BlockID]map[hir.Value]struct{}, len(blocks))
	defs := make(map[hir.BlockID]map[hir.Value]struct{}, len(blocks))

	for _, b := range blocks {
		use := make(map[hir.Value]struct{})
		def := make(map[hir.Value]struct{})
		for _, p := range dfg.BlockByID(b).Params() {
			def[p.Value] = struct{}{}
		}
		markUse := func(v hir.Value) {
			if !v.Valid() {
				return
			}
			if _, isDef := def[v]; !isDef {
				use[v] = struct{}{}
			}
		}
		for _, instID := range dfg.BlockInsts(b) {
			inst := dfg.InstByID(instID)
			for _, a := range inst.Args() {
				markUse(a)
			}
			markUse(inst.Cond())
			for _, s := range inst.Successors() {
				for _, a := range s.Args {
					markUse(a)
				}
			}
			for _, r := range inst.Results() {
				def[r] = struct{}{}
			}
		}
		uses[b] = use
		defs[b] = def
	}

	liveIn := make(map[hir.BlockID]map[hir.Value]struct{}, len(blocks))
	liveOut := make(map[hir.BlockID]map[hir.Value]struct{}, len(blocks))
	for _, b := range blocks {
		liveIn[b] = map[hir.Value]struct{}{}
		liveOut[b] = map[hir.Value]struct{}{}
	}

	changed := true
	for changed {
		changed = false
		for i := len(blocks) - 1; i >= 0; i-- {
			b := blocks[i]
			out := make(map[hir.Value]struct{})
			for _, s := range cfg.Successors(b) {
				for v := range liveIn[s] {
					out[v] = struct{}{}
				}
			}
			in := make(map[hir.Value]struct{}, len(uses[b]))
			for v := range uses[b] {
				in[v] = struct{}{}
			}
			for v := range out {
				if _, isDef := defs[b][v]; !isDef {
					in[v] = struct{}{}
				}
			}
			if !setEqual(in, liveIn[b]) || !setEqual(out, liveOut[b]) {
				liveIn[b], liveOut[b] = in, out
				changed = true
			}
		}
	}
	return &LivenessAnalysis{liveIn: liveIn, liveOut: liveOut}
}

func setEqual(a, b map[hir.Value]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if _, ok := b[v]; !ok {
			return false
		}
	}
	return true
}

// LiveIn returns the set of values live on entry to b.
func (l *LivenessAnalysis) LiveIn(b hir.BlockID) map[hir.Value]struct{} { return l.liveIn[b] }

// LiveOut returns the set of values live on exit from b.
func (l *LivenessAnalysis) LiveOut(b hir.BlockID) map[hir.Value]struct{} { return l.liveOut[b] }

// IsLiveOut reports whether v is live out of b.
func (l *LivenessAnalysis) IsLiveOut(b hir.BlockID, v hir.Value) bool {
	_, ok := l.liveOut[b][v]
	return ok
}
