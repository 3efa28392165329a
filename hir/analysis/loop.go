package analysis

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// LoopAnalysis marks loop headers: a block is a loop header iff one of its
// predecessors is dominated by it, i.e. one of its incoming edges is a back
// edge. Grounded directly on
// internal/engine/wazevo/ssa.subPassLoopDetection.
type LoopAnalysis struct {
	headers map[hir.BlockID]bool
}

// BuildLoopAnalysis detects loop headers in cfg using dt.
func BuildLoopAnalysis(cfg *ControlFlowGraph, dt *DominatorTree) *LoopAnalysis {
	headers := make(map[hir.BlockID]bool)
	preds := predecessorSets(cfg)
	for _, b := range cfg.ReversePostOrder() {
		for _, p := range preds[b] {
			if dt.Dominates(b, p) {
				headers[b] = true
			}
		}
	}
	return &LoopAnalysis{headers: headers}
}

// IsLoopHeader reports whether b has a back edge targeting it. The function
// emitter (codegen/function) uses this to decide when a block must be
// materialized as a MASM `while.true`/`repeat` construct rather than
// inlined straight-line (spec.md §4.6).
func (l *LoopAnalysis) IsLoopHeader(b hir.BlockID) bool { return l.headers[b] }
