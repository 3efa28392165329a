package analysis

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// DominanceFrontier holds, for each block, the set of blocks at which its
// dominance stops (Cytron, Ferrante, Rosen, Wegman, Zadeck). Used by
// codegen/spill when reconstructing SSA form after inserting reload
// instructions on divergent paths (spec.md §4.7).
type DominanceFrontier struct {
	df map[hir.BlockID][]hir.BlockID
}

// BuildDominanceFrontier computes the dominance frontier of every block in
// cfg given its dominator tree dt.
func BuildDominanceFrontier(cfg *ControlFlowGraph, dt *DominatorTree) *DominanceFrontier {
	df := make(map[hir.BlockID][]hir.BlockID)
	preds := predecessorSets(cfg)

	for _, b := range cfg.ReversePostOrder() {
		ps := preds[b]
		if len(ps) < 2 {
			continue
		}
		for _, p := range ps {
			runner := p
			for runner != dt.IDom(b) {
				df[runner] = appendUnique(df[runner], b)
				runner = dt.IDom(runner)
			}
		}
	}
	return &DominanceFrontier{df: df}
}

func appendUnique(s []hir.BlockID, b hir.BlockID) []hir.BlockID {
	for _, x := range s {
		if x == b {
			return s
		}
	}
	return append(s, b)
}

// Of returns the dominance frontier set of b.
func (d *DominanceFrontier) Of(b hir.BlockID) []hir.BlockID { return d.df[b] }
