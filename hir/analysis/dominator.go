package analysis

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// DominatorTree holds each block's immediate dominator. Grounded directly on
// internal/engine/wazevo/ssa.calculateDominators, the Cooper-Harvey-Kennedy
// iterative algorithm ("A Simple, Fast Dominance Algorithm"), adapted from
// the teacher's slice-indexed-by-block-id representation to a map since HIR
// block ids are not guaranteed dense here.
type DominatorTree struct {
	cfg  *ControlFlowGraph
	idom map[hir.BlockID]hir.BlockID
}

// BuildDominatorTree computes immediate dominators for every block reachable
// from cfg's entry.
func BuildDominatorTree(cfg *ControlFlowGraph) *DominatorTree {
	rpo := cfg.ReversePostOrder()
	idom := make(map[hir.BlockID]hir.BlockID, len(rpo))
	entry := rpo[0]
	idom[entry] = entry

	preds := predecessorSets(cfg)

	changed := true
	for changed {
		changed = false
		for _, b := range rpo[1:] {
			var newIdom hir.BlockID
			set := false
			for _, p := range preds[b] {
				if _, ok := idom[p]; !ok {
					continue
				}
				if !set {
					newIdom, set = p, true
					continue
				}
				newIdom = intersect(cfg, idom, newIdom, p)
			}
			if !set {
				continue
			}
			if cur, ok := idom[b]; !ok || cur != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	return &DominatorTree{cfg: cfg, idom: idom}
}

func predecessorSets(cfg *ControlFlowGraph) map[hir.BlockID][]hir.BlockID {
	preds := make(map[hir.BlockID][]hir.BlockID)
	for _, b := range cfg.ReversePostOrder() {
		for _, s := range cfg.Successors(b) {
			preds[s] = append(preds[s], b)
		}
	}
	return preds
}

// intersect returns the nearest common dominator of a and b, walking up the
// partially built tree by reverse-postorder number (the `intersect`
// function in the dominance paper).
func intersect(cfg *ControlFlowGraph, idom map[hir.BlockID]hir.BlockID, a, b hir.BlockID) hir.BlockID {
	for a != b {
		for cfg.RPOIndex(a) > cfg.RPOIndex(b) {
			a = idom[a]
		}
		for cfg.RPOIndex(b) > cfg.RPOIndex(a) {
			b = idom[b]
		}
	}
	return a
}

// IDom returns b's immediate dominator (b itself, for the entry block).
func (d *DominatorTree) IDom(b hir.BlockID) hir.BlockID { return d.idom[b] }

// Dominates reports whether a dominates b (reflexively: a dominates a).
func (d *DominatorTree) Dominates(a, b hir.BlockID) bool {
	for {
		if a == b {
			return true
		}
		if next := d.idom[b]; next != b {
			b = next
			continue
		}
		return a == b
	}
}
