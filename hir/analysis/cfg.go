// Package analysis computes the auxiliary structures the code generator
// reads a Function through beyond the raw DataFlowGraph: reverse postorder,
// dominance, loop headers, liveness, and global-variable addresses
// (spec.md §6 "external collaborator interfaces").
package analysis

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// ControlFlowGraph holds a function's successor edges and a reverse
// postorder numbering of its blocks, computed once up front and reused by
// every other analysis in this package. Grounded on
// internal/engine/wazevo/ssa.passCalculateImmediateDominators's reverse
// postorder walk, split out into its own reusable pass since several
// downstream analyses need the same order.
type ControlFlowGraph struct {
	fn       hir.Function
	rpo      []hir.BlockID
	rpoIndex map[hir.BlockID]int
	succs    map[hir.BlockID][]hir.BlockID
}

// BuildControlFlowGraph walks fn's blocks from the entry block and computes
// their reverse postorder. Blocks unreachable from the entry are never
// visited and do not appear in the order.
func BuildControlFlowGraph(fn hir.Function) *ControlFlowGraph {
	c := &ControlFlowGraph{fn: fn, rpoIndex: make(map[hir.BlockID]int), succs: make(map[hir.BlockID][]hir.BlockID)}

	const unseen, seen, done = 0, 1, 2
	visited := make(map[hir.BlockID]uint8)
	var stack []hir.BlockID
	var postorder []hir.BlockID

	entry := fn.DFG().EntryBlock()
	stack = append(stack, entry)
	visited[entry] = seen
	for len(stack) > 0 {
		top := len(stack) - 1
		blk := stack[top]
		stack = stack[:top]
		switch visited[blk] {
		case unseen:
			panic("BUG: unreachable block during CFG walk: " + blk.String())
		case seen:
			stack = append(stack, blk)
			for _, s := range c.successorsOf(blk) {
				if visited[s] == unseen {
					visited[s] = seen
					stack = append(stack, s)
				}
			}
			visited[blk] = done
		case done:
			postorder = append(postorder, blk)
		}
	}

	rpo := make([]hir.BlockID, len(postorder))
	for i, b := range postorder {
		rpo[len(postorder)-1-i] = b
	}
	c.rpo = rpo
	for i, b := range rpo {
		c.rpoIndex[b] = i
	}
	return c
}

func (c *ControlFlowGraph) successorsOf(b hir.BlockID) []hir.BlockID {
	if s, ok := c.succs[b]; ok {
		return s
	}
	dfg := c.fn.DFG()
	term := dfg.BlockByID(b).Terminator()
	var succs []hir.BlockID
	if term.Valid() {
		ba := dfg.AnalyzeBranch(term)
		switch ba.Kind {
		case hir.SingleDest:
			succs = []hir.BlockID{ba.Block}
		case hir.MultiDest:
			for _, s := range ba.Table {
				succs = append(succs, s.Block)
			}
		}
	}
	c.succs[b] = succs
	return succs
}

// Successors returns b's outgoing CFG edges.
func (c *ControlFlowGraph) Successors(b hir.BlockID) []hir.BlockID { return c.successorsOf(b) }

// ReversePostOrder returns all reachable blocks in reverse postorder.
func (c *ControlFlowGraph) ReversePostOrder() []hir.BlockID { return c.rpo }

// RPOIndex returns b's position in the reverse postorder.
func (c *ControlFlowGraph) RPOIndex(b hir.BlockID) int { return c.rpoIndex[b] }

// EntryBlock returns the function's entry block.
func (c *ControlFlowGraph) EntryBlock() hir.BlockID { return c.fn.DFG().EntryBlock() }

// Predecessors returns b's incoming edges, derived from the CFG rather than
// from hir.Block.Preds() directly so analyses built on top of
// ControlFlowGraph see a single consistent source of truth.
func (c *ControlFlowGraph) Predecessors(b hir.BlockID) []hir.BlockID {
	var preds []hir.BlockID
	for _, p := range c.rpo {
		for _, s := range c.successorsOf(p) {
			if s == b {
				preds = append(preds, p)
			}
		}
	}
	return preds
}
