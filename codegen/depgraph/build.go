package depgraph

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// BuildBlock constructs the dependency graph for a single basic block: one
// Inst node per instruction, one Argument node per use, wired to the Stack
// or Result node that supplies its value, plus one edge per control/data
// dependency. This drives codegen/schedule's traversal of the block
// (spec.md §4.4).
func BuildBlock(dfg *hir.DataFlowGraph, block hir.BlockID) *Graph {
	g := New()
	insts := dfg.BlockInsts(block)

	for pos, id := range insts {
		inst := dfg.InstByID(id)
		instID := g.AddNode(InstNode(id, uint16(pos)))

		for i, arg := range inst.Args() {
			g.AddDataDependency(instID, Argument{Kind: ArgDirect, Inst: id, Index: uint8(i)}, arg, block, dfg)
		}

		if cond := inst.Cond(); cond.Valid() {
			g.AddDataDependency(instID, Argument{Kind: ArgDirect, Inst: id, Index: uint8(len(inst.Args()))}, cond, block, dfg)
		}

		succs := inst.Successors()
		if len(succs) == 0 {
			continue
		}
		usedByAll := make(map[hir.Value]int)
		for _, s := range succs {
			seen := map[hir.Value]bool{}
			for _, a := range s.Args {
				if !seen[a] {
					seen[a] = true
					usedByAll[a]++
				}
			}
		}
		for s, succ := range succs {
			for i, arg := range succ.Args {
				kind := ArgIndirect
				if usedByAll[arg] != len(succs) {
					kind = ArgConditional
				}
				g.AddDataDependency(instID, Argument{Kind: kind, Inst: id, Index: uint8(i), Successor: uint8(s)}, arg, block, dfg)
			}
		}
	}

	return g
}
