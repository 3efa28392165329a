// Package schedule decides, for one basic block, which order instructions
// are emitted in and whether each value they produce or consume is moved
// or copied on the operand stack (spec.md §4.4). It is the layer between
// codegen/depgraph (what depends on what) and codegen/emit/codegen/function
// (which actually push MASM ops).
package schedule

import (
	"github.com/0xPolygonMiden/compiler-sub002/codegen/depgraph"
	"github.com/0xPolygonMiden/compiler-sub002/codegen/operand"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

// ArgInfo pairs a value with the move/copy treatment the scheduler decided
// for this particular use of it.
type ArgInfo struct {
	Value      hir.Value
	Constraint operand.Constraint
}

// InstInfo carries the scheduler's resolved per-argument constraints for one
// instruction: its direct (and conditional) arguments, plus, for
// terminators, the block arguments bound to each successor. The function
// emitter feeds InstInfo.Args and InstInfo.BlockArguments directly to the
// operand-movement solver.
type InstInfo struct {
	ID        hir.Inst
	Block     hir.BlockID
	Args      []ArgInfo
	blockArgs map[hir.BlockID][]ArgInfo
}

// BlockArguments returns the resolved constraints for the arguments passed
// to successor target, in argument order.
func (ii *InstInfo) BlockArguments(target hir.BlockID) []ArgInfo {
	return ii.blockArgs[target]
}

// ActionKind enumerates the steps of a Schedule.
type ActionKind uint8

const (
	// ActionInit marks the start of the block; the emitter reconciles the
	// incoming operand stack against the block's live-in set before any
	// other action runs.
	ActionInit ActionKind = iota
	// ActionInst emits one instruction, using its InstInfo.
	ActionInst
	// ActionDrop discards a value that was computed but is never used.
	ActionDrop
	// ActionEnter begins materializing the conditional block arguments
	// bound to one successor of the block's terminator.
	ActionEnter
	// ActionExit ends materializing a successor's conditional block
	// arguments.
	ActionExit
)

// Action is one step of a block's Schedule.
type Action struct {
	Kind      ActionKind
	Inst      hir.Inst     // ActionInst
	Value     hir.Value    // ActionDrop
	Successor hir.BlockID  // ActionEnter / ActionExit
}

// Schedule is the ordered plan the function emitter consumes for one block.
type Schedule struct {
	Actions []Action
	Insts   map[hir.Inst]*InstInfo
}

// Build walks block's instructions in program order -- already a valid
// emission order for straight-line SSA code -- resolving, via the block's
// dependency graph, whether each value use is a Move or a Copy: a value
// used more than once within the block, or live out of it, must be copied;
// otherwise the single use may consume it. Trailing ActionDrop entries
// discard instruction results that have zero uses and are not live-out,
// restricted to the dead-within-block case since the scheduler operates one
// block at a time. Only results that g holds a Result node for are
// considered: depgraph.BuildBlock adds a Result node only for a result that
// some argument in the block uses, so a graph built by it yields no
// ActionDrop entries.
func Build(dfg *hir.DataFlowGraph, block hir.BlockID, g *depgraph.Graph, liveOut map[hir.Value]struct{}) *Schedule {
	s := &Schedule{Insts: make(map[hir.Inst]*InstInfo)}
	s.Actions = append(s.Actions, Action{Kind: ActionInit})

	for _, id := range dfg.BlockInsts(block) {
		inst := dfg.InstByID(id)

		info := &InstInfo{ID: id, Block: block, blockArgs: make(map[hir.BlockID][]ArgInfo)}
		for _, arg := range inst.Args() {
			info.Args = append(info.Args, ArgInfo{Value: arg, Constraint: constraintFor(g, dfg, block, arg, liveOut)})
		}
		if cond := inst.Cond(); cond.Valid() {
			info.Args = append(info.Args, ArgInfo{Value: cond, Constraint: constraintFor(g, dfg, block, cond, liveOut)})
		}
		for _, succ := range inst.Successors() {
			args := make([]ArgInfo, 0, len(succ.Args))
			for _, a := range succ.Args {
				args = append(args, ArgInfo{Value: a, Constraint: constraintFor(g, dfg, block, a, liveOut)})
			}
			info.blockArgs[succ.Block] = args
		}

		s.Insts[id] = info
		s.Actions = append(s.Actions, Action{Kind: ActionInst, Inst: id})
	}

	for _, v := range deadResults(dfg, block, g, liveOut) {
		s.Actions = append(s.Actions, Action{Kind: ActionDrop, Value: v})
	}

	return s
}

// sourceNode resolves the dependency-graph node that defines v from the
// perspective of block: a Result node if v is produced by an instruction
// in this same block, a Stack node otherwise (block parameter, or defined
// by a different block and already live on the stack at entry).
func sourceNode(dfg *hir.DataFlowGraph, block hir.BlockID, v hir.Value) depgraph.NodeID {
	data := dfg.ValueDataOf(v)
	if data.IsParam {
		return depgraph.Stack(v).ID()
	}
	if dfg.InstByID(data.Inst).Block() != block {
		return depgraph.Stack(v).ID()
	}
	return depgraph.Result(v, uint8(data.Index)).ID()
}

func constraintFor(g *depgraph.Graph, dfg *hir.DataFlowGraph, block hir.BlockID, v hir.Value, liveOut map[hir.Value]struct{}) operand.Constraint {
	src := sourceNode(dfg, block, v)
	if g.Contains(src) && g.NumPredecessors(src) > 1 {
		return operand.Copy
	}
	if _, ok := liveOut[v]; ok {
		return operand.Copy
	}
	return operand.Move
}

func deadResults(dfg *hir.DataFlowGraph, block hir.BlockID, g *depgraph.Graph, liveOut map[hir.Value]struct{}) []hir.Value {
	var out []hir.Value
	for _, id := range dfg.BlockInsts(block) {
		for _, v := range dfg.InstResults(id) {
			node := depgraph.Result(v, uint8(dfg.ValueDataOf(v).Index)).ID()
			if !g.Contains(node) {
				continue
			}
			if g.NumPredecessors(node) != 0 {
				continue
			}
			if _, ok := liveOut[v]; ok {
				continue
			}
			out = append(out, v)
		}
	}
	return out
}
