package function

import (
	"github.com/0xPolygonMiden/compiler-sub002/codegen/depgraph"
	"github.com/0xPolygonMiden/compiler-sub002/codegen/operand"
	"github.com/0xPolygonMiden/compiler-sub002/codegen/schedule"
	"github.com/0xPolygonMiden/compiler-sub002/codegen/solver"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

// blockEmitter emits one HIR block's worth of instructions into target,
// tracking the operand stack as it goes. A fresh blockEmitter is built per
// task popped off the treeified traversal's work list.
type blockEmitter struct {
	e          *Emitter
	block      hir.BlockID
	target     *masm.Block
	stack      *operand.OperandStack
	loopLevel  int
	wasVisited bool
}

// emit runs the block's schedule end to end, appending tasks to *tasks for
// any successor block this block's terminator reaches.
func (be *blockEmitter) emit(tasks *[]*task) error {
	dfg := be.e.fn.DFG()
	g := depgraph.BuildBlock(dfg, be.block)
	liveOut := be.e.liveness.LiveOut(be.block)
	sched := schedule.Build(dfg, be.block, g, liveOut)

	for _, action := range sched.Actions {
		switch action.Kind {
		case schedule.ActionInit, schedule.ActionEnter, schedule.ActionExit:
			continue
		case schedule.ActionDrop:
			be.dropValue(action.Value)
		case schedule.ActionInst:
			info := sched.Insts[action.Inst]
			inst := dfg.InstByID(action.Inst)
			if err := be.emitInst(inst, info, tasks); err != nil {
				return err
			}
		}
	}
	return nil
}

// dropValue discards v wherever it currently sits on the stack: movup it to
// the top (unless it already is the top), then drop it. Per spec.md §4.6's
// "option (b)", this is a deliberately simple greedy per-operand strategy,
// not the batch-optimized drop sequence the original computes.
func (be *blockEmitter) dropValue(v hir.Value) {
	pos, ok := be.stack.Find(v)
	if !ok {
		return
	}
	if pos > 0 {
		be.target.Push(masm.Movup(uint8(pos)))
		be.stack.Movup(pos)
	}
	be.target.Push(masm.Drop())
	be.stack.Drop()
}

// scheduleArgs arranges args onto the top of the stack for an instruction's
// consumption, in declaration order bottom-to-top: the last entry of args
// ends up on top. This is the one place the convention "an argument list
// reads bottom-to-top" is applied, uniformly, for every multi-operand
// instruction kind (spec.md §4.6 decision on solver argument order) --
// matching codegen/emit.BinaryOp's documented "rhs on top, lhs just below
// it" for a two-argument (lhs, rhs) instruction.
func (be *blockEmitter) scheduleArgs(args []schedule.ArgInfo) error {
	if len(args) == 0 {
		return nil
	}
	expected := make([]hir.Value, len(args))
	constraints := make([]operand.Constraint, len(args))
	for i := range args {
		j := len(args) - 1 - i
		expected[i] = args[j].Value
		constraints[i] = args[j].Constraint
	}
	ops, err := solver.Solve(expected, constraints, be.stack)
	if err != nil {
		return err
	}
	be.applySolverOps(ops)
	return nil
}

// applySolverOps translates a resolved sequence of solver primitives into
// MASM ops. solver.Solve has already applied the equivalent mutations to
// be.stack, so this only needs to emit.
func (be *blockEmitter) applySolverOps(ops []solver.Op) {
	for _, op := range ops {
		switch op.Kind {
		case solver.OpDup:
			be.target.Push(masm.Dup(uint8(op.N)))
		case solver.OpSwap:
			be.target.Push(masm.Swap(uint8(op.N)))
		case solver.OpMovup:
			be.target.Push(masm.Movup(uint8(op.N)))
		case solver.OpMovdn:
			be.target.Push(masm.Movdn(uint8(op.N)))
		case solver.OpDropn:
			for i := 0; i < op.N; i++ {
				be.target.Push(masm.Drop())
			}
		default:
			be.target.Push(masm.Drop())
		}
	}
}

// renameResults tags the operands an emission just pushed with their real
// SSA identities. before is the stack depth beneath the instruction's own
// scheduled arguments, i.e. what remains once emission has consumed them;
// results is the instruction's declared result list.
// Only the bottom len(results) of the newly produced operands are renamed,
// since Overflowing mode pushes one extra, unnameable I1 flag above a
// Binary/UnaryOp's single declared result (a pre-existing builder
// limitation, not something this package works around).
func (be *blockEmitter) renameResults(before int, results []hir.Value) {
	produced := be.stack.Len() - before
	for i, v := range results {
		pos := produced - len(results) + i
		be.stack.Rename(pos, v)
	}
}
