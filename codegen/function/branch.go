package function

import (
	"github.com/0xPolygonMiden/compiler-sub002/codegen/emit"
	"github.com/0xPolygonMiden/compiler-sub002/codegen/schedule"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

// emitRet arranges the function's return values on top of the stack, in
// declaration order bottom-to-top (scheduleArgs' usual convention), then
// discards everything below them.
func (be *blockEmitter) emitRet(info *schedule.InstInfo) error {
	if err := be.scheduleArgs(info.Args); err != nil {
		return err
	}
	be.truncateStack(len(info.Args))
	return nil
}

// emitRetImm is RetImm: a single literal return value.
func (be *blockEmitter) emitRetImm(inst *hir.Instruction) error {
	em := emit.New(be.target, be.stack)
	emit.PushImmediate(em, inst.Immediate())
	be.truncateStack(1)
	return nil
}

// truncateStack discards every operand below the top n, preserving their
// relative order: repeatedly movup the deepest remaining element to the top
// and drop it, which shifts the surviving top n down and back by exactly
// one slot each time, leaving their order untouched (spec.md §4.6 Ret
// handling).
func (be *blockEmitter) truncateStack(n int) {
	for be.stack.Len() > n {
		pos := be.stack.Len() - 1
		if pos != 0 {
			be.target.Push(masm.Movup(uint8(pos)))
			be.stack.Movup(pos)
		}
		be.target.Push(masm.Drop())
		be.stack.Drop()
	}
}

// bindBlockParams schedules args onto the stack and renames the resulting
// top-of-stack operands to target's own block parameters, symmetric
// position-for-position (scheduleArgs' "last argument ends up on top"
// convention applies identically to a block's declared parameter list).
func (be *blockEmitter) bindBlockParams(target hir.BlockID, args []schedule.ArgInfo) error {
	if err := be.scheduleArgs(args); err != nil {
		return err
	}
	params := be.e.fn.DFG().BlockByID(target).Params()
	for i, p := range params {
		pos := len(params) - 1 - i
		be.stack.Rename(pos, p.Value)
	}
	return nil
}

// emitLiteral pushes a bare boolean literal that is never tracked as an
// operand: the true/false chain a tail-duplicated loop header leaves for
// its enclosing While(s) to consume directly as their continue condition
// (spec.md §4.6).
func (be *blockEmitter) emitLiteral(v bool) {
	if v {
		be.target.Push(masm.PushU8(1))
		return
	}
	be.target.Push(masm.PushU8(0))
}

// emitBr lowers an unconditional branch. The first time a block is reached
// this way, its successor is scheduled to run next (wrapped in a fresh
// While if the branching block is itself a loop header); a second visit
// can only be a loop header's back edge being tail-duplicated, which
// instead leaves a continue/break boolean chain for the enclosing While(s).
func (be *blockEmitter) emitBr(inst *hir.Instruction, info *schedule.InstInfo, tasks *[]*task) error {
	succ := inst.Successors()[0]
	if err := be.bindBlockParams(succ.Block, info.BlockArguments(succ.Block)); err != nil {
		return err
	}

	if !be.wasVisited {
		if be.e.loops.IsLoopHeader(be.block) {
			bodyBlk := be.e.out.CreateBlock()
			be.target.Push(masm.PushU8(1))
			be.target.Push(masm.While(bodyBlk))
			*tasks = append(*tasks, &task{
				kind: taskBlock, block: succ.Block, target: bodyBlk,
				loopLevel: be.e.loopLevel(succ.Block), stack: be.stack,
			})
		} else {
			*tasks = append(*tasks, &task{
				kind: taskInline, block: succ.Block, target: be.target,
				loopLevel: be.loopLevel, stack: be.stack,
			})
		}
		return nil
	}

	if !be.e.loops.IsLoopHeader(be.block) {
		panic("BUG: re-entered a non-loop-header block " + be.block.String())
	}
	currentLevel := be.loopLevel
	targetLevel := be.e.loopLevel(succ.Block)
	be.emitLiteral(true)
	for i := 0; i < currentLevel-targetLevel; i++ {
		be.emitLiteral(false)
	}
	return nil
}

// emitCondBr lowers a two-way conditional branch to a MASM If(then, else),
// forking the operand stack independently down each arm.
func (be *blockEmitter) emitCondBr(inst *hir.Instruction, info *schedule.InstInfo, tasks *[]*task) error {
	if err := be.scheduleArgs(info.Args); err != nil {
		return err
	}
	be.stack.Drop() // the condition itself

	succs := inst.Successors()
	thenSucc, elseSucc := succs[0], succs[1]

	if !be.wasVisited {
		ifTarget := be.target
		if be.e.loops.IsLoopHeader(be.block) {
			bodyBlk := be.e.out.CreateBlock()
			be.target.Push(masm.PushU8(1))
			be.target.Push(masm.While(bodyBlk))
			ifTarget = bodyBlk
		}

		thenBlk := be.e.out.CreateBlock()
		elseBlk := be.e.out.CreateBlock()
		ifTarget.Push(masm.If(thenBlk, elseBlk))

		if err := be.forkSuccessor(thenSucc, info, thenBlk, tasks); err != nil {
			return err
		}
		if err := be.forkSuccessor(elseSucc, info, elseBlk, tasks); err != nil {
			return err
		}
		return nil
	}

	if !be.e.loops.IsLoopHeader(be.block) {
		panic("BUG: re-entered a non-loop-header block " + be.block.String())
	}
	// The back edge of a tail-duplicated loop header always continues
	// through its first successor; spec.md §4.6 scopes the general
	// multi-successor revisit case out, since every retrieved loop example
	// has exactly one back-edge successor.
	currentLevel := be.loopLevel
	targetLevel := be.e.loopLevel(thenSucc.Block)
	be.emitLiteral(true)
	for i := 0; i < currentLevel-targetLevel; i++ {
		be.emitLiteral(false)
	}
	_ = elseSucc
	return nil
}

// forkSuccessor clones the operand stack, binds succ's block arguments on
// the clone, and queues a task to emit succ's block into target, so the
// then/else arms of a conditional each see their own independent future.
func (be *blockEmitter) forkSuccessor(succ hir.Successor, info *schedule.InstInfo, target *masm.Block, tasks *[]*task) error {
	forked := be.stack.Clone()
	saved := be.stack
	be.stack = forked
	err := be.bindBlockParams(succ.Block, info.BlockArguments(succ.Block))
	be.stack = saved
	if err != nil {
		return err
	}
	*tasks = append(*tasks, &task{
		kind: taskBlock, block: succ.Block, target: target,
		loopLevel: be.e.loopLevel(succ.Block), stack: forked,
	})
	return nil
}
