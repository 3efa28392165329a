package function

import (
	"github.com/0xPolygonMiden/compiler-sub002/codegen/operand"
	"github.com/0xPolygonMiden/compiler-sub002/codegen/schedule"
	"github.com/0xPolygonMiden/compiler-sub002/hir"
	"github.com/0xPolygonMiden/compiler-sub002/masm"
)

// emitSpill lowers a surviving Spill pseudo-instruction to a bare local
// store: its one argument is scheduled onto the top of the stack exactly
// like a real use (it genuinely must be materialized there), then popped
// into the procedure-local slot codegen/spill assigned it (spec.md §4.7
// Phase 2/3).
func (be *blockEmitter) emitSpill(inst *hir.Instruction, info *schedule.InstInfo) error {
	if err := be.scheduleArgs(info.Args); err != nil {
		return err
	}
	be.stack.Drop()
	be.target.Push(masm.LocStore(inst.Local()))
	return nil
}

// emitReload lowers a surviving Reload pseudo-instruction to a bare local
// load, producing a fresh SSA value. A Reload carries no real stack
// argument of its own (the value it restores left the stack at its Spill
// site and must not be treated as still reachable there), so nothing is
// scheduled first.
func (be *blockEmitter) emitReload(inst *hir.Instruction) {
	be.target.Push(masm.LocLoad(inst.Local()))
	be.stack.Push(operand.NewFromType(inst.Type()))
	be.stack.Rename(0, inst.Results()[0])
}
