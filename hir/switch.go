package hir

// LowerSwitchToBranches rewrites every Switch instruction in f into an
// equivalent chain of CondBr comparisons against the switch's scrutinee,
// terminated by an unconditional Br to the jump table's final entry. It is
// an opt-in upstream-side helper (SPEC_FULL.md §14 Switch lowering
// decision): front ends that still produce Switch call this before handing
// the function to codegen/function.Compile, which refuses to encounter a
// Switch instruction at all.
func LowerSwitchToBranches(f *ConcreteFunction) {
	ids := make([]BlockID, 0, len(f.dfg.blocks))
	for id := range f.dfg.blocks {
		ids = append(ids, id)
	}
	for _, b := range ids {
		term := f.dfg.BlockByID(b).Terminator()
		if !term.Valid() {
			continue
		}
		inst := f.dfg.InstByID(term)
		if inst.kind != KindSwitch {
			continue
		}
		lowerSwitch(f, b, inst)
	}
}

func lowerSwitch(f *ConcreteFunction, block BlockID, inst *Instruction) {
	cond := inst.cond
	table := append([]Successor(nil), inst.succs...)
	if len(table) == 0 {
		panic("BUG: cannot lower an empty switch table in " + block.String())
	}
	condTy := f.dfg.ValueType(cond)
	removeTerminator(f, block, inst)

	current := block
	for i := 0; i < len(table)-1; i++ {
		_, eq := f.BinaryOpImm(current, OpEq, Unchecked, cond, NewImmediate(condTy, uint64(i)), TypeI1)
		next := f.CreateBlock()
		f.CondBr(current, eq, table[i].Block, table[i].Args, next, nil)
		current = next
	}
	last := table[len(table)-1]
	f.Br(current, last.Block, last.Args...)
}

// removeTerminator excises inst from block's instruction list and reverts
// the predecessor edges it had recorded on its successors, in preparation
// for replacing it with an equivalent instruction sequence.
func removeTerminator(f *ConcreteFunction, block BlockID, inst *Instruction) {
	blk := f.dfg.BlockByID(block)
	for i, id := range blk.insts {
		if id == inst.id {
			blk.insts = append(blk.insts[:i], blk.insts[i+1:]...)
			break
		}
	}
	for _, s := range inst.succs {
		f.removePred(s.Block, block)
	}
	delete(f.dfg.insts, inst.id)
}
