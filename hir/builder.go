package hir

import "fmt"

// ConcreteFunction is the only Function implementation in this module; it
// is a direct-construction HIR fixture (no variable/phi resolution, no
// dominance-aware construction) since upstream HIR building is out of
// scope (spec.md §1). Grounded loosely on internal/engine/wazevo/ssa's
// Builder/Function split, collapsed into one type since we don't need the
// teacher's incremental SSA-construction machinery (its job there is to
// convert non-SSA source, like WebAssembly locals, into SSA form; our test
// fixtures are authored directly in SSA form).
type ConcreteFunction struct {
	dfg    *DataFlowGraph
	id     string
	params []Value
	sig    Signature
}

// NewFunction creates an empty function with the given qualified name and
// signature.
func NewFunction(id string, sig Signature) *ConcreteFunction {
	return &ConcreteFunction{dfg: NewDataFlowGraph(), id: id, sig: sig}
}

func (f *ConcreteFunction) DFG() *DataFlowGraph  { return f.dfg }
func (f *ConcreteFunction) ID() string            { return f.id }
func (f *ConcreteFunction) Params() []Value       { return f.params }
func (f *ConcreteFunction) Signature() Signature  { return f.sig }

// CreateBlock allocates a new, empty block.
func (f *ConcreteFunction) CreateBlock() BlockID {
	id := BlockID(f.dfg.nextBlock)
	f.dfg.nextBlock++
	f.dfg.blocks[id] = &Block{id: id}
	return id
}

// SetEntryBlock designates b as the function's entry block and binds its
// parameters as the function's formal parameters.
func (f *ConcreteFunction) SetEntryBlock(b BlockID) {
	f.dfg.entry = b
	f.params = f.dfg.BlockParams(b)
}

// AddBlockParam appends a new parameter of type ty to block b, returning
// its value id.
func (f *ConcreteFunction) AddBlockParam(b BlockID, ty Type) Value {
	v := f.allocValue(ty, ValueData{IsParam: true})
	blk := f.dfg.BlockByID(b)
	blk.params = append(blk.params, Param{Value: v, Type: ty})
	return v
}

// addEdge records pred -> succ as a predecessor relationship (callers of
// the terminator-emitting methods below should not call this directly;
// it's invoked automatically).
func (f *ConcreteFunction) addEdge(pred, succ BlockID) {
	blk := f.dfg.BlockByID(succ)
	blk.preds = append(blk.preds, pred)
}

func (f *ConcreteFunction) allocValue(ty Type, data ValueData) Value {
	v := Value(f.dfg.nextValue)
	f.dfg.nextValue++
	f.dfg.types[v] = ty
	f.dfg.data[v] = data
	return v
}

func (f *ConcreteFunction) newInst(block BlockID, kind InstructionKind, resultTypes []Type) *Instruction {
	id := Inst(f.dfg.nextInst)
	f.dfg.nextInst++
	inst := &Instruction{id: id, block: block, kind: kind}
	f.dfg.insts[id] = inst
	for i, ty := range resultTypes {
		inst.results = append(inst.results, f.allocValue(ty, ValueData{Inst: id, Index: i}))
	}
	blk := f.dfg.BlockByID(block)
	blk.insts = append(blk.insts, id)
	return inst
}

// Ret appends a `ret` terminator returning the given values.
func (f *ConcreteFunction) Ret(block BlockID, vs ...Value) Inst {
	inst := f.newInst(block, KindRet, nil)
	inst.args = vs
	return inst.id
}

// RetImm appends a `ret.imm` terminator returning a literal.
func (f *ConcreteFunction) RetImm(block BlockID, imm Immediate) Inst {
	inst := f.newInst(block, KindRetImm, nil)
	inst.imm = imm
	return inst.id
}

// Br appends an unconditional branch to target, passing args as its block
// arguments.
func (f *ConcreteFunction) Br(block, target BlockID, args ...Value) Inst {
	inst := f.newInst(block, KindBr, nil)
	inst.succs = []Successor{{Block: target, Args: args}}
	f.addEdge(block, target)
	return inst.id
}

// CondBr appends a two-way conditional branch.
func (f *ConcreteFunction) CondBr(block BlockID, cond Value, thenBlk BlockID, thenArgs []Value, elseBlk BlockID, elseArgs []Value) Inst {
	inst := f.newInst(block, KindCondBr, nil)
	inst.cond = cond
	inst.succs = []Successor{{Block: thenBlk, Args: thenArgs}, {Block: elseBlk, Args: elseArgs}}
	f.addEdge(block, thenBlk)
	f.addEdge(block, elseBlk)
	return inst.id
}

// Switch appends a multi-way branch over cond's value to the given table of
// successors. Per spec.md §6, Switch must be lowered away before reaching
// the code generator; codegen/function refuses to schedule one. Call
// LowerSwitchToBranches on the owning function to rewrite it into a CondBr
// chain before handing the function to codegen/function.Compile.
func (f *ConcreteFunction) Switch(block BlockID, cond Value, table []Successor) Inst {
	inst := f.newInst(block, KindSwitch, nil)
	inst.cond = cond
	inst.succs = table
	for _, s := range table {
		f.addEdge(block, s.Block)
	}
	return inst.id
}

// GlobalValue appends a global-value reference, yielding a pointer-typed
// result.
func (f *ConcreteFunction) GlobalValue(block BlockID, name string, ty Type) (Inst, Value) {
	inst := f.newInst(block, KindGlobalValue, []Type{ty})
	inst.calleeName = name
	return inst.id, inst.results[0]
}

// UnaryOpImm appends a unary operation over an immediate operand.
func (f *ConcreteFunction) UnaryOpImm(block BlockID, op Opcode, mode OverflowMode, imm Immediate, resultTy Type) (Inst, Value) {
	inst := f.newInst(block, KindUnaryOpImm, []Type{resultTy})
	inst.op, inst.mode, inst.imm, inst.ty = op, mode, imm, resultTy
	return inst.id, inst.results[0]
}

// UnaryOp appends a unary operation over an SSA operand.
func (f *ConcreteFunction) UnaryOp(block BlockID, op Opcode, mode OverflowMode, arg Value, resultTy Type) (Inst, Value) {
	inst := f.newInst(block, KindUnaryOp, []Type{resultTy})
	inst.op, inst.mode, inst.args, inst.ty = op, mode, []Value{arg}, resultTy
	return inst.id, inst.results[0]
}

// BinaryOpImm appends a binary operation whose second operand is an immediate.
func (f *ConcreteFunction) BinaryOpImm(block BlockID, op Opcode, mode OverflowMode, a Value, imm Immediate, resultTy Type) (Inst, Value) {
	inst := f.newInst(block, KindBinaryOpImm, []Type{resultTy})
	inst.op, inst.mode, inst.args, inst.imm, inst.ty = op, mode, []Value{a}, imm, resultTy
	return inst.id, inst.results[0]
}

// BinaryOp appends a binary operation over two SSA operands.
func (f *ConcreteFunction) BinaryOp(block BlockID, op Opcode, mode OverflowMode, a, b Value, resultTy Type) (Inst, Value) {
	inst := f.newInst(block, KindBinaryOp, []Type{resultTy})
	inst.op, inst.mode, inst.args, inst.ty = op, mode, []Value{a, b}, resultTy
	return inst.id, inst.results[0]
}

// Test appends a boolean test (e.g. is_odd), always producing an I1.
func (f *ConcreteFunction) Test(block BlockID, op Opcode, arg Value) (Inst, Value) {
	inst := f.newInst(block, KindTest, []Type{TypeI1})
	inst.op, inst.args = op, []Value{arg}
	return inst.id, inst.results[0]
}

// Load appends a typed memory load from the given pointer.
func (f *ConcreteFunction) Load(block BlockID, ptr Value, resultTy Type) (Inst, Value) {
	inst := f.newInst(block, KindLoad, []Type{resultTy})
	inst.args, inst.ty = []Value{ptr}, resultTy
	return inst.id, inst.results[0]
}

// Store appends a typed memory store of val to the given pointer.
func (f *ConcreteFunction) Store(block BlockID, ptr, val Value) Inst {
	inst := f.newInst(block, KindStore, nil)
	inst.args = []Value{ptr, val}
	return inst.id
}

// PrimOp appends a miscellaneous primitive operation (e.g. inttoptr,
// ptrtoint, cast) over SSA operands.
func (f *ConcreteFunction) PrimOp(block BlockID, op Opcode, args []Value, resultTy Type) (Inst, Value) {
	inst := f.newInst(block, KindPrimOp, []Type{resultTy})
	inst.op, inst.args, inst.ty = op, args, resultTy
	return inst.id, inst.results[0]
}

// PrimOpImm appends a miscellaneous primitive operation over an immediate.
func (f *ConcreteFunction) PrimOpImm(block BlockID, op Opcode, imm Immediate, resultTy Type) (Inst, Value) {
	inst := f.newInst(block, KindPrimOpImm, []Type{resultTy})
	inst.op, inst.imm, inst.ty = op, imm, resultTy
	return inst.id, inst.results[0]
}

// Call appends a call to a named callee.
func (f *ConcreteFunction) Call(block BlockID, callee string, args []Value, resultTypes []Type) (Inst, []Value) {
	inst := f.newInst(block, KindCall, resultTypes)
	inst.calleeName, inst.args = callee, args
	return inst.id, inst.results
}

// InlineAsm appends an embedded MASM fragment.
func (f *ConcreteFunction) InlineAsm(block BlockID, asm *InlineAsmBlock, args []Value, resultTypes []Type) (Inst, []Value) {
	inst := f.newInst(block, KindInlineAsm, resultTypes)
	inst.asm, inst.args = asm, args
	return inst.id, inst.results
}

// removePred drops pred from block's predecessor list, used when rewiring
// an edge (spec.md §4.7 Phase 2 split-block materialisation, and Switch
// lowering).
func (f *ConcreteFunction) removePred(block, pred BlockID) {
	blk := f.dfg.BlockByID(block)
	for i, p := range blk.preds {
		if p == pred {
			blk.preds = append(blk.preds[:i], blk.preds[i+1:]...)
			return
		}
	}
}

// RedirectSuccessor rewrites the target block of one successor edge of a
// terminator in place, fixing up both endpoints' predecessor bookkeeping.
// Used when splicing a split block onto an edge (spec.md §4.7 Phase 2).
func (f *ConcreteFunction) RedirectSuccessor(term Inst, succIndex int, newTarget BlockID) {
	inst := f.dfg.InstByID(term)
	if succIndex >= len(inst.succs) {
		panic(fmt.Sprintf("BUG: successor index %d out of range for %s", succIndex, term))
	}
	old := inst.succs[succIndex].Block
	f.removePred(old, inst.block)
	inst.succs[succIndex].Block = newTarget
	f.addEdge(inst.block, newTarget)
}

// AppendSuccessorArgument appends a new block argument to one successor of
// a terminator, used when threading a freshly inserted block parameter
// (a reconstructed phi, spec.md §4.7 Phase 3) through an existing edge.
func (f *ConcreteFunction) AppendSuccessorArgument(term Inst, succIndex int, v Value) {
	inst := f.dfg.InstByID(term)
	if succIndex >= len(inst.succs) {
		panic(fmt.Sprintf("BUG: successor index %d out of range for %s", succIndex, term))
	}
	inst.succs[succIndex].Args = append(inst.succs[succIndex].Args, v)
}

// ReplaceCond overwrites the condition operand of a CondBr, used by the
// spill rewrite pass (spec.md §4.7 Phase 3) when a conditional's own
// condition value happened to be spilled.
func (f *ConcreteFunction) ReplaceCond(i Inst, v Value) {
	f.dfg.InstByID(i).cond = v
}

// insertBefore relocates the last element of s (assumed freshly appended)
// to sit immediately before target, shifting the intervening run right by
// one -- the splice primitive mid-block pseudo-instruction insertion needs.
func insertBefore(s []Inst, target, id Inst) []Inst {
	idx := -1
	for i, x := range s {
		if x == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic("BUG: insertion target instruction not found in its own block")
	}
	last := len(s) - 1
	copy(s[idx+1:], s[idx:last])
	s[idx] = id
	return s
}

// newInstBefore is like newInst, but splices the instruction immediately
// before target instead of appending it to the block's end. If target is
// InstInvalid, it behaves exactly like newInst (appends).
func (f *ConcreteFunction) newInstBefore(block BlockID, target Inst, kind InstructionKind, resultTypes []Type) *Instruction {
	inst := f.newInst(block, kind, resultTypes)
	if target.Valid() {
		blk := f.dfg.BlockByID(block)
		blk.insts = insertBefore(blk.insts, target, inst.id)
	}
	return inst
}

// Spill appends a pseudo-instruction that retires v from the operand stack
// into procedure-local slot local, inserted immediately before the
// instruction named by before (or at the block's end if before is
// InstInvalid). Spill/Reload only ever exist between codegen/spill's
// Materialize and Reconstruct phases (spec.md §4.7 Phase 2); codegen/
// function lowers a surviving one to a bare LocStore.
func (f *ConcreteFunction) Spill(block BlockID, before Inst, v Value, local LocalID) Inst {
	inst := f.newInstBefore(block, before, KindSpill, nil)
	inst.args = []Value{v}
	inst.local = local
	return inst.id
}

// Reload appends a pseudo-instruction that restores the value last spilled
// to local, producing a fresh SSA value of type ty; codegen/spill's
// Reconstruct phase rewrites dominated uses of the original value to this
// one, and codegen/function lowers a surviving Reload to a bare LocLoad.
func (f *ConcreteFunction) Reload(block BlockID, before Inst, v Value, ty Type, local LocalID) (Inst, Value) {
	inst := f.newInstBefore(block, before, KindReload, []Type{ty})
	inst.args = []Value{v}
	inst.ty = ty
	inst.local = local
	return inst.id, inst.results[0]
}
