package hir

import "fmt"

// DataFlowGraph owns the blocks, instructions, and values of one Function
// (spec.md §6). Method names follow the snake_case original 1:1 in spirit,
// translated to Go's exported-CamelCase convention.
type DataFlowGraph struct {
	entry BlockID
	blocks map[BlockID]*Block
	insts  map[Inst]*Instruction
	types  map[Value]Type
	data   map[Value]ValueData
	locals []Type
	nextBlock uint32
	nextInst  uint32
	nextValue uint32
}

// NewDataFlowGraph returns an empty graph; use the Builder to populate it.
func NewDataFlowGraph() *DataFlowGraph {
	return &DataFlowGraph{
		blocks: make(map[BlockID]*Block),
		insts:  make(map[Inst]*Instruction),
		types:  make(map[Value]Type),
		data:   make(map[Value]ValueData),
		entry:  BlockIDInvalid,
	}
}

// EntryBlock returns the function's entry block id.
func (g *DataFlowGraph) EntryBlock() BlockID { return g.entry }

// BlockByID returns the block with the given id.
func (g *DataFlowGraph) BlockByID(id BlockID) *Block {
	b, ok := g.blocks[id]
	if !ok {
		panic("BUG: unknown block id: " + id.String())
	}
	return b
}

// InstByID returns the instruction with the given id.
func (g *DataFlowGraph) InstByID(id Inst) *Instruction {
	i, ok := g.insts[id]
	if !ok {
		panic("BUG: unknown inst id: " + id.String())
	}
	return i
}

// ValueType returns the type of value v.
func (g *DataFlowGraph) ValueType(v Value) Type {
	t, ok := g.types[v]
	if !ok {
		panic("BUG: unknown value: " + v.String())
	}
	return t
}

// ValueDataOf returns how v was defined.
func (g *DataFlowGraph) ValueDataOf(v Value) ValueData {
	d, ok := g.data[v]
	if !ok {
		panic("BUG: unknown value: " + v.String())
	}
	return d
}

// InstArgs returns the plain argument list of an instruction (not including
// block-argument lists carried on terminators' Successors).
func (g *DataFlowGraph) InstArgs(i Inst) []Value { return g.InstByID(i).args }

// InstResults returns all results produced by an instruction.
func (g *DataFlowGraph) InstResults(i Inst) []Value { return g.InstByID(i).results }

// FirstResult returns the first (and often only) result of an instruction.
func (g *DataFlowGraph) FirstResult(i Inst) Value {
	r := g.InstResults(i)
	if len(r) == 0 {
		return ValueInvalid
	}
	return r[0]
}

// BlockParams returns the parameter values of a block, in order.
func (g *DataFlowGraph) BlockParams(b BlockID) []Value {
	params := g.BlockByID(b).Params()
	vs := make([]Value, len(params))
	for i, p := range params {
		vs[i] = p.Value
	}
	return vs
}

// BlockInsts returns the instruction ids of a block, in program order.
func (g *DataFlowGraph) BlockInsts(b BlockID) []Inst { return g.BlockByID(b).Insts() }

// AllocLocal allocates a fresh procedure-local slot of the given type,
// returning its id (spec.md §6 alloc_local). Used by codegen/spill when
// lowering Spill/Reload pseudo-instructions to LocStore/LocLoad.
func (g *DataFlowGraph) AllocLocal(ty Type) LocalID {
	id := LocalID(len(g.locals))
	g.locals = append(g.locals, ty)
	return id
}

// LocalType returns the type of a previously allocated local.
func (g *DataFlowGraph) LocalType(id LocalID) Type { return g.locals[id] }

// NumLocals returns the number of allocated procedure locals.
func (g *DataFlowGraph) NumLocals() int { return len(g.locals) }

// ReplaceSuccessorArgument overwrites the index-th block argument passed to
// the succ-th successor of a terminator instruction.
func (g *DataFlowGraph) ReplaceSuccessorArgument(i Inst, succIndex, argIndex int, v Value) {
	inst := g.InstByID(i)
	if succIndex >= len(inst.succs) {
		panic(fmt.Sprintf("BUG: successor index %d out of range for %s", succIndex, i))
	}
	inst.succs[succIndex].Args[argIndex] = v
}

// ReplaceArgument overwrites the index-th plain argument of an instruction.
func (g *DataFlowGraph) ReplaceArgument(i Inst, index int, v Value) {
	inst := g.InstByID(i)
	if index >= len(inst.args) {
		panic(fmt.Sprintf("BUG: argument index %d out of range for %s", index, i))
	}
	inst.args[index] = v
}

// AnalyzeBranch classifies a (potential) terminator (spec.md §6).
func (g *DataFlowGraph) AnalyzeBranch(i Inst) BranchAnalysis {
	inst := g.InstByID(i)
	switch inst.kind {
	case KindBr:
		return BranchAnalysis{Kind: SingleDest, Block: inst.succs[0].Block, Args: inst.succs[0].Args}
	case KindCondBr:
		return BranchAnalysis{Kind: MultiDest, Table: inst.succs}
	case KindSwitch:
		return BranchAnalysis{Kind: MultiDest, Table: inst.succs}
	default:
		return BranchAnalysis{Kind: NotABranch}
	}
}
