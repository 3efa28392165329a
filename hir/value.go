package hir

import "fmt"

// Value is an opaque 32-bit external identifier for an SSA value,
// interned by the HIR owner (spec.md §3 "Value identity"). The core never
// allocates these; it only reads them through the interface in this
// package. Grounded on internal/engine/wazevo/ssa.Value's packed-id idiom,
// though here the packing is a plain uint32 since type information is
// looked up through DataFlowGraph rather than carried in the id itself --
// HIR values, unlike the teacher's SSA values, are owned externally and we
// must not assume we can smuggle extra bits into their identity.
type Value uint32

// ValueInvalid is the all-ones id, used as a sentinel.
const ValueInvalid Value = 0xFFFFFFFF

// Valid reports whether v is a real value id.
func (v Value) Valid() bool { return v != ValueInvalid }

// String implements fmt.Stringer.
func (v Value) String() string {
	if v == ValueInvalid {
		return "v_invalid"
	}
	return fmt.Sprintf("v%d", uint32(v))
}

// Inst is an opaque 32-bit external identifier for an instruction.
type Inst uint32

// InstInvalid is the all-ones id, used as a sentinel.
const InstInvalid Inst = 0xFFFFFFFF

// Valid reports whether i is a real instruction id.
func (i Inst) Valid() bool { return i != InstInvalid }

// String implements fmt.Stringer.
func (i Inst) String() string {
	if i == InstInvalid {
		return "inst_invalid"
	}
	return fmt.Sprintf("inst%d", uint32(i))
}

// LocalID identifies a procedure-local slot allocated via
// DataFlowGraph.AllocLocal (spec.md §6).
type LocalID uint32

// ValueData describes how a Value was defined: either as a block parameter,
// or as the index-th result of an instruction (spec.md §6 value_data).
type ValueData struct {
	IsParam bool
	Inst    Inst
	Index   int
}
