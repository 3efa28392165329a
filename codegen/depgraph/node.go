// Package depgraph builds, per basic block, a directed acyclic graph of
// data and control dependencies between instructions, their arguments, and
// the values already live on the operand stack at block entry. It is the
// foundation codegen/schedule walks to decide emission order and
// copy-vs-move treatment of each operand (spec.md §4.4).
//
// Grounded throughout on
// _examples/original_source/hir-analysis/src/dependency_graph.rs.
package depgraph

import (
	"fmt"

	"github.com/0xPolygonMiden/compiler-sub002/hir"
)

// ArgumentKind discriminates the three ways a Node can represent an
// instruction's use of a value (dependency_graph.rs ArgumentNode).
type ArgumentKind uint8

const (
	// ArgDirect is a plain, non-control-flow argument of an instruction.
	ArgDirect ArgumentKind = iota
	// ArgIndirect is an argument passed along a specific successor edge of
	// a control-flow instruction (a block argument).
	ArgIndirect
	// ArgConditional is like ArgIndirect, but the value is only required
	// along a subset of the instruction's successor edges, so it may be
	// materialized conditionally.
	ArgConditional
)

// Argument identifies one use of a value by an instruction: either a direct
// operand, or a block argument passed along one successor edge.
type Argument struct {
	Kind      ArgumentKind
	Inst      hir.Inst
	Index     uint8
	Successor uint8 // meaningful only for ArgIndirect/ArgConditional
}

func (a Argument) String() string {
	switch a.Kind {
	case ArgDirect:
		return fmt.Sprintf("arg(%d of %s)", a.Index, a.Inst)
	case ArgIndirect:
		return fmt.Sprintf("block_arg(%d to %d of %s)", a.Index, a.Successor, a.Inst)
	default:
		return fmt.Sprintf("conditional_block_arg(%d to %d of %s)", a.Index, a.Successor, a.Inst)
	}
}

// less orders two arguments the same way dependency_graph.rs's Ord impl
// for ArgumentNode does: by instruction, then Direct before the two
// block-argument kinds (Indirect and Conditional rank equally), then by
// successor, then by index.
func (a Argument) less(b Argument) bool {
	if a.Inst != b.Inst {
		return a.Inst < b.Inst
	}
	aDirect, bDirect := a.Kind == ArgDirect, b.Kind == ArgDirect
	if aDirect != bDirect {
		return aDirect
	}
	if a.Successor != b.Successor {
		return a.Successor < b.Successor
	}
	return a.Index < b.Index
}

// kind discriminates the four Node variants.
type kind uint8

const (
	kindStack kind = iota
	kindArgument
	kindInst
	kindResult
)

// Node is one vertex of a DependencyGraph: a value already on the operand
// stack at block entry, an instruction, one of its arguments, or one of its
// results. Its natural ordering (via ID) determines visitation order during
// scheduling, so the four variants are ranked Stack < Argument < Inst <
// Result, matching dependency_graph.rs's Node enum declaration order.
type Node struct {
	kind  kind
	stack hir.Value
	arg   Argument
	inst  hir.Inst
	pos   uint16
	value hir.Value
	index uint8
}

// Stack returns a node representing a value already live on the operand
// stack when the block is entered.
func Stack(v hir.Value) Node { return Node{kind: kindStack, stack: v} }

// Arg returns a node representing one use of a value by an instruction.
func Arg(a Argument) Node { return Node{kind: kindArgument, arg: a} }

// InstNode returns a node representing an instruction at position pos within
// its containing block.
func InstNode(id hir.Inst, pos uint16) Node { return Node{kind: kindInst, inst: id, pos: pos} }

// Result returns a node representing the index-th result of an
// instruction, identified by its value.
func Result(v hir.Value, index uint8) Node {
	return Node{kind: kindResult, value: v, index: index}
}

// IsBlockLocal reports whether this node is defined within the current
// block, i.e. every variant except Stack.
func (n Node) IsBlockLocal() bool { return n.kind != kindStack }

// AsInstruction returns the instruction this node is, or belongs to, if any.
func (n Node) AsInstruction() (hir.Inst, bool) {
	switch n.kind {
	case kindInst:
		return n.inst, true
	case kindArgument:
		return n.arg.Inst, true
	default:
		return hir.InstInvalid, false
	}
}

// AsValue returns the value this node represents, for Stack and Result
// nodes.
func (n Node) AsValue() (hir.Value, bool) {
	switch n.kind {
	case kindStack:
		return n.stack, true
	case kindResult:
		return n.value, true
	default:
		return hir.ValueInvalid, false
	}
}

// AsArgument returns the Argument this node wraps, if it is an Argument node.
func (n Node) AsArgument() (Argument, bool) {
	if n.kind != kindArgument {
		return Argument{}, false
	}
	return n.arg, true
}

func (n Node) String() string {
	switch n.kind {
	case kindStack:
		return n.stack.String()
	case kindInst:
		return n.inst.String()
	case kindArgument:
		return n.arg.String()
	default:
		return fmt.Sprintf("result(%s)", n.value)
	}
}

// ID computes this node's packed NodeID.
func (n Node) ID() NodeID { return nodeID(n) }

// NodeID is a totally-ordered, packed encoding of Node, chosen so that
// comparing two NodeIDs as plain integers produces the same order as
// comparing their expanded Nodes (dependency_graph.rs NodeId).
type NodeID uint64

const (
	tagArgDirect   NodeID = 1 << 60
	tagArgIndirect NodeID = 2 << 60
	tagInst        NodeID = 3 << 60
	tagResult      NodeID = 4 << 60
	tagMask        NodeID = 0b111 << 60
	isConditional  NodeID = 1
)

func nodeID(n Node) NodeID {
	switch n.kind {
	case kindStack:
		return NodeID(n.stack)
	case kindInst:
		return tagInst | NodeID(n.inst)<<16 | NodeID(n.pos)
	case kindArgument:
		a := n.arg
		inst := NodeID(a.Inst) << 28
		index := NodeID(a.Index) << 12
		switch a.Kind {
		case ArgDirect:
			return tagArgDirect | inst | index
		case ArgIndirect:
			return tagArgIndirect | inst | NodeID(a.Successor)<<20 | index
		default:
			return tagArgIndirect | inst | NodeID(a.Successor)<<20 | index | isConditional
		}
	default:
		return tagResult | NodeID(n.index)<<52 | NodeID(n.value)
	}
}

// IsStack reports whether this id decodes to a Stack node.
func (id NodeID) IsStack() bool { return id&tagMask == 0 }

// IsResult reports whether this id decodes to a Result node.
func (id NodeID) IsResult() bool { return id&tagMask == tagResult }

// IsInstruction reports whether this id decodes to an Inst node.
func (id NodeID) IsInstruction() bool { return id&tagMask == tagInst }

// IsArgument reports whether this id decodes to an Argument node.
func (id NodeID) IsArgument() bool {
	tag := id & tagMask
	return tag == tagArgDirect || tag == tagArgIndirect
}

// Expand decodes id back into a Node. Panics if id does not correspond to a
// valid encoding.
func (id NodeID) Expand() Node {
	switch id & tagMask {
	case 0:
		return Node{kind: kindStack, stack: hir.Value(uint32(id))}
	case tagInst:
		pos := uint16(id)
		instID := hir.Inst(uint32(id >> 16))
		return Node{kind: kindInst, inst: instID, pos: pos}
	case tagArgDirect:
		shifted := id >> 12
		index := uint8(shifted)
		shifted >>= 16
		instID := hir.Inst(uint32(shifted))
		return Node{kind: kindArgument, arg: Argument{Kind: ArgDirect, Inst: instID, Index: index}}
	case tagArgIndirect:
		cond := id&isConditional == isConditional
		shifted := id >> 12
		index := uint8(shifted)
		shifted >>= 8
		successor := uint8(shifted)
		shifted >>= 8
		instID := hir.Inst(uint32(shifted))
		k := ArgIndirect
		if cond {
			k = ArgConditional
		}
		return Node{kind: kindArgument, arg: Argument{Kind: k, Inst: instID, Index: index, Successor: successor}}
	case tagResult:
		value := hir.Value(uint32(id))
		index := uint8(id >> 52)
		return Node{kind: kindResult, value: value, index: index}
	default:
		panic(fmt.Sprintf("BUG: invalid node id tag: %064b", uint64(id)))
	}
}

func (id NodeID) String() string { return id.Expand().String() }

// Dependency is one resolved edge of a DependencyGraph: dependent uses
// dependency's value.
type Dependency struct {
	Dependent  NodeID
	Dependency NodeID
}
