// Package operand implements the operand-stack abstraction the emitter
// reasons about the VM's actual operand stack through (spec.md §4.1).
// Grounded throughout on
// _examples/original_source/codegen/masm/src/codegen/stack.rs.
package operand

import "github.com/0xPolygonMiden/compiler-sub002/hir"

// ConstantValue is either a literal immediate, or a large immediate that
// has been torn down into raw bytes by repeated Operand.Pop calls
// (stack.rs ConstantValue).
type ConstantValue struct {
	imm     hir.Immediate
	bytes   []byte
	isBytes bool
}

// NewConstantImm wraps a typed immediate.
func NewConstantImm(imm hir.Immediate) ConstantValue { return ConstantValue{imm: imm} }

// NewConstantBytes wraps a raw byte sequence, used once a wide immediate has
// been torn past the point where its original type still applies.
func NewConstantBytes(b []byte) ConstantValue {
	return ConstantValue{bytes: append([]byte(nil), b...), isBytes: true}
}

// Type returns the type this constant presents to the operand stack.
func (c ConstantValue) Type() hir.Type {
	if c.isBytes {
		return hir.NewArray(hir.TypeU8, len(c.bytes))
	}
	return c.imm.Type()
}

// Immediate returns the wrapped immediate, if this is not a byte constant.
func (c ConstantValue) Immediate() (hir.Immediate, bool) {
	if c.isBytes {
		return hir.Immediate{}, false
	}
	return c.imm, true
}

// Bytes returns the wrapped byte sequence, if this is a byte constant.
func (c ConstantValue) Bytes() ([]byte, bool) {
	if !c.isBytes {
		return nil, false
	}
	return c.bytes, true
}

// Equal reports structural equality.
func (c ConstantValue) Equal(o ConstantValue) bool {
	if c.isBytes != o.isBytes {
		return false
	}
	if c.isBytes {
		if len(c.bytes) != len(o.bytes) {
			return false
		}
		for i := range c.bytes {
			if c.bytes[i] != o.bytes[i] {
				return false
			}
		}
		return true
	}
	return c.imm.Equal(o.imm)
}
