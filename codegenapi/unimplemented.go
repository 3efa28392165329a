package codegenapi

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// UnimplementedError reports an opcode/type combination the emitter has not
// implemented yet (spec.md §7 "unsupported-but-legal combinations"). Unlike
// the programmer-error panics used for invariant violations elsewhere in
// codegen/*, this is a recoverable, typed error: it carries the opcode and
// type so the caller can decide what to do (abort the containing function's
// compilation, report it, skip it in a test sweep).
type UnimplementedError struct {
	Opcode string
	Type   string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("unimplemented: opcode %q for type %s", e.Opcode, e.Type)
}

// Unimplemented constructs an UnimplementedError wrapped with a stack trace
// via github.com/pkg/errors, so the caller's abort path can print where
// emission gave up without needing its own trace-capturing machinery.
func Unimplemented(opcode, ty string) error {
	return errors.WithStack(&UnimplementedError{Opcode: opcode, Type: ty})
}

// IsUnimplemented reports whether err is (or wraps) an UnimplementedError.
func IsUnimplemented(err error) bool {
	var target *UnimplementedError
	return stderrors.As(err, &target)
}
