// Package require is a minimal, dependency-free test-assertion helper,
// modeled on the teacher's own internal/testing/require package: a handful
// of Fatal-on-failure checks rather than a full matcher library, since this
// module's tests only ever need a handful of shapes (equality, error
// identity, nilness, boolean outcomes, panics).
package require

import (
	"errors"
	"fmt"
	"reflect"
)

// TestingT is the subset of *testing.T these helpers need, so they can run
// against a mock in this package's own tests.
type TestingT interface {
	Fatal(args ...interface{})
}

func fail(t TestingT, msg string, format string, args ...interface{}) {
	if format != "" {
		msg = fmt.Sprintf("%s: %s", msg, fmt.Sprintf(format, args...))
	}
	t.Fatal(msg)
}

// CapturePanic runs fn and returns the recovered panic value as an error,
// or nil if fn didn't panic.
func CapturePanic(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	fn()
	return nil
}

// Equal fails unless expected and actual compare equal with reflect.DeepEqual.
func Equal(t TestingT, expected, actual interface{}, formatAndArgs ...interface{}) {
	if reflect.DeepEqual(expected, actual) {
		return
	}
	format, args := splitFormat(formatAndArgs)
	fail(t, fmt.Sprintf("expected %#v, but was %#v", expected, actual), format, args...)
}

// NotEqual fails if expected and actual compare equal with reflect.DeepEqual.
func NotEqual(t TestingT, expected, actual interface{}, formatAndArgs ...interface{}) {
	if !reflect.DeepEqual(expected, actual) {
		return
	}
	format, args := splitFormat(formatAndArgs)
	fail(t, fmt.Sprintf("expected to not equal %#v", actual), format, args...)
}

// Error fails unless err is non-nil.
func Error(t TestingT, err error, formatAndArgs ...interface{}) {
	if err != nil {
		return
	}
	format, args := splitFormat(formatAndArgs)
	fail(t, "expected an error, but was nil", format, args...)
}

// NoError fails unless err is nil.
func NoError(t TestingT, err error, formatAndArgs ...interface{}) {
	if err == nil {
		return
	}
	format, args := splitFormat(formatAndArgs)
	fail(t, fmt.Sprintf("expected no error, but was %v", err), format, args...)
}

// EqualError fails unless err is non-nil and err.Error() == msg.
func EqualError(t TestingT, err error, msg string, formatAndArgs ...interface{}) {
	format, args := splitFormat(formatAndArgs)
	if err == nil {
		fail(t, "expected an error, but was nil", format, args...)
		return
	}
	if err.Error() != msg {
		fail(t, fmt.Sprintf("expected error %q, but was %q", msg, err.Error()), format, args...)
	}
}

// ErrorIs fails unless errors.Is(err, target).
func ErrorIs(t TestingT, err, target error, formatAndArgs ...interface{}) {
	if errors.Is(err, target) {
		return
	}
	format, args := splitFormat(formatAndArgs)
	fail(t, fmt.Sprintf("expected errors.Is(%v, %v), but it wasn't", err, target), format, args...)
}

// Nil fails unless v is nil (an untyped nil, or a nil pointer/interface/slice/map).
func Nil(t TestingT, v interface{}, formatAndArgs ...interface{}) {
	if isNil(v) {
		return
	}
	format, args := splitFormat(formatAndArgs)
	fail(t, fmt.Sprintf("expected nil, but was %v", v), format, args...)
}

// NotNil fails if v is nil.
func NotNil(t TestingT, v interface{}, formatAndArgs ...interface{}) {
	if !isNil(v) {
		return
	}
	format, args := splitFormat(formatAndArgs)
	fail(t, "expected to not be nil", format, args...)
}

// True fails unless v is true.
func True(t TestingT, v bool, formatAndArgs ...interface{}) {
	if v {
		return
	}
	format, args := splitFormat(formatAndArgs)
	fail(t, "expected true, but was false", format, args...)
}

// False fails unless v is false.
func False(t TestingT, v bool, formatAndArgs ...interface{}) {
	if !v {
		return
	}
	format, args := splitFormat(formatAndArgs)
	fail(t, "expected false, but was true", format, args...)
}

// Zero fails unless v is the zero value of its type.
func Zero(t TestingT, v interface{}, formatAndArgs ...interface{}) {
	if reflect.ValueOf(v).IsZero() {
		return
	}
	format, args := splitFormat(formatAndArgs)
	fail(t, fmt.Sprintf("expected zero, but was %v", v), format, args...)
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

func splitFormat(formatAndArgs []interface{}) (string, []interface{}) {
	if len(formatAndArgs) == 0 {
		return "", nil
	}
	format, ok := formatAndArgs[0].(string)
	if !ok {
		return "", nil
	}
	return format, formatAndArgs[1:]
}
