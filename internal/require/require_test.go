package require

import (
	"errors"
	"fmt"
	"testing"
)

type mockT struct {
	log string
}

func (m *mockT) Fatal(args ...interface{}) { m.log = fmt.Sprint(args...) }

func TestCapturePanic(t *testing.T) {
	if err := CapturePanic(func() {}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := CapturePanic(func() { panic("boom") }); err == nil || err.Error() != "boom" {
		t.Fatalf("expected panic to be captured as an error, got %v", err)
	}
}

func TestEqualFailsOnMismatch(t *testing.T) {
	m := &mockT{}
	Equal(m, 1, 2)
	if m.log == "" {
		t.Fatal("expected Equal to fail on a mismatch")
	}
}

func TestEqualPassesOnMatch(t *testing.T) {
	m := &mockT{}
	Equal(m, "a", "a")
	if m.log != "" {
		t.Fatalf("expected Equal to pass, got %q", m.log)
	}
}

func TestErrorIs(t *testing.T) {
	m := &mockT{}
	ErrorIs(m, fmt.Errorf("wrap: %w", errInner), errInner)
	if m.log != "" {
		t.Fatalf("expected ErrorIs to pass through errors.Is, got %q", m.log)
	}
}

var errInner = errors.New("inner")

func TestNilAndNotNil(t *testing.T) {
	var p *int
	m := &mockT{}
	Nil(m, p)
	if m.log != "" {
		t.Fatalf("expected a nil pointer to satisfy Nil, got %q", m.log)
	}

	m = &mockT{}
	x := 1
	NotNil(m, &x)
	if m.log != "" {
		t.Fatalf("expected a non-nil pointer to satisfy NotNil, got %q", m.log)
	}
}

func TestTrueFalse(t *testing.T) {
	m := &mockT{}
	True(m, true)
	False(m, false)
	if m.log != "" {
		t.Fatalf("expected no failures, got %q", m.log)
	}
}
