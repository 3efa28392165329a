package codegenapi

import "testing"

func TestUnimplementedErrorMessage(t *testing.T) {
	err := Unimplemented("popcnt", "f64")
	if err.Error() == "" {
		t.Fatalf("expected non-empty message")
	}
	if !IsUnimplemented(err) {
		t.Fatalf("expected IsUnimplemented to recognize its own error")
	}
}

func TestIsUnimplementedRejectsOtherErrors(t *testing.T) {
	if IsUnimplemented(errPlain{}) {
		t.Fatalf("plain error should not be classified as unimplemented")
	}
}

type errPlain struct{}

func (errPlain) Error() string { return "plain" }
