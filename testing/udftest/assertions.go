package udftest

import (
	"errors"
	"testing"

	"github.com/udfkit/udf-go/wire"
)

// AssertValue asserts two wire values are equal.
func AssertValue(t *testing.T, want, got wire.Value) {
	t.Helper()
	if !wire.Equal(want, got) {
		t.Errorf("expected %s, got %s", wire.Format(want), wire.Format(got))
	}
}

// AssertErrorIs asserts err matches target.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if err == nil {
		t.Errorf("expected error matching %v, got nil", target)
		return
	}
	if !errors.Is(err, target) {
		t.Errorf("expected error matching %v, got %v", target, err)
	}
}
