package main

import (
	"errors"
	"testing"
)

func TestRequireOwner(t *testing.T) {
	if err := requireOwner(7, 7); err != nil {
		t.Fatalf("owner must be allowed: %v", err)
	}
	err := requireOwner(7, 8)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("cross-user access must be ErrForbidden, got %v", err)
	}
}

func TestErrorKindsDistinguishable(t *testing.T) {
	if !errors.Is(validationError("x"), ErrValidation) {
		t.Fatal("validationError must match ErrValidation")
	}
	if !errors.Is(notFoundError("budget"), ErrNotFound) {
		t.Fatal("notFoundError must match ErrNotFound")
	}
	if !errors.Is(conflictError("x"), ErrConflict) {
		t.Fatal("conflictError must match ErrConflict")
	}
	if errors.Is(notFoundError("budget"), ErrForbidden) {
		t.Fatal("not-found must stay distinct from forbidden")
	}
	if got := notFoundError("budget").Error(); got != "budget not found" {
		t.Fatalf("message = %q", got)
	}
}
