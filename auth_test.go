package main

import (
	"errors"
	"strings"
	"testing"
)

func TestAvatarURLEscapesUsername(t *testing.T) {
	u := avatarURL("Guest 1234")
	if !strings.Contains(u, "name=Guest+1234") {
		t.Fatalf("username not escaped: %s", u)
	}
	if !strings.HasPrefix(u, "https://ui-avatars.com/api/") {
		t.Fatalf("unexpected avatar host: %s", u)
	}
}

func TestIsUniqueConstraintError(t *testing.T) {
	if isUniqueConstraintError(nil) {
		t.Fatal("nil is not a constraint error")
	}
	if !isUniqueConstraintError(errors.New(`duplicate key value violates unique constraint "users_username_key"`)) {
		t.Fatal("postgres duplicate key should match")
	}
	if isUniqueConstraintError(errors.New("connection refused")) {
		t.Fatal("unrelated error should not match")
	}
}
