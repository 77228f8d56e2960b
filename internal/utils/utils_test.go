package utils

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID("usr")
	if !strings.HasPrefix(id, "usr-") {
		t.Errorf("expected usr- prefix, got %s", id)
	}
	if len(id) != len("usr-")+10 {
		t.Errorf("unexpected id length: %s", id)
	}
	if id == GenerateID("usr") {
		t.Error("two generated IDs collided")
	}
}

func TestGenerateVerificationCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateVerificationCode()
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("securepass123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPassword("securepass123", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrongpass", hash) {
		t.Error("wrong password accepted")
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		valid    bool
	}{
		{"alice", true},
		{"alice_b.99", true},
		{"ab", false},
		{"Alice", false},
		{"has space", false},
		{"", false},
		{strings.Repeat("a", 30), true},
		{strings.Repeat("a", 31), false},
	}
	for _, tt := range tests {
		if got := ValidateUsername(tt.username); got != tt.valid {
			t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, got, tt.valid)
		}
	}
}
