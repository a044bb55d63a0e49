package auth

import (
	"strings"
	"testing"
)

func TestGenerateTokenLengthAndAlphabet(t *testing.T) {
	for _, length := range []int{1, 16, 32, 64} {
		token, err := GenerateToken(length)
		if err != nil {
			t.Fatalf("GenerateToken(%d): %v", length, err)
		}
		if len(token) != length {
			t.Errorf("len = %d, want %d", len(token), length)
		}
		for _, r := range token {
			if !strings.ContainsRune(tokenAlphabet, r) {
				t.Errorf("token %q contains %q outside the alphabet", token, r)
			}
		}
	}
}

func TestGenerateTokenDefaultLength(t *testing.T) {
	token, err := GenerateToken(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(token) != DefaultResetTokenLength {
		t.Errorf("len = %d, want %d", len(token), DefaultResetTokenLength)
	}
}

func TestGenerateTokenUnique(t *testing.T) {
	first, err := GenerateToken(32)
	if err != nil {
		t.Fatal(err)
	}
	second, err := GenerateToken(32)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("two successive tokens are equal: %q", first)
	}
}
