package auth

import (
	"errors"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "correct-horse-battery" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if err := VerifyPassword("correct-horse-battery", hash); err != nil {
		t.Errorf("VerifyPassword failed for correct password: %v", err)
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if err := VerifyPassword("wrong-password", hash); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	a, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}
