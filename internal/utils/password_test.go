package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("Expected hash to differ from the plaintext")
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Error("Expected correct password to verify")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Error("Expected wrong password to fail")
	}
	if VerifyPassword("not-a-bcrypt-hash", "hunter2") {
		t.Error("Expected malformed hash to fail")
	}
}
