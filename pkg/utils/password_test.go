package utils

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("super-secret-password")
	if err != nil {
		t.Fatalf("hashing failed: %v", err)
	}
	if hash == "" || hash == "super-secret-password" {
		t.Fatalf("expected bcrypt hash distinct from the input, got %q", hash)
	}

	again, err := HashPassword("super-secret-password")
	if err != nil {
		t.Fatalf("hashing failed: %v", err)
	}
	if again == hash {
		t.Fatal("expected salted hashes to differ between calls")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	if err != nil {
		t.Fatalf("hashing failed: %v", err)
	}

	if !CheckPassword("correct-password", hash) {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword("wrong-password", hash) {
		t.Fatal("expected wrong password to be rejected")
	}
	if CheckPassword("correct-password", "not-a-bcrypt-hash") {
		t.Fatal("expected malformed hash to be rejected")
	}
}
