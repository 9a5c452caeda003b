package utils

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", 4) // low cost keeps the test fast
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Fatal("correct password must verify")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Fatal("wrong password must not verify")
	}
}
