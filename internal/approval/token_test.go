package approval

import (
	"encoding/hex"
	"testing"
)

func TestGenerateToken(t *testing.T) {
	token1, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	token2, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if token1 == token2 {
		t.Error("two generated tokens should differ")
	}
	if len(token1) < 32 {
		t.Errorf("token %q too short for 32 bytes of entropy", token1)
	}
}

func TestHashToken(t *testing.T) {
	hash := HashToken("abc123")

	if hash != HashToken("abc123") {
		t.Error("HashToken must be deterministic")
	}
	if hash == HashToken("abc124") {
		t.Error("different tokens must hash differently")
	}
	if _, err := hex.DecodeString(hash); err != nil {
		t.Errorf("hash %q should be hex-encoded", hash)
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64 (SHA-256 hex)", len(hash))
	}
}
