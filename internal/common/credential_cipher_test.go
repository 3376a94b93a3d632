package common

import (
	"strings"
	"testing"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestCredentialCipher_RoundTrip(t *testing.T) {
	c, err := NewCredentialCipher(testKey)
	if err != nil {
		t.Fatalf("Failed to build cipher: %v", err)
	}

	sealed, err := c.Encrypt("sk_live_abc123")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if strings.Contains(sealed, "sk_live") {
		t.Error("Sealed value leaks plaintext")
	}

	plain, err := c.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if plain != "sk_live_abc123" {
		t.Errorf("Expected sk_live_abc123, got %s", plain)
	}
}

func TestCredentialCipher_DistinctNonces(t *testing.T) {
	c, err := NewCredentialCipher(testKey)
	if err != nil {
		t.Fatalf("Failed to build cipher: %v", err)
	}

	a, _ := c.Encrypt("same-value")
	b, _ := c.Encrypt("same-value")
	if a == b {
		t.Error("Two encryptions of the same value must differ")
	}
}

func TestCredentialCipher_BadKey(t *testing.T) {
	if _, err := NewCredentialCipher("not-hex"); err == nil {
		t.Error("Expected error for non-hex key")
	}
	if _, err := NewCredentialCipher("abcd"); err == nil {
		t.Error("Expected error for short key")
	}
}

func TestCredentialCipher_TamperedValue(t *testing.T) {
	c, _ := NewCredentialCipher(testKey)
	sealed, _ := c.Encrypt("value")

	if _, err := c.Decrypt("AAAA" + sealed[4:]); err == nil {
		t.Error("Expected error for tampered ciphertext")
	}
}
