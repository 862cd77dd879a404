package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/argon2"
)

func TestHashVerifyRoundtrip(t *testing.T) {
	h := NewHasher(1)
	ctx := context.Background()

	digest, err := h.Hash(ctx, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$v=19$m=65536,t=3,p=1$") {
		t.Fatalf("digest does not carry expected parameters: %s", digest)
	}

	match, err := h.Verify(ctx, digest, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !match {
		t.Fatal("matching password rejected")
	}

	match, err = h.Verify(ctx, digest, "wrong password entirely")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if match {
		t.Fatal("wrong password accepted")
	}
}

func TestHashUniqueSalt(t *testing.T) {
	h := NewHasher(1)
	ctx := context.Background()

	first, err := h.Hash(ctx, "same password twice")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := h.Hash(ctx, "same password twice")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestHashEmptyPassword(t *testing.T) {
	h := NewHasher(1)
	if _, err := h.Hash(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestVerifySelfDescribingParams(t *testing.T) {
	// A digest minted under different (weaker) parameters still verifies:
	// the embedded parameters drive recomputation, not the current
	// defaults.
	h := NewHasher(1)
	salt := []byte("legacy-salt-1234")
	key := argon2.IDKey([]byte("password"), salt, 1, 16, 1, 32)
	legacy := fmt.Sprintf(
		"$argon2id$v=%d$m=16,t=1,p=1$%s$%s",
		argon2.Version,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	match, err := h.Verify(context.Background(), legacy, "password")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !match {
		t.Fatal("digest with embedded parameters did not verify")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := NewHasher(1)
	cases := []struct {
		name   string
		digest string
	}{
		{"empty", ""},
		{"not phc", "plaintext"},
		{"wrong algorithm", "$argon2i$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=65536,t=3,p=1$c2FsdA$aGFzaA"},
		{"missing params", "$argon2id$v=19$$c2FsdA$aGFzaA"},
		{"zero memory", "$argon2id$v=19$m=0,t=3,p=1$c2FsdA$aGFzaA"},
		{"bad salt", "$argon2id$v=19$m=65536,t=3,p=1$!!!$aGFzaA"},
		{"bad key", "$argon2id$v=19$m=65536,t=3,p=1$c2FsdA$!!!"},
		{"truncated", "$argon2id$v=19$m=65536,t=3,p=1$c2FsdA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := h.Verify(context.Background(), tc.digest, "whatever"); !errors.Is(err, ErrHashFormat) {
				t.Fatalf("expected ErrHashFormat, got %v", err)
			}
		})
	}
}

func TestHashCanceledContext(t *testing.T) {
	h := NewHasher(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.Hash(ctx, "a perfectly fine password"); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
