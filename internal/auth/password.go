package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"
)

// Argon2id parameters. Memory and time costs are floors from the platform
// security baseline; parallelism stays at one lane to bound worst-case
// per-request cost.
const (
	hashMemoryKiB  = 64 * 1024
	hashIterations = 3
	hashLanes      = 1
	hashKeyLen     = 32
	hashSaltLen    = 16
)

// Hasher produces and verifies argon2id digests in PHC string format.
// Hash calls are memory-hard, so concurrency is capped by a weighted
// semaphore; a burst of logins queues here instead of exhausting memory
// and stalling unrelated traffic.
type Hasher struct {
	sem *semaphore.Weighted
}

// NewHasher builds a Hasher allowing up to maxConcurrent simultaneous
// hash computations. Zero or negative means one lane per CPU.
func NewHasher(maxConcurrent int) *Hasher {
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.GOMAXPROCS(0)
	}
	return &Hasher{sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

// Hash derives a fresh salted digest. Two calls with the same plaintext
// never produce the same output.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is empty", ErrInvalidInput)
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	salt := make([]byte, hashSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, hashIterations, hashMemoryKiB, hashLanes, hashKeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		hashMemoryKiB,
		hashIterations,
		hashLanes,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the digest using the parameters embedded in it and
// compares in constant time. A mismatch is (false, nil); ErrHashFormat is
// returned only when the digest itself cannot be parsed.
func (h *Hasher) Verify(ctx context.Context, digest, password string) (bool, error) {
	params, salt, key, err := decodeDigest(digest)
	if err != nil {
		return false, err
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	candidate := argon2.IDKey([]byte(password), salt, params.iterations, params.memoryKiB, params.lanes, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1, nil
}

type hashParams struct {
	memoryKiB  uint32
	iterations uint32
	lanes      uint8
}

func decodeDigest(digest string) (hashParams, []byte, []byte, error) {
	var params hashParams

	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return params, nil, nil, ErrHashFormat
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, ErrHashFormat
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memoryKiB, &params.iterations, &params.lanes); err != nil {
		return params, nil, nil, ErrHashFormat
	}
	if params.memoryKiB == 0 || params.iterations == 0 || params.lanes == 0 {
		return params, nil, nil, ErrHashFormat
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, ErrHashFormat
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, ErrHashFormat
	}
	return params, salt, key, nil
}
