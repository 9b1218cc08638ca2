// Package password wraps bcrypt behind a bounded worker pool. Hashing is
// CPU-bound (~100ms per call at the default cost), so concurrent hashes are
// capped to keep one burst of registrations from starving unrelated
// requests.
package password

import (
	"context"
	"runtime"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is tuned so a single hash takes on the order of 100ms on
// reference hardware.
const DefaultCost = 12

// Hasher applies salted adaptive hashing with a fixed work factor. The salt
// is generated per call and embedded in the output, so no separate salt
// storage exists.
type Hasher struct {
	cost int
	sem  chan struct{}
}

// NewHasher returns a Hasher with the given bcrypt cost and concurrency
// limit. Out-of-range costs fall back to DefaultCost; a non-positive limit
// falls back to the number of usable CPUs.
func NewHasher(cost, maxConcurrent int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.GOMAXPROCS(0)
	}
	return &Hasher{cost: cost, sem: make(chan struct{}, maxConcurrent)}
}

// Hash produces a salted hash of plaintext. It blocks while the pool is
// saturated and honours ctx cancellation while waiting.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	defer h.release()

	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify recomputes using the salt and parameters embedded in hash and
// compares in constant time. A missing hash verifies false, never errors.
func (h *Hasher) Verify(ctx context.Context, plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	if err := h.acquire(ctx); err != nil {
		return false
	}
	defer h.release()

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

func (h *Hasher) acquire(ctx context.Context) error {
	select {
	case h.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hasher) release() {
	<-h.sem
}
