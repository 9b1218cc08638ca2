package metrics

import (
	"context"
	"time"

	"github.com/nbminh24/lecas-identity/internal/core/ports"
)

// InstrumentedHasher decorates a PasswordHasher, observing HashDuration for
// every hash computation.
type InstrumentedHasher struct {
	inner ports.PasswordHasher
}

func NewInstrumentedHasher(inner ports.PasswordHasher) *InstrumentedHasher {
	return &InstrumentedHasher{inner: inner}
}

func (h *InstrumentedHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	start := time.Now()
	hash, err := h.inner.Hash(ctx, plaintext)
	HashDuration.Observe(time.Since(start).Seconds())
	return hash, err
}

func (h *InstrumentedHasher) Verify(ctx context.Context, plaintext, hash string) bool {
	return h.inner.Verify(ctx, plaintext, hash)
}
