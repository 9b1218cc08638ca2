package password

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret" || hash == "" {
		t.Fatalf("expected a hash, got %q", hash)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("expected bcrypt output with embedded salt and cost, got %q", hash)
	}

	if !h.Verify(ctx, "s3cret", hash) {
		t.Fatalf("correct password did not verify")
	}
	if h.Verify(ctx, "wrong", hash) {
		t.Fatalf("wrong password verified")
	}
}

func TestHasher_SaltPerCall(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	a, err := h.Hash(ctx, "same")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	b, err := h.Hash(ctx, "same")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same input must differ (per-call salt)")
	}
}

func TestHasher_VerifyEmptyHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 2)

	// Accounts that authenticate only via external identity have no hash;
	// verification is false, never an error or panic.
	if h.Verify(context.Background(), "anything", "") {
		t.Fatalf("empty hash must never verify")
	}
}

func TestHasher_HashHonoursContext(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)

	// Occupy the only pool slot so the next Hash must wait, then cancel.
	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		h.sem <- struct{}{}
		close(held)
		<-release
		<-h.sem
	}()
	<-held

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.Hash(ctx, "pw"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled while pool saturated, got %v", err)
	}
	close(release)
}

func TestNewHasher_Defaults(t *testing.T) {
	h := NewHasher(0, 0)
	if h.cost != DefaultCost {
		t.Fatalf("expected default cost %d, got %d", DefaultCost, h.cost)
	}
	if cap(h.sem) == 0 {
		t.Fatalf("expected a positive concurrency limit")
	}
}
