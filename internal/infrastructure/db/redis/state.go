package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateTTL = 10 * time.Minute

// StateStore issues one-shot OAuth state nonces backed by Redis.
// Key format: oauth_state:<nonce>
// A nonce consumes at most once; an expired or replayed state misses.
type StateStore struct {
	client *redis.Client
}

// NewStateStore creates a StateStore wrapping the given Redis client.
func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

// Issue generates a random nonce and records it with a TTL covering the
// round trip through the provider's consent screen.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("state nonce: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(b)

	if err := s.client.Set(ctx, s.key(state), "1", stateTTL).Err(); err != nil {
		return "", fmt.Errorf("state store: %w", err)
	}
	return state, nil
}

// Consume atomically removes the state and reports whether it was present.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	if err := s.client.GetDel(ctx, s.key(state)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("state consume: %w", err)
	}
	return true, nil
}

func (s *StateStore) key(state string) string {
	return "oauth_state:" + state
}
