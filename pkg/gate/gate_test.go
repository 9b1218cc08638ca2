package gate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

type memStore struct {
	token string
	saved int
}

func (m *memStore) Load() (string, error) { return m.token, nil }

func (m *memStore) Save(token string) error {
	m.token = token
	m.saved++
	return nil
}

func (m *memStore) Clear() error {
	m.token = ""
	return nil
}

type fetchFunc func(ctx context.Context, token string) (*Profile, error)

func (f fetchFunc) Fetch(ctx context.Context, token string) (*Profile, error) {
	return f(ctx, token)
}

func TestSession_Start_NoToken(t *testing.T) {
	s := NewSession(&memStore{}, fetchFunc(func(context.Context, string) (*Profile, error) {
		t.Fatalf("fetch must not run without a stored token")
		return nil, nil
	}))

	if s.State() != StateUnknown {
		t.Fatalf("expected initial state unknown, got %s", s.State())
	}

	s.Start(context.Background())
	if err := s.Wait(); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if s.State() != StateAnonymous {
		t.Fatalf("expected anonymous, got %s", s.State())
	}
}

func TestSession_Start_ValidToken(t *testing.T) {
	store := &memStore{token: "tok"}
	s := NewSession(store, fetchFunc(func(_ context.Context, token string) (*Profile, error) {
		if token != "tok" {
			t.Fatalf("unexpected token: %s", token)
		}
		return &Profile{ID: "u1", Username: "alice", Role: "user"}, nil
	}))

	s.Start(context.Background())
	if err := s.Wait(); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("expected authenticated, got %s", s.State())
	}
	if p := s.Profile(); p == nil || p.ID != "u1" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestSession_Start_RejectedTokenDiscarded(t *testing.T) {
	store := &memStore{token: "stale"}
	s := NewSession(store, fetchFunc(func(context.Context, string) (*Profile, error) {
		return nil, errors.New("401")
	}))

	s.Start(context.Background())
	if err := s.Wait(); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if s.State() != StateAnonymous {
		t.Fatalf("expected anonymous after rejected token, got %s", s.State())
	}
	if store.token != "" {
		t.Fatalf("stale token not discarded")
	}
}

func TestSession_Start_CancelledBeforeCompletion(t *testing.T) {
	store := &memStore{token: "tok"}
	started := make(chan struct{})
	s := NewSession(store, fetchFunc(func(ctx context.Context, _ string) (*Profile, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	s.Start(context.Background())
	<-started
	if s.State() != StateChecking {
		t.Fatalf("expected checking while fetch in flight, got %s", s.State())
	}

	s.Stop()
	if err := s.Wait(); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	// Teardown must not produce a state write: the session stays where the
	// cancellation found it and the token survives.
	if s.State() != StateChecking {
		t.Fatalf("cancelled check mutated state to %s", s.State())
	}
	if store.token != "tok" {
		t.Fatalf("cancelled check discarded the token")
	}
}

func TestSession_Start_OnlyOnce(t *testing.T) {
	calls := 0
	store := &memStore{token: "tok"}
	s := NewSession(store, fetchFunc(func(context.Context, string) (*Profile, error) {
		calls++
		return &Profile{ID: "u1", Role: "user"}, nil
	}))

	s.Start(context.Background())
	s.Start(context.Background())
	if err := s.Wait(); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	// Give a hypothetical second goroutine a moment to misbehave.
	time.Sleep(10 * time.Millisecond)
	if calls != 1 {
		t.Fatalf("startup check ran %d times", calls)
	}
}

func TestSession_LoginLogout(t *testing.T) {
	store := &memStore{}
	s := NewSession(store, fetchFunc(func(context.Context, string) (*Profile, error) {
		return nil, errors.New("unused")
	}))

	if err := s.Login("tok", &Profile{ID: "u1", Role: "admin"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !s.Allowed() {
		t.Fatalf("expected protected content allowed after login")
	}
	if store.token != "tok" {
		t.Fatalf("token not persisted")
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if s.Allowed() || store.token != "" {
		t.Fatalf("logout did not clear session")
	}
}

func TestSession_Route_Dispatch(t *testing.T) {
	cases := []struct {
		role string
		want string
	}{
		{"admin", AdminLanding},
		{"user", UserLanding},
		{"staff", UserLanding},
		{"staff_warehouse", UserLanding},
		{"staff_shipping", UserLanding},
	}
	for _, tc := range cases {
		s := NewSession(&memStore{}, fetchFunc(func(context.Context, string) (*Profile, error) {
			return nil, errors.New("unused")
		}))
		if err := s.Login("tok", &Profile{ID: "u1", Role: tc.role}); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if got := s.Route(); got != tc.want {
			t.Fatalf("role %s: expected %s, got %s", tc.role, tc.want, got)
		}
	}
}

func TestSession_Route_AnonymousRedirectsToLogin(t *testing.T) {
	s := NewSession(&memStore{}, fetchFunc(func(context.Context, string) (*Profile, error) {
		return nil, errors.New("unused")
	}))
	s.Start(context.Background())
	_ = s.Wait()

	if got := s.Route(); got != LoginRoute {
		t.Fatalf("expected login redirect, got %s", got)
	}
}

func TestFileTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewFileTokenStore(path)

	if tok, err := store.Load(); err != nil || tok != "" {
		t.Fatalf("expected empty load from missing file, got %q %v", tok, err)
	}

	if err := store.Save("tok-1"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if tok, err := store.Load(); err != nil || tok != "tok-1" {
		t.Fatalf("unexpected load: %q %v", tok, err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if tok, _ := store.Load(); tok != "" {
		t.Fatalf("token survived clear: %q", tok)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("double clear must not error: %v", err)
	}
}
