// Package gate is the client-side access gate. It classifies the current
// session as anonymous, checking, or authenticated-with-role, and routes
// users to the landing area their role dispatches to. Transport and token
// persistence are injected, so the gate itself carries no HTTP or storage
// opinions.
package gate

import (
	"context"
	"errors"
	"sync"
)

// State is the session classification the gate routes on.
type State string

const (
	// StateUnknown: before the startup check has run.
	StateUnknown State = "unknown"
	// StateChecking: a stored token exists and the profile fetch is in flight.
	StateChecking State = "checking"
	// StateAuthenticated: the stored token resolved to a profile.
	StateAuthenticated State = "authenticated"
	// StateAnonymous: no token, or the stored token failed to resolve.
	StateAnonymous State = "anonymous"
)

// Landing destinations. Admins dispatch to their own area; every other role
// lands on the general user area. Deeper per-role authorization belongs to
// the screen dispatched to, not the gate.
const (
	LoginRoute   = "/login"
	AdminLanding = "/admin"
	UserLanding  = "/"
)

// Profile is the authenticated user as the gate sees them.
type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Role        string `json:"role"`
}

// TokenStore persists the bearer token between sessions.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// ProfileFetcher resolves a token into a profile, typically by calling the
// identity service's /auth/user endpoint.
type ProfileFetcher interface {
	Fetch(ctx context.Context, token string) (*Profile, error)
}

// ErrNotStarted is returned by Wait when Start was never called.
var ErrNotStarted = errors.New("gate: session not started")

// Session is the access gate's state machine. Methods are safe for
// concurrent use, though the intended caller is a single-threaded UI loop.
type Session struct {
	store   TokenStore
	fetcher ProfileFetcher

	mu      sync.Mutex
	state   State
	profile *Profile
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewSession(store TokenStore, fetcher ProfileFetcher) *Session {
	return &Session{store: store, fetcher: fetcher, state: StateUnknown}
}

// Start runs the startup authentication check once. With no stored token the
// session settles immediately as anonymous; otherwise it enters Checking and
// resolves asynchronously. Cancelling ctx before the fetch completes stops
// the continuation without a state write, so a torn-down caller is never
// updated.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return
	}
	s.done = make(chan struct{})

	token, err := s.store.Load()
	if err != nil || token == "" {
		s.state = StateAnonymous
		close(s.done)
		s.mu.Unlock()
		return
	}

	s.state = StateChecking
	cctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		profile, err := s.fetcher.Fetch(cctx, token)
		if cctx.Err() != nil {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			_ = s.store.Clear()
			s.state = StateAnonymous
			return
		}
		s.state = StateAuthenticated
		s.profile = profile
	}()
}

// Stop cancels an in-flight startup check. State is left as-is.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the startup check settles or is cancelled.
func (s *Session) Wait() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return ErrNotStarted
	}
	<-done
	return nil
}

// State returns the current session classification.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Profile returns the authenticated profile, or nil outside
// StateAuthenticated.
func (s *Session) Profile() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Login records a successful authentication: the token persists and the
// session becomes authenticated.
func (s *Session) Login(token string, profile *Profile) error {
	if err := s.store.Save(token); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthenticated
	s.profile = profile
	return nil
}

// Logout discards the stored token and returns to anonymous.
func (s *Session) Logout() error {
	err := s.store.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.profile = nil
	return err
}

// Allowed reports whether protected content may render.
func (s *Session) Allowed() bool {
	return s.State() == StateAuthenticated
}

// Route is the protected-route guard combined with role dispatch: an
// authenticated session routes to its role's landing destination, anything
// else redirects to the login entry point.
func (s *Session) Route() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated || s.profile == nil {
		return LoginRoute
	}
	return LandingFor(s.profile.Role)
}

// LandingFor chooses the role-specific landing destination.
func LandingFor(role string) string {
	if role == "admin" {
		return AdminLanding
	}
	return UserLanding
}
