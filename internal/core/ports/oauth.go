package ports

import (
	"context"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
)

// ExternalAssertion is a verified identity claim from an external provider.
// Authenticity (signature, issuer, audience, expiry) is the provider
// client's responsibility; by the time an assertion reaches the resolver it
// is trusted.
type ExternalAssertion struct {
	ExternalID  string
	Email       string
	DisplayName string
	AvatarURL   string
}

// OAuthProvider abstracts the external identity provider so alternate or
// mock providers can be substituted in tests.
type OAuthProvider interface {
	// AuthURL builds the consent-flow redirect carrying the CSRF state.
	AuthURL(state string) string
	// Exchange trades an authorization code for a verified assertion.
	Exchange(ctx context.Context, code string) (*ExternalAssertion, error)
}

// ResolutionBranch identifies which branch of the resolution algorithm
// produced the returned user.
type ResolutionBranch string

const (
	// BranchRepeat: the external id was already known; no mutation.
	BranchRepeat ResolutionBranch = "repeat"
	// BranchLinked: an existing account sharing the email gained the
	// external identity.
	BranchLinked ResolutionBranch = "linked"
	// BranchCreated: no matching record existed; one was created.
	BranchCreated ResolutionBranch = "created"
)

// OAuthResolver maps a verified assertion onto a local user record,
// creating or linking as needed.
type OAuthResolver interface {
	Resolve(ctx context.Context, assertion ExternalAssertion) (*domain.User, ResolutionBranch, error)
}

// StateStore issues one-shot nonces tying an OAuth start redirect to its
// callback. Consume returns true at most once per state.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) (bool, error)
}
