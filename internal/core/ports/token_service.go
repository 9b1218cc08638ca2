package ports

import "github.com/nbminh24/lecas-identity/internal/core/domain"

// TokenClaims is the identity a validated bearer token asserts.
type TokenClaims struct {
	SubjectID string
	Username  string
}

// TokenService issues and validates stateless signed bearer tokens. There is
// no revocation list; invalidating outstanding tokens means rotating the
// signing secret.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Validate(token string) (*TokenClaims, error)
}
