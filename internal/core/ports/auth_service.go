package ports

import (
	"context"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
)

// RegisterInput is a local-password registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// ProfileInput carries user-editable profile fields. Nil means unchanged.
type ProfileInput struct {
	DisplayName *string
	AvatarURL   *string
	Address     *string
	Phone       *string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	AssignRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error)
}

// PasswordHasher is the credential hasher: slow, salted, adaptive. The salt
// is embedded in the produced hash. Verify never errors; a record with no
// hash simply verifies false.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hash string) bool
}
