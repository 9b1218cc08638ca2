package ports

import (
	"context"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
)

// UserPatch carries the mutable fields of a user record. Nil pointers are
// left untouched by Update.
type UserPatch struct {
	Username     *string
	PasswordHash *string
	ExternalID   *string
	DisplayName  *string
	AvatarURL    *string
	Role         *domain.Role
	Address      *string
	Phone        *string
}

// UserRepository is the identity store. Uniqueness of email, username and
// external_id is enforced atomically by the underlying storage so that a
// check-then-write race can never produce two records sharing a key.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}
