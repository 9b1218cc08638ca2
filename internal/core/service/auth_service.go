package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
	"github.com/nbminh24/lecas-identity/internal/core/ports"
)

// dummyHash is a structurally valid bcrypt hash compared against when a
// login targets an unknown email, keeping response timing comparable with
// the wrong-password path.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AuthService implements registration, login and profile management for
// local-password accounts.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, logger: logger}
}

// Register creates a local-password account and returns a freshly issued
// token alongside the stored record.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return "", nil, domain.ErrValidation
	}

	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        domain.NormalizeEmail(input.Email),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !user.HasAuthMethod() {
		return "", nil, domain.ErrValidation
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return token, created, nil
}

// Login authenticates an email/password pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(ctx, password, dummyHash)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Profile returns the record for a validated token subject.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile applies user-editable profile fields. No hashing is involved
// since the password is untouched on this path.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ports.ProfileInput) (*domain.User, error) {
	patch := ports.UserPatch{
		DisplayName: input.DisplayName,
		AvatarURL:   input.AvatarURL,
		Address:     input.Address,
		Phone:       input.Phone,
	}
	return s.repo.Update(ctx, userID, patch)
}

// ChangePassword re-hashes only after the current password verifies against
// the stored hash. Accounts without a local password cannot change one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if next == "" {
		return domain.ErrValidation
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(ctx, current, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(ctx, next)
	if err != nil {
		return err
	}

	if _, err := s.repo.Update(ctx, userID, ports.UserPatch{PasswordHash: &hash}); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// ListUsers returns all records, for the administrative surface.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// AssignRole sets a user's role. Values outside the closed set are rejected.
func (s *AuthService) AssignRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrValidation
	}

	user, err := s.repo.Update(ctx, userID, ports.UserPatch{Role: &role})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("role", string(role)).Msg("role assigned")
	return user, nil
}
