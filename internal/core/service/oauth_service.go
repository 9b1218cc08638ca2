package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
	"github.com/nbminh24/lecas-identity/internal/core/ports"
)

// OAuthService maps verified external assertions onto local user records.
// Email is the canonical dedup key across both authentication methods: an
// assertion whose email matches an existing account links into it rather
// than creating a duplicate.
type OAuthService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewOAuthService(repo ports.UserRepository, logger zerolog.Logger) *OAuthService {
	return &OAuthService{repo: repo, logger: logger}
}

// Resolve runs the resolution algorithm: lookup by external id, else link by
// email, else create. All branches are idempotent under retry. A duplicate
// failure on create (a concurrent callback won the insert, or the derived
// username was taken) is retried rather than surfaced.
func (s *OAuthService) Resolve(ctx context.Context, assertion ports.ExternalAssertion) (*domain.User, ports.ResolutionBranch, error) {
	if assertion.ExternalID == "" || assertion.Email == "" {
		return nil, "", domain.ErrValidation
	}
	assertion.Email = domain.NormalizeEmail(assertion.Email)

	return s.resolveOnce(ctx, assertion, true)
}

func (s *OAuthService) resolveOnce(ctx context.Context, assertion ports.ExternalAssertion, retry bool) (*domain.User, ports.ResolutionBranch, error) {
	// Repeat login: known external identity, no mutation.
	user, err := s.repo.FindByExternalID(ctx, assertion.ExternalID)
	if err == nil {
		return user, ports.BranchRepeat, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	// Link: an existing account shares the email, so it gains the external
	// identity instead of a duplicate record appearing.
	user, err = s.repo.FindByEmail(ctx, assertion.Email)
	if err == nil {
		linked, err := s.link(ctx, user, assertion)
		if err != nil {
			return nil, "", err
		}
		return linked, ports.BranchLinked, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	created, err := s.create(ctx, assertion)
	if err == nil {
		s.logger.Info().Str("user_id", created.ID).Str("external_id", assertion.ExternalID).Msg("user created from external identity")
		return created, ports.BranchCreated, nil
	}
	if errors.Is(err, domain.ErrDuplicateIdentity) && retry {
		// A concurrent callback for the same identity won the insert;
		// converge by re-running the lookups.
		return s.resolveOnce(ctx, assertion, false)
	}
	return nil, "", err
}

func (s *OAuthService) link(ctx context.Context, user *domain.User, assertion ports.ExternalAssertion) (*domain.User, error) {
	patch := ports.UserPatch{ExternalID: &assertion.ExternalID}
	if assertion.AvatarURL != "" {
		patch.AvatarURL = &assertion.AvatarURL
	}

	linked, err := s.repo.Update(ctx, user.ID, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", linked.ID).Str("external_id", assertion.ExternalID).Msg("external identity linked")
	return linked, nil
}

func (s *OAuthService) create(ctx context.Context, assertion ports.ExternalAssertion) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{
		Username:    domain.UsernameFromEmail(assertion.Email),
		Email:       assertion.Email,
		ExternalID:  assertion.ExternalID,
		DisplayName: assertion.DisplayName,
		AvatarURL:   assertion.AvatarURL,
		Role:        domain.RoleUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, user)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, domain.ErrDuplicateIdentity) || user.Username == "" {
		return nil, err
	}

	// The collision may be on the derived username rather than a racing
	// insert of the same identity. A username is not required when an
	// external identity is present, so drop it and try once more.
	user.Username = ""
	return s.repo.Create(ctx, user)
}
