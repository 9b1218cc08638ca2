package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nbminh24/lecas-identity/internal/api/metrics"
	"github.com/nbminh24/lecas-identity/internal/core/ports"
)

// OAuthHandler drives the external identity flow: the start redirect to the
// provider's consent screen and the callback that resolves the assertion
// into a local account.
type OAuthHandler struct {
	provider ports.OAuthProvider
	states   ports.StateStore
	resolver ports.OAuthResolver
	tokens   ports.TokenService

	successURL string
	failureURL string
	logger     zerolog.Logger
}

func NewOAuthHandler(provider ports.OAuthProvider, states ports.StateStore, resolver ports.OAuthResolver, tokens ports.TokenService, successURL, failureURL string, logger zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		provider:   provider,
		states:     states,
		resolver:   resolver,
		tokens:     tokens,
		successURL: successURL,
		failureURL: failureURL,
		logger:     logger,
	}
}

// Start redirects to the provider's consent flow carrying a one-shot state.
//
// @Summary      Begin external login
// @Tags         auth
// @Success      302
// @Router       /auth/oauth/start [get]
func (h *OAuthHandler) Start(c echo.Context) error {
	state, err := h.states.Issue(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, h.provider.AuthURL(state))
}

// Callback receives the provider redirect, resolves the asserted identity
// and hands a token to the frontend. Every failure path redirects to the
// configured failure destination; error detail stays in the server log.
//
// @Summary      External login callback
// @Tags         auth
// @Success      302
// @Router       /auth/oauth/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()

	if errParam := c.QueryParam("error"); errParam != "" {
		h.logger.Warn().Str("provider_error", errParam).Msg("oauth consent denied")
		return h.fail(c)
	}

	code := c.QueryParam("code")
	if code == "" {
		return h.fail(c)
	}

	ok, err := h.states.Consume(ctx, c.QueryParam("state"))
	if err != nil {
		h.logger.Error().Err(err).Msg("oauth state check failed")
		return h.fail(c)
	}
	if !ok {
		h.logger.Warn().Msg("oauth callback with unknown or replayed state")
		return h.fail(c)
	}

	assertion, err := h.provider.Exchange(ctx, code)
	if err != nil {
		metrics.OAuthResolutionsTotal.WithLabelValues("failed").Inc()
		h.logger.Error().Err(err).Msg("oauth code exchange failed")
		return h.fail(c)
	}

	user, branch, err := h.resolver.Resolve(ctx, *assertion)
	if err != nil {
		metrics.OAuthResolutionsTotal.WithLabelValues("failed").Inc()
		h.logger.Error().Err(err).Str("external_id", assertion.ExternalID).Msg("oauth resolution failed")
		return h.fail(c)
	}
	metrics.OAuthResolutionsTotal.WithLabelValues(string(branch)).Inc()

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", user.ID).Msg("token issuance failed")
		return h.fail(c)
	}

	dest, err := url.Parse(h.successURL)
	if err != nil {
		return h.fail(c)
	}
	query := dest.Query()
	query.Set("token", token)
	dest.RawQuery = query.Encode()

	return c.Redirect(http.StatusFound, dest.String())
}

func (h *OAuthHandler) fail(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.failureURL)
}
