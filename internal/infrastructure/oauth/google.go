// Package oauth implements the external identity provider client. The
// authorization-code exchange and userinfo fetch happen server-to-server
// over TLS; the userinfo response is the verified assertion handed to the
// resolver.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
	"github.com/nbminh24/lecas-identity/internal/core/ports"
)

const (
	googleAuthEndpoint     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenEndpoint    = "https://oauth2.googleapis.com/token"
	googleUserinfoEndpoint = "https://openidconnect.googleapis.com/v1/userinfo"

	googleScopes = "openid email profile"
)

// Config holds the provider registration issued by the external identity
// provider's console.
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// GoogleProvider implements ports.OAuthProvider against Google's OAuth2
// endpoints. Endpoints are fields so tests can point them at a local server.
type GoogleProvider struct {
	cfg    Config
	client *http.Client

	authEndpoint     string
	tokenEndpoint    string
	userinfoEndpoint string
}

func NewGoogleProvider(cfg Config) *GoogleProvider {
	return &GoogleProvider{
		cfg:              cfg,
		client:           &http.Client{Timeout: 10 * time.Second},
		authEndpoint:     googleAuthEndpoint,
		tokenEndpoint:    googleTokenEndpoint,
		userinfoEndpoint: googleUserinfoEndpoint,
	}
}

// AuthURL builds the consent-flow redirect with the required scopes and the
// one-shot CSRF state.
func (p *GoogleProvider) AuthURL(state string) string {
	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", p.cfg.ClientID)
	query.Set("redirect_uri", p.cfg.CallbackURL)
	query.Set("scope", googleScopes)
	query.Set("state", state)

	return p.authEndpoint + "?" + query.Encode()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userinfoResponse struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Exchange trades the authorization code for an access token and fetches the
// userinfo document. Provider-side failures are wrapped in
// domain.ErrUpstreamProvider; raw provider error text never travels further
// than the server log.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*ports.ExternalAssertion, error) {
	token, err := p.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	info, err := p.fetchUserinfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if info.Sub == "" || info.Email == "" {
		return nil, fmt.Errorf("%w: incomplete userinfo", domain.ErrUpstreamProvider)
	}

	return &ports.ExternalAssertion{
		ExternalID:  info.Sub,
		Email:       info.Email,
		DisplayName: info.Name,
		AvatarURL:   info.Picture,
	}, nil
}

func (p *GoogleProvider) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)
	form.Set("redirect_uri", p.cfg.CallbackURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamProvider, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d", domain.ErrUpstreamProvider, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil || tr.AccessToken == "" {
		return "", fmt.Errorf("%w: invalid token response", domain.ErrUpstreamProvider)
	}
	return tr.AccessToken, nil
}

func (p *GoogleProvider) fetchUserinfo(ctx context.Context, accessToken string) (*userinfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamProvider, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo endpoint returned %d", domain.ErrUpstreamProvider, resp.StatusCode)
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: invalid userinfo response", domain.ErrUpstreamProvider)
	}
	return &info, nil
}
