package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
	"github.com/nbminh24/lecas-identity/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// TokenService issues and validates HS256-signed bearer tokens. It is pure
// computation over the signing secret and safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	s := &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
	if s.ttl <= 0 {
		s.ttl = defaultTokenTTL
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s
}

// Issue produces a signed token embedding the user's identity, valid for the
// configured window from issuance.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate verifies signature integrity and expiry. A well-formed token past
// its expiry fails with ErrTokenExpired; unparseable input fails with
// ErrTokenMalformed; any other mismatch fails with ErrInvalidToken.
func (s *TokenService) Validate(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := s.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		default:
			return nil, domain.ErrInvalidToken
		}
	}
	if !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.ErrInvalidToken
	}
	username, _ := claims["username"].(string)

	return &ports.TokenClaims{SubjectID: sub, Username: username}, nil
}
