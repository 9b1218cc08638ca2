package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nbminh24/lecas-identity/internal/api/metrics"
	"github.com/nbminh24/lecas-identity/internal/core/domain"
	"github.com/nbminh24/lecas-identity/internal/core/ports"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
)

// Auth validates the bearer token and injects the subject identity into the
// request context. All failure modes return the same 401 message so the
// response cannot be used as a token oracle.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				metrics.TokenFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUserID, claims.SubjectID)
			c.Set(CtxUsername, claims.Username)

			return next(c)
		}
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
