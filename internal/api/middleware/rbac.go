package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
)

// CtxRole is the context key RBAC sets after loading the subject's record.
const CtxRole = "role"

// profileLoader is the slice of the auth service RBAC needs. Satisfied by
// ports.AuthService.
type profileLoader interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

// RBAC enforces role-based access control. The role is resolved from the
// store on every request rather than trusted from the token, so role changes
// take effect without waiting for outstanding tokens to expire. Must run
// behind Auth.
func RBAC(profiles profileLoader, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(CtxUserID).(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			user, err := profiles.Profile(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if _, ok := allowed[user.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}

			c.Set(CtxRole, string(user.Role))
			return next(c)
		}
	}
}
