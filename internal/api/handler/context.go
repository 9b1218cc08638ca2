package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nbminh24/lecas-identity/internal/api/middleware"
)

// ctxSubject extracts the token subject injected by the Auth middleware.
// An empty subject means the middleware did not run; reject with 401.
func ctxSubject(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
