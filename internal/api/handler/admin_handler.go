package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
	"github.com/nbminh24/lecas-identity/internal/core/ports"
)

// AdminHandler exposes the administrative user surface. Routes are mounted
// behind Auth and RBAC(admin).
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// ListUsers returns every user record.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {array}  userView
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserViews(users))
}

// AssignRole sets a user's role to one of the closed set.
//
// @Summary      Assign role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      assignRoleRequest  true  "Role"
// @Success      200   {object}  userView
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/users/{id}/role [patch]
func (h *AdminHandler) AssignRole(c echo.Context) error {
	var req assignRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.authService.AssignRole(c.Request().Context(), c.Param("id"), domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid role"})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, toUserView(user))
}
