package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nbminh24/lecas-identity/internal/api/metrics"
	"github.com/nbminh24/lecas-identity/internal/core/domain"
	"github.com/nbminh24/lecas-identity/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new local-password account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateIdentity):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "email or username already in use"})
		case errors.Is(err, domain.ErrValidation):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid input"})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, authResponse{Token: token, User: toUserView(user)})
}

// Login authenticates an email/password pair and returns a bearer token.
// The error message never distinguishes an unknown email from a wrong
// password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid credentials"})
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid credentials"})
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, User: toUserView(user)})
}

// Me returns the profile of the token subject.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userView
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/user [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ctxSubject(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, toUserView(user))
}

// UpdateProfile edits the subject's profile fields.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  userView
// @Failure      401   {object}  map[string]string
// @Router       /auth/user [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), userID, ports.ProfileInput{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Address:     req.Address,
		Phone:       req.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserView(user))
}

// ChangePassword re-hashes the subject's password after verifying the
// current one.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxSubject(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.authService.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid credentials"})
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
