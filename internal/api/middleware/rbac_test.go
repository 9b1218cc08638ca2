package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nbminh24/lecas-identity/internal/core/domain"
)

type stubProfiles struct {
	users map[string]*domain.User
}

func (s *stubProfiles) Profile(_ context.Context, userID string) (*domain.User, error) {
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func doRBAC(mw echo.MiddlewareFunc, userID string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(CtxUserID, userID)
	}

	next := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	err := mw(next)(c)
	return rec, err
}

func TestRBAC_AllowsMatchingRole(t *testing.T) {
	profiles := &stubProfiles{users: map[string]*domain.User{
		"u1": {ID: "u1", Role: domain.RoleAdmin},
	}}

	rec, err := doRBAC(RBAC(profiles, domain.RoleAdmin), "u1")
	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_ForbidsOtherRoles(t *testing.T) {
	profiles := &stubProfiles{users: map[string]*domain.User{
		"u1": {ID: "u1", Role: domain.RoleUser},
		"u2": {ID: "u2", Role: domain.RoleStaffShipping},
	}}

	for _, id := range []string{"u1", "u2"} {
		rec, err := doRBAC(RBAC(profiles, domain.RoleAdmin), id)
		if err != nil {
			t.Fatalf("middleware error: %v", err)
		}
		if rec.Code != http.StatusForbidden {
			t.Fatalf("user %s: expected 403, got %d", id, rec.Code)
		}
	}
}

func TestRBAC_MissingSubject(t *testing.T) {
	profiles := &stubProfiles{users: map[string]*domain.User{}}

	_, err := doRBAC(RBAC(profiles, domain.RoleAdmin), "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without Auth having run, got %v", err)
	}
}

func TestRBAC_SubjectNoLongerExists(t *testing.T) {
	profiles := &stubProfiles{users: map[string]*domain.User{}}

	_, err := doRBAC(RBAC(profiles, domain.RoleAdmin), "gone")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for vanished subject, got %v", err)
	}
}
