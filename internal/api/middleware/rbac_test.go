package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/watergb/billing-system/internal/core/domain"
)

type stubUserStore struct {
	users map[string]*domain.User // keyed by id
	err   error
}

func (s *stubUserStore) Create(_ context.Context, _ *domain.User) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserStore) FindByUsername(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func rbacContext(e *echo.Echo, userID, tokenRole string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(CtxUserID, userID)
	c.Set(CtxRole, tokenRole)
	return c, rec
}

func TestRequireRole_Allows(t *testing.T) {
	e := echo.New()
	store := &stubUserStore{users: map[string]*domain.User{
		"u1": {ID: "u1", Username: "alice", Role: domain.RoleAdmin},
	}}
	c, rec := rbacContext(e, "u1", domain.RoleAdmin)

	called := false
	mw := RequireRole(store, zerolog.Nop(), domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	e := echo.New()
	store := &stubUserStore{users: map[string]*domain.User{
		"u2": {ID: "u2", Username: "bob", Role: domain.RoleStandard},
	}}
	c, rec := rbacContext(e, "u2", domain.RoleStandard)

	mw := RequireRole(store, zerolog.Nop(), domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

// A token still carrying an admin role must not grant access once the store
// says the user was downgraded: the live role wins over the token payload.
func TestRequireRole_DowngradedRoleTakesEffectImmediately(t *testing.T) {
	e := echo.New()
	store := &stubUserStore{users: map[string]*domain.User{
		"u3": {ID: "u3", Username: "carol", Role: domain.RoleStandard},
	}}
	c, rec := rbacContext(e, "u3", domain.RoleAdmin) // stale token claim

	mw := RequireRole(store, zerolog.Nop(), domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_UnknownUser(t *testing.T) {
	e := echo.New()
	store := &stubUserStore{users: map[string]*domain.User{}}
	c, rec := rbacContext(e, "gone", domain.RoleAdmin)

	mw := RequireRole(store, zerolog.Nop(), domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_StoreFailure(t *testing.T) {
	e := echo.New()
	store := &stubUserStore{err: errors.New("connection reset")}
	c, rec := rbacContext(e, "u1", domain.RoleAdmin)

	mw := RequireRole(store, zerolog.Nop(), domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRequireRole_MissingClaims(t *testing.T) {
	e := echo.New()
	store := &stubUserStore{users: map[string]*domain.User{}}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireRole(store, zerolog.Nop(), domain.RoleAdmin)
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
