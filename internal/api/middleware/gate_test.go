package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
)

func gateContext(p *domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if p != nil {
		req = req.WithContext(domain.WithPrincipal(req.Context(), *p))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireRole_Allows(t *testing.T) {
	c, rec := gateContext(&domain.Principal{ID: 1, Username: "root", Role: domain.RoleAdmin})

	called := false
	handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
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

func TestRequireRole_AcceptsRawRoleName(t *testing.T) {
	c, _ := gateContext(&domain.Principal{ID: 1, Username: "root", Role: domain.RoleAdmin})

	handler := RequireRole("ADMIN")(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("expected raw role to be canonicalized, got %v", err)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	c, _ := gateContext(&domain.Principal{ID: 2, Username: "alice", Role: domain.RoleUser})

	handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	c, _ := gateContext(nil)

	handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRequireRole_RoleMustMatchExactly(t *testing.T) {
	for _, role := range []domain.Role{"ROLE_ADMINISTRATOR", "ROLE_admin", "ADMIN", ""} {
		c, _ := gateContext(&domain.Principal{ID: 3, Username: "mallory", Role: role})
		handler := RequireRole(domain.RoleAdmin)(func(c echo.Context) error { return nil })
		if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("role %q: expected ErrForbidden, got %v", role, err)
		}
	}
}

func TestRequireAuthenticated(t *testing.T) {
	c, _ := gateContext(nil)
	handler := RequireAuthenticated()(func(c echo.Context) error { return nil })
	if err := handler(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	c, _ = gateContext(&domain.Principal{ID: 1, Username: "alice", Role: domain.RoleUser})
	if err := handler(c); err != nil {
		t.Fatalf("expected authenticated request to pass, got %v", err)
	}
}
