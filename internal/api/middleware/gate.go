package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/gymtracker/auth-gateway/internal/api/metrics"
	"github.com/gymtracker/auth-gateway/internal/core/domain"
)

// RequireAuthenticated rejects requests without an attached principal with
// domain.ErrUnauthorized.
func RequireAuthenticated() echo.MiddlewareFunc {
	return gate("authenticated", func(domain.Principal) bool { return true })
}

// RequireRole enforces role-based access control. A request without a
// principal fails with domain.ErrUnauthorized; a principal whose canonical
// role differs from role fails with domain.ErrForbidden.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	required := domain.CanonicalRole(string(role))
	return gate(required.String(), func(p domain.Principal) bool { return p.HasRole(required) })
}

func gate(label string, allow func(domain.Principal) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := domain.PrincipalFromContext(c.Request().Context())
			if !ok {
				metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "unauthorized").Inc()
				return domain.ErrUnauthorized
			}
			if !allow(p) {
				metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "forbidden").Inc()
				return domain.ErrForbidden
			}
			metrics.AuthorizationDecisionsTotal.WithLabelValues(label, "allowed").Inc()
			return next(c)
		}
	}
}
