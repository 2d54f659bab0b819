package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
)

// currentPrincipal returns the principal attached by the identity middleware.
// Routes using it sit behind the authorization gate, so a missing principal
// is reported as domain.ErrUnauthorized rather than trusted.
func currentPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFromContext(c.Request().Context())
	if !ok {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}
