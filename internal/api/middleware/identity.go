package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gymtracker/auth-gateway/internal/api/metrics"
	"github.com/gymtracker/auth-gateway/internal/core/domain"
	"github.com/gymtracker/auth-gateway/internal/core/ports"
	"github.com/gymtracker/auth-gateway/internal/core/security"
)

const bearerScheme = "Bearer"

// TokenVerifier is the part of the token codec the middleware relies on.
type TokenVerifier interface {
	Decode(token string) (*security.Claims, error)
	Validate(token, expectedSubject string) bool
}

// Identity resolves the caller from an "Authorization: Bearer <token>" header
// and attaches the principal to the request context.
//
// It never rejects a request: a missing header, a malformed or expired token
// or an unknown subject all leave the request unauthenticated, and the
// authorization gate decides whether that is acceptable for the route.
func Identity(tokens TokenVerifier, resolver ports.PrincipalResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result := resolveIdentity(c, tokens, resolver, log)
			metrics.IdentityResolutionsTotal.WithLabelValues(result).Inc()
			return next(c)
		}
	}
}

func resolveIdentity(c echo.Context, tokens TokenVerifier, resolver ports.PrincipalResolver, log zerolog.Logger) string {
	req := c.Request()
	ctx := req.Context()

	token, ok := bearerToken(req.Header.Get(echo.HeaderAuthorization))
	if !ok {
		return "anonymous"
	}

	claims, err := tokens.Decode(token)
	if err != nil {
		log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
		return "invalid_token"
	}

	if _, attached := domain.PrincipalFromContext(ctx); attached {
		return "already_attached"
	}

	principal, err := resolver.ResolvePrincipal(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Debug().Str("subject", claims.Subject).Msg("token subject no longer exists")
			return "unknown_user"
		}
		log.Warn().Err(err).Str("subject", claims.Subject).Msg("principal lookup failed")
		return "store_error"
	}

	if !tokens.Validate(token, principal.Username) {
		return "rejected"
	}

	c.SetRequest(req.WithContext(domain.WithPrincipal(ctx, *principal)))
	return "resolved"
}

// bearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively; anything else is not a bearer token.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
