package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 10 * time.Hour

var errEmptySubject = errors.New("token subject cannot be empty")

// Claims is the claim set carried by a bearer token: sub, iat and exp.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 bearer tokens signed with the process key.
// It holds no mutable state and is safe for concurrent use.
type TokenCodec struct {
	key    SigningKey
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithTTL overrides DefaultTokenTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *TokenCodec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

func NewTokenCodec(key SigningKey, opts ...CodecOption) *TokenCodec {
	c := &TokenCodec{key: key, ttl: DefaultTokenTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	// Expiry is checked separately by IsExpired so Decode stays a pure
	// signature and structure check.
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)
	return c
}

// TTL returns the lifetime given to issued tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject with iat = now and exp = now + TTL.
func (c *TokenCodec) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errEmptySubject
	}
	now := c.now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and structure of token and returns its claims.
// Every failure is reported as domain.ErrInvalidToken. Expired tokens decode
// successfully.
func (c *TokenCodec) Decode(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrInvalidToken)
	}

	claims := &Claims{}
	parsed, err := c.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.key.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// IsExpired reports whether now is at or past the token expiry. Claims
// without an expiry are treated as expired.
func (c *TokenCodec) IsExpired(claims *Claims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return !c.now().Before(claims.ExpiresAt.Time)
}

// Validate reports whether token decodes, names expectedSubject exactly and
// has not expired.
func (c *TokenCodec) Validate(token, expectedSubject string) bool {
	claims, err := c.Decode(token)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject && !c.IsExpired(claims)
}
