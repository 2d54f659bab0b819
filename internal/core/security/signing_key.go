package security

import (
	"crypto/rand"
	"fmt"
	"io"
)

// SigningKeySize is the HMAC-SHA256 key length in bytes.
const SigningKeySize = 32

// SigningKey is the process-wide HMAC secret. It is generated once at startup
// and never persisted, so tokens do not survive a process restart.
type SigningKey struct {
	secret []byte
}

// GenerateSigningKey reads a fresh key from crypto/rand.
func GenerateSigningKey() (SigningKey, error) {
	return NewSigningKeyFrom(rand.Reader)
}

// NewSigningKeyFrom reads SigningKeySize bytes from r.
func NewSigningKeyFrom(r io.Reader) (SigningKey, error) {
	secret := make([]byte, SigningKeySize)
	if _, err := io.ReadFull(r, secret); err != nil {
		return SigningKey{}, fmt.Errorf("generate signing key: %w", err)
	}
	return SigningKey{secret: secret}, nil
}

// IsZero reports whether the key was never initialised.
func (k SigningKey) IsZero() bool {
	return len(k.secret) == 0
}
