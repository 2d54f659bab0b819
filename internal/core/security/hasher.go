// Package security holds the cryptographic pieces of the auth core: the
// bcrypt password hasher, the process signing key and the JWT codec.
package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost keeps a single verification well under a second while
// making offline guessing expensive.
const DefaultBcryptCost = 12

// ErrEmptyPassword is returned when asked to hash an empty password.
var ErrEmptyPassword = errors.New("password cannot be empty")

// BcryptHasher hashes and verifies passwords with bcrypt. The salt and cost
// are embedded in the produced hash string.
type BcryptHasher struct {
	cost      int
	dummyHash []byte
}

// NewBcryptHasher returns a hasher using cost, or DefaultBcryptCost when cost
// is outside bcrypt's accepted range. The hash used by VerifyDummy is built
// here so no login pays for it.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	return newBcryptHasher(cost, rand.Reader)
}

func newBcryptHasher(cost int, entropy io.Reader) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}

	seed := make([]byte, 32)
	if _, err := io.ReadFull(entropy, seed); err != nil {
		return nil, fmt.Errorf("dummy hash seed: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword(seed, cost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &BcryptHasher{cost: cost, dummyHash: dummy}, nil
}

// Cost returns the work factor used for new hashes.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is a mismatch.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyDummy spends the same work as Verify against a hash that matches no
// password. Login calls it for unknown usernames so both failure paths take
// comparable time.
func (h *BcryptHasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}
