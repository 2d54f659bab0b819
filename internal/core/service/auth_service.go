package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
	"github.com/gymtracker/auth-gateway/internal/core/ports"
)

// PasswordHasher abstracts the one-way password hash (bcrypt).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	// VerifyDummy burns one verification's worth of work for an unknown user.
	VerifyDummy(password string)
}

// TokenIssuer abstracts the bearer token codec.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	store  ports.CredentialStore
	hasher PasswordHasher
	tokens TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(store ports.CredentialStore, hasher PasswordHasher, tokens TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{store: store, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a ROLE_USER account. The only rejections are a taken
// username and a weak password, both decided before anything is hashed or
// written.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.Principal, error) {
	return s.createAccount(ctx, username, password, domain.RoleUser)
}

func (s *AuthService) createAccount(ctx context.Context, username, password string, role domain.Role) (*domain.Principal, error) {
	name := domain.NormalizeUsername(username)

	exists, err := s.store.ExistsByUsername(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	if !domain.IsStrongPassword(password) {
		return nil, domain.ErrWeakPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	saved, err := s.store.Save(ctx, domain.CredentialRecord{
		Principal:    domain.Principal{Username: name, Role: role},
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", saved.ID).Str("username", saved.Username).Str("role", saved.Role.String()).Msg("account created")
	p := saved.Principal
	return &p, nil
}

// Login verifies the credentials and issues a bearer token. Unknown users and
// wrong passwords fail identically with domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	name := domain.NormalizeUsername(username)

	record, err := s.store.FindByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, record.PasswordHash) {
		s.log.Debug().Str("username", name).Msg("password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(record.Username)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &ports.LoginResult{Token: token, Principal: record.Principal}, nil
}
