package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
	"github.com/gymtracker/auth-gateway/internal/core/ports"
)

// UserService implements account administration: listing, deletion, role
// changes and admin seeding.
type UserService struct {
	store ports.CredentialStore
	auth  *AuthService
	log   zerolog.Logger
}

func NewUserService(store ports.CredentialStore, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{store: store, auth: auth, log: log}
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.Principal, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes the account with the given id, or returns domain.ErrUserNotFound.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	s.log.Info().Int64("user_id", id).Msg("account deleted")
	return nil
}

// SetRole canonicalizes role once and stores it. Re-applying an already
// canonical role leaves it unchanged.
func (s *UserService) SetRole(ctx context.Context, username, role string) (*domain.Principal, error) {
	canonical := domain.CanonicalRole(role)
	if !canonical.Valid() {
		return nil, domain.ErrInvalidRole
	}

	p, err := s.store.UpdateRole(ctx, domain.NormalizeUsername(username), canonical)
	if err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	s.log.Info().Str("username", p.Username).Str("role", p.Role.String()).Msg("role updated")
	return p, nil
}

// CreateAdmin seeds a ROLE_ADMIN account under the registration rules.
func (s *UserService) CreateAdmin(ctx context.Context, username, password string) (*domain.Principal, error) {
	return s.auth.createAccount(ctx, username, password, domain.RoleAdmin)
}
