package ports

import (
	"context"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
)

// CredentialStore is the persistence collaborator of the auth core.
// Usernames passed in are already normalized. Lookups of a missing user
// return domain.ErrUserNotFound.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.CredentialRecord, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Save persists a new record and returns it with its assigned numeric ID.
	// A username collision returns domain.ErrUsernameTaken.
	Save(ctx context.Context, record domain.CredentialRecord) (*domain.CredentialRecord, error)

	FindByID(ctx context.Context, id int64) (*domain.Principal, error)
	List(ctx context.Context) ([]domain.Principal, error)
	DeleteByID(ctx context.Context, id int64) error
	UpdateRole(ctx context.Context, username string, role domain.Role) (*domain.Principal, error)
}

// PrincipalResolver resolves the current principal for a token subject on
// every authenticated request.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, username string) (*domain.Principal, error)
}
