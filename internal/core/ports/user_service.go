package ports

import (
	"context"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
)

// UserService covers account administration outside the login flow.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.Principal, error)
	DeleteUser(ctx context.Context, id int64) error
	SetRole(ctx context.Context, username, role string) (*domain.Principal, error)
	CreateAdmin(ctx context.Context, username, password string) (*domain.Principal, error)
}
