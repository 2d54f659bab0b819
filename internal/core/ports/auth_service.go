package ports

import (
	"context"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	Principal domain.Principal
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.Principal, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
