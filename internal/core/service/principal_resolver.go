package service

import (
	"context"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
	"github.com/gymtracker/auth-gateway/internal/core/ports"
)

// StoreResolver resolves request principals straight from the credential
// store, so every request sees the current role.
type StoreResolver struct {
	store ports.CredentialStore
}

func NewStoreResolver(store ports.CredentialStore) *StoreResolver {
	return &StoreResolver{store: store}
}

func (r *StoreResolver) ResolvePrincipal(ctx context.Context, username string) (*domain.Principal, error) {
	record, err := r.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	p := record.Principal
	return &p, nil
}
