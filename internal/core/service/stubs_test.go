package service

import (
	"context"
	"sort"
	"sync"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
)

type stubCredentialStore struct {
	mu     sync.Mutex
	byName map[string]domain.CredentialRecord
	nextID int64

	saves     int
	existsErr error
	findErr   error
	saveErr   error
}

func newStubCredentialStore() *stubCredentialStore {
	return &stubCredentialStore{byName: make(map[string]domain.CredentialRecord)}
}

func (s *stubCredentialStore) FindByUsername(_ context.Context, username string) (*domain.CredentialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	rec, ok := s.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &rec, nil
}

func (s *stubCredentialStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.byName[username]
	return ok, nil
}

func (s *stubCredentialStore) Save(_ context.Context, rec domain.CredentialRecord) (*domain.CredentialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if _, ok := s.byName[rec.Username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	s.nextID++
	rec.ID = s.nextID
	s.byName[rec.Username] = rec
	return &rec, nil
}

func (s *stubCredentialStore) FindByID(_ context.Context, id int64) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.byName {
		if rec.ID == id {
			p := rec.Principal
			return &p, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubCredentialStore) List(_ context.Context) ([]domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Principal, 0, len(s.byName))
	for _, rec := range s.byName {
		out = append(out, rec.Principal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubCredentialStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, rec := range s.byName {
		if rec.ID == id {
			delete(s.byName, name)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (s *stubCredentialStore) UpdateRole(_ context.Context, username string, role domain.Role) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	rec.Role = role
	s.byName[username] = rec
	p := rec.Principal
	return &p, nil
}

// countingHasher records calls around a real hasher.
type countingHasher struct {
	PasswordHasher
	hashes  int
	dummies int
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.hashes++
	return h.PasswordHasher.Hash(password)
}

func (h *countingHasher) VerifyDummy(password string) {
	h.dummies++
	h.PasswordHasher.VerifyDummy(password)
}
