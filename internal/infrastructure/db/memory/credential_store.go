// Package memory provides a process-local credential store for development
// and tests. Contents are lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
)

type CredentialStore struct {
	mu     sync.RWMutex
	byName map[string]domain.CredentialRecord
	nextID int64
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{byName: make(map[string]domain.CredentialRecord)}
}

func (s *CredentialStore) FindByUsername(_ context.Context, username string) (*domain.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &rec, nil
}

func (s *CredentialStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byName[username]
	return ok, nil
}

func (s *CredentialStore) Save(_ context.Context, record domain.CredentialRecord) (*domain.CredentialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[record.Username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	s.nextID++
	record.ID = s.nextID
	record.Role = domain.CanonicalRole(string(record.Role))
	s.byName[record.Username] = record
	return &record, nil
}

func (s *CredentialStore) FindByID(_ context.Context, id int64) (*domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.lookupID(id); ok {
		p := rec.Principal
		return &p, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *CredentialStore) List(_ context.Context) ([]domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Principal, 0, len(s.byName))
	for _, rec := range s.byName {
		out = append(out, rec.Principal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *CredentialStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.lookupID(id)
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.byName, rec.Username)
	return nil
}

func (s *CredentialStore) UpdateRole(_ context.Context, username string, role domain.Role) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	rec.Role = domain.CanonicalRole(string(role))
	s.byName[username] = rec
	p := rec.Principal
	return &p, nil
}

// lookupID scans by id; callers hold the lock.
func (s *CredentialStore) lookupID(id int64) (domain.CredentialRecord, bool) {
	for _, rec := range s.byName {
		if rec.ID == id {
			return rec, true
		}
	}
	return domain.CredentialRecord{}, false
}
