package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gymtracker/auth-gateway/internal/api/metrics"
	"github.com/gymtracker/auth-gateway/internal/core/domain"
	"github.com/gymtracker/auth-gateway/internal/core/ports"
)

const defaultCacheTTL = 30 * time.Second

// cacheClient is the subset of *redis.Client the cache needs.
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// PrincipalCache is a read-through cache in front of a PrincipalResolver.
// Key format: principal:<username>. Only found principals are cached, never
// password hashes. Redis failures degrade to the underlying resolver.
type PrincipalCache struct {
	next   ports.PrincipalResolver
	client cacheClient
	ttl    time.Duration
	log    zerolog.Logger
}

func NewPrincipalCache(next ports.PrincipalResolver, client cacheClient, ttl time.Duration, log zerolog.Logger) *PrincipalCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &PrincipalCache{next: next, client: client, ttl: ttl, log: log}
}

func (c *PrincipalCache) ResolvePrincipal(ctx context.Context, username string) (*domain.Principal, error) {
	raw, err := c.client.Get(ctx, c.key(username)).Bytes()
	switch {
	case err == nil:
		var p domain.Principal
		if jsonErr := json.Unmarshal(raw, &p); jsonErr == nil {
			metrics.PrincipalCacheLookupsTotal.WithLabelValues("hit").Inc()
			return &p, nil
		}
		c.log.Warn().Str("username", username).Msg("discarding undecodable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn().Err(err).Str("username", username).Msg("principal cache read failed")
	}
	metrics.PrincipalCacheLookupsTotal.WithLabelValues("miss").Inc()

	p, err := c.next.ResolvePrincipal(ctx, username)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(p); err == nil {
		if err := c.client.Set(ctx, c.key(username), payload, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("username", username).Msg("principal cache write failed")
		}
	}
	return p, nil
}

// Invalidate drops the cached principal for username.
func (c *PrincipalCache) Invalidate(ctx context.Context, username string) error {
	if err := c.client.Del(ctx, c.key(username)).Err(); err != nil {
		return fmt.Errorf("invalidate principal %q: %w", username, err)
	}
	return nil
}

func (c *PrincipalCache) key(username string) string {
	return "principal:" + username
}

// InvalidatingStore wraps a CredentialStore so that role changes and
// deletions evict the affected principal from the cache.
type InvalidatingStore struct {
	ports.CredentialStore
	cache *PrincipalCache
	log   zerolog.Logger
}

func NewInvalidatingStore(store ports.CredentialStore, cache *PrincipalCache, log zerolog.Logger) *InvalidatingStore {
	return &InvalidatingStore{CredentialStore: store, cache: cache, log: log}
}

func (s *InvalidatingStore) DeleteByID(ctx context.Context, id int64) error {
	p, err := s.CredentialStore.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.CredentialStore.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, p.Username)
	return nil
}

func (s *InvalidatingStore) UpdateRole(ctx context.Context, username string, role domain.Role) (*domain.Principal, error) {
	p, err := s.CredentialStore.UpdateRole(ctx, username, role)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, username)
	return p, nil
}

func (s *InvalidatingStore) evict(ctx context.Context, username string) {
	if err := s.cache.Invalidate(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("principal cache eviction failed")
	}
}
