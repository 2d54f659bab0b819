package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gymtracker/auth-gateway/internal/api/handler"
	"github.com/gymtracker/auth-gateway/internal/core/ports"
	"github.com/gymtracker/auth-gateway/internal/core/security"
	"github.com/gymtracker/auth-gateway/internal/core/service"
	"github.com/gymtracker/auth-gateway/internal/infrastructure/config"
	"github.com/gymtracker/auth-gateway/internal/infrastructure/db/memory"
	mongodb "github.com/gymtracker/auth-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/gymtracker/auth-gateway/internal/infrastructure/db/redis"
	"github.com/gymtracker/auth-gateway/pkg/logger"
)

// components is the wired object graph shared by every subcommand.
type components struct {
	store    ports.CredentialStore
	resolver ports.PrincipalResolver
	tokens   *security.TokenCodec
	auth     *service.AuthService
	users    *service.UserService
	health   map[string]handler.Pinger

	closers []func(context.Context) error
}

// Close releases connections in reverse order of acquisition.
func (c *components) Close(ctx context.Context) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i](ctx)
	}
}

func initLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "auth-gateway",
	})
}

func buildComponents(ctx context.Context, cfg *config.Config, key security.SigningKey, log zerolog.Logger) (*components, error) {
	comp := &components{health: map[string]handler.Pinger{}}

	switch cfg.StoreBackend {
	case config.StoreMemory:
		log.Warn().Msg("using in-memory credential store, accounts are lost on exit")
		comp.store = memory.NewCredentialStore()
	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, fmt.Errorf("connect credential store: %w", err)
		}
		comp.closers = append(comp.closers, client.Disconnect)

		store := mongodb.NewCredentialStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			comp.Close(ctx)
			return nil, fmt.Errorf("prepare credential store: %w", err)
		}
		comp.store = store
		comp.health["mongodb"] = store
		log.Info().Str("database", cfg.Mongo.Database).Msg("credential store connected")
	}

	comp.resolver = service.NewStoreResolver(comp.store)

	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			comp.Close(ctx)
			return nil, fmt.Errorf("connect principal cache: %w", err)
		}
		comp.closers = append(comp.closers, func(context.Context) error { return rdb.Close() })

		cache := redisdb.NewPrincipalCache(comp.resolver, rdb, cfg.Redis.CacheTTL, logger.Component(log, "principal_cache"))
		comp.resolver = cache
		comp.store = redisdb.NewInvalidatingStore(comp.store, cache, logger.Component(log, "principal_cache"))
		comp.health["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("principal cache enabled")
	}

	comp.tokens = security.NewTokenCodec(key, security.WithTTL(cfg.TokenTTL))
	hasher, err := security.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		comp.Close(ctx)
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	comp.auth = service.NewAuthService(comp.store, hasher, comp.tokens, logger.Component(log, "auth_service"))
	comp.users = service.NewUserService(comp.store, comp.auth, logger.Component(log, "user_service"))

	return comp, nil
}
