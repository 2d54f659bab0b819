package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gymtracker/auth-gateway/internal/api"
	"github.com/gymtracker/auth-gateway/internal/core/security"
	"github.com/gymtracker/auth-gateway/internal/infrastructure/config"
	"github.com/gymtracker/auth-gateway/pkg/logger"
)

type serveOptions struct {
	port string
}

func (o *serveOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.port, "port", "", "listen port (overrides PORT)")
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if opts.port != "" {
		cfg.Port = opts.port
	}
	log := initLogger(cfg)

	// A fresh key per process: tokens issued before a restart stop verifying.
	key, err := security.GenerateSigningKey()
	if err != nil {
		log.WithLevel(zerolog.FatalLevel).Err(err).Msg("cannot generate token signing key")
		return err
	}

	comp, err := buildComponents(ctx, cfg, key, log)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return err
	}
	defer comp.Close(context.Background())

	e, err := api.NewRouter(api.Dependencies{
		AuthService: comp.auth,
		UserService: comp.users,
		Tokens:      comp.tokens,
		Resolver:    comp.resolver,
		Health:      comp.health,
		Logger:      logger.Component(log, "http"),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Dur("token_ttl", cfg.TokenTTL).Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	log.Info().Msg("gateway stopped")
	return nil
}
