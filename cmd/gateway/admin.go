package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gymtracker/auth-gateway/internal/core/domain"
	"github.com/gymtracker/auth-gateway/internal/core/security"
	"github.com/gymtracker/auth-gateway/internal/infrastructure/config"
)

type accountOptions struct {
	username string
	password string
	role     string
}

func newCreateAdminCmd() *cobra.Command {
	opts := &accountOptions{}
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an account with ROLE_ADMIN",
		Long: `Create an administrator account. The username and password follow the
same rules as self-registration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withComponents(cmd.Context(), func(ctx context.Context, comp *components) error {
				p, err := comp.users.CreateAdmin(ctx, opts.username, opts.password)
				if err != nil {
					return err
				}
				printPrincipal(cmd.OutOrStdout(), "created", p)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.username, "username", "", "account username")
	cmd.Flags().StringVar(&opts.password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSetRoleCmd() *cobra.Command {
	opts := &accountOptions{}
	cmd := &cobra.Command{
		Use:   "set-role",
		Short: "Change the role of an existing account",
		Long: `Change an account's role. "admin", "ADMIN" and "ROLE_ADMIN" all name the
same role.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withComponents(cmd.Context(), func(ctx context.Context, comp *components) error {
				p, err := comp.users.SetRole(ctx, opts.username, opts.role)
				if err != nil {
					return err
				}
				printPrincipal(cmd.OutOrStdout(), "updated", p)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.username, "username", "", "account username")
	cmd.Flags().StringVar(&opts.role, "role", "", "new role, e.g. admin or user")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

// withComponents loads configuration, wires the stores and services, runs fn
// and releases every connection afterwards.
func withComponents(ctx context.Context, fn func(context.Context, *components) error) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := initLogger(cfg)

	key, err := security.GenerateSigningKey()
	if err != nil {
		return err
	}
	comp, err := buildComponents(ctx, cfg, key, log)
	if err != nil {
		return err
	}
	defer comp.Close(context.Background())

	return fn(ctx, comp)
}

func printPrincipal(w io.Writer, verb string, p *domain.Principal) {
	fmt.Fprintf(w, "%s user %s (id %d, role %s)\n", verb, p.Username, p.ID, p.Role)
}
