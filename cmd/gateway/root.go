package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the gateway CLI. Without a subcommand it serves HTTP.
func NewRootCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:          "gateway",
		Short:        "Gymtracker authentication gateway",
		Long:         `Issues bearer tokens for registered users and guards the account API.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	opts.bind(cmd)

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCreateAdminCmd())
	cmd.AddCommand(newSetRoleCmd())

	return cmd
}
