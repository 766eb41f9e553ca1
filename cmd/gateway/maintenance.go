package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/claim-gateway/internal/repo"
	"github.com/tbourn/claim-gateway/internal/services"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closeDB(db)

			n, err := repo.CountLogs(cmd.Context(), db)
			if err != nil {
				return err
			}
			log.Info().Str("db", cfg.DBPath).Int64("message_logs", n).Msg("schema up to date")
			return nil
		},
	}
}

func newIssueKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "issue-key <company name>",
		Short: "Register an API client and print its key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closeDB(db)

			svc := &services.GatewayService{DB: db}
			a, err := svc.IssueAPIKey(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), a.APIKey)
			return err
		},
	}
}
