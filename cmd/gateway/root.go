package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/claim-gateway/internal/config"
	"github.com/tbourn/claim-gateway/internal/repo"
	"github.com/tbourn/claim-gateway/internal/sysutil"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "gateway",
		Short:        "Multi-channel claim analysis gateway",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if p := strings.TrimSpace(cfgFile); p != "" {
				_ = os.Setenv(config.FileEnv, p)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (overrides "+config.FileEnv+")")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newIssueKeyCmd())

	return cmd
}

// bootstrap loads configuration, installs the global logger and opens the
// migrated database.
func bootstrap(cmd *cobra.Command) (config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	sysutil.ConfigureLogger(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr())

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return cfg, nil, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB(db)
		return cfg, nil, err
	}
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
