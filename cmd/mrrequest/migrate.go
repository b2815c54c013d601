package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gyeh/mrrequest/internal/db"
	"github.com/gyeh/mrrequest/internal/exitcode"
	"github.com/gyeh/mrrequest/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply tracker schema migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		fail(log, exitcode.UsageError, err, "config validation failed")
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		fail(log, exitcode.DBConnError, err, "database connection failed")
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		fail(log, exitcode.ProcessError, err, "migration failed")
	}

	log.Info().Msg("all migrations applied successfully")
	return nil
}
