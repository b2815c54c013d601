package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyeh/mrrequest/internal/exitcode"
	"github.com/gyeh/mrrequest/internal/logging"
	"github.com/gyeh/mrrequest/internal/normalize"
	"github.com/gyeh/mrrequest/internal/tracker"
)

var importCmd = &cobra.Command{
	Use:   "import <file.parquet>",
	Short: "Load an exported Parquet file into the tracker database",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()
	path := args[0]

	if err := cfg.ValidateWithDSN(); err != nil {
		fail(log, exitcode.UsageError, err, "config validation failed")
	}
	sha, err := normalize.FileHash(path)
	if err != nil {
		fail(log, exitcode.UsageError, err, "failed to hash file")
	}

	store, err := tracker.Open(ctx, cfg.DSN, log)
	if err != nil {
		fail(log, exitcode.DBConnError, err, "tracker connection failed")
	}
	defer store.Close()

	res, err := store.Import(ctx, path)
	if err != nil {
		fail(log, exitcode.ProcessError, err, "import failed")
	}

	log.Info().Str("file", path).Str("sha256", sha).Msg("import complete")
	fmt.Printf("Import complete: %d rows read, %d inserted (%.1fs)\n",
		res.RowsRead, res.RowsInserted, res.Duration.Seconds())
	return nil
}
