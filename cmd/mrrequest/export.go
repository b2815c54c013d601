package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/mrrequest/internal/exitcode"
	"github.com/gyeh/mrrequest/internal/logging"
	"github.com/gyeh/mrrequest/internal/normalize"
	"github.com/gyeh/mrrequest/internal/parquetio"
	"github.com/gyeh/mrrequest/internal/tracker"
)

var exportOpts struct {
	out      string
	since    string
	recordID string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tracked processing records to a Parquet file",
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOpts.out, "out", "", "Output Parquet path (required)")
	f.StringVar(&exportOpts.since, "since", "", "Only records processed on or after this date (YYYY-MM-DD)")
	f.StringVar(&exportOpts.recordID, "record", "", "Only records for this record id")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		fail(log, exitcode.UsageError, err, "config validation failed")
	}
	filter := tracker.Filter{RecordID: exportOpts.recordID}
	if exportOpts.since != "" {
		since, err := time.ParseInLocation(time.DateOnly, exportOpts.since, time.Local)
		if err != nil {
			fail(log, exitcode.UsageError, err, "invalid --since")
		}
		filter.Since = since
	}

	store, err := tracker.Open(ctx, cfg.DSN, log)
	if err != nil {
		fail(log, exitcode.DBConnError, err, "tracker connection failed")
	}
	defer store.Close()

	records, err := store.List(ctx, filter)
	if err != nil {
		fail(log, exitcode.ProcessError, err, "failed to list records")
	}
	n, err := parquetio.Write(exportOpts.out, records)
	if err != nil {
		fail(log, exitcode.ProcessError, err, "failed to write parquet")
	}
	back, err := parquetio.ReadAll(exportOpts.out)
	if err != nil {
		fail(log, exitcode.ProcessError, err, "export verification failed")
	}
	if len(back) != n {
		fail(log, exitcode.ProcessError, fmt.Errorf("wrote %d rows, read back %d", n, len(back)), "export verification failed")
	}
	sha, err := normalize.FileHash(exportOpts.out)
	if err != nil {
		fail(log, exitcode.ProcessError, err, "failed to hash export")
	}

	log.Info().Str("file", exportOpts.out).Str("sha256", sha).Int("rows", n).Msg("export written")
	fmt.Printf("Exported %d records to %s (sha256 %s)\n", n, exportOpts.out, sha)
	return nil
}
