package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/mrrequest/internal/exitcode"
	"github.com/gyeh/mrrequest/internal/logging"
	"github.com/gyeh/mrrequest/internal/pdf"
	"github.com/gyeh/mrrequest/internal/pipeline"
	"github.com/gyeh/mrrequest/internal/redcap"
	"github.com/gyeh/mrrequest/internal/smartrequest"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process one window of the REDCap activity log",
	RunE:  runProcess,
}

func init() {
	f := processCmd.Flags()
	addRunFlags(f)
	addWindowFlags(f)
	f.BoolVar(&cfg.Submit, "submit", cfg.Submit, "Submit generated PDFs to SmartRequest (requires --facilities)")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		fail(log, exitcode.UsageError, err, "config validation failed")
	}
	if err := cfg.ValidateREDCap(); err != nil {
		fail(log, exitcode.ConfigError, err, "REDCap settings missing")
	}
	w, err := redcap.ParseWindow(cfg.Window, cfg.Since, cfg.Until, time.Now())
	if err != nil {
		fail(log, exitcode.UsageError, err, "invalid window")
	}

	trk, err := openTracker(ctx, log)
	if err != nil {
		fail(log, exitcode.DBConnError, err, "tracker connection failed")
	}
	defer trk.Close()

	deps := pipeline.Deps{
		Source: redcap.NewClient(redcap.Config{
			URL:   cfg.Env.REDCapURL,
			Token: cfg.Env.REDCapToken,
		}),
		Tracker:   trk,
		Converter: pdf.NewSoffice(cfg.Soffice),
	}
	if cfg.Submit {
		dir, err := loadFacilities()
		if err != nil {
			fail(log, exitcode.ConfigError, err, "facility directory load failed")
		}
		deps.Facilities = dir
		deps.Adapter = smartrequest.NewAdapter(newSmartRequestAPI(log), log)
	}

	summary, err := pipeline.Run(ctx, deps, log, &cfg, w)
	if err != nil {
		var pe *pipeline.PipelineError
		if errors.As(err, &pe) && pe.Phase == "setup" {
			fail(log, exitcode.ConfigError, pe.Err, "run setup failed")
		}
		fail(log, exitcode.ProcessError, err, "run failed")
	}

	fmt.Printf("Run %s: %d summaries, %d cases\n", summary.RunID, summary.SummariesFetched, summary.CasesLatest)
	printStageCounts(summary.CasesByStage)
	fmt.Printf("Documents: %d generated, %d errors, %d extended\n",
		summary.DocumentsGenerated, summary.DocumentErrors, summary.ExtendedRecords)
	fmt.Printf("Requests:  %d submitted, %d errors\n", summary.RequestsSubmitted, summary.RequestErrors)
	fmt.Printf("Duration:  %.1fs\n", summary.DurationTotal.Seconds())

	switch {
	case summary.FetchFailed:
		os.Exit(exitcode.FetchError)
	case summary.DocumentErrors > 0 || summary.RequestErrors > 0:
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

func printStageCounts(byStage map[string]int) {
	stages := make([]string, 0, len(byStage))
	for s := range byStage {
		stages = append(stages, s)
	}
	sort.Strings(stages)
	for _, s := range stages {
		fmt.Printf("  %-24s %d\n", s, byStage[s])
	}
}
