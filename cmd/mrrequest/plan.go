package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/mrrequest/internal/exitcode"
	"github.com/gyeh/mrrequest/internal/logging"
	"github.com/gyeh/mrrequest/internal/pipeline"
	"github.com/gyeh/mrrequest/internal/redcap"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run: fetch and classify a window (no writes)",
	RunE:  runPlan,
}

func init() {
	addWindowFlags(planCmd.Flags())
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ValidateREDCap(); err != nil {
		fail(log, exitcode.ConfigError, err, "REDCap settings missing")
	}
	w, err := redcap.ParseWindow(cfg.Window, cfg.Since, cfg.Until, time.Now())
	if err != nil {
		fail(log, exitcode.UsageError, err, "invalid window")
	}

	src := redcap.NewClient(redcap.Config{URL: cfg.Env.REDCapURL, Token: cfg.Env.REDCapToken})
	plan, err := pipeline.BuildPlan(ctx, src, log, w)
	if err != nil {
		fail(log, exitcode.FetchError, err, "failed to fetch activity log")
	}

	fmt.Println("=== mrrequest plan ===")
	fmt.Printf("Window:    %s → %s\n", w.Begin.Format(redcap.TimeLayout), w.End.Format(redcap.TimeLayout))
	fmt.Printf("Summaries: %d fetched, %d rejected\n", plan.SummariesFetched, plan.SummariesRejected)
	fmt.Printf("Cases:     %d\n", len(plan.Cases))
	fmt.Println()
	fmt.Println("Stage distribution:")
	printStageCounts(plan.StageCounts())

	if len(plan.Rejected) > 0 {
		fmt.Println()
		fmt.Println("Rejected summaries:")
		for _, d := range plan.Rejected {
			fmt.Printf("  %-12s %s\n", d.RecordID, d.Reason)
		}
	}
	return nil
}
