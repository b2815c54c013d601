// Package pipeline runs one polling cycle: fetch the REDCap activity log,
// classify each case, generate its request letter and optionally submit a
// SmartRequest records request.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/ratelimit"

	"github.com/gyeh/mrrequest/internal/config"
	"github.com/gyeh/mrrequest/internal/csvlog"
	"github.com/gyeh/mrrequest/internal/docx"
	"github.com/gyeh/mrrequest/internal/facility"
	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/pdf"
	"github.com/gyeh/mrrequest/internal/redcap"
	"github.com/gyeh/mrrequest/internal/smartrequest"
	"github.com/gyeh/mrrequest/internal/tracker"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Source is the REDCap project a run reads from. *redcap.Client implements it.
type Source interface {
	ExportLog(ctx context.Context, w redcap.Window) ([]map[string]string, error)
	ExportRecords(ctx context.Context, ids, fields []string) ([]map[string]string, error)
}

// Deps are the collaborators of a run. Adapter and a non-empty Facilities
// are required when cfg.Submit is set.
type Deps struct {
	Source     Source
	Tracker    tracker.Tracker
	Converter  pdf.Converter
	Adapter    *smartrequest.Adapter
	Facilities *facility.Directory

	// Now defaults to time.Now.
	Now func() time.Time
}

type run struct {
	Deps
	cfg     *config.Config
	log     zerolog.Logger
	logs    *csvlog.Set
	filler  *docx.Filler
	limiter ratelimit.Limiter
	summary *model.RunSummary
}

// Run executes one polling cycle over w: setup → fetch → process → finish.
// Per-case failures are logged and counted; only setup failures return an
// error.
func Run(ctx context.Context, d Deps, log zerolog.Logger, cfg *config.Config, w redcap.Window) (*model.RunSummary, error) {
	if d.Now == nil {
		d.Now = time.Now
	}
	totalStart := d.Now()
	runID := uuid.NewString()
	log = log.With().Str("run_id", runID).Logger()

	// Phase 1: Setup
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, &PipelineError{Phase: "setup", Err: fmt.Errorf("create output dir: %w", err)}
	}
	logs, err := csvlog.OpenSet(cfg.LogsDir, totalStart)
	if err != nil {
		return nil, &PipelineError{Phase: "setup", Err: err}
	}
	if cfg.Submit && d.Adapter == nil {
		return nil, &PipelineError{Phase: "setup", Err: fmt.Errorf("submission enabled without a SmartRequest adapter")}
	}
	if cfg.Submit && (d.Facilities == nil || d.Facilities.Len() == 0) {
		return nil, &PipelineError{Phase: "setup", Err: fmt.Errorf("submission enabled without a facility directory")}
	}
	if err := d.Tracker.BeginRun(ctx, runID, w.Begin, w.End); err != nil {
		return nil, &PipelineError{Phase: "setup", Err: err}
	}

	r := &run{
		Deps:    d,
		cfg:     cfg,
		log:     log,
		logs:    logs,
		filler:  docx.NewFiller(cfg.OutputDir),
		limiter: newLimiter(cfg.Throttle),
		summary: &model.RunSummary{
			RunID:        runID,
			WindowBegin:  w.Begin,
			WindowEnd:    w.End,
			CasesByStage: make(map[string]int),
		},
	}
	r.filler.Now = d.Now

	// Phase 2: Fetch
	log.Info().
		Str("begin", w.Begin.Format(redcap.TimeLayout)).
		Str("end", w.End.Format(redcap.TimeLayout)).
		Msg("fetching activity log")
	fetchStart := d.Now()
	cases, err := r.fetch(ctx, w)
	r.summary.DurationFetch = d.Now().Sub(fetchStart)
	if err != nil {
		r.summary.FetchFailed = true
		r.summary.DurationTotal = d.Now().Sub(totalStart)
		log.Error().Err(err).Msg("activity log unavailable, nothing processed this cycle")
		r.generalLog("", "", "", "error", fmt.Sprintf("Error fetching activity log: %v", err))
		r.finish(ctx, tracker.RunFailed)
		return r.summary, nil
	}

	// Phase 3: Process
	processStart := d.Now()
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Msg("run interrupted")
			break
		}
		r.processCase(ctx, c)
	}
	r.summary.DurationProcess = d.Now().Sub(processStart)
	r.summary.DurationTotal = d.Now().Sub(totalStart)

	// Phase 4: Finish
	status := tracker.RunSucceeded
	if r.summary.DocumentErrors > 0 || r.summary.RequestErrors > 0 {
		status = tracker.RunPartial
	}
	r.finish(ctx, status)

	s := r.summary
	log.Info().
		Int("summaries", s.SummariesFetched).
		Int("cases", s.CasesLatest).
		Int("documents", s.DocumentsGenerated).
		Int("document_errors", s.DocumentErrors).
		Int("extended", s.ExtendedRecords).
		Int("requests", s.RequestsSubmitted).
		Int("request_errors", s.RequestErrors).
		Str("total_duration", s.DurationTotal.String()).
		Msg("run complete")

	return s, nil
}

// newLimiter spaces cases by throttle. Zero disables the delay.
func newLimiter(throttle time.Duration) ratelimit.Limiter {
	if throttle <= 0 {
		return ratelimit.NewUnlimited()
	}
	return ratelimit.New(1, ratelimit.Per(throttle), ratelimit.WithoutSlack)
}

func (r *run) finish(ctx context.Context, status string) {
	if err := r.Tracker.FinishRun(ctx, r.summary.RunID, status, r.summary); err != nil {
		r.log.Warn().Err(err).Str("status", status).Msg("failed to record run outcome")
	}
}

func (r *run) generalLog(recordID, timestamp, username, status, details string) {
	err := r.logs.General.Log(csvlog.Row{
		"record":    recordID,
		"timestamp": timestamp,
		"username":  username,
		"status":    status,
		"details":   details,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("log", r.logs.General.Path()).Msg("failed to append general log")
	}
}
