package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gyeh/mrrequest/internal/classify"
	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/record"
	"github.com/gyeh/mrrequest/internal/redcap"
)

// Case is a latest-per-record summary with its classification.
type Case struct {
	Summary model.CaseSummary
	Stage   classify.Stage
	Details record.Details
	// Err is set when the details blob could not be read.
	Err error
}

func (r *run) fetch(ctx context.Context, w redcap.Window) ([]Case, error) {
	p, err := fetchCases(ctx, r.Source, r.log, w)
	if err != nil {
		return nil, err
	}
	r.summary.SummariesFetched = p.SummariesFetched
	r.summary.SummariesRejected = p.SummariesRejected
	r.summary.CasesLatest = len(p.Cases)
	for _, c := range p.Cases {
		if c.Err == nil {
			r.summary.CasesByStage[c.Stage.String()]++
		}
	}
	for _, d := range p.Rejected {
		r.generalLog(d.RecordID, d.Raw["timestamp"], d.Raw["username"], "error", d.Reason)
	}
	return p.Cases, nil
}

// Plan is the classified view of a window, without side effects.
type Plan struct {
	SummariesFetched  int
	SummariesRejected int
	Rejected          []record.Diagnostic
	Cases             []Case
}

// StageCounts tallies cases per stage name. Malformed cases count as
// "malformed".
func (p *Plan) StageCounts() map[string]int {
	out := make(map[string]int)
	for _, c := range p.Cases {
		if c.Err != nil {
			out["malformed"]++
			continue
		}
		out[c.Stage.String()]++
	}
	return out
}

// BuildPlan fetches and classifies the activity log in w.
func BuildPlan(ctx context.Context, src Source, log zerolog.Logger, w redcap.Window) (*Plan, error) {
	return fetchCases(ctx, src, log, w)
}

func fetchCases(ctx context.Context, src Source, log zerolog.Logger, w redcap.Window) (*Plan, error) {
	rows, err := src.ExportLog(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("export log: %w", err)
	}

	summaries, rejected := record.Summaries(rows, log)
	latest := record.LatestPerCase(summaries)
	p := &Plan{
		SummariesFetched:  len(rows),
		SummariesRejected: len(rejected),
		Rejected:          rejected,
		Cases:             make([]Case, 0, len(latest)),
	}
	for _, s := range latest {
		stage, details, err := classify.ClassifySummary(s)
		if err != nil {
			log.Warn().Str("record", s.Record).Str("raw", s.Details).Err(err).Msg("skipping malformed case")
		}
		p.Cases = append(p.Cases, Case{Summary: s, Stage: stage, Details: details, Err: err})
	}

	log.Info().
		Int("summaries", len(rows)).
		Int("rejected", len(rejected)).
		Int("cases", len(latest)).
		Msg("activity log classified")
	return p, nil
}
