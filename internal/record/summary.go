package record

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/mrrequest/internal/model"
)

// SummaryFromRecord converts a SummarySchema record into a CaseSummary.
func SummaryFromRecord(r Record) (model.CaseSummary, error) {
	ts, err := time.ParseInLocation(model.TimestampLayout, strings.TrimSpace(r.Get("timestamp")), time.Local)
	if err != nil {
		return model.CaseSummary{}, fmt.Errorf("parse timestamp %q: %w", r.Get("timestamp"), err)
	}
	return model.CaseSummary{
		Record:    r.Get("record"),
		Timestamp: ts,
		Username:  r.Get("username"),
		Action:    r.Get("action"),
		Details:   r.Get("details"),
	}, nil
}

// Summaries filters raw log rows against SummarySchema and converts them.
// Rows with a missing field or an unparseable timestamp are skipped with a
// Diagnostic each.
func Summaries(rows []map[string]string, log zerolog.Logger) ([]model.CaseSummary, []Diagnostic) {
	records, diags := FilterToSchema(rows, SummarySchema, log)
	out := make([]model.CaseSummary, 0, len(records))
	for _, r := range records {
		s, err := SummaryFromRecord(r)
		if err != nil {
			log.Warn().Str("record", r.ID()).Err(err).Msg("skipping log row")
			diags = append(diags, Diagnostic{RecordID: r.ID(), Reason: err.Error(), Raw: r.Map()})
			continue
		}
		out = append(out, s)
	}
	return out, diags
}

// LatestPerCase keeps, for each record id, only the summary with the
// greatest timestamp. On equal timestamps the first one seen is kept.
// The result is ordered by timestamp, then record id.
func LatestPerCase(summaries []model.CaseSummary) []model.CaseSummary {
	latest := make(map[string]model.CaseSummary, len(summaries))
	for _, s := range summaries {
		cur, ok := latest[s.Record]
		if !ok || s.Timestamp.After(cur.Timestamp) {
			latest[s.Record] = s
		}
	}

	out := make([]model.CaseSummary, 0, len(latest))
	for _, s := range latest {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].Record < out[j].Record
	})
	return out
}
