package record

import (
	"bytes"
	"testing"

	"github.com/gyeh/mrrequest/internal/logging"
	"github.com/gyeh/mrrequest/internal/model"
)

func summary(t *testing.T, rec, ts string) model.CaseSummary {
	t.Helper()
	r := New(SummarySchema, map[string]string{"record": rec, "timestamp": ts, "username": "u", "action": "Update", "details": ""})
	s, err := SummaryFromRecord(r)
	if err != nil {
		t.Fatalf("SummaryFromRecord: %v", err)
	}
	return s
}

func TestLatestPerCase_KeepsNewest(t *testing.T) {
	in := []model.CaseSummary{
		summary(t, "R2", "2025-01-01 00:00"),
		summary(t, "R1", "2025-01-01 12:00"),
		summary(t, "R2", "2025-01-02 00:00"),
	}
	out := LatestPerCase(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(out))
	}
	if out[0].Record != "R1" {
		t.Errorf("expected R1 first (older), got %s", out[0].Record)
	}
	if out[1].Record != "R2" || out[1].TimestampString() != "2025-01-02 00:00" {
		t.Errorf("R2 should keep the later summary, got %+v", out[1])
	}
}

func TestLatestPerCase_TieKeepsFirst(t *testing.T) {
	a := summary(t, "R1", "2025-01-01 00:00")
	a.Action = "first"
	b := summary(t, "R1", "2025-01-01 00:00")
	b.Action = "second"
	out := LatestPerCase([]model.CaseSummary{a, b})
	if len(out) != 1 || out[0].Action != "first" {
		t.Errorf("tie should keep first summary, got %+v", out)
	}
}

func TestSummaries_BadTimestamp(t *testing.T) {
	rows := []map[string]string{
		{"record": "R1", "timestamp": "yesterday", "username": "u", "action": "a", "details": ""},
		{"record": "R2", "timestamp": "2025-01-01 00:00", "username": "u", "action": "a", "details": ""},
	}
	out, diags := Summaries(rows, logging.New(&bytes.Buffer{}, "json", "info"))
	if len(out) != 1 || out[0].Record != "R2" {
		t.Fatalf("unexpected summaries: %+v", out)
	}
	if len(diags) != 1 || diags[0].RecordID != "R1" {
		t.Errorf("unexpected diagnostics: %+v", diags)
	}
}
