package model

import "time"

// RunSummary captures metrics from a single polling run.
type RunSummary struct {
	RunID              string
	WindowBegin        time.Time
	WindowEnd          time.Time
	SummariesFetched   int
	SummariesRejected  int
	CasesLatest        int
	CasesByStage       map[string]int
	CasesSkipped       int
	DocumentsGenerated int
	DocumentErrors     int
	PDFsConverted      int
	ExtendedRecords    int
	RequestsSubmitted  int
	RequestErrors      int
	FetchFailed        bool
	DurationFetch      time.Duration
	DurationProcess    time.Duration
	DurationTotal      time.Duration
}
