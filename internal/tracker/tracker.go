// Package tracker records the outcome of every generated document and
// every submitted records request, for the dashboard and the CLI.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gyeh/mrrequest/internal/model"
)

// ErrNotFound is returned when a record or request id is unknown.
var ErrNotFound = errors.New("tracker: not found")

// RecentActivity is how many records a summary lists.
const RecentActivity = 10

// Run states.
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunPartial   = "partial"
	RunFailed    = "failed"
)

// StartParams describes a document about to be generated.
type StartParams struct {
	RunID        string
	RecordID     string
	Index        int
	RequestType  string
	ProcessType  string
	PatientName  string
	FacilityName string
	Username     string
	Timestamp    time.Time
}

// Filter narrows List and Summary. Zero fields match everything.
type Filter struct {
	Since              time.Time
	RecordID           string
	RequestType        string
	PDFStatus          string
	SmartRequestStatus string
	Limit              int
}

// Match reports whether r passes the filter, ignoring Limit.
func (f Filter) Match(r *model.ProcessingRecord) bool {
	if !f.Since.IsZero() && r.Timestamp.Before(f.Since) {
		return false
	}
	if f.RecordID != "" && r.RecordID != f.RecordID {
		return false
	}
	if f.RequestType != "" && r.RequestType != f.RequestType {
		return false
	}
	if f.PDFStatus != "" && r.PDFStatus != f.PDFStatus {
		return false
	}
	if f.SmartRequestStatus != "" && r.SmartRequestStatus != f.SmartRequestStatus {
		return false
	}
	return true
}

// Tracker persists processing records, tracked requests and runs.
// Store and Memory implement it.
type Tracker interface {
	BeginRun(ctx context.Context, runID string, begin, end time.Time) error
	FinishRun(ctx context.Context, runID, status string, summary *model.RunSummary) error

	// Start registers a document and returns its tracking id.
	Start(ctx context.Context, p StartParams) (string, error)
	UpdatePDF(ctx context.Context, id, status, path, errMsg, template string) error
	// UpdateSmartRequest records a submission outcome. payload should
	// already be sanitized; nil keeps the stored one.
	UpdateSmartRequest(ctx context.Context, id, status, requestID, errMsg string, payload json.RawMessage) error
	Complete(ctx context.Context, id string, d time.Duration) error
	Get(ctx context.Context, id string) (*model.ProcessingRecord, error)
	// List returns matching records newest first.
	List(ctx context.Context, f Filter) ([]model.ProcessingRecord, error)

	TrackRequest(ctx context.Context, r model.TrackedRequest) error
	UpdateRequestStatus(ctx context.Context, requestID, status string) error
	Request(ctx context.Context, requestID string) (*model.TrackedRequest, error)
	RequestsForRecord(ctx context.Context, recordID string) ([]model.TrackedRequest, error)
	// RequestsByStatus lists tracked requests; an empty status lists all.
	RequestsByStatus(ctx context.Context, status string) ([]model.TrackedRequest, error)
	RemoveRequest(ctx context.Context, requestID string) error

	Close()
}

// Summary aggregates the records matching f.
func Summary(ctx context.Context, t Tracker, f Filter) (model.DashboardSummary, error) {
	f.Limit = 0
	records, err := t.List(ctx, f)
	if err != nil {
		return model.DashboardSummary{}, err
	}
	return model.Summarize(records, RecentActivity), nil
}

// sentStatus reports whether a SmartRequest status counts as sent.
func sentStatus(status string) bool {
	return status == model.SmartRequestSent || status == model.SmartRequestSuccess
}
