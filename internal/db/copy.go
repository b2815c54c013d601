package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/mrrequest/internal/model"
)

// ProcessingColumns is the COPY column order for processing_records.
var ProcessingColumns = []string{
	"id", "run_id", "record_id", "doc_index", "timestamp",
	"patient_name", "facility_name", "request_type", "process_type", "username",
	"template_used", "pdf_status", "pdf_path", "pdf_error",
	"smartrequest_sent", "smartrequest_id", "smartrequest_status", "smartrequest_error",
	"duration_seconds",
}

// ChannelSource implements pgx.CopyFromSource by reading export rows from a
// channel, so a Parquet reader and the COPY writer run in step.
type ChannelSource struct {
	ch      <-chan model.ProcessingRow
	current model.ProcessingRow
	err     error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource(ch <-chan model.ProcessingRow) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed
// or a row failed to convert.
func (s *ChannelSource) Next() bool {
	if s.err != nil {
		return false
	}
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row in ProcessingColumns order.
func (s *ChannelSource) Values() ([]any, error) {
	r := s.current
	id, err := uuid.Parse(r.ID)
	if err != nil {
		s.err = err
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		s.err = err
		return nil, err
	}
	var runID any
	if r.RunID != nil {
		if runID, err = uuid.Parse(*r.RunID); err != nil {
			s.err = err
			return nil, err
		}
	}
	return []any{
		id, runID, r.RecordID, r.Index, ts,
		str(r.PatientName), str(r.FacilityName), r.RequestType, str(r.ProcessType), str(r.Username),
		str(r.TemplateUsed), r.PDFStatus, str(r.PDFPath), str(r.PDFError),
		r.SmartRequestSent, str(r.SmartRequestID), r.SmartRequestStatus, str(r.SmartRequestError),
		r.DurationSeconds,
	}, nil
}

// Err returns any error encountered during iteration.
func (s *ChannelSource) Err() error {
	return s.err
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Compile-time check that ChannelSource satisfies the interface.
var _ pgx.CopyFromSource = (*ChannelSource)(nil)
