package model

import (
	"encoding/json"
	"sort"
	"time"
)

// PDF generation states.
const (
	PDFPending = "pending"
	PDFSuccess = "success"
	PDFError   = "error"
)

// SmartRequest submission states.
const (
	SmartRequestNotSent = "not_sent"
	SmartRequestSent    = "sent"
	SmartRequestSuccess = "success"
	SmartRequestError   = "error"
)

// ProcessingRecord is the tracked outcome of generating one document for a case.
type ProcessingRecord struct {
	ID                  string          `json:"id"`
	RunID               string          `json:"run_id,omitempty"`
	RecordID            string          `json:"record_id"`
	Index               int             `json:"index"`
	Timestamp           time.Time       `json:"timestamp"`
	PatientName         string          `json:"patient_name,omitempty"`
	FacilityName        string          `json:"facility_name,omitempty"`
	RequestType         string          `json:"request_type"`
	ProcessType         string          `json:"process_type,omitempty"`
	Username            string          `json:"username,omitempty"`
	TemplateUsed        string          `json:"template_used,omitempty"`
	PDFStatus           string          `json:"pdf_status"`
	PDFPath             string          `json:"pdf_path,omitempty"`
	PDFError            string          `json:"pdf_error,omitempty"`
	SmartRequestSent    bool            `json:"smartrequest_sent"`
	SmartRequestID      string          `json:"smartrequest_id,omitempty"`
	SmartRequestStatus  string          `json:"smartrequest_status"`
	SmartRequestError   string          `json:"smartrequest_error,omitempty"`
	SmartRequestPayload json.RawMessage `json:"smartrequest_payload,omitempty"`
	DurationSeconds     *float64        `json:"processing_duration,omitempty"`
}

// DashboardSummary aggregates processing records for the dashboard.
type DashboardSummary struct {
	TotalRecords        int                `json:"total_records"`
	PDFSuccess          int                `json:"pdf_success"`
	PDFErrors           int                `json:"pdf_errors"`
	PDFPending          int                `json:"pdf_pending"`
	SmartRequestSent    int                `json:"smartrequest_sent"`
	SmartRequestSuccess int                `json:"smartrequest_success"`
	SmartRequestErrors  int                `json:"smartrequest_errors"`
	RequestTypes        map[string]int     `json:"request_types"`
	RecentActivity      []ProcessingRecord `json:"recent_activity"`
}

// Summarize computes a DashboardSummary from records. recent limits the
// number of RecentActivity entries, newest first.
func Summarize(records []ProcessingRecord, recent int) DashboardSummary {
	s := DashboardSummary{
		TotalRecords: len(records),
		RequestTypes: make(map[string]int),
	}
	for _, r := range records {
		switch r.PDFStatus {
		case PDFSuccess:
			s.PDFSuccess++
		case PDFError:
			s.PDFErrors++
		case PDFPending:
			s.PDFPending++
		}
		if r.SmartRequestSent {
			s.SmartRequestSent++
		}
		switch r.SmartRequestStatus {
		case SmartRequestSuccess:
			s.SmartRequestSuccess++
		case SmartRequestError:
			s.SmartRequestErrors++
		}
		s.RequestTypes[r.RequestType]++
	}

	sorted := make([]ProcessingRecord, len(records))
	copy(sorted, records)
	SortNewestFirst(sorted)
	if len(sorted) > recent {
		sorted = sorted[:recent]
	}
	s.RecentActivity = sorted
	return s
}

// SortNewestFirst orders records by timestamp, newest first.
func SortNewestFirst(records []ProcessingRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}

// TrackedRequest is a SmartRequest submission followed until fulfillment.
type TrackedRequest struct {
	RequestID    string    `json:"request_id"`
	RecordID     string    `json:"record_id"`
	DocumentType string    `json:"document_type"`
	Status       string    `json:"status"`
	PatientName  string    `json:"patient_name,omitempty"`
	FacilityName string    `json:"facility_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
