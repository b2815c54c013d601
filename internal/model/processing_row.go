package model

import "time"

// ProcessingRow mirrors the Parquet schema for an exported processing record.
// Timestamps are RFC3339 strings so the file reads the same in any tool.
type ProcessingRow struct {
	ID                 string   `parquet:"id"`
	RunID              *string  `parquet:"run_id,optional"`
	RecordID           string   `parquet:"record_id"`
	Index              int64    `parquet:"doc_index"`
	Timestamp          string   `parquet:"timestamp"`
	PatientName        *string  `parquet:"patient_name,optional"`
	FacilityName       *string  `parquet:"facility_name,optional"`
	RequestType        string   `parquet:"request_type"`
	ProcessType        *string  `parquet:"process_type,optional"`
	Username           *string  `parquet:"username,optional"`
	TemplateUsed       *string  `parquet:"template_used,optional"`
	PDFStatus          string   `parquet:"pdf_status"`
	PDFPath            *string  `parquet:"pdf_path,optional"`
	PDFError           *string  `parquet:"pdf_error,optional"`
	SmartRequestSent   bool     `parquet:"smartrequest_sent"`
	SmartRequestID     *string  `parquet:"smartrequest_id,optional"`
	SmartRequestStatus string   `parquet:"smartrequest_status"`
	SmartRequestError  *string  `parquet:"smartrequest_error,optional"`
	DurationSeconds    *float64 `parquet:"processing_duration,optional"`
}

// ProcessingRowColumns lists the columns every export file must carry.
func ProcessingRowColumns() []string {
	return []string{"id", "record_id", "timestamp", "request_type", "pdf_status", "smartrequest_status"}
}

// ToRow converts a tracked record into its export row.
func (r *ProcessingRecord) ToRow() ProcessingRow {
	return ProcessingRow{
		ID:                 r.ID,
		RunID:              optStr(r.RunID),
		RecordID:           r.RecordID,
		Index:              int64(r.Index),
		Timestamp:          r.Timestamp.UTC().Format(time.RFC3339),
		PatientName:        optStr(r.PatientName),
		FacilityName:       optStr(r.FacilityName),
		RequestType:        r.RequestType,
		ProcessType:        optStr(r.ProcessType),
		Username:           optStr(r.Username),
		TemplateUsed:       optStr(r.TemplateUsed),
		PDFStatus:          r.PDFStatus,
		PDFPath:            optStr(r.PDFPath),
		PDFError:           optStr(r.PDFError),
		SmartRequestSent:   r.SmartRequestSent,
		SmartRequestID:     optStr(r.SmartRequestID),
		SmartRequestStatus: r.SmartRequestStatus,
		SmartRequestError:  optStr(r.SmartRequestError),
		DurationSeconds:    r.DurationSeconds,
	}
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
