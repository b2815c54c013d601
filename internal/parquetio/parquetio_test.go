package parquetio

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/mrrequest/internal/model"
)

func TestWriteReadAll(t *testing.T) {
	dur := 2.5
	records := []model.ProcessingRecord{
		{
			ID: "11111111-1111-1111-1111-111111111111", RunID: "22222222-2222-2222-2222-222222222222",
			RecordID: "R1", Timestamp: time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC),
			RequestType: "mother", ProcessType: "first_request", PDFStatus: model.PDFSuccess,
			PDFPath: "output/2025010114/first_request/R1_0.pdf", SmartRequestSent: true,
			SmartRequestID: "1001", SmartRequestStatus: model.SmartRequestSent, DurationSeconds: &dur,
		},
		{
			ID: "33333333-3333-3333-3333-333333333333", RecordID: "R2", Index: 1,
			Timestamp: time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC), RequestType: "infant",
			PDFStatus: model.PDFError, PDFError: "template not found", SmartRequestStatus: model.SmartRequestNotSent,
		},
	}
	path := filepath.Join(t.TempDir(), "export", "processing.parquet")
	n, err := Write(path, records)
	if err != nil || n != 2 {
		t.Fatalf("Write = %d, %v", n, err)
	}

	rows, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].RecordID != "R1" || rows[0].RunID == nil || *rows[0].RunID != records[0].RunID {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[0].DurationSeconds == nil || *rows[0].DurationSeconds != 2.5 {
		t.Errorf("duration = %v", rows[0].DurationSeconds)
	}
	if rows[1].RunID != nil || rows[1].Index != 1 || rows[1].PDFError == nil {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[1].Timestamp != "2025-01-01T15:00:00Z" {
		t.Errorf("timestamp = %s", rows[1].Timestamp)
	}
}

func TestValidateSchema(t *testing.T) {
	if err := ValidateSchema(parquet.SchemaOf(model.ProcessingRow{})); err != nil {
		t.Errorf("export schema rejected: %v", err)
	}

	type partial struct {
		ID       string `parquet:"id"`
		RecordID string `parquet:"record_id"`
	}
	if err := ValidateSchema(parquet.SchemaOf(partial{})); err == nil {
		t.Error("expected error for schema without status columns")
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.parquet")); err == nil {
		t.Fatal("expected error")
	}
}
