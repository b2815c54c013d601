package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/mrrequest/internal/db"
	"github.com/gyeh/mrrequest/internal/logging"
	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/parquetio"
)

const (
	testPort     = 15432
	testDB       = "mrrequesttest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

func TestMain(m *testing.M) {
	if os.Getenv("MRREQUEST_SKIP_PG") != "" {
		fmt.Fprintln(os.Stderr, "SKIP: embedded postgres disabled")
		os.Exit(0)
	}

	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			StartTimeout(30*time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupStore drops every tracker table, applies migrations and returns a Store.
func setupStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	for _, table := range []string{"processing_records", "tracked_requests", "runs", "schema_migrations"} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			t.Fatalf("drop table %s: %v", table, err)
		}
	}

	log := logging.Setup("text", "warn")
	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	s := NewStore(pool, zerolog.Nop())
	t.Cleanup(s.Close)
	return s
}

func TestStore_MigrationsRecorded(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	if err := db.ApplyMigrations(ctx, s.pool, zerolog.Nop()); err != nil {
		t.Fatalf("second ApplyMigrations: %v", err)
	}
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("schema_migrations rows = %d, want 3", n)
	}
}

func TestStore_ProcessingLifecycle(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	runID := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)
	if err := s.BeginRun(ctx, runID, now.Add(-time.Hour), now); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	id, err := s.Start(ctx, StartParams{
		RunID: runID, RecordID: "R1", RequestType: "first_request",
		PatientName: "Jane Doe", FacilityName: "Regional One", Timestamp: now,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.RunID != runID || rec.PDFStatus != model.PDFPending || rec.SmartRequestStatus != model.SmartRequestNotSent {
		t.Errorf("initial record = %+v", rec)
	}
	if rec.SmartRequestPayload != nil || rec.DurationSeconds != nil {
		t.Errorf("unexpected payload/duration on new record")
	}

	if err := s.UpdatePDF(ctx, id, model.PDFSuccess, "/out/R1_0.pdf", "", "t.docx"); err != nil {
		t.Fatalf("UpdatePDF: %v", err)
	}
	payload := json.RawMessage(`{"authorizationForms": "[1 files]"}`)
	if err := s.UpdateSmartRequest(ctx, id, model.SmartRequestSuccess, "1001", "", payload); err != nil {
		t.Fatalf("UpdateSmartRequest: %v", err)
	}
	if err := s.UpdateSmartRequest(ctx, id, model.SmartRequestSuccess, "1001", "", nil); err != nil {
		t.Fatalf("UpdateSmartRequest nil payload: %v", err)
	}
	if err := s.Complete(ctx, id, 2*time.Second); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	rec, _ = s.Get(ctx, id)
	if rec.PDFPath != "/out/R1_0.pdf" || !rec.SmartRequestSent || rec.SmartRequestID != "1001" {
		t.Errorf("record = %+v", rec)
	}
	var decoded map[string]string
	if err := json.Unmarshal(rec.SmartRequestPayload, &decoded); err != nil || decoded["authorizationForms"] != "[1 files]" {
		t.Errorf("payload = %s (%v)", rec.SmartRequestPayload, err)
	}
	if rec.DurationSeconds == nil || *rec.DurationSeconds != 2 {
		t.Errorf("duration = %v", rec.DurationSeconds)
	}

	if err := s.FinishRun(ctx, runID, RunSucceeded, &model.RunSummary{RunID: runID, DocumentsGenerated: 1}); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	missing := uuid.NewString()
	if _, err := s.Get(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get err = %v", err)
	}
	if _, err := s.Get(ctx, "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get bad id err = %v", err)
	}
	if err := s.UpdatePDF(ctx, missing, model.PDFError, "", "x", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePDF err = %v", err)
	}
	if err := s.FinishRun(ctx, missing, RunFailed, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("FinishRun err = %v", err)
	}
	if err := s.RemoveRequest(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveRequest err = %v", err)
	}
}

func TestStore_ListFilterAndSummary(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	a, _ := s.Start(ctx, StartParams{RecordID: "R1", RequestType: "first_request", Timestamp: base})
	b, _ := s.Start(ctx, StartParams{RecordID: "R2", RequestType: "second_request", Timestamp: base.Add(time.Hour)})
	c, _ := s.Start(ctx, StartParams{RecordID: "R1", RequestType: "second_request", Timestamp: base.Add(2 * time.Hour)})
	s.UpdatePDF(ctx, a, model.PDFSuccess, "", "", "")
	s.UpdatePDF(ctx, b, model.PDFError, "", "bad", "")
	s.UpdateSmartRequest(ctx, a, model.SmartRequestSent, "1", "", nil)

	all, err := s.List(ctx, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != c || all[2].ID != a {
		t.Fatalf("List order wrong: %d rows", len(all))
	}

	got, _ := s.List(ctx, Filter{RecordID: "R1", Since: base.Add(time.Minute)})
	if len(got) != 1 || got[0].ID != c {
		t.Errorf("filtered = %+v", got)
	}
	got, _ = s.List(ctx, Filter{PDFStatus: model.PDFError})
	if len(got) != 1 || got[0].ID != b {
		t.Errorf("pdf filter = %+v", got)
	}
	got, _ = s.List(ctx, Filter{Limit: 2})
	if len(got) != 2 {
		t.Errorf("limit = %d", len(got))
	}

	sum, err := Summary(ctx, s, Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalRecords != 3 || sum.PDFSuccess != 1 || sum.PDFErrors != 1 || sum.PDFPending != 1 || sum.SmartRequestSent != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.RequestTypes["second_request"] != 2 {
		t.Errorf("request types = %v", sum.RequestTypes)
	}
}

func TestStore_Requests(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(s.TrackRequest(ctx, model.TrackedRequest{RequestID: "1001", RecordID: "R1", DocumentType: "infant", Status: "Created", CreatedAt: t0}))
	must(s.TrackRequest(ctx, model.TrackedRequest{RequestID: "1002", RecordID: "R1", DocumentType: "mom", Status: "Created", CreatedAt: t0.Add(time.Minute)}))
	must(s.TrackRequest(ctx, model.TrackedRequest{RequestID: "1003", RecordID: "R2", Status: "Fulfilled", CreatedAt: t0}))

	r, err := s.Request(ctx, "1001")
	must(err)
	if r.DocumentType != "infant" || !r.CreatedAt.Equal(t0) {
		t.Errorf("request = %+v", r)
	}

	forR1, err := s.RequestsForRecord(ctx, "R1")
	must(err)
	if len(forR1) != 2 || forR1[0].RequestID != "1002" {
		t.Errorf("RequestsForRecord = %+v", forR1)
	}

	must(s.UpdateRequestStatus(ctx, "1001", "Fulfilled"))
	fulfilled, err := s.RequestsByStatus(ctx, "Fulfilled")
	must(err)
	if len(fulfilled) != 2 {
		t.Errorf("fulfilled = %d", len(fulfilled))
	}
	all, _ := s.RequestsByStatus(ctx, "")
	if len(all) != 3 {
		t.Errorf("all = %d", len(all))
	}

	must(s.RemoveRequest(ctx, "1001"))
	if _, err := s.Request(ctx, "1001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after remove err = %v", err)
	}
}

func TestStore_ImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := NewMemory()
	ts := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		id, _ := src.Start(ctx, StartParams{RunID: uuid.NewString(), RecordID: fmt.Sprintf("R%d", i), RequestType: "first_request", Timestamp: ts.Add(time.Duration(i) * time.Minute)})
		src.UpdatePDF(ctx, id, model.PDFSuccess, "/out/x.pdf", "", "")
		src.Complete(ctx, id, time.Second)
	}
	records, _ := src.List(ctx, Filter{})

	path := filepath.Join(t.TempDir(), "export.parquet")
	if _, err := parquetio.Write(path, records); err != nil {
		t.Fatalf("write export: %v", err)
	}

	s := setupStore(t)
	res, err := s.Import(ctx, path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.RowsRead != 5 || res.RowsInserted != 5 {
		t.Errorf("import = %+v", res)
	}

	got, _ := s.List(ctx, Filter{})
	if len(got) != 5 {
		t.Fatalf("rows = %d", len(got))
	}
	for _, r := range got {
		// runs are not exported, so foreign run ids are cleared
		if r.RunID != "" {
			t.Errorf("run id %q should be cleared", r.RunID)
		}
		if r.PDFStatus != model.PDFSuccess || r.DurationSeconds == nil {
			t.Errorf("imported record = %+v", r)
		}
	}
	if !got[0].Timestamp.Equal(ts.Add(4 * time.Minute)) {
		t.Errorf("newest timestamp = %v", got[0].Timestamp)
	}

	res, err = s.Import(ctx, path)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if res.RowsInserted != 0 {
		t.Errorf("re-import inserted %d rows", res.RowsInserted)
	}
}
