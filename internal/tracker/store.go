package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/mrrequest/internal/db"
	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/parquetio"
	embedsql "github.com/gyeh/mrrequest/internal/sql"
)

const importBatchSize = 256

// Store is a Tracker backed by Postgres.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewStore wraps an open pool. Migrations must already be applied.
func NewStore(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{pool: pool, log: log}
}

// Open connects to dsn and returns a Store.
func Open(ctx context.Context, dsn string, log zerolog.Logger) (*Store, error) {
	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return NewStore(pool, log), nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) BeginRun(ctx context.Context, runID string, begin, end time.Time) error {
	if _, err := s.pool.Exec(ctx, embedsql.BeginRun, runID, begin, end, time.Now()); err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

func (s *Store) FinishRun(ctx context.Context, runID, status string, summary *model.RunSummary) error {
	var body []byte
	if summary != nil {
		b, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("encode run summary: %w", err)
		}
		body = b
	}
	tag, err := s.pool.Exec(ctx, embedsql.FinishRun, runID, time.Now(), status, body)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Start(ctx context.Context, p StartParams) (string, error) {
	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, embedsql.InsertProcessing,
		id, p.RunID, p.RecordID, p.Index, ts,
		p.PatientName, p.FacilityName, p.RequestType, p.ProcessType, p.Username,
	)
	if err != nil {
		return "", fmt.Errorf("start tracking %s: %w", p.RecordID, err)
	}
	return id, nil
}

func (s *Store) exec(ctx context.Context, op, sql string, args ...any) error {
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdatePDF(ctx context.Context, id, status, path, errMsg, template string) error {
	return s.exec(ctx, "update pdf status", embedsql.UpdatePDF, id, status, path, errMsg, template)
}

func (s *Store) UpdateSmartRequest(ctx context.Context, id, status, requestID, errMsg string, payload json.RawMessage) error {
	var body any
	if payload != nil {
		body = []byte(payload)
	}
	return s.exec(ctx, "update smartrequest status", embedsql.UpdateSmartRequest, id, status, requestID, errMsg, body)
}

func (s *Store) Complete(ctx context.Context, id string, d time.Duration) error {
	return s.exec(ctx, "complete processing", embedsql.CompleteProcessing, id, d.Seconds())
}

func scanProcessing(row pgx.Row) (*model.ProcessingRecord, error) {
	var (
		r       model.ProcessingRecord
		payload []byte
	)
	err := row.Scan(
		&r.ID, &r.RunID, &r.RecordID, &r.Index, &r.Timestamp,
		&r.PatientName, &r.FacilityName, &r.RequestType, &r.ProcessType, &r.Username,
		&r.TemplateUsed, &r.PDFStatus, &r.PDFPath, &r.PDFError,
		&r.SmartRequestSent, &r.SmartRequestID, &r.SmartRequestStatus, &r.SmartRequestError,
		&payload, &r.DurationSeconds,
	)
	if err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		r.SmartRequestPayload = json.RawMessage(payload)
	}
	return &r, nil
}

func (s *Store) Get(ctx context.Context, id string) (*model.ProcessingRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	rec, err := scanProcessing(s.pool.QueryRow(ctx, embedsql.SelectProcessing+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get processing record: %w", err)
	}
	return rec, nil
}

// whereClause renders f as SQL conditions with positional args.
func whereClause(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if !f.Since.IsZero() {
		add("timestamp >= $%d", f.Since)
	}
	if f.RecordID != "" {
		add("record_id = $%d", f.RecordID)
	}
	if f.RequestType != "" {
		add("request_type = $%d", f.RequestType)
	}
	if f.PDFStatus != "" {
		add("pdf_status = $%d", f.PDFStatus)
	}
	if f.SmartRequestStatus != "" {
		add("smartrequest_status = $%d", f.SmartRequestStatus)
	}
	q := ""
	if len(conds) > 0 {
		q = " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY timestamp DESC, id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return q, args
}

func (s *Store) List(ctx context.Context, f Filter) ([]model.ProcessingRecord, error) {
	where, args := whereClause(f)
	rows, err := s.pool.Query(ctx, embedsql.SelectProcessing+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list processing records: %w", err)
	}
	defer rows.Close()

	var out []model.ProcessingRecord
	for rows.Next() {
		rec, err := scanProcessing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan processing record: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (s *Store) TrackRequest(ctx context.Context, r model.TrackedRequest) error {
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.pool.Exec(ctx, embedsql.UpsertRequest,
		r.RequestID, r.RecordID, r.DocumentType, r.Status, r.PatientName, r.FacilityName, created)
	if err != nil {
		return fmt.Errorf("track request %s: %w", r.RequestID, err)
	}
	return nil
}

func (s *Store) UpdateRequestStatus(ctx context.Context, requestID, status string) error {
	return s.exec(ctx, "update request status", embedsql.UpdateRequestStatus, requestID, status, time.Now())
}

func (s *Store) queryRequests(ctx context.Context, where string, args ...any) ([]model.TrackedRequest, error) {
	rows, err := s.pool.Query(ctx, embedsql.SelectRequests+where+" ORDER BY created_at DESC, request_id", args...)
	if err != nil {
		return nil, fmt.Errorf("query tracked requests: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.TrackedRequest, error) {
		var r model.TrackedRequest
		err := row.Scan(&r.RequestID, &r.RecordID, &r.DocumentType, &r.Status,
			&r.PatientName, &r.FacilityName, &r.CreatedAt, &r.UpdatedAt)
		return r, err
	})
}

func (s *Store) Request(ctx context.Context, requestID string) (*model.TrackedRequest, error) {
	out, err := s.queryRequests(ctx, " WHERE request_id = $1", requestID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func (s *Store) RequestsForRecord(ctx context.Context, recordID string) ([]model.TrackedRequest, error) {
	return s.queryRequests(ctx, " WHERE record_id = $1", recordID)
}

func (s *Store) RequestsByStatus(ctx context.Context, status string) ([]model.TrackedRequest, error) {
	if status == "" {
		return s.queryRequests(ctx, "")
	}
	return s.queryRequests(ctx, " WHERE status = $1", status)
}

func (s *Store) RemoveRequest(ctx context.Context, requestID string) error {
	return s.exec(ctx, "remove request", embedsql.DeleteRequest, requestID)
}

// ImportResult holds metrics from an import.
type ImportResult struct {
	RowsRead     int64
	RowsInserted int64
	Duration     time.Duration
}

// Import loads a Parquet export into processing_records. Rows whose id is
// already present are skipped, and run ids unknown to this database are
// cleared.
func (s *Store) Import(ctx context.Context, path string) (*ImportResult, error) {
	start := time.Now()

	reader, err := parquetio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("import open: %w", err)
	}
	defer reader.Close()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("import begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, embedsql.CreateImportTable); err != nil {
		return nil, fmt.Errorf("import staging table: %w", err)
	}

	ch := make(chan model.ProcessingRow, importBatchSize)
	errCh := make(chan error, 1)
	var rowsRead int64

	go func() {
		defer close(ch)
		buf := make([]model.ProcessingRow, importBatchSize)
		for {
			n, readErr := reader.Read(buf)
			for i := 0; i < n; i++ {
				rowsRead++
				select {
				case ch <- buf[i]:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				errCh <- fmt.Errorf("read parquet at row %d: %w", rowsRead, readErr)
				return
			}
		}
		errCh <- nil
	}()

	source := db.NewChannelSource(ch)
	_, copyErr := tx.CopyFrom(ctx, pgx.Identifier{"processing_import"}, db.ProcessingColumns, source)
	if copyErr != nil {
		// Unblock the producer.
		for range ch {
		}
	}
	if prodErr := <-errCh; prodErr != nil {
		return nil, fmt.Errorf("import producer: %w", prodErr)
	}
	if copyErr != nil {
		return nil, fmt.Errorf("import copy: %w", copyErr)
	}

	tag, err := tx.Exec(ctx, embedsql.MergeImport)
	if err != nil {
		return nil, fmt.Errorf("import merge: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("import commit: %w", err)
	}

	res := &ImportResult{RowsRead: rowsRead, RowsInserted: tag.RowsAffected(), Duration: time.Since(start)}
	s.log.Info().
		Int64("rows_read", res.RowsRead).
		Int64("rows_inserted", res.RowsInserted).
		Str("duration", res.Duration.String()).
		Msg("import complete")
	return res, nil
}
