package tracker

import (
	"context"
	"encoding/json"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/mrrequest/internal/model"
)

// Memory is an in-process Tracker used when no database is configured.
type Memory struct {
	mu       sync.RWMutex
	records  map[string]*model.ProcessingRecord
	order    []string
	requests map[string]*model.TrackedRequest
	runs     map[string]*memoryRun
	now      func() time.Time
}

type memoryRun struct {
	begin, end time.Time
	status     string
	summary    *model.RunSummary
}

func NewMemory() *Memory {
	return &Memory{
		records:  map[string]*model.ProcessingRecord{},
		requests: map[string]*model.TrackedRequest{},
		runs:     map[string]*memoryRun{},
		now:      time.Now,
	}
}

func (m *Memory) BeginRun(_ context.Context, runID string, begin, end time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[runID]; !ok {
		m.runs[runID] = &memoryRun{begin: begin, end: end, status: RunRunning}
	}
	return nil
}

func (m *Memory) FinishRun(_ context.Context, runID, status string, summary *model.RunSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok {
		return ErrNotFound
	}
	r.status = status
	r.summary = summary
	return nil
}

// RunStatus returns the recorded state of a run.
func (m *Memory) RunStatus(runID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[runID]
	if !ok {
		return "", false
	}
	return r.status, true
}

func (m *Memory) Start(_ context.Context, p StartParams) (string, error) {
	ts := p.Timestamp
	if ts.IsZero() {
		ts = m.now()
	}
	id := uuid.NewString()
	rec := &model.ProcessingRecord{
		ID:                 id,
		RunID:              p.RunID,
		RecordID:           p.RecordID,
		Index:              p.Index,
		Timestamp:          ts,
		PatientName:        p.PatientName,
		FacilityName:       p.FacilityName,
		RequestType:        p.RequestType,
		ProcessType:        p.ProcessType,
		Username:           p.Username,
		PDFStatus:          model.PDFPending,
		SmartRequestStatus: model.SmartRequestNotSent,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = rec
	m.order = append(m.order, id)
	return id, nil
}

func (m *Memory) update(id string, fn func(*model.ProcessingRecord)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	fn(rec)
	return nil
}

func (m *Memory) UpdatePDF(_ context.Context, id, status, path, errMsg, template string) error {
	return m.update(id, func(r *model.ProcessingRecord) {
		r.PDFStatus = status
		r.PDFPath = path
		r.PDFError = errMsg
		r.TemplateUsed = template
	})
}

func (m *Memory) UpdateSmartRequest(_ context.Context, id, status, requestID, errMsg string, payload json.RawMessage) error {
	return m.update(id, func(r *model.ProcessingRecord) {
		r.SmartRequestSent = sentStatus(status)
		r.SmartRequestStatus = status
		r.SmartRequestID = requestID
		r.SmartRequestError = errMsg
		if payload != nil {
			r.SmartRequestPayload = slices.Clone(payload)
		}
	})
}

func (m *Memory) Complete(_ context.Context, id string, d time.Duration) error {
	secs := d.Seconds()
	return m.update(id, func(r *model.ProcessingRecord) {
		r.DurationSeconds = &secs
	})
}

func (m *Memory) Get(_ context.Context, id string) (*model.ProcessingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *Memory) List(_ context.Context, f Filter) ([]model.ProcessingRecord, error) {
	m.mu.RLock()
	out := make([]model.ProcessingRecord, 0, len(m.order))
	// Newest insertions first so equal timestamps keep that order after the stable sort.
	for i := len(m.order) - 1; i >= 0; i-- {
		rec := m.records[m.order[i]]
		if f.Match(rec) {
			out = append(out, *rec)
		}
	}
	m.mu.RUnlock()

	model.SortNewestFirst(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *Memory) TrackRequest(_ context.Context, r model.TrackedRequest) error {
	now := m.now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = r.CreatedAt

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[r.RequestID] = &r
	return nil
}

func (m *Memory) UpdateRequestStatus(_ context.Context, requestID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[requestID]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = m.now()
	return nil
}

func (m *Memory) Request(_ context.Context, requestID string) (*model.TrackedRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *Memory) requestsWhere(match func(*model.TrackedRequest) bool) []model.TrackedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.TrackedRequest
	for _, r := range m.requests {
		if match(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].RequestID < out[j].RequestID
	})
	return out
}

func (m *Memory) RequestsForRecord(_ context.Context, recordID string) ([]model.TrackedRequest, error) {
	return m.requestsWhere(func(r *model.TrackedRequest) bool { return r.RecordID == recordID }), nil
}

func (m *Memory) RequestsByStatus(_ context.Context, status string) ([]model.TrackedRequest, error) {
	return m.requestsWhere(func(r *model.TrackedRequest) bool { return status == "" || r.Status == status }), nil
}

func (m *Memory) RemoveRequest(_ context.Context, requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[requestID]; !ok {
		return ErrNotFound
	}
	delete(m.requests, requestID)
	return nil
}

func (m *Memory) Close() {}
