package classify

import (
	"fmt"
	"strings"

	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/record"
)

// Stage is the medical-records-request stage of a case.
type Stage int

const (
	None Stage = iota
	FirstRequest
	SecondRequestNotReceived
	SecondRequestPartial
	AllReceived
)

// AllStages lists every stage in priority order of evaluation, None last.
var AllStages = []Stage{AllReceived, SecondRequestPartial, SecondRequestNotReceived, FirstRequest, None}

func (s Stage) String() string {
	switch s {
	case FirstRequest:
		return "first_request"
	case SecondRequestNotReceived:
		return "second_request"
	case SecondRequestPartial:
		return "second_request_partial"
	case AllReceived:
		return "all_received"
	default:
		return "none"
	}
}

// Dir is the output sub-directory for documents generated at this stage.
// Stages that produce no document return "".
func (s Stage) Dir() string {
	switch s {
	case FirstRequest, SecondRequestNotReceived, SecondRequestPartial:
		return s.String()
	default:
		return ""
	}
}

// GeneratesDocument reports whether a case at this stage gets a request letter.
func (s Stage) GeneratesDocument() bool {
	return s.Dir() != ""
}

// MalformedRecordError is returned when a log row's details cannot be read.
type MalformedRecordError struct {
	RecordID string
	Err      error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %s: %s", e.RecordID, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Classify maps request-tracking fields to exactly one Stage. The rules are
// evaluated in priority order and the first match wins.
func Classify(fields map[string]any) Stage {
	is := func(k string) bool { return record.Truthy(fields[k]) }

	switch {
	case is("mr_received") && is("mr_rec_all"):
		return AllReceived
	case is("mr_request_2") && is("mr_request_dt_2"):
		if anyNeeds(fields) {
			return SecondRequestPartial
		}
		return SecondRequestNotReceived
	case is("mr_request") && is("mr_request_dt") && !is("mr_request_dt_2"):
		return FirstRequest
	default:
		return None
	}
}

// anyNeeds reports whether any field whose name contains "needs" is set.
func anyNeeds(fields map[string]any) bool {
	for k, v := range fields {
		if strings.Contains(k, "needs") && record.Truthy(v) {
			return true
		}
	}
	return false
}

// ClassifySummary parses a log row's details and classifies it.
func ClassifySummary(s model.CaseSummary) (Stage, record.Details, error) {
	d, err := record.ParseDetails(s.Details)
	if err != nil {
		return None, nil, &MalformedRecordError{RecordID: s.Record, Err: err}
	}
	return Classify(d), d, nil
}
