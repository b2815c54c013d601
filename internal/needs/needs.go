package needs

import (
	"fmt"

	"github.com/gyeh/mrrequest/internal/classify"
	"github.com/gyeh/mrrequest/internal/record"
)

// Needed and NotNeeded are the raw checkbox values written to records.
const (
	Needed    = "1"
	NotNeeded = "0"
)

// MaternalFields are the mother's record-need checkboxes, in form order.
var MaternalFields = indexed("mr_rec_needs___", 1, 2, 3, 4, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15)

// InfantFields are the infant's record-need checkboxes, in form order.
var InfantFields = indexed("mr_rec_needs_inf___", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 88)

// stageTables holds the per-stage field assignments. Stages without an
// entry leave the record untouched.
var stageTables = map[classify.Stage]map[string]string{
	classify.FirstRequest:             firstRequest(),
	classify.SecondRequestNotReceived: secondRequest(),
}

func firstRequest() map[string]string {
	t := make(map[string]string, len(MaternalFields)+len(InfantFields))
	for _, f := range MaternalFields {
		t[f] = Needed
	}
	for _, f := range InfantFields {
		t[f] = Needed
	}
	return t
}

// secondRequest drops the first four maternal categories, which the first
// request already covered, and asks again for everything else.
func secondRequest() map[string]string {
	t := firstRequest()
	for _, f := range MaternalFields[:4] {
		t[f] = NotNeeded
	}
	return t
}

// Table returns a copy of the assignments for stage, or nil when the stage
// does not change any field.
func Table(stage classify.Stage) map[string]string {
	src, ok := stageTables[stage]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Apply returns a copy of rec with the stage's needs fields set. The input
// record is never modified.
func Apply(stage classify.Stage, rec record.Record) record.Record {
	return rec.With(Table(stage))
}

func indexed(prefix string, ns ...int) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = fmt.Sprintf("%s%d", prefix, n)
	}
	return out
}
