package smartrequest

import (
	"time"

	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/normalize"
	"github.com/gyeh/mrrequest/internal/record"
)

// BuildOptions carries everything a payload needs that is not in the case
// record.
type BuildOptions struct {
	Facility              Facility
	Requester             RequesterInfo
	Reason                Reason
	CertificationRequired bool
	AuthorizationForms    []string
	Callback              *CallbackDetails
	Now                   time.Time
}

// BuildPayload maps a case record and purpose to a create-request body.
func BuildPayload(rec record.Record, purpose model.Purpose, opts BuildOptions) Payload {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	start, end := CriteriaDates(rec, now)
	forms := opts.AuthorizationForms
	if forms == nil {
		forms = []string{}
	}
	return Payload{
		Facility:      opts.Facility,
		RequesterInfo: opts.Requester,
		Patient:       PatientFrom(rec),
		Reason:        opts.Reason,
		RequestCriteria: []RequestCriteria{{
			RecordTypes: RecordTypesFor(purpose),
			StartDate:   start,
			EndDate:     end,
		}},
		CertificationRequired: opts.CertificationRequired,
		AuthorizationForms:    forms,
		CallbackDetails:       opts.Callback,
	}
}

// PatientFrom reads the mother's demographics. Absent fields stay empty.
func PatientFrom(rec record.Record) Patient {
	dob := rec.Get("bc_mom_dob")
	if t := normalize.ParseDate(dob); t != nil {
		dob = normalize.FormatDate(t)
	}
	return Patient{
		FirstName:   rec.Get("bc_momnamefirst"),
		LastName:    rec.Get("bc_momnamelast"),
		DateOfBirth: dob,
		SSN:         normalize.Digits(rec.Get("bc_momssn")),
		CustomID:    rec.ID(),
	}
}

// CriteriaDates bounds the requested records. The start is the last
// menstrual period, else ten months before delivery, else a year ago. The
// end is the discharge date, else a month after delivery, else today.
func CriteriaDates(rec record.Record, now time.Time) (string, string) {
	delivery := normalize.ParseDate(normalize.FirstNonEmpty(rec.Get("bg_outcome_dt"), rec.Get("dob_inf")))

	start := normalize.ParseDate(rec.Get("mg_lmp"))
	if start == nil {
		t := now.AddDate(-1, 0, 0)
		if delivery != nil {
			t = delivery.AddDate(0, -10, 0)
		}
		start = &t
	}

	end := normalize.ParseDate(rec.Get("bg_dis_dt"))
	if end == nil {
		t := now
		if delivery != nil {
			t = delivery.AddDate(0, 1, 0)
		}
		end = &t
	}
	return normalize.FormatDate(start), normalize.FormatDate(end)
}
