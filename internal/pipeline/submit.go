package pipeline

import (
	"context"
	"fmt"

	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/normalize"
	"github.com/gyeh/mrrequest/internal/record"
	"github.com/gyeh/mrrequest/internal/smartrequest"
)

// InitialRequestStatus is the tracked status of a newly created request.
const InitialRequestStatus = "Created"

// submit sends a records request for a generated document. Failures are
// recorded against the document and counted; they never stop the run.
func (r *run) submit(ctx context.Context, t *trackedDoc, c Case, rec record.Record, purpose model.Purpose, pdfPath string) {
	s := c.Summary
	log := r.log.With().Str("record", s.Record).Str("purpose", purpose.Name).Logger()
	fail := func(err error, payload []byte) {
		r.summary.RequestErrors++
		log.Error().Err(err).Msg("records request not submitted")
		t.smartRequest(model.SmartRequestError, "", err.Error(), payload)
		r.generalLog(r.docRecordID(s, rec), s.TimestampString(), s.Username, "error",
			fmt.Sprintf("Error submitting SmartRequest for %s: %v", s.Record, err))
	}

	site, ok := r.Facilities.Resolve(rec.Get("hos_name"), r.cfg.DefaultSite)
	if !ok {
		fail(fmt.Errorf("no facility for hospital %q", rec.Get("hos_name")), nil)
		return
	}
	form, err := smartrequest.EncodeAuthorizationForm(pdfPath)
	if err != nil {
		fail(err, nil)
		return
	}

	payload := smartrequest.BuildPayload(rec, purpose, smartrequest.BuildOptions{
		Facility:              site.Payload(),
		Requester:             r.cfg.Requester,
		Reason:                r.cfg.Reason,
		CertificationRequired: r.cfg.CertificationRequired,
		AuthorizationForms:    []string{form},
		Callback:              r.cfg.Callback,
		Now:                   r.Now(),
	})
	sanitized, err := payload.Sanitized()
	if err != nil {
		log.Warn().Err(err).Msg("could not sanitize payload for tracking")
		sanitized = nil
	}

	res, err := r.Adapter.Submit(ctx, payload)
	if err != nil {
		fail(err, sanitized)
		return
	}

	r.summary.RequestsSubmitted++
	t.smartRequest(model.SmartRequestSuccess, res.RequestID, "", sanitized)
	err = r.Tracker.TrackRequest(ctx, model.TrackedRequest{
		RequestID:    res.RequestID,
		RecordID:     s.Record,
		DocumentType: purpose.Name,
		Status:       InitialRequestStatus,
		PatientName:  normalize.FullName(rec.Get("bc_momnamefirst"), rec.Get("bc_momnamelast")),
		FacilityName: site.SiteName,
		CreatedAt:    r.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("request_id", res.RequestID).Msg("failed to track request")
	}
	r.generalLog(r.docRecordID(s, rec), s.TimestampString(), s.Username, "submitted",
		fmt.Sprintf("SmartRequest %s created for %s (%s)", res.RequestID, s.Record, purpose.Name))
}
