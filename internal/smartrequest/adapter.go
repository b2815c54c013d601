package smartrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Adapter submits built payloads through an API. It performs no retries;
// the caller records failures.
type Adapter struct {
	api API
	log zerolog.Logger
}

func NewAdapter(api API, log zerolog.Logger) *Adapter {
	return &Adapter{api: api, log: log}
}

// Submit creates the request. A nil result always comes with an error, and
// a panic in the client is returned as an error.
func (a *Adapter) Submit(ctx context.Context, p Payload) (res *CreateResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("smartrequest submit: panic: %v", r)
		}
	}()

	res, err = a.api.CreateRequest(ctx, p)
	if err != nil {
		var apiErr *APIError
		ev := a.log.Warn().Err(err).Str("patient", p.Patient.CustomID)
		if errors.As(err, &apiErr) {
			ev = ev.Int("status_code", apiErr.StatusCode)
		}
		ev.Msg("smartrequest submission failed")
		return nil, err
	}
	if res == nil || res.RequestID == "" {
		return nil, fmt.Errorf("smartrequest submit: no request id returned")
	}
	a.log.Info().
		Str("request_id", res.RequestID).
		Str("patient", p.Patient.CustomID).
		Str("site", p.Facility.SiteName).
		Msg("smartrequest created")
	return res, nil
}
