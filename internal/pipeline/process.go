package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gyeh/mrrequest/internal/classify"
	"github.com/gyeh/mrrequest/internal/csvlog"
	"github.com/gyeh/mrrequest/internal/docx"
	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/needs"
	"github.com/gyeh/mrrequest/internal/normalize"
	"github.com/gyeh/mrrequest/internal/record"
	"github.com/gyeh/mrrequest/internal/tracker"
)

// maxErrorLen bounds error text stored in the tracker.
const maxErrorLen = 1000

// ProcessType is the short label document logs use for a stage.
func ProcessType(s classify.Stage) string {
	switch s {
	case classify.FirstRequest:
		return "first"
	case classify.SecondRequestNotReceived:
		return "second"
	case classify.SecondRequestPartial:
		return "second-partial"
	default:
		return ""
	}
}

func (r *run) processCase(ctx context.Context, c Case) {
	s := c.Summary
	log := r.log.With().Str("record", s.Record).Logger()

	if c.Err != nil {
		r.summary.CasesSkipped++
		r.generalLog(s.Record, s.TimestampString(), s.Username, "error", c.Err.Error())
		return
	}
	if !c.Stage.GeneratesDocument() {
		r.summary.CasesSkipped++
		log.Debug().Str("stage", c.Stage.String()).Msg("no document for stage")
		return
	}

	r.limiter.Take()
	log.Info().Str("stage", c.Stage.String()).Msg("processing case")
	rows, err := r.Source.ExportRecords(ctx, []string{s.Record}, nil)
	if err != nil {
		r.summary.CasesSkipped++
		log.Error().Err(err).Msg("case detail unavailable, retrying next cycle")
		r.generalLog(s.Record, s.TimestampString(), s.Username, "error",
			fmt.Sprintf("Error processing %s: %v", s.Record, err))
		return
	}
	groups := record.GroupFragments(rows)
	if len(groups) == 0 {
		r.summary.CasesSkipped++
		log.Warn().Msg("case detail export returned no rows")
		return
	}

	for j, g := range groups {
		recs, diags := record.FilterToSchema([]map[string]string{record.Merge(g)}, record.DetailSchema, log)
		for _, d := range diags {
			r.summary.DocumentErrors++
			r.generalLog(s.Record, s.TimestampString(), s.Username, "error", d.Reason)
		}
		for _, rec := range recs {
			r.generateDocument(ctx, c, needs.Apply(c.Stage, rec), j)
		}
	}
}

// generateDocument fills, converts, logs and optionally submits one
// document of a case.
func (r *run) generateDocument(ctx context.Context, c Case, rec record.Record, index int) {
	s := c.Summary
	purpose := model.PurposeFor(rec.Get("mr_req_for"))
	start := r.Now()
	log := r.log.With().
		Str("record", s.Record).
		Str("mg_idpreg", rec.ID()).
		Int("index", index).
		Str("purpose", purpose.Name).
		Logger()

	t := r.track(ctx, tracker.StartParams{
		RunID:        r.summary.RunID,
		RecordID:     s.Record,
		Index:        index,
		RequestType:  c.Stage.String(),
		ProcessType:  purpose.Name,
		PatientName:  normalize.FullName(rec.Get("bc_momnamefirst"), rec.Get("bc_momnamelast")),
		FacilityName: rec.Get("hos_name"),
		Username:     s.Username,
		Timestamp:    start,
	})
	defer func() { t.complete(r.Now().Sub(start)) }()

	templatePath := filepath.Join(r.cfg.TemplatesDir, purpose.Template)
	fail := func(err error) {
		r.summary.DocumentErrors++
		log.Error().Err(err).Str("template", templatePath).Msg("document generation failed")
		t.pdf(model.PDFError, "", err.Error(), purpose.Template)
		name := fmt.Sprintf("%s_%d", rec.ID(), index)
		r.generalLog(r.docRecordID(s, rec), s.TimestampString(), s.Username, "error",
			fmt.Sprintf("Error generating PDF for %s: %v", name, err))
	}

	docPath, err := r.filler.Fill(templatePath, c.Stage.Dir(), rec.TemplateValues(), index)
	if err != nil {
		var missing *docx.MissingKeyError
		if errors.As(err, &missing) {
			log.Warn().Interface("raw", rec.Map()).Msg("case detail has no identifier")
		}
		fail(err)
		return
	}
	pdfPath, err := r.Converter.Convert(ctx, docPath)
	if err != nil {
		fail(err)
		return
	}

	r.summary.DocumentsGenerated++
	r.summary.PDFsConverted++
	t.pdf(model.PDFSuccess, pdfPath, "", purpose.Template)
	log.Info().Str("pdf", pdfPath).Msg("document generated")

	row := csvlog.Row{
		"record":       rec.ID(),
		"timestamp":    s.TimestampString(),
		"username":     s.Username,
		"request_type": purpose.Name,
		"process_type": ProcessType(c.Stage),
		"status":       "generated",
		"details":      c.Details.String(),
	}
	if r.extended(rec) {
		r.summary.ExtendedRecords++
		if err := r.logs.Extended.Log(row); err != nil {
			log.Warn().Err(err).Msg("failed to append extended log")
		}
	}
	if err := r.logs.PDF.Log(row); err != nil {
		log.Warn().Err(err).Msg("failed to append pdf log")
	}

	if r.cfg.Submit {
		r.submit(ctx, t, c, rec, purpose, pdfPath)
	}
}

// extended reports whether the first request has been pending longer than
// the configured number of days.
func (r *run) extended(rec record.Record) bool {
	raw := strings.TrimSpace(rec.Get("mr_request_days"))
	if raw == "" || normalize.Digits(raw) != raw {
		return false
	}
	days, err := strconv.Atoi(raw)
	return err == nil && days > r.cfg.ExtendedDaysThreshold
}

func (r *run) docRecordID(s model.CaseSummary, rec record.Record) string {
	return normalize.FirstNonEmpty(rec.ID(), s.Record)
}

// trackedDoc forwards updates for one document to the tracker. Tracker
// failures are logged and never stop processing.
type trackedDoc struct {
	r  *run
	ctx context.Context
	id string
}

func (r *run) track(ctx context.Context, p tracker.StartParams) *trackedDoc {
	id, err := r.Tracker.Start(ctx, p)
	if err != nil {
		r.log.Warn().Err(err).Str("record", p.RecordID).Msg("tracker unavailable for document")
	}
	return &trackedDoc{r: r, ctx: ctx, id: id}
}

func (t *trackedDoc) warn(err error, what string) {
	if err != nil {
		t.r.log.Warn().Err(err).Str("tracking_id", t.id).Msg("failed to track " + what)
	}
}

func (t *trackedDoc) pdf(status, path, errMsg, template string) {
	if t.id == "" {
		return
	}
	t.warn(t.r.Tracker.UpdatePDF(t.ctx, t.id, status, path, normalize.Truncate(errMsg, maxErrorLen), template), "pdf status")
}

func (t *trackedDoc) smartRequest(status, requestID, errMsg string, payload []byte) {
	if t.id == "" {
		return
	}
	t.warn(t.r.Tracker.UpdateSmartRequest(t.ctx, t.id, status, requestID, normalize.Truncate(errMsg, maxErrorLen), payload), "smartrequest status")
}

func (t *trackedDoc) complete(d time.Duration) {
	if t.id == "" {
		return
	}
	t.warn(t.r.Tracker.Complete(t.ctx, t.id, d), "duration")
}
