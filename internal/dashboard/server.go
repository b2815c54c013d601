// Package dashboard serves the processing tracker over HTTP: run statistics,
// per-record detail, live SmartRequest status and the generated PDFs.
package dashboard

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/smartrequest"
	"github.com/gyeh/mrrequest/internal/tracker"
)

// PDFPrefix is the URL prefix generated PDFs are served under.
const PDFPrefix = "/pdfs/"

// Server holds the dashboard's dependencies.
type Server struct {
	tracker    tracker.Tracker
	api        smartrequest.API
	outputRoot string
	log        zerolog.Logger
	now        func() time.Time
}

// New returns a Server reading t and serving PDFs from outputRoot. api is
// used for live status lookups.
func New(t tracker.Tracker, api smartrequest.API, outputRoot string, log zerolog.Logger) *Server {
	return &Server{tracker: t, api: api, outputRoot: outputRoot, log: log, now: time.Now}
}

// Echo builds the HTTP server with middleware and routes.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(Recovery(s.log))
	e.Use(Logger(s.log))
	s.RegisterRoutes(e)
	return e
}

// RegisterRoutes mounts the dashboard routes on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.handleHealth)
	e.GET("/api/dashboard", s.handleDashboard)
	e.GET("/api/records/:id", s.handleRecord)
	e.GET("/api/smartrequest/:id/status", s.handleRequestStatus)
	e.GET(PDFPrefix+"*", s.handlePDF)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type dashboardResponse struct {
	Records []model.ProcessingRecord `json:"records"`
	Stats   model.DashboardSummary   `json:"stats"`
}

// ParseFilter maps the dashboard query parameters to a tracker filter.
// date is all, today, week or month; status is all, success, error or
// pending; type is all or a request type.
func ParseFilter(date, status, reqType string, now time.Time) (tracker.Filter, error) {
	var f tracker.Filter
	switch date {
	case "", "all":
	case "today":
		y, m, d := now.Date()
		f.Since = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case "week":
		f.Since = now.AddDate(0, 0, -7)
	case "month":
		f.Since = now.AddDate(0, 0, -30)
	default:
		return f, errors.New("date must be one of all, today, week, month")
	}
	switch status {
	case "", "all":
	case model.PDFSuccess, model.PDFError, model.PDFPending:
		f.PDFStatus = status
	default:
		return f, errors.New("status must be one of all, success, error, pending")
	}
	if reqType != "" && reqType != "all" {
		f.RequestType = reqType
	}
	return f, nil
}

func (s *Server) handleDashboard(c echo.Context) error {
	f, err := ParseFilter(c.QueryParam("date"), c.QueryParam("status"), c.QueryParam("type"), s.now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	records, err := s.tracker.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if records == nil {
		records = []model.ProcessingRecord{}
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		Records: records,
		Stats:   model.Summarize(records, tracker.RecentActivity),
	})
}

type recordResponse struct {
	RecordID   string                   `json:"record_id"`
	Processing []model.ProcessingRecord `json:"processing"`
	Requests   []model.TrackedRequest   `json:"requests"`
	PDFURL     string                   `json:"pdf_url,omitempty"`
}

func (s *Server) handleRecord(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	processing, err := s.tracker.List(ctx, tracker.Filter{RecordID: id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	requests, err := s.tracker.RequestsForRecord(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if len(processing) == 0 && len(requests) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "record not found"})
	}

	resp := recordResponse{RecordID: id, Processing: processing, Requests: requests}
	if resp.Requests == nil {
		resp.Requests = []model.TrackedRequest{}
	}
	if resp.Processing == nil {
		resp.Processing = []model.ProcessingRecord{}
	}
	for _, p := range processing {
		if p.PDFStatus == model.PDFSuccess && p.PDFPath != "" {
			resp.PDFURL = s.PDFURL(p.PDFPath)
			break
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRequestStatus(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	st, err := s.api.Status(ctx, id)
	if err != nil {
		var apiErr *smartrequest.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "request not found"})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	if err := s.tracker.UpdateRequestStatus(ctx, id, st.Status); err != nil && !errors.Is(err, tracker.ErrNotFound) {
		s.log.Warn().Err(err).Str("request_id", id).Msg("failed to store request status")
	}
	return c.JSON(http.StatusOK, st)
}

// PDFURL maps a generated PDF path under the output root to its URL.
// Paths outside the root map to "".
func (s *Server) PDFURL(pdfPath string) string {
	root, err := filepath.Abs(s.outputRoot)
	if err != nil {
		return ""
	}
	abs, err := filepath.Abs(pdfPath)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return PDFPrefix + filepath.ToSlash(rel)
}

func (s *Server) handlePDF(c echo.Context) error {
	rel := path.Clean("/" + c.Param("*"))
	if !strings.EqualFold(path.Ext(rel), ".pdf") {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "only PDF files are served"})
	}
	full := filepath.Join(s.outputRoot, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
	st, err := os.Stat(full)
	if err != nil || st.IsDir() {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "PDF not found"})
	}
	return c.File(full)
}
