// Package redcap exports activity logs and case records from a REDCap
// project API.
package redcap

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// TimeLayout is the minute-precision layout REDCap expects for log windows.
const TimeLayout = "2006-01-02 15:04"

// Config holds the project API location and token.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Client talks to one REDCap project.
type Client struct {
	config      Config
	restyClient *resty.Client
}

// APIError is a non-2xx answer from REDCap.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("redcap: status %d", e.StatusCode)
	}
	return fmt.Sprintf("redcap: status %d: %s", e.StatusCode, e.Message)
}

func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		config:      config,
		restyClient: resty.New().SetTimeout(config.Timeout),
	}
}

// Window is a half-open [Begin, End) polling interval.
type Window struct {
	Begin time.Time
	End   time.Time
}

// HourWindow covers the hour before now.
func HourWindow(now time.Time) Window {
	return Window{Begin: now.Add(-time.Hour), End: now}
}

// TodayWindow covers local midnight until now.
func TodayWindow(now time.Time) Window {
	y, m, d := now.Date()
	return Window{Begin: time.Date(y, m, d, 0, 0, 0, 0, now.Location()), End: now}
}

// ParseWindow resolves a named window ("hour", "today") or an explicit
// since/until pair in TimeLayout. An empty until means now.
func ParseWindow(name, since, until string, now time.Time) (Window, error) {
	if since != "" {
		begin, err := time.ParseInLocation(TimeLayout, since, now.Location())
		if err != nil {
			return Window{}, fmt.Errorf("parse --since: %w", err)
		}
		end := now
		if until != "" {
			end, err = time.ParseInLocation(TimeLayout, until, now.Location())
			if err != nil {
				return Window{}, fmt.Errorf("parse --until: %w", err)
			}
		}
		if !end.After(begin) {
			return Window{}, fmt.Errorf("window end %s is not after begin %s", end.Format(TimeLayout), begin.Format(TimeLayout))
		}
		return Window{Begin: begin, End: end}, nil
	}
	switch name {
	case "", "hour":
		return HourWindow(now), nil
	case "today":
		return TodayWindow(now), nil
	default:
		return Window{}, fmt.Errorf("unknown window %q (want hour or today)", name)
	}
}

// ExportLog returns the record-activity log entries inside w. Every value
// is returned as a string.
func (c *Client) ExportLog(ctx context.Context, w Window) ([]map[string]string, error) {
	form := map[string]string{
		"token":        c.config.Token,
		"content":      "log",
		"logtype":      "record",
		"user":         "",
		"record":       "",
		"beginTime":    w.Begin.Format(TimeLayout),
		"endTime":      w.End.Format(TimeLayout),
		"format":       "json",
		"returnFormat": "json",
	}
	return c.post(ctx, form)
}

// ExportRecords returns the flat rows for ids. An empty fields list exports
// every field. Repeating instruments yield more than one row per id.
func (c *Client) ExportRecords(ctx context.Context, ids, fields []string) ([]map[string]string, error) {
	form := map[string]string{
		"token":               c.config.Token,
		"content":             "record",
		"action":              "export",
		"format":              "json",
		"type":                "flat",
		"rawOrLabel":          "raw",
		"rawOrLabelHeaders":   "raw",
		"exportCheckboxLabel": "false",
		"returnFormat":        "json",
	}
	for i, id := range ids {
		form["records["+strconv.Itoa(i)+"]"] = id
	}
	for i, f := range fields {
		form["fields["+strconv.Itoa(i)+"]"] = f
	}
	return c.post(ctx, form)
}

func (c *Client) post(ctx context.Context, form map[string]string) ([]map[string]string, error) {
	var raw []map[string]any
	apiErr := &APIError{}
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetFormData(form).
		SetResult(&raw).
		SetError(apiErr).
		Post(c.config.URL)
	if err != nil {
		return nil, fmt.Errorf("redcap %s export: %w", form["content"], err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return nil, apiErr
	}
	if raw == nil {
		if err := json.Unmarshal(resp.Body(), &raw); err != nil {
			return nil, fmt.Errorf("redcap %s export: decode: %w", form["content"], err)
		}
	}
	return Stringify(raw), nil
}

// Stringify renders every JSON value as a string. Nulls become "".
func Stringify(rows []map[string]any) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(row))
		for k, v := range row {
			m[k] = stringValue(v)
		}
		out = append(out, m)
	}
	return out
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
