package redcap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler func(t *testing.T, r *http.Request) (int, string)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		status, body := handler(t, r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(Config{URL: srv.URL, Token: "TOKEN"})
}

func TestExportLog_FormAndDecode(t *testing.T) {
	c := newTestServer(t, func(t *testing.T, r *http.Request) (int, string) {
		want := map[string]string{
			"token": "TOKEN", "content": "log", "logtype": "record",
			"beginTime": "2025-01-01 13:00", "endTime": "2025-01-01 14:00",
			"format": "json", "returnFormat": "json",
		}
		for k, v := range want {
			if got := r.PostForm.Get(k); got != v {
				t.Errorf("form %s = %q, want %q", k, got, v)
			}
		}
		return http.StatusOK, `[{"record":"R1","timestamp":"2025-01-01 13:30","username":"alice","action":"Update record R1","details":"mr_request = '1'"}]`
	})

	end := time.Date(2025, 1, 1, 14, 0, 0, 0, time.Local)
	rows, err := c.ExportLog(context.Background(), HourWindow(end))
	if err != nil {
		t.Fatalf("ExportLog: %v", err)
	}
	if len(rows) != 1 || rows[0]["record"] != "R1" || rows[0]["details"] != "mr_request = '1'" {
		t.Errorf("rows = %v", rows)
	}
}

func TestExportRecords_IndexedParams(t *testing.T) {
	c := newTestServer(t, func(t *testing.T, r *http.Request) (int, string) {
		if r.PostForm.Get("records[0]") != "R1" || r.PostForm.Get("records[1]") != "R2" {
			t.Errorf("records = %v", r.PostForm)
		}
		if r.PostForm.Get("fields[0]") != "mg_idpreg" {
			t.Errorf("fields[0] = %q", r.PostForm.Get("fields[0]"))
		}
		if r.PostForm.Get("type") != "flat" || r.PostForm.Get("rawOrLabel") != "raw" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		return http.StatusOK, `[{"mg_idpreg":"R1","redcap_repeat_instance":2,"bc_mom_dob":null,"flag":true}]`
	})

	rows, err := c.ExportRecords(context.Background(), []string{"R1", "R2"}, []string{"mg_idpreg"})
	if err != nil {
		t.Fatalf("ExportRecords: %v", err)
	}
	row := rows[0]
	if row["redcap_repeat_instance"] != "2" || row["bc_mom_dob"] != "" || row["flag"] != "true" {
		t.Errorf("row = %v", row)
	}
}

func TestExport_APIError(t *testing.T) {
	c := newTestServer(t, func(t *testing.T, r *http.Request) (int, string) {
		return http.StatusForbidden, `{"error":"You do not have permissions to use the API"}`
	})
	_, err := c.ExportLog(context.Background(), HourWindow(time.Now()))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Message == "" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestParseWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 14, 30, 0, 0, time.Local)

	w, err := ParseWindow("today", "", "", now)
	if err != nil || w.Begin.Hour() != 0 || !w.End.Equal(now) {
		t.Errorf("today = %+v, %v", w, err)
	}
	w, err = ParseWindow("", "", "", now)
	if err != nil || !w.Begin.Equal(now.Add(-time.Hour)) {
		t.Errorf("default = %+v, %v", w, err)
	}
	w, err = ParseWindow("hour", "2025-01-01 08:00", "2025-01-01 09:00", now)
	if err != nil || w.Begin.Hour() != 8 || w.End.Hour() != 9 {
		t.Errorf("explicit = %+v, %v", w, err)
	}
	if _, err := ParseWindow("", "2025-01-01 09:00", "2025-01-01 08:00", now); err == nil {
		t.Error("expected error for inverted window")
	}
	if _, err := ParseWindow("week", "", "", now); err == nil {
		t.Error("expected error for unknown window name")
	}
}
