package classify

import (
	"errors"
	"testing"

	"github.com/gyeh/mrrequest/internal/model"
)

func TestClassify_Rules(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]any
		want   Stage
	}{
		{
			name:   "all received wins over everything",
			fields: map[string]any{"mr_received": "1", "mr_rec_all": 1, "mr_request": "1", "mr_request_dt": "2025-01-01", "mr_request_2": "1", "mr_request_dt_2": "2025-02-01", "mr_rec_needs(4)": true},
			want:   AllReceived,
		},
		{
			name:   "second request with needs is partial",
			fields: map[string]any{"mr_request_2": "1", "mr_request_dt_2": "2025-02-01", "mr_rec_needs(4)": true},
			want:   SecondRequestPartial,
		},
		{
			name:   "second request without needs",
			fields: map[string]any{"mr_request_2": "1", "mr_request_dt_2": "2025-02-01", "mr_rec_needs(4)": false, "mr_rec_needs_inf(2)": "0"},
			want:   SecondRequestNotReceived,
		},
		{
			name:   "received but not all falls through to second request",
			fields: map[string]any{"mr_received": "1", "mr_rec_all": "0", "mr_request_2": "1", "mr_request_dt_2": "2025-02-01"},
			want:   SecondRequestNotReceived,
		},
		{
			name:   "first request",
			fields: map[string]any{"mr_request": "1", "mr_request_dt": "2025-01-01", "mr_request_dt_2": "0"},
			want:   FirstRequest,
		},
		{
			name:   "first request blocked by second date",
			fields: map[string]any{"mr_request": "1", "mr_request_dt": "2025-01-01", "mr_request_dt_2": "2025-02-01"},
			want:   None,
		},
		{
			name:   "false string is falsy",
			fields: map[string]any{"mr_request": "FALSE", "mr_request_dt": "2025-01-01"},
			want:   None,
		},
		{
			name:   "empty",
			fields: map[string]any{},
			want:   None,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.fields); got != c.want {
				t.Errorf("Classify = %s, want %s", got, c.want)
			}
		})
	}
}

func TestClassify_AllReceivedIgnoresOtherFields(t *testing.T) {
	others := []map[string]any{
		{},
		{"mr_request": "1", "mr_request_dt": "x"},
		{"mr_request_2": "1", "mr_request_dt_2": "x"},
		{"mr_request_2": "1", "mr_request_dt_2": "x", "mr_rec_needs___1": "1"},
	}
	for _, o := range others {
		fields := map[string]any{"mr_received": true, "mr_rec_all": "1"}
		for k, v := range o {
			fields[k] = v
		}
		if got := Classify(fields); got != AllReceived {
			t.Errorf("Classify(%v) = %s, want all_received", fields, got)
		}
	}
}

func TestClassifySummary_FirstRequest(t *testing.T) {
	s := model.CaseSummary{Record: "R1", Details: "mr_request = '1', mr_request_dt = '2025-01-01'"}
	stage, d, err := ClassifySummary(s)
	if err != nil {
		t.Fatalf("ClassifySummary: %v", err)
	}
	if stage != FirstRequest {
		t.Errorf("stage = %s, want first_request", stage)
	}
	if d["mr_request_dt_2"] != "0" {
		t.Errorf("mr_request_dt_2 should default to \"0\", got %#v", d["mr_request_dt_2"])
	}
}

func TestClassifySummary_Malformed(t *testing.T) {
	_, _, err := ClassifySummary(model.CaseSummary{Record: "R9", Details: "mr_request = '1"})
	var me *MalformedRecordError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if me.RecordID != "R9" {
		t.Errorf("RecordID = %q", me.RecordID)
	}
}

func TestStage_Dir(t *testing.T) {
	if FirstRequest.Dir() != "first_request" || SecondRequestNotReceived.Dir() != "second_request" {
		t.Errorf("unexpected dirs: %q %q", FirstRequest.Dir(), SecondRequestNotReceived.Dir())
	}
	if AllReceived.GeneratesDocument() || None.GeneratesDocument() {
		t.Error("all_received and none must not generate documents")
	}
}
