package record

import (
	"errors"
	"testing"
)

func TestParseDetails_QuotedAndBare(t *testing.T) {
	d, err := ParseDetails("mr_request = '1', mr_request_dt = '2025-01-01', mr_rec_needs(4) = checked, hos_name = 'St. Mary, North'")
	if err != nil {
		t.Fatalf("ParseDetails: %v", err)
	}
	if d["mr_request"] != 1 {
		t.Errorf("mr_request = %#v, want int 1", d["mr_request"])
	}
	if d["mr_request_dt"] != "2025-01-01" {
		t.Errorf("mr_request_dt = %#v", d["mr_request_dt"])
	}
	if d["mr_rec_needs(4)"] != true {
		t.Errorf("mr_rec_needs(4) = %#v, want true", d["mr_rec_needs(4)"])
	}
	if d["hos_name"] != "St. Mary, North" {
		t.Errorf("hos_name = %#v", d["hos_name"])
	}
}

func TestParseDetails_CheckedQuoted(t *testing.T) {
	d, err := ParseDetails("mr_rec_needs(4) = 'checked'")
	if err != nil {
		t.Fatalf("ParseDetails: %v", err)
	}
	if d["mr_rec_needs(4)"] != true {
		t.Errorf("got %#v, want true", d["mr_rec_needs(4)"])
	}
}

func TestParseDetails_DefaultsRequiredKeys(t *testing.T) {
	d, err := ParseDetails("mr_request = '1'")
	if err != nil {
		t.Fatalf("ParseDetails: %v", err)
	}
	for _, k := range RequiredDetailKeys {
		if _, ok := d[k]; !ok {
			t.Errorf("required key %s missing", k)
		}
	}
	if d["mr_request_dt_2"] != "0" {
		t.Errorf("mr_request_dt_2 = %#v, want \"0\"", d["mr_request_dt_2"])
	}
	if d["mr_request"] != 1 {
		t.Errorf("explicit value overwritten: %#v", d["mr_request"])
	}
}

func TestParseDetails_Empty(t *testing.T) {
	d, err := ParseDetails("")
	if err != nil {
		t.Fatalf("ParseDetails: %v", err)
	}
	if len(d) != len(RequiredDetailKeys) {
		t.Errorf("expected only defaults, got %v", d)
	}
}

func TestParseDetails_Malformed(t *testing.T) {
	cases := []string{
		"no pairs here",
		"mr_request = '1",
		"= '1'",
	}
	for _, blob := range cases {
		_, err := ParseDetails(blob)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParseDetails(%q): expected ParseError, got %v", blob, err)
		}
	}
}

func TestCoerce(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"checked", true},
		{"unchecked", false},
		{"42", 42},
		{"-3", -3},
		{"2.5", 2.5},
		{"2025-01-01", "2025-01-01"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Coerce(c.in); got != c.want {
			t.Errorf("Coerce(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestDetailsString_Sorted(t *testing.T) {
	d := Details{"b": 2, "a": "x"}
	if got := d.String(); got != "a = x, b = 2" {
		t.Errorf("String() = %q", got)
	}
}
