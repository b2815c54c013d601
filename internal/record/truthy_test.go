package record

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{"", false},
		{"   ", false},
		{"0", false},
		{" 0 ", false},
		{"false", false},
		{"FALSE", false},
		{"1", true},
		{"2025-01-01", true},
		{"no", true},
		{true, true},
		{false, false},
		{0, false},
		{1, true},
		{0.0, false},
		{[]string{}, true},
	}
	for _, c := range cases {
		if got := Truthy(c.in); got != c.want {
			t.Errorf("Truthy(%#v) = %v, want %v", c.in, got, c.want)
		}
	}
}
