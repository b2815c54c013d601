package record

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// RequiredDetailKeys are defaulted to "0" when a details blob omits them,
// so classification never sees a missing key.
var RequiredDetailKeys = []string{
	"mr_request",
	"mr_request_dt",
	"mr_request_2",
	"mr_request_dt_2",
	"mr_received",
	"mr_rec_all",
	"mr_rec_all_2",
	"mr_request_days",
	"mr_request_days_2",
}

var (
	intPattern   = regexp.MustCompile(`^[-+]?\d+$`)
	floatPattern = regexp.MustCompile(`^[-+]?(\d+\.\d*|\.\d+)([eE][-+]?\d+)?$`)
)

// Details is the key/value mapping parsed out of a log row's details blob.
type Details map[string]any

// String renders the mapping as "key = value" pairs sorted by key.
func (d Details) String() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s = %v", k, d[k])
	}
	return strings.Join(parts, ", ")
}

// ParseError reports where a details blob stopped making sense.
type ParseError struct {
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("details blob at offset %d: %s", e.Offset, e.Reason)
}

// ParseDetails parses a REDCap log details blob of the form
//
//	mr_request = '1', mr_request_dt = '2025-01-01', mr_rec_needs(4) = checked
//
// Values may be single-quoted or bare. Quoted values may contain commas.
// Values are coerced with Coerce and RequiredDetailKeys are defaulted to "0".
func ParseDetails(blob string) (Details, error) {
	d := make(Details)
	i, n := 0, len(blob)
	for {
		for i < n && (blob[i] == ' ' || blob[i] == ',' || blob[i] == '\n' || blob[i] == '\t' || blob[i] == '\r') {
			i++
		}
		if i >= n {
			break
		}

		eq := strings.IndexByte(blob[i:], '=')
		if eq < 0 {
			return nil, &ParseError{Offset: i, Reason: fmt.Sprintf("expected '=' after %q", strings.TrimSpace(blob[i:]))}
		}
		key := strings.TrimSpace(blob[i : i+eq])
		if key == "" || strings.ContainsAny(key, " ,'") {
			return nil, &ParseError{Offset: i, Reason: fmt.Sprintf("invalid key %q", key)}
		}
		i += eq + 1
		for i < n && blob[i] == ' ' {
			i++
		}

		var raw string
		if i < n && blob[i] == '\'' {
			end, ok := closingQuote(blob, i+1)
			if !ok {
				return nil, &ParseError{Offset: i, Reason: fmt.Sprintf("unterminated value for %q", key)}
			}
			raw = blob[i+1 : end]
			i = end + 1
		} else {
			comma := strings.IndexByte(blob[i:], ',')
			if comma < 0 {
				comma = n - i
			}
			raw = strings.TrimSpace(blob[i : i+comma])
			i += comma
		}
		d[key] = Coerce(raw)
	}

	for _, k := range RequiredDetailKeys {
		if _, ok := d[k]; !ok {
			d[k] = "0"
		}
	}
	return d, nil
}

// closingQuote finds the quote that ends a value starting at from: a quote
// followed by optional spaces and then a comma or the end of the blob.
func closingQuote(blob string, from int) (int, bool) {
	for j := from; j < len(blob); j++ {
		if blob[j] != '\'' {
			continue
		}
		k := j + 1
		for k < len(blob) && blob[k] == ' ' {
			k++
		}
		if k == len(blob) || blob[k] == ',' {
			return j, true
		}
	}
	return 0, false
}

// Coerce converts a details value: "checked"/"unchecked" become booleans,
// integer and decimal strings become int and float64, everything else is
// returned as the original string.
func Coerce(raw string) any {
	s := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(s, "checked"):
		return true
	case strings.EqualFold(s, "unchecked"):
		return false
	case intPattern.MatchString(s):
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	case floatPattern.MatchString(s):
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return raw
}
