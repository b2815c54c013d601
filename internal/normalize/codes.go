package normalize

import (
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`[^0-9]`)

// Digits strips everything but 0-9 from phone, fax and SSN values.
// Returns "" if nothing is left.
func Digits(v string) string {
	return nonDigit.ReplaceAllString(strings.TrimSpace(v), "")
}

// Phone normalizes a phone or fax number to at most ten digits, dropping a
// leading US country code.
func Phone(v string) string {
	d := Digits(v)
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) > 10 {
		d = d[:10]
	}
	return d
}
