package record

import "strings"

// Truthy is the one truthiness rule for REDCap values.
// nil is false; a string is false iff, trimmed, it is "", "0" or "false"
// (any case); booleans are themselves; numbers are true when non-zero;
// anything else is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		s := strings.TrimSpace(x)
		return s != "" && s != "0" && !strings.EqualFold(s, "false")
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}
