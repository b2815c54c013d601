package model

import "time"

// TimestampLayout is the minute-precision layout REDCap uses in its log export.
const TimestampLayout = "2006-01-02 15:04"

// CaseSummary is one row of the REDCap record activity log.
type CaseSummary struct {
	Record    string
	Timestamp time.Time
	Username  string
	Action    string
	Details   string
}

// TimestampString renders the timestamp the way REDCap reported it.
func (s CaseSummary) TimestampString() string {
	return s.Timestamp.Format(TimestampLayout)
}
