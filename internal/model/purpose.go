package model

import "strings"

// Purpose identifies whose records a request covers. It is keyed by the
// REDCap mr_req_for field.
type Purpose struct {
	Code     string // mr_req_for value, e.g. "1"
	Name     string // request_type label in logs and the tracker
	Template string // template file name under the templates dir
}

var (
	PurposeMother   = Purpose{Code: "1", Name: "mother", Template: "mother_template.docx"}
	PurposeInfant   = Purpose{Code: "2", Name: "infant", Template: "infant_template.docx"}
	PurposeCombined = Purpose{Code: "3", Name: "combined", Template: "combined_template.docx"}
)

// AllPurposes lists the supported purposes in canonical order.
var AllPurposes = []Purpose{PurposeMother, PurposeInfant, PurposeCombined}

// PurposeFor maps an mr_req_for value to a Purpose. Anything other than
// "1" or "2" is a combined request.
func PurposeFor(code string) Purpose {
	switch strings.TrimSpace(code) {
	case PurposeMother.Code:
		return PurposeMother
	case PurposeInfant.Code:
		return PurposeInfant
	default:
		return PurposeCombined
	}
}

// PurposeByName returns the Purpose for the given name, or ok=false.
func PurposeByName(name string) (Purpose, bool) {
	for _, p := range AllPurposes {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Purpose{}, false
}
