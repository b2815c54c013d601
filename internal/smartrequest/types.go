package smartrequest

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Facility is the site the records are requested from.
type Facility struct {
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	HealthSystem string `json:"healthSystem"`
	SiteName     string `json:"siteName"`
	Phone        string `json:"phone"`
	Fax          string `json:"fax"`
}

// RequesterInfo identifies the requesting organisation.
type RequesterInfo struct {
	CompanyID   int64  `json:"companyId" yaml:"company_id"`
	CompanyName string `json:"companyName" yaml:"company_name"`
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email" yaml:"email"`
}

type Patient struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
	CustomID    string `json:"customId"`
}

type Reason struct {
	BusinessType string `json:"businessType" yaml:"business_type"`
	APICode      string `json:"apiCode" yaml:"api_code"`
}

// RequestCriteria bounds one set of record types by date.
type RequestCriteria struct {
	RecordTypes []string `json:"recordTypes"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
}

type CallbackDetails struct {
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers" yaml:"headers"`
}

// Payload is the body of POST /request.
type Payload struct {
	Facility              Facility          `json:"facility"`
	RequesterInfo         RequesterInfo     `json:"requesterInfo"`
	Patient               Patient           `json:"patient"`
	Reason                Reason            `json:"reason"`
	RequestCriteria       []RequestCriteria `json:"requestCriteria"`
	CertificationRequired bool              `json:"certificationRequired"`
	AuthorizationForms    []string          `json:"authorizationForms"`
	CallbackDetails       *CallbackDetails  `json:"callbackDetails,omitempty"`
}

// Sanitized returns the payload as JSON with authorizationForms replaced by
// a "[N files]" marker, for storage and logs.
func (p Payload) Sanitized() (json.RawMessage, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	m["authorizationForms"] = fmt.Sprintf("[%d files]", len(p.AuthorizationForms))
	return json.Marshal(m)
}

// CreateResult is the answer to a created request. Response holds the full
// decoded body.
type CreateResult struct {
	RequestID string
	Response  map[string]any
}

// Status of a submitted request.
type Status struct {
	RequestID    string `json:"requestId"`
	Status       string `json:"status"`
	ModifiedDate string `json:"modifiedDate"`
}

// FacilityInfo is one entry of GET /facilities.
type FacilityInfo struct {
	SiteName     string `json:"siteName"`
	HealthSystem string `json:"healthSystem"`
	Address      string `json:"address,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	StdZip       string `json:"stdZip,omitempty"`
	Phone        string `json:"phone"`
	Fax          string `json:"fax"`
}

// RequestReason is one entry of GET /request-reasons.
type RequestReason struct {
	Name           string   `json:"name"`
	BusinessType   string   `json:"businessType"`
	APICode        string   `json:"apiCode"`
	FacilityStates []string `json:"facilityStates"`
}

// RecordType is one entry of GET /record-types.
type RecordType struct {
	Name               string `json:"name"`
	DigitalFulfillment bool   `json:"digitalFulfillment"`
}

// Document types accepted by the download-url endpoint.
const (
	DocRequestLetter  = "REQUEST_LETTER"
	DocInvoice        = "INVOICE"
	DocMedicalRecord  = "MEDICAL_RECORD"
	DocCorrespondence = "CORRESPONDENCE"
	DocAll            = "ALL"
)

var documentTypes = []string{DocRequestLetter, DocInvoice, DocMedicalRecord, DocCorrespondence, DocAll}

// ValidDocumentType reports whether t is accepted by DownloadURL.
func ValidDocumentType(t string) bool {
	for _, d := range documentTypes {
		if d == t {
			return true
		}
	}
	return false
}

// requestIDOf reads requestId from a decoded body. The id is a string in
// the API but numbers are tolerated.
func requestIDOf(body map[string]any) string {
	switch v := body["requestId"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}
