package smartrequest

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FakeStatuses are the statuses Fake reports for a request.
var FakeStatuses = []string{
	"Created",
	"In Process - Pending Fulfillment",
	"In Process - Fulfillment",
	"In Process - Quality Assurance",
	"In Process - Pending Approval",
	"In Process - Preparing Invoice",
	"In Process - Certification",
	"Record Available",
	"Requires Payment",
	"Correspondence Sent",
}

// DefaultReason is the reason code used for local runs.
var DefaultReason = Reason{BusinessType: "ATTY", APICode: "STATE_ATTY_OFFICE"}

var fakeFacilities = []FacilityInfo{
	{SiteName: "Vanderbilt University Medical Center", HealthSystem: "Vanderbilt Health", AddressLine1: "1211 Medical Center Dr", City: "Nashville", State: "TN", Zip: "37232", Phone: "6153225000", Fax: "6153431234"},
	{SiteName: "Regional One Health", HealthSystem: "Regional One Health", AddressLine1: "877 Jefferson Ave", City: "Memphis", State: "TN", Zip: "38103", Phone: "9015457100", Fax: "9015457101"},
	{SiteName: "Erlanger Baroness Hospital", HealthSystem: "Erlanger Health System", AddressLine1: "975 E 3rd St", City: "Chattanooga", State: "TN", Zip: "37403", Phone: "4237787000", Fax: "4237787001"},
	{SiteName: "University of Tennessee Medical Center", HealthSystem: "University Health System", AddressLine1: "1924 Alcoa Hwy", City: "Knoxville", State: "TN", Zip: "37920", Phone: "8653052000", Fax: "8653052001"},
}

// Fake answers every API call locally. Request ids count up from 1001.
type Fake struct {
	mu      sync.Mutex
	counter int
	rng     *rand.Rand
	now     func() time.Time
}

func NewFake() *Fake {
	return &Fake{
		counter: 1000,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		now:     time.Now,
	}
}

// NewFakeSeeded returns a Fake with reproducible statuses.
func NewFakeSeeded(seed uint64) *Fake {
	f := NewFake()
	f.rng = rand.New(rand.NewPCG(seed, seed))
	return f
}

func (f *Fake) Facilities(_ context.Context, filters map[string]string) ([]FacilityInfo, error) {
	var out []FacilityInfo
	for _, fac := range fakeFacilities {
		if s := filters["state"]; s != "" && !strings.EqualFold(s, fac.State) {
			continue
		}
		if c := filters["city"]; c != "" && !strings.Contains(strings.ToLower(fac.City), strings.ToLower(c)) {
			continue
		}
		fac.Address = fac.AddressLine1
		out = append(out, fac)
	}
	return out, nil
}

func (f *Fake) RequestReasons(_ context.Context, _ int64) ([]RequestReason, error) {
	return []RequestReason{
		{Name: "Attorney - State Attorney Office", BusinessType: DefaultReason.BusinessType, APICode: DefaultReason.APICode, FacilityStates: []string{"ALL"}},
		{Name: "Copy Service - Continuity Of Care", BusinessType: "COPY_SERVICE", APICode: "COPY_SERVICE_CONTINUITY_1", FacilityStates: []string{"TN"}},
		{Name: "Disability - Claim Review", BusinessType: "DISABILITY", APICode: "DISABILITY_CLAIM_1", FacilityStates: []string{"ALL"}},
	}, nil
}

func (f *Fake) RecordTypes(_ context.Context) ([]RecordType, error) {
	out := make([]RecordType, 0, len(CombinedRecordTypes))
	for _, name := range CombinedRecordTypes {
		out = append(out, RecordType{Name: name, DigitalFulfillment: true})
	}
	return out, nil
}

// CreateRequest echoes the payload without its authorization forms and
// adds a request id.
func (f *Fake) CreateRequest(_ context.Context, p Payload) (*CreateResult, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("fake create request: %w", err)
	}
	body := map[string]any{}
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, fmt.Errorf("fake create request: %w", err)
	}
	delete(body, "authorizationForms")

	f.mu.Lock()
	f.counter++
	id := strconv.Itoa(f.counter)
	f.mu.Unlock()

	body["requestId"] = id
	if fac, ok := body["facility"].(map[string]any); ok {
		if _, has := fac["address"]; !has {
			fac["address"] = fac["addressLine1"]
		}
	}
	return &CreateResult{RequestID: id, Response: body}, nil
}

func (f *Fake) Status(_ context.Context, requestID string) (*Status, error) {
	f.mu.Lock()
	status := FakeStatuses[f.rng.IntN(len(FakeStatuses))]
	ago := time.Duration(f.rng.Int64N(int64(30 * 24 * time.Hour)))
	f.mu.Unlock()
	return &Status{
		RequestID:    requestID,
		Status:       status,
		ModifiedDate: f.now().UTC().Add(-ago).Format(time.RFC3339),
	}, nil
}

func (f *Fake) DownloadURL(_ context.Context, requestID, docType string) (string, error) {
	if !ValidDocumentType(docType) {
		return "", fmt.Errorf("fake download-url: unknown document type %q", docType)
	}
	return fmt.Sprintf("https://fake-download-server.com/download/%s/%s/%s.pdf",
		requestID, strings.ToLower(docType), uuid.NewString()), nil
}

func (f *Fake) Cancel(_ context.Context, _, _ string) error {
	return nil
}
