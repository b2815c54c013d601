// mkfixture writes a self-contained sample workspace: request-letter
// templates, a REDCap activity log and record export as JSON, and a
// facility directory CSV.
// Usage: go run ./cmd/mkfixture --out testdata/sample --records 8
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/gyeh/mrrequest/internal/docx"
	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/redcap"
)

var (
	firstNames = []string{"Jane", "Maria", "Aisha", "Lin", "Grace", "Rosa", "Keisha", "Emily"}
	lastNames  = []string{"Doe", "Garcia", "Khan", "Chen", "Okafor", "Lopez", "Brown", "Walsh"}
	hospitals  = []string{"Regional One Health", "Methodist University Hospital", "Baptist Memorial Hospital"}
)

const facilitiesCSV = "site,siteName,healthSystem,addressLine1,addressLine2,city,state,zip,phone,fax\n" +
	"ROH,Regional One Health,Regional One,877 Jefferson Ave,,Memphis,TN,38103,901-545-7100,901-545-7101\n" +
	"MUH,Methodist University Hospital,Methodist Le Bonheur,1265 Union Ave,,Memphis,TN,38104,901-516-7000,901-516-7001\n" +
	"BMH,Baptist Memorial Hospital,Baptist Memorial,6019 Walnut Grove Rd,,Memphis,TN,38120,901-226-5000,901-226-5001\n"

func main() {
	out := flag.String("out", "testdata/sample", "output directory")
	records := flag.Int("records", 8, "number of cases to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewPCG(*seed, *seed))
	now := time.Now().Truncate(time.Minute)

	if err := writeTemplates(filepath.Join(*out, "templates")); err != nil {
		fatal("write templates", err)
	}

	var logRows, detailRows []map[string]any
	for i := 0; i < *records; i++ {
		id := fmt.Sprintf("%d-%03d", 2024, i+1)
		ts := now.Add(-time.Duration(*records-i) * 5 * time.Minute)
		logRows = append(logRows, map[string]any{
			"record":    id,
			"timestamp": ts.Format(redcap.TimeLayout),
			"username":  "coordinator",
			"action":    "Update record " + id,
			"details":   stageDetails(i, ts),
		})
		detailRows = append(detailRows, detailRow(rng, id, i, ts))
		if i%4 == 1 {
			// repeat instances produce one document each
			for j := 1; j <= 2; j++ {
				detailRows = append(detailRows, map[string]any{
					"mg_idpreg":                id,
					"redcap_repeat_instrument": "medical_records_request",
					"redcap_repeat_instance":   j,
					"mr_request_days":          rng.IntN(90),
				})
			}
		}
	}

	if err := writeJSON(filepath.Join(*out, "redcap", "log.json"), logRows); err != nil {
		fatal("write log", err)
	}
	if err := writeJSON(filepath.Join(*out, "redcap", "records.json"), detailRows); err != nil {
		fatal("write records", err)
	}
	if err := os.WriteFile(filepath.Join(*out, "facilities.csv"), []byte(facilitiesCSV), 0o644); err != nil {
		fatal("write facilities", err)
	}

	fmt.Printf("Wrote %d cases, %d detail rows and %d templates to %s\n",
		len(logRows), len(detailRows), len(model.AllPurposes), *out)
}

func writeTemplates(dir string) error {
	for _, p := range model.AllPurposes {
		blocks := []docx.Block{
			{Runs: []string{"MEDICAL RECORDS REQUEST (" + p.Name + ")"}},
			{Runs: []string{"Patient: ", "#bc_momnamefirst# #bc_momnamelast#", ", DOB #bc_mom_dob#"}},
			{Runs: []string{"Case #mg_idpreg#, delivered #bg_outcome_dt# at #hos_name#"}},
			{Rows: [][]string{
				{"Prenatal records", "#mr_rec_needs___1#"},
				{"Labor and delivery", "#mr_rec_needs___2#"},
				{"Discharge summary", "#mr_rec_needs___3#"},
				{"Infant records", "#mr_rec_needs_inf___88#"},
			}},
		}
		if err := docx.ComposeFile(filepath.Join(dir, p.Template), blocks); err != nil {
			return err
		}
	}
	return nil
}

// stageDetails rotates through the request stages so every directory gets
// at least one case.
func stageDetails(i int, ts time.Time) string {
	day := ts.Format(time.DateOnly)
	switch i % 4 {
	case 0:
		return fmt.Sprintf("mr_request = '1', mr_request_dt = '%s'", day)
	case 1:
		return fmt.Sprintf("mr_request_2 = '1', mr_request_dt_2 = '%s', mr_rec_needs(2) = checked", day)
	case 2:
		return fmt.Sprintf("mr_request_2 = '1', mr_request_dt_2 = '%s'", day)
	default:
		return "mr_received = '1', mr_rec_all = '1'"
	}
}

func detailRow(rng *rand.Rand, id string, i int, ts time.Time) map[string]any {
	delivery := ts.AddDate(0, -rng.IntN(6)-1, -rng.IntN(28))
	row := map[string]any{
		"mg_idpreg":              id,
		"redcap_repeat_instance": "",
		"mr_req_for":             fmt.Sprint(i%3 + 1),
		"bc_momnamefirst":        firstNames[rng.IntN(len(firstNames))],
		"bc_momnamelast":         lastNames[rng.IntN(len(lastNames))],
		"bc_mom_dob":             delivery.AddDate(-20-rng.IntN(15), 0, 0).Format("01/02/2006"),
		"bg_outcome_dt":          delivery.Format(time.DateOnly),
		"mg_lmp":                 delivery.AddDate(0, -9, 0).Format(time.DateOnly),
		"hos_name":               hospitals[rng.IntN(len(hospitals))],
		"mr_request_days":        fmt.Sprint(rng.IntN(100)),
		"mr_rec_needs___1":       fmt.Sprint(rng.IntN(2)),
		"mr_rec_needs___2":       fmt.Sprint(rng.IntN(2)),
		"mr_rec_needs___3":       fmt.Sprint(rng.IntN(2)),
	}
	return row
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	os.Exit(1)
}
