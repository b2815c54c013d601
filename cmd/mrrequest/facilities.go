package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyeh/mrrequest/internal/exitcode"
	"github.com/gyeh/mrrequest/internal/logging"
	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/smartrequest"
)

var lookupOpts struct {
	live    bool
	state   string
	purpose string
}

var facilitiesCmd = &cobra.Command{
	Use:   "facilities",
	Short: "List facilities from the directory CSV or the SmartRequest API",
	RunE:  runFacilities,
}

var recordTypesCmd = &cobra.Command{
	Use:   "record-types",
	Short: "List the record types requested for a purpose, or those offered by SmartRequest",
	RunE:  runRecordTypes,
}

func init() {
	f := facilitiesCmd.Flags()
	f.StringVar(&cfg.FacilityCSV, "facilities", cfg.FacilityCSV, "Facility directory CSV")
	f.BoolVar(&lookupOpts.live, "live", false, "Query the SmartRequest API instead of the CSV")
	f.StringVar(&lookupOpts.state, "state", "", "Filter live results by state")

	rf := recordTypesCmd.Flags()
	rf.StringVar(&lookupOpts.purpose, "purpose", "", "mother, infant or combined")
	rf.BoolVar(&lookupOpts.live, "live", false, "Query the SmartRequest API")

	rootCmd.AddCommand(facilitiesCmd, recordTypesCmd)
}

func runFacilities(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if lookupOpts.live {
		filters := map[string]string{}
		if lookupOpts.state != "" {
			filters["state"] = lookupOpts.state
		}
		list, err := newSmartRequestAPI(log).Facilities(context.Background(), filters)
		if err != nil {
			fail(log, exitcode.FetchError, err, "facility lookup failed")
		}
		for _, fi := range list {
			fmt.Printf("%-40s %-30s %s, %s %s\n", fi.SiteName, fi.HealthSystem, fi.City, fi.State, fi.Zip)
		}
		return nil
	}

	if cfg.FacilityCSV == "" {
		fail(log, exitcode.UsageError, fmt.Errorf("--facilities or --live is required"), "no facility source")
	}
	dir, err := loadFacilities()
	if err != nil {
		fail(log, exitcode.ConfigError, err, "facility directory load failed")
	}
	for _, s := range dir.Sites() {
		fmt.Printf("%-40s %-30s %s, %s %s\n", s.SiteName, s.HealthSystem, s.City, s.State, s.Zip)
	}
	log.Info().Int("facilities", dir.Len()).Str("file", cfg.FacilityCSV).Msg("directory loaded")
	return nil
}

func runRecordTypes(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if lookupOpts.live {
		types, err := newSmartRequestAPI(log).RecordTypes(context.Background())
		if err != nil {
			fail(log, exitcode.FetchError, err, "record type lookup failed")
		}
		for _, t := range types {
			fmt.Printf("%-50s digital=%t\n", t.Name, t.DigitalFulfillment)
		}
		return nil
	}

	purposes := model.AllPurposes
	if lookupOpts.purpose != "" {
		p, ok := model.PurposeByName(lookupOpts.purpose)
		if !ok {
			fail(log, exitcode.UsageError, fmt.Errorf("unknown purpose %q", lookupOpts.purpose), "invalid --purpose")
		}
		purposes = []model.Purpose{p}
	}
	for _, p := range purposes {
		fmt.Printf("%s:\n", p.Name)
		for _, t := range smartrequest.RecordTypesFor(p) {
			fmt.Printf("  %s\n", t)
		}
	}
	return nil
}
