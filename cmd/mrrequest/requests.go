package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/mrrequest/internal/exitcode"
	"github.com/gyeh/mrrequest/internal/logging"
	"github.com/gyeh/mrrequest/internal/model"
	"github.com/gyeh/mrrequest/internal/smartrequest"
	"github.com/gyeh/mrrequest/internal/tracker"
)

var requestOpts struct {
	docType  string
	reason   string
	status   string
	recordID string
}

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect and manage submitted SmartRequest requests",
}

var requestStatusCmd = &cobra.Command{
	Use:   "status <request-id>",
	Short: "Fetch the current status of a request and record it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestStatus,
}

var requestDownloadCmd = &cobra.Command{
	Use:   "download-url <request-id>",
	Short: "Print a download URL for a request's documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestDownload,
}

var requestCancelCmd = &cobra.Command{
	Use:   "cancel <request-id>",
	Short: "Cancel a request and stop tracking it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestCancel,
}

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked requests",
	RunE:  runRequestList,
}

func init() {
	requestDownloadCmd.Flags().StringVar(&requestOpts.docType, "type", smartrequest.DocAll,
		"Document type: REQUEST_LETTER, INVOICE, MEDICAL_RECORD, CORRESPONDENCE or ALL")
	requestCancelCmd.Flags().StringVar(&requestOpts.reason, "reason", "", "Cancellation reason")
	requestListCmd.Flags().StringVar(&requestOpts.status, "status", "", "Only requests in this status")
	requestListCmd.Flags().StringVar(&requestOpts.recordID, "record", "", "Only requests for this record id")

	requestsCmd.AddCommand(requestStatusCmd, requestDownloadCmd, requestCancelCmd, requestListCmd)
	rootCmd.AddCommand(requestsCmd)
}

func runRequestStatus(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	trk, err := openTracker(ctx, log)
	if err != nil {
		fail(log, exitcode.DBConnError, err, "tracker connection failed")
	}
	defer trk.Close()

	st, err := newSmartRequestAPI(log).Status(ctx, args[0])
	if err != nil {
		fail(log, exitcode.FetchError, err, "status lookup failed")
	}
	if err := trk.UpdateRequestStatus(ctx, args[0], st.Status); err != nil && !errors.Is(err, tracker.ErrNotFound) {
		log.Warn().Err(err).Str("request_id", args[0]).Msg("failed to record request status")
	}

	fmt.Printf("%s  %s  (modified %s)\n", st.RequestID, st.Status, st.ModifiedDate)
	return nil
}

func runRequestDownload(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if !smartrequest.ValidDocumentType(requestOpts.docType) {
		fail(log, exitcode.UsageError, fmt.Errorf("unknown document type %q", requestOpts.docType), "invalid --type")
	}
	url, err := newSmartRequestAPI(log).DownloadURL(ctx, args[0], requestOpts.docType)
	if err != nil {
		fail(log, exitcode.FetchError, err, "download url lookup failed")
	}
	fmt.Println(url)
	return nil
}

func runRequestCancel(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	trk, err := openTracker(ctx, log)
	if err != nil {
		fail(log, exitcode.DBConnError, err, "tracker connection failed")
	}
	defer trk.Close()

	if err := newSmartRequestAPI(log).Cancel(ctx, args[0], requestOpts.reason); err != nil {
		fail(log, exitcode.ProcessError, err, "cancel failed")
	}
	if err := trk.RemoveRequest(ctx, args[0]); err != nil && !errors.Is(err, tracker.ErrNotFound) {
		log.Warn().Err(err).Str("request_id", args[0]).Msg("failed to stop tracking request")
	}

	log.Info().Str("request_id", args[0]).Msg("request cancelled")
	return nil
}

func runRequestList(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	trk, err := openTracker(ctx, log)
	if err != nil {
		fail(log, exitcode.DBConnError, err, "tracker connection failed")
	}
	defer trk.Close()

	var reqs []model.TrackedRequest
	if requestOpts.recordID != "" {
		reqs, err = trk.RequestsForRecord(ctx, requestOpts.recordID)
	} else {
		reqs, err = trk.RequestsByStatus(ctx, requestOpts.status)
	}
	if err != nil {
		fail(log, exitcode.ProcessError, err, "failed to list requests")
	}

	for _, r := range reqs {
		if requestOpts.status != "" && r.Status != requestOpts.status {
			continue
		}
		fmt.Printf("%-38s %-10s %-16s %-12s %s\n",
			r.RequestID, r.RecordID, r.Status, r.DocumentType, r.CreatedAt.Format(time.DateTime))
	}
	return nil
}
