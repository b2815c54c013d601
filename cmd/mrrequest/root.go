package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gyeh/mrrequest/internal/config"
	"github.com/gyeh/mrrequest/internal/exitcode"
	"github.com/gyeh/mrrequest/internal/facility"
	"github.com/gyeh/mrrequest/internal/logging"
	"github.com/gyeh/mrrequest/internal/smartrequest"
	"github.com/gyeh/mrrequest/internal/tracker"
)

var (
	cfg     = config.Defaults()
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "mrrequest",
	Short: "REDCap medical-records request automation",
	Long: "Polls the REDCap activity log, fills request-letter templates for each case, " +
		"converts them to PDF and submits them to SmartRequest.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string for the tracker (or set MRREQUEST_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&cfg.ConfigFile, "config", "", "YAML config file")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file with REDCap and SmartRequest credentials")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := cfg.LoadEnv(envFile); err != nil {
		fail(logging.Setup(cfg.LogFormat, cfg.LogLevel), exitcode.ConfigError, err, "environment load failed")
	}
	if cfg.ConfigFile == "" {
		return nil
	}
	explicit := make(map[string]bool)
	cmd.Flags().Visit(func(f *pflag.Flag) { explicit[f.Name] = true })
	if err := cfg.LoadFromFile(cfg.ConfigFile, explicit); err != nil {
		fail(logging.Setup(cfg.LogFormat, cfg.LogLevel), exitcode.ConfigError, err, "config file load failed")
	}
	return nil
}

// addRunFlags registers the document-generation settings of process.
func addRunFlags(f *pflag.FlagSet) {
	f.StringVar(&cfg.TemplatesDir, "templates", cfg.TemplatesDir, "Directory holding the .docx templates")
	f.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Root directory for generated documents")
	f.StringVar(&cfg.LogsDir, "logs", cfg.LogsDir, "Directory for the daily CSV logs")
	f.StringVar(&cfg.FacilityCSV, "facilities", cfg.FacilityCSV, "Facility directory CSV")
	f.StringVar(&cfg.DefaultSite, "default-site", cfg.DefaultSite, "Site name used when a hospital is not in the directory")
	f.StringVar(&cfg.Soffice, "soffice", cfg.Soffice, "LibreOffice binary used for PDF conversion")
	f.DurationVar(&cfg.Throttle, "throttle", cfg.Throttle, "Minimum spacing between cases (0 disables)")
	f.IntVar(&cfg.ExtendedDaysThreshold, "extended-days", cfg.ExtendedDaysThreshold, "mr_request_days above which a case goes to the extended log")
}

// addWindowFlags registers the REDCap log window selection.
func addWindowFlags(f *pflag.FlagSet) {
	f.StringVar(&cfg.Window, "window", cfg.Window, "Named window: hour or today")
	f.StringVar(&cfg.Since, "since", "", "Window begin (YYYY-MM-DD HH:MM), overrides --window")
	f.StringVar(&cfg.Until, "until", "", "Window end (YYYY-MM-DD HH:MM), defaults to now")
}

// openTracker returns the Postgres tracker when a DSN is configured and an
// in-memory one otherwise.
func openTracker(ctx context.Context, log zerolog.Logger) (tracker.Tracker, error) {
	if cfg.DSN == "" {
		log.Warn().Msg("no --dsn configured, tracking in memory for this process only")
		return tracker.NewMemory(), nil
	}
	return tracker.Open(ctx, cfg.DSN, log)
}

func newSmartRequestAPI(log zerolog.Logger) smartrequest.API {
	if cfg.UseFaker() {
		log.Info().Msg("using the SmartRequest faker")
		return smartrequest.NewFake()
	}
	return smartrequest.NewClient(smartrequest.ClientConfig{
		BaseURL:      cfg.Env.SmartRequestBaseURL,
		ClientID:     cfg.Env.SmartRequestClientID,
		ClientSecret: cfg.Env.SmartRequestClientSecret,
	})
}

// loadFacilities reads the configured directory CSV. Without one the
// directory is empty and every submission fails facility resolution.
func loadFacilities() (*facility.Directory, error) {
	if cfg.FacilityCSV == "" {
		return facility.New(nil), nil
	}
	return facility.Load(cfg.FacilityCSV)
}

func fail(log zerolog.Logger, code int, err error, msg string) {
	log.Error().Err(err).Msg(msg)
	os.Exit(code)
}
