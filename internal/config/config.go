package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/mrrequest/internal/smartrequest"
)

const (
	DefaultThrottle              = 2 * time.Second
	DefaultExtendedDaysThreshold = 50
	DefaultAddr                  = ":8080"
)

// Env holds secrets and environment switches read from the process
// environment (and .env).
type Env struct {
	REDCapURL   string `envconfig:"REDCAP_API_URL"`
	REDCapToken string `envconfig:"REDCAP_API_TOKEN"`

	SmartRequestBaseURL      string `envconfig:"SMARTREQUEST_BASE_URL" default:"https://sandbox-api.datavant.com/v1"`
	SmartRequestClientID     string `envconfig:"SMARTREQUEST_CLIENT_ID"`
	SmartRequestClientSecret string `envconfig:"SMARTREQUEST_CLIENT_SECRET"`
	Environment              string `envconfig:"ENV"`
	UseFaker                 bool   `envconfig:"USE_SMARTREQUEST_FAKER"`

	DatabaseURL string `envconfig:"MRREQUEST_DB_URL"`
}

// Config holds all runtime configuration for an mrrequest command.
type Config struct {
	ConfigFile string
	DSN        string
	LogFormat  string // "text" or "json"
	LogLevel   string

	TemplatesDir string
	OutputDir    string
	LogsDir      string
	FacilityCSV  string
	DefaultSite  string
	Soffice      string

	Throttle              time.Duration
	ExtendedDaysThreshold int

	// Window is "hour" or "today"; Since/Until override it.
	Window string
	Since  string
	Until  string
	Submit bool
	Addr   string

	Requester             smartrequest.RequesterInfo
	Reason                smartrequest.Reason
	Callback              *smartrequest.CallbackDetails
	CertificationRequired bool

	Env Env
}

// Defaults returns a Config populated with the built-in defaults.
func Defaults() Config {
	return Config{
		LogFormat:             "text",
		LogLevel:              "info",
		TemplatesDir:          "templates",
		OutputDir:             "output",
		LogsDir:               "logs",
		Soffice:               "soffice",
		Throttle:              DefaultThrottle,
		ExtendedDaysThreshold: DefaultExtendedDaysThreshold,
		Window:                "hour",
		Addr:                  DefaultAddr,
		Reason:                smartrequest.DefaultReason,
	}
}

// LoadEnv loads dotenv (a missing file is ignored) and then the process
// environment into c.Env. An empty DSN falls back to MRREQUEST_DB_URL.
func (c *Config) LoadEnv(dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	if err := envconfig.Process("", &c.Env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if c.DSN == "" {
		c.DSN = c.Env.DatabaseURL
	}
	return nil
}

// fileConfig is the on-disk YAML structure.
type fileConfig struct {
	TemplatesDir          string                        `yaml:"templates_dir"`
	OutputDir             string                        `yaml:"output_dir"`
	LogsDir               string                        `yaml:"logs_dir"`
	FacilityCSV           string                        `yaml:"facility_csv"`
	DefaultSite           string                        `yaml:"default_site"`
	Soffice               string                        `yaml:"soffice"`
	Throttle              string                        `yaml:"throttle"`
	ExtendedDaysThreshold *int                          `yaml:"extended_days_threshold"`
	Requester             *smartrequest.RequesterInfo   `yaml:"requester"`
	Reason                *smartrequest.Reason          `yaml:"reason"`
	Callback              *smartrequest.CallbackDetails `yaml:"callback"`
	CertificationRequired *bool                         `yaml:"certification_required"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Settings whose flag name is in explicit were given on the command line
// and keep their value.
func (c *Config) LoadFromFile(path string, explicit map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setStr := func(flag string, dst *string, v string) {
		if v != "" && !explicit[flag] {
			*dst = v
		}
	}
	setStr("templates", &c.TemplatesDir, fc.TemplatesDir)
	setStr("output", &c.OutputDir, fc.OutputDir)
	setStr("logs", &c.LogsDir, fc.LogsDir)
	setStr("facilities", &c.FacilityCSV, fc.FacilityCSV)
	setStr("default-site", &c.DefaultSite, fc.DefaultSite)
	setStr("soffice", &c.Soffice, fc.Soffice)

	if fc.Throttle != "" && !explicit["throttle"] {
		d, err := time.ParseDuration(fc.Throttle)
		if err != nil {
			return fmt.Errorf("config throttle: %w", err)
		}
		c.Throttle = d
	}
	if fc.ExtendedDaysThreshold != nil && !explicit["extended-days"] {
		c.ExtendedDaysThreshold = *fc.ExtendedDaysThreshold
	}
	if fc.Requester != nil {
		c.Requester = *fc.Requester
	}
	if fc.Reason != nil {
		c.Reason = *fc.Reason
	}
	if fc.Callback != nil {
		c.Callback = fc.Callback
	}
	if fc.CertificationRequired != nil {
		c.CertificationRequired = *fc.CertificationRequired
	}
	return nil
}

// UseFaker reports whether SmartRequest calls go to the in-process fake.
func (c *Config) UseFaker() bool {
	return smartrequest.UseFaker(c.Env.Environment, c.Env.SmartRequestClientID, c.Env.SmartRequestClientSecret, c.Env.UseFaker)
}

// Validate checks the settings every processing run needs.
func (c *Config) Validate() error {
	if c.TemplatesDir == "" {
		return fmt.Errorf("--templates is required")
	}
	if st, err := os.Stat(c.TemplatesDir); err != nil {
		return fmt.Errorf("templates dir not accessible: %w", err)
	} else if !st.IsDir() {
		return fmt.Errorf("templates dir %s is not a directory", c.TemplatesDir)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("--output is required")
	}
	if c.Throttle < 0 {
		return fmt.Errorf("--throttle must not be negative")
	}
	if c.ExtendedDaysThreshold < 0 {
		return fmt.Errorf("--extended-days must not be negative")
	}
	if c.FacilityCSV != "" {
		if _, err := os.Stat(c.FacilityCSV); err != nil {
			return fmt.Errorf("facility file not accessible: %w", err)
		}
	}
	return nil
}

// ValidateREDCap checks the REDCap API settings.
func (c *Config) ValidateREDCap() error {
	if c.Env.REDCapURL == "" {
		return fmt.Errorf("REDCAP_API_URL is required")
	}
	if c.Env.REDCapToken == "" {
		return fmt.Errorf("REDCAP_API_TOKEN is required")
	}
	return nil
}

// ValidateWithDSN checks that a tracker database is configured.
func (c *Config) ValidateWithDSN() error {
	if c.DSN == "" {
		return fmt.Errorf("--dsn or MRREQUEST_DB_URL is required")
	}
	return nil
}
