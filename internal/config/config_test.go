package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	c := Defaults()
	if c.Submit {
		t.Error("submission should be off unless requested")
	}
	if c.OutputDir != "output" || c.LogsDir != "logs" || c.TemplatesDir != "templates" {
		t.Errorf("dirs = %q, %q, %q", c.OutputDir, c.LogsDir, c.TemplatesDir)
	}
	if c.Throttle != DefaultThrottle || c.ExtendedDaysThreshold != DefaultExtendedDaysThreshold {
		t.Errorf("throttle = %v, extended days = %d", c.Throttle, c.ExtendedDaysThreshold)
	}
}

func TestLoadFromFile_Valid(t *testing.T) {
	path := writeFile(t, "config.yaml", `
templates_dir: /srv/templates
output_dir: /srv/out
throttle: 500ms
extended_days_threshold: 30
default_site: RO-1
requester:
  company_id: 42
  company_name: Example Law
  name: Pat Smith
  email: pat@example.com
reason:
  business_type: ATTY
  api_code: PERSONAL_INJURY
callback:
  method: POST
  url: https://example.com/hook
certification_required: true
`)

	c := Defaults()
	if err := c.LoadFromFile(path, nil); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.TemplatesDir != "/srv/templates" || c.OutputDir != "/srv/out" {
		t.Errorf("dirs = %q, %q", c.TemplatesDir, c.OutputDir)
	}
	if c.Throttle != 500*time.Millisecond {
		t.Errorf("throttle = %v", c.Throttle)
	}
	if c.ExtendedDaysThreshold != 30 {
		t.Errorf("threshold = %d", c.ExtendedDaysThreshold)
	}
	if c.Requester.CompanyID != 42 || c.Requester.Email != "pat@example.com" {
		t.Errorf("requester = %+v", c.Requester)
	}
	if c.Reason.APICode != "PERSONAL_INJURY" {
		t.Errorf("reason = %+v", c.Reason)
	}
	if c.Callback == nil || c.Callback.URL != "https://example.com/hook" {
		t.Errorf("callback = %+v", c.Callback)
	}
	if !c.CertificationRequired {
		t.Error("certification_required not applied")
	}
	if c.LogsDir != "logs" {
		t.Errorf("unset field changed: logs = %q", c.LogsDir)
	}
}

func TestLoadFromFile_ExplicitFlagsWin(t *testing.T) {
	path := writeFile(t, "config.yaml", "templates_dir: /from/file\nthrottle: 10s\n")
	c := Defaults()
	c.TemplatesDir = "/from/flag"
	if err := c.LoadFromFile(path, map[string]bool{"templates": true}); err != nil {
		t.Fatal(err)
	}
	if c.TemplatesDir != "/from/flag" {
		t.Errorf("templates = %q", c.TemplatesDir)
	}
	if c.Throttle != 10*time.Second {
		t.Errorf("throttle = %v", c.Throttle)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	c := Defaults()
	if err := c.LoadFromFile("/nonexistent/config.yaml", nil); err == nil {
		t.Error("expected error for missing file")
	}
	if err := c.LoadFromFile(writeFile(t, "bad.yaml", "throttle: soon\n"), nil); err == nil {
		t.Error("expected error for bad duration")
	}
	if err := c.LoadFromFile(writeFile(t, "bad.yaml", "requester: [\n"), nil); err == nil {
		t.Error("expected error for bad yaml")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("REDCAP_API_URL", "https://redcap.example.org/api/")
	t.Setenv("REDCAP_API_TOKEN", "tok")
	t.Setenv("MRREQUEST_DB_URL", "postgres://localhost/mr")
	t.Setenv("USE_SMARTREQUEST_FAKER", "true")

	c := Defaults()
	if err := c.LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if c.Env.REDCapToken != "tok" || c.DSN != "postgres://localhost/mr" {
		t.Errorf("env = %+v dsn = %q", c.Env, c.DSN)
	}
	if c.Env.SmartRequestBaseURL != "https://sandbox-api.datavant.com/v1" {
		t.Errorf("base url default = %q", c.Env.SmartRequestBaseURL)
	}
	if !c.UseFaker() {
		t.Error("expected faker")
	}
	if err := c.ValidateREDCap(); err != nil {
		t.Errorf("ValidateREDCap: %v", err)
	}
	if err := c.ValidateWithDSN(); err != nil {
		t.Errorf("ValidateWithDSN: %v", err)
	}
}

func TestLoadEnv_DotenvAndFlagDSN(t *testing.T) {
	dotenv := writeFile(t, ".env", "SMARTREQUEST_CLIENT_ID=cid\nSMARTREQUEST_CLIENT_SECRET=secret\nENV=production\n")
	t.Setenv("MRREQUEST_DB_URL", "postgres://env")
	t.Cleanup(func() {
		os.Unsetenv("SMARTREQUEST_CLIENT_ID")
		os.Unsetenv("SMARTREQUEST_CLIENT_SECRET")
		os.Unsetenv("ENV")
	})

	c := Defaults()
	c.DSN = "postgres://flag"
	if err := c.LoadEnv(dotenv); err != nil {
		t.Fatal(err)
	}
	if c.DSN != "postgres://flag" {
		t.Errorf("dsn = %q", c.DSN)
	}
	if c.Env.SmartRequestClientID != "cid" {
		t.Errorf("client id = %q", c.Env.SmartRequestClientID)
	}
	if c.UseFaker() {
		t.Error("production with credentials should use the live client")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, "f.txt", "x")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(c *Config) {}, false},
		{"no templates", func(c *Config) { c.TemplatesDir = "" }, true},
		{"missing templates", func(c *Config) { c.TemplatesDir = filepath.Join(dir, "nope") }, true},
		{"templates is file", func(c *Config) { c.TemplatesDir = file }, true},
		{"no output", func(c *Config) { c.OutputDir = "" }, true},
		{"negative throttle", func(c *Config) { c.Throttle = -time.Second }, true},
		{"missing facilities", func(c *Config) { c.FacilityCSV = filepath.Join(dir, "none.csv") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			c.TemplatesDir = dir
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateREDCap_Missing(t *testing.T) {
	c := Defaults()
	if err := c.ValidateREDCap(); err == nil {
		t.Error("expected error without REDCap settings")
	}
	if err := c.ValidateWithDSN(); err == nil {
		t.Error("expected error without DSN")
	}
}
