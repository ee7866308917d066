package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"kankotri/internal/browser"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "kankotri.yaml"

// Config holds all kankotri configuration.
type Config struct {
	Dispatch   DispatchConfig    `yaml:"dispatch"`
	StatusSink StatusSinkConfig  `yaml:"status_sink"`
	Timeouts   TimeoutsConfig    `yaml:"timeouts"`
	Delays     DelaysConfig      `yaml:"delays"`
	Browser    BrowserConfig     `yaml:"browser"`
	Selectors  browser.Selectors `yaml:"selectors"`
	Paths      PathsConfig       `yaml:"paths"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// DispatchConfig shapes the outgoing messages.
type DispatchConfig struct {
	CountryPrefix string `yaml:"country_prefix"` // prepended to the last 10 digits, e.g. "+91"
	BaseURL       string `yaml:"base_url"`
	Greeting      string `yaml:"greeting"`
	ArtifactExt   string `yaml:"artifact_ext"`
}

// StatusSinkConfig points at the HTTP endpoint attempts are posted to.
// An empty URL disables posting.
type StatusSinkConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// TimeoutsConfig bounds the waits for the remote UI.
type TimeoutsConfig struct {
	Login      string `yaml:"login"`
	ChatLoad   string `yaml:"chat_load"`
	AttachMenu string `yaml:"attach_menu"`
	FileDialog string `yaml:"file_dialog"`
	SendReady  string `yaml:"send_ready"`
	Send       string `yaml:"send"`
}

// DelaysConfig are the fixed waits between steps and recipients.
type DelaysConfig struct {
	Settle  string `yaml:"settle"`
	Confirm string `yaml:"confirm"`
	Pacing  string `yaml:"pacing"`
}

// BrowserConfig configures the browser process.
type BrowserConfig struct {
	Bin         string   `yaml:"bin"`
	ProfileDir  string   `yaml:"profile_dir"`
	DebuggerURL string   `yaml:"debugger_url"`
	Headless    bool     `yaml:"headless"`
	KeepOpen    bool     `yaml:"keep_open"`
	Flags       []string `yaml:"flags"`
}

// PathsConfig locates run inputs and outputs.
type PathsConfig struct {
	Recipients string `yaml:"recipients"`  // CSV roster
	OutputBase string `yaml:"output_base"` // parent of the client folders
	LedgerDB   string `yaml:"ledger_db"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
	File   string `yaml:"file"`   // optional extra output
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Dispatch: DispatchConfig{
			CountryPrefix: "+91",
			BaseURL:       "https://web.whatsapp.com",
			Greeting:      "Here is your invitation",
			ArtifactExt:   "pdf",
		},
		StatusSink: StatusSinkConfig{
			URL:     "",
			Timeout: "5s",
		},
		Timeouts: TimeoutsConfig{
			Login:      "60s",
			ChatLoad:   "30s",
			AttachMenu: "10s",
			FileDialog: "10s",
			SendReady:  "30s",
			Send:       "5s",
		},
		Delays: DelaysConfig{
			Settle:  "3s",
			Confirm: "5s",
			Pacing:  "3s",
		},
		Browser: BrowserConfig{
			ProfileDir: "whatsapp_session",
		},
		Selectors: browser.DefaultSelectors(),
		Paths: PathsConfig{
			Recipients: "data.csv",
			OutputBase: filepath.Join("server", "output"),
			LedgerDB:   filepath.Join(".kankotri", "ledger.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from path. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KANKOTRI_STATUS_URL"); v != "" {
		c.StatusSink.URL = v
	}
	if v := os.Getenv("KANKOTRI_COUNTRY_PREFIX"); v != "" {
		c.Dispatch.CountryPrefix = v
	}
	if v := os.Getenv("KANKOTRI_BASE_URL"); v != "" {
		c.Dispatch.BaseURL = v
	}
	if v := os.Getenv("KANKOTRI_PROFILE_DIR"); v != "" {
		c.Browser.ProfileDir = v
	}
}

var prefixPattern = regexp.MustCompile(`^\+?[0-9]{1,4}$`)

// Validate checks the values a run cannot start without.
func (c *Config) Validate() error {
	if !prefixPattern.MatchString(c.Dispatch.CountryPrefix) {
		return fmt.Errorf("invalid country prefix %q (expected e.g. \"+91\")", c.Dispatch.CountryPrefix)
	}
	if err := checkURL("dispatch.base_url", c.Dispatch.BaseURL, true); err != nil {
		return err
	}
	if err := checkURL("status_sink.url", c.StatusSink.URL, false); err != nil {
		return err
	}
	if c.Browser.DebuggerURL != "" {
		if err := checkURL("browser.debugger_url", c.Browser.DebuggerURL, true); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.Browser.ProfileDir) == "" && c.Browser.DebuggerURL == "" {
		return fmt.Errorf("browser.profile_dir is required")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid logging format %q (valid: console, json)", c.Logging.Format)
	}
	return c.checkDurations()
}

func checkURL(field, raw string, required bool) error {
	if raw == "" {
		if required {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s %q: scheme and host are required", field, raw)
	}
	return nil
}
