package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "+91", cfg.Dispatch.CountryPrefix)
	assert.Equal(t, "https://web.whatsapp.com", cfg.Dispatch.BaseURL)
	assert.Equal(t, "pdf", cfg.Dispatch.ArtifactExt)
	assert.Empty(t, cfg.StatusSink.URL)
	assert.Equal(t, "whatsapp_session", cfg.Browser.ProfileDir)
	assert.False(t, cfg.Browser.Headless)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("partial file keeps other defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kankotri.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
dispatch:
  country_prefix: "+44"
status_sink:
  url: http://localhost:3000/api/logs
delays:
  pacing: 0s
selectors:
  send_button: 'span[data-icon="send"]'
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "+44", cfg.Dispatch.CountryPrefix)
		assert.Equal(t, "https://web.whatsapp.com", cfg.Dispatch.BaseURL)
		assert.Equal(t, "http://localhost:3000/api/logs", cfg.StatusSink.URL)
		assert.Equal(t, time.Duration(0), cfg.GetPacingDelay())
		assert.Equal(t, `span[data-icon="send"]`, cfg.Selectors.SendButton)
		assert.Equal(t, "Document", cfg.Selectors.DocumentLabel)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kankotri.yaml")
		require.NoError(t, os.WriteFile(path, []byte("dispatch: [unclosed"), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "failed to parse config")
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kankotri.yaml")
	cfg := DefaultConfig()
	cfg.StatusSink.URL = "http://localhost:3000/api/logs"
	cfg.Browser.Flags = []string{"--lang=en-US"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDurationGetters(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 60*time.Second, cfg.GetLoginTimeout())
	assert.Equal(t, 30*time.Second, cfg.GetChatLoadTimeout())
	assert.Equal(t, 10*time.Second, cfg.GetAttachMenuTimeout())
	assert.Equal(t, 10*time.Second, cfg.GetFileDialogTimeout())
	assert.Equal(t, 30*time.Second, cfg.GetSendReadyTimeout())
	assert.Equal(t, 5*time.Second, cfg.GetSendTimeout())
	assert.Equal(t, 5*time.Second, cfg.GetSinkTimeout())
	assert.Equal(t, 3*time.Second, cfg.GetSettleDelay())
	assert.Equal(t, 5*time.Second, cfg.GetConfirmDelay())
	assert.Equal(t, 3*time.Second, cfg.GetPacingDelay())

	cfg.Timeouts.ChatLoad = "45s"
	cfg.Timeouts.SendReady = "bogus"
	cfg.Timeouts.FileDialog = "0s"
	cfg.Delays.Settle = "0s"
	assert.Equal(t, 45*time.Second, cfg.GetChatLoadTimeout())
	assert.Equal(t, 30*time.Second, cfg.GetSendReadyTimeout(), "unparseable falls back")
	assert.Equal(t, 10*time.Second, cfg.GetFileDialogTimeout(), "zero timeout falls back")
	assert.Equal(t, time.Duration(0), cfg.GetSettleDelay(), "zero delay is allowed")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "prefix without plus", mutate: func(c *Config) { c.Dispatch.CountryPrefix = "91" }},
		{name: "bad prefix", mutate: func(c *Config) { c.Dispatch.CountryPrefix = "+9a" }, wantErr: "invalid country prefix"},
		{name: "empty prefix", mutate: func(c *Config) { c.Dispatch.CountryPrefix = "" }, wantErr: "invalid country prefix"},
		{name: "missing base url", mutate: func(c *Config) { c.Dispatch.BaseURL = "" }, wantErr: "dispatch.base_url is required"},
		{name: "relative sink url", mutate: func(c *Config) { c.StatusSink.URL = "/api/logs" }, wantErr: "status_sink.url"},
		{name: "bad duration", mutate: func(c *Config) { c.Timeouts.ChatLoad = "thirty" }, wantErr: "timeouts.chat_load"},
		{name: "bad send timeout", mutate: func(c *Config) { c.Timeouts.Send = "soon" }, wantErr: "timeouts.send"},
		{name: "negative delay", mutate: func(c *Config) { c.Delays.Pacing = "-1s" }, wantErr: "delays.pacing"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging format"},
		{name: "no profile", mutate: func(c *Config) { c.Browser.ProfileDir = " " }, wantErr: "profile_dir"},
		{name: "debugger url instead of profile", mutate: func(c *Config) {
			c.Browser.ProfileDir = ""
			c.Browser.DebuggerURL = "ws://127.0.0.1:9222/devtools/browser/abc"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestComponentSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dispatch.BaseURL = "http://127.0.0.1:8080"
	cfg.Dispatch.Greeting = "Namaste"
	cfg.Timeouts.Login = "5s"
	cfg.Delays.Pacing = "1s"
	cfg.Browser.Headless = true

	bc := cfg.BrowserSettings()
	assert.Equal(t, "http://127.0.0.1:8080", bc.BaseURL)
	assert.Equal(t, 5*time.Second, bc.LoginTimeout)
	assert.True(t, bc.Headless)
	assert.Equal(t, "whatsapp_session", bc.ProfileDir)
	assert.Equal(t, cfg.Selectors, bc.Selectors)

	mo := cfg.MachineOptions()
	assert.Equal(t, "http://127.0.0.1:8080", mo.BaseURL)
	assert.Equal(t, "Namaste", mo.Greeting)
	assert.Equal(t, time.Second, mo.Delays.Pacing)
	assert.Equal(t, 30*time.Second, mo.Timeouts.ChatLoad)
	assert.Equal(t, 5*time.Second, mo.Timeouts.Send)

	ro := cfg.RunOptions("/out/Mehta")
	assert.Equal(t, "+91", ro.CountryPrefix)
	assert.Equal(t, "/out/Mehta", ro.ArtifactFolder)
	assert.Equal(t, "pdf", ro.ArtifactExt)
	assert.Equal(t, mo.Delays, ro.Machine.Delays)
}
