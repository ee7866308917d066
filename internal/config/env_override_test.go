package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("each variable sets its field", func(t *testing.T) {
		t.Setenv("KANKOTRI_STATUS_URL", "http://collector:3000/api/logs")
		t.Setenv("KANKOTRI_COUNTRY_PREFIX", "+1")
		t.Setenv("KANKOTRI_BASE_URL", "http://localhost:9000")
		t.Setenv("KANKOTRI_PROFILE_DIR", "/var/lib/kankotri/profile")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://collector:3000/api/logs", cfg.StatusSink.URL)
		assert.Equal(t, "+1", cfg.Dispatch.CountryPrefix)
		assert.Equal(t, "http://localhost:9000", cfg.Dispatch.BaseURL)
		assert.Equal(t, "/var/lib/kankotri/profile", cfg.Browser.ProfileDir)
	})

	t.Run("empty variables leave values alone", func(t *testing.T) {
		t.Setenv("KANKOTRI_STATUS_URL", "")
		t.Setenv("KANKOTRI_COUNTRY_PREFIX", "")

		cfg := DefaultConfig()
		cfg.StatusSink.URL = "http://from-file/api/logs"
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://from-file/api/logs", cfg.StatusSink.URL)
		assert.Equal(t, "+91", cfg.Dispatch.CountryPrefix)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kankotri.yaml")
		require.NoError(t, os.WriteFile(path, []byte("dispatch:\n  country_prefix: \"+44\"\n"), 0o644))
		t.Setenv("KANKOTRI_COUNTRY_PREFIX", "+61")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "+61", cfg.Dispatch.CountryPrefix)
	})

	t.Run("applies without a config file", func(t *testing.T) {
		t.Setenv("KANKOTRI_STATUS_URL", "http://collector/api/logs")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "http://collector/api/logs", cfg.StatusSink.URL)
	})
}
