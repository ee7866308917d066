package config

import (
	"fmt"
	"time"
)

// parseDuration returns the parsed value of s, or fallback when s is empty,
// unparseable or not positive.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// parseDelay is parseDuration for waits that may be zero.
func parseDelay(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func (c *Config) GetLoginTimeout() time.Duration {
	return parseDuration(c.Timeouts.Login, 60*time.Second)
}

func (c *Config) GetChatLoadTimeout() time.Duration {
	return parseDuration(c.Timeouts.ChatLoad, 30*time.Second)
}

func (c *Config) GetAttachMenuTimeout() time.Duration {
	return parseDuration(c.Timeouts.AttachMenu, 10*time.Second)
}

func (c *Config) GetFileDialogTimeout() time.Duration {
	return parseDuration(c.Timeouts.FileDialog, 10*time.Second)
}

func (c *Config) GetSendReadyTimeout() time.Duration {
	return parseDuration(c.Timeouts.SendReady, 30*time.Second)
}

func (c *Config) GetSendTimeout() time.Duration {
	return parseDuration(c.Timeouts.Send, 5*time.Second)
}

func (c *Config) GetSinkTimeout() time.Duration {
	return parseDuration(c.StatusSink.Timeout, 5*time.Second)
}

func (c *Config) GetSettleDelay() time.Duration {
	return parseDelay(c.Delays.Settle, 3*time.Second)
}

func (c *Config) GetConfirmDelay() time.Duration {
	return parseDelay(c.Delays.Confirm, 5*time.Second)
}

func (c *Config) GetPacingDelay() time.Duration {
	return parseDelay(c.Delays.Pacing, 3*time.Second)
}

// checkDurations rejects values that would otherwise silently fall back.
func (c *Config) checkDurations() error {
	fields := []struct {
		name, value string
	}{
		{"timeouts.login", c.Timeouts.Login},
		{"timeouts.chat_load", c.Timeouts.ChatLoad},
		{"timeouts.attach_menu", c.Timeouts.AttachMenu},
		{"timeouts.file_dialog", c.Timeouts.FileDialog},
		{"timeouts.send_ready", c.Timeouts.SendReady},
		{"timeouts.send", c.Timeouts.Send},
		{"status_sink.timeout", c.StatusSink.Timeout},
		{"delays.settle", c.Delays.Settle},
		{"delays.confirm", c.Delays.Confirm},
		{"delays.pacing", c.Delays.Pacing},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid %s: must not be negative", f.name)
		}
	}
	return nil
}
