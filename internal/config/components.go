package config

import (
	"kankotri/internal/browser"
	"kankotri/internal/delivery"
	"kankotri/internal/orchestrator"
)

// BrowserSettings builds the session manager configuration.
func (c *Config) BrowserSettings() browser.Config {
	bc := browser.DefaultConfig()
	bc.Bin = c.Browser.Bin
	if c.Browser.ProfileDir != "" {
		bc.ProfileDir = c.Browser.ProfileDir
	}
	bc.DebuggerURL = c.Browser.DebuggerURL
	bc.Headless = c.Browser.Headless
	bc.KeepOpen = c.Browser.KeepOpen
	bc.Flags = append([]string(nil), c.Browser.Flags...)
	if c.Dispatch.BaseURL != "" {
		bc.BaseURL = c.Dispatch.BaseURL
	}
	bc.LoginTimeout = c.GetLoginTimeout()
	bc.Selectors = c.Selectors
	return bc
}

// MachineOptions builds the delivery step machine options.
func (c *Config) MachineOptions() delivery.Options {
	opts := delivery.DefaultOptions()
	if c.Dispatch.BaseURL != "" {
		opts.BaseURL = c.Dispatch.BaseURL
	}
	if c.Dispatch.Greeting != "" {
		opts.Greeting = c.Dispatch.Greeting
	}
	opts.Timeouts.ChatLoad = c.GetChatLoadTimeout()
	opts.Timeouts.AttachMenu = c.GetAttachMenuTimeout()
	opts.Timeouts.FileDialog = c.GetFileDialogTimeout()
	opts.Timeouts.SendReady = c.GetSendReadyTimeout()
	opts.Timeouts.Send = c.GetSendTimeout()
	opts.Delays = delivery.Delays{
		Settle:  c.GetSettleDelay(),
		Confirm: c.GetConfirmDelay(),
		Pacing:  c.GetPacingDelay(),
	}
	return opts
}

// RunOptions builds the orchestrator options for one client folder.
func (c *Config) RunOptions(clientFolder string) orchestrator.Options {
	return orchestrator.Options{
		CountryPrefix:  c.Dispatch.CountryPrefix,
		ArtifactFolder: clientFolder,
		ArtifactExt:    c.Dispatch.ArtifactExt,
		Machine:        c.MachineOptions(),
	}
}
