package browser

import (
	"time"
)

// Selectors locate the chat client's controls. They are configuration, not
// code, because the remote UI changes without notice.
type Selectors struct {
	// LoginMarker appears only once the account is authenticated.
	LoginMarker string `yaml:"login_marker"`
	// Composer is the message input of an open conversation.
	Composer string `yaml:"composer"`
	// AttachButton opens the attachment menu. Comma-separated alternatives
	// cover the attribute shapes seen across client versions.
	AttachButton string `yaml:"attach_button"`
	// DocumentOption lists candidate elements for the menu's document entry;
	// a candidate matches on DocumentLabel via text, aria-label or title.
	DocumentOption string `yaml:"document_option"`
	DocumentLabel  string `yaml:"document_label"`
	// SendButton becomes visible once the attachment preview is ready.
	SendButton string `yaml:"send_button"`
	// InvalidNumberScope and InvalidNumberText identify the notice shown for
	// numbers the service does not know.
	InvalidNumberScope string `yaml:"invalid_number_scope"`
	InvalidNumberText  string `yaml:"invalid_number_text"`
}

// DefaultSelectors returns selectors for the current web client.
func DefaultSelectors() Selectors {
	return Selectors{
		LoginMarker:        `div[role="textbox"]`,
		Composer:           `div[role="textbox"][contenteditable="true"]`,
		AttachButton:       `div[title="Attach"], button[aria-label="Attach"]`,
		DocumentOption:     `span, li, [role="button"], [aria-label="Document"]`,
		DocumentLabel:      "Document",
		SendButton:         `div[aria-label="Send"], button[aria-label="Send"]`,
		InvalidNumberScope: `div, span`,
		InvalidNumberText:  "Phone number shared via url is invalid",
	}
}

// withDefaults fills empty selectors from DefaultSelectors.
func (s Selectors) withDefaults() Selectors {
	def := DefaultSelectors()
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&s.LoginMarker, def.LoginMarker)
	fill(&s.Composer, def.Composer)
	fill(&s.AttachButton, def.AttachButton)
	fill(&s.DocumentOption, def.DocumentOption)
	fill(&s.DocumentLabel, def.DocumentLabel)
	fill(&s.SendButton, def.SendButton)
	fill(&s.InvalidNumberScope, def.InvalidNumberScope)
	fill(&s.InvalidNumberText, def.InvalidNumberText)
	return s
}

// Config holds browser configuration.
type Config struct {
	// Bin is the browser executable; empty lets the launcher find or fetch one.
	Bin string
	// ProfileDir is the persistent user data directory. Reusing it keeps the
	// client authenticated across runs.
	ProfileDir string
	// DebuggerURL connects to an already running browser instead of launching.
	DebuggerURL string
	Headless    bool
	// KeepOpen leaves the browser running after Shutdown.
	KeepOpen bool
	// Flags are extra command-line switches, "--name=value" or "--name".
	Flags []string

	BaseURL           string
	LoginTimeout      time.Duration
	NavigationTimeout time.Duration
	// PollInterval is how often element lookups retry.
	PollInterval time.Duration

	Selectors Selectors
}

// DefaultConfig returns sensible defaults: a visible window on a profile
// directory next to the working directory.
func DefaultConfig() Config {
	return Config{
		ProfileDir:        "whatsapp_session",
		Headless:          false,
		BaseURL:           "https://web.whatsapp.com",
		LoginTimeout:      60 * time.Second,
		NavigationTimeout: 30 * time.Second,
		PollInterval:      250 * time.Millisecond,
		Selectors:         DefaultSelectors(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.LoginTimeout <= 0 {
		c.LoginTimeout = def.LoginTimeout
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = def.NavigationTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	c.Selectors = c.Selectors.withDefaults()
	return c
}
