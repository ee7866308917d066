// Package browser owns the single authenticated browser session used for a
// dispatch run and the rod-backed driver for the chat client's UI.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"kankotri/internal/delivery"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session describes the live chat client page.
type Session struct {
	ID        string    `json:"id"`
	TargetID  string    `json:"target_id,omitempty"`
	URL       string    `json:"url,omitempty"`
	Ready     bool      `json:"ready"`
	CreatedAt time.Time `json:"created_at"`

	page *rod.Page
	chat *Chat
}

// IsReady reports whether the authenticated marker was seen when the
// session was opened. A false value is a warning, not a failure: some clients
// render slowly and still finish logging in.
func (s *Session) IsReady() bool { return s.Ready }

// Chat returns the UI driver bound to the session page.
func (s *Session) Chat() delivery.Chat { return s.chat }

// Page returns the underlying rod page.
func (s *Session) Page() *rod.Page { return s.page }

// SessionManager owns the browser process and its one session.
type SessionManager struct {
	cfg     Config
	log     *zap.Logger
	mu      sync.Mutex
	launch  *launcher.Launcher
	browser *rod.Browser
	session *Session
}

// NewSessionManager creates a new session manager.
func NewSessionManager(cfg Config, log *zap.Logger) *SessionManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionManager{cfg: cfg.withDefaults(), log: log}
}

// Start connects to an existing browser or launches one on the persistent
// profile. Failing here is fatal for the run.
func (m *SessionManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked(ctx)
}

func (m *SessionManager) startLocked(ctx context.Context) error {
	// If we already have a browser, verify it's still alive
	if m.browser != nil {
		if _, err := m.browser.Version(); err == nil {
			return nil
		}
		m.log.Warn("Stale browser connection detected, reconnecting")
		_ = m.browser.Close()
		m.browser = nil
		m.session = nil
	}

	controlURL := m.cfg.DebuggerURL
	if controlURL == "" {
		l, err := m.newLauncher()
		if err != nil {
			return err
		}
		url, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch browser: %w", err)
		}
		m.launch = l
		controlURL = url
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect to browser: %w", err)
	}

	m.browser = b
	m.log.Info("Browser connected",
		zap.String("profile", m.cfg.ProfileDir),
		zap.Bool("headless", m.cfg.Headless))
	return nil
}

func (m *SessionManager) newLauncher() (*launcher.Launcher, error) {
	profile, err := filepath.Abs(m.cfg.ProfileDir)
	if err != nil {
		return nil, fmt.Errorf("resolve profile dir: %w", err)
	}
	if err := os.MkdirAll(profile, 0o700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	// A kept-open browser must survive this process, so leakless is off.
	l := launcher.New().
		UserDataDir(profile).
		Headless(m.cfg.Headless).
		Leakless(!m.cfg.KeepOpen).
		Delete("no-startup-window").
		Set("start-maximized")
	if m.cfg.Bin != "" {
		l = l.Bin(m.cfg.Bin)
	}
	for _, raw := range m.cfg.Flags {
		name, val, hasVal := strings.Cut(strings.TrimLeft(raw, "-"), "=")
		if name == "" {
			continue
		}
		if hasVal {
			l = l.Set(flags.Flag(name), val)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}
	return l, nil
}

// Open returns the run's session, creating it on first use: it opens the web
// client on the first tab and waits up to LoginTimeout for the authenticated
// marker. Only browser or navigation failures are returned as errors.
func (m *SessionManager) Open(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return m.session, nil
	}
	if err := m.startLocked(ctx); err != nil {
		return nil, err
	}

	page, err := m.firstPage()
	if err != nil {
		return nil, err
	}

	m.log.Info("Opening web client", zap.String("url", m.cfg.BaseURL))
	if err := page.Context(ctx).Timeout(m.cfg.NavigationTimeout).Navigate(m.cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("open %s: %w", m.cfg.BaseURL, err)
	}

	ready, err := m.awaitLogin(ctx, page)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		TargetID:  string(page.TargetID),
		URL:       m.cfg.BaseURL,
		Ready:     ready,
		CreatedAt: time.Now(),
		page:      page,
	}
	s.chat = newChat(page, m.cfg, m.log.Named("chat"))
	m.session = s
	return s, nil
}

func (m *SessionManager) awaitLogin(ctx context.Context, page *rod.Page) (bool, error) {
	waitCtx, cancel := context.WithTimeout(ctx, m.cfg.LoginTimeout)
	defer cancel()

	_, err := page.Context(waitCtx).Element(m.cfg.Selectors.LoginMarker)
	if err == nil {
		m.log.Info("Login detected")
		return true, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	m.log.Warn("Login not detected, continuing; log in manually if needed",
		zap.Duration("waited", m.cfg.LoginTimeout), zap.Error(err))
	return false, nil
}

// firstPage reuses the tab the profile opened with, or creates one.
func (m *SessionManager) firstPage() (*rod.Page, error) {
	pages, err := m.browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	if len(pages) > 0 {
		return pages[0], nil
	}
	page, err := m.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return page, nil
}

// Shutdown closes the browser, or only drops the connection when KeepOpen is
// set so the operator can inspect the last chat.
func (m *SessionManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	if m.browser == nil {
		return nil
	}
	b := m.browser
	m.browser = nil

	if m.cfg.KeepOpen {
		m.log.Info("Leaving browser open")
		return nil
	}

	err := b.Context(ctx).Close()
	if m.launch != nil {
		// Kill, not Cleanup: Cleanup would delete the persistent profile.
		m.launch.Kill()
		m.launch = nil
	}
	return err
}
