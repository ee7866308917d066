package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func onScreen() elementProbe {
	return elementProbe{
		Text:           "Document",
		Display:        "block",
		Visibility:     "visible",
		Opacity:        "1",
		X:              100,
		Y:              200,
		Width:          120,
		Height:         32,
		ViewportWidth:  1280,
		ViewportHeight: 800,
	}
}

func TestHiddenReasons(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*elementProbe)
		want   []string
	}{
		{name: "visible", mutate: func(p *elementProbe) {}, want: nil},
		{name: "display none", mutate: func(p *elementProbe) { p.Display = "none" }, want: []string{"Hidden via display:none"}},
		{name: "visibility hidden", mutate: func(p *elementProbe) { p.Visibility = "hidden" }, want: []string{"Hidden via visibility:hidden"}},
		{name: "transparent", mutate: func(p *elementProbe) { p.Opacity = "0" }, want: []string{"Hidden via opacity:0"}},
		{name: "half transparent is visible", mutate: func(p *elementProbe) { p.Opacity = "0.5" }, want: nil},
		{name: "zero size", mutate: func(p *elementProbe) { p.Width = 0 }, want: []string{"Zero or near-zero size"}},
		{name: "aria hidden overlay", mutate: func(p *elementProbe) { p.AriaHidden = true }, want: []string{"Inside aria-hidden subtree"}},
		{name: "left of viewport", mutate: func(p *elementProbe) { p.X = -500 }, want: []string{"Positioned off-screen"}},
		{name: "below viewport", mutate: func(p *elementProbe) { p.Y = 900 }, want: []string{"Positioned off-screen"}},
		{
			name:   "collapsed overlay",
			mutate: func(p *elementProbe) { p.Display = "none"; p.Width = 0; p.Height = 0 },
			want:   []string{"Hidden via display:none", "Zero or near-zero size"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := onScreen()
			tt.mutate(&p)
			assert.Equal(t, tt.want, hiddenReasons(p))
		})
	}
}

func TestTextMatch(t *testing.T) {
	exact := textMatch{Caption: "Document", Exact: true}
	loose := textMatch{Caption: "Phone number shared via url is invalid"}

	assert.True(t, exact.matches(elementProbe{Text: "Document"}))
	assert.False(t, exact.matches(elementProbe{Text: "Documents and files"}))
	assert.True(t, exact.matches(elementProbe{Label: "Document"}), "aria-label shape")
	assert.True(t, exact.matches(elementProbe{Title: "Document"}), "title shape")

	assert.True(t, loose.matches(elementProbe{Text: "Phone number shared via url is invalid. OK"}))
	assert.False(t, loose.matches(elementProbe{Text: "Starting chat"}))

	assert.False(t, textMatch{}.matches(elementProbe{}), "empty caption never matches")
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Selectors: Selectors{Composer: "#composer"}}.withDefaults()

	assert.Equal(t, "https://web.whatsapp.com", cfg.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.LoginTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "#composer", cfg.Selectors.Composer, "explicit selector kept")
	assert.Equal(t, DefaultSelectors().SendButton, cfg.Selectors.SendButton)
	assert.False(t, DefaultConfig().Headless, "head-full by default")
}

func TestSessionManager_ShutdownBeforeOpen(t *testing.T) {
	sm := NewSessionManager(DefaultConfig(), nil)
	assert.NoError(t, sm.Shutdown(t.Context()))
	assert.NoError(t, sm.Shutdown(t.Context()), "Shutdown is idempotent")
}
