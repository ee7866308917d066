package delivery

import (
	"context"
	"time"
)

// DefaultGreeting pre-fills the composer when a chat is opened.
const DefaultGreeting = "Here is your invitation"

// DefaultBaseURL is the web client the deep links point at.
const DefaultBaseURL = "https://web.whatsapp.com"

// Timeouts bound every wait for the remote UI.
type Timeouts struct {
	ChatLoad   time.Duration
	AttachMenu time.Duration
	FileDialog time.Duration
	SendReady  time.Duration
	// Send bounds re-resolving and clicking the send control.
	Send time.Duration
	// Probe bounds the invalid-recipient check after a chat load failure.
	Probe time.Duration
}

// DefaultTimeouts returns production timeouts.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		ChatLoad:   30 * time.Second,
		AttachMenu: 10 * time.Second,
		FileDialog: 10 * time.Second,
		SendReady:  30 * time.Second,
		Send:       5 * time.Second,
		Probe:      2 * time.Second,
	}
}

// Delays are fixed waits that stand in for completion signals the remote UI
// does not expose. Tests shrink them to zero.
type Delays struct {
	// Settle runs after the send control becomes visible; the preview can
	// still be processing at that point.
	Settle time.Duration
	// Confirm runs after the send click before the attempt counts as sent.
	Confirm time.Duration
	// Pacing separates consecutive recipients to stay under anti-automation
	// throttling.
	Pacing time.Duration
}

// DefaultDelays returns production delays.
func DefaultDelays() Delays {
	return Delays{
		Settle:  3 * time.Second,
		Confirm: 5 * time.Second,
		Pacing:  3 * time.Second,
	}
}

// Options configure a Machine.
type Options struct {
	BaseURL  string
	Greeting string
	Timeouts Timeouts
	Delays   Delays
	Sleeper  Sleeper
}

// DefaultOptions returns production options.
func DefaultOptions() Options {
	return Options{
		BaseURL:  DefaultBaseURL,
		Greeting: DefaultGreeting,
		Timeouts: DefaultTimeouts(),
		Delays:   DefaultDelays(),
		Sleeper:  ContextSleeper{},
	}
}

// Sleeper waits for a fixed duration unless ctx ends first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// ContextSleeper sleeps on a timer and returns ctx.Err() on cancellation.
type ContextSleeper struct{}

func (ContextSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
