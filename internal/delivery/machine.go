// Package delivery drives one recipient through the chat client UI:
// open the conversation, attach the artifact, send it, and classify the
// result into a terminal State.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"kankotri/internal/recipient"

	"go.uber.org/zap"
)

// Chat is the UI surface the machine drives. Every method must return when
// ctx ends; the machine bounds each call with the matching timeout.
type Chat interface {
	// Navigate points the session at url. It does not wait for the chat.
	Navigate(ctx context.Context, url string) error
	// WaitComposer blocks until the message composer is interactive.
	WaitComposer(ctx context.Context) error
	// InvalidRecipient reports whether the UI shows its invalid-number notice.
	InvalidRecipient(ctx context.Context) (bool, error)
	// OpenAttachMenu opens the attachment menu.
	OpenAttachMenu(ctx context.Context) error
	// AttachDocument picks the document option and answers the file chooser
	// it opens with path.
	AttachDocument(ctx context.Context, path string) error
	// WaitSendReady blocks until the send control is visible.
	WaitSendReady(ctx context.Context) error
	// Send clicks the send control.
	Send(ctx context.Context) error
}

// Request is one recipient ready for delivery.
type Request struct {
	Name         string
	Address      recipient.Address
	ArtifactPath string
}

// Machine runs the delivery steps for one recipient at a time.
type Machine struct {
	chat Chat
	opts Options
	log  *zap.Logger
}

// NewMachine creates a Machine. Zero-valued option fields fall back to defaults,
// except delays, which may legitimately be zero.
func NewMachine(chat Chat, opts Options, log *zap.Logger) *Machine {
	def := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = def.BaseURL
	}
	if opts.Greeting == "" {
		opts.Greeting = def.Greeting
	}
	if opts.Timeouts.ChatLoad <= 0 {
		opts.Timeouts.ChatLoad = def.Timeouts.ChatLoad
	}
	if opts.Timeouts.AttachMenu <= 0 {
		opts.Timeouts.AttachMenu = def.Timeouts.AttachMenu
	}
	if opts.Timeouts.FileDialog <= 0 {
		opts.Timeouts.FileDialog = def.Timeouts.FileDialog
	}
	if opts.Timeouts.SendReady <= 0 {
		opts.Timeouts.SendReady = def.Timeouts.SendReady
	}
	if opts.Timeouts.Send <= 0 {
		opts.Timeouts.Send = def.Timeouts.Send
	}
	if opts.Timeouts.Probe <= 0 {
		opts.Timeouts.Probe = def.Timeouts.Probe
	}
	if opts.Sleeper == nil {
		opts.Sleeper = def.Sleeper
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{chat: chat, opts: opts, log: log}
}

// ChatURL returns the deep link that opens a conversation with addr and
// pre-fills the greeting.
func (m *Machine) ChatURL(addr recipient.Address) string {
	greeting := strings.ReplaceAll(url.QueryEscape(m.opts.Greeting), "+", "%20")
	return fmt.Sprintf("%s/send?phone=%s&text=%s",
		strings.TrimRight(m.opts.BaseURL, "/"), addr.Digits(), greeting)
}

// Deliver runs every step for req and returns its terminal outcome. It never
// returns a non-terminal state and never panics; a panic from the driver is
// turned into an ERROR outcome.
func (m *Machine) Deliver(ctx context.Context, req Request) (out Outcome) {
	log := m.log.With(zap.String("recipient", req.Name), zap.String("address", req.Address.String()))
	state := StateNavigating

	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			out = Failed(state, err)
		}
		if out.OK() {
			log.Debug("Delivery confirmed")
		} else {
			log.Debug("Delivery ended", zap.Stringer("state", out.State),
				zap.Stringer("failed_at", out.FailedAt), zap.String("message", out.Message), zap.Error(out.Err))
		}
	}()

	enter := func(next State) {
		state = next
		log.Debug("Delivery step", zap.Stringer("state", next))
	}

	enter(StateNavigating)
	if err := m.chat.Navigate(ctx, m.ChatURL(req.Address)); err != nil {
		return stepFailed(state, "navigate", 0, err)
	}

	enter(StateAwaitingChat)
	if _, err := m.bounded(ctx, m.opts.Timeouts.ChatLoad, m.chat.WaitComposer); err != nil {
		return m.chatLoadFailure(ctx, err, log)
	}

	enter(StateAttaching)
	if limit, err := m.bounded(ctx, m.opts.Timeouts.AttachMenu, m.chat.OpenAttachMenu); err != nil {
		return stepFailed(state, "open attach menu", limit, err)
	}

	enter(StateAwaitingFileDialog)
	attach := func(ctx context.Context) error { return m.chat.AttachDocument(ctx, req.ArtifactPath) }
	if limit, err := m.bounded(ctx, m.opts.Timeouts.FileDialog, attach); err != nil {
		return stepFailed(state, "attach document", limit, err)
	}
	enter(StateFileSet)

	enter(StateAwaitingSendReady)
	if limit, err := m.bounded(ctx, m.opts.Timeouts.SendReady, m.chat.WaitSendReady); err != nil {
		return stepFailed(state, "wait for send button", limit, err)
	}
	if err := m.opts.Sleeper.Sleep(ctx, m.opts.Delays.Settle); err != nil {
		return Failed(state, err)
	}

	enter(StateSending)
	if limit, err := m.bounded(ctx, m.opts.Timeouts.Send, m.chat.Send); err != nil {
		return stepFailed(state, "send", limit, err)
	}
	if err := m.opts.Sleeper.Sleep(ctx, m.opts.Delays.Confirm); err != nil {
		return Failed(state, err)
	}

	enter(StateConfirmed)
	return Confirmed()
}

// chatLoadFailure separates a recipient the service rejects from a chat that
// was merely slow. Only the first is permanent. The check relies on UI text
// and is a heuristic: a changed notice reads as a timeout.
func (m *Machine) chatLoadFailure(ctx context.Context, cause error, log *zap.Logger) Outcome {
	if ctx.Err() != nil {
		return Failed(StateAwaitingChat, ctx.Err())
	}

	probeCtx, cancel := context.WithTimeout(ctx, m.opts.Timeouts.Probe)
	defer cancel()
	invalid, err := m.chat.InvalidRecipient(probeCtx)
	if err != nil {
		log.Debug("Invalid-recipient probe failed", zap.Error(err))
	}

	if invalid {
		return Outcome{
			State:    StateChatUnavailable,
			Kind:     KindUnreachableRecipient,
			Message:  MessageNotOnWhatsApp,
			FailedAt: StateAwaitingChat,
			Err:      cause,
		}
	}
	return Outcome{
		State:    StateTimeout,
		Kind:     KindTimeout,
		Message:  MessageChatLoadTimeout,
		FailedAt: StateAwaitingChat,
		Err:      cause,
	}
}

// bounded runs fn under a deadline of d. When the deadline, not the parent
// ctx, ended the call, it also returns d.
func (m *Machine) bounded(ctx context.Context, d time.Duration, fn func(context.Context) error) (time.Duration, error) {
	stepCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	err := fn(stepCtx)
	if err != nil && errors.Is(stepCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return d, err
	}
	return 0, err
}

// stepFailed reports the driver's error text unchanged and keeps the step and
// any expired deadline on Err for logs.
func stepFailed(at State, step string, limit time.Duration, err error) Outcome {
	out := Failed(at, err)
	if limit > 0 {
		out.Err = fmt.Errorf("%s: timed out after %s: %w", step, limit, err)
	} else {
		out.Err = fmt.Errorf("%s: %w", step, err)
	}
	return out
}
