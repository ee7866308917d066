package browser

import (
	"context"
	"fmt"
	"time"

	"kankotri/internal/delivery"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

var _ delivery.Chat = (*Chat)(nil)

// Chat drives the chat client through rod. It is bound to one page and is not
// safe for concurrent use; the orchestrator calls it from a single goroutine.
type Chat struct {
	page  *rod.Page
	sel   Selectors
	every time.Duration
	log   *zap.Logger
}

func newChat(page *rod.Page, cfg Config, log *zap.Logger) *Chat {
	return &Chat{
		page:  page,
		sel:   cfg.Selectors,
		every: cfg.PollInterval,
		log:   log,
	}
}

// Navigate loads url. It returns once the server responds, not when the chat
// is rendered.
func (c *Chat) Navigate(ctx context.Context, url string) error {
	return c.page.Context(ctx).Navigate(url)
}

// WaitComposer waits for the message input to exist and be visible.
func (c *Chat) WaitComposer(ctx context.Context) error {
	_, err := c.waitVisible(ctx, c.sel.Composer)
	return err
}

// InvalidRecipient checks once, without waiting, for the notice the client
// shows for numbers it does not know.
func (c *Chat) InvalidRecipient(ctx context.Context) (bool, error) {
	el, err := visibleMatch(c.page.Context(ctx), c.sel.InvalidNumberScope,
		textMatch{Caption: c.sel.InvalidNumberText})
	if err != nil {
		return false, err
	}
	return el != nil, nil
}

// OpenAttachMenu clicks the attach control.
func (c *Chat) OpenAttachMenu(ctx context.Context) error {
	el, err := c.waitVisible(ctx, c.sel.AttachButton)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// AttachDocument clicks the visible document entry of the attach menu and
// answers the file chooser it opens with path. Interception replaces the
// native picker, so no dialog is shown.
func (c *Chat) AttachDocument(ctx context.Context, path string) error {
	page := c.page.Context(ctx)
	option, err := waitVisibleMatch(ctx, c.page, c.sel.DocumentOption,
		textMatch{Caption: c.sel.DocumentLabel, Exact: true}, c.every)
	if err != nil {
		return fmt.Errorf("find document option: %w", err)
	}

	setFiles, err := page.HandleFileDialog()
	if err != nil {
		return fmt.Errorf("intercept file chooser: %w", err)
	}
	if err := option.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click document option: %w", err)
	}
	if err := setFiles([]string{path}); err != nil {
		return fmt.Errorf("set file %s: %w", path, err)
	}
	c.log.Debug("File chooser answered", zap.String("path", path))
	return nil
}

// WaitSendReady waits for the send control, which appears once the client
// has built the attachment preview.
func (c *Chat) WaitSendReady(ctx context.Context) error {
	_, err := c.waitVisible(ctx, c.sel.SendButton)
	return err
}

// Send resolves the send control again and clicks it. The preview footer can
// re-render during the settle delay, so a node found earlier may be detached.
func (c *Chat) Send(ctx context.Context) error {
	el, err := c.waitVisible(ctx, c.sel.SendButton)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (c *Chat) waitVisible(ctx context.Context, selector string) (*rod.Element, error) {
	el, err := c.page.Context(ctx).Element(selector)
	if err != nil {
		return nil, err
	}
	if err := el.WaitVisible(); err != nil {
		return nil, err
	}
	return el, nil
}
