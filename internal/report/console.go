package report

import (
	"context"
	"fmt"
	"io"
	"sync"

	"kankotri/internal/ux"
)

// Console prints one line per attempt:
//
//	[SUCCESS] Asha Patel (+919876543210): Message sent
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	styles ux.Styles
}

// NewConsole writes to w with styles detected from w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, styles: ux.NewStyles(w)}
}

func (c *Console) Report(_ context.Context, a Attempt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s (%s): %s\n", c.styles.Tag(a.Status.String()), a.Name, a.Address, a.Message)
}

// Notice prints a free-form line such as a sink failure.
func (c *Console) Notice(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format+"\n", args...)
}
