package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
)

// The chat client keeps inactive overlays in the DOM, so the same caption can
// exist several times with only one copy on screen. Candidates are probed
// once and every copy with a hiding reason is skipped.

// elementProbe is the subset of an element's state needed for matching.
type elementProbe struct {
	Text           string  `json:"text"`
	Label          string  `json:"label"`
	Title          string  `json:"title"`
	Display        string  `json:"display"`
	Visibility     string  `json:"visibility"`
	Opacity        string  `json:"opacity"`
	AriaHidden     bool    `json:"ariaHidden"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	ViewportWidth  float64 `json:"viewportWidth"`
	ViewportHeight float64 `json:"viewportHeight"`
}

const probeJS = `() => {
	const styles = window.getComputedStyle(this);
	const rect = this.getBoundingClientRect();
	return {
		text: (this.innerText || this.textContent || '').trim(),
		label: this.getAttribute('aria-label') || '',
		title: this.getAttribute('title') || '',
		display: styles.display,
		visibility: styles.visibility,
		opacity: styles.opacity,
		ariaHidden: this.closest('[aria-hidden="true"]') !== null,
		x: rect.x,
		y: rect.y,
		width: rect.width,
		height: rect.height,
		viewportWidth: window.innerWidth,
		viewportHeight: window.innerHeight
	};
}`

// hiddenReasons lists why an element cannot be what the operator sees.
// An empty result means the element is on screen.
func hiddenReasons(p elementProbe) []string {
	var reasons []string
	if p.Display == "none" {
		reasons = append(reasons, "Hidden via display:none")
	}
	if p.Visibility == "hidden" || p.Visibility == "collapse" {
		reasons = append(reasons, "Hidden via visibility:"+p.Visibility)
	}
	if op, err := strconv.ParseFloat(strings.TrimSpace(p.Opacity), 64); err == nil && op == 0 {
		reasons = append(reasons, "Hidden via opacity:0")
	}
	if p.Width < 1 || p.Height < 1 {
		reasons = append(reasons, "Zero or near-zero size")
	}
	if p.AriaHidden {
		reasons = append(reasons, "Inside aria-hidden subtree")
	}
	if p.ViewportWidth > 0 && p.ViewportHeight > 0 &&
		(p.X+p.Width <= 0 || p.Y+p.Height <= 0 || p.X >= p.ViewportWidth || p.Y >= p.ViewportHeight) {
		reasons = append(reasons, "Positioned off-screen")
	}
	return reasons
}

// textMatch describes how a candidate is compared against a caption.
type textMatch struct {
	Caption string
	// Exact requires the visible text to equal Caption; otherwise containing
	// it is enough. Attribute matches are always exact.
	Exact bool
}

func (m textMatch) matches(p elementProbe) bool {
	if m.Caption == "" {
		return false
	}
	if p.Label == m.Caption || p.Title == m.Caption {
		return true
	}
	if m.Exact {
		return p.Text == m.Caption
	}
	return strings.Contains(p.Text, m.Caption)
}

func probe(el *rod.Element) (elementProbe, error) {
	var p elementProbe
	res, err := el.Eval(probeJS)
	if err != nil {
		return p, err
	}
	if err := res.Value.Unmarshal(&p); err != nil {
		return p, fmt.Errorf("decode element probe: %w", err)
	}
	return p, nil
}

// maxCandidates bounds how many in-page matches are probed from Go.
const maxCandidates = 32

// candidatesJS filters selector matches by caption inside the page so only a
// handful of elements cross the protocol. Wrappers of another match are
// dropped, leaving the innermost nodes in document order.
const candidatesJS = `(selector, caption, exact, limit) => {
	const found = [];
	for (const el of document.querySelectorAll(selector)) {
		const text = (el.textContent || '').trim();
		if (el.getAttribute('aria-label') === caption ||
			el.getAttribute('title') === caption ||
			(exact ? text === caption : text.includes(caption))) {
			found.push(el);
		}
	}
	const inner = found.filter(el => !found.some(o => o !== el && el.contains(o)));
	return inner.slice(-limit);
}`

// visibleMatch returns the last on-screen element under selector that
// matches m, or nil. Text filtering runs in the page in one call; only the
// returned candidates are probed for visibility.
func visibleMatch(page *rod.Page, selector string, m textMatch) (*rod.Element, error) {
	if m.Caption == "" {
		return nil, nil
	}
	els, err := page.ElementsByJS(rod.Eval(candidatesJS, selector, m.Caption, m.Exact, maxCandidates))
	if err != nil {
		return nil, err
	}
	for i := len(els) - 1; i >= 0; i-- {
		p, err := probe(els[i])
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, err
			}
			// detached between query and probe
			continue
		}
		if m.matches(p) && len(hiddenReasons(p)) == 0 {
			return els[i], nil
		}
	}
	return nil, nil
}

// waitVisibleMatch polls visibleMatch until it finds an element or ctx ends.
func waitVisibleMatch(ctx context.Context, page *rod.Page, selector string, m textMatch, every time.Duration) (*rod.Element, error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		el, err := visibleMatch(page.Context(ctx), selector, m)
		if err != nil {
			return nil, err
		}
		if el != nil {
			return el, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("no visible %q under %q: %w", m.Caption, selector, ctx.Err())
		case <-ticker.C:
		}
	}
}
