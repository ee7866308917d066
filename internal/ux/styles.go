package ux

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles renders the operator-facing console output. Colors degrade to plain
// text when the writer is not a terminal.
type Styles struct {
	Success lipgloss.Style
	Failed  lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Title   lipgloss.Style
}

// NewStyles builds styles whose color profile is detected from w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#6BCB77")),
		Failed:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD479")),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("#888888")),
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#6BCB77")),
	}
}

// Tag renders "[STATUS]" in the color for status.
func (s Styles) Tag(status string) string {
	tag := "[" + status + "]"
	switch status {
	case "SUCCESS":
		return s.Success.Render(tag)
	case "FAILED":
		return s.Failed.Render(tag)
	case "ERROR":
		return s.Error.Render(tag)
	default:
		return s.Muted.Render(tag)
	}
}
