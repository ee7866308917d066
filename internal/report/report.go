// Package report delivers per-recipient attempt results to the console and
// to any configured status sinks.
package report

import (
	"context"
	"time"

	"kankotri/internal/delivery"
)

// Attempt is one reported delivery attempt.
type Attempt struct {
	RunID     string          `json:"run_id,omitempty"`
	Row       int             `json:"row,omitempty"`
	Name      string          `json:"name"`
	Address   string          `json:"number"`
	Status    delivery.Status `json:"status"`
	State     delivery.State  `json:"state,omitempty"`
	Kind      delivery.Kind   `json:"kind,omitempty"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
}

// FromOutcome builds the attempt for a finished delivery.
func FromOutcome(name, address string, out delivery.Outcome) Attempt {
	return Attempt{
		Name:      name,
		Address:   address,
		Status:    out.Status(),
		State:     out.State,
		Kind:      out.Kind,
		Message:   out.Message,
		Timestamp: time.Now(),
	}
}

// Reporter accepts attempts. Report never fails from the caller's point of
// view: delivery problems are handled and logged inside the reporter.
type Reporter interface {
	Report(ctx context.Context, a Attempt)
}

// Sink is a destination that can fail. Sinks are wrapped by Fanout.
type Sink interface {
	Name() string
	Send(ctx context.Context, a Attempt) error
}
