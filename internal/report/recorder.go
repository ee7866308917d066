package report

import (
	"context"
	"sync"

	"kankotri/internal/delivery"
)

// Recorder keeps every attempt in memory. It is both a Sink and a Reporter.
type Recorder struct {
	mu       sync.Mutex
	attempts []Attempt
}

func (r *Recorder) Name() string { return "recorder" }

func (r *Recorder) Send(_ context.Context, a Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, a)
	return nil
}

func (r *Recorder) Report(ctx context.Context, a Attempt) { _ = r.Send(ctx, a) }

// Attempts returns a copy of what was recorded, in order.
func (r *Recorder) Attempts() []Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Attempt, len(r.attempts))
	copy(out, r.attempts)
	return out
}

// Count returns how many recorded attempts carry status.
func (r *Recorder) Count(status delivery.Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.attempts {
		if a.Status == status {
			n++
		}
	}
	return n
}
