package report

import (
	"context"
	"fmt"

	"kankotri/internal/delivery"

	"go.uber.org/zap"
)

// Fanout prints every attempt on the console, then hands it to each sink in
// order. A failing or panicking sink is logged and skipped; it never changes
// the attempt and never stops the remaining sinks.
type Fanout struct {
	console *Console
	sinks   []Sink
	log     *zap.Logger
}

// NewFanout builds a fan-out. Nil sinks are dropped.
func NewFanout(console *Console, log *zap.Logger, sinks ...Sink) *Fanout {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Fanout{console: console, log: log}
	for _, s := range sinks {
		if s == nil || isNilSink(s) {
			continue
		}
		f.sinks = append(f.sinks, s)
	}
	return f
}

func isNilSink(s Sink) bool {
	switch v := s.(type) {
	case *HTTPSink:
		return v == nil
	case *Recorder:
		return v == nil
	}
	return false
}

func (f *Fanout) Report(ctx context.Context, a Attempt) {
	if f.console != nil {
		f.console.Report(ctx, a)
	}
	for _, s := range f.sinks {
		if err := f.send(ctx, s, a); err != nil {
			f.log.Warn("Status sink failed",
				zap.String("sink", s.Name()),
				zap.String("kind", delivery.KindReportingFailure.String()),
				zap.String("recipient", a.Name),
				zap.Error(err))
			if f.console != nil {
				f.console.Notice("Failed to log to API: %v", err)
			}
		}
	}
}

func (f *Fanout) send(ctx context.Context, s Sink, a Attempt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panic: %v", r)
		}
	}()
	return s.Send(ctx, a)
}
