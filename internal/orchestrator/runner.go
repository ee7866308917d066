// Package orchestrator runs a dispatch pass: one session, every recipient in
// input order, each attempt reported before the next begins.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kankotri/internal/delivery"
	"kankotri/internal/recipient"
	"kankotri/internal/report"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is the live chat client a run delivers through.
type Session interface {
	IsReady() bool
	Chat() delivery.Chat
}

// SessionOpener establishes the run's session. An error is fatal for the run.
type SessionOpener interface {
	Open(ctx context.Context) (Session, error)
}

// OpenFunc adapts a function to SessionOpener.
type OpenFunc func(ctx context.Context) (Session, error)

func (f OpenFunc) Open(ctx context.Context) (Session, error) { return f(ctx) }

// Options configure a Runner.
type Options struct {
	CountryPrefix  string
	ArtifactFolder string
	ArtifactExt    string
	Machine        delivery.Options
}

// Summary totals one run.
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Errored   int
	Started   time.Time
	Finished  time.Time
}

// Attempted is the number of recipients that reached a terminal status.
func (s Summary) Attempted() int { return s.Succeeded + s.Failed + s.Errored }

func (s *Summary) count(st delivery.Status) {
	switch st {
	case delivery.StatusSuccess:
		s.Succeeded++
	case delivery.StatusFailed:
		s.Failed++
	default:
		s.Errored++
	}
}

// Plan is a recipient after the pre-session checks.
type Plan struct {
	Task         recipient.Task
	Address      recipient.Address
	ArtifactPath string
	// Rejection is set when the recipient cannot be attempted.
	Rejection *delivery.Outcome
}

// ReportAddress is the address printed for the recipient: the normalized one
// when available, the raw input otherwise.
func (p Plan) ReportAddress() string {
	if p.Address != "" {
		return p.Address.String()
	}
	return p.Task.RawNumber
}

// Runner drives tasks through one session.
type Runner struct {
	opener   SessionOpener
	reporter report.Reporter
	opts     Options
	norm     recipient.Normalizer
	loc      recipient.Locator
	log      *zap.Logger
}

// New creates a Runner.
func New(opener SessionOpener, reporter report.Reporter, opts Options, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Machine.Sleeper == nil {
		opts.Machine.Sleeper = delivery.ContextSleeper{}
	}
	return &Runner{
		opener:   opener,
		reporter: reporter,
		opts:     opts,
		norm:     recipient.Normalizer{Prefix: opts.CountryPrefix},
		loc:      recipient.Locator{Folder: opts.ArtifactFolder, Ext: opts.ArtifactExt},
		log:      log,
	}
}

// Prepare normalizes the number and locates the artifact for t without
// touching the session.
func (r *Runner) Prepare(t recipient.Task) Plan {
	p := Plan{Task: t}

	addr, err := r.norm.Normalize(t.RawNumber)
	if err != nil {
		out := delivery.InvalidNumber()
		p.Rejection = &out
		return p
	}
	p.Address = addr

	path, err := r.loc.Locate(t.Name)
	if err != nil {
		var nf *recipient.NotFoundError
		if !errors.As(err, &nf) {
			out := delivery.Failed(delivery.StateRejected, err)
			p.Rejection = &out
			return p
		}
		out := delivery.ArtifactMissing(nf.Path)
		p.Rejection = &out
		return p
	}
	p.ArtifactPath = path
	return p
}

// Run opens the session and attempts every task in order. It returns an error
// only when the session cannot be opened or ctx ends between recipients; in
// both cases the summary covers what was attempted.
func (r *Runner) Run(ctx context.Context, tasks []recipient.Task) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), Total: len(tasks), Started: time.Now()}
	log := r.log.With(zap.String("run_id", sum.RunID))

	log.Info("Opening session", zap.Int("recipients", len(tasks)))
	session, err := r.opener.Open(ctx)
	if err != nil {
		sum.Finished = time.Now()
		return sum, fmt.Errorf("open session: %w", err)
	}
	if !session.IsReady() {
		log.Warn("Session may not be logged in; continuing")
	}

	machine := delivery.NewMachine(session.Chat(), r.opts.Machine, log.Named("delivery"))
	pacing := r.opts.Machine.Delays.Pacing

	for i, t := range tasks {
		if err := ctx.Err(); err != nil {
			log.Warn("Run interrupted", zap.Int("attempted", sum.Attempted()), zap.Int("remaining", len(tasks)-i))
			sum.Finished = time.Now()
			return sum, err
		}

		p := r.Prepare(t)
		if p.Rejection != nil {
			r.emit(ctx, &sum, p, *p.Rejection)
			continue
		}

		out := machine.Deliver(ctx, delivery.Request{
			Name:         t.Name,
			Address:      p.Address,
			ArtifactPath: p.ArtifactPath,
		})
		r.emit(ctx, &sum, p, out)

		if i < len(tasks)-1 {
			if err := r.opts.Machine.Sleeper.Sleep(ctx, pacing); err != nil {
				log.Warn("Run interrupted during pacing", zap.Int("attempted", sum.Attempted()))
				sum.Finished = time.Now()
				return sum, err
			}
		}
	}

	sum.Finished = time.Now()
	log.Info("Run finished",
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
		zap.Int("errored", sum.Errored),
		zap.Duration("elapsed", sum.Finished.Sub(sum.Started)))
	return sum, nil
}

func (r *Runner) emit(ctx context.Context, sum *Summary, p Plan, out delivery.Outcome) {
	a := report.FromOutcome(p.Task.Name, p.ReportAddress(), out)
	a.RunID = sum.RunID
	a.Row = p.Task.Row
	sum.count(a.Status)
	// Reporting uses its own context so an interrupt still records the
	// attempt that was in flight.
	r.reporter.Report(context.WithoutCancel(ctx), a)
}
