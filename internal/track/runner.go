// Package track runs one observation pass over a set of cases: fetch each
// timeline in order, pace requests, and reduce timelines to key status rows.
package track

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"casetrack/internal/history"
	"casetrack/internal/logging"
	"casetrack/internal/source"
	"casetrack/internal/timeline"
)

// DefaultDelay is the minimum spacing between two page fetches.
const DefaultDelay = 1500 * time.Millisecond

// TimestampLayout is the format of the scraped_at column.
const TimestampLayout = "2006-01-02 15:04:05"

// Observation is the outcome of fetching one case.
type Observation struct {
	CaseID  string
	Entries []timeline.Entry
	Records []history.Record
	Err     error
}

// Run is one pass over the case list.
type Run struct {
	ID           string
	CheckedAt    time.Time
	Observations []Observation
}

// Timestamp returns CheckedAt in the history column format.
func (r *Run) Timestamp() string {
	return r.CheckedAt.Format(TimestampLayout)
}

// Observed returns the reduced records of every case that was fetched
// successfully, keyed by case id.
func (r *Run) Observed() map[string][]history.Record {
	out := make(map[string][]history.Record)
	for _, o := range r.Observations {
		if o.Err == nil && len(o.Records) > 0 {
			out[o.CaseID] = o.Records
		}
	}
	return out
}

// Failed returns the observations whose fetch failed.
func (r *Run) Failed() []Observation {
	var out []Observation
	for _, o := range r.Observations {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Runner fetches cases sequentially through a Fetcher.
type Runner struct {
	fetcher  source.Fetcher
	limiter  *rate.Limiter
	logger   *slog.Logger
	now      func() time.Time
	newRunID func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithDelay sets the minimum spacing between fetches. Zero disables pacing.
func WithDelay(d time.Duration) Option {
	return func(r *Runner) {
		if d <= 0 {
			r.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		r.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithClock overrides the time source used for CheckedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRunID overrides run identifier generation.
func WithRunID(gen func() string) Option {
	return func(r *Runner) { r.newRunID = gen }
}

// NewRunner returns a Runner reading from f.
func NewRunner(f source.Fetcher, opts ...Option) *Runner {
	r := &Runner{
		fetcher:  f,
		limiter:  rate.NewLimiter(rate.Every(DefaultDelay), 1),
		logger:   logging.Discard(),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run fetches every id in order. A failed fetch is logged and recorded on
// its Observation; it does not stop the run. If ctx is canceled the run
// stops and the observations gathered so far are returned with ctx's error.
func (r *Runner) Run(ctx context.Context, ids []string) (*Run, error) {
	run := &Run{ID: r.newRunID(), CheckedAt: r.now()}
	stamp := run.Timestamp()
	r.logger.Info("tracking cases", "count", len(ids), "run_id", run.ID)

	for i, id := range ids {
		if err := r.limiter.Wait(ctx); err != nil {
			return run, err
		}
		r.logger.Info("checking case", "case", id, "n", i+1, "of", len(ids))

		entries, err := r.fetcher.Fetch(ctx, id)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return run, ctxErr
		}
		obs := Observation{CaseID: id, Entries: entries, Err: err}
		if err != nil {
			r.logger.Warn("could not get timeline", "case", id, "error", err)
		} else {
			obs.Records = timeline.Reduce(entries, id, stamp, run.ID)
			r.logger.Debug("timeline read", "case", id, "entries", len(entries), "key_rows", len(obs.Records))
		}
		run.Observations = append(run.Observations, obs)
	}
	return run, nil
}
