package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lepinkainen/mixdl/internal/fileutil"
	"github.com/lepinkainen/mixdl/internal/tracklist"
)

// DefaultDelay is the minimum pause between two consecutive tracks.
const DefaultDelay = 2 * time.Second

// Matcher resolves a search text to a locator.
type Matcher interface {
	Match(ctx context.Context, searchText string) (string, bool)
}

// Result describes a finished fetch.
type Result struct {
	Path           string
	AlreadyPresent bool
}

// Fetcher downloads one locator into destination under name.
type Fetcher interface {
	Fetch(ctx context.Context, locator, name, destination string) (Result, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, locator, name, destination string) (Result, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, locator, name, destination string) (Result, error) {
	return f(ctx, locator, name, destination)
}

// OutcomeFunc is called after every recorded outcome. index is zero-based.
type OutcomeFunc func(index, total int, outcome Outcome)

// Orchestrator runs the sequential search and fetch loop.
type Orchestrator struct {
	matcher   Matcher
	fetcher   Fetcher
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	provision func(dir string) error
	onOutcome OutcomeFunc
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDelay sets the pause between consecutive tracks.
func WithDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.delay = d
		}
	}
}

// WithSleep replaces the pause implementation. It must return ctx.Err()
// when the context ends first.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) {
		o.sleep = sleep
	}
}

// WithProvisioner replaces the destination directory provisioner.
func WithProvisioner(provision func(dir string) error) Option {
	return func(o *Orchestrator) {
		o.provision = provision
	}
}

// WithOutcomeHook registers a callback run after each outcome.
func WithOutcomeHook(fn OutcomeFunc) Option {
	return func(o *Orchestrator) {
		o.onOutcome = fn
	}
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates an orchestrator around injected collaborators.
func NewOrchestrator(matcher Matcher, fetcher Fetcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		matcher:   matcher,
		fetcher:   fetcher,
		delay:     DefaultDelay,
		sleep:     sleepContext,
		provision: fileutil.EnsureDir,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run processes queries in order and always returns a report.
// Per-item failures are recorded, never returned. Cancelling ctx stops the
// loop before the next item and marks the report interrupted.
func (o *Orchestrator) Run(ctx context.Context, queries []tracklist.ResolvedQuery, destination string) *RunReport {
	report := &RunReport{
		RunID:       uuid.NewString(),
		Destination: destination,
		StartedAt:   o.now(),
		Outcomes:    make([]Outcome, 0, len(queries)),
	}
	defer func() { report.FinishedAt = o.now() }()

	if len(queries) == 0 {
		return report
	}

	var provisionErr error
	if o.provision != nil {
		provisionErr = o.provision(destination)
		if provisionErr != nil {
			slog.Error("Destination unavailable", "destination", destination, "error", provisionErr)
		}
	}

	for i, q := range queries {
		if i > 0 {
			if err := o.sleep(ctx, o.delay); err != nil {
				report.Interrupted = true
				break
			}
		}
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}

		outcome := o.process(ctx, q, destination, provisionErr)
		report.Outcomes = append(report.Outcomes, outcome)
		if o.onOutcome != nil {
			o.onOutcome(i, len(queries), outcome)
		}
	}

	if report.Interrupted {
		report.Skipped = append(report.Skipped, queries[len(report.Outcomes):]...)
		slog.Warn("Run interrupted", "completed", len(report.Outcomes), "total", len(queries))
	}
	return report
}

func (o *Orchestrator) process(ctx context.Context, q tracklist.ResolvedQuery, destination string, provisionErr error) Outcome {
	outcome := Outcome{Query: q}

	slog.Info("Searching", "track", q.DisplayName, "query", q.SearchText)
	locator, ok := o.matcher.Match(ctx, q.SearchText)
	if !ok {
		outcome.Status = StatusNoMatch
		slog.Warn("No match found, skipping", "track", q.DisplayName, "query", q.SearchText)
		return outcome
	}
	outcome.Locator = locator

	if provisionErr != nil {
		outcome.Status = StatusFetchFailed
		outcome.Detail = provisionErr.Error()
		return outcome
	}

	result, err := o.fetcher.Fetch(ctx, locator, q.DisplayName, destination)
	if err != nil {
		outcome.Status = StatusFetchFailed
		outcome.Detail = err.Error()
		slog.Warn("Download failed", "track", q.DisplayName, "locator", locator, "error", err)
		return outcome
	}

	outcome.Status = StatusDownloaded
	outcome.OutputPath = result.Path
	if result.AlreadyPresent {
		outcome.Detail = DetailAlreadyPresent
		slog.Info("Already downloaded", "track", q.DisplayName, "path", result.Path)
	} else {
		slog.Info("Downloaded", "track", q.DisplayName, "locator", locator, "path", result.Path)
	}
	return outcome
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
