// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs the citation pipeline over a list of author names,
// retrying each name a bounded number of times and collecting every success
// into one combined figure. A failed name is reported and skipped; it never
// aborts the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/citehist/internal/httputil"
	"github.com/pdiddy/citehist/internal/observability"
	"github.com/pdiddy/citehist/internal/pipeline"
	"github.com/pdiddy/citehist/internal/visualize"
)

// DefaultMaxAttempts is the per-name attempt budget.
const DefaultMaxAttempts = 10

// Collector produces the citation series for one name.
// *pipeline.Pipeline implements it.
type Collector interface {
	Collect(ctx context.Context, name string) (*pipeline.Result, error)
}

// RetryPolicy bounds the attempts made for one name. Delay is waited
// between failed attempts; zero retries immediately.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy returns ten immediate attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

// Skip records a name that exhausted its attempts.
type Skip struct {
	Name     string
	Attempts int
	Err      error
}

// Result holds the outcome of a batch run.
type Result struct {
	// Rendered lists names added to the figure, in input order.
	Rendered []string

	// Skipped lists names that failed every attempt.
	Skipped []Skip

	// Blank counts empty input names, which are ignored.
	Blank int
}

// Total returns the number of non-blank names processed.
func (r Result) Total() int {
	return len(r.Rendered) + len(r.Skipped)
}

// HasFailures reports whether any name was skipped.
func (r Result) HasFailures() bool {
	return len(r.Skipped) > 0
}

// Driver runs a batch. Figure and Sink receive the combined image; Out
// receives one human-readable status line per name. Pacer spaces
// consecutive names and may be nil. Metrics may be nil and Sleep defaults to
// the real clock.
type Driver struct {
	Collector Collector
	Policy    RetryPolicy
	Figure    *visualize.Figure
	Sink      visualize.Sink
	Out       io.Writer
	Log       zerolog.Logger
	Metrics   *observability.Metrics
	Pacer     *httputil.Pacer
	Sleep     httputil.SleepFunc
}

// Run processes names in order and saves the combined figure once at the
// end, including when ctx is cancelled part way. The returned error carries
// the cancellation cause or a failure to save the figure; per-name failures
// are only reported in the Result.
func (d *Driver) Run(ctx context.Context, names []string) (Result, error) {
	var result Result
	out := d.Out
	if out == nil {
		out = io.Discard
	}

	var runErr error
	started := false
	for _, raw := range names {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		name := strings.TrimSpace(raw)
		if name == "" {
			result.Blank++
			continue
		}

		if started {
			if err := d.Pacer.Wait(ctx); err != nil {
				runErr = err
				break
			}
		}
		started = true

		res, attempts, err := d.collect(ctx, name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				runErr = ctxErr
				fmt.Fprintf(out, "interrupted: %s after %d attempts\n", name, attempts)
				break
			}
			fmt.Fprintf(out, "skipped: %s after %d attempts (%v)\n", name, attempts, err)
			result.Skipped = append(result.Skipped, Skip{Name: name, Attempts: attempts, Err: err})
			d.Metrics.ObserveAuthor(observability.OutcomeSkipped)
			continue
		}

		d.Figure.Add(name, res.Series)
		result.Rendered = append(result.Rendered, name)
		d.Metrics.ObserveAuthor(observability.OutcomeSuccess)
		fmt.Fprintf(out, "rendered: %s (%d/%d papers above threshold)\n",
			name, res.Summary.Kept, res.Summary.Papers)
	}

	if err := d.Figure.Save(d.Sink); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("saving %s: %w", d.Figure.Name(), err))
	}

	fmt.Fprintf(out, "\nBatch summary: %d rendered, %d skipped (total: %d)\n",
		len(result.Rendered), len(result.Skipped), result.Total())
	return result, runErr
}

// collect tries name up to the policy's attempt budget and returns the
// number of attempts made.
func (d *Driver) collect(ctx context.Context, name string) (*pipeline.Result, int, error) {
	sleep := d.Sleep
	if sleep == nil {
		sleep = httputil.Sleep
	}
	budget := d.Policy.attempts()
	log := observability.WithAuthor(d.Log, name)

	var lastErr error
	for attempt := 1; attempt <= budget; attempt++ {
		d.Metrics.ObserveAttempt()
		res, err := d.Collector.Collect(ctx, name)
		if err == nil {
			return res, attempt, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, attempt, err
		}
		log.Debug().Err(err).Int("attempt", attempt).Int("max_attempts", budget).Msg("attempt failed")

		if attempt < budget {
			if err := sleep(ctx, d.Policy.Delay); err != nil {
				return nil, attempt, err
			}
		}
	}
	return nil, budget, lastErr
}
