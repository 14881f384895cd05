// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citehist/internal/httputil"
	"github.com/pdiddy/citehist/internal/observability"
	"github.com/pdiddy/citehist/internal/pipeline"
	"github.com/pdiddy/citehist/internal/visualize"
	"github.com/pdiddy/citehist/pkg/types"
)

// scriptedCollector fails each name a set number of times before
// succeeding. A negative count fails forever.
type scriptedCollector struct {
	failures map[string]int
	err      error
	calls    map[string]int
	onCall   func(name string)
}

func newCollector(failures map[string]int) *scriptedCollector {
	return &scriptedCollector{
		failures: failures,
		err:      types.NewUpstreamError("author_search", 503, "service unavailable", nil),
		calls:    map[string]int{},
	}
}

func (c *scriptedCollector) Collect(_ context.Context, name string) (*pipeline.Result, error) {
	c.calls[name]++
	if c.onCall != nil {
		c.onCall(name)
	}
	n := c.failures[name]
	if n < 0 || c.calls[name] <= n {
		return nil, c.err
	}
	series := types.CitationSeries{2, 5, 9}
	return &pipeline.Result{
		Query:   name,
		Author:  types.AuthorRecord{ID: "id-" + name, Name: name},
		Series:  series,
		Summary: types.Summary{Papers: 4, Kept: len(series)},
	}, nil
}

type memSink struct {
	names []string
}

func (m *memSink) Write(name string, img io.WriterTo) error {
	if _, err := img.WriteTo(io.Discard); err != nil {
		return err
	}
	m.names = append(m.names, name)
	return nil
}

type fakeClock struct {
	sleeps []time.Duration
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	return nil
}

func newDriver(col Collector, policy RetryPolicy) (*Driver, *bytes.Buffer, *memSink, *fakeClock) {
	var out bytes.Buffer
	sink := &memSink{}
	clock := &fakeClock{}
	cfg := visualize.DefaultConfig()
	cfg.Width, cfg.Height = 6, 4
	return &Driver{
		Collector: col,
		Policy:    policy,
		Figure:    visualize.NewFigure(cfg),
		Sink:      sink,
		Out:       &out,
		Log:       zerolog.Nop(),
		Metrics:   observability.NewMetrics(),
		Sleep:     clock.Sleep,
	}, &out, sink, clock
}

func TestRunSkipsPersistentFailure(t *testing.T) {
	col := newCollector(map[string]int{"Always Fails": -1})
	d, out, sink, clock := newDriver(col, RetryPolicy{MaxAttempts: 10, Delay: 2 * time.Second})

	res, err := d.Run(context.Background(), []string{"Always Fails", "Luca Salasnich"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Luca Salasnich"}, res.Rendered)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "Always Fails", res.Skipped[0].Name)
	assert.Equal(t, 10, res.Skipped[0].Attempts)
	assert.ErrorIs(t, res.Skipped[0].Err, types.ErrUpstream)
	assert.True(t, res.HasFailures())
	assert.Equal(t, 2, res.Total())

	assert.Equal(t, 10, col.calls["Always Fails"])
	assert.Equal(t, 1, col.calls["Luca Salasnich"])
	assert.Len(t, clock.sleeps, 9)
	for _, s := range clock.sleeps {
		assert.Equal(t, 2*time.Second, s)
	}

	assert.Equal(t, 1, d.Figure.Len())
	assert.Equal(t, []string{"combined.png"}, sink.names)

	text := out.String()
	assert.Contains(t, text, "skipped: Always Fails after 10 attempts (author_search: HTTP 503: service unavailable)")
	assert.Contains(t, text, "rendered: Luca Salasnich (3/4 papers above threshold)")
	assert.Contains(t, text, "Batch summary: 1 rendered, 1 skipped (total: 2)")

	assert.Equal(t, 11.0, testutil.ToFloat64(d.Metrics.Attempts))
	assert.Equal(t, 1.0, testutil.ToFloat64(d.Metrics.Authors.WithLabelValues(observability.OutcomeSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(d.Metrics.Authors.WithLabelValues(observability.OutcomeSuccess)))
}

func TestRunRecoversWithinBudget(t *testing.T) {
	col := newCollector(map[string]int{"Flaky": 3})
	d, out, _, clock := newDriver(col, RetryPolicy{MaxAttempts: 5})

	res, err := d.Run(context.Background(), []string{"Flaky"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Flaky"}, res.Rendered)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 4, col.calls["Flaky"])
	assert.Equal(t, []time.Duration{0, 0, 0}, clock.sleeps)
	assert.Contains(t, out.String(), "rendered: Flaky")
}

func TestRunRetryBudget(t *testing.T) {
	tests := []struct {
		name    string
		policy  RetryPolicy
		wantTry int
	}{
		{name: "default budget", policy: RetryPolicy{}, wantTry: DefaultMaxAttempts},
		{name: "single attempt", policy: RetryPolicy{MaxAttempts: 1}, wantTry: 1},
		{name: "three attempts", policy: RetryPolicy{MaxAttempts: 3}, wantTry: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := newCollector(map[string]int{"X": -1})
			d, _, _, clock := newDriver(col, tt.policy)

			res, err := d.Run(context.Background(), []string{"X"})
			require.NoError(t, err)
			require.Len(t, res.Skipped, 1)
			assert.Equal(t, tt.wantTry, res.Skipped[0].Attempts)
			assert.Equal(t, tt.wantTry, col.calls["X"])
			assert.Len(t, clock.sleeps, tt.wantTry-1)
		})
	}
}

func TestRunBlankNames(t *testing.T) {
	col := newCollector(nil)
	d, out, _, _ := newDriver(col, DefaultRetryPolicy())

	res, err := d.Run(context.Background(), []string{"", "A", "   ", "B"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, res.Rendered)
	assert.Equal(t, 2, res.Blank)
	assert.Len(t, col.calls, 2)
	assert.Contains(t, out.String(), "Batch summary: 2 rendered, 0 skipped (total: 2)")
}

func TestRunPacesBetweenAuthors(t *testing.T) {
	col := newCollector(map[string]int{"B": 1})
	d, _, _, clock := newDriver(col, DefaultRetryPolicy())

	var paced []string
	d.Pacer = httputil.NewPacer(types.PacingConfig{
		Distribution: types.PacingUniform,
		Mean:         time.Second,
		Seed:         7,
	}, zerolog.Nop()).WithSleep(func(context.Context, time.Duration) error {
		paced = append(paced, "wait")
		return nil
	})

	res, err := d.Run(context.Background(), []string{"A", "", "B", "C"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, res.Rendered)
	assert.Len(t, paced, 2, "one wait before each author after the first")
	assert.Len(t, clock.sleeps, 1, "retry delays stay on the driver clock")
}

func TestRunStopsWhenPacingCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	col := newCollector(nil)
	d, out, sink, _ := newDriver(col, DefaultRetryPolicy())
	d.Pacer = httputil.NewPacer(types.PacingConfig{Mean: time.Second, Seed: 7}, zerolog.Nop()).
		WithSleep(func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		})

	res, err := d.Run(ctx, []string{"A", "B"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"A"}, res.Rendered)
	assert.Zero(t, col.calls["B"])
	assert.Equal(t, []string{"combined.png"}, sink.names)
	assert.Contains(t, out.String(), "Batch summary: 1 rendered, 0 skipped (total: 1)")
}

func TestRunEmptyInputStillSavesFigure(t *testing.T) {
	d, out, sink, _ := newDriver(newCollector(nil), DefaultRetryPolicy())

	res, err := d.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Total())
	assert.Equal(t, []string{"combined.png"}, sink.names)
	assert.Contains(t, out.String(), "Batch summary: 0 rendered, 0 skipped (total: 0)")
}

func TestRunCancelledSavesPartialFigure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	col := newCollector(nil)
	col.onCall = func(name string) {
		if name == "B" {
			cancel()
		}
	}
	col.failures = map[string]int{"B": -1}
	d, out, sink, _ := newDriver(col, DefaultRetryPolicy())

	res, err := d.Run(ctx, []string{"A", "B", "C"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []string{"A"}, res.Rendered)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 1, col.calls["B"])
	assert.Zero(t, col.calls["C"])
	assert.Equal(t, []string{"combined.png"}, sink.names)
	assert.Contains(t, out.String(), "interrupted: B after 1 attempts")
}

type failingSink struct{}

func (failingSink) Write(string, io.WriterTo) error { return errors.New("read-only file system") }

func TestRunReportsSaveFailure(t *testing.T) {
	d, _, _, _ := newDriver(newCollector(nil), DefaultRetryPolicy())
	d.Sink = failingSink{}

	res, err := d.Run(context.Background(), []string{"A"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving combined.png")
	assert.Equal(t, []string{"A"}, res.Rendered)
}

func TestRunWithPipeline(t *testing.T) {
	src := &stubSource{
		papers: []types.PaperRecord{
			{Title: "X", CitationCount: 0},
			{Title: "Y", CitationCount: 2},
			{Title: "Z", CitationCount: 1},
		},
	}
	p := &pipeline.Pipeline{Source: src, Threshold: 1, Log: zerolog.Nop()}
	d, out, _, _ := newDriver(p, DefaultRetryPolicy())

	res, err := d.Run(context.Background(), []string{"Luca Salasnich"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Luca Salasnich"}, res.Rendered)
	assert.Contains(t, out.String(), "rendered: Luca Salasnich (1/3 papers above threshold)")
}

type stubSource struct {
	papers []types.PaperRecord
}

func (s *stubSource) ResolveAuthor(_ context.Context, name string) (types.AuthorRecord, error) {
	return types.AuthorRecord{ID: "42", Name: name}, nil
}

func (s *stubSource) FetchPapers(context.Context, string) ([]types.PaperRecord, error) {
	return s.papers, nil
}
