// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the per-author sequence: resolve the name to one
// author, pause briefly, fetch the author's papers, and reduce them to a
// thresholded citation series plus a summary.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/citehist/internal/citations"
	"github.com/pdiddy/citehist/internal/httputil"
	"github.com/pdiddy/citehist/pkg/types"
)

// Source is the scholarly graph backend. *scholar.Client implements it.
type Source interface {
	ResolveAuthor(ctx context.Context, name string) (types.AuthorRecord, error)
	FetchPapers(ctx context.Context, authorID string) ([]types.PaperRecord, error)
}

// Result is everything gathered for one author.
type Result struct {
	Query   string               `json:"query"`
	Author  types.AuthorRecord   `json:"author"`
	Papers  []types.PaperRecord  `json:"papers"`
	Series  types.CitationSeries `json:"series"`
	Summary types.Summary        `json:"summary"`
}

// Pipeline collects one author at a time. Pacer may be nil.
type Pipeline struct {
	Source    Source
	Threshold int
	Pacer     *httputil.Pacer
	Log       zerolog.Logger
}

// Collect resolves name and returns its citation series. Errors from the
// source are returned wrapped with the stage that failed.
func (p *Pipeline) Collect(ctx context.Context, name string) (*Result, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return nil, fmt.Errorf("%w: author name is empty", types.ErrInvalidInput)
	}
	if p.Threshold < 0 {
		return nil, fmt.Errorf("%w: threshold %d is negative", types.ErrInvalidInput, p.Threshold)
	}

	author, err := p.Source.ResolveAuthor(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", query, err)
	}

	if err := p.Pacer.Wait(ctx); err != nil {
		return nil, err
	}

	papers, err := p.Source.FetchPapers(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching papers for %q (%s): %w", query, author.ID, err)
	}

	series := citations.Aggregate(papers, p.Threshold)
	summary := citations.Summarize(papers, series)

	p.Log.Debug().
		Str("author", query).
		Str("author_id", author.ID).
		Int("papers", summary.Papers).
		Int("kept", summary.Kept).
		Int("threshold", p.Threshold).
		Msg("collected citations")

	return &Result{
		Query:   query,
		Author:  author,
		Papers:  papers,
		Series:  series,
		Summary: summary,
	}, nil
}
