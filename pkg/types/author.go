// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citehist pipeline:
// author and paper records returned by the scholarly graph API, the citation
// series derived from them, per-author summaries, and run configuration.
package types

// AuthorRecord is one candidate returned by the author search endpoint.
// Several records may match one query name; the resolver picks exactly one.
type AuthorRecord struct {
	// ID is the opaque author identifier used by the papers endpoint.
	ID string `json:"author_id" yaml:"author_id"`

	// Name is the display name as returned by the API.
	Name string `json:"name" yaml:"name"`

	// CitationCount is the author's total citation count (never negative).
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// PaperCount is the number of papers the API attributes to the author.
	PaperCount int `json:"paper_count" yaml:"paper_count"`
}

// PaperRecord pairs a paper title with its citation count.
type PaperRecord struct {
	ID            string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`
	Title         string `json:"title" yaml:"title"`
	CitationCount int    `json:"citation_count" yaml:"citation_count"`
}

// CitationSeries is an ordered collection of citation counts that survived
// the aggregation threshold. Order follows the papers endpoint.
type CitationSeries []float64

// Len returns the number of values in the series.
func (s CitationSeries) Len() int { return len(s) }

// Empty reports whether the series has no values.
func (s CitationSeries) Empty() bool { return len(s) == 0 }

// Summary holds per-author citation statistics printed alongside the plots.
type Summary struct {
	// Papers is the number of papers fetched (before thresholding).
	Papers int `json:"papers" yaml:"papers"`

	// Kept is the number of papers whose count passed the threshold.
	Kept int `json:"kept" yaml:"kept"`

	// Total is the sum of citation counts over all fetched papers.
	Total int `json:"total" yaml:"total"`

	// Max is the largest citation count over all fetched papers.
	Max int `json:"max" yaml:"max"`

	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`

	// HIndex is the largest h such that h papers have at least h citations.
	HIndex int `json:"h_index" yaml:"h_index"`
}
