// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citations turns fetched paper records into the numeric series the
// plots are drawn from, and summarizes an author's citation counts.
package citations

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/citehist/pkg/types"
)

// DefaultMinCitations drops papers with zero or one citation.
const DefaultMinCitations = 1

// Aggregate returns the citation counts strictly greater than minThreshold,
// in the order the papers were given. The input is not modified.
func Aggregate(papers []types.PaperRecord, minThreshold int) types.CitationSeries {
	series := make(types.CitationSeries, 0, len(papers))
	for _, p := range papers {
		if p.CitationCount > minThreshold {
			series = append(series, float64(p.CitationCount))
		}
	}
	return series
}

// BinCount returns the histogram bin count for a series of length n:
// round(n/3), never less than one.
func BinCount(n int) int {
	return max(1, int(math.Round(float64(n)/3)))
}

// Summarize computes statistics over all fetched papers. Kept is the length
// of the thresholded series.
func Summarize(papers []types.PaperRecord, series types.CitationSeries) types.Summary {
	s := types.Summary{Papers: len(papers), Kept: len(series)}
	if len(papers) == 0 {
		return s
	}

	counts := make([]float64, len(papers))
	for i, p := range papers {
		counts[i] = float64(p.CitationCount)
		s.Total += p.CitationCount
		s.Max = max(s.Max, p.CitationCount)
	}
	sort.Float64s(counts)

	s.Mean = stat.Mean(counts, nil)
	s.Median = median(counts)
	s.HIndex = hIndex(counts)
	return s
}

// median of sorted values, averaging the two middle values for even lengths.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// hIndex of ascending-sorted citation counts.
func hIndex(sorted []float64) int {
	desc := slices.Clone(sorted)
	slices.Reverse(desc)
	h := 0
	for i, c := range desc {
		if c >= float64(i+1) {
			h = i + 1
		} else {
			break
		}
	}
	return h
}
