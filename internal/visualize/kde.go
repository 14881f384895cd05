// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package visualize

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot/plotter"

	"github.com/pdiddy/citehist/pkg/types"
)

const (
	// gridPoints is the number of points the density curve is evaluated at.
	gridPoints = 200

	// cut extends the grid this many bandwidths past the data.
	cut = 3.0
)

// Bandwidth returns the Gaussian kernel bandwidth for series: Scott's rule
// (σ·n^(-1/5)) scaled by adjust. It returns 0 when the series has fewer than
// two points or no spread.
func Bandwidth(series types.CitationSeries, adjust float64) float64 {
	if len(series) < 2 {
		return 0
	}
	sd := stat.StdDev(series, nil)
	if sd == 0 || math.IsNaN(sd) {
		return 0
	}
	return adjust * sd * math.Pow(float64(len(series)), -0.2)
}

// Density evaluates a Gaussian kernel density estimate of series on an even
// grid. ok is false when no bandwidth can be derived.
func Density(series types.CitationSeries, adjust float64) (xys plotter.XYs, ok bool) {
	bw := Bandwidth(series, adjust)
	if bw == 0 {
		return nil, false
	}

	lo := floats.Min(series) - cut*bw
	hi := floats.Max(series) + cut*bw
	xs := make([]float64, gridPoints)
	floats.Span(xs, lo, hi)

	n := float64(len(series))
	xys = make(plotter.XYs, gridPoints)
	for i, x := range xs {
		var sum float64
		for _, v := range series {
			sum += distuv.UnitNormal.Prob((x - v) / bw)
		}
		xys[i].X = x
		xys[i].Y = sum / (n * bw)
	}
	return xys, true
}
