// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package visualize renders citation series as histograms and kernel density
// curves, either as two images per author or as one tiled figure for a batch.
package visualize

import (
	"fmt"
	"image/color"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pdiddy/citehist/internal/citations"
	"github.com/pdiddy/citehist/pkg/types"
)

// DefaultConfig returns the plot settings used when nothing is configured.
func DefaultConfig() types.PlotConfig {
	return types.PlotConfig{
		OutputDir:       "figures",
		Width:           12,
		Height:          9,
		BandwidthAdjust: 0.5,
		CombinedName:    "combined.png",
	}
}

var (
	histFill  = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}
	curveLine = color.RGBA{R: 0xc4, G: 0x4e, B: 0x52, A: 0xff}
)

// RenderAuthor writes the histogram and density images for one author to
// sink. An empty series still produces both images, titled as empty.
func RenderAuthor(sink Sink, label string, series types.CitationSeries, cfg types.PlotConfig) error {
	w, h := panelSize(cfg)

	hist, err := HistogramPlot(label, series)
	if err != nil {
		return err
	}
	if err := savePlot(sink, HistogramName(label), hist, w, h); err != nil {
		return err
	}

	dens, err := DensityPlot(label, series, cfg.BandwidthAdjust)
	if err != nil {
		return err
	}
	return savePlot(sink, DensityName(label), dens, w, h)
}

// HistogramPlot builds a frequency histogram of series with
// citations.BinCount bins.
func HistogramPlot(label string, series types.CitationSeries) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = label + ": citation histogram"
	p.X.Label.Text = "citations per paper"
	p.Y.Label.Text = "papers"

	if series.Empty() {
		p.Title.Text = label + ": no papers above threshold"
		blankAxes(p)
		return p, nil
	}

	hist, err := newHistogram(series)
	if err != nil {
		return nil, fmt.Errorf("building histogram for %s: %w", label, err)
	}
	p.Add(hist)
	return p, nil
}

func newHistogram(series types.CitationSeries) (*plotter.Histogram, error) {
	hist, err := plotter.NewHist(plotter.Values(slices.Clone(series)), citations.BinCount(series.Len()))
	if err != nil {
		return nil, err
	}
	hist.FillColor = histFill
	hist.LineStyle.Width = vg.Points(0.5)
	return hist, nil
}

// DensityPlot builds a kernel density curve of series. Series with fewer
// than two points or no spread produce a blank, titled plot.
func DensityPlot(label string, series types.CitationSeries, adjust float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = label + ": citation density"
	p.X.Label.Text = "citations per paper"
	p.Y.Label.Text = "density"

	xys, ok := Density(series, adjust)
	if !ok {
		if series.Empty() {
			p.Title.Text = label + ": no papers above threshold"
		} else {
			p.Title.Text = label + ": too few distinct values for a density"
		}
		blankAxes(p)
		return p, nil
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("building density for %s: %w", label, err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = curveLine
	p.Add(line)
	p.Y.Min = 0
	return p, nil
}

func blankAxes(p *plot.Plot) {
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
}

func panelSize(cfg types.PlotConfig) (vg.Length, vg.Length) {
	return vg.Length(cfg.Width) * vg.Centimeter, vg.Length(cfg.Height) * vg.Centimeter
}

func savePlot(sink Sink, name string, p *plot.Plot, w, h vg.Length) error {
	img, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := sink.Write(name, img); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
