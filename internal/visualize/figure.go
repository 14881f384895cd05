// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package visualize

import (
	"fmt"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/pdiddy/citehist/pkg/types"
)

type panel struct {
	label  string
	series types.CitationSeries
}

// Figure accumulates one row per author (histogram, density) and writes
// them as a single tiled image.
type Figure struct {
	cfg    types.PlotConfig
	panels []panel
}

// NewFigure creates an empty figure.
func NewFigure(cfg types.PlotConfig) *Figure {
	if cfg.CombinedName == "" {
		cfg.CombinedName = DefaultConfig().CombinedName
	}
	return &Figure{cfg: cfg}
}

// Add appends a row for label. The series is copied.
func (f *Figure) Add(label string, series types.CitationSeries) {
	f.panels = append(f.panels, panel{label: label, series: slices.Clone(series)})
}

// Len returns the number of author rows.
func (f *Figure) Len() int { return len(f.panels) }

// Labels returns the row labels in insertion order.
func (f *Figure) Labels() []string {
	labels := make([]string, len(f.panels))
	for i, p := range f.panels {
		labels[i] = p.label
	}
	return labels
}

// Name is the file name Save writes.
func (f *Figure) Name() string { return f.cfg.CombinedName }

// Save renders all rows into one image and writes it to sink. A figure with
// no rows is written as a single blank plot.
func (f *Figure) Save(sink Sink) error {
	w, h := panelSize(f.cfg)

	if len(f.panels) == 0 {
		p := plot.New()
		p.Title.Text = "no authors rendered"
		blankAxes(p)
		return savePlot(sink, f.cfg.CombinedName, p, 2*w, h)
	}

	rows := make([][]*plot.Plot, len(f.panels))
	for i, pn := range f.panels {
		hist, err := HistogramPlot(pn.label, pn.series)
		if err != nil {
			return err
		}
		dens, err := DensityPlot(pn.label, pn.series, f.cfg.BandwidthAdjust)
		if err != nil {
			return err
		}
		rows[i] = []*plot.Plot{hist, dens}
	}

	img := vgimg.New(2*w, vg.Length(len(rows))*h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(rows),
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(rows, tiles, dc)
	for i := range rows {
		for j := range rows[i] {
			rows[i][j].Draw(canvases[i][j])
		}
	}

	if err := sink.Write(f.cfg.CombinedName, vgimg.PngCanvas{Canvas: img}); err != nil {
		return fmt.Errorf("writing %s: %w", f.cfg.CombinedName, err)
	}
	return nil
}
