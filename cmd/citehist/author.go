// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citehist/internal/observability"
	"github.com/pdiddy/citehist/internal/visualize"
)

var authorCmd = &cobra.Command{
	Use:   "author <name...>",
	Short: "Render citation plots for one author",
	Long: `Author resolves the given name to the most-cited matching author, fetches
their papers, and writes a histogram and a density plot of per-paper citation
counts into the output directory.

All arguments are joined into one name. Errors are reported immediately;
nothing is retried.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAuthor,
}

func init() {
	rootCmd.AddCommand(authorCmd)
}

func runAuthor(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	metrics := observability.NewMetrics()
	defer writeMetrics(metrics, cfg.Metrics.Textfile)

	p, err := newPipeline(cfg, metrics)
	if err != nil {
		return err
	}

	res, err := p.Collect(cmd.Context(), name)
	if err != nil {
		return err
	}

	sink := visualize.DirSink{Dir: cfg.Plot.OutputDir}
	if err := visualize.RenderAuthor(sink, res.Query, res.Series, cfg.Plot); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rendered: %s (%d/%d papers above threshold)\n",
		res.Query, res.Summary.Kept, res.Summary.Papers)
	fmt.Fprintf(out, "  %s\n  %s\n",
		sink.Path(visualize.HistogramName(res.Query)),
		sink.Path(visualize.DensityName(res.Query)))
	return nil
}
