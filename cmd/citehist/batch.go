// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citehist/internal/batch"
	"github.com/pdiddy/citehist/internal/observability"
	"github.com/pdiddy/citehist/internal/visualize"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Render one combined figure for a list of authors",
	Long: `Batch reads author names from a CSV, TSV, YAML, or plain-text file and runs
the citation pipeline for each, retrying a failing name up to --attempts
times before skipping it. Every author that succeeds adds a histogram and a
density panel to one combined figure in the output directory.

CSV and TSV files carry a header row; --column picks the column holding the
names (default "name", falling back to the first column). A single-column
file whose first line is not the column name is read as names throughout.
YAML files hold an "authors" list.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("column", "", "CSV/TSV column holding author names (default name)")
	batchCmd.Flags().Int("attempts", batch.DefaultMaxAttempts, "attempts per author before skipping")
	batchCmd.Flags().Duration("retry-delay", 0, "wait between failed attempts")

	bindFlag("batch.column", batchCmd.Flags().Lookup("column"))
	bindFlag("batch.max_attempts", batchCmd.Flags().Lookup("attempts"))
	bindFlag("batch.retry_delay", batchCmd.Flags().Lookup("retry-delay"))

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	names, err := batch.ReadNames(args[0], cfg.Batch.Column)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	defer writeMetrics(metrics, cfg.Metrics.Textfile)

	p, err := newPipeline(cfg, metrics)
	if err != nil {
		return err
	}

	sink := visualize.DirSink{Dir: cfg.Plot.OutputDir}
	d := &batch.Driver{
		Collector: p,
		Policy: batch.RetryPolicy{
			MaxAttempts: cfg.Batch.MaxAttempts,
			Delay:       cfg.Batch.RetryDelay,
		},
		Figure:  visualize.NewFigure(cfg.Plot),
		Sink:    sink,
		Out:     cmd.OutOrStdout(),
		Log:     logger,
		Metrics: metrics,
		Pacer:   p.Pacer,
	}

	logger.Info().Int("authors", len(names)).Str("file", args[0]).Msg("starting batch")
	result, err := d.Run(cmd.Context(), names)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "figure: %s\n", sink.Path(d.Figure.Name()))

	if result.Total() > 0 && len(result.Rendered) == 0 {
		return fmt.Errorf("no author could be rendered (%d skipped)", len(result.Skipped))
	}
	return nil
}
