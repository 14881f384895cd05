// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citehist/internal/observability"
	"github.com/pdiddy/citehist/internal/pipeline"
)

var papersCmd = &cobra.Command{
	Use:   "papers <name...>",
	Short: "List an author's papers and citation counts",
	Long: `Papers resolves the given name like "author" does and prints each fetched
paper with its citation count, followed by a summary (total, max, mean,
median, h-index). Nothing is rendered.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPapers,
}

func init() {
	papersCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(papersCmd)
}

func runPapers(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	metrics := observability.NewMetrics()
	defer writeMetrics(metrics, cfg.Metrics.Textfile)

	p, err := newPipeline(cfg, metrics)
	if err != nil {
		return err
	}

	res, err := p.Collect(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	if asJSON {
		return pipeline.FormatJSON(res, cmd.OutOrStdout())
	}
	pipeline.FormatListing(res, cmd.OutOrStdout())
	return nil
}
