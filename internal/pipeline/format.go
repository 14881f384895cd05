// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const titleWidth = 20

// FormatListing writes the resolved author, one line per fetched paper, and
// the citation summary to w.
func FormatListing(res *Result, w io.Writer) {
	fmt.Fprintf(w, "Author: %s (id %s, %d citations, %d papers)\n",
		res.Author.Name, res.Author.ID, res.Author.CitationCount, res.Author.PaperCount)

	if len(res.Papers) == 0 {
		fmt.Fprintln(w, "No papers found.")
	}
	for _, p := range res.Papers {
		fmt.Fprintf(w, "Title: %s, cites: %4d\n", clip(p.Title, titleWidth), p.CitationCount)
	}

	s := res.Summary
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%d papers, %d above threshold\n", s.Papers, s.Kept)
	fmt.Fprintf(w, "total %d, max %d, mean %.1f, median %.1f, h-index %d\n",
		s.Total, s.Max, s.Mean, s.Median, s.HIndex)
}

// FormatJSON writes the result as indented JSON to w.
func FormatJSON(res *Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// clip pads or truncates s to exactly n runes.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) > n {
		return string([]rune(s)[:n])
	}
	return s + strings.Repeat(" ", n-utf8.RuneCountInString(s))
}
