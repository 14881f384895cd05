// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/citehist/pkg/types"
)

// Graph API JSON structures. Pointer fields distinguish null from zero.
type authorSearchResponse struct {
	Total int                `json:"total"`
	Data  []authorSearchItem `json:"data"`
}

type authorSearchItem struct {
	AuthorID      *string `json:"authorId"`
	Name          *string `json:"name"`
	CitationCount *int    `json:"citationCount"`
	PaperCount    *int    `json:"paperCount"`
}

type papersResponse struct {
	Offset int         `json:"offset"`
	Next   int         `json:"next"`
	Data   []paperItem `json:"data"`
}

type paperItem struct {
	PaperID       *string `json:"paperId"`
	Title         *string `json:"title"`
	CitationCount *int    `json:"citationCount"`
}

// parseAuthorSearch converts an author search body into candidate records.
// An absent or null data field yields an empty slice; shape mismatches yield
// ErrMalformedResponse.
func parseAuthorSearch(body []byte) ([]types.AuthorRecord, error) {
	var resp authorSearchResponse
	if err := decodeObject(body, &resp); err != nil {
		return nil, err
	}

	records := make([]types.AuthorRecord, 0, len(resp.Data))
	for i, item := range resp.Data {
		rec := types.AuthorRecord{
			ID:            deref(item.AuthorID),
			Name:          deref(item.Name),
			CitationCount: derefInt(item.CitationCount),
			PaperCount:    derefInt(item.PaperCount),
		}
		if rec.CitationCount < 0 {
			return nil, fmt.Errorf("%w: data[%d].citationCount is negative", types.ErrMalformedResponse, i)
		}
		records = append(records, rec)
	}
	return records, nil
}

// parsePapers converts an author papers body into paper records in
// response order.
func parsePapers(body []byte) ([]types.PaperRecord, error) {
	var resp papersResponse
	if err := decodeObject(body, &resp); err != nil {
		return nil, err
	}

	papers := make([]types.PaperRecord, 0, len(resp.Data))
	for i, item := range resp.Data {
		p := types.PaperRecord{
			ID:            deref(item.PaperID),
			Title:         deref(item.Title),
			CitationCount: derefInt(item.CitationCount),
		}
		if p.CitationCount < 0 {
			return nil, fmt.Errorf("%w: data[%d].citationCount is negative", types.ErrMalformedResponse, i)
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// decodeObject requires body to be a single JSON object and decodes it into v.
func decodeObject(body []byte, v any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: body is not a JSON object", types.ErrMalformedResponse)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", types.ErrMalformedResponse, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
