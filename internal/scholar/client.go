// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar talks to the Semantic Scholar Graph API: it resolves a
// free-text author name to one author record and lists that author's papers
// with their citation counts.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/citehist/internal/httputil"
	"github.com/pdiddy/citehist/internal/observability"
	"github.com/pdiddy/citehist/pkg/types"
)

const (
	// DefaultBaseURL is the root of the Semantic Scholar Graph API.
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultPageLimit is the hard page cap for the papers endpoint. There is
	// no pagination; papers beyond the cap are omitted.
	DefaultPageLimit = 999

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent when the config leaves it empty.
	DefaultUserAgent = "citehist/0.1"

	// DefaultRateLimitRetries leaves HTTP 429 to surface as an upstream
	// error. Batch mode retries whole attempts instead.
	DefaultRateLimitRetries = 0

	apiKeyHeader       = "x-api-key"
	authorSearchFields = "name,citationCount,paperCount"
	paperFields        = "title,citationCount"

	// Endpoint labels used in errors, logs, and metrics.
	EndpointAuthorSearch = "author_search"
	EndpointAuthorPapers = "author_papers"

	maxBodyBytes = 10 << 20
)

// Client resolves authors and fetches their papers.
type Client struct {
	http    *http.Client
	cfg     types.APIConfig
	log     zerolog.Logger
	metrics *observability.Metrics
}

// NewClient creates a client from cfg. The API key must already be resolved;
// an empty key fails with ErrMissingCredential. When httpClient is nil a new
// one is created with the configured timeout. metrics may be nil.
func NewClient(cfg types.APIConfig, httpClient *http.Client, log zerolog.Logger, metrics *observability.Metrics) (*Client, error) {
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, types.ErrMissingCredential
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = DefaultPageLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{http: httpClient, cfg: cfg, log: log, metrics: metrics}, nil
}

// ResolveAuthor searches for name and returns the candidate with the highest
// citation count.
func (c *Client) ResolveAuthor(ctx context.Context, name string) (types.AuthorRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.AuthorRecord{}, fmt.Errorf("%w: author name is empty", types.ErrInvalidInput)
	}

	params := url.Values{
		"query":  {name},
		"fields": {authorSearchFields},
	}
	body, err := c.get(ctx, EndpointAuthorSearch, c.cfg.BaseURL+"/author/search?"+params.Encode())
	if err != nil {
		return types.AuthorRecord{}, err
	}

	candidates, err := parseAuthorSearch(body)
	if err != nil {
		return types.AuthorRecord{}, types.NewUpstreamError(EndpointAuthorSearch, http.StatusOK, "", err)
	}

	author, err := SelectAuthor(name, candidates)
	if err != nil {
		return types.AuthorRecord{}, err
	}
	c.log.Debug().
		Str("author", name).
		Str("author_id", author.ID).
		Int("candidates", len(candidates)).
		Int("citations", author.CitationCount).
		Msg("resolved author")
	return author, nil
}

// SelectAuthor picks the candidate with the strictly highest citation count;
// ties keep the earliest candidate. Candidates without an identifier are not
// eligible.
func SelectAuthor(query string, candidates []types.AuthorRecord) (types.AuthorRecord, error) {
	if len(candidates) == 0 {
		return types.AuthorRecord{}, types.NewNotFoundError(query, "no candidates")
	}
	best := -1
	for i, cand := range candidates {
		if strings.TrimSpace(cand.ID) == "" {
			continue
		}
		if best < 0 || cand.CitationCount > candidates[best].CitationCount {
			best = i
		}
	}
	if best < 0 {
		return types.AuthorRecord{}, types.NewNotFoundError(query, "no candidate has an identifier")
	}
	return candidates[best], nil
}

// FetchPapers lists the author's papers with their citation counts, capped
// at the configured page limit. An author with no papers yields an empty
// slice.
func (c *Client) FetchPapers(ctx context.Context, authorID string) ([]types.PaperRecord, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, fmt.Errorf("%w: author identifier is empty", types.ErrInvalidInput)
	}

	params := url.Values{
		"fields": {paperFields},
		"limit":  {strconv.Itoa(c.cfg.PageLimit)},
	}
	reqURL := fmt.Sprintf("%s/author/%s/papers?%s", c.cfg.BaseURL, url.PathEscape(authorID), params.Encode())
	body, err := c.get(ctx, EndpointAuthorPapers, reqURL)
	if err != nil {
		return nil, err
	}

	papers, err := parsePapers(body)
	if err != nil {
		return nil, types.NewUpstreamError(EndpointAuthorPapers, http.StatusOK, "", err)
	}
	c.metrics.AddPapers(len(papers))
	c.log.Debug().Str("author_id", authorID).Int("papers", len(papers)).Msg("fetched papers")
	return papers, nil
}

// get performs one GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, endpoint, reqURL string) (body []byte, err error) {
	defer func() { c.metrics.ObserveRequest(endpoint, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, types.NewUpstreamError(endpoint, 0, "creating request", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.cfg.Key)

	c.log.Debug().Str("endpoint", endpoint).Str("url", req.URL.Redacted()).Msg("request")

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.RateLimitRetries, c.log)
	if err != nil {
		return nil, types.NewUpstreamError(endpoint, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.NewUpstreamError(endpoint, resp.StatusCode, errorMessage(resp), nil)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, types.NewUpstreamError(endpoint, resp.StatusCode, "reading body", err)
	}
	return body, nil
}

// errorMessage extracts the API's error text from a failed response.
func errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &apiErr) == nil {
		if apiErr.Error != "" {
			return apiErr.Error
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		if len(text) > 200 {
			text = text[:200]
		}
		return text
	}
	return http.StatusText(resp.StatusCode)
}
