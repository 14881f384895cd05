// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citehist/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// APIConfig holds settings for the scholarly graph API client.
type APIConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the graph API root (default https://api.semanticscholar.org/graph/v1).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Key is the static API key sent in the x-api-key header. It is resolved
	// once at startup and never read from the environment afterwards.
	Key string `json:"-" yaml:"key,omitempty" mapstructure:"key"`

	// PageLimit caps the number of papers fetched per author (default 999).
	// Papers beyond the cap are silently omitted.
	PageLimit int `json:"page_limit" yaml:"page_limit" mapstructure:"page_limit"`

	// RateLimitRetries bounds transport-level retries on HTTP 429 (default 2).
	RateLimitRetries int `json:"rate_limit_retries" yaml:"rate_limit_retries" mapstructure:"rate_limit_retries"`
}

// AggregateConfig holds settings for turning papers into a citation series.
type AggregateConfig struct {
	// MinCitations drops counts at or below this value (default 1).
	MinCitations int `json:"min_citations" yaml:"min_citations" mapstructure:"min_citations"`
}

// PlotConfig holds settings for rendered figures.
type PlotConfig struct {
	// OutputDir receives every image written by a run (default "figures").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Width and Height are the size of one panel in centimetres.
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`

	// BandwidthAdjust scales the density bandwidth (default 0.5).
	BandwidthAdjust float64 `json:"bandwidth_adjust" yaml:"bandwidth_adjust" mapstructure:"bandwidth_adjust"`

	// CombinedName is the file name of the batch figure (default "combined.png").
	CombinedName string `json:"combined_name" yaml:"combined_name" mapstructure:"combined_name"`
}

// BatchConfig holds settings for the batch driver.
type BatchConfig struct {
	// MaxAttempts is the per-author attempt budget (default 10).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// RetryDelay is the wait between failed attempts (default 0, immediate).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`

	// Column names the CSV/TSV column holding author names (default "name").
	Column string `json:"column" yaml:"column" mapstructure:"column"`
}

// PacingDistribution selects how courtesy delays between requests are drawn.
type PacingDistribution string

const (
	PacingNone        PacingDistribution = "none"
	PacingUniform     PacingDistribution = "uniform"
	PacingExponential PacingDistribution = "exponential"
	PacingSteady      PacingDistribution = "steady"
)

// PacingConfig holds settings for the courtesy delay between upstream calls.
type PacingConfig struct {
	Distribution PacingDistribution `json:"distribution" yaml:"distribution" mapstructure:"distribution"`

	// Mean is the average delay (default 1s).
	Mean time.Duration `json:"mean" yaml:"mean" mapstructure:"mean"`

	// Seed makes random delays reproducible; 0 picks a random seed.
	Seed uint64 `json:"seed" yaml:"seed" mapstructure:"seed"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// MetricsConfig holds run-metrics export settings.
type MetricsConfig struct {
	// Textfile, when set, receives the run counters in Prometheus text format.
	Textfile string `json:"textfile" yaml:"textfile,omitempty" mapstructure:"textfile"`
}

// Config groups all settings for a citehist run.
type Config struct {
	API       APIConfig       `json:"api" yaml:"api" mapstructure:"api"`
	Aggregate AggregateConfig `json:"aggregate" yaml:"aggregate" mapstructure:"aggregate"`
	Plot      PlotConfig      `json:"plot" yaml:"plot" mapstructure:"plot"`
	Batch     BatchConfig     `json:"batch" yaml:"batch" mapstructure:"batch"`
	Pacing    PacingConfig    `json:"pacing" yaml:"pacing" mapstructure:"pacing"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
	Metrics   MetricsConfig   `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// Validate reports the first setting that cannot produce a working run.
// The API key is checked separately at startup.
func (c Config) Validate() error {
	switch {
	case c.API.BaseURL == "":
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidInput)
	case c.API.PageLimit <= 0:
		return fmt.Errorf("%w: api.page_limit must be positive, got %d", ErrInvalidInput, c.API.PageLimit)
	case c.API.RateLimitRetries < 0:
		return fmt.Errorf("%w: api.rate_limit_retries must not be negative", ErrInvalidInput)
	case c.Aggregate.MinCitations < 0:
		return fmt.Errorf("%w: aggregate.min_citations must not be negative, got %d", ErrInvalidInput, c.Aggregate.MinCitations)
	case c.Plot.BandwidthAdjust <= 0:
		return fmt.Errorf("%w: plot.bandwidth_adjust must be positive", ErrInvalidInput)
	case c.Plot.Width <= 0 || c.Plot.Height <= 0:
		return fmt.Errorf("%w: plot.width and plot.height must be positive", ErrInvalidInput)
	case c.Batch.MaxAttempts <= 0:
		return fmt.Errorf("%w: batch.max_attempts must be positive, got %d", ErrInvalidInput, c.Batch.MaxAttempts)
	case c.Batch.RetryDelay < 0 || c.Pacing.Mean < 0:
		return fmt.Errorf("%w: delays must not be negative", ErrInvalidInput)
	}
	switch c.Pacing.Distribution {
	case PacingNone, PacingUniform, PacingExponential, PacingSteady:
	default:
		return fmt.Errorf("%w: unknown pacing distribution %q", ErrInvalidInput, c.Pacing.Distribution)
	}
	return nil
}
