// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citehist CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/citehist/internal/batch"
	"github.com/pdiddy/citehist/internal/citations"
	"github.com/pdiddy/citehist/internal/observability"
	"github.com/pdiddy/citehist/internal/scholar"
	"github.com/pdiddy/citehist/internal/visualize"
	"github.com/pdiddy/citehist/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the effective configuration, loaded before any subcommand runs.
	cfg types.Config

	// logger writes diagnostics to stderr. Status lines go to stdout.
	logger zerolog.Logger

	// configErr holds a failure to read an explicitly named config file.
	configErr error

	// envReplacer maps nested keys to CITEHIST_SECTION_KEY variable names.
	envReplacer = strings.NewReplacer(".", "_")
)

// rootCmd is the base command for the citehist CLI.
var rootCmd = &cobra.Command{
	Use:   "citehist",
	Short: "Plot citation distributions for authors on Semantic Scholar",
	Long: `citehist resolves author names against the Semantic Scholar Graph API,
fetches each author's papers, and draws a histogram and a kernel density
estimate of their per-paper citation counts.

Use "author" for one image pair per name, "batch" for one combined figure
over a list of names read from a file, and "papers" to list what was fetched.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		logger = observability.NewLogger(cfg.Log, os.Stderr)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("file", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults(viper.GetViper())

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./citehist.yaml or ~/.config/citehist/citehist.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")
	pf.String("output", "", "directory for rendered images (default figures)")
	pf.Int("min-citations", citations.DefaultMinCitations, "keep only papers with more citations than this")
	pf.String("base-url", "", "Semantic Scholar Graph API root")
	pf.String("metrics-file", "", "write run counters to this Prometheus textfile")
	pf.Int("rate-limit-retries", scholar.DefaultRateLimitRetries, "back off and retry HTTP 429 this many times (0 surfaces it at once)")

	bindFlag("log.level", pf.Lookup("log-level"))
	bindFlag("log.format", pf.Lookup("log-format"))
	bindFlag("plot.output_dir", pf.Lookup("output"))
	bindFlag("aggregate.min_citations", pf.Lookup("min-citations"))
	bindFlag("api.base_url", pf.Lookup("base-url"))
	bindFlag("metrics.textfile", pf.Lookup("metrics-file"))
	bindFlag("api.rate_limit_retries", pf.Lookup("rate-limit-retries"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citehist")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citehist"))
		}
	}

	viper.SetEnvPrefix("CITEHIST")
	viper.SetEnvKeyReplacer(envReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		configErr = fmt.Errorf("reading config file %s: %w", cfgFile, err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setDefaults registers every configuration key so that environment
// variables reach Unmarshal even when no config file sets the key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", scholar.DefaultBaseURL)
	v.SetDefault("api.key", "")
	v.SetDefault("api.timeout", scholar.DefaultTimeout)
	v.SetDefault("api.user_agent", scholar.DefaultUserAgent)
	v.SetDefault("api.page_limit", scholar.DefaultPageLimit)
	v.SetDefault("api.rate_limit_retries", scholar.DefaultRateLimitRetries)

	v.SetDefault("aggregate.min_citations", citations.DefaultMinCitations)

	plot := visualize.DefaultConfig()
	v.SetDefault("plot.output_dir", plot.OutputDir)
	v.SetDefault("plot.width", plot.Width)
	v.SetDefault("plot.height", plot.Height)
	v.SetDefault("plot.bandwidth_adjust", plot.BandwidthAdjust)
	v.SetDefault("plot.combined_name", plot.CombinedName)

	v.SetDefault("batch.max_attempts", batch.DefaultMaxAttempts)
	v.SetDefault("batch.retry_delay", time.Duration(0))
	v.SetDefault("batch.column", batch.DefaultColumn)

	v.SetDefault("pacing.distribution", string(types.PacingUniform))
	v.SetDefault("pacing.mean", time.Second)
	v.SetDefault("pacing.seed", uint64(0))

	logCfg := observability.DefaultLogConfig()
	v.SetDefault("log.level", logCfg.Level)
	v.SetDefault("log.format", logCfg.Format)

	v.SetDefault("metrics.textfile", "")
}

// loadConfig unmarshals the merged defaults, config file, environment, and
// flags into a validated Config.
func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// bindFlag binds a flag to a viper key. Binding only fails for a nil flag,
// which is a programming error.
func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}
