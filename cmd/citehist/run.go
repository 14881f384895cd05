// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/pdiddy/citehist/internal/httputil"
	"github.com/pdiddy/citehist/internal/observability"
	"github.com/pdiddy/citehist/internal/pipeline"
	"github.com/pdiddy/citehist/internal/scholar"
	"github.com/pdiddy/citehist/internal/secrets"
	"github.com/pdiddy/citehist/pkg/types"
)

// newPipeline resolves the API key and wires the client, pacer, and
// aggregation threshold. It fails with ErrMissingCredential before any
// network call when no key is available.
func newPipeline(c types.Config, metrics *observability.Metrics) (*pipeline.Pipeline, error) {
	key, source, err := secrets.Resolver{Log: logger}.Resolve(c.API.Key)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("source", string(source)).Str("key", secrets.Redact(key)).Msg("resolved API key")

	apiCfg := c.API
	apiCfg.Key = key
	client, err := scholar.NewClient(apiCfg, nil, logger, metrics)
	if err != nil {
		return nil, err
	}

	return &pipeline.Pipeline{
		Source:    client,
		Threshold: c.Aggregate.MinCitations,
		Pacer:     httputil.NewPacer(c.Pacing, logger),
		Log:       logger,
	}, nil
}

// writeMetrics exports the run counters when a textfile is configured.
func writeMetrics(metrics *observability.Metrics, path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		logger.Warn().Err(err).Msg("metrics not written")
		return
	}
	logger.Debug().Str("path", path).Msg("wrote metrics")
}
