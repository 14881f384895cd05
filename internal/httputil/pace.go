// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/citehist/pkg/types"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real-clock SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pacer spaces successive upstream calls with a small courtesy delay. It is
// not aware of upstream rate limits and plays no part in correctness.
// A nil *Pacer never waits.
type Pacer struct {
	mu      sync.Mutex
	dist    types.PacingDistribution
	mean    time.Duration
	rng     *rand.Rand
	limiter *rate.Limiter
	sleep   SleepFunc
	log     zerolog.Logger
}

// NewPacer builds a pacer from cfg. A zero mean disables pacing regardless
// of the distribution.
func NewPacer(cfg types.PacingConfig, log zerolog.Logger) *Pacer {
	dist := cfg.Distribution
	if dist == "" {
		dist = types.PacingUniform
	}
	if cfg.Mean <= 0 {
		dist = types.PacingNone
	}

	seed1, seed2 := cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15
	if cfg.Seed == 0 {
		seed1, seed2 = rand.Uint64(), rand.Uint64()
	}

	p := &Pacer{
		dist:  dist,
		mean:  cfg.Mean,
		rng:   rand.New(rand.NewPCG(seed1, seed2)),
		sleep: Sleep,
		log:   log,
	}
	if dist == types.PacingSteady {
		p.limiter = rate.NewLimiter(rate.Every(cfg.Mean), 1)
	}
	return p
}

// WithSleep replaces the clock used for random delays and returns p.
func (p *Pacer) WithSleep(fn SleepFunc) *Pacer {
	p.sleep = fn
	return p
}

// Next draws the next random delay. Steady and none pacing return zero;
// steady spacing is enforced by the limiter in Wait.
func (p *Pacer) Next() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.dist {
	case types.PacingUniform:
		return time.Duration(p.rng.Float64() * 2 * float64(p.mean))
	case types.PacingExponential:
		return time.Duration(p.rng.ExpFloat64() * float64(p.mean))
	default:
		return 0
	}
}

// Wait blocks for the next courtesy delay.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.dist == types.PacingNone {
		return nil
	}
	if p.limiter != nil {
		return p.limiter.Wait(ctx)
	}
	d := p.Next()
	p.log.Debug().Dur("delay", d).Str("distribution", string(p.dist)).Msg("pacing")
	return p.sleep(ctx, d)
}
