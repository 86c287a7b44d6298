// Package humanoid paces browser interactions so their timing resembles a
// person rather than a tight loop. Delays are jittered with Perlin noise,
// which drifts smoothly instead of producing the white-noise scatter that
// abuse detection keys on.
package humanoid

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/aquilax/go-perlin"
	"go.uber.org/zap"
)

// Config holds the pacing settings.
type Config struct {
	Enabled        bool    `mapstructure:"enabled"`
	JitterFraction float64 `mapstructure:"jitter_fraction"`
	TypingMeanMs   int     `mapstructure:"typing_mean_ms"`
	TypingStdMs    int     `mapstructure:"typing_std_ms"`
}

// Standard Perlin parameters.
const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = int32(3)
	noiseStep   = 0.1
)

// minTypingDelay keeps keystrokes from degenerating into a machine burst.
const minTypingDelay = 15 * time.Millisecond

// Pacer produces jittered delays for one browsing session.
type Pacer struct {
	cfg    Config
	logger *zap.Logger
	rng    *rand.Rand

	mu    sync.Mutex
	noise *perlin.Perlin
	t     float64
}

// NewPacer creates a pacer with a session-unique noise field.
func NewPacer(cfg Config, logger *zap.Logger) *Pacer {
	seed := time.Now().UnixNano()
	if cfg.JitterFraction <= 0 || cfg.JitterFraction > 1 {
		cfg.JitterFraction = 0.25
	}
	if cfg.TypingMeanMs <= 0 {
		cfg.TypingMeanMs = 80
	}
	if cfg.TypingStdMs <= 0 {
		cfg.TypingStdMs = 30
	}
	return &Pacer{
		cfg:    cfg,
		logger: logger.Named("humanoid"),
		rng:    rand.New(rand.NewSource(seed)),
		noise:  perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed),
	}
}

// nextNoise advances the noise field and returns a value in roughly [-1, 1].
func (p *Pacer) nextNoise() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.t += noiseStep
	return p.noise.Noise1D(p.t)
}

// Jitter returns base stretched or shrunk by the configured jitter
// fraction. With pacing disabled it returns base unchanged.
func (p *Pacer) Jitter(base time.Duration) time.Duration {
	if !p.cfg.Enabled || base <= 0 {
		return base
	}
	jitter := time.Duration(float64(base) * p.cfg.JitterFraction * p.nextNoise())
	d := base + jitter
	if d < 0 {
		return 0
	}
	return d
}

// Hesitate sleeps for a jittered base duration, honoring cancellation.
func (p *Pacer) Hesitate(ctx context.Context, base time.Duration) error {
	return sleep(ctx, p.Jitter(base))
}

// CognitivePause sleeps for a normally distributed "think" interval.
func (p *Pacer) CognitivePause(ctx context.Context, mean, std time.Duration) error {
	if !p.cfg.Enabled {
		return sleep(ctx, mean)
	}
	p.mu.Lock()
	d := mean + time.Duration(p.rng.NormFloat64()*float64(std))
	p.mu.Unlock()
	if d < 0 {
		d = 0
	}
	return sleep(ctx, d)
}

// TypingDelay returns the pause before the next keystroke.
func (p *Pacer) TypingDelay() time.Duration {
	if !p.cfg.Enabled {
		return 0
	}
	p.mu.Lock()
	d := time.Duration(p.cfg.TypingMeanMs)*time.Millisecond +
		time.Duration(p.rng.NormFloat64()*float64(p.cfg.TypingStdMs))*time.Millisecond
	p.mu.Unlock()
	if d < minTypingDelay {
		return minTypingDelay
	}
	return d
}

// Enabled reports whether human-like pacing is on.
func (p *Pacer) Enabled() bool {
	return p.cfg.Enabled
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
