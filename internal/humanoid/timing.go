package humanoid

import (
	"math/rand"
	"time"
)

// DelayKind names one class of pause the Timing Model can produce.
type DelayKind string

const (
	DelayPreClick      DelayKind = "pre-click"
	DelayPostClick     DelayKind = "post-click"
	DelayPreType       DelayKind = "pre-type"
	DelayScrollPause   DelayKind = "scroll-pause"
	DelayThinkingPause DelayKind = "thinking-pause"
)

// DelayDistribution is a truncated normal over milliseconds. Min/Max are
// hard bounds applied after the draw.
type DelayDistribution struct {
	MeanMs   float64 `mapstructure:"mean_ms" yaml:"mean_ms"`
	StdDevMs float64 `mapstructure:"std_dev_ms" yaml:"std_dev_ms"`
	MinMs    float64 `mapstructure:"min_ms" yaml:"min_ms"`
	MaxMs    float64 `mapstructure:"max_ms" yaml:"max_ms"`
}

// TimingConfig maps each delay kind to its distribution.
type TimingConfig struct {
	PreClick      DelayDistribution `mapstructure:"pre_click" yaml:"pre_click"`
	PostClick     DelayDistribution `mapstructure:"post_click" yaml:"post_click"`
	PreType       DelayDistribution `mapstructure:"pre_type" yaml:"pre_type"`
	ScrollPause   DelayDistribution `mapstructure:"scroll_pause" yaml:"scroll_pause"`
	ThinkingPause DelayDistribution `mapstructure:"thinking_pause" yaml:"thinking_pause"`
}

// DefaultTimingConfig mirrors the pause ranges observed in manual browsing
// sessions: short mechanical gaps around clicks, longer cognitive pauses.
func DefaultTimingConfig() TimingConfig {
	return TimingConfig{
		PreClick:      DelayDistribution{MeanMs: 200, StdDevMs: 60, MinMs: 80, MaxMs: 500},
		PostClick:     DelayDistribution{MeanMs: 250, StdDevMs: 80, MinMs: 100, MaxMs: 700},
		PreType:       DelayDistribution{MeanMs: 300, StdDevMs: 100, MinMs: 120, MaxMs: 800},
		ScrollPause:   DelayDistribution{MeanMs: 350, StdDevMs: 150, MinMs: 120, MaxMs: 1200},
		ThinkingPause: DelayDistribution{MeanMs: 900, StdDevMs: 400, MinMs: 300, MaxMs: 3000},
	}
}

func (tc TimingConfig) distribution(kind DelayKind) DelayDistribution {
	switch kind {
	case DelayPreClick:
		return tc.PreClick
	case DelayPostClick:
		return tc.PostClick
	case DelayPreType:
		return tc.PreType
	case DelayScrollPause:
		return tc.ScrollPause
	case DelayThinkingPause:
		return tc.ThinkingPause
	}
	return tc.ThinkingPause
}

// sampleDelay draws from a truncated normal. When a positive minimum is
// configured the result is never below it, and never zero or negative.
func sampleDelay(rng *rand.Rand, d DelayDistribution) time.Duration {
	ms := sampleGaussian(rng, d.MeanMs, d.StdDevMs)
	if d.MaxMs > 0 && ms > d.MaxMs {
		ms = d.MaxMs
	}
	if ms < d.MinMs {
		ms = d.MinMs
	}
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms * float64(time.Millisecond))
}
