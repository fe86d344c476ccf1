package humanoid

import (
	"math"
	"math/rand"
)

// Config holds the parameters defining the behavior simulation. Mean/StdDev
// pairs describe the population; Finalize samples the per-session instance
// values from them so every session behaves like a distinct person.
type Config struct {
	// Fitts's Law movement-time parameters (milliseconds).
	FittsAMean   float64 `mapstructure:"fitts_a_mean" yaml:"fitts_a_mean"`
	FittsAStdDev float64 `mapstructure:"fitts_a_std_dev" yaml:"fitts_a_std_dev"`
	FittsBMean   float64 `mapstructure:"fitts_b_mean" yaml:"fitts_b_mean"`
	FittsBStdDev float64 `mapstructure:"fitts_b_std_dev" yaml:"fitts_b_std_dev"`

	// Noise and tremor.
	GaussianStrengthMean   float64 `mapstructure:"gaussian_strength_mean" yaml:"gaussian_strength_mean"`
	GaussianStrengthStdDev float64 `mapstructure:"gaussian_strength_std_dev" yaml:"gaussian_strength_std_dev"`
	PerlinAmplitudeMean    float64 `mapstructure:"perlin_amplitude_mean" yaml:"perlin_amplitude_mean"`
	PerlinAmplitudeStdDev  float64 `mapstructure:"perlin_amplitude_std_dev" yaml:"perlin_amplitude_std_dev"`
	ClickNoiseMean         float64 `mapstructure:"click_noise_mean" yaml:"click_noise_mean"`
	ClickNoiseStdDev       float64 `mapstructure:"click_noise_std_dev" yaml:"click_noise_std_dev"`

	// Typing behavior.
	TypoRateMean    float64 `mapstructure:"typo_rate_mean" yaml:"typo_rate_mean"`
	TypoRateStdDev  float64 `mapstructure:"typo_rate_std_dev" yaml:"typo_rate_std_dev"`
	KeyHoldMeanMs   float64 `mapstructure:"key_hold_mean_ms" yaml:"key_hold_mean_ms"`
	KeyHoldStdDevMs float64 `mapstructure:"key_hold_std_dev_ms" yaml:"key_hold_std_dev_ms"`

	// Sampled per-session instance parameters (set by Finalize, never read
	// from configuration).
	FittsA           float64 `mapstructure:"-" yaml:"-"`
	FittsB           float64 `mapstructure:"-" yaml:"-"`
	GaussianStrength float64 `mapstructure:"-" yaml:"-"`
	PerlinAmplitude  float64 `mapstructure:"-" yaml:"-"`
	ClickNoise       float64 `mapstructure:"-" yaml:"-"`
	TypoRate         float64 `mapstructure:"-" yaml:"-"`
	KeyHoldMean      float64 `mapstructure:"-" yaml:"-"`
	KeyHoldStdDev    float64 `mapstructure:"-" yaml:"-"`

	// Hard path bounds. Every generated pointer path respects these as
	// invariants regardless of the sampled persona.
	MaxOvershoot      float64 `mapstructure:"max_overshoot" yaml:"max_overshoot"`
	MinPathDurationMs float64 `mapstructure:"min_path_duration_ms" yaml:"min_path_duration_ms"`
	MaxPathDurationMs float64 `mapstructure:"max_path_duration_ms" yaml:"max_path_duration_ms"`
	MinStepDelayMs    float64 `mapstructure:"min_step_delay_ms" yaml:"min_step_delay_ms"`
	MaxStepDelayMs    float64 `mapstructure:"max_step_delay_ms" yaml:"max_step_delay_ms"`

	// Clicking behavior.
	ClickHoldMinMs int `mapstructure:"click_hold_min_ms" yaml:"click_hold_min_ms"`
	ClickHoldMaxMs int `mapstructure:"click_hold_max_ms" yaml:"click_hold_max_ms"`

	// Inter-keystroke delay parameters (milliseconds).
	KeyPauseMean          float64 `mapstructure:"key_pause_mean" yaml:"key_pause_mean"`
	KeyPauseStdDev        float64 `mapstructure:"key_pause_std_dev" yaml:"key_pause_std_dev"`
	KeyPauseMin           float64 `mapstructure:"key_pause_min" yaml:"key_pause_min"`
	KeyPauseMax           float64 `mapstructure:"key_pause_max" yaml:"key_pause_max"`
	KeyPauseNgramFactor2  float64 `mapstructure:"key_pause_ngram_factor2" yaml:"key_pause_ngram_factor2"`
	KeyPauseNgramFactor3  float64 `mapstructure:"key_pause_ngram_factor3" yaml:"key_pause_ngram_factor3"`
	KeyPauseFatigueFactor float64 `mapstructure:"key_pause_fatigue_factor" yaml:"key_pause_fatigue_factor"`

	// Word-boundary think pauses.
	ThinkPauseProbability float64 `mapstructure:"think_pause_probability" yaml:"think_pause_probability"`
	ThinkPauseMinMs       float64 `mapstructure:"think_pause_min_ms" yaml:"think_pause_min_ms"`
	ThinkPauseMaxMs       float64 `mapstructure:"think_pause_max_ms" yaml:"think_pause_max_ms"`

	// Typo class probabilities, conditional on a typo occurring. Normalized
	// to sum to 1 by NormalizeTypoRates.
	TypoNeighborRate  float64 `mapstructure:"typo_neighbor_rate" yaml:"typo_neighbor_rate"`
	TypoTransposeRate float64 `mapstructure:"typo_transpose_rate" yaml:"typo_transpose_rate"`
	TypoOmissionRate  float64 `mapstructure:"typo_omission_rate" yaml:"typo_omission_rate"`
	TypoInsertionRate float64 `mapstructure:"typo_insertion_rate" yaml:"typo_insertion_rate"`
	// TypoCorrectionPauseScale stretches the pause taken before noticing
	// and fixing a typo, relative to a normal inter-key pause.
	TypoCorrectionPauseScale float64 `mapstructure:"typo_correction_pause_scale" yaml:"typo_correction_pause_scale"`

	// Scrolling behavior.
	ScrollStepMin               int     `mapstructure:"scroll_step_min" yaml:"scroll_step_min"`
	ScrollStepMax               int     `mapstructure:"scroll_step_max" yaml:"scroll_step_max"`
	ScrollOvershootProbability  float64 `mapstructure:"scroll_overshoot_probability" yaml:"scroll_overshoot_probability"`
	ScrollRegressionProbability float64 `mapstructure:"scroll_regression_probability" yaml:"scroll_regression_probability"`

	// Fatigue model.
	FatigueIncreaseRate float64 `mapstructure:"fatigue_increase_rate" yaml:"fatigue_increase_rate"`
	FatigueRecoveryRate float64 `mapstructure:"fatigue_recovery_rate" yaml:"fatigue_recovery_rate"`
}

// DefaultConfig returns a configuration representing an average user.
func DefaultConfig() Config {
	c := Config{
		FittsAMean: 100.0, FittsAStdDev: 15.0,
		FittsBMean: 120.0, FittsBStdDev: 20.0,
		GaussianStrengthMean: 0.5, GaussianStrengthStdDev: 0.1,
		PerlinAmplitudeMean: 2.5, PerlinAmplitudeStdDev: 0.5,
		ClickNoiseMean: 2.0, ClickNoiseStdDev: 0.5,
		TypoRateMean: 0.04, TypoRateStdDev: 0.01,
		KeyHoldMeanMs: 55.0, KeyHoldStdDevMs: 15.0,

		MaxOvershoot:      40.0,
		MinPathDurationMs: 80.0,
		MaxPathDurationMs: 2500.0,
		MinStepDelayMs:    2.0,
		MaxStepDelayMs:    40.0,

		ClickHoldMinMs: 50, ClickHoldMaxMs: 120,

		KeyPauseMean:          70.0,
		KeyPauseStdDev:        28.0,
		KeyPauseMin:           35.0,
		KeyPauseMax:           400.0,
		KeyPauseNgramFactor2:  0.7,
		KeyPauseNgramFactor3:  0.55,
		KeyPauseFatigueFactor: 0.3,

		ThinkPauseProbability: 0.12,
		ThinkPauseMinMs:       300.0,
		ThinkPauseMaxMs:       900.0,

		TypoNeighborRate:         0.40,
		TypoTransposeRate:        0.25,
		TypoOmissionRate:         0.20,
		TypoInsertionRate:        0.15,
		TypoCorrectionPauseScale: 1.8,

		ScrollStepMin:               80,
		ScrollStepMax:               260,
		ScrollOvershootProbability:  0.25,
		ScrollRegressionProbability: 0.10,

		FatigueIncreaseRate: 0.005,
		FatigueRecoveryRate: 0.01,
	}
	c.NormalizeTypoRates()
	return c
}

// Finalize samples the fixed per-session instance parameters. A nil rng
// pins every parameter to its mean, which tests rely on.
func (c *Config) Finalize(rng *rand.Rand) {
	c.FittsA = sampleGaussian(rng, c.FittsAMean, c.FittsAStdDev)
	c.FittsB = sampleGaussian(rng, c.FittsBMean, c.FittsBStdDev)
	c.GaussianStrength = sampleGaussian(rng, c.GaussianStrengthMean, c.GaussianStrengthStdDev)
	c.PerlinAmplitude = sampleGaussian(rng, c.PerlinAmplitudeMean, c.PerlinAmplitudeStdDev)
	c.ClickNoise = sampleGaussian(rng, c.ClickNoiseMean, c.ClickNoiseStdDev)
	c.TypoRate = sampleGaussian(rng, c.TypoRateMean, c.TypoRateStdDev)
	c.KeyHoldMean = sampleGaussian(rng, c.KeyHoldMeanMs, c.KeyHoldStdDevMs)
	c.KeyHoldStdDev = c.KeyHoldStdDevMs

	// Keep the sampled persona inside plausible human bounds.
	c.FittsA = math.Max(20.0, c.FittsA)
	c.FittsB = math.Max(40.0, c.FittsB)
	c.GaussianStrength = math.Max(0.0, c.GaussianStrength)
	c.PerlinAmplitude = math.Max(0.0, c.PerlinAmplitude)
	c.ClickNoise = math.Max(0.0, c.ClickNoise)
	c.TypoRate = math.Max(0.0, math.Min(0.25, c.TypoRate))
	c.KeyHoldMean = math.Max(20.0, c.KeyHoldMean)

	if c.ClickHoldMaxMs <= c.ClickHoldMinMs {
		c.ClickHoldMaxMs = c.ClickHoldMinMs + 1
	}
	if c.MaxPathDurationMs <= c.MinPathDurationMs {
		c.MaxPathDurationMs = c.MinPathDurationMs + 1
	}
	if c.KeyPauseMax <= c.KeyPauseMin {
		c.KeyPauseMax = c.KeyPauseMin + 1
	}
}

// NormalizeTypoRates ensures the conditional typo class probabilities sum
// to 1 so class selection is a clean draw.
func (c *Config) NormalizeTypoRates() {
	total := c.TypoNeighborRate + c.TypoTransposeRate + c.TypoOmissionRate + c.TypoInsertionRate
	if total <= 1e-9 {
		c.TypoNeighborRate = 0.25
		c.TypoTransposeRate = 0.25
		c.TypoOmissionRate = 0.25
		c.TypoInsertionRate = 0.25
		return
	}
	c.TypoNeighborRate /= total
	c.TypoTransposeRate /= total
	c.TypoOmissionRate /= total
	c.TypoInsertionRate /= total
}

func sampleGaussian(rng *rand.Rand, mean, stdDev float64) float64 {
	if rng == nil {
		return mean
	}
	return mean + rng.NormFloat64()*stdDev
}
