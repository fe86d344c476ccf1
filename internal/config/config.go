// Package config holds the viper-backed application configuration. Every
// numeric threshold and distribution the interaction core consumes lives
// here; nothing behavioral is hard-coded at the call sites.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/wayfarer/internal/humanoid"
	"github.com/xkilldash9x/wayfarer/internal/interact"
	"github.com/xkilldash9x/wayfarer/internal/locate"
)

// Interface is the read surface handed to consumers, allowing mocking in
// tests and keeping mutation at the composition root.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Locate() locate.Config
	Humanoid() humanoid.Config
	Timing() humanoid.TimingConfig
	Interact() interact.Config
	Session() SessionConfig

	// CLI flag overrides applied after unmarshal.
	SetBrowserHeadless(bool)
	SetLocateCacheEnabled(bool)
	SetInteractSimulateTypos(bool)
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to terminal colors for the console encoder.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig controls the chromedp browser the sessions attach to.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	WindowWidth       int           `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight      int           `mapstructure:"window_height" yaml:"window_height"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// SessionConfig bounds a logical session's pacing.
type SessionConfig struct {
	// ActionsPerSecond is the rate ceiling guarding against runaway
	// workflow loops issuing inhumanly fast sequences.
	ActionsPerSecond float64 `mapstructure:"actions_per_second" yaml:"actions_per_second"`
	// ActionBurst is the limiter's burst allowance.
	ActionBurst int `mapstructure:"action_burst" yaml:"action_burst"`
}

// Config is the root configuration tree.
type Config struct {
	LoggerCfg   LoggerConfig           `mapstructure:"logger" yaml:"logger"`
	BrowserCfg  BrowserConfig          `mapstructure:"browser" yaml:"browser"`
	LocateCfg   locate.Config          `mapstructure:"locate" yaml:"locate"`
	HumanoidCfg humanoid.Config        `mapstructure:"humanoid" yaml:"humanoid"`
	TimingCfg   humanoid.TimingConfig  `mapstructure:"timing" yaml:"timing"`
	InteractCfg interact.Config        `mapstructure:"interact" yaml:"interact"`
	SessionCfg  SessionConfig          `mapstructure:"session" yaml:"session"`
}

func (c *Config) Logger() LoggerConfig             { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig           { return c.BrowserCfg }
func (c *Config) Locate() locate.Config            { return c.LocateCfg }
func (c *Config) Humanoid() humanoid.Config        { return c.HumanoidCfg }
func (c *Config) Timing() humanoid.TimingConfig    { return c.TimingCfg }
func (c *Config) Interact() interact.Config        { return c.InteractCfg }
func (c *Config) Session() SessionConfig           { return c.SessionCfg }

func (c *Config) SetBrowserHeadless(b bool)      { c.BrowserCfg.Headless = b }
func (c *Config) SetLocateCacheEnabled(b bool)   { c.LocateCfg.CacheEnabled = b }
func (c *Config) SetInteractSimulateTypos(b bool) { c.InteractCfg.SimulateTypos = b }

// Default returns the full default tree, which SetDefaults also registers
// with viper so a missing config file still yields a working setup.
func Default() Config {
	return Config{
		LoggerCfg: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "wayfarer",
			MaxSize:     50,
			MaxBackups:  3,
			MaxAge:      14,
			Colors: ColorConfig{
				Debug: "cyan", Info: "green", Warn: "yellow",
				Error: "red", DPanic: "magenta", Panic: "magenta", Fatal: "red",
			},
		},
		BrowserCfg: BrowserConfig{
			Headless:          true,
			WindowWidth:       1920,
			WindowHeight:      1080,
			NavigationTimeout: 45 * time.Second,
		},
		LocateCfg:   locate.DefaultConfig(),
		HumanoidCfg: humanoid.DefaultConfig(),
		TimingCfg:   humanoid.DefaultTimingConfig(),
		InteractCfg: interact.DefaultConfig(),
		SessionCfg: SessionConfig{
			ActionsPerSecond: 2.0,
			ActionBurst:      4,
		},
	}
}

// SetDefaults seeds viper with the default tree so Unmarshal fills gaps.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("logger.level", d.LoggerCfg.Level)
	v.SetDefault("logger.format", d.LoggerCfg.Format)
	v.SetDefault("logger.service_name", d.LoggerCfg.ServiceName)
	v.SetDefault("logger.max_size", d.LoggerCfg.MaxSize)
	v.SetDefault("logger.max_backups", d.LoggerCfg.MaxBackups)
	v.SetDefault("logger.max_age", d.LoggerCfg.MaxAge)
	v.SetDefault("browser.headless", d.BrowserCfg.Headless)
	v.SetDefault("browser.window_width", d.BrowserCfg.WindowWidth)
	v.SetDefault("browser.window_height", d.BrowserCfg.WindowHeight)
	v.SetDefault("browser.navigation_timeout", d.BrowserCfg.NavigationTimeout)
	v.SetDefault("locate.smart_attribute_threshold", d.LocateCfg.SmartAttributeThreshold)
	v.SetDefault("locate.heuristic_threshold", d.LocateCfg.HeuristicThreshold)
	v.SetDefault("locate.fuzzy_min_overlap", d.LocateCfg.FuzzyMinOverlap)
	v.SetDefault("locate.default_timeout", d.LocateCfg.DefaultTimeout)
	v.SetDefault("locate.cache_ttl", d.LocateCfg.CacheTTL)
	v.SetDefault("locate.weights.tag_affinity", d.LocateCfg.Weights.TagAffinity)
	v.SetDefault("locate.weights.size_plausibility", d.LocateCfg.Weights.SizePlausibility)
	v.SetDefault("locate.weights.keyword_affinity", d.LocateCfg.Weights.KeywordAffinity)
	v.SetDefault("locate.weights.position", d.LocateCfg.Weights.Position)
	v.SetDefault("humanoid.fitts_a_mean", d.HumanoidCfg.FittsAMean)
	v.SetDefault("humanoid.fitts_a_std_dev", d.HumanoidCfg.FittsAStdDev)
	v.SetDefault("humanoid.fitts_b_mean", d.HumanoidCfg.FittsBMean)
	v.SetDefault("humanoid.fitts_b_std_dev", d.HumanoidCfg.FittsBStdDev)
	v.SetDefault("humanoid.gaussian_strength_mean", d.HumanoidCfg.GaussianStrengthMean)
	v.SetDefault("humanoid.gaussian_strength_std_dev", d.HumanoidCfg.GaussianStrengthStdDev)
	v.SetDefault("humanoid.perlin_amplitude_mean", d.HumanoidCfg.PerlinAmplitudeMean)
	v.SetDefault("humanoid.perlin_amplitude_std_dev", d.HumanoidCfg.PerlinAmplitudeStdDev)
	v.SetDefault("humanoid.click_noise_mean", d.HumanoidCfg.ClickNoiseMean)
	v.SetDefault("humanoid.click_noise_std_dev", d.HumanoidCfg.ClickNoiseStdDev)
	v.SetDefault("humanoid.typo_rate_mean", d.HumanoidCfg.TypoRateMean)
	v.SetDefault("humanoid.typo_rate_std_dev", d.HumanoidCfg.TypoRateStdDev)
	v.SetDefault("humanoid.key_hold_mean_ms", d.HumanoidCfg.KeyHoldMeanMs)
	v.SetDefault("humanoid.key_hold_std_dev_ms", d.HumanoidCfg.KeyHoldStdDevMs)
	v.SetDefault("humanoid.max_overshoot", d.HumanoidCfg.MaxOvershoot)
	v.SetDefault("humanoid.min_path_duration_ms", d.HumanoidCfg.MinPathDurationMs)
	v.SetDefault("humanoid.max_path_duration_ms", d.HumanoidCfg.MaxPathDurationMs)
	v.SetDefault("humanoid.min_step_delay_ms", d.HumanoidCfg.MinStepDelayMs)
	v.SetDefault("humanoid.max_step_delay_ms", d.HumanoidCfg.MaxStepDelayMs)
	v.SetDefault("humanoid.click_hold_min_ms", d.HumanoidCfg.ClickHoldMinMs)
	v.SetDefault("humanoid.click_hold_max_ms", d.HumanoidCfg.ClickHoldMaxMs)
	v.SetDefault("humanoid.key_pause_mean", d.HumanoidCfg.KeyPauseMean)
	v.SetDefault("humanoid.key_pause_std_dev", d.HumanoidCfg.KeyPauseStdDev)
	v.SetDefault("humanoid.key_pause_min", d.HumanoidCfg.KeyPauseMin)
	v.SetDefault("humanoid.key_pause_max", d.HumanoidCfg.KeyPauseMax)
	v.SetDefault("humanoid.key_pause_ngram_factor2", d.HumanoidCfg.KeyPauseNgramFactor2)
	v.SetDefault("humanoid.key_pause_ngram_factor3", d.HumanoidCfg.KeyPauseNgramFactor3)
	v.SetDefault("humanoid.key_pause_fatigue_factor", d.HumanoidCfg.KeyPauseFatigueFactor)
	v.SetDefault("humanoid.think_pause_probability", d.HumanoidCfg.ThinkPauseProbability)
	v.SetDefault("humanoid.think_pause_min_ms", d.HumanoidCfg.ThinkPauseMinMs)
	v.SetDefault("humanoid.think_pause_max_ms", d.HumanoidCfg.ThinkPauseMaxMs)
	v.SetDefault("humanoid.typo_neighbor_rate", d.HumanoidCfg.TypoNeighborRate)
	v.SetDefault("humanoid.typo_transpose_rate", d.HumanoidCfg.TypoTransposeRate)
	v.SetDefault("humanoid.typo_omission_rate", d.HumanoidCfg.TypoOmissionRate)
	v.SetDefault("humanoid.typo_insertion_rate", d.HumanoidCfg.TypoInsertionRate)
	v.SetDefault("humanoid.typo_correction_pause_scale", d.HumanoidCfg.TypoCorrectionPauseScale)
	v.SetDefault("humanoid.scroll_step_min", d.HumanoidCfg.ScrollStepMin)
	v.SetDefault("humanoid.scroll_step_max", d.HumanoidCfg.ScrollStepMax)
	v.SetDefault("humanoid.scroll_overshoot_probability", d.HumanoidCfg.ScrollOvershootProbability)
	v.SetDefault("humanoid.scroll_regression_probability", d.HumanoidCfg.ScrollRegressionProbability)
	v.SetDefault("humanoid.fatigue_increase_rate", d.HumanoidCfg.FatigueIncreaseRate)
	v.SetDefault("humanoid.fatigue_recovery_rate", d.HumanoidCfg.FatigueRecoveryRate)
	setDelayDefaults(v, "timing.pre_click", d.TimingCfg.PreClick)
	setDelayDefaults(v, "timing.post_click", d.TimingCfg.PostClick)
	setDelayDefaults(v, "timing.pre_type", d.TimingCfg.PreType)
	setDelayDefaults(v, "timing.scroll_pause", d.TimingCfg.ScrollPause)
	setDelayDefaults(v, "timing.thinking_pause", d.TimingCfg.ThinkingPause)
	v.SetDefault("interact.simulate_typos", d.InteractCfg.SimulateTypos)
	v.SetDefault("interact.max_scroll_iterations", d.InteractCfg.MaxScrollIterations)
	v.SetDefault("interact.readable_band_top", d.InteractCfg.ReadableBandTop)
	v.SetDefault("interact.readable_band_bottom", d.InteractCfg.ReadableBandBottom)
	v.SetDefault("session.actions_per_second", d.SessionCfg.ActionsPerSecond)
	v.SetDefault("session.action_burst", d.SessionCfg.ActionBurst)
}

func setDelayDefaults(v *viper.Viper, prefix string, d humanoid.DelayDistribution) {
	v.SetDefault(prefix+".mean_ms", d.MeanMs)
	v.SetDefault(prefix+".std_dev_ms", d.StdDevMs)
	v.SetDefault(prefix+".min_ms", d.MinMs)
	v.SetDefault(prefix+".max_ms", d.MaxMs)
}

// Load unmarshals the viper tree into a Config on top of the defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the core cannot honor.
func (c *Config) Validate() error {
	if c.LocateCfg.SmartAttributeThreshold < 0 || c.LocateCfg.SmartAttributeThreshold > 1 {
		return fmt.Errorf("locate.smart_attribute_threshold must be in [0,1], got %v",
			c.LocateCfg.SmartAttributeThreshold)
	}
	if c.LocateCfg.HeuristicThreshold < 0 || c.LocateCfg.HeuristicThreshold > 1 {
		return fmt.Errorf("locate.heuristic_threshold must be in [0,1], got %v",
			c.LocateCfg.HeuristicThreshold)
	}
	if c.HumanoidCfg.MinPathDurationMs <= 0 || c.HumanoidCfg.MaxPathDurationMs < c.HumanoidCfg.MinPathDurationMs {
		return fmt.Errorf("humanoid path duration bounds invalid: min=%v max=%v",
			c.HumanoidCfg.MinPathDurationMs, c.HumanoidCfg.MaxPathDurationMs)
	}
	if c.SessionCfg.ActionsPerSecond <= 0 {
		return fmt.Errorf("session.actions_per_second must be positive, got %v",
			c.SessionCfg.ActionsPerSecond)
	}
	return nil
}

var _ Interface = (*Config)(nil)
