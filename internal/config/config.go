// Package config holds the tunable parameters for the spring engine and
// the animation layers above it: spring coefficient pairs, label animation
// shape, minimode geometry, snap thresholds, and engine performance knobs.
// Files are YAML loaded over defaults, so a config file only needs the
// fields it changes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultScrollK          = 0.10
	DefaultScrollC          = 0.80
	DefaultScrubberK        = 0.16
	DefaultScrubberC        = 0.86
	DefaultFadeRange        = 1.2
	DefaultScaleMin         = 0.85
	DefaultScaleMax         = 1.0
	DefaultYOffsetMax       = 6.0
	DefaultMinimodeScale    = 0.90
	DefaultMinimodeY        = -18.0
	DefaultMinimodeK        = 0.12
	DefaultMinimodeC        = 0.82
	DefaultWheelThreshold   = 5.0
	DefaultLongSectionRatio = 1.1
	DefaultEdgeThreshold    = 8.0
	DefaultCooldown         = 0.7
	DefaultSleepThreshold   = 0.001
	DefaultMaxDeltaTime     = 0.1
	DefaultResizeDebounce   = 0.15
)

// SpringConfig is one stiffness/damping pair. Both coefficients live in
// (0,1] and are normalized to a 60 Hz frame.
type SpringConfig struct {
	K float64 `yaml:"k"`
	C float64 `yaml:"c"`
}

// LabelConfig shapes the per-section label animation derived from scroll
// progress.
type LabelConfig struct {
	// FadeRange is the distance, in viewport heights, over which a label
	// fades from full opacity to invisible.
	FadeRange  float64 `yaml:"fade_range"`
	ScaleMin   float64 `yaml:"scale_min"`
	ScaleMax   float64 `yaml:"scale_max"`
	YOffsetMax float64 `yaml:"y_offset_max"`
}

// MinimodeConfig describes the shrunken content presentation and the
// spring pair that animates transitions into and out of it.
type MinimodeConfig struct {
	Scale  float64      `yaml:"scale"`
	Y      float64      `yaml:"y"`
	Spring SpringConfig `yaml:"spring"`
}

// SnapConfig tunes the section snap classifier.
type SnapConfig struct {
	// WheelThreshold is the noise floor: wheel deltas below it (absolute,
	// pixels) are ignored entirely.
	WheelThreshold float64 `yaml:"wheel_threshold"`

	// LongSectionRatio is the section-height-to-viewport ratio above which
	// a section scrolls freely instead of snapping.
	LongSectionRatio float64 `yaml:"long_section_ratio"`

	// EdgeThreshold is how close, in pixels, the viewport must be to a long
	// section's edge before a further push snaps out of it.
	EdgeThreshold float64 `yaml:"edge_threshold"`

	// Cooldown is the refractory period in seconds after a snap during
	// which further gestures are swallowed.
	Cooldown float64 `yaml:"cooldown"`
}

// PerformanceConfig carries the engine-level knobs.
type PerformanceConfig struct {
	AutoSleep      bool    `yaml:"auto_sleep"`
	SleepThreshold float64 `yaml:"sleep_threshold"`
	MaxDeltaTime   float64 `yaml:"max_delta_time"`
	ResizeDebounce float64 `yaml:"resize_debounce"`
}

type Config struct {
	ScrollSpring   SpringConfig      `yaml:"scroll_spring"`
	ScrubberSpring SpringConfig      `yaml:"scrubber_spring"`
	Labels         LabelConfig       `yaml:"label_animation"`
	Minimode       MinimodeConfig    `yaml:"minimode"`
	Snap           SnapConfig        `yaml:"snap"`
	Performance    PerformanceConfig `yaml:"performance"`
	Debug          bool              `yaml:"debug"`
}

func DefaultConfig() *Config {
	return &Config{
		ScrollSpring:   SpringConfig{K: DefaultScrollK, C: DefaultScrollC},
		ScrubberSpring: SpringConfig{K: DefaultScrubberK, C: DefaultScrubberC},
		Labels: LabelConfig{
			FadeRange:  DefaultFadeRange,
			ScaleMin:   DefaultScaleMin,
			ScaleMax:   DefaultScaleMax,
			YOffsetMax: DefaultYOffsetMax,
		},
		Minimode: MinimodeConfig{
			Scale:  DefaultMinimodeScale,
			Y:      DefaultMinimodeY,
			Spring: SpringConfig{K: DefaultMinimodeK, C: DefaultMinimodeC},
		},
		Snap: SnapConfig{
			WheelThreshold:   DefaultWheelThreshold,
			LongSectionRatio: DefaultLongSectionRatio,
			EdgeThreshold:    DefaultEdgeThreshold,
			Cooldown:         DefaultCooldown,
		},
		Performance: PerformanceConfig{
			AutoSleep:      true,
			SleepThreshold: DefaultSleepThreshold,
			MaxDeltaTime:   DefaultMaxDeltaTime,
			ResizeDebounce: DefaultResizeDebounce,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func validateSpring(name string, s SpringConfig) error {
	if s.K <= 0 || s.K > 1 {
		return fmt.Errorf("config: %s.k must be in (0,1], got %v", name, s.K)
	}
	if s.C <= 0 || s.C > 1 {
		return fmt.Errorf("config: %s.c must be in (0,1], got %v", name, s.C)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validateSpring("scroll_spring", c.ScrollSpring); err != nil {
		return err
	}
	if err := validateSpring("scrubber_spring", c.ScrubberSpring); err != nil {
		return err
	}
	if err := validateSpring("minimode.spring", c.Minimode.Spring); err != nil {
		return err
	}
	if c.Labels.FadeRange <= 0 {
		return fmt.Errorf("config: label_animation.fade_range must be positive, got %v", c.Labels.FadeRange)
	}
	if c.Labels.ScaleMin <= 0 || c.Labels.ScaleMax <= 0 {
		return fmt.Errorf("config: label_animation scales must be positive")
	}
	if c.Labels.ScaleMin > c.Labels.ScaleMax {
		return fmt.Errorf("config: label_animation.scale_min %v exceeds scale_max %v", c.Labels.ScaleMin, c.Labels.ScaleMax)
	}
	if c.Minimode.Scale <= 0 || c.Minimode.Scale > 1 {
		return fmt.Errorf("config: minimode.scale must be in (0,1], got %v", c.Minimode.Scale)
	}
	if c.Snap.WheelThreshold < 0 {
		return fmt.Errorf("config: snap.wheel_threshold must not be negative, got %v", c.Snap.WheelThreshold)
	}
	if c.Snap.LongSectionRatio <= 0 {
		return fmt.Errorf("config: snap.long_section_ratio must be positive, got %v", c.Snap.LongSectionRatio)
	}
	if c.Snap.EdgeThreshold < 0 {
		return fmt.Errorf("config: snap.edge_threshold must not be negative, got %v", c.Snap.EdgeThreshold)
	}
	if c.Snap.Cooldown < 0 {
		return fmt.Errorf("config: snap.cooldown must not be negative, got %v", c.Snap.Cooldown)
	}
	if c.Performance.SleepThreshold <= 0 {
		return fmt.Errorf("config: performance.sleep_threshold must be positive, got %v", c.Performance.SleepThreshold)
	}
	if c.Performance.MaxDeltaTime <= 0 {
		return fmt.Errorf("config: performance.max_delta_time must be positive, got %v", c.Performance.MaxDeltaTime)
	}
	if c.Performance.ResizeDebounce < 0 {
		return fmt.Errorf("config: performance.resize_debounce must not be negative, got %v", c.Performance.ResizeDebounce)
	}
	return nil
}
