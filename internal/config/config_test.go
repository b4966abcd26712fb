package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.ScrollSpring.K != DefaultScrollK {
		t.Errorf("expected scroll k %v, got %v", DefaultScrollK, cfg.ScrollSpring.K)
	}
	if !cfg.Performance.AutoSleep {
		t.Error("auto sleep should default on")
	}
	if cfg.Debug {
		t.Error("debug should default off")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "scroll_spring:\n  k: 0.25\n  c: 0.75\nperformance:\n  auto_sleep: false\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ScrollSpring.K != 0.25 || cfg.ScrollSpring.C != 0.75 {
		t.Errorf("scroll spring not overridden: %+v", cfg.ScrollSpring)
	}
	if cfg.Performance.AutoSleep {
		t.Error("auto_sleep: false should override the default")
	}
	if cfg.ScrubberSpring.K != DefaultScrubberK {
		t.Errorf("untouched field lost its default: %v", cfg.ScrubberSpring.K)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "scroll_spring:\n  k: 1.5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for k > 1")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.ScrollSpring.K = 0.33
	cfg.Debug = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.ScrollSpring.K != 0.33 {
		t.Errorf("expected k 0.33, got %v", loaded.ScrollSpring.K)
	}
	if !loaded.Debug {
		t.Error("debug flag lost in round trip")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero stiffness", func(c *Config) { c.ScrollSpring.K = 0 }, "scroll_spring.k"},
		{"stiffness above one", func(c *Config) { c.ScrubberSpring.K = 1.1 }, "scrubber_spring.k"},
		{"negative damping", func(c *Config) { c.Minimode.Spring.C = -0.1 }, "minimode.spring.c"},
		{"zero fade range", func(c *Config) { c.Labels.FadeRange = 0 }, "fade_range"},
		{"inverted scales", func(c *Config) { c.Labels.ScaleMin = 1.2 }, "scale_min"},
		{"minimode scale above one", func(c *Config) { c.Minimode.Scale = 1.5 }, "minimode.scale"},
		{"negative wheel threshold", func(c *Config) { c.Snap.WheelThreshold = -1 }, "wheel_threshold"},
		{"zero long section ratio", func(c *Config) { c.Snap.LongSectionRatio = 0 }, "long_section_ratio"},
		{"negative cooldown", func(c *Config) { c.Snap.Cooldown = -0.5 }, "cooldown"},
		{"zero sleep threshold", func(c *Config) { c.Performance.SleepThreshold = 0 }, "sleep_threshold"},
		{"zero max delta", func(c *Config) { c.Performance.MaxDeltaTime = 0 }, "max_delta_time"},
		{"negative debounce", func(c *Config) { c.Performance.ResizeDebounce = -1 }, "resize_debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should mention %q", err, tt.field)
			}
		})
	}
}

func TestApplyPatch(t *testing.T) {
	cfg := DefaultConfig()
	debug := true
	merged, err := cfg.Apply(Patch{
		ScrollSpring: &SpringConfig{K: 0.2, C: 0.7},
		Debug:        &debug,
	})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if merged.ScrollSpring.K != 0.2 {
		t.Errorf("patched k = %v, want 0.2", merged.ScrollSpring.K)
	}
	if !merged.Debug {
		t.Error("debug patch not applied")
	}
	if merged.ScrubberSpring != cfg.ScrubberSpring {
		t.Error("unpatched fields should carry over")
	}
	if cfg.ScrollSpring.K != DefaultScrollK {
		t.Error("Apply must not mutate the receiver")
	}
}

func TestApplyInvalidPatch(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.Apply(Patch{ScrollSpring: &SpringConfig{K: 2, C: 0.5}}); err == nil {
		t.Error("expected validation error for k > 1")
	}
	if cfg.ScrollSpring.K != DefaultScrollK {
		t.Error("failed patch must leave original untouched")
	}
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("listed preset %q not gettable", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg := GetPreset("snappy")
	cfg.ScrollSpring.K = 0.99
	if GetPreset("snappy").ScrollSpring.K == 0.99 {
		t.Error("GetPreset must return a copy")
	}
}
