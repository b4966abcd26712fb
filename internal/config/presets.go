package config

import "slices"

// Presets are named animation feels. Each is a complete, valid config.
var Presets = map[string]*Config{
	"default":  DefaultConfig(),
	"snappy":   snappy(),
	"floaty":   floaty(),
	"molasses": molasses(),
}

func snappy() *Config {
	cfg := DefaultConfig()
	cfg.ScrollSpring = SpringConfig{K: 0.22, C: 0.78}
	cfg.ScrubberSpring = SpringConfig{K: 0.30, C: 0.80}
	cfg.Minimode.Spring = SpringConfig{K: 0.24, C: 0.80}
	cfg.Snap.Cooldown = 0.45
	return cfg
}

func floaty() *Config {
	cfg := DefaultConfig()
	cfg.ScrollSpring = SpringConfig{K: 0.05, C: 0.90}
	cfg.ScrubberSpring = SpringConfig{K: 0.08, C: 0.90}
	cfg.Minimode.Spring = SpringConfig{K: 0.06, C: 0.90}
	cfg.Labels.FadeRange = 1.5
	return cfg
}

func molasses() *Config {
	cfg := DefaultConfig()
	cfg.ScrollSpring = SpringConfig{K: 0.02, C: 0.96}
	cfg.ScrubberSpring = SpringConfig{K: 0.03, C: 0.95}
	cfg.Minimode.Spring = SpringConfig{K: 0.02, C: 0.96}
	cfg.Snap.Cooldown = 1.2
	return cfg
}

// GetPreset returns a copy of the named preset, or nil if unknown.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

// ListPresets returns the preset names sorted.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
