package config

// Patch is a partial configuration update. Nil fields keep their current
// values, so a caller can retune one spring pair without restating the
// rest of the config.
type Patch struct {
	ScrollSpring   *SpringConfig      `yaml:"scroll_spring"`
	ScrubberSpring *SpringConfig      `yaml:"scrubber_spring"`
	Labels         *LabelConfig       `yaml:"label_animation"`
	Minimode       *MinimodeConfig    `yaml:"minimode"`
	Snap           *SnapConfig        `yaml:"snap"`
	Performance    *PerformanceConfig `yaml:"performance"`
	Debug          *bool              `yaml:"debug"`
}

// Apply merges p over c and returns the merged copy, validated. c itself
// is never modified, so a failed patch leaves the running config intact.
func (c *Config) Apply(p Patch) (*Config, error) {
	out := *c
	if p.ScrollSpring != nil {
		out.ScrollSpring = *p.ScrollSpring
	}
	if p.ScrubberSpring != nil {
		out.ScrubberSpring = *p.ScrubberSpring
	}
	if p.Labels != nil {
		out.Labels = *p.Labels
	}
	if p.Minimode != nil {
		out.Minimode = *p.Minimode
	}
	if p.Snap != nil {
		out.Snap = *p.Snap
	}
	if p.Performance != nil {
		out.Performance = *p.Performance
	}
	if p.Debug != nil {
		out.Debug = *p.Debug
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
