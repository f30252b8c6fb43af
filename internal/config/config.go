package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/detsim/internal/detector"
	"github.com/san-kum/detsim/internal/histogram"
	"github.com/san-kum/detsim/internal/resolution"
)

const (
	DefaultSeed     = 1234
	DefaultFormat   = "root"
	DefaultOutput   = "plots"
	DefaultWidthCm  = 40.0
	DefaultHeightCm = 25.0
	DefaultFontSize = 24.0
	DefaultAlpha    = 0.5
)

type Config struct {
	Name        string                    `yaml:"name"`
	Seed        uint64                    `yaml:"seed"`
	Input       InputConfig               `yaml:"input"`
	Output      string                    `yaml:"output"`
	Channels    []ChannelConfig           `yaml:"channels"`
	Detectors   map[string]DetectorConfig `yaml:"detectors,omitempty"`
	Coincidence *CoincidenceConfig        `yaml:"coincidence,omitempty"`
	Timing      *TimingConfig             `yaml:"timing,omitempty"`
	Views       []ViewConfig              `yaml:"views"`
	Markers     []MarkerConfig            `yaml:"markers,omitempty"`
	Style       StyleConfig               `yaml:"style"`
}

type InputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

type ChannelConfig struct {
	Name string `yaml:"name"`
	// Tree is the ntuple holding the channel; defaults to Name.
	Tree     string `yaml:"tree,omitempty"`
	Energy   string `yaml:"energy"`
	Time     string `yaml:"time,omitempty"`
	Unit     string `yaml:"unit"`
	Detector string `yaml:"detector"`
	Color    string `yaml:"color,omitempty"`
}

// DetectorConfig declares resolution coefficients not covered by a preset.
type DetectorConfig struct {
	A     float64 `yaml:"a"`
	B     float64 `yaml:"b"`
	C     float64 `yaml:"c"`
	Unit  string  `yaml:"unit"`
	Width string  `yaml:"width,omitempty"`
}

type CoincidenceConfig struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
	// Window is the maximum |tA - tB| in nanoseconds.
	Window float64           `yaml:"window"`
	X      histogram.Binning `yaml:"x"`
	Y      histogram.Binning `yaml:"y"`
	// Difference bins the tA - tB timing spectrum; skipped when zero.
	Difference histogram.Binning `yaml:"difference,omitempty"`
}

// TimingConfig bins each channel's timestamps from Min up to the latest event.
type TimingConfig struct {
	Min   float64 `yaml:"min"`
	Count int     `yaml:"count"`
	LogY  bool    `yaml:"log_y"`
}

type ViewConfig struct {
	Name              string `yaml:"name"`
	histogram.Binning `yaml:",inline"`
	LogY              bool `yaml:"log_y"`
	NoMarkers         bool `yaml:"no_markers,omitempty"`
}

type MarkerConfig struct {
	Position float64 `yaml:"position"`
	Label    string  `yaml:"label"`
	Color    string  `yaml:"color"`
	// Offset shifts the label along x, in data units.
	Offset float64 `yaml:"offset,omitempty"`
}

type StyleConfig struct {
	WidthCm   float64 `yaml:"width_cm"`
	HeightCm  float64 `yaml:"height_cm"`
	FontSize  float64 `yaml:"font_size"`
	FillAlpha float64 `yaml:"fill_alpha"`
	Grid      bool    `yaml:"grid"`
	Theme     string  `yaml:"theme,omitempty"`
}

func DefaultStyle() StyleConfig {
	return StyleConfig{
		WidthCm:   DefaultWidthCm,
		HeightCm:  DefaultHeightCm,
		FontSize:  DefaultFontSize,
		FillAlpha: DefaultAlpha,
		Grid:      true,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Name:   "default",
		Seed:   DefaultSeed,
		Input:  InputConfig{Format: DefaultFormat},
		Output: DefaultOutput,
		Style:  DefaultStyle(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

// Channel returns the channel configuration with the given name.
func (c *Config) Channel(name string) (ChannelConfig, bool) {
	for _, ch := range c.Channels {
		if ch.Name == name {
			return ch, true
		}
	}
	return ChannelConfig{}, false
}

// Model resolves a detector name against the inline detectors first and the
// built-in presets second.
func (c *Config) Model(name string) (resolution.Model, error) {
	if d, ok := c.Detectors[name]; ok {
		unit, err := detector.ParseUnit(d.Unit)
		if err != nil {
			return resolution.Model{}, err
		}
		width := resolution.WidthFWHM
		switch strings.ToLower(d.Width) {
		case "", "fwhm":
		case "sigma":
			width = resolution.WidthSigma
		default:
			return resolution.Model{}, detector.ConfigError("detector "+name, "unknown width kind %q", d.Width)
		}
		m := resolution.Model{Name: name, A: d.A, B: d.B, C: d.C, Unit: unit, Width: width}
		return m, m.Validate()
	}
	return resolution.GetPreset(name)
}

// Validate checks the configuration before any data is read.
func (c *Config) Validate() error {
	const op = "config"
	if len(c.Channels) == 0 {
		return detector.ConfigError(op, "no channels configured")
	}

	switch c.Input.Format {
	case "root", "csv":
	default:
		return detector.ConfigError(op, "unknown input format %q", c.Input.Format)
	}

	seen := make(map[string]bool, len(c.Channels))
	for _, ch := range c.Channels {
		if ch.Name == "" {
			return detector.ConfigError(op, "channel without a name")
		}
		if seen[ch.Name] {
			return detector.ConfigError(op, "duplicate channel %q", ch.Name)
		}
		seen[ch.Name] = true

		if ch.Energy == "" {
			return detector.ConfigError(op, "channel %q has no energy column", ch.Name)
		}
		if _, err := detector.ParseUnit(ch.Unit); err != nil {
			return fmt.Errorf("channel %q: %w", ch.Name, err)
		}
		if _, err := c.Model(ch.Detector); err != nil {
			return fmt.Errorf("channel %q: %w", ch.Name, err)
		}
	}

	if len(c.Views) == 0 {
		return detector.ConfigError(op, "no views configured")
	}
	for _, v := range c.Views {
		if _, err := v.Bins(); err != nil {
			return fmt.Errorf("view %q: %w", v.Name, err)
		}
	}

	if co := c.Coincidence; co != nil {
		if co.Window < 0 {
			return detector.ConfigError(op, "coincidence window must be >= 0, got %g", co.Window)
		}
		for _, name := range []string{co.A, co.B} {
			ch, ok := c.Channel(name)
			if !ok {
				return detector.ConfigError(op, "coincidence channel %q is not configured", name)
			}
			if ch.Time == "" {
				return detector.ConfigError(op, "coincidence channel %q has no time column", name)
			}
		}
		if _, err := co.X.Bins(); err != nil {
			return fmt.Errorf("coincidence x: %w", err)
		}
		if _, err := co.Y.Bins(); err != nil {
			return fmt.Errorf("coincidence y: %w", err)
		}
		if _, err := histogram.Cells(co.X, co.Y); err != nil {
			return fmt.Errorf("coincidence: %w", err)
		}
		if co.Difference != (histogram.Binning{}) {
			if _, err := co.Difference.Bins(); err != nil {
				return fmt.Errorf("coincidence difference: %w", err)
			}
		}
	}

	if t := c.Timing; t != nil && t.Count <= 0 {
		return detector.ConfigError(op, "timing bin count must be positive, got %d", t.Count)
	}
	return nil
}
