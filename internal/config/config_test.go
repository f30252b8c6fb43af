package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/detsim/internal/detector"
	"github.com/san-kum/detsim/internal/histogram"
	"github.com/san-kum/detsim/internal/resolution"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Seed != DefaultSeed {
		t.Errorf("expected seed %d, got %d", DefaultSeed, cfg.Seed)
	}
	if cfg.Input.Format != "root" {
		t.Errorf("expected root input, got %s", cfg.Input.Format)
	}
	if cfg.Style.WidthCm <= 0 || cfg.Style.HeightCm <= 0 {
		t.Error("figure size should be positive")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s: got nil", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("psi-coincidence")
	a.Coincidence.Window = 99

	b := GetPreset("psi-coincidence")
	if b.Coincidence.Window != 0.1 {
		t.Errorf("preset shared state: window %g", b.Coincidence.Window)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	cfg := GetPreset("hpge-osu")
	cfg.Seed = 77
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Seed != 77 {
		t.Errorf("expected seed 77, got %d", loaded.Seed)
	}
	if len(loaded.Views) != 5 {
		t.Fatalf("expected 5 views, got %d", len(loaded.Views))
	}
	if loaded.Views[2].Min != 3 || loaded.Views[2].Width != 0.02 || !loaded.Views[2].LogY {
		t.Errorf("view not round-tripped: %+v", loaded.Views[2])
	}
	if len(loaded.Markers) != 4 || loaded.Markers[1].Label != "Ge K edge x ray" {
		t.Errorf("markers not round-tripped: %+v", loaded.Markers)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestModelInlineDetector(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detectors = map[string]DetectorConfig{
		"bgo": {A: 0.05, B: 0.09, Unit: "MeV", Width: "sigma"},
	}

	m, err := cfg.Model("bgo")
	if err != nil {
		t.Fatalf("model failed: %v", err)
	}
	if m.Width != resolution.WidthSigma || m.Unit != detector.MeV {
		t.Errorf("unexpected model %+v", m)
	}

	if _, err := cfg.Model("labr3"); err != nil {
		t.Errorf("expected preset fallback, got %v", err)
	}

	cfg.Detectors["bad"] = DetectorConfig{A: 1, Unit: "MeV", Width: "hwhm"}
	if _, err := cfg.Model("bad"); !errors.Is(err, detector.ErrConfig) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no channels", func(c *Config) { c.Channels = nil }},
		{"format", func(c *Config) { c.Input.Format = "hdf5" }},
		{"unit", func(c *Config) { c.Channels[0].Unit = "eV" }},
		{"detector", func(c *Config) { c.Channels[0].Detector = "unknown" }},
		{"duplicate", func(c *Config) { c.Channels[1].Name = c.Channels[0].Name }},
		{"negative window", func(c *Config) { c.Coincidence.Window = -1 }},
		{"missing channel", func(c *Config) { c.Coincidence.B = "NaI" }},
		{"no time", func(c *Config) { c.Channels[1].Time = "" }},
		{"view range", func(c *Config) { c.Views[0].Max = c.Views[0].Min }},
		{"no views", func(c *Config) { c.Views = nil }},
		{"coincidence bins", func(c *Config) { c.Coincidence.X.Count = 0 }},
		{"coincidence cells", func(c *Config) {
			c.Coincidence.X = histogram.Binning{Min: 0, Max: 1, Count: histogram.MaxBins}
			c.Coincidence.Y = histogram.Binning{Min: 0, Max: 1, Count: histogram.MaxBins}
		}},
		{"timing", func(c *Config) { c.Timing.Count = 0 }},
	}

	for _, tt := range tests {
		cfg := GetPreset("psi-coincidence")
		tt.modify(cfg)
		if err := cfg.Validate(); !errors.Is(err, detector.ErrConfig) {
			t.Errorf("%s: expected config error, got %v", tt.name, err)
		}
	}
}

func TestCoincidencePresetDetectors(t *testing.T) {
	cfg := GetPreset("psi-coincidence")

	want := map[string]string{"LaBr3": "labr3", "CeBr3": "nai-3x3"}
	for name, det := range want {
		ch, ok := cfg.Channel(name)
		if !ok {
			t.Fatalf("channel %s missing", name)
		}
		if ch.Detector != det {
			t.Errorf("%s: expected detector %s, got %s", name, det, ch.Detector)
		}
	}
}
