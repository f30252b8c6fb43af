package config

import (
	"sort"

	"github.com/san-kum/detsim/internal/histogram"
)

// hpgeMarkers are the reference lines of the 68.75 keV HPGe measurement.
func hpgeMarkers() []MarkerConfig {
	const (
		line   = 68.754
		geEdge = 11.104
		gaEdge = 10.368
	)
	return []MarkerConfig{
		{Position: line, Label: "68.75 keV", Color: "#ff0000", Offset: -0.7},
		{Position: geEdge, Label: "Ge K edge x ray", Color: "#ffa500", Offset: 2.1},
		{Position: gaEdge, Label: "Ga K edge x ray", Color: "#008000", Offset: -0.4},
		{Position: line - geEdge, Label: "68.75 keV - Ge K edge x ray", Color: "#800080", Offset: 1.5},
	}
}

func hpgeView(name string, lo, hi float64) ViewConfig {
	return ViewConfig{Name: name, Binning: histogram.Binning{Min: lo, Max: hi, Width: 0.02}, LogY: true}
}

var Presets = map[string]func() *Config{
	"hpge-osu": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "hpge-osu"
		cfg.Input = InputConfig{Path: "5E8.root", Format: "root"}
		cfg.Channels = []ChannelConfig{
			{Name: "HPGe", Tree: "Energy", Energy: "fEdep", Unit: "keV", Detector: "hpge-2cc", Color: "#0000ff"},
		}
		cfg.Views = []ViewConfig{
			hpgeView("full", 1e-3, 1000),
			hpgeView("zoomed1", 1e-3, 100),
			hpgeView("zoomed2", 3, 17),
			hpgeView("zoomed3", 50, 70),
			hpgeView("zoomed4", 30, 70),
		}
		cfg.Markers = hpgeMarkers()
		cfg.Style.FontSize = 42
		return cfg
	},
	"cdte-psi": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "cdte-psi"
		cfg.Input = InputConfig{Path: "test.root", Format: "root"}
		cfg.Channels = []ChannelConfig{
			{Name: "CdTe", Energy: "fEDep", Unit: "MeV", Detector: "cdte", Color: "#ff0000"},
		}
		cfg.Views = []ViewConfig{
			{Name: "full", Binning: histogram.Binning{Min: 5e-2, Max: 8, Count: 3000}},
			{Name: "zoomed", Binning: histogram.Binning{Min: 1, Max: 3, Count: 750}},
		}
		return cfg
	},
	"psi-coincidence": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "psi-coincidence"
		cfg.Input = InputConfig{Path: "sumcoincidence.root", Format: "root"}
		cfg.Channels = []ChannelConfig{
			{Name: "LaBr3", Energy: "fEDep", Time: "fTime", Unit: "MeV", Detector: "labr3", Color: "#ff0000"},
			{Name: "CeBr3", Energy: "fEDep", Time: "fTime", Unit: "MeV", Detector: "nai-3x3", Color: "#0000ff"},
		}
		cfg.Views = []ViewConfig{
			{Name: "full", Binning: histogram.Binning{Min: 5e-2, Max: 3, Count: 3000}},
		}
		cfg.Coincidence = &CoincidenceConfig{
			A:          "LaBr3",
			B:          "CeBr3",
			Window:     0.1,
			X:          histogram.Binning{Min: 5e-2, Max: 2.5, Count: 100},
			Y:          histogram.Binning{Min: 5e-2, Max: 2.5, Count: 100},
			Difference: histogram.Binning{Min: -5, Max: 5, Count: 200},
		}
		cfg.Timing = &TimingConfig{Min: 5e-2, Count: 3000, LogY: true}
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
