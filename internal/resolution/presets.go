package resolution

import (
	"sort"

	"github.com/san-kum/detsim/internal/detector"
)

// Presets are the detector calibrations known by name.
var Presets = map[string]Model{
	// HPGe 2 cm³ crystal. Literature fit of sigma/E: ~0.74% FWHM at 122 keV,
	// ~0.28% at 661 keV.
	"hpge-2cc": {Name: "hpge-2cc", A: 0.000254, B: 0.000914, C: 0.000212, Unit: detector.MeV, Width: WidthSigma},
	// NaI(Tl) 3"x3", scaled from 2"x2" performance.
	"nai-3x3": {Name: "nai-3x3", A: 0.030, B: 0.062, C: 0.0, Unit: detector.MeV, Width: WidthFWHM},
	// CdTe 1 mm, Amptek 25 mm²; c accounts for hole trapping.
	"cdte": {Name: "cdte", A: 0.008, B: 0.012, C: 0.0015, Unit: detector.MeV, Width: WidthFWHM},
	// LaBr3(Ce), ~2.8% at 662 keV.
	"labr3": {Name: "labr3", A: 0.008, B: 0.022, C: 0.0, Unit: detector.MeV, Width: WidthFWHM},
	// CeBr3, ~4% at 662 keV.
	"cebr3": {Name: "cebr3", A: 0.012, B: 0.031, C: 0.0, Unit: detector.MeV, Width: WidthFWHM},
}

func GetPreset(name string) (Model, error) {
	m, ok := Presets[name]
	if !ok {
		return Model{}, detector.ConfigError("resolution preset", "unknown detector %q (available: %v)", name, ListPresets())
	}
	return m, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
