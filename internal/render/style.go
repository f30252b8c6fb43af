// Package render draws histograms: PNG figures through go-hep/hplot and
// terminal plots through asciigraph and lipgloss.
//
// All appearance settings travel in an explicit Style; the package keeps no
// process-wide plotting state.
package render

import (
	"image/color"

	"gonum.org/v1/plot/vg"

	"github.com/san-kum/detsim/internal/histogram"
)

// Style is the rendering configuration applied to every figure.
type Style struct {
	Width     vg.Length
	Height    vg.Length
	FontSize  vg.Length
	FillAlpha float64
	Grid      bool
	Theme     Theme
	// Terminal plot size in characters.
	TermWidth  int
	TermHeight int
}

func DefaultStyle() Style {
	return Style{
		Width:      40 * vg.Centimeter,
		Height:     25 * vg.Centimeter,
		FontSize:   vg.Points(24),
		FillAlpha:  0.5,
		Grid:       true,
		Theme:      ThemeROOT,
		TermWidth:  100,
		TermHeight: 15,
	}
}

// View is one binned look at a spectrum: a range, a binning and a y scale.
type View struct {
	Name    string
	Binning histogram.Binning
	LogY    bool
	// Markers selects whether annotations are drawn.
	Markers bool
}

// Annotation is a labeled reference line.
type Annotation struct {
	Position float64
	Label    string
	Color    string
	// Offset shifts the label along x, in data units.
	Offset float64
}

// Within reports whether a lies inside [lo, hi].
func (a Annotation) Within(lo, hi float64) bool {
	return a.Position >= lo && a.Position <= hi
}

// Visible returns the annotations to draw on view v.
func Visible(v View, annotations []Annotation) []Annotation {
	if !v.Markers {
		return nil
	}
	out := make([]Annotation, 0, len(annotations))
	for _, a := range annotations {
		if a.Within(v.Binning.Min, v.Binning.Max) {
			out = append(out, a)
		}
	}
	return out
}

// Series is one histogram in a figure.
type Series struct {
	Name  string
	Hist  histogram.H1
	Color string
}

// ParseColor reads a #rrggbb string, returning black for anything else.
func ParseColor(hex string) color.NRGBA {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(alpha * 255)
	return c
}

func parseHex(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	var okR, okG, okB bool
	r, okR = parseHexByte(hex[1:3])
	g, okG = parseHexByte(hex[3:5])
	b, okB = parseHexByte(hex[5:7])
	return r, g, b, okR && okG && okB
}

func parseHexByte(s string) (int, bool) {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		default:
			return 0, false
		}
	}
	return val, true
}
