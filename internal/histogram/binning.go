// Package histogram bins energies into 1D and 2D histograms.
//
// Bins are half-open, [lo, hi), except the last one which also includes the
// upper edge. Values outside [Min, Max] and NaN are dropped, never clamped
// into the boundary bins.
package histogram

import (
	"math"

	"github.com/san-kum/detsim/internal/detector"
)

// MaxBins bounds the number of bins a Binning may resolve to.
const MaxBins = 1 << 24

// Binning describes the range and granularity of one histogram axis.
// Exactly one of Width and Count must be set.
type Binning struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
	// Width is the requested bin width. The bin count is
	// floor((Max-Min)/Width); any remainder is truncated, so the actual
	// spacing (Max-Min)/count can be slightly larger than Width.
	Width float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Count int     `yaml:"count,omitempty" json:"count,omitempty"`
}

// Bins returns the number of bins.
func (b Binning) Bins() (int, error) {
	const op = "binning"
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || math.IsInf(b.Min, 0) || math.IsInf(b.Max, 0) {
		return 0, detector.ConfigError(op, "range [%g, %g] is not finite", b.Min, b.Max)
	}
	if b.Max <= b.Min {
		return 0, detector.ConfigError(op, "degenerate range [%g, %g]", b.Min, b.Max)
	}

	switch {
	case b.Width != 0 && b.Count != 0:
		return 0, detector.ConfigError(op, "both width %g and count %d given", b.Width, b.Count)
	case b.Width != 0:
		if !(b.Width > 0) || math.IsInf(b.Width, 0) {
			return 0, detector.ConfigError(op, "bin width must be positive, got %g", b.Width)
		}
		n := math.Floor((b.Max - b.Min) / b.Width)
		if n < 1 {
			return 0, detector.ConfigError(op, "bin width %g exceeds range [%g, %g]", b.Width, b.Min, b.Max)
		}
		if n > MaxBins {
			return 0, detector.ConfigError(op, "%g bins exceeds the limit of %d", n, MaxBins)
		}
		return int(n), nil
	default:
		if b.Count <= 0 {
			return 0, detector.ConfigError(op, "bin count must be positive, got %d", b.Count)
		}
		if b.Count > MaxBins {
			return 0, detector.ConfigError(op, "%d bins exceeds the limit of %d", b.Count, MaxBins)
		}
		return b.Count, nil
	}
}

// Cells returns the number of cells of a joint binning over bx and by. The
// product is bounded by MaxBins like a single axis.
func Cells(bx, by Binning) (int, error) {
	nx, err := bx.Bins()
	if err != nil {
		return 0, err
	}
	ny, err := by.Bins()
	if err != nil {
		return 0, err
	}
	if nx > MaxBins/ny {
		return 0, detector.ConfigError("binning", "%d x %d cells exceeds the limit of %d", nx, ny, MaxBins)
	}
	return nx * ny, nil
}

// Edges returns the Bins()+1 equally spaced edges from Min to Max.
func (b Binning) Edges() ([]float64, error) {
	n, err := b.Bins()
	if err != nil {
		return nil, err
	}
	return linspace(b.Min, b.Max, n), nil
}

func linspace(lo, hi float64, n int) []float64 {
	edges := make([]float64, n+1)
	step := (hi - lo) / float64(n)
	for i := 0; i < n; i++ {
		edges[i] = lo + float64(i)*step
	}
	edges[n] = hi
	return edges
}

// axis locates values in a resolved binning.
type axis struct {
	edges []float64
	n     int
}

func newAxis(b Binning) (axis, error) {
	edges, err := b.Edges()
	if err != nil {
		return axis{}, err
	}
	return axis{edges: edges, n: len(edges) - 1}, nil
}

// index returns the bin holding x, or false when x is out of range.
func (a axis) index(x float64) (int, bool) {
	lo, hi := a.edges[0], a.edges[a.n]
	if !(x >= lo && x <= hi) {
		return 0, false
	}

	i := int((x - lo) / (hi - lo) * float64(a.n))
	if i >= a.n {
		i = a.n - 1
	}
	// correct for rounding so the result agrees with the stored edges
	if i > 0 && x < a.edges[i] {
		i--
	}
	if i < a.n-1 && x >= a.edges[i+1] {
		i++
	}
	return i, true
}
