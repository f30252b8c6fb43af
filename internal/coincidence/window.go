// Package coincidence finds time-correlated events between two index-aligned
// detector channels.
package coincidence

import (
	"math"

	"github.com/san-kum/detsim/internal/detector"
)

// Mask marks the events whose channels fired within the window.
type Mask []bool

// Window compares timesA[i] with timesB[i] for every i and marks the pairs
// with |timesA[i] - timesB[i]| <= window. Alignment is positional: the inputs
// are neither sorted nor modified. A window of 0 accepts exact matches only.
func Window(timesA, timesB []float64, window float64) (Mask, error) {
	if math.IsNaN(window) || window < 0 {
		return nil, detector.ConfigError("coincidence window", "window must be >= 0, got %g", window)
	}
	if len(timesA) != len(timesB) {
		return nil, detector.PreconditionError("coincidence window", "channel lengths differ: %d vs %d", len(timesA), len(timesB))
	}

	mask := make(Mask, len(timesA))
	for i := range timesA {
		mask[i] = math.Abs(timesA[i]-timesB[i]) <= window
	}
	return mask, nil
}

// Count returns the number of coincident events.
func (m Mask) Count() int {
	n := 0
	for _, ok := range m {
		if ok {
			n++
		}
	}
	return n
}

// Select returns the values at the coincident indices, in order.
func (m Mask) Select(values []float64) ([]float64, error) {
	if len(values) != len(m) {
		return nil, detector.PreconditionError("coincidence select", "mask covers %d events, got %d values", len(m), len(values))
	}
	out := make([]float64, 0, m.Count())
	for i, ok := range m {
		if ok {
			out = append(out, values[i])
		}
	}
	return out, nil
}

// Pairs selects the coincident energies of both channels.
func (m Mask) Pairs(a, b []float64) (x, y []float64, err error) {
	if x, err = m.Select(a); err != nil {
		return nil, nil, err
	}
	if y, err = m.Select(b); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// Differences returns timesA[i] - timesB[i] for a timing spectrum.
func Differences(timesA, timesB []float64) ([]float64, error) {
	if len(timesA) != len(timesB) {
		return nil, detector.PreconditionError("coincidence differences", "channel lengths differ: %d vs %d", len(timesA), len(timesB))
	}
	out := make([]float64, len(timesA))
	for i := range timesA {
		out[i] = timesA[i] - timesB[i]
	}
	return out, nil
}
