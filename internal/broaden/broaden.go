// Package broaden simulates finite detector resolution by replacing each
// deposited energy with a draw from a Gaussian whose width follows a
// resolution model.
package broaden

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/detsim/internal/detector"
	"github.com/san-kum/detsim/internal/resolution"
)

// Engine draws broadened energies from an explicitly seeded source.
// An Engine is not safe for concurrent use; give each goroutine its own.
type Engine struct {
	src rand.Source
}

func New(src rand.Source) *Engine {
	return &Engine{src: src}
}

// NewSeeded returns an Engine over a fresh source seeded with seed.
func NewSeeded(seed uint64) *Engine {
	return New(rand.NewSource(seed))
}

// Broaden returns a new slice the same length as energies. Entries that are
// not strictly positive are copied unchanged and res is never called for them.
// Every other entry is replaced by one draw from N(E, sigma) with
// sigma = res(E)*E / (2*sqrt(2 ln 2)).
func (en *Engine) Broaden(energies []float64, res resolution.Func) ([]float64, error) {
	out := make([]float64, len(energies))
	copy(out, energies)

	positive := make([]int, 0, len(energies))
	for i, e := range energies {
		if e > 0 {
			positive = append(positive, i)
		}
	}
	if len(positive) == 0 {
		return out, nil
	}

	for _, i := range positive {
		e := energies[i]
		rel, err := res(e)
		if err != nil {
			return nil, err
		}
		sigma := rel * e / resolution.FWHMPerSigma
		if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
			return nil, detector.DomainError("broaden", "invalid width %g at energy %g", sigma, e)
		}
		out[i] = distuv.Normal{Mu: e, Sigma: sigma, Src: en.src}.Rand()
	}
	return out, nil
}

// Broaden is a one-shot helper over NewSeeded(seed).
func Broaden(energies []float64, res resolution.Func, seed uint64) ([]float64, error) {
	return NewSeeded(seed).Broaden(energies, res)
}
