// Package resolution implements the energy-dependent relative resolution of
// radiation detectors:
//
//	FWHM/E = sqrt(a² + b²/E + c²/E²)
//
// where a is the constant (electronic noise) term, b the statistical term and
// c the incomplete charge collection term. Every detector type shares this
// formula and differs only in its coefficients, the energy unit they were fit
// against and whether the fit describes FWHM or sigma.
package resolution

import (
	"math"

	"github.com/san-kum/detsim/internal/detector"
)

// FWHMPerSigma converts a Gaussian standard deviation to its full width at
// half maximum.
var FWHMPerSigma = 2 * math.Sqrt(2*math.Ln2)

// WidthKind says what the quadrature sum of a Model describes.
type WidthKind int

const (
	// WidthFWHM models whose sum is FWHM/E directly.
	WidthFWHM WidthKind = iota
	// WidthSigma models whose sum is sigma/E; Relative scales by FWHMPerSigma.
	WidthSigma
)

func (k WidthKind) String() string {
	if k == WidthSigma {
		return "sigma"
	}
	return "fwhm"
}

// Func maps a strictly positive energy to FWHM/E.
type Func func(e float64) (float64, error)

// Model is a calibrated resolution function for one detector type.
type Model struct {
	Name string
	A    float64
	B    float64
	C    float64
	// Unit is the energy unit the coefficients were fit against.
	Unit  detector.Unit
	Width WidthKind
}

func (m Model) Validate() error {
	op := "resolution model " + m.Name
	for _, v := range []float64{m.A, m.B, m.C} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return detector.ConfigError(op, "coefficients must be finite and non-negative (a=%g b=%g c=%g)", m.A, m.B, m.C)
		}
	}
	if m.A == 0 && m.B == 0 && m.C == 0 {
		return detector.ConfigError(op, "all coefficients are zero")
	}
	if !m.Unit.Valid() {
		return detector.ConfigError(op, "unknown energy unit %d", int(m.Unit))
	}
	if m.Width != WidthFWHM && m.Width != WidthSigma {
		return detector.ConfigError(op, "unknown width kind %d", int(m.Width))
	}
	return nil
}

// Relative returns FWHM/E at energy e, given in m.Unit.
func (m Model) Relative(e float64) (float64, error) {
	if !(e > 0) || math.IsInf(e, 1) {
		return 0, detector.DomainError("resolution "+m.Name, "energy %g %s is not strictly positive and finite", e, m.Unit)
	}
	r := math.Sqrt(m.A*m.A + m.B*m.B/e + m.C*m.C/(e*e))
	if m.Width == WidthSigma {
		r *= FWHMPerSigma
	}
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0, detector.DomainError("resolution "+m.Name, "resolution diverges at %g %s", e, m.Unit)
	}
	return r, nil
}

// RelativeAll evaluates Relative elementwise into a new slice.
func (m Model) RelativeAll(energies []float64) ([]float64, error) {
	out := make([]float64, len(energies))
	for i, e := range energies {
		r, err := m.Relative(e)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// FWHM returns the absolute full width at half maximum at e, both in m.Unit.
func (m Model) FWHM(e float64) (float64, error) {
	r, err := m.Relative(e)
	if err != nil {
		return 0, err
	}
	return r * e, nil
}

// Sigma returns the Gaussian standard deviation at e, both in m.Unit.
func (m Model) Sigma(e float64) (float64, error) {
	fwhm, err := m.FWHM(e)
	if err != nil {
		return 0, err
	}
	return fwhm / FWHMPerSigma, nil
}

// In returns the resolution function for energies expressed in u. The result
// is dimensionless, so only the argument is converted.
func (m Model) In(u detector.Unit) Func {
	if u == m.Unit {
		return m.Relative
	}
	return func(e float64) (float64, error) {
		return m.Relative(u.Convert(e, m.Unit))
	}
}
