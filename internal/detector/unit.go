package detector

import (
	"fmt"
	"strings"
)

// Unit is the energy unit of a channel or a calibration.
type Unit int

const (
	KeV Unit = iota
	MeV
)

func (u Unit) String() string {
	switch u {
	case KeV:
		return "keV"
	case MeV:
		return "MeV"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// PerMeV is the number of u in one MeV.
func (u Unit) PerMeV() float64 {
	if u == KeV {
		return 1000
	}
	return 1
}

// Convert expresses v, given in u, in unit to.
func (u Unit) Convert(v float64, to Unit) float64 {
	if u == to {
		return v
	}
	return v * to.PerMeV() / u.PerMeV()
}

func (u Unit) Valid() bool {
	return u == KeV || u == MeV
}

// ParseUnit accepts "keV" or "MeV" in any case.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kev":
		return KeV, nil
	case "mev":
		return MeV, nil
	}
	return 0, ConfigError("parse unit", "unknown energy unit %q", s)
}

func (u Unit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, ConfigError("marshal unit", "unknown energy unit %d", int(u))
	}
	return []byte(u.String()), nil
}

func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
