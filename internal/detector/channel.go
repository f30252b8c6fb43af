package detector

// Channel holds one detector's per-event energies and timestamps.
// Energy[i] and Time[i] describe the same acquisition slot.
type Channel struct {
	Name   string
	Unit   Unit
	Energy []float64
	// Time is in nanoseconds; nil when the source carries no timing.
	Time []float64
}

func (c Channel) Len() int { return len(c.Energy) }

func (c Channel) HasTime() bool { return c.Time != nil }

// Validate checks that the time column, when present, is index-aligned
// with the energy column.
func (c Channel) Validate() error {
	if !c.Unit.Valid() {
		return ConfigError("channel "+c.Name, "unknown energy unit %d", int(c.Unit))
	}
	if c.Time != nil && len(c.Time) != len(c.Energy) {
		return PreconditionError("channel "+c.Name, "%d energies but %d timestamps", len(c.Energy), len(c.Time))
	}
	return nil
}

// WithEnergy returns a copy of c carrying the given energies.
func (c Channel) WithEnergy(energy []float64) Channel {
	c.Energy = energy
	return c
}

// Scaled returns a copy of c with energies converted to unit u.
func (c Channel) Scaled(u Unit) Channel {
	if u == c.Unit {
		return c
	}
	out := make([]float64, len(c.Energy))
	for i, e := range c.Energy {
		out[i] = c.Unit.Convert(e, u)
	}
	c.Energy = out
	c.Unit = u
	return c
}
