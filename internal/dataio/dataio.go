// Package dataio reads per-event energy and time columns from event files.
package dataio

import (
	"fmt"

	"github.com/san-kum/detsim/internal/detector"
)

// Spec names the columns that make up one channel.
type Spec struct {
	Name string
	// Tree is the ntuple holding the columns; empty means Name.
	Tree   string
	Energy string
	// Time is optional.
	Time string
	Unit detector.Unit
}

func (s Spec) tree() string {
	if s.Tree == "" {
		return s.Name
	}
	return s.Tree
}

// Source yields channels from an opened event file.
type Source interface {
	Channel(spec Spec) (detector.Channel, error)
	Close() error
}

// Open opens path with the reader registered for format.
func Open(format, path string) (Source, error) {
	switch format {
	case "root":
		return OpenROOT(path)
	case "csv":
		return OpenCSV(path)
	}
	return nil, fmt.Errorf("dataio: unknown format %q", format)
}
