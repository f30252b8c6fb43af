package dataio

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"

	"github.com/san-kum/detsim/internal/detector"
)

// ROOTFile reads channels from the flat ntuples Geant4 writes through its
// analysis manager: one tree per detector with double columns.
type ROOTFile struct {
	f *riofs.File
}

func OpenROOT(path string) (*ROOTFile, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &ROOTFile{f: f}, nil
}

func (r *ROOTFile) Close() error {
	return r.f.Close()
}

func (r *ROOTFile) Channel(spec Spec) (detector.Channel, error) {
	obj, err := r.f.Get(spec.tree())
	if err != nil {
		return detector.Channel{}, fmt.Errorf("channel %s: %w", spec.Name, err)
	}
	tree, ok := obj.(rtree.Tree)
	if !ok {
		return detector.Channel{}, fmt.Errorf("channel %s: %q is a %T, not a tree", spec.Name, spec.tree(), obj)
	}

	var energy, time float64
	rvars := []rtree.ReadVar{{Name: spec.Energy, Value: &energy}}
	if spec.Time != "" {
		rvars = append(rvars, rtree.ReadVar{Name: spec.Time, Value: &time})
	}

	rd, err := rtree.NewReader(tree, rvars)
	if err != nil {
		return detector.Channel{}, fmt.Errorf("channel %s: %w", spec.Name, err)
	}
	defer rd.Close()

	n := tree.Entries()
	ch := detector.Channel{Name: spec.Name, Unit: spec.Unit, Energy: make([]float64, 0, n)}
	if spec.Time != "" {
		ch.Time = make([]float64, 0, n)
	}

	err = rd.Read(func(ctx rtree.RCtx) error {
		ch.Energy = append(ch.Energy, energy)
		if ch.Time != nil {
			ch.Time = append(ch.Time, time)
		}
		return nil
	})
	if err != nil {
		return detector.Channel{}, fmt.Errorf("channel %s: %w", spec.Name, err)
	}
	return ch, nil
}
