package histogram

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/san-kum/detsim/internal/detector"
)

func TestNew1DScenario(t *testing.T) {
	h, err := New1D([]float64{1, 2, 2, 3, 10}, Binning{Min: 0, Max: 4, Width: 1})
	if err != nil {
		t.Fatalf("histogram failed: %v", err)
	}

	if edges := h.Edges(); !reflect.DeepEqual(edges, []float64{0, 1, 2, 3, 4}) {
		t.Errorf("expected edges [0 1 2 3 4], got %v", edges)
	}
	if counts := h.Counts(); !reflect.DeepEqual(counts, []int{0, 1, 2, 1}) {
		t.Errorf("expected counts [0 1 2 1], got %v", counts)
	}
	if h.Total() != 4 {
		t.Errorf("expected total 4, got %d", h.Total())
	}
}

func TestBoundaries(t *testing.T) {
	h, err := New1D([]float64{0, 4, -1e-12, 4 + 1e-12, math.NaN(), math.Inf(1)}, Binning{Min: 0, Max: 4, Count: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(h.Counts(), []int{1, 0, 0, 1}) {
		t.Errorf("expected min in first bin and max in last bin, got %v", h.Counts())
	}
}

func TestTotalEqualsInRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))
	data := make([]float64, 5000)
	for i := range data {
		data[i] = rnd.Float64()*3 - 0.5
	}

	b := Binning{Min: 0.05, Max: 2.5, Count: 100}
	h, err := New1D(data, b)
	if err != nil {
		t.Fatal(err)
	}

	inRange := 0
	for _, x := range data {
		if x >= b.Min && x <= b.Max {
			inRange++
		}
	}
	if h.Total() != inRange {
		t.Errorf("expected total %d, got %d", inRange, h.Total())
	}

	// every value lands in the bin whose edges bracket it
	edges := h.Edges()
	for _, x := range data[:200] {
		ax, _ := newAxis(b)
		i, ok := ax.index(x)
		if !ok {
			continue
		}
		if x < edges[i] || (x >= edges[i+1] && i != len(edges)-2) {
			t.Errorf("value %g placed in bin [%g, %g)", x, edges[i], edges[i+1])
		}
	}
}

func TestWidthTruncates(t *testing.T) {
	b := Binning{Min: 0, Max: 1, Width: 0.3}
	n, err := b.Bins()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 bins, got %d", n)
	}

	edges, _ := b.Edges()
	if edges[0] != 0 || edges[3] != 1 {
		t.Errorf("expected edges spanning [0, 1], got %v", edges)
	}

	// HPGe full range view: 1 eV to 1 MeV in 20 eV bins
	n, _ = Binning{Min: 1e-3, Max: 1000, Width: 0.02}.Bins()
	if n != 49999 {
		t.Errorf("expected 49999 bins, got %d", n)
	}
}

func TestBinningErrors(t *testing.T) {
	tests := []struct {
		name string
		b    Binning
	}{
		{"inverted", Binning{Min: 4, Max: 0, Count: 4}},
		{"empty", Binning{Min: 1, Max: 1, Count: 4}},
		{"nan", Binning{Min: math.NaN(), Max: 1, Count: 4}},
		{"inf", Binning{Min: 0, Max: math.Inf(1), Count: 4}},
		{"no bins", Binning{Min: 0, Max: 1}},
		{"negative count", Binning{Min: 0, Max: 1, Count: -2}},
		{"negative width", Binning{Min: 0, Max: 1, Width: -0.1}},
		{"wide width", Binning{Min: 0, Max: 1, Width: 2}},
		{"both", Binning{Min: 0, Max: 1, Width: 0.1, Count: 10}},
		{"too many", Binning{Min: 0, Max: 1, Width: 1e-12}},
	}

	for _, tt := range tests {
		if _, err := New1D([]float64{0.5}, tt.b); !errors.Is(err, detector.ErrConfig) {
			t.Errorf("%s: expected config error, got %v", tt.name, err)
		}
	}
}

func TestDeterministic(t *testing.T) {
	data := []float64{0.1, 0.7, 1.9, 2.2, 0.05, 2.5}
	b := Binning{Min: 0.05, Max: 2.5, Width: 0.01}

	h1, err := New1D(data, b)
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := New1D(data, b)

	if !reflect.DeepEqual(h1.Edges(), h2.Edges()) || !reflect.DeepEqual(h1.Counts(), h2.Counts()) {
		t.Error("identical inputs produced different histograms")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	h, _ := New1D([]float64{1}, Binning{Min: 0, Max: 2, Count: 2})
	h.Counts()[1] = 99
	h.Edges()[0] = -5
	if h.Count(1) != 1 {
		t.Error("counts mutated through accessor")
	}
	if lo, _ := h.Range(); lo != 0 {
		t.Error("edges mutated through accessor")
	}
}

func TestCenters(t *testing.T) {
	h, _ := New1D(nil, Binning{Min: 0, Max: 4, Count: 4})
	if !reflect.DeepEqual(h.Centers(), []float64{0.5, 1.5, 2.5, 3.5}) {
		t.Errorf("unexpected centers %v", h.Centers())
	}
	if h.Total() != 0 || h.Max() != 0 {
		t.Error("expected empty histogram")
	}
}

func TestNew2D(t *testing.T) {
	x := []float64{0.5, 1.5, 1.5, 3.0, 9.0, 0.1}
	y := []float64{0.5, 0.5, 1.5, 2.0, 0.5, 9.0}
	b := Binning{Min: 0, Max: 2, Count: 2}
	by := Binning{Min: 0, Max: 2, Width: 1}

	h, err := New2D(x, y, b, by)
	if err != nil {
		t.Fatalf("histogram2d failed: %v", err)
	}

	expected := [][]int{{1, 0}, {1, 1}}
	if !reflect.DeepEqual(h.Counts(), expected) {
		t.Errorf("expected %v, got %v", expected, h.Counts())
	}
	if h.Total() != 3 {
		t.Errorf("expected total 3, got %d", h.Total())
	}
	if !reflect.DeepEqual(h.ProjectX().Counts(), []int{1, 2}) {
		t.Errorf("unexpected x projection %v", h.ProjectX().Counts())
	}
	if !reflect.DeepEqual(h.ProjectY().Counts(), []int{2, 1}) {
		t.Errorf("unexpected y projection %v", h.ProjectY().Counts())
	}
	if h.Count(1, 1) != 1 || h.Max() != 1 {
		t.Error("unexpected cell counts")
	}
}

func TestNew2DErrors(t *testing.T) {
	b := Binning{Min: 0, Max: 1, Count: 10}

	if _, err := New2D([]float64{1, 2}, []float64{1}, b, b); !errors.Is(err, detector.ErrPrecondition) {
		t.Errorf("expected precondition error, got %v", err)
	}
	if _, err := New2D(nil, nil, b, Binning{Min: 1, Max: 0, Count: 1}); !errors.Is(err, detector.ErrConfig) {
		t.Errorf("expected config error, got %v", err)
	}

	// each axis is within MaxBins, the product is not
	wide := Binning{Min: 0, Max: 1, Count: MaxBins}
	if _, err := New2D([]float64{0.5}, []float64{0.5}, wide, wide); !errors.Is(err, detector.ErrConfig) {
		t.Errorf("expected config error for oversized joint binning, got %v", err)
	}
	if _, err := New2D(nil, nil, wide, Binning{Min: 0, Max: 1, Count: 2}); !errors.Is(err, detector.ErrConfig) {
		t.Errorf("expected config error for %d x 2 cells, got %v", MaxBins, err)
	}
}

func TestCells(t *testing.T) {
	n, err := Cells(Binning{Min: 0, Max: 1, Count: 100}, Binning{Min: 0, Max: 2, Width: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if n != 400 {
		t.Errorf("expected 400 cells, got %d", n)
	}

	if _, err := Cells(Binning{Min: 0, Max: 1, Count: MaxBins}, Binning{Min: 0, Max: 1, Count: 1}); err != nil {
		t.Errorf("MaxBins x 1 should be accepted, got %v", err)
	}
}
