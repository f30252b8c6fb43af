package broaden

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/detsim/internal/detector"
	"github.com/san-kum/detsim/internal/resolution"
)

func TestNonPositivePassThrough(t *testing.T) {
	energies := []float64{0, -3.5, 1.2, 0, math.NaN(), 0.662, -0}
	res := func(e float64) (float64, error) {
		if !(e > 0) {
			t.Errorf("resolution called with non-positive energy %g", e)
		}
		return 0.05, nil
	}

	out, err := Broaden(energies, res, 7)
	if err != nil {
		t.Fatalf("broaden failed: %v", err)
	}

	if len(out) != len(energies) {
		t.Fatalf("expected %d entries, got %d", len(energies), len(out))
	}

	for i, e := range energies {
		switch {
		case math.IsNaN(e):
			if !math.IsNaN(out[i]) {
				t.Errorf("index %d: expected NaN to pass through, got %g", i, out[i])
			}
		case e <= 0:
			if out[i] != e {
				t.Errorf("index %d: expected %g unchanged, got %g", i, e, out[i])
			}
		default:
			if out[i] == e {
				t.Errorf("index %d: expected broadened value, got exact %g", i, e)
			}
		}
	}
}

func TestDoesNotMutateInput(t *testing.T) {
	energies := []float64{1, 2, 3}
	if _, err := Broaden(energies, resolution.Presets["nai-3x3"].Relative, 1); err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{1, 2, 3} {
		if energies[i] != want {
			t.Errorf("input modified at %d: %g", i, energies[i])
		}
	}
}

func TestDeterministicUnderSeed(t *testing.T) {
	energies := []float64{0.05, 0.122, 0.662, 1.332, 0, 2.614}
	res := resolution.Presets["cdte"].Relative

	a, err := Broaden(energies, res, 1234)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Broaden(energies, res, 1234)
	if err != nil {
		t.Fatal(err)
	}
	c, err := Broaden(energies, res, 4321)
	if err != nil {
		t.Fatal(err)
	}

	differs := false
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("index %d: same seed gave %v and %v", i, a[i], b[i])
		}
		if a[i] != c[i] {
			differs = true
		}
	}
	if !differs {
		t.Error("different seeds produced identical output")
	}
}

func TestHPGeSampling(t *testing.T) {
	energies := []float64{0, 50, 122, 662}
	model := resolution.Presets["hpge-2cc"]
	res := model.In(detector.KeV)

	const n = 20000
	samples := make([][]float64, len(energies))
	for i := range samples {
		samples[i] = make([]float64, n)
	}

	en := NewSeeded(42)
	for k := 0; k < n; k++ {
		out, err := en.Broaden(energies, res)
		if err != nil {
			t.Fatal(err)
		}
		if out[0] != 0 {
			t.Fatalf("draw %d: expected zero energy to stay 0, got %g", k, out[0])
		}
		for i := 1; i < len(energies); i++ {
			samples[i][k] = out[i]
		}
	}

	for i := 1; i < len(energies); i++ {
		e := energies[i]
		rel, err := res(e)
		if err != nil {
			t.Fatal(err)
		}
		sigma := rel * e / resolution.FWHMPerSigma

		mean, variance := stat.MeanVariance(samples[i], nil)
		if math.Abs(mean-e) > 5*sigma/math.Sqrt(n) {
			t.Errorf("%g keV: mean %g too far from true energy (sigma %g)", e, mean, sigma)
		}
		if math.Abs(variance/(sigma*sigma)-1) > 0.05 {
			t.Errorf("%g keV: variance %g, expected %g", e, variance, sigma*sigma)
		}
	}
}

func TestResolutionErrorPropagates(t *testing.T) {
	boom := detector.DomainError("test", "boom")
	res := func(float64) (float64, error) { return 0, boom }

	if _, err := Broaden([]float64{1}, res, 1); !errors.Is(err, detector.ErrDomain) {
		t.Errorf("expected domain error, got %v", err)
	}
}

func TestNegativeWidthRejected(t *testing.T) {
	res := func(float64) (float64, error) { return -0.1, nil }

	if _, err := Broaden([]float64{1}, res, 1); !errors.Is(err, detector.ErrDomain) {
		t.Errorf("expected domain error, got %v", err)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	jobs := []Job{
		{Name: "labr3", Energy: []float64{0.662, 1.173, 1.332, 0}, Resolution: resolution.Presets["labr3"].Relative},
		{Name: "cebr3", Energy: []float64{0.511, 0, 0.662}, Resolution: resolution.Presets["cebr3"].Relative},
	}

	got, err := Parallel(context.Background(), jobs, 100)
	if err != nil {
		t.Fatalf("parallel failed: %v", err)
	}

	for i, job := range jobs {
		want, err := Broaden(job.Energy, job.Resolution, 100+uint64(i))
		if err != nil {
			t.Fatal(err)
		}
		for j := range want {
			if got[i][j] != want[j] {
				t.Errorf("job %s index %d: expected %g, got %g", job.Name, j, want[j], got[i][j])
			}
		}
	}
}

func TestParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{{Name: "a", Energy: []float64{1}, Resolution: resolution.Presets["cdte"].Relative}}
	if _, err := Parallel(ctx, jobs, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
