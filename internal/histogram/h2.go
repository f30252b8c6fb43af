package histogram

import "github.com/san-kum/detsim/internal/detector"

// H2 is a joint histogram of two equal-length samples.
type H2 struct {
	x, y axis
	// counts[ix*ny + iy]
	counts []int
}

// New2D bins the pairs (x[i], y[i]). A pair is counted only when both values
// are inside their ranges.
func New2D(x, y []float64, bx, by Binning) (H2, error) {
	if len(x) != len(y) {
		return H2{}, detector.PreconditionError("histogram2d", "sample lengths differ: %d vs %d", len(x), len(y))
	}
	if _, err := Cells(bx, by); err != nil {
		return H2{}, err
	}
	ax, err := newAxis(bx)
	if err != nil {
		return H2{}, err
	}
	ay, err := newAxis(by)
	if err != nil {
		return H2{}, err
	}

	counts := make([]int, ax.n*ay.n)
	for i := range x {
		ix, ok := ax.index(x[i])
		if !ok {
			continue
		}
		iy, ok := ay.index(y[i])
		if !ok {
			continue
		}
		counts[ix*ay.n+iy]++
	}
	return H2{x: ax, y: ay, counts: counts}, nil
}

// Bins returns the number of bins along x and y.
func (h H2) Bins() (int, int) { return h.x.n, h.y.n }

func (h H2) EdgesX() []float64 { return clone(h.x.edges) }

func (h H2) EdgesY() []float64 { return clone(h.y.edges) }

func (h H2) Count(ix, iy int) int { return h.counts[ix*h.y.n+iy] }

// Counts returns the matrix indexed [ix][iy].
func (h H2) Counts() [][]int {
	out := make([][]int, h.x.n)
	for ix := range out {
		out[ix] = cloneInts(h.counts[ix*h.y.n : (ix+1)*h.y.n])
	}
	return out
}

func (h H2) Total() int {
	n := 0
	for _, c := range h.counts {
		n += c
	}
	return n
}

func (h H2) Max() int {
	m := 0
	for _, c := range h.counts {
		if c > m {
			m = c
		}
	}
	return m
}

// ProjectX sums over y, giving the x marginal.
func (h H2) ProjectX() H1 {
	counts := make([]int, h.x.n)
	for ix := range counts {
		for iy := 0; iy < h.y.n; iy++ {
			counts[ix] += h.counts[ix*h.y.n+iy]
		}
	}
	return H1{edges: clone(h.x.edges), counts: counts}
}

// ProjectY sums over x, giving the y marginal.
func (h H2) ProjectY() H1 {
	counts := make([]int, h.y.n)
	for ix := 0; ix < h.x.n; ix++ {
		for iy := range counts {
			counts[iy] += h.counts[ix*h.y.n+iy]
		}
	}
	return H1{edges: clone(h.y.edges), counts: counts}
}
