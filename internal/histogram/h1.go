package histogram

// H1 is a one dimensional histogram. It is a value: accessors return copies
// and nothing mutates it after construction.
type H1 struct {
	edges  []float64
	counts []int
}

// New1D bins data over b.
func New1D(data []float64, b Binning) (H1, error) {
	ax, err := newAxis(b)
	if err != nil {
		return H1{}, err
	}

	counts := make([]int, ax.n)
	for _, x := range data {
		if i, ok := ax.index(x); ok {
			counts[i]++
		}
	}
	return H1{edges: ax.edges, counts: counts}, nil
}

func (h H1) Bins() int { return len(h.counts) }

func (h H1) Edges() []float64 { return clone(h.edges) }

func (h H1) Counts() []int { return cloneInts(h.counts) }

func (h H1) Count(i int) int { return h.counts[i] }

// Range returns the lower and upper edge.
func (h H1) Range() (float64, float64) {
	if len(h.edges) == 0 {
		return 0, 0
	}
	return h.edges[0], h.edges[len(h.edges)-1]
}

// Centers returns the midpoint of every bin.
func (h H1) Centers() []float64 {
	c := make([]float64, len(h.counts))
	for i := range c {
		c[i] = 0.5 * (h.edges[i] + h.edges[i+1])
	}
	return c
}

// Total is the number of samples that fell inside the range.
func (h H1) Total() int {
	n := 0
	for _, c := range h.counts {
		n += c
	}
	return n
}

// Max returns the largest bin count.
func (h H1) Max() int {
	m := 0
	for _, c := range h.counts {
		if c > m {
			m = c
		}
	}
	return m
}

func clone(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}

func cloneInts(s []int) []int {
	out := make([]int, len(s))
	copy(out, s)
	return out
}
