package render

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/detsim/internal/histogram"
)

// ToH1D copies h into an hbook histogram with the same binning.
func ToH1D(h histogram.H1) *hbook.H1D {
	lo, hi := h.Range()
	out := hbook.NewH1D(h.Bins(), lo, hi)
	for i, x := range h.Centers() {
		if n := h.Count(i); n > 0 {
			out.Fill(x, float64(n))
		}
	}
	return out
}

// ToH2D copies h into an hbook histogram with the same binning.
func ToH2D(h histogram.H2) *hbook.H2D {
	ex, ey := h.EdgesX(), h.EdgesY()
	nx, ny := h.Bins()
	out := hbook.NewH2D(nx, ex[0], ex[nx], ny, ey[0], ey[ny])
	for ix := 0; ix < nx; ix++ {
		x := 0.5 * (ex[ix] + ex[ix+1])
		for iy := 0; iy < ny; iy++ {
			if n := h.Count(ix, iy); n > 0 {
				out.Fill(x, 0.5*(ey[iy]+ey[iy+1]), float64(n))
			}
		}
	}
	return out
}

// Labels are the title and axis captions of a figure.
type Labels struct {
	Title string
	X     string
	Y     string
}

func (s Style) newPlot(l Labels) *hplot.Plot {
	p := hplot.New()
	p.Title.Text = l.Title
	p.X.Label.Text = l.X
	p.Y.Label.Text = l.Y

	p.Title.TextStyle.Font.Size = s.FontSize
	p.X.Label.TextStyle.Font.Size = s.FontSize
	p.Y.Label.TextStyle.Font.Size = s.FontSize
	p.X.Tick.Label.Font.Size = s.FontSize * 0.7
	p.Y.Tick.Label.Font.Size = s.FontSize * 0.7

	if s.Grid {
		p.Add(hplot.NewGrid())
	}
	return p
}

// Spectrum draws one or more 1D histograms of view v into path, with the
// annotations that fall inside the view as dashed vertical lines.
func (s Style) Spectrum(path string, l Labels, v View, series []Series, annotations []Annotation) error {
	if len(series) == 0 {
		return fmt.Errorf("render %s: no series", path)
	}

	ymax := 0.0
	for _, sr := range series {
		ymax = math.Max(ymax, float64(sr.Hist.Max()))
	}
	logY := v.LogY && ymax > 0

	p := s.newPlot(l)
	for _, sr := range series {
		c := ParseColor(sr.Color)
		hh := hplot.NewH1D(ToH1D(sr.Hist), hplot.WithLogY(logY))
		hh.LineStyle.Color = c
		hh.LineStyle.Width = vg.Points(1.5)
		hh.FillColor = withAlpha(c, s.FillAlpha)
		p.Add(hh)
		if len(series) > 1 {
			p.Legend.Add(sr.Name, hh)
		}
	}

	ylo, ytop := 0.0, ymax*1.1
	if logY {
		ylo, ytop = 0.5, ymax*2
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if ytop <= ylo {
		ytop = ylo + 1
	}

	for _, a := range Visible(v, annotations) {
		if err := s.addMarker(p, a, ylo, ytop); err != nil {
			return fmt.Errorf("render %s: %w", path, err)
		}
	}

	p.X.Min, p.X.Max = v.Binning.Min, v.Binning.Max
	p.Y.Min, p.Y.Max = ylo, ytop
	return p.Save(s.Width, s.Height, path)
}

func (s Style) addMarker(p *hplot.Plot, a Annotation, ylo, ytop float64) error {
	c := ParseColor(a.Color)

	line, err := plotter.NewLine(plotter.XYs{{X: a.Position, Y: ylo}, {X: a.Position, Y: ytop}})
	if err != nil {
		return err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(4)
	line.LineStyle.Dashes = []vg.Length{vg.Points(10), vg.Points(6)}
	p.Add(line)

	if a.Label == "" {
		return nil
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: a.Position + a.Offset, Y: math.Max(ylo*1.25, ylo+0.02*(ytop-ylo))}},
		Labels: []string{a.Label},
	})
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = c
		labels.TextStyle[i].Rotation = math.Pi / 2
		labels.TextStyle[i].Font.Size = s.FontSize * 0.8
	}
	p.Add(labels)
	return nil
}

// Joint draws a 2D histogram as a heat map.
func (s Style) Joint(path string, l Labels, h histogram.H2) error {
	p := s.newPlot(l)
	p.Add(hplot.NewH2D(ToH2D(h), palette.Heat(16, 1)))

	ex, ey := h.EdgesX(), h.EdgesY()
	p.X.Min, p.X.Max = ex[0], ex[len(ex)-1]
	p.Y.Min, p.Y.Max = ey[0], ey[len(ey)-1]
	return p.Save(s.Width, s.Height, path)
}
