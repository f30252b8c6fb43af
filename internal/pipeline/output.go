package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot/vg"

	"github.com/san-kum/detsim/internal/config"
	"github.com/san-kum/detsim/internal/export"
	"github.com/san-kum/detsim/internal/histogram"
	"github.com/san-kum/detsim/internal/render"
)

const rawColor = "#808080"

// Style converts the configured figure style into a renderer style.
func Style(sc config.StyleConfig) render.Style {
	s := render.DefaultStyle()
	if sc.WidthCm > 0 {
		s.Width = vg.Length(sc.WidthCm) * vg.Centimeter
	}
	if sc.HeightCm > 0 {
		s.Height = vg.Length(sc.HeightCm) * vg.Centimeter
	}
	if sc.FontSize > 0 {
		s.FontSize = vg.Points(sc.FontSize)
	}
	if sc.FillAlpha > 0 {
		s.FillAlpha = sc.FillAlpha
	}
	s.Grid = sc.Grid
	if sc.Theme != "" {
		s.Theme = render.GetTheme(sc.Theme)
	}
	return s
}

func View(v config.ViewConfig) render.View {
	return render.View{Name: v.Name, Binning: v.Binning, LogY: v.LogY, Markers: !v.NoMarkers}
}

func Annotations(markers []config.MarkerConfig) []render.Annotation {
	out := make([]render.Annotation, len(markers))
	for i, m := range markers {
		out[i] = render.Annotation{Position: m.Position, Label: m.Label, Color: m.Color, Offset: m.Offset}
	}
	return out
}

func (e *Experiment) color(channel string) string {
	if cc, ok := e.cfg.Channel(channel); ok && cc.Color != "" {
		return cc.Color
	}
	return "#0000ff"
}

// Render writes every figure of res as PNG into dir and returns the paths.
func (e *Experiment) Render(res *Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	style := Style(e.cfg.Style)
	annotations := Annotations(e.cfg.Markers)
	var paths []string

	for _, sp := range res.Spectra {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", sp.Channel, sp.View.Name))
		labels := render.Labels{
			Title: fmt.Sprintf("%s (%s)", sp.Channel, sp.View.Name),
			X:     fmt.Sprintf("Energy [%s]", sp.Unit),
			Y:     "Counts",
		}
		series := []render.Series{
			{Name: "deposited", Hist: sp.Raw, Color: rawColor},
			{Name: "broadened", Hist: sp.Broadened, Color: e.color(sp.Channel)},
		}
		if err := style.Spectrum(path, labels, View(sp.View), series, annotations); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if co := res.Coincidence; co != nil {
		path := filepath.Join(dir, fmt.Sprintf("coincidence_%s_%s.png", co.A, co.B))
		labels := render.Labels{
			Title: fmt.Sprintf("Coincidences within %g ns", co.Window),
			X:     fmt.Sprintf("%s energy [%s]", co.A, co.Unit),
			Y:     fmt.Sprintf("%s energy [%s]", co.B, co.Unit),
		}
		if err := style.Joint(path, labels, co.Joint); err != nil {
			return paths, err
		}
		paths = append(paths, path)

		if co.Difference != nil {
			path := filepath.Join(dir, "time_difference.png")
			labels := render.Labels{Title: fmt.Sprintf("%s - %s", co.A, co.B), X: "Time difference [ns]", Y: "Counts"}
			v := render.View{Name: "difference"}
			v.Binning.Min, v.Binning.Max = co.Difference.Range()
			if err := style.Spectrum(path, labels, v, []render.Series{{Name: "dt", Hist: *co.Difference, Color: e.color(co.A)}}, nil); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}

	for _, t := range res.Timing {
		path := filepath.Join(dir, t.Channel+"_time.png")
		labels := render.Labels{Title: t.Channel + " time distribution", X: "Time [ns]", Y: "Counts"}
		v := render.View{Name: "time", LogY: t.LogY}
		v.Binning.Min, v.Binning.Max = t.Hist.Range()
		if err := style.Spectrum(path, labels, v, []render.Series{{Name: t.Channel, Hist: t.Hist, Color: e.color(t.Channel)}}, nil); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	e.log.Info("rendered figures", "dir", dir, "count", len(paths))
	return paths, nil
}

// WriteCSV writes every 1D histogram of res as a CSV file into dir and
// returns the paths.
func (e *Experiment) WriteCSV(res *Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	type entry struct {
		name string
		hist histogram.H1
	}
	var entries []entry
	for _, sp := range res.Spectra {
		entries = append(entries,
			entry{fmt.Sprintf("%s_%s_raw", sp.Channel, sp.View.Name), sp.Raw},
			entry{fmt.Sprintf("%s_%s_broadened", sp.Channel, sp.View.Name), sp.Broadened},
		)
	}
	for _, t := range res.Timing {
		entries = append(entries, entry{t.Channel + "_time", t.Hist})
	}
	if co := res.Coincidence; co != nil && co.Difference != nil {
		entries = append(entries, entry{"time_difference", *co.Difference})
	}

	paths := make([]string, 0, len(entries))
	for _, en := range entries {
		path := filepath.Join(dir, en.name+".csv")
		if err := writeFile(path, func(w io.Writer) error { return export.WriteCSV(w, en.hist) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	e.log.Info("wrote histograms", "dir", dir, "count", len(paths))
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Document collects the histograms of res for export.
func (e *Experiment) Document(res *Result) export.Document {
	doc := export.Document{Config: e.cfg.Name, Seed: e.cfg.Seed, Summary: make(map[string]float64)}

	for _, sp := range res.Spectra {
		unit := sp.Unit.String()
		doc.Spectra = append(doc.Spectra,
			export.NewHist1D(sp.View.Name+"/raw", sp.Channel, unit, sp.Raw),
			export.NewHist1D(sp.View.Name+"/broadened", sp.Channel, unit, sp.Broadened),
		)
	}
	for _, t := range res.Timing {
		doc.Spectra = append(doc.Spectra, export.NewHist1D("time", t.Channel, "ns", t.Hist))
	}
	if co := res.Coincidence; co != nil {
		doc.Window = co.Window
		doc.Coincident = co.Mask.Count()
		doc.Joint = append(doc.Joint, export.NewHist2D(co.A+"/"+co.B, co.Joint))
		if co.Difference != nil {
			doc.Spectra = append(doc.Spectra, export.NewHist1D("time_difference", co.A+"/"+co.B, "ns", *co.Difference))
		}
	}
	for _, s := range res.Summaries {
		doc.Summary[s.Channel+".mean"] = s.Mean
		doc.Summary[s.Channel+".std"] = s.Std
		doc.Summary[s.Channel+".deposits"] = float64(s.Deposits)
	}
	return doc
}

// Table returns the summary of res as table headers and rows.
func (r *Result) Table() ([]string, [][]string) {
	headers := []string{"Channel", "Detector", "Events", "Deposits", "In range", "Mean", "Std", "Unit"}
	rows := make([][]string, 0, len(r.Summaries)+1)
	for _, s := range r.Summaries {
		rows = append(rows, []string{
			s.Channel,
			s.Detector,
			strconv.Itoa(s.Events),
			strconv.Itoa(s.Deposits),
			strconv.Itoa(s.InRange),
			strconv.FormatFloat(s.Mean, 'f', 4, 64),
			strconv.FormatFloat(s.Std, 'f', 4, 64),
			s.Unit.String(),
		})
	}
	if co := r.Coincidence; co != nil {
		rows = append(rows, []string{
			co.A + "&" + co.B,
			fmt.Sprintf("%g ns", co.Window),
			strconv.Itoa(len(co.Mask)),
			strconv.Itoa(co.Mask.Count()),
			strconv.Itoa(co.Joint.Total()),
			"", "", co.Unit.String(),
		})
	}
	return headers, rows
}
