package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/detsim/internal/broaden"
	"github.com/san-kum/detsim/internal/dataio"
	"github.com/san-kum/detsim/internal/detector"
	"github.com/san-kum/detsim/internal/export"
	"github.com/san-kum/detsim/internal/pipeline"
	"github.com/san-kum/detsim/internal/resolution"
	"github.com/san-kum/detsim/internal/tui"
)

func runAnalysis(cmd *cobra.Command, args []string) error {
	exp, res, err := analyze(cmd)
	if err != nil {
		return err
	}

	paths, err := exp.Render(res, exp.Config().Output)
	if err != nil {
		return err
	}

	style := pipeline.Style(exp.Config().Style)
	headers, rows := res.Table()
	fmt.Println(style.Table(exp.Config().Name, headers, rows))
	for _, p := range paths {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func plotAnalysis(cmd *cobra.Command, args []string) error {
	exp, res, err := analyze(cmd)
	if err != nil {
		return err
	}

	cfg := exp.Config()
	style := pipeline.Style(cfg.Style)
	annotations := pipeline.Annotations(cfg.Markers)

	for _, sp := range res.Spectra {
		caption := fmt.Sprintf("%s %s [%s]", sp.Channel, sp.View.Name, sp.Unit)
		fmt.Println(style.Terminal(sp.Broadened, pipeline.View(sp.View), caption, annotations))
	}
	if co := res.Coincidence; co != nil {
		fmt.Printf("%s vs %s, %d coincidences within %g ns\n", co.A, co.B, co.Mask.Count(), co.Window)
		fmt.Println(style.TerminalJoint(co.Joint, style.TermWidth/2, style.TermHeight))
	}

	headers, rows := res.Table()
	fmt.Println(style.Table(cfg.Name, headers, rows))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	exp, res, err := analyze(cmd)
	if err != nil {
		return err
	}
	return export.WriteJSON(os.Stdout, exp.Document(res))
}

func exportCSV(cmd *cobra.Command, args []string) error {
	exp, res, err := analyze(cmd)
	if err != nil {
		return err
	}

	paths, err := exp.WriteCSV(res, exp.Config().Output)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func browseAnalysis(cmd *cobra.Command, args []string) error {
	exp, res, err := analyze(cmd)
	if err != nil {
		return err
	}
	cfg := exp.Config()
	return tui.Run(res, pipeline.Style(cfg.Style), pipeline.Annotations(cfg.Markers))
}

func broadenFile(cmd *cobra.Command, args []string) error {
	log := newLogger()

	unit, err := detector.ParseUnit(broadenUnit)
	if err != nil {
		return err
	}
	model, err := resolution.GetPreset(broadenDetector)
	if err != nil {
		return err
	}

	src, err := dataio.Open(broadenFormat, args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	ch, err := src.Channel(dataio.Spec{Name: broadenDetector, Tree: broadenTree, Energy: broadenColumn, Unit: unit})
	if err != nil {
		return err
	}
	log.Info("loaded channel", "file", args[0], "events", ch.Len(), "unit", unit)

	out, err := broaden.Broaden(ch.Energy, model.In(unit), broadenSeed)
	if err != nil {
		return err
	}

	var raw, smeared []float64
	for i, e := range ch.Energy {
		if e > 0 {
			raw = append(raw, e)
			smeared = append(smeared, out[i])
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tEVENTS\tDEPOSITS\tMEAN\tSTD")
	for _, row := range []struct {
		name string
		data []float64
	}{{"deposited", raw}, {"broadened", smeared}} {
		mean, std := pipeline.MeanStd(row.data)
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\t%.4f\n", row.name, ch.Len(), len(row.data), mean, std)
	}
	w.Flush()

	if csvOut == "" {
		return nil
	}
	f, err := os.Create(csvOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := dataio.WriteCSV(f, ch.WithEnergy(out)); err != nil {
		return err
	}
	fmt.Printf("broadened energies written to %s\n", csvOut)
	return nil
}

func resolutionTable(cmd *cobra.Command, args []string) error {
	model, err := resolution.GetPreset(args[0])
	if err != nil {
		return err
	}
	unit, err := detector.ParseUnit(resolutionUnit)
	if err != nil {
		return err
	}

	res := model.In(unit)
	fmt.Printf("%s (%s width, calibrated in %s)\n", model.Name, model.Width, model.Unit)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ENERGY [%s]\tFWHM/E [%%]\tFWHM [%s]\tSIGMA [%s]\n", unit, unit, unit)
	for _, e := range energies {
		r, err := res(e)
		if err != nil {
			return err
		}
		fwhm := r * e
		fmt.Fprintf(w, "%g\t%.3f\t%.4g\t%.4g\n", e, 100*r, fwhm, fwhm/resolution.FWHMPerSigma)
	}
	return w.Flush()
}

func listDetectors(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tA\tB\tC\tUNIT\tWIDTH\tFWHM/E @ 662 keV")
	for _, name := range resolution.ListPresets() {
		m, err := resolution.GetPreset(name)
		if err != nil {
			return err
		}
		r, err := m.In(detector.KeV)(662)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%s\t%s\t%.2f%%\n", name, m.A, m.B, m.C, m.Unit, m.Width, 100*r)
	}
	return w.Flush()
}
