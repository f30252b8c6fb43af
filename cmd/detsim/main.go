package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/detsim/internal/config"
	"github.com/san-kum/detsim/internal/pipeline"
	"github.com/san-kum/detsim/internal/render"
)

var (
	verbose bool
	logJSON bool
	// broaden
	broadenDetector string
	broadenColumn   string
	broadenTree     string
	broadenUnit     string
	broadenFormat   string
	broadenSeed     uint64
	csvOut          string
	// resolution
	energies       []float64
	resolutionUnit string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "detsim",
		Short:         "detector response and coincidence spectra",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "broaden, coincide and render the configured spectra",
		RunE:  runAnalysis,
	}
	analysisFlags(runCmd)
	runCmd.Flags().String("out", config.DefaultOutput, "output directory for figures")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot the configured spectra in the terminal",
		RunE:  plotAnalysis,
	}
	analysisFlags(plotCmd)

	exportJSONCmd := &cobra.Command{
		Use:   "export-json",
		Short: "write the analysis histograms as JSON to stdout",
		RunE:  exportJSON,
	}
	analysisFlags(exportJSONCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv",
		Short: "write each analysis histogram as a CSV file",
		RunE:  exportCSV,
	}
	analysisFlags(exportCSVCmd)
	exportCSVCmd.Flags().String("out", config.DefaultOutput, "output directory for CSV files")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "browse the analysis interactively",
		RunE:  browseAnalysis,
	}
	analysisFlags(browseCmd)

	broadenCmd := &cobra.Command{
		Use:   "broaden [file]",
		Short: "broaden one energy column",
		Args:  cobra.ExactArgs(1),
		RunE:  broadenFile,
	}
	broadenCmd.Flags().StringVar(&broadenDetector, "detector", "hpge-2cc", "detector preset")
	broadenCmd.Flags().StringVar(&broadenColumn, "column", "fEdep", "energy column")
	broadenCmd.Flags().StringVar(&broadenTree, "tree", "Energy", "ntuple name (root input)")
	broadenCmd.Flags().StringVar(&broadenUnit, "unit", "keV", "energy unit of the column")
	broadenCmd.Flags().StringVar(&broadenFormat, "format", config.DefaultFormat, "input format (root, csv)")
	broadenCmd.Flags().Uint64Var(&broadenSeed, "seed", config.DefaultSeed, "random seed")
	broadenCmd.Flags().StringVar(&csvOut, "csv", "", "write broadened energies to this CSV file")

	resolutionCmd := &cobra.Command{
		Use:   "resolution [detector]",
		Short: "tabulate a detector's energy resolution",
		Args:  cobra.ExactArgs(1),
		RunE:  resolutionTable,
	}
	resolutionCmd.Flags().Float64SliceVar(&energies, "energies", []float64{59.5, 122, 344, 662, 1173, 1332, 2614}, "energies to evaluate")
	resolutionCmd.Flags().StringVar(&resolutionUnit, "unit", "keV", "unit of --energies")

	detectorsCmd := &cobra.Command{
		Use:   "detectors",
		Short: "list detector presets",
		RunE:  listDetectors,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list analysis presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("analysis presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, plotCmd, exportJSONCmd, exportCSVCmd, browseCmd, broadenCmd, resolutionCmd, detectorsCmd, presetsCmd)
	return rootCmd
}

func analysisFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "config file path (yaml)")
	cmd.Flags().String("preset", "", "use a named analysis preset")
	cmd.Flags().Uint64("seed", config.DefaultSeed, "random seed")
	cmd.Flags().String("input", "", "event file (overrides config)")
	cmd.Flags().String("format", config.DefaultFormat, "input format (root, csv)")
	cmd.Flags().String("theme", "", fmt.Sprintf("terminal theme (%s)", strings.Join(render.ThemeNames(), ", ")))
}

func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if logJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadConfig resolves the preset, then the config file, then explicitly set
// flags, each overriding the previous.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	cfg := config.DefaultConfig()

	if preset, _ := flags.GetString("preset"); preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("input") {
		cfg.Input.Path, _ = flags.GetString("input")
	}
	if flags.Changed("format") {
		cfg.Input.Format, _ = flags.GetString("format")
	}
	if flags.Changed("theme") {
		theme, _ := flags.GetString("theme")
		if !slices.Contains(render.ThemeNames(), theme) {
			return nil, fmt.Errorf("unknown theme: %s (available: %v)", theme, render.ThemeNames())
		}
		cfg.Style.Theme = theme
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		cfg.Output, _ = flags.GetString("out")
	}
	return cfg, nil
}

// analyze runs the configured pipeline end to end.
func analyze(cmd *cobra.Command) (*pipeline.Experiment, *pipeline.Result, error) {
	log := newLogger()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	exp, err := pipeline.New(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	channels, err := exp.Load()
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := exp.Run(ctx, channels)
	if err != nil {
		return nil, nil, err
	}
	return exp, res, nil
}
