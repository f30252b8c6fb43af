// Package pipeline runs a configured analysis: load channels, broaden them
// with their detector models, window coincidences and bin everything the
// renderers and exporters consume.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/detsim/internal/broaden"
	"github.com/san-kum/detsim/internal/coincidence"
	"github.com/san-kum/detsim/internal/config"
	"github.com/san-kum/detsim/internal/dataio"
	"github.com/san-kum/detsim/internal/detector"
	"github.com/san-kum/detsim/internal/histogram"
	"github.com/san-kum/detsim/internal/resolution"
)

// Spectrum is one channel seen through one view, before and after
// broadening.
type Spectrum struct {
	Channel   string
	Unit      detector.Unit
	View      config.ViewConfig
	Raw       histogram.H1
	Broadened histogram.H1
}

type Coincidence struct {
	A, B   string
	Unit   detector.Unit
	Window float64
	Mask   coincidence.Mask
	Joint  histogram.H2
	// Difference is the tA - tB spectrum of all events; nil when not binned.
	Difference *histogram.H1
}

type Timing struct {
	Channel string
	Hist    histogram.H1
	LogY    bool
}

type Summary struct {
	Channel  string
	Detector string
	Unit     detector.Unit
	Events   int
	Deposits int
	// InRange counts broadened deposits inside the first view.
	InRange int
	Mean    float64
	Std     float64
}

type Result struct {
	Raw         []detector.Channel
	Broadened   []detector.Channel
	Spectra     []Spectrum
	Coincidence *Coincidence
	Timing      []Timing
	Summaries   []Summary
}

// Spectrum returns the spectrum of channel in the named view.
func (r *Result) Spectrum(channel, view string) (Spectrum, bool) {
	for _, s := range r.Spectra {
		if s.Channel == channel && s.View.Name == view {
			return s, true
		}
	}
	return Spectrum{}, false
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	log      *slog.Logger
}

func New(cfg *config.Config, log *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Experiment{cfg: cfg, registry: NewRegistry(cfg), log: log}, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Load reads every configured channel from the input file.
func (e *Experiment) Load() ([]detector.Channel, error) {
	src, err := dataio.Open(e.cfg.Input.Format, e.cfg.Input.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", e.cfg.Input.Path, err)
	}
	defer src.Close()

	channels := make([]detector.Channel, 0, len(e.cfg.Channels))
	for _, cc := range e.cfg.Channels {
		unit, err := detector.ParseUnit(cc.Unit)
		if err != nil {
			return nil, err
		}
		ch, err := src.Channel(dataio.Spec{
			Name:   cc.Name,
			Tree:   cc.Tree,
			Energy: cc.Energy,
			Time:   cc.Time,
			Unit:   unit,
		})
		if err != nil {
			return nil, err
		}
		e.log.Info("loaded channel", "channel", ch.Name, "events", ch.Len(), "unit", ch.Unit, "timing", ch.HasTime())
		channels = append(channels, ch)
	}
	return channels, nil
}

// Run processes channels, which must follow the configured channel order.
func (e *Experiment) Run(ctx context.Context, channels []detector.Channel) (*Result, error) {
	if len(channels) != len(e.cfg.Channels) {
		return nil, detector.PreconditionError("pipeline", "%d channels configured, %d given", len(e.cfg.Channels), len(channels))
	}

	models := make([]resolution.Model, len(channels))
	jobs := make([]broaden.Job, len(channels))
	for i, ch := range channels {
		if err := ch.Validate(); err != nil {
			return nil, err
		}
		model, err := e.registry.Get(e.cfg.Channels[i].Detector)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", ch.Name, err)
		}
		models[i] = model
		jobs[i] = broaden.Job{Name: ch.Name, Energy: ch.Energy, Resolution: model.In(ch.Unit)}
	}

	e.log.Debug("broadening", "channels", len(jobs), "seed", e.cfg.Seed)
	energies, err := broaden.Parallel(ctx, jobs, e.cfg.Seed)
	if err != nil {
		return nil, err
	}

	res := &Result{Raw: channels, Broadened: make([]detector.Channel, len(channels))}
	for i, ch := range channels {
		res.Broadened[i] = ch.WithEnergy(energies[i])
	}

	for i, ch := range channels {
		for _, v := range e.cfg.Views {
			raw, err := histogram.New1D(ch.Energy, v.Binning)
			if err != nil {
				return nil, fmt.Errorf("view %s: %w", v.Name, err)
			}
			br, err := histogram.New1D(res.Broadened[i].Energy, v.Binning)
			if err != nil {
				return nil, fmt.Errorf("view %s: %w", v.Name, err)
			}
			res.Spectra = append(res.Spectra, Spectrum{Channel: ch.Name, Unit: ch.Unit, View: v, Raw: raw, Broadened: br})
		}
		res.Summaries = append(res.Summaries, e.summarize(res.Broadened[i], models[i]))
	}

	if co := e.cfg.Coincidence; co != nil {
		if res.Coincidence, err = e.coincide(co, res.Broadened); err != nil {
			return nil, err
		}
	}

	if t := e.cfg.Timing; t != nil {
		for _, ch := range channels {
			th, ok, err := timing(ch, t)
			if err != nil {
				return nil, fmt.Errorf("timing %s: %w", ch.Name, err)
			}
			if !ok {
				e.log.Warn("no timing histogram", "channel", ch.Name)
				continue
			}
			res.Timing = append(res.Timing, Timing{Channel: ch.Name, Hist: th, LogY: t.LogY})
		}
	}

	return res, nil
}

func (e *Experiment) coincide(co *config.CoincidenceConfig, channels []detector.Channel) (*Coincidence, error) {
	a, b := e.index(co.A), e.index(co.B)
	ca, cb := channels[a], channels[b]
	if cb.Unit != ca.Unit {
		cb = cb.Scaled(ca.Unit)
	}

	mask, err := coincidence.Window(ca.Time, cb.Time, co.Window)
	if err != nil {
		return nil, err
	}
	x, y, err := mask.Pairs(ca.Energy, cb.Energy)
	if err != nil {
		return nil, err
	}
	joint, err := histogram.New2D(x, y, co.X, co.Y)
	if err != nil {
		return nil, fmt.Errorf("coincidence histogram: %w", err)
	}

	out := &Coincidence{A: ca.Name, B: cb.Name, Unit: ca.Unit, Window: co.Window, Mask: mask, Joint: joint}
	if co.Difference != (histogram.Binning{}) {
		diff, err := coincidence.Differences(ca.Time, cb.Time)
		if err != nil {
			return nil, err
		}
		h, err := histogram.New1D(diff, co.Difference)
		if err != nil {
			return nil, fmt.Errorf("time difference histogram: %w", err)
		}
		out.Difference = &h
	}

	e.log.Info("coincidence", "a", ca.Name, "b", cb.Name, "window_ns", co.Window,
		"coincident", mask.Count(), "events", len(mask), "binned", joint.Total())
	return out, nil
}

func (e *Experiment) index(name string) int {
	for i, ch := range e.cfg.Channels {
		if ch.Name == name {
			return i
		}
	}
	return -1
}

func (e *Experiment) summarize(ch detector.Channel, m resolution.Model) Summary {
	s := Summary{Channel: ch.Name, Detector: m.Name, Unit: ch.Unit, Events: ch.Len()}

	deposits := make([]float64, 0, ch.Len())
	for _, v := range ch.Energy {
		if v > 0 {
			deposits = append(deposits, v)
		}
	}
	s.Deposits = len(deposits)

	if len(e.cfg.Views) > 0 {
		if h, err := histogram.New1D(deposits, e.cfg.Views[0].Binning); err == nil {
			s.InRange = h.Total()
		}
	}

	s.Mean, s.Std = MeanStd(deposits)
	return s
}

// MeanStd returns the mean and sample standard deviation of data. An empty
// sample gives zeros and a single value has zero spread.
func MeanStd(data []float64) (mean, std float64) {
	switch len(data) {
	case 0:
		return 0, 0
	case 1:
		return data[0], 0
	}
	return stat.MeanStdDev(data, nil)
}

// timing bins a channel's timestamps from t.Min up to its latest event.
// It reports false when the channel has no usable timestamps.
func timing(ch detector.Channel, t *config.TimingConfig) (histogram.H1, bool, error) {
	finite := make([]float64, 0, len(ch.Time))
	for _, v := range ch.Time {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return histogram.H1{}, false, nil
	}
	hi := floats.Max(finite)
	if hi <= t.Min {
		return histogram.H1{}, false, nil
	}
	h, err := histogram.New1D(finite, histogram.Binning{Min: t.Min, Max: hi, Count: t.Count})
	return h, err == nil, err
}
