package pipeline

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/detsim/internal/config"
	"github.com/san-kum/detsim/internal/detector"
	"github.com/san-kum/detsim/internal/histogram"
)

var _ = Describe("Experiment", func() {
	var (
		cfg *config.Config
		exp *Experiment
	)

	BeforeEach(func() {
		cfg = testConfig()
	})

	JustBeforeEach(func() {
		var err error
		exp, err = New(cfg, quietLogger())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("coincidence windowing", func() {
		It("keeps every event when both channels share timestamps and the window is zero", func() {
			cfg.Coincidence.Window = 0
			channels := testChannels()
			channels[1].Time = append([]float64(nil), channels[0].Time...)

			res, err := exp.Run(context.Background(), channels)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Coincidence.Mask.Count()).To(Equal(4))
		})

		It("treats the window boundary as coincident", func() {
			cfg.Coincidence.Window = 0.5
			res, err := exp.Run(context.Background(), testChannels())
			Expect(err).NotTo(HaveOccurred())
			Expect([]bool(res.Coincidence.Mask)).To(Equal([]bool{true, true, true, false}))
		})

		It("rejects channels of different length", func() {
			channels := testChannels()
			channels[1].Energy = channels[1].Energy[:3]
			channels[1].Time = channels[1].Time[:3]

			_, err := exp.Run(context.Background(), channels)
			Expect(err).To(MatchError(detector.ErrPrecondition))
		})
	})

	Describe("mixed units", func() {
		BeforeEach(func() {
			cfg.Channels[1].Unit = "keV"
		})

		It("converts the second channel into the first channel's unit", func() {
			channels := testChannels()
			channels[1].Unit = detector.KeV
			channels[1].Energy = []float64{300, 662, 0, 1200}

			res, err := exp.Run(context.Background(), channels)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Coincidence.Unit).To(Equal(detector.MeV))
			Expect(res.Coincidence.Joint.Total()).To(BeNumerically("<=", 2))
		})
	})

	Describe("spectra", func() {
		BeforeEach(func() {
			cfg.Coincidence = nil
			cfg.Timing = nil
			cfg.Views = append(cfg.Views, config.ViewConfig{
				Name:    "zoom",
				Binning: histogram.Binning{Min: 0.5, Max: 0.8, Width: 0.01},
				LogY:    true,
			})
		})

		It("bins raw and broadened energies for every view", func() {
			res, err := exp.Run(context.Background(), testChannels())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Spectra).To(HaveLen(4))
			Expect(res.Coincidence).To(BeNil())
			Expect(res.Timing).To(BeEmpty())

			zoom, ok := res.Spectrum("LaBr3", "zoom")
			Expect(ok).To(BeTrue())
			Expect(zoom.Raw.Bins()).To(Equal(30))
			Expect(zoom.Raw.Total()).To(Equal(2))
		})

		It("keeps broadened means close to the deposits over many events", func() {
			n := 20000
			energy := make([]float64, n)
			for i := range energy {
				energy[i] = 0.662
			}
			channels := []detector.Channel{
				{Name: "LaBr3", Unit: detector.MeV, Energy: energy},
				{Name: "CeBr3", Unit: detector.MeV, Energy: energy},
			}

			res, err := exp.Run(context.Background(), channels)
			Expect(err).NotTo(HaveOccurred())

			for _, s := range res.Summaries {
				model, err := exp.registry.Get(cfg.Channels[indexOf(cfg, s.Channel)].Detector)
				Expect(err).NotTo(HaveOccurred())
				sigma, err := model.Sigma(0.662)
				Expect(err).NotTo(HaveOccurred())

				Expect(s.Mean).To(BeNumerically("~", 0.662, 5*sigma/math.Sqrt(float64(n))))
				Expect(s.Std).To(BeNumerically("~", sigma, 0.05*sigma))
			}
		})
	})
})

func indexOf(cfg *config.Config, name string) int {
	for i, ch := range cfg.Channels {
		if ch.Name == name {
			return i
		}
	}
	return -1
}
