// Package export hands histograms to external tools as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/detsim/internal/histogram"
)

type Hist1D struct {
	Name    string    `json:"name"`
	Channel string    `json:"channel,omitempty"`
	Unit    string    `json:"unit,omitempty"`
	Edges   []float64 `json:"edges"`
	Counts  []int     `json:"counts"`
	Entries int       `json:"entries"`
}

type Hist2D struct {
	Name    string    `json:"name"`
	EdgesX  []float64 `json:"edges_x"`
	EdgesY  []float64 `json:"edges_y"`
	Counts  [][]int   `json:"counts"`
	Entries int       `json:"entries"`
}

// Document is the full output of one analysis run.
type Document struct {
	Config     string             `json:"config"`
	Seed       uint64             `json:"seed"`
	Window     float64            `json:"coincidence_window_ns,omitempty"`
	Coincident int                `json:"coincident_events,omitempty"`
	Spectra    []Hist1D           `json:"spectra"`
	Joint      []Hist2D           `json:"joint,omitempty"`
	Summary    map[string]float64 `json:"summary,omitempty"`
}

func NewHist1D(name, channel, unit string, h histogram.H1) Hist1D {
	return Hist1D{
		Name:    name,
		Channel: channel,
		Unit:    unit,
		Edges:   h.Edges(),
		Counts:  h.Counts(),
		Entries: h.Total(),
	}
}

func NewHist2D(name string, h histogram.H2) Hist2D {
	return Hist2D{
		Name:    name,
		EdgesX:  h.EdgesX(),
		EdgesY:  h.EdgesY(),
		Counts:  h.Counts(),
		Entries: h.Total(),
	}
}

func WriteJSON(w io.Writer, doc Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// WriteCSV writes one row per bin: low edge, high edge, count.
func WriteCSV(w io.Writer, h histogram.H1) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"low", "high", "count"}); err != nil {
		return err
	}

	edges, counts := h.Edges(), h.Counts()
	for i, c := range counts {
		row := []string{
			strconv.FormatFloat(edges[i], 'g', -1, 64),
			strconv.FormatFloat(edges[i+1], 'g', -1, 64),
			strconv.Itoa(c),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
