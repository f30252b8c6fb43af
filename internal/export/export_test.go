package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/detsim/internal/histogram"
)

func TestWriteJSON(t *testing.T) {
	h, err := histogram.New1D([]float64{1, 2, 2, 3, 10}, histogram.Binning{Min: 0, Max: 4, Width: 1})
	if err != nil {
		t.Fatal(err)
	}
	b := histogram.Binning{Min: 0, Max: 2, Count: 2}
	h2, err := histogram.New2D([]float64{0.5}, []float64{1.5}, b, b)
	if err != nil {
		t.Fatal(err)
	}

	doc := Document{
		Config:  "test",
		Seed:    42,
		Spectra: []Hist1D{NewHist1D("full", "HPGe", "keV", h)},
		Joint:   []Hist2D{NewHist2D("coincidence", h2)},
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var decoded Document
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", decoded.Seed)
	}
	if len(decoded.Spectra) != 1 || decoded.Spectra[0].Entries != 4 {
		t.Errorf("unexpected spectra %+v", decoded.Spectra)
	}
	if decoded.Joint[0].Counts[0][1] != 1 {
		t.Errorf("unexpected joint counts %v", decoded.Joint[0].Counts)
	}
}

func TestWriteCSV(t *testing.T) {
	h, _ := histogram.New1D([]float64{1, 2, 2, 3}, histogram.Binning{Min: 0, Max: 4, Width: 1})

	var buf bytes.Buffer
	if err := WriteCSV(&buf, h); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header and 4 rows, got %d lines", len(lines))
	}
	if lines[3] != "2,3,2" {
		t.Errorf("expected row 2,3,2, got %q", lines[3])
	}
}
