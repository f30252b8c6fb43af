package dataio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/detsim/internal/detector"
)

// CSVFile holds a comma separated table with a header row. Channels are
// addressed by column name; Spec.Tree is ignored.
type CSVFile struct {
	header  map[string]int
	records [][]string
}

func OpenCSV(path string) (*CSVFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

func ReadCSV(r io.Reader) (*CSVFile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataio: csv has no header")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[name] = i
	}
	return &CSVFile{header: header, records: records[1:]}, nil
}

func (c *CSVFile) Close() error { return nil }

func (c *CSVFile) Channel(spec Spec) (detector.Channel, error) {
	energy, err := c.column(spec.Energy)
	if err != nil {
		return detector.Channel{}, fmt.Errorf("channel %s: %w", spec.Name, err)
	}
	ch := detector.Channel{Name: spec.Name, Unit: spec.Unit, Energy: energy}
	if spec.Time != "" {
		if ch.Time, err = c.column(spec.Time); err != nil {
			return detector.Channel{}, fmt.Errorf("channel %s: %w", spec.Name, err)
		}
	}
	return ch, nil
}

func (c *CSVFile) column(name string) ([]float64, error) {
	idx, ok := c.header[name]
	if !ok {
		return nil, fmt.Errorf("no column %q", name)
	}
	out := make([]float64, 0, len(c.records))
	for row, record := range c.records {
		if idx >= len(record) {
			return nil, fmt.Errorf("row %d: missing column %q", row+2, name)
		}
		v, err := strconv.ParseFloat(record[idx], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d, column %q: %w", row+2, name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteCSV writes the channels side by side: one energy and, when present,
// one time column per channel. All channels must have the same length.
func WriteCSV(w io.Writer, channels ...detector.Channel) error {
	if len(channels) == 0 {
		return nil
	}
	n := channels[0].Len()

	header := make([]string, 0, 2*len(channels))
	for _, ch := range channels {
		if ch.Len() != n {
			return detector.PreconditionError("write csv", "channel %s has %d events, expected %d", ch.Name, ch.Len(), n)
		}
		header = append(header, fmt.Sprintf("%s_energy_%s", ch.Name, ch.Unit))
		if ch.HasTime() {
			header = append(header, ch.Name+"_time_ns")
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(header))
		for _, ch := range channels {
			row = append(row, strconv.FormatFloat(ch.Energy[i], 'g', -1, 64))
			if ch.HasTime() {
				row = append(row, strconv.FormatFloat(ch.Time[i], 'g', -1, 64))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
