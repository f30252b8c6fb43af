package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/detsim/internal/histogram"
)

// Rebin sums neighbouring counts until at most width values remain.
func Rebin(counts []int, width int) []float64 {
	if width <= 0 || len(counts) <= width {
		out := make([]float64, len(counts))
		for i, c := range counts {
			out[i] = float64(c)
		}
		return out
	}

	group := (len(counts) + width - 1) / width
	out := make([]float64, 0, width)
	for start := 0; start < len(counts); start += group {
		end := start + group
		if end > len(counts) {
			end = len(counts)
		}
		sum := 0
		for _, c := range counts[start:end] {
			sum += c
		}
		out = append(out, float64(sum))
	}
	return out
}

// Terminal plots h with asciigraph. Log views plot log10(1 + counts).
func (s Style) Terminal(h histogram.H1, v View, caption string, annotations []Annotation) string {
	data := Rebin(h.Counts(), s.TermWidth)
	if len(data) == 0 {
		data = []float64{0}
	}
	if v.LogY {
		for i := range data {
			data[i] = math.Log10(1 + data[i])
		}
		caption += " (log10 counts)"
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(s.TermHeight),
		asciigraph.Width(s.TermWidth),
		asciigraph.Caption(caption),
	)

	lo, hi := h.Range()
	var sb strings.Builder
	sb.WriteString(graph)
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(s.Theme.Muted).Render(fmt.Sprintf("range [%g, %g], %d bins, %d entries", lo, hi, h.Bins(), h.Total())))
	sb.WriteString("\n")
	if h.Total() == 0 {
		sb.WriteString(lipgloss.NewStyle().Foreground(s.Theme.Warning).Render("no entries in range"))
		sb.WriteString("\n")
	}

	for _, a := range Visible(v, annotations) {
		marker := lipgloss.NewStyle().Foreground(lipgloss.Color(a.Color)).Bold(true).Render("▲")
		sb.WriteString(fmt.Sprintf("%s %-32s %g\n", marker, a.Label, a.Position))
	}
	return sb.String()
}

const densityRamp = " .:-=+*#%@"

// TerminalJoint draws h as a character density map, y increasing upwards.
func (s Style) TerminalJoint(h histogram.H2, width, height int) string {
	nx, ny := h.Bins()
	if width <= 0 || height <= 0 || nx == 0 || ny == 0 {
		return ""
	}

	grid := make([][]float64, height)
	for i := range grid {
		grid[i] = make([]float64, width)
	}
	peak := 0.0
	for ix := 0; ix < nx; ix++ {
		col := ix * width / nx
		for iy := 0; iy < ny; iy++ {
			row := height - 1 - iy*height/ny
			grid[row][col] += float64(h.Count(ix, iy))
			peak = math.Max(peak, grid[row][col])
		}
	}

	ramp := []rune(densityRamp)
	var sb strings.Builder
	for _, row := range grid {
		for _, v := range row {
			idx := 0
			if v > 0 && peak > 0 {
				// log scale so single coincidences stay visible
				idx = 1 + int(math.Log1p(v)/math.Log1p(peak)*float64(len(ramp)-2))
				if idx >= len(ramp) {
					idx = len(ramp) - 1
				}
			}
			sb.WriteRune(ramp[idx])
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Table renders rows under a bold header using the theme colors.
func (s Style) Table(title string, headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(s.Theme.Primary)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(s.Theme.Text).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(s.Theme.Muted)
	labelStyle := lipgloss.NewStyle().Foreground(s.Theme.Muted)
	valueStyle := lipgloss.NewStyle().Foreground(s.Theme.Secondary).Bold(true)

	pad := func(cell string, w int) string {
		return cell + strings.Repeat(" ", w-lipgloss.Width(cell)+2)
	}

	var sb strings.Builder
	if title != "" {
		sb.WriteString(titleStyle.Render(title))
		sb.WriteString("\n")
	}
	var head strings.Builder
	for i, h := range headers {
		head.WriteString(pad(h, widths[i]))
	}
	sb.WriteString(headerStyle.Render(head.String()))
	sb.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if i == 0 {
				sb.WriteString(labelStyle.Render(pad(cell, widths[i])))
			} else {
				sb.WriteString(valueStyle.Render(pad(cell, widths[i])))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
