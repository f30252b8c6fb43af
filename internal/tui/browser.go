// Package tui is an interactive terminal browser over the spectra of one
// analysis run.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/detsim/internal/pipeline"
	"github.com/san-kum/detsim/internal/render"
)

const (
	stateMenu = iota
	stateView
)

type pageKind int

const (
	pageSpectrum pageKind = iota
	pageJoint
	pageTiming
	pageSummary
)

type page struct {
	kind  pageKind
	title string
	index int
}

type model struct {
	state, cursor int
	pages         []page
	result        *pipeline.Result
	style         render.Style
	annotations   []render.Annotation
	// toggles applied to spectrum pages
	raw, logY, markers bool
	width, height      int
}

// New builds the browser model for res.
func New(res *pipeline.Result, style render.Style, annotations []render.Annotation) tea.Model {
	return newModel(res, style, annotations)
}

func newModel(res *pipeline.Result, style render.Style, annotations []render.Annotation) model {
	m := model{result: res, style: style, annotations: annotations, markers: true, width: 80, height: 24}
	for i, sp := range res.Spectra {
		m.pages = append(m.pages, page{kind: pageSpectrum, title: fmt.Sprintf("%s / %s", sp.Channel, sp.View.Name), index: i})
	}
	if co := res.Coincidence; co != nil {
		m.pages = append(m.pages, page{kind: pageJoint, title: fmt.Sprintf("%s vs %s", co.A, co.B)})
	}
	for i, t := range res.Timing {
		m.pages = append(m.pages, page{kind: pageTiming, title: t.Channel + " timing", index: i})
	}
	m.pages = append(m.pages, page{kind: pageSummary, title: "summary"})
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateView:
		return m.viewKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.pages)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.state = stateView
	}
	return m, nil
}

func (m model) viewKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(m.pages)-1 {
			m.cursor++
		}
	case "r":
		m.raw = !m.raw
	case "y":
		m.logY = !m.logY
	case "m":
		m.markers = !m.markers
	}
	return m, nil
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateView:
		return m.viewPage()
	}
	return ""
}

func (m model) header(title, sub string) string {
	h := lipgloss.NewStyle().Foreground(m.style.Theme.Primary).Bold(true)
	s := lipgloss.NewStyle().Foreground(m.style.Theme.Muted)
	return "\n  " + h.Render(title) + "\n  " + s.Render(sub) + "\n  " + s.Render("─────────────────────────") + "\n\n"
}

func (m model) help(pairs ...string) string {
	key := lipgloss.NewStyle().Foreground(m.style.Theme.Accent).Bold(true)
	desc := lipgloss.NewStyle().Foreground(m.style.Theme.Muted)
	var b strings.Builder
	b.WriteString("\n  ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(key.Render(pairs[i]) + desc.Render(" "+pairs[i+1]+"  "))
	}
	b.WriteString("\n")
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.header("DETSIM", "detector response browser"))
	selected := lipgloss.NewStyle().Foreground(m.style.Theme.Text).Bold(true)
	other := lipgloss.NewStyle().Foreground(m.style.Theme.Muted)
	arrow := lipgloss.NewStyle().Foreground(m.style.Theme.Accent).Bold(true).Render("▸")
	for i, p := range m.pages {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("  %s %s\n", arrow, selected.Render(p.title)))
		} else {
			b.WriteString(fmt.Sprintf("    %s\n", other.Render(p.title)))
		}
	}
	b.WriteString(m.help("j/k", "navigate", "enter", "open", "q", "quit"))
	return b.String()
}

func (m model) viewPage() string {
	p := m.pages[m.cursor]
	style := m.style
	if m.width > 20 {
		style.TermWidth = m.width - 16
	}
	if m.height > 16 {
		style.TermHeight = m.height - 12
	}

	var b strings.Builder
	switch p.kind {
	case pageSpectrum:
		sp := m.result.Spectra[p.index]
		v := pipeline.View(sp.View)
		v.LogY = v.LogY != m.logY
		v.Markers = v.Markers && m.markers
		h, label := sp.Broadened, "broadened"
		if m.raw {
			h, label = sp.Raw, "deposited"
		}
		b.WriteString(m.header(p.title, fmt.Sprintf("%s energy [%s]", label, sp.Unit)))
		b.WriteString(style.Terminal(h, v, p.title, m.annotations))
		b.WriteString(m.help("h/l", "page", "r", "raw/broadened", "y", "log y", "m", "markers", "esc", "back"))
	case pageJoint:
		co := m.result.Coincidence
		b.WriteString(m.header(p.title, fmt.Sprintf("%d coincidences within %g ns [%s]", co.Mask.Count(), co.Window, co.Unit)))
		b.WriteString(style.TerminalJoint(co.Joint, style.TermWidth, style.TermHeight))
		b.WriteString(m.help("h/l", "page", "esc", "back"))
	case pageTiming:
		t := m.result.Timing[p.index]
		v := render.View{Name: "time", LogY: t.LogY != m.logY}
		v.Binning.Min, v.Binning.Max = t.Hist.Range()
		b.WriteString(m.header(p.title, "time [ns]"))
		b.WriteString(style.Terminal(t.Hist, v, p.title, nil))
		b.WriteString(m.help("h/l", "page", "y", "log y", "esc", "back"))
	case pageSummary:
		headers, rows := m.result.Table()
		b.WriteString(m.header(p.title, "per channel statistics"))
		b.WriteString(style.Table("", headers, rows))
		b.WriteString(m.help("h/l", "page", "esc", "back"))
	}
	return b.String()
}

// Run starts the browser on the alternate screen and blocks until it exits.
func Run(res *pipeline.Result, style render.Style, annotations []render.Annotation) error {
	_, err := tea.NewProgram(New(res, style, annotations), tea.WithAltScreen()).Run()
	return err
}
