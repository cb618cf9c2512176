// Package tui provides a terminal parameter editor for a phase engine
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/phaseseq/pkg/phase"
	"github.com/james-see/phaseseq/pkg/render"
)

// Acid-inspired color scheme
var (
	acidGreen  = lipgloss.Color("#39FF14")
	acidYellow = lipgloss.Color("#FFFF00")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(acidGreen).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(acidGreen).
			Bold(true).
			PaddingLeft(2)

	headerStyle = lipgloss.NewStyle().
			Foreground(acidYellow).
			Underline(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(acidYellow).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(acidGreen).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(acidGreen).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateParams State = iota
	StateFilePicker
	StateRendering
	StateResult
)

type rowKind int

const (
	rowParam rowKind = iota
	rowRender
	rowExit
)

type row struct {
	kind  rowKind
	param phase.ParamDescriptor
	title string
}

func buildRows() []row {
	var rows []row
	for _, d := range phase.Descriptors(phase.DefaultSettings()) {
		rows = append(rows, row{kind: rowParam, param: d, title: d.Name})
	}
	rows = append(rows,
		row{kind: rowRender, title: "Render MIDI file"},
		row{kind: rowExit, title: "Exit"},
	)
	return rows
}

func (r row) selectable() bool {
	return r.kind != rowParam || r.param.Type != phase.ParamText
}

// Model represents the TUI model
type Model struct {
	engine       *phase.Engine
	name         string
	rows         []row
	state        State
	index        int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	result       *render.Result
	outputFile   string
	err          error
	width        int
	height       int
}

// renderDoneMsg signals render completion
type renderDoneMsg struct {
	outputFile string
	result     *render.Result
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a model editing engine. name labels the loaded pattern.
func New(engine *phase.Engine, name string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(acidGreen)

	m := Model{
		engine:     engine,
		name:       name,
		rows:       buildRows(),
		state:      StateParams,
		filePicker: fp,
		spinner:    s,
	}
	for !m.rows[m.index].selectable() {
		m.index++
	}
	return m
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive all messages
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateParams
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateRendering
			return m, tea.Batch(m.spinner.Tick, m.performRender())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateParams:
			return m.updateParams(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case renderDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.result = msg.result
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateParams(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case "d":
		m.reset()
	case "enter", " ":
		r := m.rows[m.index]
		switch r.kind {
		case rowExit:
			return m, tea.Quit
		case rowRender:
			m.state = StateFilePicker
			return m, m.filePicker.Init()
		case rowParam:
			if r.param.Type == phase.ParamMenu {
				m.adjust(1)
			}
		}
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// move selects the next selectable row in dir, staying put at the ends
func (m *Model) move(dir int) {
	for i := m.index + dir; i >= 0 && i < len(m.rows); i += dir {
		if m.rows[i].selectable() {
			m.index = i
			return
		}
	}
}

// adjust steps the selected parameter. Menus wrap around.
func (m *Model) adjust(dir int) {
	r := m.rows[m.index]
	if r.kind != rowParam || r.param.Type == phase.ParamText {
		return
	}

	d := r.param
	current, _ := m.engine.Settings().Value(d.ID)

	var value float64
	if d.Type == phase.ParamMenu {
		value = current + float64(dir)
		if value > d.Max {
			value = d.Min
		} else if value < d.Min {
			value = d.Max
		}
	} else {
		value = d.Clamp(current + float64(dir)*d.StepSize())
	}
	m.engine.ParameterChanged(d.ID, value)
}

func (m *Model) reset() {
	r := m.rows[m.index]
	if r.kind == rowParam && r.param.Type != phase.ParamText {
		m.engine.ParameterChanged(r.param.ID, r.param.Default)
	}
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateParams
		m.err = nil
		m.result = nil
		m.selectedFile = ""
		m.outputFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performRender() tea.Cmd {
	p, settings := m.engine.Snapshot()
	input := m.selectedFile
	return func() tea.Msg {
		output := render.OutputPath(input)
		result, err := render.New(p, settings).RenderFile(input, output)
		if err != nil {
			return renderDoneMsg{err: err}
		}
		return renderDoneMsg{outputFile: output, result: result}
	}
}

// formatValue shows a parameter value the way the host would
func formatValue(d phase.ParamDescriptor, v float64) string {
	switch {
	case d.Type == phase.ParamMenu:
		i := int(v)
		if i >= 0 && i < len(d.ValueStrings) {
			return d.ValueStrings[i]
		}
		return fmt.Sprintf("%g", v)
	case d.StepSize() >= 1:
		return fmt.Sprintf("%.0f%s", v, d.Unit)
	default:
		return fmt.Sprintf("%.4g%s", v, d.Unit)
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateParams:
		s.WriteString(m.viewParams())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateRendering:
		s.WriteString(m.viewRendering())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • ←/→: adjust • d: default • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewParams() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" PATTERN: %s ", strings.ToUpper(m.name))))
	s.WriteString("\n\n")

	settings := m.engine.Settings()
	for i, r := range m.rows {
		line := r.title
		if r.kind == rowParam && r.param.Type == phase.ParamText {
			s.WriteString("\n")
			s.WriteString(headerStyle.Render(line))
			s.WriteString("\n")
			continue
		}
		if r.kind == rowParam {
			v, _ := settings.Value(r.param.ID)
			line = fmt.Sprintf("%-20s %s", r.title, formatValue(r.param, v))
		} else if r.kind == rowRender {
			s.WriteString("\n")
		}

		if i == m.index {
			s.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			s.WriteString(menuStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT MIDI FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to parameters"))

	return s.String()
}

func (m Model) viewRendering() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" RENDERING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Rendering %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  pattern %s", m.name)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Render failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Render complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output: %s\n", filepath.Base(m.outputFile)))
		if m.result != nil {
			s.WriteString(fmt.Sprintf("Notes:  %d from %d triggers", m.result.Notes, m.result.Triggers))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
         _
   _ __ | |__   __ _ ___  ___  ___  ___  __ _
  | '_ \| '_ \ / _' / __|/ _ \/ __|/ _ \/ _' |
  | |_) | | | | (_| \__ \  __/\__ \  __/ (_| |
  | .__/|_| |_|\__,_|___/\___||___/\___|\__, |
  |_|                                      |_|
`
	return lipgloss.NewStyle().Foreground(acidGreen).Render(logo)
}

// Run starts the TUI for engine
func Run(engine *phase.Engine, name string) error {
	p := tea.NewProgram(New(engine, name), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
