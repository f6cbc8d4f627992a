// Package tui provides a terminal user interface for chordkit
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/chordkit/pkg/chord"
	"github.com/james-see/chordkit/pkg/converter"
	"github.com/james-see/chordkit/pkg/theory"
)

// Lead-sheet color scheme
var (
	ivory     = lipgloss.Color("#F5F0E1")
	brass     = lipgloss.Color("#D4A017")
	inkBlue   = lipgloss.Color("#4F7CAC")
	charcoal  = lipgloss.Color("#2B2B2B")
	errorRed  = lipgloss.Color("#E06C75")
	mutedGray = lipgloss.Color("#777777")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brass).
			Background(charcoal).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(ivory).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(brass).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(inkBlue).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorRed).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(brass).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brass).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateInput
	StateFilePicker
	StateWorking
	StateResult
)

// Action is what a menu item does
type Action int

const (
	ActionDescribe Action = iota
	ActionIdentify
	ActionAnalyzeMIDI
	ActionRenderMIDI
	ActionQualities
	ActionExit
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Action      Action
}

var menuItems = []MenuItem{
	{Title: "Describe chord", Description: "Spell out a chord name such as Cmaj9/G", Action: ActionDescribe},
	{Title: "Identify notes", Description: "Name the chord formed by notes, bass first (E C G)", Action: ActionIdentify},
	{Title: "MIDI → chords", Description: "Identify the chords in a MIDI file and save them as text", Action: ActionAnalyzeMIDI},
	{Title: "Chords → MIDI", Description: "Render a text progression as a MIDI file", Action: ActionRenderMIDI},
	{Title: "Qualities", Description: "List every chord quality chordkit knows", Action: ActionQualities},
	{Title: "Exit", Description: "Exit the application", Action: ActionExit},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	input        textinput.Model
	filePicker   filepicker.Model
	spinner      spinner.Model
	converter    *converter.Converter
	item         MenuItem
	selectedFile string
	outputFile   string
	result       string
	err          error
	width        int
	height       int
}

// workDoneMsg signals that a file conversion finished
type workDoneMsg struct {
	outputFile string
	summary    string
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model that renders MIDI through conv
func New(conv *converter.Converter) Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(brass)

	return Model{
		state:      StateMenu,
		input:      ti,
		filePicker: fp,
		spinner:    s,
		converter:  conv,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to receive all messages
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateWorking
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
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
		case StateMenu:
			return m.updateMenu(msg)
		case StateInput:
			return m.updateInput(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case workDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.result = msg.summary
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		m.item = menuItems[m.menuIndex]
		switch m.item.Action {
		case ActionExit:
			return m, tea.Quit
		case ActionQualities:
			m.state = StateResult
			m.result = qualityTable()
			return m, nil
		case ActionDescribe, ActionIdentify:
			m.state = StateInput
			m.input.SetValue("")
			if m.item.Action == ActionDescribe {
				m.input.Placeholder = "Cmaj9/G"
			} else {
				m.input.Placeholder = "E C G"
			}
			return m, m.input.Focus()
		case ActionAnalyzeMIDI:
			m.filePicker.AllowedTypes = []string{".mid", ".midi"}
		case ActionRenderMIDI:
			m.filePicker.AllowedTypes = []string{".txt", ".chords"}
		}
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.state = StateMenu
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.input.Blur()
		m.state = StateResult
		if m.item.Action == ActionDescribe {
			m.result, m.err = describe(m.input.Value())
		} else {
			m.result, m.err = identify(m.input.Value())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.outputFile = ""
		m.result = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// describe renders the notes and description of a chord name
func describe(name string) (string, error) {
	c, err := chord.Parse(strings.TrimSpace(name))
	if err != nil {
		return "", err
	}
	return summarize(c), nil
}

// identify names the chord formed by space-separated notes, the first being the bass
func identify(input string) (string, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", fmt.Errorf("enter at least one note")
	}
	notes := make([]theory.PitchClass, len(fields))
	for i, f := range fields {
		p, err := theory.ParsePitchClass(f)
		if err != nil {
			return "", err
		}
		notes[i] = p
	}
	c, err := chord.Identify(notes, notes[0])
	if err != nil {
		return "", err
	}
	return summarize(c), nil
}

func summarize(c *chord.Chord) string {
	notes := make([]string, 0, 5)
	for _, n := range c.Notes() {
		notes = append(notes, n.String())
	}
	return fmt.Sprintf("%s\n\nNotes: %s\n\n%s", c.Name(), strings.Join(notes, " "), c.Description())
}

func qualityTable() string {
	var s strings.Builder
	for _, q := range chord.Qualities() {
		label := q.Label
		if label == "" {
			label = "(major)"
		}
		short := make([]string, len(q.Intervals))
		for i, iv := range q.Intervals {
			short[i] = iv.ShortName()
		}
		fmt.Fprintf(&s, "%-8s %-32s %s\n", label, q.Description, strings.Join(short, " "))
	}
	return strings.TrimRight(s.String(), "\n")
}

func (m Model) performConversion() tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(m.selectedFile)
		if err != nil {
			return workDoneMsg{err: err}
		}

		var result []byte
		var outputExt, summary string

		switch m.item.Action {
		case ActionAnalyzeMIDI:
			result, err = m.converter.MIDIToText(data)
			outputExt = ".txt"
			summary = strings.TrimSpace(string(result))
		case ActionRenderMIDI:
			result, err = m.converter.TextToMIDI(data)
			outputExt = ".mid"
		default:
			err = fmt.Errorf("no conversion for %q", m.item.Title)
		}

		if err != nil {
			return workDoneMsg{err: err}
		}

		base := strings.TrimSuffix(m.selectedFile, filepath.Ext(m.selectedFile))
		outputFile := base + outputExt

		if err := os.WriteFile(outputFile, result, 0644); err != nil {
			return workDoneMsg{err: err}
		}

		return workDoneMsg{outputFile: outputFile, summary: summary}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateInput:
		s.WriteString(m.viewInput())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateWorking:
		s.WriteString(m.viewWorking())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CHORDKIT "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(inkBlue).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewInput() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", strings.ToUpper(m.item.Title))))
	s.WriteString("\n\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: submit • esc: back to menu"))

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT %s FILE ", strings.ToUpper(strings.Join(m.filePicker.AllowedTypes, " ")))))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewWorking() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" WORKING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Reading %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  %s", m.item.Title)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", strings.ToUpper(m.item.Title))))
		s.WriteString("\n\n")
		if m.outputFile != "" {
			s.WriteString(successStyle.Render("✓ Conversion complete!"))
			s.WriteString("\n\n")
			s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
			s.WriteString(fmt.Sprintf("Output: %s", filepath.Base(m.outputFile)))
			if m.result != "" {
				s.WriteString("\n\n")
			}
		}
		s.WriteString(m.result)
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
        _                   _ _    _ _
   ___ | |__   ___  _ __ __| | | _(_) |_
  / __|| '_ \ / _ \| '__/ _' | |/ / | __|
 | (__ | | | | (_) | | | (_| |   <| | |_
  \___||_| |_|\___/|_|  \__,_|_|\_\_|\__|
`
	return lipgloss.NewStyle().Foreground(brass).Render(logo)
}

// Run starts the TUI application
func Run(conv *converter.Converter) error {
	p := tea.NewProgram(New(conv), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
