package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/grid"
	"github.com/Veraticus/shedtally/internal/tui/themes"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

type status struct {
	text string
	kind statusKind
}

// Model is the tally sheet editor.
type Model struct {
	ctx         context.Context
	sessions    Sessions
	suggester   Suggester
	theme       themes.Theme
	keymap      KeyMap
	help        help.Model
	input       textinput.Model
	config      Config
	state       grid.State
	advisory    grid.Advisory
	status      status
	suggestions []string
	cursor      cursor
	width       int
	height      int
	mode        Mode
	dirty       bool
	quitArmed   bool
	busy        bool
	quitting    bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 64

	h := help.New()
	h.Width = cfg.Width

	return Model{
		ctx:       ctx,
		sessions:  cfg.Sessions,
		suggester: cfg.Suggester,
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		help:      h,
		input:     input,
		config:    cfg,
		state:     cfg.Initial.Recompute(),
		width:     cfg.Width,
		height:    cfg.Height,
	}
}

// State returns the sheet being edited.
func (m Model) State() grid.State {
	return m.state
}

// Mode returns what the editor is doing with key presses.
func (m Model) Mode() Mode {
	return m.mode
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case savedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(statusError, "Save failed: "+common.UserMessage(msg.err))
			return m, nil
		}
		m.dirty = false
		m.setStatus(statusSuccess, fmt.Sprintf("Saved %s %s", msg.result.Session.StationName, msg.result.Session.Date))
		return m, nil

	case exportedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(statusError, "Export failed: "+common.UserMessage(msg.err))
			return m, nil
		}
		locations := make([]string, 0, len(msg.results))
		for _, r := range msg.results {
			locations = append(locations, r.Location)
		}
		m.setStatus(statusSuccess, "Exported "+strings.Join(locations, ", "))
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeEdit:
			return m.updateEdit(msg)
		case ModeConfirmSave:
			return m.updateConfirm(msg)
		default:
			return m.updateNavigate(msg)
		}
	}

	if m.mode == ModeEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateNavigate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keymap.Quit) {
		m.quitArmed = false
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.dirty && !m.quitArmed {
			m.quitArmed = true
			m.setStatus(statusWarning, "Unsaved changes. Press q again to quit.")
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keymap.Up):
		m.cursor = clamp(m.state, cursor{line: m.cursor.line - 1, col: m.cursor.col})
	case key.Matches(msg, m.keymap.Down):
		m.cursor = clamp(m.state, cursor{line: m.cursor.line + 1, col: m.cursor.col})
	case key.Matches(msg, m.keymap.Left):
		m.cursor = clamp(m.state, cursor{line: m.cursor.line, col: m.cursor.col - 1})
	case key.Matches(msg, m.keymap.Right):
		m.cursor = clamp(m.state, cursor{line: m.cursor.line, col: m.cursor.col + 1})
	case key.Matches(msg, m.keymap.NextCell):
		m.cursor = m.step(1)
	case key.Matches(msg, m.keymap.PrevCell):
		m.cursor = m.step(-1)

	case key.Matches(msg, m.keymap.Edit):
		return m.startEdit(m.focusedValue())
	case key.Matches(msg, m.keymap.Clear):
		m.commit("")

	case key.Matches(msg, m.keymap.AddStand):
		m.replace(m.state.AddStand())
	case key.Matches(msg, m.keymap.RemoveStand):
		m.replace(m.state.RemoveStand())
	case key.Matches(msg, m.keymap.AddRow):
		m.replace(m.state.AddCountRow())
	case key.Matches(msg, m.keymap.RemoveRow):
		m.replace(m.state.RemoveCountRow())
	case key.Matches(msg, m.keymap.AddStaff):
		m.replace(m.state.AddShedStaff())
	case key.Matches(msg, m.keymap.RemoveStaff):
		m.replace(m.state.RemoveShedStaff())
	case key.Matches(msg, m.keymap.Workday):
		m.replace(m.state.SetWorkdayType(!m.state.NineHour))
		m.setStatus(statusInfo, "Workday set to "+string(m.state.TimeSystem()))

	case key.Matches(msg, m.keymap.LoadPrevious):
		return m.loadPrevious()
	case key.Matches(msg, m.keymap.Save):
		return m.requestSave()
	case key.Matches(msg, m.keymap.Export):
		return m.requestExport()

	default:
		// Typing a digit starts editing the focused cell with that digit.
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '0' && msg.Runes[0] <= '9' {
			return m.startEdit(string(msg.Runes))
		}
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.stopEdit()
		return m, nil
	case key.Matches(msg, m.keymap.Commit):
		m.commit(m.input.Value())
		m.stopEdit()
		return m, nil
	case key.Matches(msg, m.keymap.Accept):
		if len(m.suggestions) > 0 {
			m.input.SetValue(m.suggestions[0])
			m.input.CursorEnd()
			m.refreshSuggestions()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Confirm):
		m.mode = ModeNavigate
		return m.save()
	case key.Matches(msg, m.keymap.Decline):
		m.mode = ModeNavigate
		m.setStatus(statusInfo, "Save canceled")
	}
	return m, nil
}

func (m Model) startEdit(initial string) (tea.Model, tea.Cmd) {
	m.mode = ModeEdit
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.refreshSuggestions()
	return m, m.input.Focus()
}

func (m *Model) stopEdit() {
	m.mode = ModeNavigate
	m.input.Blur()
	m.input.SetValue("")
	m.suggestions = nil
}

func (m *Model) refreshSuggestions() {
	m.suggestions = nil
	if m.suggester == nil {
		return
	}
	all := lines(m.state)
	if !isSheepType(m.state, all[m.cursor.line], m.cursor.col) {
		return
	}
	m.suggestions = m.suggester.Suggest(m.input.Value(), m.config.Suggestions)
}

func (m Model) focusedValue() string {
	all := lines(m.state)
	return value(m.state, all[m.cursor.line], m.cursor.col)
}

func (m *Model) commit(text string) {
	all := lines(m.state)
	m.replace(apply(m.state, all[m.cursor.line], m.cursor.col, text))
}

func (m *Model) replace(state grid.State) {
	m.state = state
	m.cursor = clamp(m.state, m.cursor)
	m.dirty = true
}

// step moves through every cell in reading order, wrapping at the ends.
func (m Model) step(delta int) cursor {
	all := lines(m.state)
	c := m.cursor
	c.col += delta
	for c.col < 0 || c.col >= width(m.state, all[c.line]) {
		if c.col < 0 {
			c.line = (c.line - 1 + len(all)) % len(all)
			c.col = width(m.state, all[c.line]) - 1
		} else {
			c.line = (c.line + 1) % len(all)
			c.col = 0
		}
	}
	return c
}

func (m Model) loadPrevious() (tea.Model, tea.Cmd) {
	if m.sessions == nil {
		return m, nil
	}
	state, ok := m.sessions.LoadPrevious()
	if !ok {
		m.setStatus(statusWarning, "No previous sheet saved on this machine")
		return m, nil
	}
	m.state = state
	m.cursor = clamp(m.state, m.cursor)
	m.dirty = false
	m.setStatus(statusInfo, "Loaded previous sheet")
	return m, nil
}

func (m Model) requestSave() (tea.Model, tea.Cmd) {
	if m.sessions == nil || m.busy {
		return m, nil
	}
	m.advisory = m.state.Advise()
	if m.advisory.HasIssues() {
		m.mode = ModeConfirmSave
		return m, nil
	}
	return m.save()
}

func (m Model) save() (tea.Model, tea.Cmd) {
	m.busy = true
	m.setStatus(statusInfo, "Saving...")
	return m, saveCmd(m.ctx, m.sessions, m.state)
}

func (m Model) requestExport() (tea.Model, tea.Cmd) {
	if m.sessions == nil || m.busy {
		return m, nil
	}
	m.busy = true
	m.setStatus(statusInfo, "Exporting...")
	return m, exportCmd(m.ctx, m.sessions, m.state, m.config.Formats)
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.status = status{kind: kind, text: text}
}

// errSessionsRequired is returned by Run without a session backend.
var errSessionsRequired = errors.New("sessions are required")
