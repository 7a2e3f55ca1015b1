package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/engine"
	"github.com/Veraticus/shedtally/internal/export"
	"github.com/Veraticus/shedtally/internal/grid"
	tuitest "github.com/Veraticus/shedtally/internal/tui/testing"
)

type fakeSessions struct {
	saveErr  error
	previous *grid.State
	saved    []grid.State
	exported []export.Sheet
}

func (f *fakeSessions) Save(_ context.Context, state grid.State) (engine.SaveResult, error) {
	if f.saveErr != nil {
		return engine.SaveResult{}, f.saveErr
	}
	f.saved = append(f.saved, state)
	return engine.SaveResult{ID: "id-1", Session: codec.ToSession(state)}, nil
}

func (f *fakeSessions) LoadPrevious() (grid.State, bool) {
	if f.previous == nil {
		return grid.State{}, false
	}
	return *f.previous, true
}

func (f *fakeSessions) ExportSheet(_ context.Context, sheet export.Sheet, station, isoDate string, formats []export.Format) ([]engine.ExportResult, error) {
	f.exported = append(f.exported, sheet)
	results := make([]engine.ExportResult, len(formats))
	for i, format := range formats {
		results[i] = engine.ExportResult{Format: format, Location: export.Filename(station, isoDate, string(format))}
	}
	return results, nil
}

type fakeSuggester []string

func (f fakeSuggester) Suggest(prefix string, limit int) []string {
	var out []string
	for _, s := range f {
		if len(out) < limit && len(prefix) > 0 && len(s) > len(prefix) && s[:len(prefix)] == prefix {
			out = append(out, s)
		}
	}
	return out
}

func testModel(t *testing.T, state grid.State, sessions *fakeSessions) Model {
	t.Helper()
	cfg := defaultConfig()
	cfg.Initial = state
	cfg.Sessions = sessions
	cfg.Suggester = fakeSuggester{"Ewes", "Ewe hoggets", "Lambs"}
	cfg.Width = 120
	return newModel(context.Background(), cfg)
}

func send(t *testing.T, m Model, seq *tuitest.InputSequence) (Model, tea.Cmd) {
	t.Helper()
	out, cmd := seq.Apply(m)
	model, ok := out.(Model)
	require.True(t, ok)
	return model, cmd
}

func down(n int) *tuitest.InputSequence {
	seq := tuitest.NewInputSequence()
	for range n {
		seq.Add(tuitest.KeyDown())
	}
	return seq
}

// countLine is the line of the first count row.
var countLine = len(metaFields) + 1

func filledState() grid.State {
	s := grid.New(grid.Setup{Stands: 1, Rows: 1})
	s = s.SetMeta(grid.Meta{Date: "2025-03-14", StationName: "Glenorchy"})
	s = s.SetStandName(0, "Alice")
	s = s.SetCell(0, 0, "100")
	return s.SetSheepType(0, "Ewes")
}

func TestModel_Navigation(t *testing.T) {
	m := testModel(t, grid.New(grid.Setup{Stands: 2}), &fakeSessions{})

	m, _ = send(t, m, down(len(metaFields)).Add(tuitest.KeyRight()).Add(tuitest.KeyRight()))
	assert.Equal(t, cursor{line: len(metaFields), col: 1}, m.cursor)

	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.KeyDown()))
	assert.Equal(t, cursor{line: countLine, col: 1}, m.cursor)

	// Count lines have one more column than the stand line: the sheep type.
	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.KeyRight(), tuitest.KeyRight()))
	assert.Equal(t, cursor{line: countLine, col: 2}, m.cursor)

	m, _ = send(t, m, down(100))
	assert.Equal(t, len(lines(m.state))-1, m.cursor.line)
}

func TestModel_TabWraps(t *testing.T) {
	m := testModel(t, grid.New(grid.Setup{Stands: 1, Rows: 1}), &fakeSessions{})

	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.Key(tea.KeyShiftTab)))
	last := len(lines(m.state)) - 1
	assert.Equal(t, cursor{line: last, col: 1}, m.cursor)

	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.KeyTab()))
	assert.Equal(t, cursor{}, m.cursor)
}

func TestModel_EditCount(t *testing.T) {
	m := testModel(t, grid.New(grid.Setup{Stands: 2}), &fakeSessions{})

	seq := down(countLine).Type("125").Add(tuitest.KeyEnter())
	m, _ = send(t, m, seq)

	assert.Equal(t, ModeNavigate, m.Mode())
	assert.Equal(t, "125", string(m.State().Cell(0, 0)))
	assert.Equal(t, 125, m.State().Totals.Rows[0])
	assert.Equal(t, 125, m.State().Totals.Grand)
	assert.True(t, m.Dirty())
}

func TestModel_EditCancel(t *testing.T) {
	m := testModel(t, grid.New(grid.Setup{Stands: 1}), &fakeSessions{})

	m, _ = send(t, m, down(countLine).Type("99").Add(tuitest.KeyEsc()))

	assert.Equal(t, ModeNavigate, m.Mode())
	assert.True(t, m.State().Cell(0, 0).IsEmpty())
	assert.False(t, m.Dirty())
}

func TestModel_ClearCell(t *testing.T) {
	m := testModel(t, filledState(), &fakeSessions{})

	m, _ = send(t, m, down(countLine).Add(tuitest.Key(tea.KeyDelete)))
	assert.True(t, m.State().Cell(0, 0).IsEmpty())
	assert.Equal(t, 0, m.State().Totals.Grand)
}

func TestModel_EditSheepTypeWithSuggestion(t *testing.T) {
	m := testModel(t, grid.New(grid.Setup{Stands: 2}), &fakeSessions{})

	m, _ = send(t, m, down(countLine).
		Add(tuitest.KeyRight()).Add(tuitest.KeyRight()).
		Add(tuitest.KeyEnter()).
		Type("Ew"))
	require.Equal(t, ModeEdit, m.Mode())
	assert.Equal(t, []string{"Ewes", "Ewe hoggets"}, m.suggestions)
	assert.Contains(t, m.View(), "Suggestions:")

	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.KeyTab(), tuitest.KeyEnter()))
	assert.Equal(t, "Ewes", m.State().Rows[0].SheepType)
	assert.Nil(t, m.suggestions)
}

func TestModel_EditMeta(t *testing.T) {
	m := testModel(t, grid.Empty(), &fakeSessions{})

	m, _ = send(t, m, down(1).Add(tuitest.KeyEnter()).Type("Glenorchy").Add(tuitest.KeyEnter()))
	assert.Equal(t, "Glenorchy", m.State().Meta.StationName)

	m, _ = send(t, m, down(5).Add(tuitest.KeyEnter()).Type("8").Add(tuitest.KeyEnter()))
	assert.Equal(t, "8", m.State().Meta.HoursWorked)
	assert.Equal(t, "8", string(m.State().Totals.StaffDefault))
}

func TestModel_EditStaff(t *testing.T) {
	m := testModel(t, grid.New(grid.Setup{Stands: 1, Rows: 1, Staff: 1}), &fakeSessions{})

	staffLine := countLine + 1
	m, _ = send(t, m, down(staffLine).
		Add(tuitest.KeyEnter()).Type("Kim").Add(tuitest.KeyEnter()).
		Add(tuitest.KeyRight()).Type("7.5").Add(tuitest.KeyEnter()))

	require.Len(t, m.State().Staff, 1)
	assert.Equal(t, "Kim", m.State().Staff[0].Name)
	assert.Equal(t, "7.5", string(m.State().Staff[0].Hours))
}

func TestModel_LayoutKeys(t *testing.T) {
	m := testModel(t, grid.New(grid.Setup{Stands: 1}), &fakeSessions{})
	rows := m.State().RowCount()

	m, _ = send(t, m, tuitest.NewInputSequence(
		tuitest.KeyPress("s"), tuitest.KeyPress("s"),
		tuitest.KeyPress("r"),
		tuitest.KeyPress("a"), tuitest.KeyPress("a"), tuitest.KeyPress("A"),
	))
	assert.Equal(t, 3, m.State().StandCount())
	assert.Equal(t, rows+1, m.State().RowCount())
	assert.Len(t, m.State().Staff, 1)

	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.KeyPress("S"), tuitest.KeyPress("R")))
	assert.Equal(t, 2, m.State().StandCount())
	assert.Equal(t, rows, m.State().RowCount())

	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.KeyPress("w")))
	assert.True(t, m.State().NineHour)
	assert.Contains(t, m.status.text, "9-hr")
}

func TestModel_CursorFollowsRemoval(t *testing.T) {
	m := testModel(t, grid.New(grid.Setup{Stands: 3}), &fakeSessions{})

	m, _ = send(t, m, down(len(metaFields)).Add(tuitest.KeyRight()).Add(tuitest.KeyRight()))
	require.Equal(t, 2, m.cursor.col)

	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.KeyPress("S")))
	assert.Equal(t, 1, m.cursor.col)
}

func TestModel_Save(t *testing.T) {
	sessions := &fakeSessions{}
	m := testModel(t, filledState(), sessions)

	m, cmd := send(t, m, tuitest.NewInputSequence(tuitest.Key(tea.KeyCtrlS)))
	require.NotNil(t, cmd)
	assert.Equal(t, ModeNavigate, m.Mode())

	m, _ = send(t, m, tuitest.NewInputSequence(cmd()))
	require.Len(t, sessions.saved, 1)
	assert.False(t, m.Dirty())
	assert.Equal(t, "Saved Glenorchy 2025-03-14", m.status.text)
}

func TestModel_SaveAsksAboutEmptyParts(t *testing.T) {
	sessions := &fakeSessions{}
	state := filledState().AddStand()
	m := testModel(t, state, sessions)

	m, cmd := send(t, m, tuitest.NewInputSequence(tuitest.Key(tea.KeyCtrlS)))
	assert.Nil(t, cmd)
	require.Equal(t, ModeConfirmSave, m.Mode())
	assert.Contains(t, m.View(), "Empty stands: 2")

	m, cmd = send(t, m, tuitest.NewInputSequence(tuitest.KeyPress("n")))
	assert.Nil(t, cmd)
	assert.Equal(t, ModeNavigate, m.Mode())
	assert.Empty(t, sessions.saved)

	m, cmd = send(t, m, tuitest.NewInputSequence(tuitest.Key(tea.KeyCtrlS), tuitest.KeyPress("y")))
	require.NotNil(t, cmd)
	_, _ = send(t, m, tuitest.NewInputSequence(cmd()))
	assert.Len(t, sessions.saved, 1)
}

func TestModel_SaveError(t *testing.T) {
	sessions := &fakeSessions{saveErr: errors.New("disk full")}
	m := testModel(t, filledState(), sessions)

	m, cmd := send(t, m, tuitest.NewInputSequence(tuitest.Key(tea.KeyCtrlS)))
	require.NotNil(t, cmd)
	m, _ = send(t, m, tuitest.NewInputSequence(cmd()))

	assert.Equal(t, statusError, m.status.kind)
	assert.Contains(t, m.status.text, "Save failed")
}

func TestModel_Export(t *testing.T) {
	sessions := &fakeSessions{}
	m := testModel(t, filledState(), sessions)
	m.config.Formats = []export.Format{export.FormatCSV, export.FormatXLSX}

	m, cmd := send(t, m, tuitest.NewInputSequence(tuitest.Key(tea.KeyCtrlE)))
	require.NotNil(t, cmd)
	m, _ = send(t, m, tuitest.NewInputSequence(cmd()))

	require.Len(t, sessions.exported, 1)
	assert.Equal(t, "Glenorchy", sessions.exported[0].Name)
	assert.Equal(t, "Exported Glenorchy_14-03-2025.csv, Glenorchy_14-03-2025.xlsx", m.status.text)
}

func TestModel_LoadPrevious(t *testing.T) {
	sessions := &fakeSessions{}
	m := testModel(t, grid.Empty(), sessions)

	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.Key(tea.KeyCtrlP)))
	assert.Equal(t, statusWarning, m.status.kind)

	previous := filledState()
	sessions.previous = &previous
	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.Key(tea.KeyCtrlP)))
	assert.Equal(t, "Glenorchy", m.State().Meta.StationName)
	assert.False(t, m.Dirty())
}

func TestModel_QuitWithUnsavedChanges(t *testing.T) {
	m := testModel(t, grid.Empty(), &fakeSessions{})
	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.KeyPress("s")))

	m, cmd := send(t, m, tuitest.NewInputSequence(tuitest.KeyPress("q")))
	assert.Nil(t, cmd)
	assert.Contains(t, m.status.text, "Unsaved changes")

	_, cmd = send(t, m, tuitest.NewInputSequence(tuitest.KeyPress("q")))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	m := testModel(t, filledState().AddShedStaff(), &fakeSessions{})
	m, _ = send(t, m, tuitest.NewInputSequence(tuitest.WindowSize(100, 40)))

	view := m.View()
	assert.Contains(t, view, "Tally Sheet")
	assert.Contains(t, view, "Glenorchy")
	assert.Contains(t, view, "Alice")
	assert.Contains(t, view, "Shed Staff")
	assert.Contains(t, view, "Ewes: ")
	assert.Contains(t, view, "Total: ")
}

func TestConfirmed(t *testing.T) {
	ok, err := Confirmed{}.ConfirmSave(context.Background(), grid.Advisory{EmptyRows: []int{1}})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRun_RequiresSessions(t *testing.T) {
	_, err := Run(context.Background())
	assert.ErrorIs(t, err, errSessionsRequired)
}
