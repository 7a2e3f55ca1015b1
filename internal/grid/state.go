// Package grid holds the editable tally sheet: stands across, count rows down,
// plus the shed staff list. State is a value; every operation returns a new State
// and leaves its receiver untouched.
package grid

import (
	"fmt"
	"strings"

	"github.com/Veraticus/shedtally/internal/model"
)

// MaxSuggestedStands is the largest stand count offered by the setup wizard.
// It is a UI hint only; AddStand has no maximum.
const MaxSuggestedStands = 50

// Row is one count row of the live grid.
type Row struct {
	SheepType string
	Values    []model.Tally
}

// StaffEntry is one shed staff line of the live grid.
type StaffEntry struct {
	Name  string
	Hours model.Hours
}

// Meta is the session header of the sheet.
type Meta struct {
	ContractorID string
	Date         string
	StationName  string
	TeamLeader   string
	CombType     string
	StartTime    string
	FinishTime   string
	HoursWorked  string
}

// Totals are the values derived from the rows. They are never a source of truth.
type Totals struct {
	Rows         []int
	Columns      []int
	SheepTypes   []model.SheepTypeTotal
	StaffDefault model.Hours
	Grand        int
}

// State is the complete tally sheet.
type State struct {
	Meta     Meta
	Stands   []string
	Rows     []Row
	Staff    []StaffEntry
	Totals   Totals
	NineHour bool
}

// Setup describes the sheet the setup wizard asks for.
type Setup struct {
	Stands   int
	Rows     int
	Staff    int
	NineHour bool
}

// Empty returns a blank sheet: one stand, the eight hour scaffold and no staff.
func Empty() State {
	return New(Setup{Stands: 1})
}

// New builds a sheet from the setup wizard. Fewer than one stand is raised to one,
// and a row count below one falls back to the time system scaffold.
func New(setup Setup) State {
	stands := max(setup.Stands, 1)
	rows := setup.Rows
	if rows < 1 {
		rows = model.TimeSystemFor(setup.NineHour).ScaffoldRows()
	}

	s := State{NineHour: setup.NineHour}
	s.Stands = make([]string, stands)
	s.Rows = make([]Row, rows)
	for i := range s.Rows {
		s.Rows[i].Values = make([]model.Tally, stands)
	}
	s.Staff = make([]StaffEntry, max(setup.Staff, 0))

	return s.Recompute()
}

// StandCount returns the number of stands.
func (s State) StandCount() int {
	return len(s.Stands)
}

// RowCount returns the number of count rows.
func (s State) RowCount() int {
	return len(s.Rows)
}

// TimeSystem returns the workday type of the sheet.
func (s State) TimeSystem() model.TimeSystem {
	return model.TimeSystemFor(s.NineHour)
}

// StandName returns the display name of the stand at position i.
func (s State) StandName(i int) string {
	if i >= 0 && i < len(s.Stands) {
		if name := strings.TrimSpace(s.Stands[i]); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Stand %d", i+1)
}

// Cell returns the value at row r, stand c. Cells beyond a short row are empty.
func (s State) Cell(r, c int) model.Tally {
	if r < 0 || r >= len(s.Rows) || c < 0 || c >= len(s.Rows[r].Values) {
		return ""
	}
	return s.Rows[r].Values[c]
}

// StaffHours returns the entered hours of staff entry i, or the default derived
// from the session hours when nothing was entered.
func (s State) StaffHours(i int) model.Hours {
	if i < 0 || i >= len(s.Staff) {
		return ""
	}
	if !s.Staff[i].Hours.IsEmpty() {
		return s.Staff[i].Hours
	}
	return s.Totals.StaffDefault
}

func (s State) clone() State {
	out := s
	out.Stands = append([]string(nil), s.Stands...)
	out.Rows = make([]Row, len(s.Rows))
	for i, r := range s.Rows {
		out.Rows[i] = Row{
			SheepType: r.SheepType,
			Values:    append([]model.Tally(nil), r.Values...),
		}
	}
	out.Staff = append([]StaffEntry(nil), s.Staff...)
	out.Totals = Totals{
		Rows:         append([]int(nil), s.Totals.Rows...),
		Columns:      append([]int(nil), s.Totals.Columns...),
		SheepTypes:   append([]model.SheepTypeTotal(nil), s.Totals.SheepTypes...),
		StaffDefault: s.Totals.StaffDefault,
		Grand:        s.Totals.Grand,
	}
	return out
}
