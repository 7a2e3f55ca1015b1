// Package codec converts between the live tally grid and stored session
// documents, and normalizes every historical document shape into tally records.
package codec

import (
	"strings"

	"github.com/Veraticus/shedtally/internal/grid"
	"github.com/Veraticus/shedtally/internal/model"
)

// ToSession serializes the active part of a grid. Stands without a name or any
// value, rows without a value or sheep type, and blank staff entries are dropped.
// Surviving stands are renumbered 1..M and their row values kept in the same order,
// so reading a session by position or by index gives the same shearer.
func ToSession(s grid.State) model.Session {
	s = s.Recompute()

	var active []int
	for c := range s.Stands {
		if s.StandActive(c) {
			active = append(active, c)
		}
	}

	stands := make([]model.Stand, 0, len(active))
	for i, c := range active {
		stands = append(stands, model.Stand{Index: i + 1, Name: strings.TrimSpace(s.Stands[c])})
	}

	rows := make([]model.CountRow, 0, len(s.Rows))
	for r, row := range s.Rows {
		if !s.RowActive(r) {
			continue
		}
		values := make([]model.Tally, 0, len(active))
		for _, c := range active {
			values = append(values, model.Tally(strings.TrimSpace(string(s.Cell(r, c)))))
		}
		rows = append(rows, model.CountRow{
			Stands:    values,
			Total:     s.Totals.Rows[r],
			SheepType: strings.TrimSpace(row.SheepType),
		})
	}

	staff := make([]model.ShedStaffEntry, 0, len(s.Staff))
	for i, e := range s.Staff {
		if !s.StaffActive(i) {
			continue
		}
		staff = append(staff, model.ShedStaffEntry{
			Name:  strings.TrimSpace(e.Name),
			Hours: model.Hours(strings.TrimSpace(string(e.Hours))),
		})
	}

	totals := make([]model.SheepTypeTotal, len(s.Totals.SheepTypes))
	copy(totals, s.Totals.SheepTypes)

	return model.Session{
		ContractorID:    s.Meta.ContractorID,
		Date:            strings.TrimSpace(s.Meta.Date),
		StationName:     strings.TrimSpace(s.Meta.StationName),
		TeamLeader:      strings.TrimSpace(s.Meta.TeamLeader),
		CombType:        strings.TrimSpace(s.Meta.CombType),
		StartTime:       strings.TrimSpace(s.Meta.StartTime),
		FinishTime:      strings.TrimSpace(s.Meta.FinishTime),
		HoursWorked:     strings.TrimSpace(s.Meta.HoursWorked),
		TimeSystem:      s.TimeSystem(),
		Stands:          stands,
		ShearerCounts:   rows,
		ShedStaff:       staff,
		SheepTypeTotals: totals,
	}
}

// FromSession rebuilds a grid from a stored session. Names and values are placed
// by array position; stored stand indexes are not trusted because older records
// use both 0-based and 1-based numbering. Stored row totals are ignored and
// recomputed.
func FromSession(sess model.Session) grid.State {
	width := len(sess.Stands)
	for _, row := range sess.ShearerCounts {
		width = max(width, len(row.Stands))
	}
	width = max(width, 1)
	height := max(len(sess.ShearerCounts), 1)

	s := grid.State{}
	for range width {
		s = s.AddStand()
	}
	for range height {
		s = s.AddCountRow()
	}

	for c, stand := range sess.Stands {
		s = s.SetStandName(c, strings.TrimSpace(stand.Name))
	}
	for r, row := range sess.ShearerCounts {
		for c, v := range row.Stands {
			if !v.IsEmpty() {
				s = s.SetCell(r, c, string(v))
			}
		}
		s = s.SetSheepType(r, row.SheepType)
	}
	for i, e := range sess.ShedStaff {
		s = s.AddShedStaff().SetStaff(i, e.Name, e.Hours)
	}

	s.NineHour = sess.TimeSystem.IsNineHour()
	return s.SetMeta(grid.Meta{
		ContractorID: sess.ContractorID,
		Date:         sess.Date,
		StationName:  sess.StationName,
		TeamLeader:   sess.TeamLeader,
		CombType:     sess.CombType,
		StartTime:    sess.StartTime,
		FinishTime:   sess.FinishTime,
		HoursWorked:  sess.HoursWorked,
	}).Recompute()
}
