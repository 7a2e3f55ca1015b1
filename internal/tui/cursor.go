package tui

import (
	"github.com/Veraticus/shedtally/internal/grid"
	"github.com/Veraticus/shedtally/internal/model"
)

type lineKind int

const (
	lineMeta lineKind = iota
	lineStands
	lineCount
	lineStaff
)

// line is one navigable row of the editor.
type line struct {
	kind  lineKind
	index int
}

type metaField struct {
	get   func(grid.Meta) string
	set   func(*grid.Meta, string)
	label string
}

var metaFields = []metaField{
	{label: "Date", get: func(m grid.Meta) string { return m.Date }, set: func(m *grid.Meta, v string) { m.Date = v }},
	{label: "Station", get: func(m grid.Meta) string { return m.StationName }, set: func(m *grid.Meta, v string) { m.StationName = v }},
	{label: "Team leader", get: func(m grid.Meta) string { return m.TeamLeader }, set: func(m *grid.Meta, v string) { m.TeamLeader = v }},
	{label: "Comb type", get: func(m grid.Meta) string { return m.CombType }, set: func(m *grid.Meta, v string) { m.CombType = v }},
	{label: "Start", get: func(m grid.Meta) string { return m.StartTime }, set: func(m *grid.Meta, v string) { m.StartTime = v }},
	{label: "Finish", get: func(m grid.Meta) string { return m.FinishTime }, set: func(m *grid.Meta, v string) { m.FinishTime = v }},
	{label: "Hours worked", get: func(m grid.Meta) string { return m.HoursWorked }, set: func(m *grid.Meta, v string) { m.HoursWorked = v }},
}

// cursor is the focused cell: a line and a column within it.
type cursor struct {
	line int
	col  int
}

func lines(s grid.State) []line {
	out := make([]line, 0, len(metaFields)+1+len(s.Rows)+len(s.Staff))
	for i := range metaFields {
		out = append(out, line{kind: lineMeta, index: i})
	}
	out = append(out, line{kind: lineStands})
	for r := range s.Rows {
		out = append(out, line{kind: lineCount, index: r})
	}
	for i := range s.Staff {
		out = append(out, line{kind: lineStaff, index: i})
	}
	return out
}

// width is the number of editable columns of l. Count lines end with the sheep type.
func width(s grid.State, l line) int {
	switch l.kind {
	case lineStands:
		return len(s.Stands)
	case lineCount:
		return len(s.Stands) + 1
	case lineStaff:
		return 2
	default:
		return 1
	}
}

// clamp keeps c on an existing cell of s.
func clamp(s grid.State, c cursor) cursor {
	all := lines(s)
	c.line = min(max(c.line, 0), len(all)-1)
	c.col = min(max(c.col, 0), width(s, all[c.line])-1)
	return c
}

// value returns the text of the cell at col of l.
func value(s grid.State, l line, col int) string {
	switch l.kind {
	case lineMeta:
		return metaFields[l.index].get(s.Meta)
	case lineStands:
		if col < len(s.Stands) {
			return s.Stands[col]
		}
	case lineCount:
		if col == len(s.Stands) {
			return s.Rows[l.index].SheepType
		}
		return string(s.Cell(l.index, col))
	case lineStaff:
		if col == 0 {
			return s.Staff[l.index].Name
		}
		return string(s.Staff[l.index].Hours)
	}
	return ""
}

// apply stores text in the cell at col of l.
func apply(s grid.State, l line, col int, text string) grid.State {
	switch l.kind {
	case lineMeta:
		meta := s.Meta
		metaFields[l.index].set(&meta, text)
		return s.SetMeta(meta)
	case lineStands:
		return s.SetStandName(col, text)
	case lineCount:
		if col == len(s.Stands) {
			return s.SetSheepType(l.index, text)
		}
		return s.SetCell(l.index, col, text)
	case lineStaff:
		entry := s.Staff[l.index]
		if col == 0 {
			return s.SetStaff(l.index, text, entry.Hours)
		}
		return s.SetStaff(l.index, entry.Name, model.Hours(text))
	}
	return s
}

// isSheepType reports whether the cell holds a sheep type.
func isSheepType(s grid.State, l line, col int) bool {
	return l.kind == lineCount && col == len(s.Stands)
}
