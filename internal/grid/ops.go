package grid

import "github.com/Veraticus/shedtally/internal/model"

// AddStand appends an empty stand and widens every row by one slot.
func (s State) AddStand() State {
	out := s.clone()
	out.Stands = append(out.Stands, "")
	for i := range out.Rows {
		out.Rows[i].Values = append(out.Rows[i].Values, "")
	}
	out.Totals.Columns = append(out.Totals.Columns, 0)
	return out.Recompute()
}

// RemoveStand drops the highest numbered stand. A sheet keeps at least one stand.
func (s State) RemoveStand() State {
	if len(s.Stands) <= 1 {
		return s
	}
	out := s.clone()
	last := len(out.Stands) - 1
	out.Stands = out.Stands[:last]
	for i := range out.Rows {
		if len(out.Rows[i].Values) > last {
			out.Rows[i].Values = out.Rows[i].Values[:last]
		}
	}
	if len(out.Totals.Columns) > last {
		out.Totals.Columns = out.Totals.Columns[:last]
	}
	return out.Recompute()
}

// AddCountRow appends an empty count row as wide as the stand list.
func (s State) AddCountRow() State {
	out := s.clone()
	out.Rows = append(out.Rows, Row{Values: make([]model.Tally, len(out.Stands))})
	return out.Recompute()
}

// RemoveCountRow drops the last count row. A sheet keeps at least one row.
func (s State) RemoveCountRow() State {
	if len(s.Rows) <= 1 {
		return s
	}
	out := s.clone()
	out.Rows = out.Rows[:len(out.Rows)-1]
	return out.Recompute()
}

// AddShedStaff appends an empty staff entry.
func (s State) AddShedStaff() State {
	out := s.clone()
	out.Staff = append(out.Staff, StaffEntry{})
	return out
}

// RemoveShedStaff drops the last staff entry. The list may become empty.
func (s State) RemoveShedStaff() State {
	if len(s.Staff) == 0 {
		return s
	}
	out := s.clone()
	out.Staff = out.Staff[:len(out.Staff)-1]
	return out
}

// SetWorkdayType records the workday type and sizes the rows to its scaffold
// once. Later row edits are left alone until the type is set again.
func (s State) SetWorkdayType(nineHour bool) State {
	out := s.clone()
	out.NineHour = nineHour
	target := model.TimeSystemFor(nineHour).ScaffoldRows()
	for len(out.Rows) < target {
		out = out.AddCountRow()
	}
	for len(out.Rows) > target {
		out = out.RemoveCountRow()
	}
	return out.Recompute()
}

// SetCell stores text in the cell at row r, stand c (both zero-based).
// Out of range positions are ignored.
func (s State) SetCell(r, c int, value string) State {
	if r < 0 || r >= len(s.Rows) || c < 0 || c >= len(s.Stands) {
		return s
	}
	out := s.clone()
	row := &out.Rows[r]
	for len(row.Values) < len(out.Stands) {
		row.Values = append(row.Values, "")
	}
	row.Values[c] = model.Tally(value)
	return out.Recompute()
}

// SetSheepType labels count row r.
func (s State) SetSheepType(r int, text string) State {
	if r < 0 || r >= len(s.Rows) {
		return s
	}
	out := s.clone()
	out.Rows[r].SheepType = text
	return out.Recompute()
}

// SetStandName names the shearer on stand c.
func (s State) SetStandName(c int, name string) State {
	if c < 0 || c >= len(s.Stands) {
		return s
	}
	out := s.clone()
	out.Stands[c] = name
	return out
}

// SetStaff replaces staff entry i.
func (s State) SetStaff(i int, name string, hours model.Hours) State {
	if i < 0 || i >= len(s.Staff) {
		return s
	}
	out := s.clone()
	out.Staff[i] = StaffEntry{Name: name, Hours: hours}
	return out
}

// SetMeta replaces the session header.
func (s State) SetMeta(meta Meta) State {
	out := s.clone()
	out.Meta = meta
	return out.RecomputeStaffDefault()
}
