package grid

import "strings"

// Advisory lists the parts of a sheet that are entirely empty at save time.
// It is reported to the user; saving is never refused because of it.
type Advisory struct {
	EmptyStands []int
	EmptyRows   []int
	EmptyStaff  []int
}

// HasIssues reports whether anything empty was found.
func (a Advisory) HasIssues() bool {
	return len(a.EmptyStands)+len(a.EmptyRows)+len(a.EmptyStaff) > 0
}

// Advise inspects the sheet for empty stands, rows and staff entries.
// Positions are zero-based.
func (s State) Advise() Advisory {
	var a Advisory
	for c := range s.Stands {
		if !s.StandActive(c) {
			a.EmptyStands = append(a.EmptyStands, c)
		}
	}
	for r := range s.Rows {
		if !s.RowActive(r) {
			a.EmptyRows = append(a.EmptyRows, r)
		}
	}
	for i := range s.Staff {
		if !s.StaffActive(i) {
			a.EmptyStaff = append(a.EmptyStaff, i)
		}
	}
	return a
}

// StandActive reports whether stand c has a name or any value in its column.
func (s State) StandActive(c int) bool {
	if c < 0 || c >= len(s.Stands) {
		return false
	}
	if strings.TrimSpace(s.Stands[c]) != "" {
		return true
	}
	for _, row := range s.Rows {
		if c < len(row.Values) && !row.Values[c].IsEmpty() {
			return true
		}
	}
	return false
}

// RowActive reports whether row r has any value or a sheep type.
func (s State) RowActive(r int) bool {
	if r < 0 || r >= len(s.Rows) {
		return false
	}
	row := s.Rows[r]
	if strings.TrimSpace(row.SheepType) != "" {
		return true
	}
	for _, v := range row.Values {
		if !v.IsEmpty() {
			return true
		}
	}
	return false
}

// StaffActive reports whether staff entry i has a name or hours.
func (s State) StaffActive(i int) bool {
	if i < 0 || i >= len(s.Staff) {
		return false
	}
	return strings.TrimSpace(s.Staff[i].Name) != "" || !s.Staff[i].Hours.IsEmpty()
}
