package grid

import (
	"strings"

	"github.com/Veraticus/shedtally/internal/model"
)

// Recompute refreshes every derived total. It is idempotent.
func (s State) Recompute() State {
	return s.RecomputeRowTotals().
		RecomputeColumnTotals().
		RecomputeGrandTotal().
		RecomputeSheepTypeTotals().
		RecomputeStaffDefault()
}

// RecomputeRowTotals sums each row across its stands.
func (s State) RecomputeRowTotals() State {
	totals := make([]int, len(s.Rows))
	for i, row := range s.Rows {
		for _, v := range row.Values {
			totals[i] += v.Count()
		}
	}
	s.Totals.Rows = totals
	return s
}

// RecomputeColumnTotals sums each stand down all rows. Short rows count as zero.
func (s State) RecomputeColumnTotals() State {
	totals := make([]int, len(s.Stands))
	for _, row := range s.Rows {
		for c := 0; c < len(totals) && c < len(row.Values); c++ {
			totals[c] += row.Values[c].Count()
		}
	}
	s.Totals.Columns = totals
	return s
}

// RecomputeGrandTotal sums the column totals.
func (s State) RecomputeGrandTotal() State {
	grand := 0
	for _, t := range s.Totals.Columns {
		grand += t
	}
	s.Totals.Grand = grand
	return s
}

// RecomputeSheepTypeTotals groups row totals by sheep type, see model.SumSheepTypes.
func (s State) RecomputeSheepTypeTotals() State {
	rowTotals := s.Totals.Rows
	if len(rowTotals) != len(s.Rows) {
		rowTotals = s.RecomputeRowTotals().Totals.Rows
	}

	sheepTypes := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		sheepTypes[i] = row.SheepType
	}
	s.Totals.SheepTypes = model.SumSheepTypes(sheepTypes, rowTotals)
	return s
}

// RecomputeStaffDefault derives the hours shown for staff who entered none.
func (s State) RecomputeStaffDefault() State {
	s.Totals.StaffDefault = model.Hours(strings.TrimSpace(s.Meta.HoursWorked))
	return s
}
