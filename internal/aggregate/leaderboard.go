package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/model"
)

// CompactSize is the number of entries shown by a compact leaderboard.
const CompactSize = 5

// ShearerEntry is one ranked shearer.
type ShearerEntry struct {
	Name    string
	Total   int
	Percent float64
}

// ShearerBoard ranks shearers by sheep count, highest first.
type ShearerBoard struct {
	Entries []ShearerEntry
	Grand   int
}

// Top returns at most n leading entries.
func (b ShearerBoard) Top(n int) []ShearerEntry {
	if n < 0 || n >= len(b.Entries) {
		return b.Entries
	}
	return b.Entries[:n]
}

// StaffEntry is one ranked shed hand.
type StaffEntry struct {
	Name    string
	Hours   decimal.Decimal
	Percent decimal.Decimal
}

// StaffBoard ranks shed staff by hours, highest first.
type StaffBoard struct {
	Entries []StaffEntry
	Grand   decimal.Decimal
}

// Top returns at most n leading entries.
func (b StaffBoard) Top(n int) []StaffEntry {
	if n < 0 || n >= len(b.Entries) {
		return b.Entries
	}
	return b.Entries[:n]
}

// ShearerLeaderboard sums tally records per shearer across every document that
// passes the filter. Only one work partition is counted: crutched when asked
// for, shorn otherwise. Ties keep the order in which names were first seen.
func ShearerLeaderboard(docs []codec.Document, f Filter) ShearerBoard {
	work := f.WorkType.Partition()
	var order nameOrder
	totals := make(map[string]int)
	for _, doc := range docs {
		for _, rec := range doc.Records() {
			if !f.Includes(rec.Date, rec.Dated) || !work.Keeps(rec.SheepType) {
				continue
			}
			if name, ok := order.note(rec.ShearerName); ok {
				totals[name] += rec.Count
			}
		}
	}

	board := ShearerBoard{}
	for _, name := range order.names {
		total := totals[name]
		if total == 0 {
			continue
		}
		board.Entries = append(board.Entries, ShearerEntry{Name: name, Total: total})
		board.Grand += total
	}
	sort.SliceStable(board.Entries, func(i, j int) bool {
		return board.Entries[i].Total > board.Entries[j].Total
	})
	if board.Grand != 0 {
		for i := range board.Entries {
			board.Entries[i].Percent = float64(board.Entries[i].Total) * 100 / float64(board.Grand)
		}
	}
	return board
}

// StaffLeaderboard sums shed staff hours per name across every document whose
// date passes the filter. The work type is ignored. A blank hours entry counts
// the session's hours worked, as the sheet shows it.
func StaffLeaderboard(docs []codec.Document, f Filter) StaffBoard {
	var order nameOrder
	totals := make(map[string]decimal.Decimal)
	for _, doc := range docs {
		date, dated := doc.ParsedDate()
		if !f.Includes(date, dated) {
			continue
		}
		for _, e := range doc.ShedStaff {
			if name, ok := order.note(e.Name); ok {
				totals[name] = totals[name].Add(staffHours(e, doc.Session).Decimal())
			}
		}
	}

	board := StaffBoard{Grand: decimal.Zero}
	for _, name := range order.names {
		hours := totals[name]
		if hours.IsZero() {
			continue
		}
		board.Entries = append(board.Entries, StaffEntry{Name: name, Hours: hours})
		board.Grand = board.Grand.Add(hours)
	}
	sort.SliceStable(board.Entries, func(i, j int) bool {
		return board.Entries[i].Hours.GreaterThan(board.Entries[j].Hours)
	})
	if !board.Grand.IsZero() {
		hundred := decimal.NewFromInt(100)
		for i := range board.Entries {
			board.Entries[i].Percent = board.Entries[i].Hours.Mul(hundred).Div(board.Grand).Round(1)
		}
	}
	return board
}

func staffHours(e model.ShedStaffEntry, sess model.Session) model.Hours {
	if !e.Hours.IsEmpty() {
		return e.Hours
	}
	return model.Hours(sess.HoursWorked)
}

// nameOrder remembers names in the order they were first seen. Blank names are rejected.
type nameOrder struct {
	seen  map[string]bool
	names []string
}

func (o *nameOrder) note(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if o.seen == nil {
		o.seen = make(map[string]bool)
	}
	if !o.seen[name] {
		o.seen[name] = true
		o.names = append(o.names, name)
	}
	return name, true
}
