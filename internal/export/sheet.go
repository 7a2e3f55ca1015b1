// Package export renders sessions and aggregate results as tabular sheets and
// encodes them as CSV or xlsx.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/shedtally/internal/aggregate"
	"github.com/Veraticus/shedtally/internal/model"
)

// Kind classifies a row of a sheet for formatting.
type Kind int

const (
	// KindData is an ordinary table row.
	KindData Kind = iota
	// KindMeta is a key/value row of the metadata block.
	KindMeta
	// KindTitle names the table that follows.
	KindTitle
	// KindHeader holds the column names of a table.
	KindHeader
	// KindBlank separates sections.
	KindBlank
)

// Bold reports whether rows of this kind render in bold.
func (k Kind) Bold() bool {
	return k == KindTitle || k == KindHeader
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindMeta:
		return "meta"
	case KindTitle:
		return "title"
	case KindHeader:
		return "header"
	case KindBlank:
		return "blank"
	default:
		return "data"
	}
}

// Row is one line of a sheet.
type Row struct {
	Cells []string
	Kind  Kind
}

// Sheet is an ordered list of rows with a tab name.
type Sheet struct {
	Name string
	Rows []Row
}

// Width returns the number of columns of the widest row.
func (s Sheet) Width() int {
	w := 0
	for _, r := range s.Rows {
		w = max(w, len(r.Cells))
	}
	return w
}

// Section titles.
const (
	TitleShearerCounts   = "Shearer Counts"
	TitleShedStaff       = "Shed Staff"
	TitleSheepTypeTotals = "Sheep Type Totals"
	TitleShearerTotals   = "Shearer Totals"
	TitleTeamLeaders     = "Team Leaders"
	TitleCombTypes       = "Comb Types"
)

type builder struct {
	rows []Row
}

func (b *builder) meta(key, value string) {
	b.rows = append(b.rows, Row{Kind: KindMeta, Cells: []string{key, value}})
}

func (b *builder) blank() {
	b.rows = append(b.rows, Row{Kind: KindBlank})
}

func (b *builder) table(title string, header []string, data [][]string) {
	b.rows = append(b.rows,
		Row{Kind: KindTitle, Cells: []string{title}},
		Row{Kind: KindHeader, Cells: header},
	)
	for _, d := range data {
		b.rows = append(b.rows, Row{Kind: KindData, Cells: d})
	}
}

// SessionSheet lays out one session: the eight line metadata block, then the
// shearer counts, shed staff and sheep type totals tables, each preceded by a
// blank row. Row and sheep type totals are derived from the counts; the stored
// totals are not read.
func SessionSheet(sess model.Session) Sheet {
	var b builder
	b.meta("Date", sess.Date)
	b.meta("Station", sess.StationName)
	b.meta("Team Leader", sess.TeamLeader)
	b.meta("Comb Type", sess.CombType)
	b.meta("Start Time", sess.StartTime)
	b.meta("Finish Time", sess.FinishTime)
	b.meta("Hours Worked", sess.HoursWorked)
	b.meta("Time System", string(sess.TimeSystem))

	width := len(sess.Stands)
	for _, row := range sess.ShearerCounts {
		width = max(width, len(row.Stands))
	}
	header := make([]string, 0, width+3)
	header = append(header, "Count")
	for i := range width {
		if i < len(sess.Stands) {
			header = append(header, standLabel(sess.Stands[i], i))
		} else {
			header = append(header, fmt.Sprintf("Stand %d", i+1))
		}
	}
	header = append(header, "Total", "Sheep Type")

	counts := make([][]string, 0, len(sess.ShearerCounts))
	sheepTypes := make([]string, len(sess.ShearerCounts))
	rowTotals := make([]int, len(sess.ShearerCounts))
	for i, row := range sess.ShearerCounts {
		sheepTypes[i], rowTotals[i] = row.SheepType, row.Sum()
		cells := make([]string, 0, width+3)
		cells = append(cells, strconv.Itoa(i+1))
		for c := range width {
			v := ""
			if c < len(row.Stands) {
				v = strings.TrimSpace(string(row.Stands[c]))
			}
			cells = append(cells, v)
		}
		cells = append(cells, strconv.Itoa(rowTotals[i]), row.SheepType)
		counts = append(counts, cells)
	}
	b.blank()
	b.table(TitleShearerCounts, header, counts)

	staff := make([][]string, 0, len(sess.ShedStaff))
	for _, e := range sess.ShedStaff {
		hours := string(e.Hours)
		if e.Hours.IsEmpty() {
			hours = sess.HoursWorked
		}
		staff = append(staff, []string{e.Name, hours})
	}
	b.blank()
	b.table(TitleShedStaff, []string{"Name", "Hours"}, staff)

	sums := model.SumSheepTypes(sheepTypes, rowTotals)
	types := make([][]string, 0, len(sums))
	for _, t := range sums {
		types = append(types, []string{t.Type, strconv.Itoa(t.Total)})
	}
	b.blank()
	b.table(TitleSheepTypeTotals, []string{"Sheep Type", "Total"}, types)

	return Sheet{Name: sheetName(sess.StationName, "Tally"), Rows: b.rows}
}

func standLabel(st model.Stand, pos int) string {
	if name := strings.TrimSpace(st.Name); name != "" {
		return name
	}
	return fmt.Sprintf("Stand %d", pos+1)
}

// StationSheet lays out a station summary.
func StationSheet(sum aggregate.Summary) Sheet {
	var b builder
	b.meta("Station", sum.Station)
	b.meta("Sessions", strconv.Itoa(sum.Sessions))
	b.meta("Total Sheep", strconv.Itoa(sum.GrandTotal))

	header := append([]string{"Shearer"}, sum.Buckets...)
	header = append(header, "Total")
	shearers := make([][]string, 0, len(sum.Shearers)+1)
	for _, s := range sum.Shearers {
		cells := []string{s.Name}
		for _, bucket := range sum.Buckets {
			cells = append(cells, strconv.Itoa(s.ByBucket[bucket]))
		}
		shearers = append(shearers, append(cells, strconv.Itoa(s.Total)))
	}
	totals := []string{model.SheepTypeTotalLabel}
	for _, bucket := range sum.Buckets {
		totals = append(totals, strconv.Itoa(sum.BucketTotals[bucket]))
	}
	shearers = append(shearers, append(totals, strconv.Itoa(sum.GrandTotal)))
	b.blank()
	b.table(TitleShearerTotals, header, shearers)

	staff := make([][]string, 0, len(sum.Staff))
	for _, s := range sum.Staff {
		staff = append(staff, []string{s.Name, s.Hours.String()})
	}
	b.blank()
	b.table(TitleShedStaff, []string{"Name", "Hours"}, staff)

	leaders := make([][]string, 0, len(sum.Leaders))
	for _, l := range sum.Leaders {
		leaders = append(leaders, []string{l.Name, strconv.Itoa(l.Sheep), strconv.Itoa(l.Days)})
	}
	b.blank()
	b.table(TitleTeamLeaders, []string{"Team Leader", "Sheep", "Days"}, leaders)

	combs := make([][]string, 0, len(sum.Combs))
	for _, c := range sum.Combs {
		combs = append(combs, []string{c.Name, strconv.Itoa(c.Days)})
	}
	b.blank()
	b.table(TitleCombTypes, []string{"Comb Type", "Days"}, combs)

	return Sheet{Name: sheetName(sum.Station, "Station"), Rows: b.rows}
}

// ShearerLeaderboardSheet lays out a ranked shearer list under title.
func ShearerLeaderboardSheet(title string, board aggregate.ShearerBoard) Sheet {
	data := make([][]string, 0, len(board.Entries))
	for i, e := range board.Entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			e.Name,
			strconv.Itoa(e.Total),
			strconv.FormatFloat(e.Percent, 'f', 1, 64),
		})
	}
	var b builder
	b.table(title, []string{"Rank", "Shearer", "Sheep", "%"}, data)
	return Sheet{Name: sheetName(title, "Leaderboard"), Rows: b.rows}
}

// StaffLeaderboardSheet lays out a ranked shed staff list under title.
func StaffLeaderboardSheet(title string, board aggregate.StaffBoard) Sheet {
	data := make([][]string, 0, len(board.Entries))
	for i, e := range board.Entries {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			e.Name,
			e.Hours.String(),
			e.Percent.StringFixed(1),
		})
	}
	var b builder
	b.table(title, []string{"Rank", "Name", "Hours", "%"}, data)
	return Sheet{Name: sheetName(title, "Leaderboard"), Rows: b.rows}
}

// sheetName makes a spreadsheet tab name: at most 31 characters and none of []:*?/\.
func sheetName(name, fallback string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = fallback
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
