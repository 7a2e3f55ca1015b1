package codec

import (
	"strings"
	"time"

	"github.com/Veraticus/shedtally/internal/model"
)

// ShapeKind names a historical document shape.
type ShapeKind string

// Known document shapes, in detection order.
const (
	ShapeShearerCounts ShapeKind = "shearerCounts"
	ShapeFlatTallies   ShapeKind = "tallies"
	ShapeShearerRuns   ShapeKind = "shearers.runs"
	ShapeShearerTotals ShapeKind = "shearers.total"
	ShapeTallyMap      ShapeKind = "shearerTallies"
	ShapeUnknown       ShapeKind = "unknown"
)

// Source is the closed set of tally layouts a document may use. Each
// implementation normalizes its layout into tally records.
type Source interface {
	Kind() ShapeKind
	Records() []model.TallyRecord
	source()
}

// ShearerCountsSource is the current layout: rows of per-stand counts plus a stand name list.
type ShearerCountsSource struct {
	Stands []model.Stand
	Rows   []model.CountRow
	Date   string
}

// FlatTalliesSource is a flat list of {shearer, count} entries.
type FlatTalliesSource struct {
	Tallies []FlatTally
	Date    string
}

// ShearerRunsSource lists shearers, each with their runs.
type ShearerRunsSource struct {
	Shearers []Shearer
	Date     string
}

// ShearerTotalsSource lists shearers with one total each.
type ShearerTotalsSource struct {
	Shearers []Shearer
	Date     string
}

// TallyMapSource is an object keyed by shearer name.
type TallyMapSource struct {
	Tallies OrderedTallies
	Date    string
}

// UnknownSource is a document with no recognizable tallies.
type UnknownSource struct{}

func (ShearerCountsSource) source() {}
func (FlatTalliesSource) source()   {}
func (ShearerRunsSource) source()   {}
func (ShearerTotalsSource) source() {}
func (TallyMapSource) source()      {}
func (UnknownSource) source()       {}

// Kind implements Source.
func (ShearerCountsSource) Kind() ShapeKind { return ShapeShearerCounts }

// Kind implements Source.
func (FlatTalliesSource) Kind() ShapeKind { return ShapeFlatTallies }

// Kind implements Source.
func (ShearerRunsSource) Kind() ShapeKind { return ShapeShearerRuns }

// Kind implements Source.
func (ShearerTotalsSource) Kind() ShapeKind { return ShapeShearerTotals }

// Kind implements Source.
func (TallyMapSource) Kind() ShapeKind { return ShapeTallyMap }

// Kind implements Source.
func (UnknownSource) Kind() ShapeKind { return ShapeUnknown }

// Detect selects the layout of a document. Checks run in a fixed order and the
// first match wins.
func Detect(doc Document) Source {
	switch {
	case len(doc.ShearerCounts) > 0:
		return ShearerCountsSource{Stands: doc.Stands, Rows: doc.ShearerCounts, Date: doc.Date}
	case len(doc.Tallies) > 0:
		return FlatTalliesSource{Tallies: doc.Tallies, Date: doc.Date}
	case anyRuns(doc.Shearers):
		return ShearerRunsSource{Shearers: doc.Shearers, Date: doc.Date}
	case len(doc.Shearers) > 0:
		return ShearerTotalsSource{Shearers: doc.Shearers, Date: doc.Date}
	case len(doc.ShearerTallies) > 0:
		return TallyMapSource{Tallies: doc.ShearerTallies, Date: doc.Date}
	default:
		return UnknownSource{}
	}
}

func anyRuns(shearers []Shearer) bool {
	for _, s := range shearers {
		if s.HasRuns() {
			return true
		}
	}
	return false
}

// Records implements Source.
func (src ShearerCountsSource) Records() []model.TallyRecord {
	width := len(src.Stands)
	for _, row := range src.Rows {
		width = max(width, len(row.Stands))
	}
	names := ResolveStandNames(src.Stands, width)

	b := newRecordBuilder(src.Date)
	for _, row := range src.Rows {
		for i, v := range row.Stands {
			b.add(names[i], v.Count(), row.SheepType, "")
		}
	}
	return b.records
}

// Records implements Source.
func (src FlatTalliesSource) Records() []model.TallyRecord {
	b := newRecordBuilder(src.Date)
	for _, t := range src.Tallies {
		b.add(t.ShearerName, t.Count.Count(), t.SheepType, t.Date)
	}
	return b.records
}

// Records implements Source.
func (src ShearerRunsSource) Records() []model.TallyRecord {
	b := newRecordBuilder(src.Date)
	for _, s := range src.Shearers {
		if !s.HasRuns() {
			b.add(s.Name, s.Total.Count(), s.SheepType, "")
			continue
		}
		for _, run := range s.Runs {
			b.add(s.Name, run.Count.Count(), firstNonBlank(run.SheepType, s.SheepType), "")
		}
	}
	return b.records
}

// Records implements Source.
func (src ShearerTotalsSource) Records() []model.TallyRecord {
	b := newRecordBuilder(src.Date)
	for _, s := range src.Shearers {
		b.add(s.Name, s.Total.Count(), s.SheepType, "")
	}
	return b.records
}

// Records implements Source.
func (src TallyMapSource) Records() []model.TallyRecord {
	b := newRecordBuilder(src.Date)
	for _, nr := range src.Tallies {
		for _, run := range nr.Runs {
			b.add(nr.Name, run.Count.Count(), run.SheepType, "")
		}
	}
	return b.records
}

// Records implements Source.
func (UnknownSource) Records() []model.TallyRecord {
	return nil
}

type recordBuilder struct {
	date    time.Time
	records []model.TallyRecord
	dated   bool
}

func newRecordBuilder(date string) *recordBuilder {
	d, ok := model.ParseDate(date)
	return &recordBuilder{date: d, dated: ok}
}

// add appends a record, skipping blank names and zero counts.
func (b *recordBuilder) add(name string, count int, sheepType, date string) {
	name = strings.TrimSpace(name)
	if name == "" || count == 0 {
		return
	}
	rec := model.TallyRecord{
		ShearerName: name,
		Count:       count,
		SheepType:   strings.TrimSpace(sheepType),
		Date:        b.date,
		Dated:       b.dated,
	}
	if d, ok := model.ParseDate(date); ok {
		rec.Date, rec.Dated = d, true
	}
	b.records = append(b.records, rec)
}
