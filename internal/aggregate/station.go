package aggregate

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/shedtally/internal/classification"
	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/model"
)

// ShearerBreakdown is one shearer's tally at a station split by sheep type bucket.
type ShearerBreakdown struct {
	ByBucket map[string]int
	Name     string
	Total    int
}

// StaffHours is one shed hand's hours at a station.
type StaffHours struct {
	Hours decimal.Decimal
	Name  string
}

// LeaderSummary is the sheep shorn under one team leader and the days they led.
type LeaderSummary struct {
	Name  string
	Sheep int
	Days  int
}

// CombSummary is the number of days a comb type was used.
type CombSummary struct {
	Name string
	Days int
}

// Summary cross-tabulates the work done at one station.
type Summary struct {
	BucketTotals map[string]int
	Station      string
	Buckets      []string
	Shearers     []ShearerBreakdown
	Staff        []StaffHours
	Leaders      []LeaderSummary
	Combs        []CombSummary
	GrandTotal   int
	Sessions     int
}

// Empty reports whether no session matched.
func (s Summary) Empty() bool {
	return s.Sessions == 0
}

// StationSummary aggregates the documents recorded at station (trimmed, case-insensitive)
// whose dates pass the filter. Sheep types are bucketed by cls; a nil cls uses the
// default categories. Shearers are ordered by total, highest first.
func StationSummary(docs []codec.Document, station string, f Filter, cls *classification.Classifier) Summary {
	if cls == nil {
		cls = classification.MustDefault()
	}
	want := model.NormalizeName(station)

	sum := Summary{
		Station:      strings.TrimSpace(station),
		Buckets:      cls.Buckets(),
		BucketTotals: make(map[string]int),
	}

	var shearerOrder, staffOrder, leaderOrder, combOrder nameOrder
	shearers := make(map[string]*ShearerBreakdown)
	staff := make(map[string]decimal.Decimal)
	leaderSheep := make(map[string]int)
	leaderDays := make(map[string]map[string]bool)
	combDays := make(map[string]map[string]bool)

	for _, doc := range docs {
		if model.NormalizeName(doc.StationName) != want {
			continue
		}
		date, dated := doc.ParsedDate()
		if !f.Includes(date, dated) {
			continue
		}
		sum.Sessions++
		day := strings.TrimSpace(doc.Date)

		sessionSheep := 0
		for _, rec := range doc.Records() {
			if !f.Includes(rec.Date, rec.Dated) || !f.WorkType.Keeps(rec.SheepType) {
				continue
			}
			name, ok := shearerOrder.note(rec.ShearerName)
			if !ok {
				continue
			}
			bucket := cls.Classify(rec.SheepType)
			b := shearers[name]
			if b == nil {
				b = &ShearerBreakdown{Name: name, ByBucket: make(map[string]int)}
				shearers[name] = b
			}
			b.ByBucket[bucket] += rec.Count
			b.Total += rec.Count
			sum.BucketTotals[bucket] += rec.Count
			sum.GrandTotal += rec.Count
			sessionSheep += rec.Count
		}

		for _, e := range doc.ShedStaff {
			if name, ok := staffOrder.note(e.Name); ok {
				staff[name] = staff[name].Add(staffHours(e, doc.Session).Decimal())
			}
		}

		if name, ok := leaderOrder.note(doc.TeamLeader); ok {
			leaderSheep[name] += sessionSheep
			addDay(leaderDays, name, day)
		}
		if name, ok := combOrder.note(doc.CombType); ok {
			addDay(combDays, name, day)
		}
	}

	for _, name := range shearerOrder.names {
		if b := shearers[name]; b != nil {
			sum.Shearers = append(sum.Shearers, *b)
		}
	}
	slices.SortStableFunc(sum.Shearers, func(a, b ShearerBreakdown) int { return cmp.Compare(b.Total, a.Total) })

	for _, name := range staffOrder.names {
		sum.Staff = append(sum.Staff, StaffHours{Name: name, Hours: staff[name]})
	}
	slices.SortStableFunc(sum.Staff, func(a, b StaffHours) int { return b.Hours.Cmp(a.Hours) })

	for _, name := range leaderOrder.names {
		sum.Leaders = append(sum.Leaders, LeaderSummary{Name: name, Sheep: leaderSheep[name], Days: len(leaderDays[name])})
	}
	for _, name := range combOrder.names {
		sum.Combs = append(sum.Combs, CombSummary{Name: name, Days: len(combDays[name])})
	}
	return sum
}

func addDay(days map[string]map[string]bool, name, day string) {
	if days[name] == nil {
		days[name] = make(map[string]bool)
	}
	if day != "" {
		days[name][day] = true
	}
}
