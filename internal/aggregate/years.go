package aggregate

import (
	"sort"
	"time"

	"github.com/Veraticus/shedtally/internal/codec"
)

// Years lists the calendar years found in the documents, newest first.
// The current year is always present, even with no documents.
func Years(docs []codec.Document, now time.Time) []int {
	if now.IsZero() {
		now = time.Now()
	}
	seen := map[int]bool{now.Year(): true}

	for _, doc := range docs {
		if date, ok := doc.ParsedDate(); ok {
			seen[date.Year()] = true
		}
		for _, rec := range doc.Records() {
			if rec.Dated {
				seen[rec.Date.Year()] = true
			}
		}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
