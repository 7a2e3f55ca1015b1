// Package aggregate derives leaderboards, station summaries and year lists from
// a collection of stored session documents. Every function is a pure function
// of its inputs and re-derives the full result on each call.
package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/shedtally/internal/classification"
)

// Mode selects the date range of an aggregation.
type Mode string

const (
	// ModeAll includes every record, dated or not.
	ModeAll Mode = "all"
	// ModeRolling includes the 365 calendar days ending today, today included.
	ModeRolling Mode = "12m"
	// ModeYear includes January 1 to December 31 of Filter.Year.
	ModeYear Mode = "year"
)

// ParseMode validates a mode name. An empty name is ModeAll.
func ParseMode(value string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(value))); m {
	case "", ModeAll:
		return ModeAll, nil
	case ModeRolling, ModeYear:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want all, 12m or year)", value)
	}
}

// rollingDays is the length of the ModeRolling window.
const rollingDays = 365

// WorkType partitions shearing records by the work done.
type WorkType string

const (
	// WorkAny keeps both partitions. The shearer leaderboard always keeps
	// exactly one and reads it as WorkShorn.
	WorkAny WorkType = ""
	// WorkShorn keeps everything that is not crutching.
	WorkShorn WorkType = "shorn"
	// WorkCrutched keeps crutching records only.
	WorkCrutched WorkType = "crutched"
)

// ParseWorkType validates a work type name. An empty name is WorkAny.
func ParseWorkType(value string) (WorkType, error) {
	switch w := WorkType(strings.ToLower(strings.TrimSpace(value))); w {
	case WorkAny, WorkShorn, WorkCrutched:
		return w, nil
	default:
		return "", fmt.Errorf("unknown work type %q (want shorn or crutched)", value)
	}
}

// Partition returns the single partition a shearer leaderboard keeps.
func (w WorkType) Partition() WorkType {
	if w == WorkCrutched {
		return WorkCrutched
	}
	return WorkShorn
}

// Keeps reports whether a record with the given sheep type belongs to the partition.
func (w WorkType) Keeps(sheepType string) bool {
	switch w {
	case WorkShorn:
		return !classification.IsCrutchWork(sheepType)
	case WorkCrutched:
		return classification.IsCrutchWork(sheepType)
	default:
		return true
	}
}

// Filter narrows the records an aggregation considers.
type Filter struct {
	// From and To further restrict the range when set, inclusive, by calendar date.
	From     time.Time
	To       time.Time
	Now      time.Time
	Mode     Mode
	WorkType WorkType
	Year     int
}

// today returns the calendar date of Now, or of the current time when Now is unset.
func (f Filter) today() time.Time {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Bounded reports whether the filter restricts dates at all.
func (f Filter) Bounded() bool {
	return (f.Mode != "" && f.Mode != ModeAll) || !f.From.IsZero() || !f.To.IsZero()
}

// Includes reports whether a record dated date passes the date range.
// Undated records only pass an unbounded filter.
func (f Filter) Includes(date time.Time, dated bool) bool {
	if !f.Bounded() {
		return true
	}
	if !dated {
		return false
	}
	switch f.Mode {
	case ModeRolling:
		today := f.today()
		if date.Before(today.AddDate(0, 0, -(rollingDays-1))) || date.After(today) {
			return false
		}
	case ModeYear:
		year := f.Year
		if year == 0 {
			year = f.today().Year()
		}
		if date.Year() != year {
			return false
		}
	}
	if !f.From.IsZero() && date.Before(calendarDate(f.From)) {
		return false
	}
	if !f.To.IsZero() && date.After(calendarDate(f.To)) {
		return false
	}
	return true
}

func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
