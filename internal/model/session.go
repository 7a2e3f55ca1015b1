// Package model defines the core domain models used throughout the application.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeSystem identifies the length of the shearing day.
type TimeSystem string

const (
	// TimeSystemEightHour is the standard four-run day.
	TimeSystemEightHour TimeSystem = "8-hr"
	// TimeSystemNineHour is the five-run day.
	TimeSystemNineHour TimeSystem = "9-hr"
)

// ScaffoldRows returns the number of count rows a fresh sheet starts with.
func (ts TimeSystem) ScaffoldRows() int {
	if ts == TimeSystemNineHour {
		return 5
	}
	return 4
}

// IsNineHour reports whether the day is a nine hour day.
func (ts TimeSystem) IsNineHour() bool {
	return ts == TimeSystemNineHour
}

// TimeSystemFor maps the workday toggle to its TimeSystem.
func TimeSystemFor(nineHour bool) TimeSystem {
	if nineHour {
		return TimeSystemNineHour
	}
	return TimeSystemEightHour
}

// DateLayout is the ISO-8601 calendar date layout used by session records.
const DateLayout = "2006-01-02"

// Stand is a shearing position on the board.
type Stand struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// UnmarshalJSON accepts a stand object, or a bare name string as some older
// documents stored. A bare name gets index 0 and is resolved by position.
func (s *Stand) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '"' {
		*s = Stand{}
		return json.Unmarshal(trimmed, &s.Name)
	}
	var raw struct {
		Name  string `json:"name"`
		Index Tally  `json:"index"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Name = raw.Name
	s.Index = raw.Index.Count()
	return nil
}

// DisplayName returns the stand name, falling back to "Stand {index}".
func (s Stand) DisplayName() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return fmt.Sprintf("Stand %d", s.Index)
}

// CountRow is one recorded run of per-stand counts.
type CountRow struct {
	SheepType string  `json:"sheepType"`
	Stands    []Tally `json:"stands"`
	Total     int     `json:"total"`
}

// Sum adds up the row's counts across its stands. The stored Total is ignored.
func (r CountRow) Sum() int {
	total := 0
	for _, v := range r.Stands {
		total += v.Count()
	}
	return total
}

// ShedStaffEntry records the hours of one shed hand.
type ShedStaffEntry struct {
	Name  string `json:"name"`
	Hours Hours  `json:"hours"`
}

// UnmarshalJSON accepts both the current "hours" key and the older "hoursWorked" key.
func (e *ShedStaffEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name        string `json:"name"`
		Hours       Hours  `json:"hours"`
		HoursWorked Hours  `json:"hoursWorked"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Name = raw.Name
	e.Hours = raw.Hours
	if e.Hours == "" {
		e.Hours = raw.HoursWorked
	}
	return nil
}

// SheepTypeTotal is one line of the per sheep type breakdown.
type SheepTypeTotal struct {
	Type  string `json:"type"`
	Total int    `json:"total"`
}

// SheepTypeTotalLabel labels the grand total line of the sheep type breakdown.
const SheepTypeTotalLabel = "Total"

// SumSheepTypes groups row totals by their literal trimmed sheep type, in the
// order each type first appears, then appends the overall Total line. Rows
// without a sheep type only count towards Total. sheepTypes and totals are
// read pairwise.
func SumSheepTypes(sheepTypes []string, totals []int) []SheepTypeTotal {
	var order []string
	sums := make(map[string]int)
	grand := 0
	for i := 0; i < len(sheepTypes) && i < len(totals); i++ {
		grand += totals[i]
		key := strings.TrimSpace(sheepTypes[i])
		if key == "" {
			continue
		}
		if _, ok := sums[key]; !ok {
			order = append(order, key)
		}
		sums[key] += totals[i]
	}

	out := make([]SheepTypeTotal, 0, len(order)+1)
	for _, key := range order {
		out = append(out, SheepTypeTotal{Type: key, Total: sums[key]})
	}
	return append(out, SheepTypeTotal{Type: SheepTypeTotalLabel, Total: grand})
}

// Session is the serialized record of one day's work at one station.
type Session struct {
	SavedAt         time.Time        `json:"savedAt,omitempty"`
	ContractorID    string           `json:"contractorId,omitempty"`
	Date            string           `json:"date"`
	StationName     string           `json:"stationName"`
	TeamLeader      string           `json:"teamLeader"`
	CombType        string           `json:"combType"`
	StartTime       string           `json:"startTime"`
	FinishTime      string           `json:"finishTime"`
	HoursWorked     string           `json:"hoursWorked"`
	TimeSystem      TimeSystem       `json:"timeSystem"`
	Stands          []Stand          `json:"stands"`
	ShearerCounts   []CountRow       `json:"shearerCounts"`
	ShedStaff       []ShedStaffEntry `json:"shedStaff"`
	SheepTypeTotals []SheepTypeTotal `json:"sheepTypeTotals"`
}

// Key returns the de-duplication key of the session.
func (s Session) Key() SessionKey {
	return NewSessionKey(s.Date, s.StationName)
}

// ParsedDate returns the session date, or false when it cannot be resolved.
func (s Session) ParsedDate() (time.Time, bool) {
	return ParseDate(s.Date)
}

// SessionKey identifies a session for overwrite-on-save.
type SessionKey struct {
	Date    string
	Station string
}

// NewSessionKey normalizes a date and station name into a key.
// Station names compare case-insensitively after trimming.
func NewSessionKey(date, station string) SessionKey {
	return SessionKey{
		Date:    strings.TrimSpace(date),
		Station: NormalizeName(station),
	}
}

// String renders the key for logs.
func (k SessionKey) String() string {
	return k.Date + "/" + k.Station
}

// NormalizeName trims and lower-cases a name for comparisons.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseDate resolves the date formats found in stored sessions.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateLayout, time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
