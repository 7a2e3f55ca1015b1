// Package sessions builds test sessions with a fluent API.
//
// Example usage:
//
//	sess := sessions.New("2025-03-14", "Glenorchy").
//		WithStand("Alice").
//		WithStand("Bob").
//		WithRow("Ewes", "100", "80").
//		WithStaff("Kim", "8").
//		Build()
package sessions

import (
	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/model"
)

// Builder accumulates the parts of one session.
type Builder struct {
	sess model.Session
}

// New starts an eight hour session at station on date.
func New(date, station string) *Builder {
	return &Builder{sess: model.Session{
		Date:        date,
		StationName: station,
		TimeSystem:  model.TimeSystemEightHour,
	}}
}

// WithStand appends a stand with the next one-based index.
func (b *Builder) WithStand(name string) *Builder {
	b.sess.Stands = append(b.sess.Stands, model.Stand{Index: len(b.sess.Stands) + 1, Name: name})
	return b
}

// WithRow appends a count row. Its stored total is the sum of the counts.
func (b *Builder) WithRow(sheepType string, counts ...string) *Builder {
	row := model.CountRow{SheepType: sheepType, Stands: make([]model.Tally, len(counts))}
	for i, c := range counts {
		row.Stands[i] = model.Tally(c)
		row.Total += model.ParseCount(c)
	}
	b.sess.ShearerCounts = append(b.sess.ShearerCounts, row)
	return b
}

// WithStaff appends a shed staff entry.
func (b *Builder) WithStaff(name, hours string) *Builder {
	b.sess.ShedStaff = append(b.sess.ShedStaff, model.ShedStaffEntry{Name: name, Hours: model.Hours(hours)})
	return b
}

// WithTeamLeader sets the team leader.
func (b *Builder) WithTeamLeader(name string) *Builder {
	b.sess.TeamLeader = name
	return b
}

// WithCombType sets the comb type.
func (b *Builder) WithCombType(comb string) *Builder {
	b.sess.CombType = comb
	return b
}

// NineHour switches the session to the nine hour day.
func (b *Builder) NineHour() *Builder {
	b.sess.TimeSystem = model.TimeSystemNineHour
	b.sess.HoursWorked = "9"
	return b
}

// Build returns the session.
func (b *Builder) Build() model.Session {
	return b.sess
}

// Document wraps the session as a stored document.
func (b *Builder) Document(id string) codec.Document {
	return codec.NewDocument(id, b.sess)
}
