// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/export"
	"github.com/Veraticus/shedtally/internal/model"
)

// SessionStore defines the contract for our persistence layer: a per-contractor
// collection of session documents keyed by date and station.
type SessionStore interface {
	// SaveSession inserts the session, or overwrites the stored session with the
	// same date and station. It returns the document id.
	SaveSession(ctx context.Context, contractorID string, sess model.Session) (string, error)
	// ImportDocuments stores documents of any historical shape as they are.
	// Documents with a key already present are overwritten.
	ImportDocuments(ctx context.Context, contractorID string, docs []codec.Document) (int, error)
	ListDocuments(ctx context.Context, contractorID string) ([]codec.Document, error)
	GetSession(ctx context.Context, contractorID string, key model.SessionKey) (*codec.Document, error)
	DeleteSession(ctx context.Context, contractorID string, key model.SessionKey) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportWriter publishes a rendered sheet somewhere outside the application and
// returns where it can be found.
type ReportWriter interface {
	Write(ctx context.Context, sheet export.Sheet) (string, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
