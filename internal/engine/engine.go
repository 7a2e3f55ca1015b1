// Package engine implements the tally workflows: saving the grid, loading
// stored sessions back into it, and exporting sessions and summaries.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/shedtally/internal/classification"
	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/grid"
	"github.com/Veraticus/shedtally/internal/model"
	"github.com/Veraticus/shedtally/internal/service"
)

// ErrSaveCanceled is returned when the user declines to save a sheet with empty parts.
var ErrSaveCanceled = errors.New("save canceled")

// Engine orchestrates the grid, the session store, the local cache and exports.
type Engine struct {
	store        service.SessionStore
	cache        SessionCache
	confirmer    Confirmer
	writer       service.ReportWriter
	classifier   *classification.Classifier
	now          func() time.Time
	contractorID string
	exportDir    string
}

// Config holds configuration options for the engine.
type Config struct {
	Classifier   *classification.Classifier
	Writer       service.ReportWriter
	ContractorID string
	ExportDir    string
}

// New creates an engine. The cache and confirmer may be nil.
func New(store service.SessionStore, cache SessionCache, confirmer Confirmer, config Config) *Engine {
	cls := config.Classifier
	if cls == nil {
		cls = classification.MustDefault()
	}
	dir := config.ExportDir
	if dir == "" {
		dir = "."
	}
	return &Engine{
		store:        store,
		cache:        cache,
		confirmer:    confirmer,
		writer:       config.Writer,
		classifier:   cls,
		now:          time.Now,
		contractorID: config.ContractorID,
		exportDir:    dir,
	}
}

// SaveResult describes a completed save.
type SaveResult struct {
	ID       string
	Session  model.Session
	Advisory grid.Advisory
}

// Save serializes the grid and stores it under its date and station,
// overwriting an earlier save with the same key. Empty stands, rows and staff
// entries are reported to the confirmer first; they are dropped from the
// stored session either way.
func (e *Engine) Save(ctx context.Context, state grid.State) (SaveResult, error) {
	advisory := state.Advise()
	if advisory.HasIssues() && e.confirmer != nil {
		ok, err := e.confirmer.ConfirmSave(ctx, advisory)
		if err != nil {
			return SaveResult{}, fmt.Errorf("failed to confirm save: %w", err)
		}
		if !ok {
			return SaveResult{Advisory: advisory}, ErrSaveCanceled
		}
	}

	sess := codec.ToSession(state)
	sess.ContractorID = e.contractorID

	id, err := e.store.SaveSession(ctx, e.contractorID, sess)
	if err != nil {
		return SaveResult{}, common.NewUserError("could not save the sheet", err)
	}

	if e.cache != nil {
		if err := e.cache.Record(sess); err != nil {
			slog.Warn("failed to update local cache", "error", err)
		}
	}

	slog.Info("saved session",
		"id", id,
		"date", sess.Date,
		"station", sess.StationName,
		"stands", len(sess.Stands),
		"rows", len(sess.ShearerCounts))

	return SaveResult{ID: id, Session: sess, Advisory: advisory}, nil
}

// Load rebuilds the grid from a stored session.
func (e *Engine) Load(ctx context.Context, key model.SessionKey) (grid.State, error) {
	doc, err := e.store.GetSession(ctx, e.contractorID, key)
	if err != nil {
		return grid.State{}, err
	}
	return codec.FromSession(doc.Session), nil
}

// LoadPrevious rebuilds the grid from the most recent local save.
func (e *Engine) LoadPrevious() (grid.State, bool) {
	if e.cache == nil {
		return grid.State{}, false
	}
	sess, ok := e.cache.Last()
	if !ok {
		return grid.State{}, false
	}
	return codec.FromSession(sess), true
}

// Documents returns every stored document of the contractor.
func (e *Engine) Documents(ctx context.Context) ([]codec.Document, error) {
	docs, err := e.store.ListDocuments(ctx, e.contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	return docs, nil
}

// Import decodes raw historical documents and stores them.
func (e *Engine) Import(ctx context.Context, data []byte) (int, error) {
	docs := codec.DecodeDocuments(data)
	if len(docs) == 0 {
		return 0, common.NewUserError("no session documents found in the input", common.ErrInvalidSession)
	}
	return e.store.ImportDocuments(ctx, e.contractorID, docs)
}

// Classifier returns the sheep type classifier used for summaries.
func (e *Engine) Classifier() *classification.Classifier {
	return e.classifier
}
