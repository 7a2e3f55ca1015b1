package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/common"
	"github.com/Veraticus/shedtally/internal/model"
)

// SaveSession inserts the session or overwrites the stored session with the
// same date and station for the contractor. It returns the document id.
func (s *SQLiteStorage) SaveSession(ctx context.Context, contractorID string, sess model.Session) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateContractor(contractorID); err != nil {
		return "", err
	}
	if err := validateSession(sess); err != nil {
		return "", err
	}

	sess.ContractorID = contractorID
	sess.SavedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := s.saveDocumentTx(ctx, tx, contractorID, codec.NewDocument("", sess))
	if err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session: %w", err)
	}

	slog.Debug("saved session", "id", id, "key", sess.Key().String())
	s.changed()
	return id, nil
}

// ImportDocuments stores documents of any historical shape as they are. A
// document whose date and station match a stored session replaces it.
func (s *SQLiteStorage) ImportDocuments(ctx context.Context, contractorID string, docs []codec.Document) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateContractor(contractorID); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, fmt.Errorf("%w: documents", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, doc := range docs {
		doc.ContractorID = contractorID
		if doc.SavedAt.IsZero() {
			doc.SavedAt = time.Now().UTC()
		}
		if _, err := s.saveDocumentTx(ctx, tx, contractorID, doc); err != nil {
			return 0, fmt.Errorf("document at index %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	slog.Info("imported session documents", "count", len(docs), "contractor", contractorID)
	s.changed()
	return len(docs), nil
}

func (s *SQLiteStorage) saveDocumentTx(ctx context.Context, tx *sql.Tx, contractorID string, doc codec.Document) (string, error) {
	key := doc.Key()

	id := doc.ID
	if key.Date != "" && key.Station != "" {
		existing, err := s.findIDTx(ctx, tx, contractorID, key)
		if err != nil {
			return "", err
		}
		if existing != "" {
			id = existing
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	doc.ID = id

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode session document: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, contractor_id, date, station_key, station_name, document, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			station_key = excluded.station_key,
			station_name = excluded.station_name,
			document = excluded.document,
			saved_at = excluded.saved_at
		WHERE sessions.contractor_id = excluded.contractor_id
	`, id, contractorID, key.Date, key.Station, strings.TrimSpace(doc.StationName), string(data), doc.SavedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return "", fmt.Errorf("%w: session %s", common.ErrDuplicateEntry, key.String())
		}
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	return id, nil
}

func (s *SQLiteStorage) findIDTx(ctx context.Context, q queryable, contractorID string, key model.SessionKey) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `
		SELECT id FROM sessions
		WHERE contractor_id = ? AND date = ? AND station_key = ?
	`, contractorID, key.Date, key.Station).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up session: %w", err)
	}
	return id, nil
}

// ListDocuments returns every stored document of the contractor, oldest date
// first. Documents that no longer parse are logged and skipped.
func (s *SQLiteStorage) ListDocuments(ctx context.Context, contractorID string) ([]codec.Document, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateContractor(contractorID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document FROM sessions
		WHERE contractor_id = ?
		ORDER BY date, saved_at, id
	`, contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []codec.Document
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		doc, ok := codec.DecodeDocument([]byte(data))
		if !ok {
			slog.Warn("skipping corrupt session document", "id", id)
			continue
		}
		doc.ID = id
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// GetSession retrieves the stored document with the given key.
func (s *SQLiteStorage) GetSession(ctx context.Context, contractorID string, key model.SessionKey) (*codec.Document, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateContractor(contractorID); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var id, data string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, document FROM sessions
		WHERE contractor_id = ? AND date = ? AND station_key = ?
	`, contractorID, key.Date, key.Station).Scan(&id, &data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session %s", common.ErrNotFound, key.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	doc, ok := codec.DecodeDocument([]byte(data))
	if !ok {
		return nil, fmt.Errorf("%w: session %s", common.ErrDatabaseCorrupted, key.String())
	}
	doc.ID = id
	return &doc, nil
}

// DeleteSession removes the stored document with the given key.
func (s *SQLiteStorage) DeleteSession(ctx context.Context, contractorID string, key model.SessionKey) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateContractor(contractorID); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE contractor_id = ? AND date = ? AND station_key = ?
	`, contractorID, key.Date, key.Station)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: session %s", common.ErrNotFound, key.String())
	}

	s.changed()
	return nil
}
