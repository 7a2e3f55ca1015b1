// Package testutil provides shared test helpers: a migrated throwaway session
// database and seeding helpers for stored sessions.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/shedtally/internal/codec"
	"github.com/Veraticus/shedtally/internal/model"
	"github.com/Veraticus/shedtally/internal/storage"
)

// TestDB is a migrated SQLite session database inside the test's temp directory.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	Dir     string
}

// SetupTestDB creates and migrates a database file in t.TempDir(). A file is
// used rather than ":memory:" so backups and the watcher have a directory to work in.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.Seed("crew-1", sessions.New("2025-03-14", "Glenorchy").WithStand("Alice").WithRow("Ewes", "100").Build())
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "tally.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		Dir:     dir,
		t:       t,
	}
}

// Seed saves each session for the contractor and returns the stored ids in order.
func (db *TestDB) Seed(contractorID string, sessions ...model.Session) []string {
	db.t.Helper()

	ids := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		id, err := db.Storage.SaveSession(context.Background(), contractorID, sess)
		if err != nil {
			db.t.Fatalf("failed to seed session %s: %v", sess.Key(), err)
		}
		ids = append(ids, id)
	}
	return ids
}

// MustDocuments lists the contractor's stored documents or fails the test.
func (db *TestDB) MustDocuments(contractorID string) []codec.Document {
	db.t.Helper()

	docs, err := db.Storage.ListDocuments(context.Background(), contractorID)
	if err != nil {
		db.t.Fatalf("failed to list documents: %v", err)
	}
	return docs
}
