package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBackup(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.SaveSession(ctx, contractor, testSession("2025-03-14", "Glenorchy", "100"))
	require.NoError(t, err)

	info, err := store.CreateBackup(ctx, "before-season", "end of season")
	require.NoError(t, err)
	assert.Equal(t, 1, info.Sessions)
	assert.Equal(t, ExpectedSchemaVersion, info.SchemaVersion)
	assert.FileExists(t, filepath.Join(store.BackupDir(), "before-season.db"))

	_, err = store.CreateBackup(ctx, "before-season", "")
	assert.ErrorIs(t, err, ErrBackupExists)

	_, err = store.CreateBackup(ctx, "../escape", "")
	assert.Error(t, err)

	// The copy is a working database.
	copyStore, err := NewSQLiteStorage(filepath.Join(store.BackupDir(), "before-season.db"))
	require.NoError(t, err)
	defer func() { _ = copyStore.Close() }()
	docs, err := copyStore.ListDocuments(ctx, contractor)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestListAndDeleteBackups(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	backups, err := store.ListBackups(ctx)
	require.NoError(t, err)
	assert.Empty(t, backups)

	_, err = store.CreateBackup(ctx, "one", "")
	require.NoError(t, err)
	_, err = store.CreateBackup(ctx, "two", "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.BackupDir(), "junk.meta.json"), []byte("{"), 0600))

	backups, err = store.ListBackups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "two", backups[0].ID)

	require.NoError(t, store.DeleteBackup(ctx, "one"))
	assert.ErrorIs(t, store.DeleteBackup(ctx, "one"), ErrBackupNotFound)
}

func TestPruneAutoBackups(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for i := range maxAutoBackups + 2 {
		_, err := store.createBackup(ctx, fmt.Sprintf("auto-import-%d", i), "", true)
		require.NoError(t, err)
	}
	_, err := store.CreateBackup(ctx, "manual", "")
	require.NoError(t, err)

	require.NoError(t, store.pruneAutoBackups(ctx))

	backups, err := store.ListBackups(ctx)
	require.NoError(t, err)
	auto := 0
	for _, b := range backups {
		if b.IsAuto {
			auto++
		}
	}
	assert.Equal(t, maxAutoBackups, auto)
	assert.Len(t, backups, maxAutoBackups+1)
}
