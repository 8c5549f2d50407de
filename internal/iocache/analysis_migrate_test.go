package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/k1lgor/fpl-momentum-tracker/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableExists reports whether a table is present in a SQLite database file.
func tableExists(t *testing.T, dbPath, tableName string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", tableName).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func TestMigrateAnalysis_NoneBackend(t *testing.T) {
	err := MigrateAnalysis(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateAnalysis_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	// Fresh file, migrate straight to latest
	err := MigrateAnalysis(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
	assert.True(t, tableExists(t, dbPath, analysisRunsTable))
	assert.True(t, tableExists(t, dbPath, playerSignalsTable))

	// Re-running at latest is a no-op
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, -1)
	assert.NoError(t, err)

	// Targeting the version we are already on is also a no-op
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 1)
	assert.NoError(t, err)

	// Version 0 rolls both tables away
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 0)
	assert.NoError(t, err)
	assert.False(t, tableExists(t, dbPath, analysisRunsTable))
	assert.False(t, tableExists(t, dbPath, playerSignalsTable))

	// And back up again
	err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 1)
	assert.NoError(t, err)
	assert.True(t, tableExists(t, dbPath, analysisRunsTable))
}

func TestMigrateAnalysis_SQLiteInMemory(t *testing.T) {
	err := MigrateAnalysis(schema.SQLiteBackend, ":memory:", -1)
	require.NoError(t, err)
}
