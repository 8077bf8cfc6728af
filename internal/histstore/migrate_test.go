package histstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbase-cli/greenbase/schema"
)

func TestMigrateNoneBackend(t *testing.T) {
	err := Migrate(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none backend")
}

func TestMigrateSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	// Migrate to the latest version.
	require.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))
	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	// Re-running is a no-op, not an error.
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, -1))

	// Pin to version 1, roll back everything, then come back up.
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 1))
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 0))
	assert.NoError(t, Migrate(schema.SQLiteBackend, dbPath, 1))
}

func TestMigrateUnsupportedBackend(t *testing.T) {
	err := Migrate(schema.DatabaseBackend("redis"), "", -1)
	assert.Error(t, err)
}
