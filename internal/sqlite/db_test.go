package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"hour_activity",
		"notifications",
		"kv_store",
		"api_keys",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	require.NoError(t, db.RunMigrations(), "migrations must be re-runnable")
}

func TestWithPragmas(t *testing.T) {
	require.Equal(t, "app.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		withPragmas("app.db", "busy_timeout(5000)", "foreign_keys(1)"))
	require.Equal(t, "file:x?mode=memory&cache=shared&_pragma=busy_timeout(5000)",
		withPragmas("file:x?mode=memory&cache=shared", "busy_timeout(5000)"))
}

func TestNew_FileDBWaitsOnLocks(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "staffboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var timeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
	require.Equal(t, busyTimeoutMillis, timeout)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	require.Equal(t, 1, fk)
}
