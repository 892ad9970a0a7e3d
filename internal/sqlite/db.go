package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rpggio/staffboard/migrations"
	_ "modernc.org/sqlite"
)

// busyTimeoutMillis bounds how long a statement waits for a lock held by
// another connection or process before failing with SQLITE_BUSY.
const busyTimeoutMillis = 5000

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection.
//
// SQLite allows a single writer, so the pool is capped at one connection and
// writers in this process queue on it. File databases also wait on locks held
// by other processes instead of failing immediately.
func New(dataSourceName string) (*DB, error) {
	if dataSourceName != ":memory:" {
		dataSourceName = withPragmas(dataSourceName,
			fmt.Sprintf("busy_timeout(%d)", busyTimeoutMillis),
			"foreign_keys(1)",
		)
	}

	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// withPragmas appends _pragma parameters, applied by the driver to every new
// connection, to a DSN.
func withPragmas(dsn string, pragmas ...string) string {
	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, p := range pragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// RunMigrations applies the embedded schema. Statements are idempotent.
func (db *DB) RunMigrations() error {
	data, err := migrations.FS.ReadFile(migrations.InitialSchema)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	if _, err := db.Exec(string(data)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
