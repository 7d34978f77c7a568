// Package migrations versions the SQLite schema behind internal/storage.
package migrations

import (
	"database/sql"
	"errors"
	"fmt"
)

// Migration is one schema step. Steps run in Version order, each in its
// own transaction.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// AllMigrations lists every schema step, oldest first
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Create app_storage",
		SQL: `
			CREATE TABLE IF NOT EXISTS app_storage (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: 2,
		Name:    "Add updated_at index on app_storage",
		SQL: `
			CREATE INDEX IF NOT EXISTS idx_app_storage_updated_at ON app_storage(updated_at DESC);
		`,
	},
	{
		Version: 3,
		Name:    "Drop empty records left by interrupted writes",
		SQL: `
			DELETE FROM app_storage WHERE value = '';
		`,
	},
}

const versionTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// Run applies every migration newer than the recorded schema version
func Run(db *sql.DB) error {
	if _, err := db.Exec(versionTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, err := CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, m := range AllMigrations {
		if m.Version <= current {
			continue
		}
		if err := apply(db, m); err != nil {
			return err
		}
	}
	return nil
}

func apply(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}
	return tx.Commit()
}

// CurrentVersion returns the newest applied migration, 0 for a fresh database
func CurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return version, nil
}
