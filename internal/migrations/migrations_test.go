package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun_AppliesAllMigrations(t *testing.T) {
	db := openTestDB(t)

	if err := Run(db); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	version, err := CurrentVersion(db)
	if err != nil {
		t.Fatalf("CurrentVersion() error = %v", err)
	}
	want := AllMigrations[len(AllMigrations)-1].Version
	if version != want {
		t.Errorf("version = %d, want %d", version, want)
	}

	if _, err := db.Exec("INSERT INTO app_storage (key, value) VALUES ('k', 'v')"); err != nil {
		t.Errorf("app_storage not usable: %v", err)
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 3; i++ {
		if err := Run(db); err != nil {
			t.Fatalf("Run() #%d error = %v", i, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count error = %v", err)
	}
	if count != len(AllMigrations) {
		t.Errorf("recorded %d migrations, want %d", count, len(AllMigrations))
	}
}

func TestAllMigrations_Ordered(t *testing.T) {
	for i := 1; i < len(AllMigrations); i++ {
		if AllMigrations[i].Version <= AllMigrations[i-1].Version {
			t.Errorf("migration %q is out of order", AllMigrations[i].Name)
		}
	}
}

func TestRun_ResumesFromRecordedVersion(t *testing.T) {
	db := openTestDB(t)

	if err := Run(db); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := db.Exec("DELETE FROM schema_migrations WHERE version > 1"); err != nil {
		t.Fatalf("reset error = %v", err)
	}
	if _, err := db.Exec("INSERT INTO app_storage (key, value) VALUES ('empty', '')"); err != nil {
		t.Fatalf("insert error = %v", err)
	}

	if err := Run(db); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM app_storage WHERE key = 'empty'").Scan(&count); err != nil {
		t.Fatalf("count error = %v", err)
	}
	if count != 0 {
		t.Error("cleanup migration did not run again")
	}
}
