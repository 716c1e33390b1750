// Package testutil provides shared test fixtures.
package testutil

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/alimgiray/commentbox/pkg/database"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// NewDB opens a fresh in-memory SQLite database with the full schema
// applied. Each call gets its own database, so tests stay independent.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=ON", uuid.New().String())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// cache=shared keeps the database alive across pool connections,
	// but a single connection avoids table-lock flakiness entirely.
	db.SetMaxOpenConns(1)

	if err := database.RunSQLScripts(db, migrationsDir()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	return db
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
