// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema; do not hardcode CREATE TABLE statements in test
// files.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/stride/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedGoal inserts a test goal and returns its ID.
func seedGoal(t *testing.T, db *sql.DB, id, title string) string {
	t.Helper()
	if id == "" {
		id = "GOAL-001"
	}
	if title == "" {
		title = "Test Goal"
	}
	_, err := db.Exec(
		"INSERT INTO goals (id, title, start_date, target_date, halfway_date) VALUES (?, ?, '2025-01-01', '2025-12-31', '2025-07-02')",
		id, title,
	)
	if err != nil {
		t.Fatalf("failed to seed goal: %v", err)
	}
	return id
}
