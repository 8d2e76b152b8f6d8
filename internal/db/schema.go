package db

// SchemaSQL is the complete schema for fresh stride installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(): if repository code references a column
// that doesn't exist here, tests fail immediately with "no such column"
// instead of drifting against a hand-copied schema.
//
// When adding new columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Goals (long-running goals with a cadence plan)
CREATE TABLE IF NOT EXISTS goals (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	start_date TEXT NOT NULL,
	target_date TEXT NOT NULL,
	halfway_date TEXT NOT NULL,
	monthly_steps TEXT NOT NULL DEFAULT '[]',
	weekly_steps TEXT NOT NULL DEFAULT '[]',
	daily_steps TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Task occurrences (quick entries, cadence rows and milestone markers).
-- Dates are ISO YYYY-MM-DD text so range predicates compare correctly.
-- The uniqueness constraint makes a retried bulk insert safe: a reseed
-- that reruns after a partial failure cannot duplicate rows.
CREATE TABLE IF NOT EXISTS occurrences (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	goal_id TEXT,
	title TEXT NOT NULL,
	date TEXT NOT NULL,
	source_tag TEXT NOT NULL,
	category TEXT,
	priority INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (goal_id) REFERENCES goals(id) ON DELETE CASCADE,
	UNIQUE(goal_id, source_tag, date, title)
);

CREATE INDEX IF NOT EXISTS idx_occurrences_date ON occurrences(date);
CREATE INDEX IF NOT EXISTS idx_occurrences_goal ON occurrences(goal_id, source_tag, date);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Completely fresh install - create the schema directly and mark
		// all migrations as applied so they never rerun.
		if _, err = db.Exec(SchemaSQL); err != nil {
			return err
		}
		if _, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`); err != nil {
			return err
		}
		for _, m := range migrations {
			if _, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
