package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run on
// every open; "duplicate column name" from a re-applied ALTER TABLE is tolerated.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS planning_headers (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		day         TEXT NOT NULL UNIQUE,
		status      TEXT NOT NULL DEFAULT 'NEW'
		            CHECK(status IN ('NEW','OPEN','CLOSED','REVISED')),
		revision    INTEGER NOT NULL DEFAULT 0 CHECK(revision >= 0),
		created_by  TEXT NOT NULL DEFAULT '',
		modified_by TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(status <> 'NEW' OR revision = 0)
	)`,

	`CREATE TABLE IF NOT EXISTS clients (
		site_id     INTEGER PRIMARY KEY,
		client_name TEXT NOT NULL,
		site_name   TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS intervention_types (
		id          INTEGER PRIMARY KEY,
		description TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS resources (
		username   TEXT PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS planning_details (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		header_id          INTEGER NOT NULL REFERENCES planning_headers(id) ON DELETE CASCADE,
		position           INTEGER NOT NULL DEFAULT 0,
		external_event_id  TEXT,
		description        TEXT NOT NULL DEFAULT '',
		site_id            INTEGER,
		notes              TEXT NOT NULL DEFAULT '',
		time_slot          TEXT NOT NULL DEFAULT 'AM' CHECK(time_slot IN ('AM','PM')),
		material_available INTEGER NOT NULL DEFAULT 0,
		created_by         TEXT NOT NULL DEFAULT '',
		modified_by        TEXT NOT NULL DEFAULT '',
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_planning_details_header ON planning_details(header_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_planning_details_event ON planning_details(external_event_id)`,

	`CREATE TABLE IF NOT EXISTS detail_resources (
		detail_id INTEGER NOT NULL REFERENCES planning_details(id) ON DELETE CASCADE,
		username  TEXT NOT NULL,
		position  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (detail_id, username)
	)`,

	`CREATE TABLE IF NOT EXISTS detail_interventions (
		detail_id            INTEGER NOT NULL REFERENCES planning_details(id) ON DELETE CASCADE,
		intervention_type_id INTEGER NOT NULL,
		quantity             INTEGER NOT NULL DEFAULT 1 CHECK(quantity >= 1),
		position             INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (detail_id, intervention_type_id)
	)`,

	`CREATE TABLE IF NOT EXISTS operation_logs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		header_id   INTEGER,
		operation   TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		user        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_operation_logs_header ON operation_logs(header_id)`,
}
