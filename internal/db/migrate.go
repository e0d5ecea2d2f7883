package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS workspaces (
		id         TEXT PRIMARY KEY,
		code       TEXT NOT NULL,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_workspaces_code ON workspaces(code)`,

	`CREATE TABLE IF NOT EXISTS wbs_nodes (
		id           TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
		parent_id    TEXT REFERENCES wbs_nodes(id) ON DELETE CASCADE,
		code         TEXT NOT NULL,
		name         TEXT NOT NULL,
		name_id      TEXT NOT NULL DEFAULT '',
		description  TEXT NOT NULL DEFAULT '',
		indent_level INTEGER NOT NULL DEFAULT 0 CHECK(indent_level >= 0),
		level        INTEGER NOT NULL DEFAULT 1 CHECK(level >= 1),
		sort_order   INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_wbs_nodes_workspace ON wbs_nodes(workspace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_wbs_nodes_parent ON wbs_nodes(parent_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_wbs_nodes_code ON wbs_nodes(workspace_id, code COLLATE NOCASE)`,

	`CREATE TABLE IF NOT EXISTS pricing_classes (
		id           TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
		class_code   TEXT NOT NULL,
		finish_level TEXT NOT NULL DEFAULT '',
		sort_order   INTEGER NOT NULL DEFAULT 0,
		"values"     TEXT NOT NULL DEFAULT '{}',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pricing_classes_workspace ON pricing_classes(workspace_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_pricing_classes_code ON pricing_classes(workspace_id, class_code)`,

	`CREATE TABLE IF NOT EXISTS boq_definitions (
		id           TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
		code         TEXT NOT NULL,
		name         TEXT NOT NULL,
		unit         TEXT NOT NULL DEFAULT '',
		formula      TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_boq_definitions_workspace ON boq_definitions(workspace_id)`,

	`CREATE TABLE IF NOT EXISTS boq_elements (
		id            TEXT PRIMARY KEY,
		definition_id TEXT NOT NULL REFERENCES boq_definitions(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		symbol        TEXT NOT NULL DEFAULT '',
		unit          TEXT NOT NULL DEFAULT '',
		sort_order    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_boq_elements_definition ON boq_elements(definition_id)`,

	`CREATE TABLE IF NOT EXISTS location_factors (
		id                TEXT PRIMARY KEY,
		workspace_id      TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
		code              TEXT NOT NULL DEFAULT '',
		province          TEXT NOT NULL,
		city              TEXT,
		regional_factor   REAL NOT NULL DEFAULT 1,
		difficulty_factor REAL NOT NULL DEFAULT 1,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_location_factors_workspace ON location_factors(workspace_id)`,

	// Definition links were added after the first wbs_nodes release.
	`ALTER TABLE wbs_nodes ADD COLUMN definition_id TEXT REFERENCES boq_definitions(id) ON DELETE SET NULL`,
	`CREATE INDEX IF NOT EXISTS idx_wbs_nodes_definition ON wbs_nodes(definition_id)`,
}
