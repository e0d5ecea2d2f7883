package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"workspaces", "wbs_nodes", "pricing_classes", "boq_definitions", "boq_elements", "location_factors"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_workspaces_code",
		"idx_wbs_nodes_workspace",
		"idx_wbs_nodes_parent",
		"idx_wbs_nodes_code",
		"idx_wbs_nodes_definition",
		"idx_pricing_classes_code",
		"idx_boq_elements_definition",
		"idx_location_factors_workspace",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WBSCodeUniqueIgnoresCase(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO workspaces (id, code, name, created_at, updated_at) VALUES ('w1', 'VILLA', 'Villa', '', '')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO wbs_nodes (id, workspace_id, code, name, created_at, updated_at) VALUES ('n1', 'w1', 'S.1', 'Footing', '', '')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO wbs_nodes (id, workspace_id, code, name, created_at, updated_at) VALUES ('n2', 'w1', 's.1', 'Footing', '', '')`)
	require.Error(t, err)
}

func TestMigrate_ParentDeleteCascades(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO workspaces (id, code, name, created_at, updated_at) VALUES ('w1', 'VILLA', 'Villa', '', '')`,
		`INSERT INTO wbs_nodes (id, workspace_id, code, name, created_at, updated_at) VALUES ('s', 'w1', 'S', 'Structure', '', '')`,
		`INSERT INTO wbs_nodes (id, workspace_id, parent_id, code, name, created_at, updated_at) VALUES ('s1', 'w1', 's', 'S.1', 'Footing', '', '')`,
		`INSERT INTO wbs_nodes (id, workspace_id, parent_id, code, name, created_at, updated_at) VALUES ('s11', 'w1', 's1', 'S.1.1', 'Pad', '', '')`,
		`DELETE FROM wbs_nodes WHERE id = 's'`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM wbs_nodes`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrate_DefinitionDeleteClearsLink(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO workspaces (id, code, name, created_at, updated_at) VALUES ('w1', 'VILLA', 'Villa', '', '')`,
		`INSERT INTO boq_definitions (id, workspace_id, code, name, created_at, updated_at) VALUES ('d1', 'w1', 'BOQ-S', 'Volume', '', '')`,
		`INSERT INTO wbs_nodes (id, workspace_id, code, name, definition_id, created_at, updated_at) VALUES ('s', 'w1', 'S', 'Structure', 'd1', '', '')`,
		`DELETE FROM boq_definitions WHERE id = 'd1'`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	var def sql.NullString
	require.NoError(t, db.QueryRow(`SELECT definition_id FROM wbs_nodes WHERE id = 's'`).Scan(&def))
	assert.False(t, def.Valid)
}
