package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertWorkspace(ctx context.Context, tx db.DBTX, id, code string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO workspaces (id, code, name, created_at, updated_at) VALUES (?, ?, ?, '', '')`,
		id, code, code)
	return err
}

func workspaceCount(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM workspaces`).Scan(&n))
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertWorkspace(ctx, tx, "w1", "VILLA"); err != nil {
			return err
		}
		return insertWorkspace(ctx, tx, "w2", "RUKO")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, workspaceCount(t, database))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := newUoW(t)
	boom := errors.New("store unavailable")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertWorkspace(ctx, tx, "w1", "VILLA"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, workspaceCount(t, database), "first insert must be rolled back")
}

func TestWithinTx_RollbackOnConstraintViolation(t *testing.T) {
	database, uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertWorkspace(ctx, tx, "w1", "VILLA"); err != nil {
			return err
		}
		return insertWorkspace(ctx, tx, "w2", "VILLA")
	})
	require.Error(t, err)
	assert.Equal(t, 0, workspaceCount(t, database))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertWorkspace(ctx, tx, "w1", "VILLA")
			panic("boom")
		})
	})
	assert.Equal(t, 0, workspaceCount(t, database))
}
