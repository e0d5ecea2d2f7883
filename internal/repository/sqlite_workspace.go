package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
)

const workspaceColumns = `id, code, name, created_at, updated_at`

// SQLiteWorkspaceRepo implements WorkspaceRepo using a SQLite database.
type SQLiteWorkspaceRepo struct {
	db db.DBTX
}

func NewSQLiteWorkspaceRepo(conn db.DBTX) *SQLiteWorkspaceRepo {
	return &SQLiteWorkspaceRepo{db: conn}
}

func (r *SQLiteWorkspaceRepo) Create(ctx context.Context, w *domain.Workspace) error {
	query := `INSERT INTO workspaces (` + workspaceColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.Code,
		w.Name,
		formatTime(w.CreatedAt),
		formatTime(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting workspace: %w", err)
	}
	return nil
}

func (r *SQLiteWorkspaceRepo) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = ?`
	return r.scanWorkspace(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteWorkspaceRepo) GetByCode(ctx context.Context, code string) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE UPPER(code) = UPPER(?)`
	return r.scanWorkspace(r.db.QueryRowContext(ctx, query, code))
}

func (r *SQLiteWorkspaceRepo) List(ctx context.Context) ([]*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer rows.Close()

	var out []*domain.Workspace
	for rows.Next() {
		var w domain.Workspace
		var createdAt, updatedAt string
		if err := rows.Scan(&w.ID, &w.Code, &w.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning workspace row: %w", err)
		}
		w.CreatedAt = parseTime(createdAt)
		w.UpdatedAt = parseTime(updatedAt)
		out = append(out, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workspaces: %w", err)
	}
	return out, nil
}

func (r *SQLiteWorkspaceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting workspace: %w", err)
	}
	return rowsAffectedOrNotFound(res, "workspace")
}

func (r *SQLiteWorkspaceRepo) scanWorkspace(row *sql.Row) (*domain.Workspace, error) {
	var w domain.Workspace
	var createdAt, updatedAt string
	if err := row.Scan(&w.ID, &w.Code, &w.Name, &createdAt, &updatedAt); err != nil {
		return nil, notFoundOr(err, "workspace")
	}
	w.CreatedAt = parseTime(createdAt)
	w.UpdatedAt = parseTime(updatedAt)
	return &w, nil
}
