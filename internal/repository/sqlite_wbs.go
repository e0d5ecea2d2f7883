package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
)

// wbsNodeColumns is the canonical SELECT column list for wbs_nodes.
const wbsNodeColumns = `id, workspace_id, parent_id, code, name, name_id, description,
		indent_level, sort_order, definition_id, created_at, updated_at`

// SQLiteWBSNodeRepo implements WBSNodeRepo using a SQLite database.
type SQLiteWBSNodeRepo struct {
	db db.DBTX
}

func NewSQLiteWBSNodeRepo(conn db.DBTX) *SQLiteWBSNodeRepo {
	return &SQLiteWBSNodeRepo{db: conn}
}

// Create inserts the node. indent_level stores Depth and level stores
// Depth+1 for consumers that count from one.
func (r *SQLiteWBSNodeRepo) Create(ctx context.Context, n *domain.WBSNode) error {
	query := `INSERT INTO wbs_nodes (id, workspace_id, parent_id, code, name, name_id, description,
		indent_level, level, sort_order, definition_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.WorkspaceID,
		nullableString(n.ParentID),
		n.Code,
		n.NameEn,
		n.NameID,
		n.Description,
		n.Depth,
		n.Depth+1,
		n.SortOrder,
		nullableString(n.DefinitionID),
		formatTime(n.CreatedAt),
		formatTime(n.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting wbs node: %w", err)
	}
	return nil
}

func (r *SQLiteWBSNodeRepo) GetByID(ctx context.Context, id string) (*domain.WBSNode, error) {
	query := `SELECT ` + wbsNodeColumns + ` FROM wbs_nodes WHERE id = ?`
	n, err := scanWBSNode(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "wbs node")
	}
	return n, nil
}

// ListByWorkspace returns the flat arena in sort order, ties broken by
// insertion order.
func (r *SQLiteWBSNodeRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.WBSNode, error) {
	query := `SELECT ` + wbsNodeColumns + ` FROM wbs_nodes WHERE workspace_id = ? ORDER BY sort_order, rowid`
	return r.query(ctx, query, workspaceID)
}

func (r *SQLiteWBSNodeRepo) ListByDefinition(ctx context.Context, definitionID string) ([]*domain.WBSNode, error) {
	query := `SELECT ` + wbsNodeColumns + ` FROM wbs_nodes WHERE definition_id = ? ORDER BY sort_order, rowid`
	return r.query(ctx, query, definitionID)
}

func (r *SQLiteWBSNodeRepo) Update(ctx context.Context, n *domain.WBSNode) error {
	query := `UPDATE wbs_nodes SET parent_id = ?, code = ?, name = ?, name_id = ?, description = ?,
		indent_level = ?, level = ?, sort_order = ?, definition_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(n.ParentID),
		n.Code,
		n.NameEn,
		n.NameID,
		n.Description,
		n.Depth,
		n.Depth+1,
		n.SortOrder,
		nullableString(n.DefinitionID),
		formatTime(n.UpdatedAt),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating wbs node: %w", err)
	}
	return rowsAffectedOrNotFound(res, "wbs node")
}

// SetDefinition links the node to a BOQ definition, or unlinks it when
// definitionID is nil.
func (r *SQLiteWBSNodeRepo) SetDefinition(ctx context.Context, nodeID string, definitionID *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE wbs_nodes SET definition_id = ?, updated_at = ? WHERE id = ?`,
		nullableString(definitionID), nowUTC(), nodeID)
	if err != nil {
		return fmt.Errorf("linking wbs node: %w", err)
	}
	return rowsAffectedOrNotFound(res, "wbs node")
}

func (r *SQLiteWBSNodeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wbs_nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting wbs node: %w", err)
	}
	return rowsAffectedOrNotFound(res, "wbs node")
}

func (r *SQLiteWBSNodeRepo) query(ctx context.Context, query string, args ...any) ([]*domain.WBSNode, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing wbs nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*domain.WBSNode
	for rows.Next() {
		n, err := scanWBSNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning wbs node row: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wbs nodes: %w", err)
	}
	return nodes, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWBSNode(row rowScanner) (*domain.WBSNode, error) {
	var n domain.WBSNode
	var parentID, definitionID sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(
		&n.ID, &n.WorkspaceID, &parentID, &n.Code, &n.NameEn, &n.NameID, &n.Description,
		&n.Depth, &n.SortOrder, &definitionID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.ParentID = stringPtr(parentID)
	n.DefinitionID = stringPtr(definitionID)
	n.CreatedAt = parseTime(createdAt)
	n.UpdatedAt = parseTime(updatedAt)
	return &n, nil
}
