package repository

import (
	"context"
	"fmt"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
)

const (
	boqDefinitionColumns = `id, workspace_id, code, name, unit, formula, created_at, updated_at`
	boqElementColumns    = `id, definition_id, name, symbol, unit, sort_order`
)

// SQLiteBoqRepo implements BoqRepo over boq_definitions and boq_elements.
type SQLiteBoqRepo struct {
	db db.DBTX
}

func NewSQLiteBoqRepo(conn db.DBTX) *SQLiteBoqRepo {
	return &SQLiteBoqRepo{db: conn}
}

// CreateDefinition inserts the definition and any elements it already
// carries.
func (r *SQLiteBoqRepo) CreateDefinition(ctx context.Context, d *domain.BoqDefinition) error {
	query := `INSERT INTO boq_definitions (` + boqDefinitionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.WorkspaceID, d.Code, d.Name, d.Unit, d.Formula,
		formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting boq definition: %w", err)
	}
	for i := range d.Elements {
		if err := r.CreateElement(ctx, &d.Elements[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteBoqRepo) GetDefinition(ctx context.Context, id string) (*domain.BoqDefinition, error) {
	query := `SELECT ` + boqDefinitionColumns + ` FROM boq_definitions WHERE id = ?`
	d, err := scanBoqDefinition(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "boq definition")
	}
	elements, err := r.listElements(ctx, `definition_id = ?`, id)
	if err != nil {
		return nil, err
	}
	d.Elements = elements[id]
	return d, nil
}

// ListDefinitions returns every definition of the workspace ordered by code,
// each with its elements.
func (r *SQLiteBoqRepo) ListDefinitions(ctx context.Context, workspaceID string) ([]*domain.BoqDefinition, error) {
	query := `SELECT ` + boqDefinitionColumns + ` FROM boq_definitions WHERE workspace_id = ? ORDER BY code, rowid`
	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing boq definitions: %w", err)
	}
	var defs []*domain.BoqDefinition
	for rows.Next() {
		d, err := scanBoqDefinition(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning boq definition row: %w", err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating boq definitions: %w", err)
	}
	rows.Close()

	elements, err := r.listElements(ctx,
		`definition_id IN (SELECT id FROM boq_definitions WHERE workspace_id = ?)`, workspaceID)
	if err != nil {
		return nil, err
	}
	for _, d := range defs {
		d.Elements = elements[d.ID]
	}
	return defs, nil
}

func (r *SQLiteBoqRepo) UpdateDefinition(ctx context.Context, d *domain.BoqDefinition) error {
	query := `UPDATE boq_definitions SET code = ?, name = ?, unit = ?, formula = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, d.Code, d.Name, d.Unit, d.Formula, formatTime(d.UpdatedAt), d.ID)
	if err != nil {
		return fmt.Errorf("updating boq definition: %w", err)
	}
	return rowsAffectedOrNotFound(res, "boq definition")
}

// DeleteDefinition removes the definition and its elements. Linked nodes
// keep existing with their link cleared.
func (r *SQLiteBoqRepo) DeleteDefinition(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boq_definitions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting boq definition: %w", err)
	}
	return rowsAffectedOrNotFound(res, "boq definition")
}

func (r *SQLiteBoqRepo) CreateElement(ctx context.Context, e *domain.BoqElement) error {
	query := `INSERT INTO boq_elements (` + boqElementColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.DefinitionID, e.Name, e.Symbol, e.Unit, e.SortOrder)
	if err != nil {
		return fmt.Errorf("inserting boq element: %w", err)
	}
	return nil
}

func (r *SQLiteBoqRepo) UpdateElement(ctx context.Context, e *domain.BoqElement) error {
	query := `UPDATE boq_elements SET name = ?, symbol = ?, unit = ?, sort_order = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, e.Name, e.Symbol, e.Unit, e.SortOrder, e.ID)
	if err != nil {
		return fmt.Errorf("updating boq element: %w", err)
	}
	return rowsAffectedOrNotFound(res, "boq element")
}

func (r *SQLiteBoqRepo) DeleteElement(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boq_elements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting boq element: %w", err)
	}
	return rowsAffectedOrNotFound(res, "boq element")
}

// listElements returns elements matching where, grouped by definition id and
// ordered within each definition.
func (r *SQLiteBoqRepo) listElements(ctx context.Context, where string, args ...any) (map[string][]domain.BoqElement, error) {
	query := `SELECT ` + boqElementColumns + ` FROM boq_elements WHERE ` + where + ` ORDER BY sort_order, rowid`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing boq elements: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.BoqElement)
	for rows.Next() {
		var e domain.BoqElement
		if err := rows.Scan(&e.ID, &e.DefinitionID, &e.Name, &e.Symbol, &e.Unit, &e.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning boq element row: %w", err)
		}
		out[e.DefinitionID] = append(out[e.DefinitionID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating boq elements: %w", err)
	}
	return out, nil
}

func scanBoqDefinition(row rowScanner) (*domain.BoqDefinition, error) {
	var d domain.BoqDefinition
	var createdAt, updatedAt string
	if err := row.Scan(&d.ID, &d.WorkspaceID, &d.Code, &d.Name, &d.Unit, &d.Formula, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	return &d, nil
}
