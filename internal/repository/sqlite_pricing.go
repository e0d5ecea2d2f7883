package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
)

const pricingClassColumns = `id, workspace_id, class_code, finish_level, sort_order, "values", created_at, updated_at`

// SQLitePricingClassRepo implements PricingClassRepo. The cost matrix row
// of a class is stored as a JSON object keyed by WBS code.
type SQLitePricingClassRepo struct {
	db db.DBTX
}

func NewSQLitePricingClassRepo(conn db.DBTX) *SQLitePricingClassRepo {
	return &SQLitePricingClassRepo{db: conn}
}

func (r *SQLitePricingClassRepo) Create(ctx context.Context, c *domain.PricingClass) error {
	values, err := encodeValues(c.Values)
	if err != nil {
		return err
	}
	query := `INSERT INTO pricing_classes (` + pricingClassColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID,
		c.WorkspaceID,
		c.ClassCode,
		c.FinishLevel,
		c.SortOrder,
		values,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting pricing class: %w", err)
	}
	return nil
}

func (r *SQLitePricingClassRepo) GetByID(ctx context.Context, id string) (*domain.PricingClass, error) {
	query := `SELECT ` + pricingClassColumns + ` FROM pricing_classes WHERE id = ?`
	c, err := scanPricingClass(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "pricing class")
	}
	return c, nil
}

func (r *SQLitePricingClassRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.PricingClass, error) {
	query := `SELECT ` + pricingClassColumns + ` FROM pricing_classes WHERE workspace_id = ? ORDER BY sort_order, class_code`
	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing pricing classes: %w", err)
	}
	defer rows.Close()

	var classes []*domain.PricingClass
	for rows.Next() {
		c, err := scanPricingClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pricing class row: %w", err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pricing classes: %w", err)
	}
	return classes, nil
}

func (r *SQLitePricingClassRepo) Update(ctx context.Context, c *domain.PricingClass) error {
	values, err := encodeValues(c.Values)
	if err != nil {
		return err
	}
	query := `UPDATE pricing_classes SET class_code = ?, finish_level = ?, sort_order = ?, "values" = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.ClassCode,
		c.FinishLevel,
		c.SortOrder,
		values,
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating pricing class: %w", err)
	}
	return rowsAffectedOrNotFound(res, "pricing class")
}

func (r *SQLitePricingClassRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pricing_classes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting pricing class: %w", err)
	}
	return rowsAffectedOrNotFound(res, "pricing class")
}

func encodeValues(values map[string]domain.CostEntry) (string, error) {
	if len(values) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding pricing values: %w", err)
	}
	return string(b), nil
}

func scanPricingClass(row rowScanner) (*domain.PricingClass, error) {
	var c domain.PricingClass
	var values, createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.ClassCode, &c.FinishLevel, &c.SortOrder,
		&values, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.Values = make(map[string]domain.CostEntry)
	if values != "" {
		if err := json.Unmarshal([]byte(values), &c.Values); err != nil {
			return nil, fmt.Errorf("decoding values of pricing class %s: %w", c.ID, err)
		}
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}
