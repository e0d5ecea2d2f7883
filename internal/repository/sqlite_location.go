package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
)

const locationFactorColumns = `id, workspace_id, code, province, city, regional_factor, difficulty_factor, created_at, updated_at`

// SQLiteLocationFactorRepo implements LocationFactorRepo. A NULL city marks
// the province default row.
type SQLiteLocationFactorRepo struct {
	db db.DBTX
}

func NewSQLiteLocationFactorRepo(conn db.DBTX) *SQLiteLocationFactorRepo {
	return &SQLiteLocationFactorRepo{db: conn}
}

func (r *SQLiteLocationFactorRepo) Create(ctx context.Context, l *domain.LocationFactor) error {
	query := `INSERT INTO location_factors (` + locationFactorColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.WorkspaceID,
		l.Code,
		l.Province,
		nullableString(l.City),
		l.RegionalFactor,
		l.DifficultyFactor,
		formatTime(l.CreatedAt),
		formatTime(l.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting location factor: %w", err)
	}
	return nil
}

func (r *SQLiteLocationFactorRepo) GetByID(ctx context.Context, id string) (*domain.LocationFactor, error) {
	query := `SELECT ` + locationFactorColumns + ` FROM location_factors WHERE id = ?`
	l, err := scanLocationFactor(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "location factor")
	}
	return l, nil
}

// ListByWorkspace returns rows in insertion order so province grouping sees
// the oldest province default first.
func (r *SQLiteLocationFactorRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.LocationFactor, error) {
	query := `SELECT ` + locationFactorColumns + ` FROM location_factors WHERE workspace_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing location factors: %w", err)
	}
	defer rows.Close()

	var out []*domain.LocationFactor
	for rows.Next() {
		l, err := scanLocationFactor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning location factor row: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating location factors: %w", err)
	}
	return out, nil
}

func (r *SQLiteLocationFactorRepo) Update(ctx context.Context, l *domain.LocationFactor) error {
	query := `UPDATE location_factors SET code = ?, province = ?, city = ?, regional_factor = ?,
		difficulty_factor = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		l.Code,
		l.Province,
		nullableString(l.City),
		l.RegionalFactor,
		l.DifficultyFactor,
		formatTime(l.UpdatedAt),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating location factor: %w", err)
	}
	return rowsAffectedOrNotFound(res, "location factor")
}

func (r *SQLiteLocationFactorRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM location_factors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting location factor: %w", err)
	}
	return rowsAffectedOrNotFound(res, "location factor")
}

func scanLocationFactor(row rowScanner) (*domain.LocationFactor, error) {
	var l domain.LocationFactor
	var city sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&l.ID, &l.WorkspaceID, &l.Code, &l.Province, &city,
		&l.RegionalFactor, &l.DifficultyFactor, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	l.City = stringPtr(city)
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTime(updatedAt)
	return &l, nil
}
