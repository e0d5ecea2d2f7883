package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is wrapped by every GetBy* method when no row matches.
var ErrNotFound = errors.New("not found")

// formatTime renders t for a TEXT timestamp column.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a TEXT timestamp column. Empty or malformed values become
// the zero time rather than failing the whole scan.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullableString converts a *string to a value suitable for SQLite storage.
// Nil and empty both become SQL NULL.
func nullableString(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// stringPtr converts a scanned sql.NullString back to *string.
func stringPtr(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

// notFoundOr maps sql.ErrNoRows to ErrNotFound and wraps anything else.
func notFoundOr(err error, kind string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", kind, ErrNotFound)
	}
	return fmt.Errorf("scanning %s: %w", kind, err)
}

// rowsAffectedOrNotFound returns ErrNotFound when an UPDATE or DELETE
// matched nothing.
func rowsAffectedOrNotFound(res sql.Result, kind string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected for %s: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", kind, ErrNotFound)
	}
	return nil
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
