package service

import (
	"errors"
	"strings"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
)

// storeErr converts a repository error into the domain taxonomy: missing
// rows become NotFoundError, everything else a PersistenceError.
func storeErr(op, kind, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.NotFoundError{Kind: kind, ID: id}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

// persistFailed wraps a failed write. When the compensating action also
// failed both errors are kept.
func persistFailed(op string, err, compensateErr error) error {
	if compensateErr != nil {
		err = errors.Join(err, compensateErr)
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

func sameRef(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func strPtr(s string) *string { return &s }
