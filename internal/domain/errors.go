package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateCode indicates a WBS code collides with an existing node
	// or a registered discipline code.
	ErrDuplicateCode = errors.New("duplicate code")

	// ErrLinkConflict indicates a node is already linked to a BOQ definition.
	ErrLinkConflict = errors.New("link conflict")

	// ErrNotFound indicates a mutation target is absent from the local cache
	// or the store.
	ErrNotFound = errors.New("not found")

	// ErrPersistence indicates a record store call failed.
	ErrPersistence = errors.New("persistence failure")
)

// DuplicateCodeError is returned when a candidate code already exists among
// the workspace's WBS codes or the discipline catalog.
type DuplicateCodeError struct {
	Code string
	// Source is "wbs" when the collision is with a node, "discipline" when it
	// is with a catalog entry.
	Source string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("code %q already exists (%s)", e.Code, e.Source)
}

func (e *DuplicateCodeError) Is(target error) bool { return target == ErrDuplicateCode }

// LinkConflictError is returned by create-and-link when the node already
// references a definition.
type LinkConflictError struct {
	NodeID       string
	DefinitionID string
}

func (e *LinkConflictError) Error() string {
	return fmt.Sprintf("node %s is already linked to definition %s; unlink it first", e.NodeID, e.DefinitionID)
}

func (e *LinkConflictError) Is(target error) bool { return target == ErrLinkConflict }

// NotFoundError names the entity kind and id that could not be resolved.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError wraps a failed store call. Op names the attempted
// operation, e.g. "update pricing class".
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
