package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
)

// FailOnNthExecUoW injects Err on the Nth ExecContext call of each
// transaction (counting from 1) and rolls the transaction back. Reads pass
// through. FailOn 0 never fails, which lets a test flip a running editor
// between healthy and failing store behaviour via SetFailOn.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn atomic.Int32
	Err    error
}

// NewFailOnNthExecUoW returns a UoW that fails the nth write of every
// transaction with err.
func NewFailOnNthExecUoW(database *sql.DB, n int32, err error) *FailOnNthExecUoW {
	u := &FailOnNthExecUoW{DB: database, Err: err}
	u.FailOn.Store(n)
	return u
}

func (u *FailOnNthExecUoW) SetFailOn(n int32) { u.FailOn.Store(n) }

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: u.FailOn.Load(), err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if f.failOn > 0 && n == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
