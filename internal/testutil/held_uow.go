package testutil

import (
	"context"
	"sync/atomic"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
)

// HeldUoW parks the next WithinTx call after Hold until the test releases
// it, so a test can change the store or reload an editor while a write is in
// flight. Other calls pass straight through to Inner.
type HeldUoW struct {
	Inner db.UnitOfWork

	held    atomic.Bool
	entered chan struct{}
	release chan error
}

func NewHeldUoW(inner db.UnitOfWork) *HeldUoW {
	return &HeldUoW{
		Inner:   inner,
		entered: make(chan struct{}, 1),
		release: make(chan error),
	}
}

// Hold parks the next WithinTx call.
func (u *HeldUoW) Hold() { u.held.Store(true) }

// Entered receives once the held call is parked.
func (u *HeldUoW) Entered() <-chan struct{} { return u.entered }

// Release resumes the parked call. A non-nil err is returned from WithinTx
// without touching the store; nil runs the call against Inner.
func (u *HeldUoW) Release(err error) { u.release <- err }

func (u *HeldUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	if u.held.CompareAndSwap(true, false) {
		u.entered <- struct{}{}
		if err := <-u.release; err != nil {
			return err
		}
	}
	return u.Inner.WithinTx(ctx, fn)
}
