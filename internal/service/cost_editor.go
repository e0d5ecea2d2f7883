package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/pricing"
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
	"github.com/adidayastudio/from-adidaya-sub005/internal/wbs"
	"github.com/google/uuid"
)

const matrixKey = "matrix"

type costEditor struct {
	workspace *domain.Workspace
	classes   repository.PricingClassRepo
	nodes     repository.WBSNodeRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	gate      *writeGate

	mu        sync.RWMutex
	tree      []*domain.WBSNode
	working   *pricing.Matrix
	committed *pricing.Matrix

	// dirty counts unsaved edits per class id.
	dirty map[string]int
}

// NewCostEditor returns a cost editor for ws. Call Load before reading.
func NewCostEditor(
	ws *domain.Workspace,
	classes repository.PricingClassRepo,
	nodes repository.WBSNodeRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) CostEditor {
	return &costEditor{
		workspace: ws,
		classes:   classes,
		nodes:     nodes,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		gate:      newWriteGate(),
		working:   pricing.NewMatrix(nil, nil),
		committed: pricing.NewMatrix(nil, nil),
		dirty:     make(map[string]int),
	}
}

// Load reads the pricing classes and the WBS tree whose root codes the grand
// totals are computed over. Unsaved edits are discarded.
func (e *costEditor) Load(ctx context.Context) error {
	records, err := e.nodes.ListByWorkspace(ctx, e.workspace.ID)
	if err != nil {
		return storeErr("load wbs nodes", "workspace", e.workspace.ID, err)
	}
	classes, err := e.classes.ListByWorkspace(ctx, e.workspace.ID)
	if err != nil {
		return storeErr("load pricing classes", "workspace", e.workspace.ID, err)
	}
	e.gate.invalidate()

	tree := wbs.Build(records)
	m := pricing.NewMatrix(classes, wbs.RootCodes(tree))

	e.mu.Lock()
	e.tree = tree
	e.committed = m
	e.working = m.Clone()
	e.dirty = make(map[string]int)
	e.mu.Unlock()
	return nil
}

func (e *costEditor) Classes() []*domain.PricingClass {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.working.Classes()
}

func (e *costEditor) Tree() []*domain.WBSNode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree
}

func (e *costEditor) RootCodes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.working.RootCodes()
}

func (e *costEditor) ResolveClass(ref string) (*domain.PricingClass, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if c, err := e.working.Class(ref); err == nil {
		return c, nil
	}
	for _, c := range e.working.Classes() {
		if sameRef(c.ClassCode, ref) {
			return c, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: "pricing class", ID: ref}
}

func (e *costEditor) Cell(classID, code string) domain.CostEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.working.Cell(classID, code)
}

func (e *costEditor) GrandTotal(classID string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.working.GrandTotal(classID)
}

// LivePercentage reflects unsaved edits; the stored percentage only changes
// on Save.
func (e *costEditor) LivePercentage(classID, code string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.working.LivePercentage(classID, code)
}

// Dirty returns the ids of classes with unsaved edits, sorted.
func (e *costEditor) Dirty() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.dirty))
	for id := range e.dirty {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (e *costEditor) SetCost(classID, code string, cost float64) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("wbs code is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.working.SetCost(classID, code, cost); err != nil {
		return err
	}
	e.dirty[classID]++
	return nil
}

// Rollup replaces every parent cell of the class with the sum of its
// children. Like SetCost it is local until Save.
func (e *costEditor) Rollup(classID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.working.Class(classID)
	if err != nil {
		return err
	}
	pricing.Rollup(c, e.tree)
	e.dirty[classID]++
	return nil
}

// Save recomputes the percentage snapshot of every dirty class and persists
// them in one transaction. On failure the working matrix reverts to the last
// saved state.
func (e *costEditor) Save(ctx context.Context) (err error) {
	fields := map[string]any{"workspace": e.workspace.Code}
	done := track(ctx, e.observer, "pricing-save", fields)
	defer func() { done(err) }()

	t := e.gate.acquire(matrixKey)
	defer t.release()

	e.mu.Lock()
	if len(e.dirty) == 0 {
		e.mu.Unlock()
		return nil
	}
	now := time.Now().UTC()
	rootCodes := e.working.RootCodes()
	var batch []*domain.PricingClass
	saved := make(map[string]int, len(e.dirty))
	for id, edits := range e.dirty {
		c, cerr := e.working.Class(id)
		if cerr != nil {
			continue
		}
		saved[id] = edits
		pricing.RecomputePercentages(c, rootCodes)
		c.UpdatedAt = now
		batch = append(batch, c.Clone())
	}
	e.mu.Unlock()
	fields["classes"] = len(batch)

	err = e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePricingClassRepo(tx)
		for _, c := range batch {
			if err := repo.Update(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if !t.current() {
		if err != nil {
			return persistFailed("save pricing classes", err, nil)
		}
		return nil
	}
	if err != nil {
		e.revertLocked()
		return persistFailed("save pricing classes", err, nil)
	}
	for _, c := range batch {
		e.committed.Put(c.Clone())
	}
	// Edits made while the transaction ran stay dirty.
	for id, edits := range saved {
		if e.dirty[id] == edits {
			delete(e.dirty, id)
		}
	}
	return nil
}

// Revert discards unsaved edits.
func (e *costEditor) Revert() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.revertLocked()
}

func (e *costEditor) revertLocked() {
	e.working = e.committed.Clone()
	e.dirty = make(map[string]int)
}

func (e *costEditor) AddClass(ctx context.Context, classCode, finishLevel string) (class *domain.PricingClass, err error) {
	done := track(ctx, e.observer, "pricing-add-class", map[string]any{"class": classCode})
	defer func() { done(err) }()

	classCode = strings.ToUpper(strings.TrimSpace(classCode))
	if classCode == "" {
		return nil, fmt.Errorf("class code is required")
	}

	t := e.gate.acquire(matrixKey)
	defer t.release()

	e.mu.Lock()
	for _, c := range e.working.Classes() {
		if sameRef(c.ClassCode, classCode) {
			e.mu.Unlock()
			return nil, fmt.Errorf("pricing class %s already exists", classCode)
		}
	}
	now := time.Now().UTC()
	class = &domain.PricingClass{
		ID:          uuid.New().String(),
		WorkspaceID: e.workspace.ID,
		ClassCode:   classCode,
		FinishLevel: strings.TrimSpace(finishLevel),
		SortOrder:   len(e.working.Classes()),
		Values:      make(map[string]domain.CostEntry),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.working.Put(class)
	e.mu.Unlock()

	err = e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLitePricingClassRepo(tx).Create(ctx, class)
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		if t.current() {
			e.working.Remove(class.ID)
		}
		return nil, persistFailed("create pricing class", err, nil)
	}
	if t.current() {
		e.committed.Put(class.Clone())
	}
	return class.Clone(), nil
}
