package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
	"github.com/adidayastudio/from-adidaya-sub005/internal/wbs"
	"github.com/google/uuid"
)

type wbsEditor struct {
	workspace *domain.Workspace
	catalog   *domain.DisciplineCatalog
	nodes     repository.WBSNodeRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	gate      *writeGate

	mu     sync.RWMutex
	arena  []*domain.WBSNode
	roots  []*domain.WBSNode
	flat   []*domain.WBSNode
	byID   map[string]*domain.WBSNode
	loaded bool
}

// NewWBSEditor returns an editor for ws. Call Load before reading.
func NewWBSEditor(
	ws *domain.Workspace,
	catalog *domain.DisciplineCatalog,
	nodes repository.WBSNodeRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) WBSEditor {
	return &wbsEditor{
		workspace: ws,
		catalog:   catalog,
		nodes:     nodes,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		gate:      newWriteGate(),
	}
}

func (e *wbsEditor) Workspace() *domain.Workspace { return e.workspace }
func (e *wbsEditor) Catalog() *domain.DisciplineCatalog { return e.catalog }

// Load replaces the arena with the store's rows. In-flight writes started
// before the load no longer reconcile against editor state.
func (e *wbsEditor) Load(ctx context.Context) error {
	records, err := e.nodes.ListByWorkspace(ctx, e.workspace.ID)
	if err != nil {
		return storeErr("load wbs nodes", "workspace", e.workspace.ID, err)
	}
	e.gate.invalidate()

	e.mu.Lock()
	e.arena = records
	e.rebuildLocked()
	e.loaded = true
	e.mu.Unlock()
	return nil
}

// rebuildLocked derives the nested tree, the pre-order list and the id index
// from the arena.
func (e *wbsEditor) rebuildLocked() {
	e.roots = wbs.Build(e.arena)
	e.flat = wbs.Flatten(e.roots)
	e.byID = wbs.Index(e.flat)
}

func (e *wbsEditor) Tree() []*domain.WBSNode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.roots
}

func (e *wbsEditor) Flat() []*domain.WBSNode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]*domain.WBSNode(nil), e.flat...)
}

func (e *wbsEditor) RootCodes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return wbs.RootCodes(e.roots)
}

func (e *wbsEditor) View(family domain.ScreenFamily, mode domain.ViewMode, expanded wbs.ExpandedSet, query string) []*domain.WBSNode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return wbs.View(e.flat, family, mode, expanded, query)
}

func (e *wbsEditor) Resolve(ref string) (*domain.WBSNode, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resolveLocked(ref)
}

func (e *wbsEditor) resolveLocked(ref string) (*domain.WBSNode, error) {
	if n, ok := e.byID[ref]; ok {
		return n, nil
	}
	for _, n := range e.flat {
		if sameRef(n.Code, ref) {
			return n, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: "wbs node", ID: ref}
}

func (e *wbsEditor) arenaIndex(id string) int {
	for i, n := range e.arena {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (e *wbsEditor) AddRoot(ctx context.Context, disciplineCode string) (node *domain.WBSNode, err error) {
	done := track(ctx, e.observer, "wbs-add-root", map[string]any{"discipline": disciplineCode})
	defer func() { done(err) }()

	d, ok := e.catalog.Lookup(disciplineCode)
	if !ok {
		return nil, &domain.NotFoundError{Kind: "discipline", ID: disciplineCode}
	}
	return e.insert(ctx, "", wbs.NextRootCode(d), d.NameEn, d.NameID, d.Code)
}

func (e *wbsEditor) AddCustomRoot(ctx context.Context, code, name string) (node *domain.WBSNode, err error) {
	done := track(ctx, e.observer, "wbs-add-custom-root", map[string]any{"code": code})
	defer func() { done(err) }()

	return e.insert(ctx, "", strings.ToUpper(strings.TrimSpace(code)), name, "", "")
}

func (e *wbsEditor) AddChild(ctx context.Context, parentID, name string) (node *domain.WBSNode, err error) {
	done := track(ctx, e.observer, "wbs-add-child", map[string]any{"parent": parentID})
	defer func() { done(err) }()

	return e.insert(ctx, parentID, "", name, "", "")
}

// insert validates and creates a node. An empty code means "allocate the
// next child code of parentID". Validation happens before any state change.
func (e *wbsEditor) insert(ctx context.Context, parentID, code, nameEn, nameID, exempt string) (*domain.WBSNode, error) {
	if strings.TrimSpace(nameEn) == "" && strings.TrimSpace(nameID) == "" {
		return nil, fmt.Errorf("node name is required")
	}

	key := "parent:" + parentID
	if parentID == "" {
		key = "roots"
	}
	t := e.gate.acquire(key)
	defer t.release()

	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return nil, fmt.Errorf("wbs editor not loaded")
	}
	now := time.Now().UTC()
	n := &domain.WBSNode{
		ID:          uuid.New().String(),
		WorkspaceID: e.workspace.ID,
		Code:        code,
		NameEn:      strings.TrimSpace(nameEn),
		NameID:      strings.TrimSpace(nameID),
		SortOrder:   len(e.roots),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if parentID != "" {
		parent, ok := e.byID[parentID]
		if !ok {
			e.mu.Unlock()
			return nil, &domain.NotFoundError{Kind: "wbs node", ID: parentID}
		}
		n.ParentID = strPtr(parent.ID)
		n.Depth = parent.Depth + 1
		n.SortOrder = len(parent.Children)
		n.Code = wbs.NextChildCode(parent)
	}
	if err := wbs.ValidateCode(n.Code, wbs.Codes(e.arena), e.catalog, exempt); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.arena = append(e.arena, n)
	e.rebuildLocked()
	e.mu.Unlock()

	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteWBSNodeRepo(tx).Create(ctx, n)
	})
	if err != nil {
		return nil, e.reloadAfter(ctx, t, "create wbs node", err)
	}
	return n.Clone(), nil
}

func (e *wbsEditor) Rename(ctx context.Context, id string, nameEn, nameID *string) (node *domain.WBSNode, err error) {
	done := track(ctx, e.observer, "wbs-rename", map[string]any{"id": id})
	defer func() { done(err) }()

	t := e.gate.acquire("node:" + id)
	defer t.release()

	e.mu.Lock()
	i := e.arenaIndex(id)
	if i < 0 {
		e.mu.Unlock()
		return nil, &domain.NotFoundError{Kind: "wbs node", ID: id}
	}
	updated := e.arena[i].Clone()
	updated.NameEn = domain.StrFromPtrWithDefault(updated.NameEn, nameEn)
	updated.NameID = domain.StrFromPtrWithDefault(updated.NameID, nameID)
	if strings.TrimSpace(updated.NameEn) == "" && strings.TrimSpace(updated.NameID) == "" {
		e.mu.Unlock()
		return nil, fmt.Errorf("node name is required")
	}
	updated.Depth = e.byID[id].Depth
	updated.UpdatedAt = time.Now().UTC()
	e.arena[i] = updated
	e.rebuildLocked()
	e.mu.Unlock()

	err = e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteWBSNodeRepo(tx).Update(ctx, updated)
	})
	if err != nil {
		return nil, e.reloadAfter(ctx, t, "update wbs node", err)
	}
	return updated.Clone(), nil
}

func (e *wbsEditor) Delete(ctx context.Context, id string) (removed []string, err error) {
	done := track(ctx, e.observer, "wbs-delete", map[string]any{"id": id})
	defer func() { done(err) }()

	t := e.gate.acquire("node:" + id)
	defer t.release()

	e.mu.Lock()
	if e.arenaIndex(id) < 0 {
		e.mu.Unlock()
		return nil, &domain.NotFoundError{Kind: "wbs node", ID: id}
	}
	removed = append([]string{id}, wbs.Descendants(e.arena, id)...)
	gone := make(map[string]bool, len(removed))
	for _, r := range removed {
		gone[r] = true
	}
	kept := e.arena[:0:0]
	for _, n := range e.arena {
		if !gone[n.ID] {
			kept = append(kept, n)
		}
	}
	e.arena = kept
	e.rebuildLocked()
	e.mu.Unlock()

	for _, r := range removed[1:] {
		e.gate.invalidateKey("node:" + r)
	}

	// Descendants go with the row via ON DELETE CASCADE.
	err = e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteWBSNodeRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return nil, e.reloadAfter(ctx, t, "delete wbs node", err)
	}
	return removed, nil
}

// reloadAfter applies the WBS failure policy: discard local edits and reload
// the arena from the store. A stale ticket skips the reload because a newer
// load already replaced the state it would fix.
func (e *wbsEditor) reloadAfter(ctx context.Context, t *ticket, op string, err error) error {
	if !t.current() {
		return persistFailed(op, err, nil)
	}
	return persistFailed(op, err, e.Load(ctx))
}
