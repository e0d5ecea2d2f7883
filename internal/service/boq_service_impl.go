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
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
	"github.com/google/uuid"
)

type boqService struct {
	workspace *domain.Workspace
	boq       repository.BoqRepo
	nodes     repository.WBSNodeRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	gate      *writeGate

	mu        sync.RWMutex
	nodeByID  map[string]*domain.WBSNode
	nodeOrder []string
	defByID   map[string]*domain.BoqDefinition
}

// NewBoqService returns the formula binder for ws. Call Load before use.
func NewBoqService(
	ws *domain.Workspace,
	boq repository.BoqRepo,
	nodes repository.WBSNodeRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) BoqService {
	return &boqService{
		workspace: ws,
		boq:       boq,
		nodes:     nodes,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		gate:      newWriteGate(),
		nodeByID:  make(map[string]*domain.WBSNode),
		defByID:   make(map[string]*domain.BoqDefinition),
	}
}

func (s *boqService) Load(ctx context.Context) error {
	nodes, err := s.nodes.ListByWorkspace(ctx, s.workspace.ID)
	if err != nil {
		return storeErr("load wbs nodes", "workspace", s.workspace.ID, err)
	}
	defs, err := s.boq.ListDefinitions(ctx, s.workspace.ID)
	if err != nil {
		return storeErr("load boq definitions", "workspace", s.workspace.ID, err)
	}
	s.gate.invalidate()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodeByID = make(map[string]*domain.WBSNode, len(nodes))
	s.nodeOrder = s.nodeOrder[:0]
	for _, n := range nodes {
		s.nodeByID[n.ID] = n
		s.nodeOrder = append(s.nodeOrder, n.ID)
	}
	s.defByID = make(map[string]*domain.BoqDefinition, len(defs))
	for _, d := range defs {
		s.defByID[d.ID] = d
	}
	return nil
}

// Definitions returns copies ordered by code.
func (s *boqService) Definitions() []*domain.BoqDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.BoqDefinition, 0, len(s.defByID))
	for _, d := range s.defByID {
		out = append(out, d.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *boqService) Definition(id string) (*domain.BoqDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.defByID[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "boq definition", ID: id}
	}
	return d.Clone(), nil
}

func (s *boqService) ResolveDefinition(ref string) (*domain.BoqDefinition, error) {
	if d, err := s.Definition(ref); err == nil {
		return d, nil
	}
	for _, d := range s.Definitions() {
		if sameRef(d.Code, ref) {
			return d, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: "boq definition", ID: ref}
}

func (s *boqService) Node(id string) (*domain.WBSNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodeByID[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "wbs node", ID: id}
	}
	return n.Clone(), nil
}

// LinkedNodes returns every node referencing the definition, in store order.
func (s *boqService) LinkedNodes(definitionID string) []*domain.WBSNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.WBSNode
	for _, id := range s.nodeOrder {
		n := s.nodeByID[id]
		if n.DefinitionID != nil && *n.DefinitionID == definitionID {
			out = append(out, n.Clone())
		}
	}
	return out
}

// CreateAndLink creates an empty definition named after the node and links
// the node to it. A node that is already linked must be unlinked first.
func (s *boqService) CreateAndLink(ctx context.Context, nodeID string) (def *domain.BoqDefinition, err error) {
	done := track(ctx, s.observer, "boq-create-and-link", map[string]any{"node": nodeID})
	defer func() { done(err) }()

	t := s.gate.acquire("node:" + nodeID)
	defer t.release()

	s.mu.Lock()
	n, ok := s.nodeByID[nodeID]
	if !ok {
		s.mu.Unlock()
		return nil, &domain.NotFoundError{Kind: "wbs node", ID: nodeID}
	}
	if n.DefinitionID != nil {
		s.mu.Unlock()
		return nil, &domain.LinkConflictError{NodeID: nodeID, DefinitionID: *n.DefinitionID}
	}
	now := time.Now().UTC()
	def = &domain.BoqDefinition{
		ID:          uuid.New().String(),
		WorkspaceID: s.workspace.ID,
		Code:        "BOQ-" + n.Code,
		Name:        "Volume " + n.DisplayName(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.defByID[def.ID] = def
	n.DefinitionID = strPtr(def.ID)
	snapshot := def.Clone()
	s.mu.Unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteBoqRepo(tx).CreateDefinition(ctx, snapshot); err != nil {
			return err
		}
		return repository.NewSQLiteWBSNodeRepo(tx).SetDefinition(ctx, nodeID, &snapshot.ID)
	})
	if err != nil {
		s.compensate(t, func() {
			delete(s.defByID, snapshot.ID)
			n.DefinitionID = nil
		})
		return nil, persistFailed("create and link boq definition", err, nil)
	}
	return snapshot.Clone(), nil
}

// LinkExisting points the node at an existing definition. Several nodes may
// share one definition; the formula is not checked.
func (s *boqService) LinkExisting(ctx context.Context, nodeID, definitionID string) (err error) {
	done := track(ctx, s.observer, "boq-link", map[string]any{"node": nodeID, "definition": definitionID})
	defer func() { done(err) }()

	t := s.gate.acquire("node:" + nodeID)
	defer t.release()

	s.mu.Lock()
	n, ok := s.nodeByID[nodeID]
	if !ok {
		s.mu.Unlock()
		return &domain.NotFoundError{Kind: "wbs node", ID: nodeID}
	}
	if _, ok := s.defByID[definitionID]; !ok {
		s.mu.Unlock()
		return &domain.NotFoundError{Kind: "boq definition", ID: definitionID}
	}
	if n.DefinitionID != nil {
		current := *n.DefinitionID
		s.mu.Unlock()
		if current == definitionID {
			return nil
		}
		return &domain.LinkConflictError{NodeID: nodeID, DefinitionID: current}
	}
	n.DefinitionID = strPtr(definitionID)
	s.mu.Unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteWBSNodeRepo(tx).SetDefinition(ctx, nodeID, &definitionID)
	})
	if err != nil {
		s.compensate(t, func() { n.DefinitionID = nil })
		return persistFailed("link boq definition", err, nil)
	}
	return nil
}

// Unlink clears the node's definition reference. The definition itself is
// kept. Unlinking an unlinked node is a no-op.
func (s *boqService) Unlink(ctx context.Context, nodeID string) (err error) {
	done := track(ctx, s.observer, "boq-unlink", map[string]any{"node": nodeID})
	defer func() { done(err) }()

	t := s.gate.acquire("node:" + nodeID)
	defer t.release()

	s.mu.Lock()
	n, ok := s.nodeByID[nodeID]
	if !ok {
		s.mu.Unlock()
		return &domain.NotFoundError{Kind: "wbs node", ID: nodeID}
	}
	if n.DefinitionID == nil {
		s.mu.Unlock()
		return nil
	}
	prev := *n.DefinitionID
	n.DefinitionID = nil
	s.mu.Unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteWBSNodeRepo(tx).SetDefinition(ctx, nodeID, nil)
	})
	if err != nil {
		s.compensate(t, func() { n.DefinitionID = strPtr(prev) })
		return persistFailed("unlink boq definition", err, nil)
	}
	return nil
}

func (s *boqService) SetFormula(ctx context.Context, definitionID, formula string) (def *domain.BoqDefinition, err error) {
	done := track(ctx, s.observer, "boq-set-formula", map[string]any{"definition": definitionID})
	defer func() { done(err) }()

	return s.editDefinition(ctx, definitionID, "update boq formula",
		func(d *domain.BoqDefinition) error {
			d.Formula = strings.TrimSpace(formula)
			return nil
		},
		func(ctx context.Context, repo *repository.SQLiteBoqRepo, d *domain.BoqDefinition) error {
			return repo.UpdateDefinition(ctx, d)
		})
}

func (s *boqService) AddElement(ctx context.Context, definitionID string, e domain.BoqElement) (el *domain.BoqElement, err error) {
	done := track(ctx, s.observer, "boq-add-element", map[string]any{"definition": definitionID, "symbol": e.Symbol})
	defer func() { done(err) }()

	if strings.TrimSpace(e.Name) == "" && strings.TrimSpace(e.Symbol) == "" {
		return nil, fmt.Errorf("element needs a name or a symbol")
	}
	e.ID = uuid.New().String()
	e.DefinitionID = definitionID

	d, err := s.editDefinition(ctx, definitionID, "create boq element",
		func(d *domain.BoqDefinition) error {
			e.SortOrder = nextSortOrder(d.Elements)
			d.Elements = append(d.Elements, e)
			return nil
		},
		func(ctx context.Context, repo *repository.SQLiteBoqRepo, _ *domain.BoqDefinition) error {
			return repo.CreateElement(ctx, &e)
		})
	if err != nil {
		return nil, err
	}
	out := d.Elements[d.ElementIndex(e.ID)]
	return &out, nil
}

func (s *boqService) UpdateElement(ctx context.Context, definitionID, elementID string, patch domain.ElementPatch) (el *domain.BoqElement, err error) {
	done := track(ctx, s.observer, "boq-update-element", map[string]any{"definition": definitionID, "element": elementID})
	defer func() { done(err) }()

	var updated domain.BoqElement
	_, err = s.editDefinition(ctx, definitionID, "update boq element",
		func(d *domain.BoqDefinition) error {
			i := d.ElementIndex(elementID)
			if i < 0 {
				return &domain.NotFoundError{Kind: "boq element", ID: elementID}
			}
			updated = patch.Apply(d.Elements[i])
			d.Elements[i] = updated
			return nil
		},
		func(ctx context.Context, repo *repository.SQLiteBoqRepo, _ *domain.BoqDefinition) error {
			return repo.UpdateElement(ctx, &updated)
		})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *boqService) RemoveElement(ctx context.Context, definitionID, elementID string) (err error) {
	done := track(ctx, s.observer, "boq-remove-element", map[string]any{"definition": definitionID, "element": elementID})
	defer func() { done(err) }()

	_, err = s.editDefinition(ctx, definitionID, "delete boq element",
		func(d *domain.BoqDefinition) error {
			i := d.ElementIndex(elementID)
			if i < 0 {
				return &domain.NotFoundError{Kind: "boq element", ID: elementID}
			}
			d.Elements = append(d.Elements[:i], d.Elements[i+1:]...)
			return nil
		},
		func(ctx context.Context, repo *repository.SQLiteBoqRepo, _ *domain.BoqDefinition) error {
			return repo.DeleteElement(ctx, elementID)
		})
	return err
}

// editDefinition applies mutate to a copy of the definition, swaps the copy
// in, then runs persist. A mutate error leaves state untouched; a persist
// error restores the pre-edit definition.
func (s *boqService) editDefinition(
	ctx context.Context,
	definitionID, op string,
	mutate func(d *domain.BoqDefinition) error,
	persist func(ctx context.Context, repo *repository.SQLiteBoqRepo, d *domain.BoqDefinition) error,
) (*domain.BoqDefinition, error) {
	t := s.gate.acquire("definition:" + definitionID)
	defer t.release()

	s.mu.Lock()
	prev, ok := s.defByID[definitionID]
	if !ok {
		s.mu.Unlock()
		return nil, &domain.NotFoundError{Kind: "boq definition", ID: definitionID}
	}
	next := prev.Clone()
	if err := mutate(next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	s.defByID[definitionID] = next
	snapshot := next.Clone()
	s.mu.Unlock()

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return persist(ctx, repository.NewSQLiteBoqRepo(tx), snapshot)
	})
	if err != nil {
		s.compensate(t, func() { s.defByID[definitionID] = prev })
		return nil, persistFailed(op, err, nil)
	}
	return snapshot, nil
}

// compensate runs undo under the state lock unless the ticket went stale.
func (s *boqService) compensate(t *ticket, undo func()) {
	if !t.current() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	undo()
}

func nextSortOrder(elements []domain.BoqElement) int {
	next := 0
	for _, e := range elements {
		if e.SortOrder >= next {
			next = e.SortOrder + 1
		}
	}
	return next
}
