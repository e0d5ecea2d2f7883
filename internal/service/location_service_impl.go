package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adidayastudio/from-adidaya-sub005/internal/db"
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/location"
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
	"github.com/google/uuid"
)

type locationService struct {
	workspace *domain.Workspace
	factors   repository.LocationFactorRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	gate      *writeGate

	mu      sync.RWMutex
	records []*domain.LocationFactor
}

func NewLocationService(
	ws *domain.Workspace,
	factors repository.LocationFactorRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) LocationService {
	return &locationService{
		workspace: ws,
		factors:   factors,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		gate:      newWriteGate(),
	}
}

func (s *locationService) Load(ctx context.Context) error {
	records, err := s.factors.ListByWorkspace(ctx, s.workspace.ID)
	if err != nil {
		return storeErr("load location factors", "workspace", s.workspace.ID, err)
	}
	s.gate.invalidate()

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

func (s *locationService) Records() []*domain.LocationFactor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.LocationFactor, 0, len(s.records))
	for _, r := range s.records {
		c := *r
		out = append(out, &c)
	}
	return out
}

func (s *locationService) Groups(key domain.LocationSortKey, dir domain.SortDirection) []location.Group {
	return location.Sort(location.GroupRecords(s.Records()), key, dir)
}

func (s *locationService) Resolve(ref string) (*domain.LocationFactor, error) {
	for _, r := range s.Records() {
		if r.ID == ref || (r.Code != "" && sameRef(r.Code, ref)) {
			return r, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: "location factor", ID: ref}
}

func (s *locationService) indexLocked(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func validateFactor(l *domain.LocationFactor) error {
	if strings.TrimSpace(l.Province) == "" {
		return fmt.Errorf("province is required")
	}
	if l.RegionalFactor < 0 || l.DifficultyFactor < 0 {
		return fmt.Errorf("factors must not be negative")
	}
	return nil
}

// Add stores a new row. A second province default row for the same province
// is accepted; grouping shows the first one.
func (s *locationService) Add(ctx context.Context, l domain.LocationFactor) (out *domain.LocationFactor, err error) {
	done := track(ctx, s.observer, "location-add", map[string]any{"province": l.Province, "city": l.CityName()})
	defer func() { done(err) }()

	if err := validateFactor(&l); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	l.ID = uuid.New().String()
	l.WorkspaceID = s.workspace.ID
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.City != nil && strings.TrimSpace(*l.City) == "" {
		l.City = nil
	}

	t := s.gate.acquire("location:" + l.ID)
	defer t.release()

	row := &l
	s.mu.Lock()
	s.records = append(s.records, row)
	s.mu.Unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteLocationFactorRepo(tx).Create(ctx, &l)
	})
	if err != nil {
		s.compensate(t, func() {
			if i := s.indexLocked(l.ID); i >= 0 {
				s.records = append(s.records[:i], s.records[i+1:]...)
			}
		})
		return nil, persistFailed("create location factor", err, nil)
	}
	c := l
	return &c, nil
}

func (s *locationService) Update(ctx context.Context, id string, patch domain.LocationPatch) (out *domain.LocationFactor, err error) {
	done := track(ctx, s.observer, "location-update", map[string]any{"id": id})
	defer func() { done(err) }()

	t := s.gate.acquire("location:" + id)
	defer t.release()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, &domain.NotFoundError{Kind: "location factor", ID: id}
	}
	prev := s.records[i]
	next := patch.Apply(*prev)
	if err := validateFactor(&next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	s.records[i] = &next
	s.mu.Unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteLocationFactorRepo(tx).Update(ctx, &next)
	})
	if err != nil {
		s.compensate(t, func() {
			if j := s.indexLocked(id); j >= 0 {
				s.records[j] = prev
			}
		})
		return nil, persistFailed("update location factor", err, nil)
	}
	c := next
	return &c, nil
}

func (s *locationService) Remove(ctx context.Context, id string) (err error) {
	done := track(ctx, s.observer, "location-remove", map[string]any{"id": id})
	defer func() { done(err) }()

	t := s.gate.acquire("location:" + id)
	defer t.release()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return &domain.NotFoundError{Kind: "location factor", ID: id}
	}
	prev := s.records[i]
	s.records = append(s.records[:i:i], s.records[i+1:]...)
	s.mu.Unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteLocationFactorRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		s.compensate(t, func() {
			// Reinsert at the old position so grouping order is unchanged.
			if i > len(s.records) {
				i = len(s.records)
			}
			s.records = append(s.records[:i:i], append([]*domain.LocationFactor{prev}, s.records[i:]...)...)
		})
		return persistFailed("delete location factor", err, nil)
	}
	return nil
}

func (s *locationService) compensate(t *ticket, undo func()) {
	if !t.current() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	undo()
}
