package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
	"github.com/google/uuid"
)

type workspaceService struct {
	workspaces repository.WorkspaceRepo
	observer   UseCaseObserver
}

func NewWorkspaceService(workspaces repository.WorkspaceRepo, observers ...UseCaseObserver) WorkspaceService {
	return &workspaceService{workspaces: workspaces, observer: useCaseObserverOrNoop(observers)}
}

func (s *workspaceService) Create(ctx context.Context, code, name string) (ws *domain.Workspace, err error) {
	done := track(ctx, s.observer, "workspace-create", map[string]any{"code": code})
	defer func() { done(err) }()

	now := time.Now().UTC()
	ws = &domain.Workspace{
		ID:        uuid.New().String(),
		Code:      strings.ToUpper(strings.TrimSpace(code)),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ws.ValidateCode(); err != nil {
		return nil, err
	}
	if ws.Name == "" {
		ws.Name = ws.Code
	}
	if _, getErr := s.workspaces.GetByCode(ctx, ws.Code); getErr == nil {
		return nil, fmt.Errorf("workspace %s already exists", ws.Code)
	} else if !errors.Is(getErr, repository.ErrNotFound) {
		return nil, storeErr("look up workspace", "workspace", ws.Code, getErr)
	}
	if err := s.workspaces.Create(ctx, ws); err != nil {
		return nil, storeErr("create workspace", "workspace", ws.Code, err)
	}
	return ws, nil
}

func (s *workspaceService) List(ctx context.Context) ([]*domain.Workspace, error) {
	list, err := s.workspaces.List(ctx)
	if err != nil {
		return nil, storeErr("list workspaces", "workspace", "", err)
	}
	return list, nil
}

func (s *workspaceService) Resolve(ctx context.Context, ref string) (*domain.Workspace, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("no workspace selected (use --workspace or set ADIDAYA_WORKSPACE)")
	}
	ws, err := s.workspaces.GetByCode(ctx, ref)
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr("look up workspace", "workspace", ref, err)
	}
	ws, err = s.workspaces.GetByID(ctx, ref)
	if err != nil {
		return nil, storeErr("look up workspace", "workspace", ref, err)
	}
	return ws, nil
}

func (s *workspaceService) Delete(ctx context.Context, ref string) (err error) {
	done := track(ctx, s.observer, "workspace-delete", map[string]any{"ref": ref})
	defer func() { done(err) }()

	ws, err := s.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.workspaces.Delete(ctx, ws.ID); err != nil {
		return storeErr("delete workspace", "workspace", ws.ID, err)
	}
	return nil
}
