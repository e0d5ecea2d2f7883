package repository

import (
	"context"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
)

// Every List method below is scoped to one workspace; no query crosses
// workspace boundaries.

type WorkspaceRepo interface {
	Create(ctx context.Context, w *domain.Workspace) error
	GetByID(ctx context.Context, id string) (*domain.Workspace, error)
	GetByCode(ctx context.Context, code string) (*domain.Workspace, error)
	List(ctx context.Context) ([]*domain.Workspace, error)
	Delete(ctx context.Context, id string) error
}

type WBSNodeRepo interface {
	Create(ctx context.Context, n *domain.WBSNode) error
	GetByID(ctx context.Context, id string) (*domain.WBSNode, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.WBSNode, error)
	ListByDefinition(ctx context.Context, definitionID string) ([]*domain.WBSNode, error)
	Update(ctx context.Context, n *domain.WBSNode) error
	SetDefinition(ctx context.Context, nodeID string, definitionID *string) error
	// Delete removes the node; descendants go with it via ON DELETE CASCADE.
	Delete(ctx context.Context, id string) error
}

type PricingClassRepo interface {
	Create(ctx context.Context, c *domain.PricingClass) error
	GetByID(ctx context.Context, id string) (*domain.PricingClass, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.PricingClass, error)
	Update(ctx context.Context, c *domain.PricingClass) error
	Delete(ctx context.Context, id string) error
}

type BoqRepo interface {
	CreateDefinition(ctx context.Context, d *domain.BoqDefinition) error
	// GetDefinition returns the definition with its elements in order.
	GetDefinition(ctx context.Context, id string) (*domain.BoqDefinition, error)
	ListDefinitions(ctx context.Context, workspaceID string) ([]*domain.BoqDefinition, error)
	UpdateDefinition(ctx context.Context, d *domain.BoqDefinition) error
	DeleteDefinition(ctx context.Context, id string) error

	CreateElement(ctx context.Context, e *domain.BoqElement) error
	UpdateElement(ctx context.Context, e *domain.BoqElement) error
	DeleteElement(ctx context.Context, id string) error
}

type LocationFactorRepo interface {
	Create(ctx context.Context, l *domain.LocationFactor) error
	GetByID(ctx context.Context, id string) (*domain.LocationFactor, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.LocationFactor, error)
	Update(ctx context.Context, l *domain.LocationFactor) error
	Delete(ctx context.Context, id string) error
}
