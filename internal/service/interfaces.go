package service

import (
	"context"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/importer"
	"github.com/adidayastudio/from-adidaya-sub005/internal/location"
	"github.com/adidayastudio/from-adidaya-sub005/internal/wbs"
)

type WorkspaceService interface {
	Create(ctx context.Context, code, name string) (*domain.Workspace, error)
	List(ctx context.Context) ([]*domain.Workspace, error)
	// Resolve accepts a workspace code (case-insensitive) or id.
	Resolve(ctx context.Context, ref string) (*domain.Workspace, error)
	Delete(ctx context.Context, ref string) error
}

// WBSEditor owns the flat node arena of one workspace. The nested tree and
// every view are derived from the arena after each mutation. On a failed
// write the arena is reloaded from the store.
type WBSEditor interface {
	Load(ctx context.Context) error
	Workspace() *domain.Workspace
	Catalog() *domain.DisciplineCatalog

	Tree() []*domain.WBSNode
	Flat() []*domain.WBSNode
	RootCodes() []string
	View(family domain.ScreenFamily, mode domain.ViewMode, expanded wbs.ExpandedSet, query string) []*domain.WBSNode
	// Resolve accepts a node id or code (case-insensitive).
	Resolve(ref string) (*domain.WBSNode, error)

	AddRoot(ctx context.Context, disciplineCode string) (*domain.WBSNode, error)
	AddCustomRoot(ctx context.Context, code, name string) (*domain.WBSNode, error)
	AddChild(ctx context.Context, parentID, name string) (*domain.WBSNode, error)
	Rename(ctx context.Context, id string, nameEn, nameID *string) (*domain.WBSNode, error)
	// Delete removes the node and its whole subtree and returns the removed ids.
	Delete(ctx context.Context, id string) ([]string, error)
}

// CostEditor holds the cost matrix of one workspace. SetCost edits are local
// until Save; a failed Save reverts to the last saved matrix.
type CostEditor interface {
	Load(ctx context.Context) error
	Classes() []*domain.PricingClass
	Tree() []*domain.WBSNode
	RootCodes() []string
	// ResolveClass accepts a class id or class code (case-insensitive).
	ResolveClass(ref string) (*domain.PricingClass, error)

	Cell(classID, code string) domain.CostEntry
	GrandTotal(classID string) float64
	LivePercentage(classID, code string) float64
	Dirty() []string

	SetCost(classID, code string, cost float64) error
	Rollup(classID string) error
	Save(ctx context.Context) error
	Revert()
	AddClass(ctx context.Context, classCode, finishLevel string) (*domain.PricingClass, error)
}

// BoqService binds WBS nodes to BOQ definitions and edits definitions. A
// failed write reverts the local definition or link to its pre-edit state.
type BoqService interface {
	Load(ctx context.Context) error
	Definitions() []*domain.BoqDefinition
	Definition(id string) (*domain.BoqDefinition, error)
	// ResolveDefinition accepts a definition id or code (case-insensitive).
	ResolveDefinition(ref string) (*domain.BoqDefinition, error)
	Node(id string) (*domain.WBSNode, error)
	LinkedNodes(definitionID string) []*domain.WBSNode

	CreateAndLink(ctx context.Context, nodeID string) (*domain.BoqDefinition, error)
	// LinkExisting is a no-op when the node already uses definitionID. A node
	// linked to another definition yields a *domain.LinkConflictError; Unlink
	// it first to re-point.
	LinkExisting(ctx context.Context, nodeID, definitionID string) error
	Unlink(ctx context.Context, nodeID string) error
	SetFormula(ctx context.Context, definitionID, formula string) (*domain.BoqDefinition, error)
	AddElement(ctx context.Context, definitionID string, e domain.BoqElement) (*domain.BoqElement, error)
	UpdateElement(ctx context.Context, definitionID, elementID string, patch domain.ElementPatch) (*domain.BoqElement, error)
	RemoveElement(ctx context.Context, definitionID, elementID string) error
}

// LocationService keeps the location factor rows of one workspace. A failed
// write reverts the local row.
type LocationService interface {
	Load(ctx context.Context) error
	Records() []*domain.LocationFactor
	Groups(key domain.LocationSortKey, dir domain.SortDirection) []location.Group
	// Resolve accepts a row id or code (case-insensitive).
	Resolve(ref string) (*domain.LocationFactor, error)

	Add(ctx context.Context, l domain.LocationFactor) (*domain.LocationFactor, error)
	Update(ctx context.Context, id string, patch domain.LocationPatch) (*domain.LocationFactor, error)
	Remove(ctx context.Context, id string) error
}

// ImportResult counts the records an import inserted.
type ImportResult struct {
	NodeCount     int
	ClassCount    int
	LocationCount int
}

// ImportService seeds a workspace from a file. Editors opened before an
// import must be reloaded to see its records.
type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	Import(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
