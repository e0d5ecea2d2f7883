package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/google/uuid"
)

var testCodeCounter atomic.Int64

// NewTestWorkspace returns a workspace with a unique code when code is empty.
func NewTestWorkspace(code string) *domain.Workspace {
	if code == "" {
		code = fmt.Sprintf("WS%03d", testCodeCounter.Add(1))
	}
	now := time.Now().UTC()
	return &domain.Workspace{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      code + " workspace",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WBS node options
type NodeOption func(*domain.WBSNode)

func WithParent(p *domain.WBSNode) NodeOption {
	return func(n *domain.WBSNode) {
		id := p.ID
		n.ParentID = &id
		n.Depth = p.Depth + 1
	}
}

func WithNameID(name string) NodeOption {
	return func(n *domain.WBSNode) {
		n.NameID = name
	}
}

func WithSortOrder(i int) NodeOption {
	return func(n *domain.WBSNode) {
		n.SortOrder = i
	}
}

func WithDefinition(id string) NodeOption {
	return func(n *domain.WBSNode) {
		n.DefinitionID = &id
	}
}

func NewTestNode(workspaceID, code, name string, opts ...NodeOption) *domain.WBSNode {
	now := time.Now().UTC()
	n := &domain.WBSNode{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		Code:        code,
		NameEn:      name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Pricing class options
type ClassOption func(*domain.PricingClass)

func WithCost(code string, cost float64) ClassOption {
	return func(c *domain.PricingClass) {
		e := c.Values[code]
		e.Cost = cost
		c.Values[code] = e
	}
}

func WithClassSortOrder(i int) ClassOption {
	return func(c *domain.PricingClass) {
		c.SortOrder = i
	}
}

func NewTestPricingClass(workspaceID, classCode string, opts ...ClassOption) *domain.PricingClass {
	now := time.Now().UTC()
	c := &domain.PricingClass{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		ClassCode:   classCode,
		FinishLevel: "standard",
		Values:      make(map[string]domain.CostEntry),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BOQ definition options
type DefinitionOption func(*domain.BoqDefinition)

func WithFormula(f string) DefinitionOption {
	return func(d *domain.BoqDefinition) {
		d.Formula = f
	}
}

func WithElement(name, symbol, unit string) DefinitionOption {
	return func(d *domain.BoqDefinition) {
		d.Elements = append(d.Elements, domain.BoqElement{
			ID:           uuid.New().String(),
			DefinitionID: d.ID,
			Name:         name,
			Symbol:       symbol,
			Unit:         unit,
			SortOrder:    len(d.Elements),
		})
	}
}

func NewTestDefinition(workspaceID, code string, opts ...DefinitionOption) *domain.BoqDefinition {
	now := time.Now().UTC()
	d := &domain.BoqDefinition{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		Code:        code,
		Name:        "Volume " + code,
		Unit:        "m3",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewTestLocation returns a location factor. An empty city makes it the
// province default row.
func NewTestLocation(workspaceID, province, city string, regional, difficulty float64) *domain.LocationFactor {
	now := time.Now().UTC()
	l := &domain.LocationFactor{
		ID:               uuid.New().String(),
		WorkspaceID:      workspaceID,
		Province:         province,
		RegionalFactor:   regional,
		DifficultyFactor: difficulty,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if city != "" {
		l.City = &city
	}
	return l
}
