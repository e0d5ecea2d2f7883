package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/pricing"
	"github.com/adidayastudio/from-adidaya-sub005/internal/wbs"
	"github.com/google/uuid"
)

// Plan is what an import will insert into a workspace.
type Plan struct {
	Nodes     []*domain.WBSNode
	Classes   []*domain.PricingClass
	Locations []*domain.LocationFactor
}

// Convert turns a validated schema into records for workspaceID. existing is
// the workspace's current node arena; child codes continue from the live
// child counts and every code is checked against existing codes and the
// catalog exactly as interactive edits are. existingClasses is used to
// reject class codes already taken and to continue the column order.
//
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(
	schema *ImportSchema,
	workspaceID string,
	existing []*domain.WBSNode,
	existingClasses []*domain.PricingClass,
	catalog *domain.DisciplineCatalog,
) (*Plan, error) {
	now := time.Now().UTC()
	plan := &Plan{}

	roots := wbs.Build(existing)
	byID := wbs.Index(wbs.Flatten(roots))
	codes := wbs.Codes(existing)
	refs := make(map[string]*domain.WBSNode, len(schema.Nodes))

	for _, in := range schema.Nodes {
		n := &domain.WBSNode{
			ID:          uuid.New().String(),
			WorkspaceID: workspaceID,
			NameEn:      strings.TrimSpace(in.Name),
			NameID:      strings.TrimSpace(in.NameID),
			Description: in.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		exempt := ""
		if in.ParentRef != nil && *in.ParentRef != "" {
			parent := refs[*in.ParentRef]
			id := parent.ID
			n.ParentID = &id
			n.Depth = parent.Depth + 1
			n.SortOrder = len(parent.Children)
			n.Code = wbs.NextChildCode(parent)
			parent.Children = append(parent.Children, n)
		} else {
			if in.Discipline != "" {
				d, _ := catalog.Lookup(in.Discipline)
				n.Code = wbs.NextRootCode(d)
				n.NameEn = domain.CoalesceStr(n.NameEn, d.NameEn)
				n.NameID = domain.CoalesceStr(n.NameID, d.NameID)
				exempt = d.Code
			} else {
				n.Code = strings.ToUpper(strings.TrimSpace(in.Code))
			}
			n.SortOrder = len(roots)
			roots = append(roots, n)
		}

		if err := wbs.ValidateCode(n.Code, codes, catalog, exempt); err != nil {
			return nil, fmt.Errorf("node %q: %w", in.Ref, err)
		}
		codes = append(codes, n.Code)
		refs[in.Ref] = n
		byID[n.ID] = n
		plan.Nodes = append(plan.Nodes, n)
	}

	// Stored records carry no children.
	for i, n := range plan.Nodes {
		c := *n
		c.Children = nil
		plan.Nodes[i] = &c
	}

	rootCodes := wbs.RootCodes(roots)
	taken := make(map[string]bool, len(existingClasses))
	for _, c := range existingClasses {
		taken[strings.ToUpper(c.ClassCode)] = true
	}
	for i, in := range schema.PricingClasses {
		code := strings.ToUpper(strings.TrimSpace(in.Code))
		if taken[code] {
			return nil, fmt.Errorf("pricing class %s already exists", code)
		}
		class := &domain.PricingClass{
			ID:          uuid.New().String(),
			WorkspaceID: workspaceID,
			ClassCode:   code,
			FinishLevel: strings.TrimSpace(in.Finish),
			SortOrder:   len(existingClasses) + i,
			Values:      make(map[string]domain.CostEntry, len(in.Costs)),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for key, cost := range in.Costs {
			nodeCode, err := costCode(key, refs, byID, codes)
			if err != nil {
				return nil, fmt.Errorf("pricing class %s: %w", code, err)
			}
			pricing.SetCost(class, nodeCode, cost)
		}
		pricing.RecomputePercentages(class, rootCodes)
		plan.Classes = append(plan.Classes, class)
	}

	for _, in := range schema.Locations {
		l := &domain.LocationFactor{
			ID:               uuid.New().String(),
			WorkspaceID:      workspaceID,
			Code:             strings.TrimSpace(in.Code),
			Province:         strings.TrimSpace(in.Province),
			RegionalFactor:   domain.Float64FromPtrWithDefault(1, in.Regional),
			DifficultyFactor: domain.Float64FromPtrWithDefault(1, in.Difficulty),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if in.City != nil && strings.TrimSpace(*in.City) != "" {
			city := strings.TrimSpace(*in.City)
			l.City = &city
		}
		plan.Locations = append(plan.Locations, l)
	}

	return plan, nil
}

// costCode maps a cost key to a WBS code: a ref from the file wins over an
// existing node code.
func costCode(key string, refs map[string]*domain.WBSNode, byID map[string]*domain.WBSNode, codes []string) (string, error) {
	if n, ok := refs[key]; ok {
		return n.Code, nil
	}
	for _, c := range codes {
		if strings.EqualFold(c, key) {
			return c, nil
		}
	}
	if n, ok := byID[key]; ok {
		return n.Code, nil
	}
	return "", fmt.Errorf("cost key %q matches no node ref or code", key)
}
