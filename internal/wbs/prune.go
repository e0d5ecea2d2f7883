package wbs

import (
	"strings"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
)

// Unbounded is returned by MaxDepth when a view shows every depth.
const Unbounded = -1

// MaxDepth returns the deepest visible depth for a screen family and mode.
func MaxDepth(family domain.ScreenFamily, mode domain.ViewMode) int {
	switch family {
	case domain.FamilyBallpark:
		if mode == domain.ModeSummary {
			return 0
		}
		return 1
	case domain.FamilyDetail:
		if mode == domain.ModeSummary {
			return 1
		}
		return Unbounded
	default:
		return Unbounded
	}
}

// ExpandedSet holds the codes of expanded nodes. Collapsing a node only
// removes that code, so descendants keep their own expansion state.
type ExpandedSet map[string]bool

// NewExpandedSet returns a set containing codes.
func NewExpandedSet(codes ...string) ExpandedSet {
	s := make(ExpandedSet, len(codes))
	for _, c := range codes {
		s[c] = true
	}
	return s
}

// Has reports whether code is expanded.
func (s ExpandedSet) Has(code string) bool { return s[code] }

// Expand adds code.
func (s ExpandedSet) Expand(code string) { s[code] = true }

// Collapse removes code.
func (s ExpandedSet) Collapse(code string) { delete(s, code) }

// Toggle flips membership of code and returns the new state.
func (s ExpandedSet) Toggle(code string) bool {
	if s[code] {
		delete(s, code)
		return false
	}
	s[code] = true
	return true
}

// Visible returns the subset of the pre-order flat list shown for the given
// family and mode. Ballpark and detail views apply their depth limit; the
// explorer shows a node below depth 0 only when every ancestor's code is in
// expanded. Input order is preserved.
func Visible(flat []*domain.WBSNode, family domain.ScreenFamily, mode domain.ViewMode, expanded ExpandedSet) []*domain.WBSNode {
	if family != domain.FamilyExplorer {
		limit := MaxDepth(family, mode)
		out := make([]*domain.WBSNode, 0, len(flat))
		for _, n := range flat {
			if limit == Unbounded || n.Depth <= limit {
				out = append(out, n)
			}
		}
		return out
	}

	byID := Index(flat)
	out := make([]*domain.WBSNode, 0, len(flat))
	for _, n := range flat {
		if ancestorsExpanded(n, byID, expanded) {
			out = append(out, n)
		}
	}
	return out
}

// ancestorsExpanded walks the parent chain of n. Depth-0 nodes and nodes
// whose parent is outside the list are always visible.
func ancestorsExpanded(n *domain.WBSNode, byID map[string]*domain.WBSNode, expanded ExpandedSet) bool {
	steps := 0
	for cur := n; !cur.IsRoot() && steps <= len(byID); steps++ {
		parent, ok := byID[*cur.ParentID]
		if !ok || parent == cur {
			return true
		}
		if !expanded.Has(parent.Code) {
			return false
		}
		cur = parent
	}
	return true
}

// Search returns every node whose code or name contains query,
// case-insensitively, in list order. Expansion state is ignored. An empty
// query returns nil.
func Search(flat []*domain.WBSNode, query string) []*domain.WBSNode {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []*domain.WBSNode
	for _, n := range flat {
		if strings.Contains(strings.ToLower(n.Code), q) ||
			strings.Contains(strings.ToLower(n.NameEn), q) ||
			strings.Contains(strings.ToLower(n.NameID), q) {
			out = append(out, n)
		}
	}
	return out
}

// View applies Search when query is non-empty and Visible otherwise.
func View(flat []*domain.WBSNode, family domain.ScreenFamily, mode domain.ViewMode, expanded ExpandedSet, query string) []*domain.WBSNode {
	if strings.TrimSpace(query) != "" {
		return Search(flat, query)
	}
	return Visible(flat, family, mode, expanded)
}
