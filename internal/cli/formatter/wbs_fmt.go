package formatter

import (
	"strings"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/wbs"
)

// WBSTreeItems converts a pre-order list of visible nodes into tree rows.
// Codes are tinted with the color of their root's discipline. When expanded
// is non-nil, nodes with children get an open/closed marker.
func WBSTreeItems(visible []*domain.WBSNode, catalog *domain.DisciplineCatalog, expanded wbs.ExpandedSet, hasChildren map[string]bool) []TreeItem {
	items := make([]TreeItem, 0, len(visible))
	for i, n := range visible {
		label := DisciplineStyle(rootColor(n.Code, catalog)).Render(n.Code) + "  " + n.DisplayName()
		if n.NameEn != "" && n.NameID != "" && n.NameID != n.NameEn {
			label += " " + Dim("/ "+n.NameID)
		}
		item := TreeItem{Label: label, Level: n.Depth, IsLast: lastSibling(visible, i)}
		if expanded != nil && hasChildren[n.ID] {
			open := expanded.Has(n.Code)
			item.Open = &open
		}
		if n.DefinitionID != nil {
			item.Detail = "BOQ"
		}
		items = append(items, item)
	}
	return items
}

// FormatWBSTree renders the visible nodes as a tree.
func FormatWBSTree(visible []*domain.WBSNode, catalog *domain.DisciplineCatalog) string {
	if len(visible) == 0 {
		return Dim("No WBS nodes. Add a root with: adidaya wbs add-root --discipline S") + "\n"
	}
	return RenderTree(WBSTreeItems(visible, catalog, nil, nil))
}

// lastSibling reports whether no later row in the list shares the node's
// parent before the list climbs above the node's depth.
func lastSibling(visible []*domain.WBSNode, i int) bool {
	n := visible[i]
	for _, m := range visible[i+1:] {
		if m.Depth < n.Depth {
			return true
		}
		if m.Depth == n.Depth {
			return !sameParent(m, n)
		}
	}
	return true
}

func sameParent(a, b *domain.WBSNode) bool {
	if a.IsRoot() || b.IsRoot() {
		return a.IsRoot() && b.IsRoot()
	}
	return *a.ParentID == *b.ParentID
}

func rootColor(code string, catalog *domain.DisciplineCatalog) string {
	root, _, _ := strings.Cut(code, ".")
	if d, ok := catalog.Lookup(root); ok {
		return d.Color
	}
	return ""
}

// FormatDisciplines lists the catalog.
func FormatDisciplines(catalog *domain.DisciplineCatalog) string {
	rows := make([][]string, 0)
	for _, d := range catalog.All() {
		rows = append(rows, []string{DisciplineStyle(d.Color).Render(d.Code), d.NameEn, OrDash(d.NameID)})
	}
	return RenderTable([]string{"CODE", "NAME", "NAMA"}, rows)
}
