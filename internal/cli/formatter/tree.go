package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one row of a tree display.
type TreeItem struct {
	Label  string
	Level  int
	IsLast bool

	// Open is nil for leaves; otherwise it selects the ▾ or ▸ marker.
	Open   *bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree draws items as an indented tree with box-drawing connectors.
// Detail badges are right-aligned in one column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	for i, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}
		marker := ""
		if item.Open != nil {
			if *item.Open {
				marker = StyleDim.Render("▾ ")
			} else {
				marker = StyleDim.Render("▸ ")
			}
		}
		contents[i] = StyleDim.Render(prefix) + marker + item.Label
		if w := lipgloss.Width(contents[i]); w > widest {
			widest = w
		}
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			pad := widest - lipgloss.Width(contents[i])
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render("[ "+item.Detail+" ]"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
