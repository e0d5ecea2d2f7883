package formatter

import (
	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
)

// FormatWorkspaceList lists workspaces, marking the active one.
func FormatWorkspaceList(list []*domain.Workspace, active string) string {
	if len(list) == 0 {
		return Dim("No workspaces. Create one with: adidaya workspace create --code VILLA01") + "\n"
	}
	rows := make([][]string, 0, len(list))
	for _, w := range list {
		marker := " "
		if w.Code == active {
			marker = StyleGreen.Render("●")
		}
		rows = append(rows, []string{marker, Bold(w.DisplayID()), w.Name, TruncID(w.ID)})
	}
	return RenderTable([]string{"", "CODE", "NAME", "ID"}, rows)
}
