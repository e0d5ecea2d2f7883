package formatter

import (
	"fmt"
	"strings"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
)

// FormatBoqDefinition renders a definition with its elements and the nodes
// linked to it. Formula symbols no element declares are flagged.
func FormatBoqDefinition(d *domain.BoqDefinition, linked []*domain.WBSNode) string {
	var b strings.Builder
	b.WriteString(KeyValue([][2]string{
		{"Code", Bold(d.Code)},
		{"Name", d.Name},
		{"Unit", OrDash(d.Unit)},
		{"Formula", OrDash(d.Formula)},
		{"ID", TruncID(d.ID)},
	}))
	if missing := d.MissingSymbols(); len(missing) > 0 {
		b.WriteString(Warn("undeclared symbols: " + strings.Join(missing, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(Header("Elements"))
	b.WriteString("\n")
	if len(d.Elements) == 0 {
		b.WriteString(Dim("none"))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(d.Elements))
		for _, e := range d.Elements {
			rows = append(rows, []string{StylePurple.Render(OrDash(e.Symbol)), OrDash(e.Name), OrDash(e.Unit), TruncID(e.ID)})
		}
		b.WriteString(RenderTable([]string{"SYMBOL", "NAME", "UNIT", "ID"}, rows))
	}

	b.WriteString("\n")
	b.WriteString(Header("Linked nodes"))
	b.WriteString("\n")
	if len(linked) == 0 {
		b.WriteString(Dim("none"))
		b.WriteString("\n")
	}
	for _, n := range linked {
		fmt.Fprintf(&b, "%s  %s\n", Bold(n.Code), n.DisplayName())
	}
	return RenderBox("BOQ Definition", strings.TrimRight(b.String(), "\n"))
}

// FormatBoqList lists definitions with how many nodes use each.
func FormatBoqList(defs []*domain.BoqDefinition, linkedCount func(id string) int) string {
	if len(defs) == 0 {
		return Dim("No BOQ definitions.") + "\n"
	}
	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, []string{
			Bold(d.Code), d.Name, OrDash(d.Formula),
			fmt.Sprintf("%d", len(d.Elements)), fmt.Sprintf("%d", linkedCount(d.ID)),
		})
	}
	return Table{
		Headers: []string{"CODE", "NAME", "FORMULA", "ELEMENTS", "NODES"},
		Rows:    rows,
		Right:   map[int]bool{3: true, 4: true},
	}.Render()
}
