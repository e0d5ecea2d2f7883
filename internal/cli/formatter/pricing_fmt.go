package formatter

import (
	"fmt"
	"strings"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/pricing"
)

// CostView is what the cost matrix renderer reads from an editor.
type CostView interface {
	Classes() []*domain.PricingClass
	Cell(classID, code string) domain.CostEntry
	GrandTotal(classID string) float64
	LivePercentage(classID, code string) float64
	Dirty() []string
}

// FormatCostMatrix renders one row per visible node and a cost and
// percentage column pair per class, with grand totals as the footer.
// Percentages are derived from current costs, so unsaved edits show up.
func FormatCostMatrix(view CostView, visible []*domain.WBSNode) string {
	classes := view.Classes()
	if len(classes) == 0 {
		return Dim("No pricing classes. Add one with: adidaya pricing class add --code X") + "\n"
	}

	dirty := make(map[string]bool)
	for _, id := range view.Dirty() {
		dirty[id] = true
	}

	headers := []string{"CODE", "NAME"}
	right := map[int]bool{}
	for _, c := range classes {
		label := c.ClassCode
		if c.FinishLevel != "" {
			label += " (" + c.FinishLevel + ")"
		}
		if dirty[c.ID] {
			label += "*"
		}
		right[len(headers)] = true
		right[len(headers)+1] = true
		headers = append(headers, label, "%")
	}

	rows := make([][]string, 0, len(visible))
	for _, n := range visible {
		row := []string{indent(n.Depth) + n.Code, n.DisplayName()}
		for _, c := range classes {
			row = append(row,
				pricing.Format2(view.Cell(c.ID, n.Code).Cost),
				pricing.Format2(view.LivePercentage(c.ID, n.Code)),
			)
		}
		rows = append(rows, row)
	}

	total := []string{Bold("TOTAL"), ""}
	for _, c := range classes {
		total = append(total, Bold(pricing.Format2(view.GrandTotal(c.ID))), "")
	}

	out := Table{Headers: headers, Rows: rows, Right: right, Footer: [][]string{total}}.Render()
	if len(dirty) > 0 {
		out += Warn(fmt.Sprintf("%d class(es) with unsaved edits (*)", len(dirty))) + "\n"
	}
	return out
}

// FormatPricingClasses lists classes with their grand totals.
func FormatPricingClasses(view CostView) string {
	rows := make([][]string, 0)
	for _, c := range view.Classes() {
		rows = append(rows, []string{Bold(c.ClassCode), OrDash(c.FinishLevel), pricing.Format2(view.GrandTotal(c.ID)), TruncID(c.ID)})
	}
	return Table{Headers: []string{"CLASS", "FINISH", "TOTAL", "ID"}, Rows: rows, Right: map[int]bool{2: true}}.Render()
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
