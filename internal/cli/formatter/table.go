package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table is an aligned text table. Columns listed in Right are right-aligned,
// which suits money and factor columns.
type Table struct {
	Headers []string
	Rows    [][]string
	Right   map[int]bool

	// Footer rows are drawn below a second separator, e.g. grand totals.
	Footer [][]string
}

const colGap = 2

// RenderTable renders headers and rows with every column left-aligned.
func RenderTable(headers []string, rows [][]string) string {
	return Table{Headers: headers, Rows: rows}.Render()
}

// Render draws the table. Widths are measured on visible characters so
// styled cells line up.
func (t Table) Render() string {
	cols := len(t.Headers)
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Headers)
	for _, r := range t.Rows {
		measure(r)
	}
	for _, r := range t.Footer {
		measure(r)
	}

	var b strings.Builder
	styled := make([]string, cols)
	for i, h := range t.Headers {
		styled[i] = StyleHeader.Render(h)
	}
	t.writeRow(&b, styled, widths)
	t.writeRule(&b, widths)
	for _, r := range t.Rows {
		t.writeRow(&b, r, widths)
	}
	if len(t.Footer) > 0 {
		t.writeRule(&b, widths)
		for _, r := range t.Footer {
			t.writeRow(&b, r, widths)
		}
	}
	return b.String()
}

func (t Table) writeRow(b *strings.Builder, row []string, widths []int) {
	last := len(widths) - 1
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := w - lipgloss.Width(cell)
		if pad < 0 {
			pad = 0
		}
		if t.Right[i] {
			b.WriteString(strings.Repeat(" ", pad) + cell)
		} else {
			b.WriteString(cell)
			if i < last {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		if i < last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}

func (t Table) writeRule(b *strings.Builder, widths []int) {
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
}
