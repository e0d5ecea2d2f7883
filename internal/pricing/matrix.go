// Package pricing implements the cost matrix: one cost cell per
// (pricing class, WBS code), grand totals over root codes, and percentages
// derived from them.
package pricing

import (
	"sort"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/shopspring/decimal"
)

// SetCost replaces the cost of the code's cell, creating a zero entry first
// when none exists. Percentages are left as they are.
func SetCost(class *domain.PricingClass, code string, cost float64) *domain.PricingClass {
	if class.Values == nil {
		class.Values = make(map[string]domain.CostEntry)
	}
	entry := class.Values[code]
	entry.Cost = cost
	class.Values[code] = entry
	return class
}

// GrandTotal sums the cost of every root code's entry. Codes missing from
// the class contribute 0.
func GrandTotal(class *domain.PricingClass, rootCodes []string) float64 {
	var total float64
	for _, code := range rootCodes {
		total += class.Values[code].Cost
	}
	return total
}

// RecomputePercentages sets every entry's percentage to cost/total*100, or 0
// for every entry when the grand total is 0.
func RecomputePercentages(class *domain.PricingClass, rootCodes []string) *domain.PricingClass {
	total := GrandTotal(class, rootCodes)
	for code, entry := range class.Values {
		entry.Percentage = percentOf(entry.Cost, total)
		class.Values[code] = entry
	}
	return class
}

// DeriveCellPercentage computes the live percentage of a cell from current
// costs, ignoring the stored percentage snapshot.
func DeriveCellPercentage(class *domain.PricingClass, rootCodes []string, code string) float64 {
	return percentOf(class.Values[code].Cost, GrandTotal(class, rootCodes))
}

func percentOf(cost, total float64) float64 {
	if total == 0 {
		return 0
	}
	return cost / total * 100
}

// Round2 rounds v half away from zero to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Format2 renders v with exactly two decimals.
func Format2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Rollup replaces the cost of every node that has children with the sum of
// its children's costs, bottom-up. Leaves keep their cost and percentages
// are not touched. roots must be the nested tree from wbs.Build.
func Rollup(class *domain.PricingClass, roots []*domain.WBSNode) *domain.PricingClass {
	var walk func(n *domain.WBSNode) float64
	walk = func(n *domain.WBSNode) float64 {
		if len(n.Children) == 0 {
			return class.Values[n.Code].Cost
		}
		var sum float64
		for _, c := range n.Children {
			sum += walk(c)
		}
		SetCost(class, n.Code, sum)
		return sum
	}
	for _, r := range roots {
		walk(r)
	}
	return class
}

// Matrix is the set of pricing classes of a workspace together with the
// root codes its totals are computed over.
type Matrix struct {
	classes   map[string]*domain.PricingClass
	order     []string
	rootCodes []string
}

// NewMatrix builds a matrix. Classes are ordered by SortOrder then ClassCode.
func NewMatrix(classes []*domain.PricingClass, rootCodes []string) *Matrix {
	m := &Matrix{
		classes:   make(map[string]*domain.PricingClass, len(classes)),
		rootCodes: append([]string(nil), rootCodes...),
	}
	sorted := append([]*domain.PricingClass(nil), classes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].ClassCode < sorted[j].ClassCode
	})
	for _, c := range sorted {
		m.classes[c.ID] = c
		m.order = append(m.order, c.ID)
	}
	return m
}

// Classes returns the classes in display order.
func (m *Matrix) Classes() []*domain.PricingClass {
	out := make([]*domain.PricingClass, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.classes[id])
	}
	return out
}

// RootCodes returns the codes grand totals are computed over.
func (m *Matrix) RootCodes() []string {
	return append([]string(nil), m.rootCodes...)
}

// Class returns the class with id.
func (m *Matrix) Class(id string) (*domain.PricingClass, error) {
	c, ok := m.classes[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "pricing class", ID: id}
	}
	return c, nil
}

// Cell returns the entry for (classID, code); missing cells are zero.
func (m *Matrix) Cell(classID, code string) domain.CostEntry {
	c, ok := m.classes[classID]
	if !ok {
		return domain.CostEntry{}
	}
	return c.Values[code]
}

// SetCost updates a cell of the class with id.
func (m *Matrix) SetCost(classID, code string, cost float64) (*domain.PricingClass, error) {
	c, err := m.Class(classID)
	if err != nil {
		return nil, err
	}
	return SetCost(c, code, cost), nil
}

// GrandTotal returns the class's grand total, 0 for unknown classes.
func (m *Matrix) GrandTotal(classID string) float64 {
	c, ok := m.classes[classID]
	if !ok {
		return 0
	}
	return GrandTotal(c, m.rootCodes)
}

// LivePercentage returns the read-time percentage of a cell.
func (m *Matrix) LivePercentage(classID, code string) float64 {
	c, ok := m.classes[classID]
	if !ok {
		return 0
	}
	return DeriveCellPercentage(c, m.rootCodes, code)
}

// Put inserts or replaces a class, keeping its display position when it
// already exists.
func (m *Matrix) Put(class *domain.PricingClass) {
	if _, ok := m.classes[class.ID]; !ok {
		m.order = append(m.order, class.ID)
	}
	m.classes[class.ID] = class
}

// Remove drops a class from the matrix.
func (m *Matrix) Remove(classID string) {
	if _, ok := m.classes[classID]; !ok {
		return
	}
	delete(m.classes, classID)
	for i, id := range m.order {
		if id == classID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	classes := make([]*domain.PricingClass, 0, len(m.order))
	for _, id := range m.order {
		classes = append(classes, m.classes[id].Clone())
	}
	out := &Matrix{
		classes:   make(map[string]*domain.PricingClass, len(classes)),
		order:     append([]string(nil), m.order...),
		rootCodes: append([]string(nil), m.rootCodes...),
	}
	for _, c := range classes {
		out.classes[c.ID] = c
	}
	return out
}
