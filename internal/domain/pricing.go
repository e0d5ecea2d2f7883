package domain

import "time"

// CostEntry is one cell of the cost matrix. Percentage is a denormalized
// snapshot written at save time.
type CostEntry struct {
	Cost       float64 `json:"cost"`
	Percentage float64 `json:"percentage"`
}

// PricingClass is one costing scenario (e.g. "Budget", "Premium"). Values is
// keyed by WBS code.
type PricingClass struct {
	ID          string
	WorkspaceID string
	ClassCode   string
	FinishLevel string
	SortOrder   int
	Values      map[string]CostEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the class, including its values map.
func (c *PricingClass) Clone() *PricingClass {
	out := *c
	out.Values = make(map[string]CostEntry, len(c.Values))
	for k, v := range c.Values {
		out.Values[k] = v
	}
	return &out
}
