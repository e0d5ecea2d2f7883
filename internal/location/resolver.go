// Package location groups regional cost factors into province→city
// hierarchies and orders them for display.
package location

import (
	"sort"
	"strings"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/shopspring/decimal"
)

// Group is one province with its default row and its city rows.
type Group struct {
	Province string
	Parent   *domain.LocationFactor
	Children []*domain.LocationFactor
}

// GroupRecords partitions records by province in first-seen order. The first
// row without a city becomes Parent; further city-less rows of the same
// province are left out of the group (they remain in the store). Rows with a
// city become Children in input order.
func GroupRecords(records []*domain.LocationFactor) []Group {
	var groups []Group
	pos := make(map[string]int)
	for _, r := range records {
		i, ok := pos[r.Province]
		if !ok {
			i = len(groups)
			pos[r.Province] = i
			groups = append(groups, Group{Province: r.Province})
		}
		g := &groups[i]
		if r.IsProvinceDefault() {
			if g.Parent == nil {
				g.Parent = r
			}
			continue
		}
		g.Children = append(g.Children, r)
	}
	return groups
}

// EffectiveFactor returns regional * difficulty at full precision.
func EffectiveFactor(r *domain.LocationFactor) float64 {
	return r.EffectiveFactor()
}

// DisplayFactor returns the effective factor rounded to two decimals for
// display. Stored fields are never rounded.
func DisplayFactor(r *domain.LocationFactor) string {
	return decimal.NewFromFloat(r.EffectiveFactor()).StringFixed(2)
}

// Sort orders groups in place and returns them. Groups sort by province
// unless a numeric key is chosen, in which case they sort by the parent
// row's value (groups without a parent count as 0). Children sort by city
// unless key names a different column, in which case that column is used.
func Sort(groups []Group, key domain.LocationSortKey, dir domain.SortDirection) []Group {
	if key == "" {
		key = domain.SortProvince
	}
	desc := dir == domain.SortDesc

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if isNumeric(key) {
			va, vb := parentValue(a, key), parentValue(b, key)
			if va != vb {
				return ordered(va < vb, desc)
			}
		}
		pa, pb := strings.ToLower(a.Province), strings.ToLower(b.Province)
		if pa == pb {
			return false
		}
		return ordered(pa < pb, desc)
	})

	childKey := domain.SortCity
	if key != domain.SortProvince && key != domain.SortCity {
		childKey = key
	}
	for gi := range groups {
		children := groups[gi].Children
		sort.SliceStable(children, func(i, j int) bool {
			a, b := children[i], children[j]
			if isNumeric(childKey) {
				va, vb := value(a, childKey), value(b, childKey)
				if va != vb {
					return ordered(va < vb, desc)
				}
			}
			ca, cb := strings.ToLower(a.CityName()), strings.ToLower(b.CityName())
			if ca == cb {
				return false
			}
			return ordered(ca < cb, desc)
		})
	}
	return groups
}

// ordered flips an ascending comparison of two distinct values for
// descending order.
func ordered(asc bool, desc bool) bool {
	if desc {
		return !asc
	}
	return asc
}

func isNumeric(key domain.LocationSortKey) bool {
	switch key {
	case domain.SortRegionalFactor, domain.SortDifficultyFactor, domain.SortEffectiveFactor:
		return true
	}
	return false
}

func parentValue(g Group, key domain.LocationSortKey) float64 {
	if g.Parent == nil {
		return 0
	}
	return value(g.Parent, key)
}

func value(r *domain.LocationFactor, key domain.LocationSortKey) float64 {
	switch key {
	case domain.SortRegionalFactor:
		return r.RegionalFactor
	case domain.SortDifficultyFactor:
		return r.DifficultyFactor
	case domain.SortEffectiveFactor:
		return r.EffectiveFactor()
	}
	return 0
}
