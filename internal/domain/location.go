package domain

import "time"

// LocationFactor is a regional cost multiplier entry. A nil City marks the
// province-level default row.
type LocationFactor struct {
	ID               string
	WorkspaceID      string
	Code             string
	Province         string
	City             *string
	RegionalFactor   float64
	DifficultyFactor float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsProvinceDefault reports whether the row is a province-level entry.
func (l *LocationFactor) IsProvinceDefault() bool {
	return l.City == nil || *l.City == ""
}

// CityName returns the city or an empty string for province rows.
func (l *LocationFactor) CityName() string {
	if l.City == nil {
		return ""
	}
	return *l.City
}

// EffectiveFactor returns RegionalFactor * DifficultyFactor at full precision.
func (l *LocationFactor) EffectiveFactor() float64 {
	return l.RegionalFactor * l.DifficultyFactor
}

// LocationPatch carries optional updates for a LocationFactor.
type LocationPatch struct {
	Code             *string
	Province         *string
	City             *string
	ClearCity        bool
	RegionalFactor   *float64
	DifficultyFactor *float64
}

// Apply returns l with the patch applied.
func (p LocationPatch) Apply(l LocationFactor) LocationFactor {
	l.Code = StrFromPtrWithDefault(l.Code, p.Code)
	l.Province = StrFromPtrWithDefault(l.Province, p.Province)
	if p.ClearCity {
		l.City = nil
	} else if p.City != nil {
		c := *p.City
		l.City = &c
	}
	l.RegionalFactor = Float64FromPtrWithDefault(l.RegionalFactor, p.RegionalFactor)
	l.DifficultyFactor = Float64FromPtrWithDefault(l.DifficultyFactor, p.DifficultyFactor)
	return l
}
