package domain

import "fmt"

// ScreenFamily selects which depth preset a WBS view uses.
type ScreenFamily string

const (
	FamilyBallpark ScreenFamily = "ballpark"
	FamilyDetail   ScreenFamily = "detail"
	FamilyExplorer ScreenFamily = "explorer"
)

// ViewMode is the Summary/Breakdown toggle of the ballpark and detail screens.
type ViewMode string

const (
	ModeSummary   ViewMode = "summary"
	ModeBreakdown ViewMode = "breakdown"
)

// ParseScreenFamily validates a family string.
func ParseScreenFamily(s string) (ScreenFamily, error) {
	switch ScreenFamily(s) {
	case FamilyBallpark, FamilyDetail, FamilyExplorer:
		return ScreenFamily(s), nil
	}
	return "", fmt.Errorf("unknown screen family %q (ballpark|detail|explorer)", s)
}

// ParseViewMode validates a mode string.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ModeSummary, ModeBreakdown:
		return ViewMode(s), nil
	}
	return "", fmt.Errorf("unknown view mode %q (summary|breakdown)", s)
}

// LocationSortKey selects the column location groups are ordered by.
type LocationSortKey string

const (
	SortProvince         LocationSortKey = "province"
	SortCity             LocationSortKey = "city"
	SortRegionalFactor   LocationSortKey = "regional_factor"
	SortDifficultyFactor LocationSortKey = "difficulty_factor"
	SortEffectiveFactor  LocationSortKey = "effective_factor"
)

// ValidLocationSortKeys is the canonical set of accepted sort key strings.
var ValidLocationSortKeys = map[string]bool{
	"province": true, "city": true, "regional_factor": true,
	"difficulty_factor": true, "effective_factor": true,
}

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseLocationSortKey validates a sort key; an empty string means province.
func ParseLocationSortKey(s string) (LocationSortKey, error) {
	if s == "" {
		return SortProvince, nil
	}
	if !ValidLocationSortKeys[s] {
		return "", fmt.Errorf("unknown sort key %q", s)
	}
	return LocationSortKey(s), nil
}
