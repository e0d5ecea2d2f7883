package formatter

import (
	"strconv"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/location"
)

// FormatLocationGroups renders each province row followed by its cities.
// Provinces without a default row show dashes for the factors.
func FormatLocationGroups(groups []location.Group) string {
	if len(groups) == 0 {
		return Dim("No location factors.") + "\n"
	}
	var rows [][]string
	for _, g := range groups {
		if g.Parent != nil {
			rows = append(rows, locationRow(Bold(g.Province), g.Parent))
		} else {
			rows = append(rows, []string{Bold(g.Province), "", Dim("--"), Dim("--"), Dim("--"), ""})
		}
		for i, c := range g.Children {
			connector := treeBranch
			if i == len(g.Children)-1 {
				connector = treeCorner
			}
			rows = append(rows, locationRow(Dim(connector)+c.CityName(), c))
		}
	}
	return Table{
		Headers: []string{"LOCATION", "CODE", "REGIONAL", "DIFFICULTY", "EFFECTIVE", "ID"},
		Rows:    rows,
		Right:   map[int]bool{2: true, 3: true, 4: true},
	}.Render()
}

func locationRow(label string, r *domain.LocationFactor) []string {
	return []string{
		label,
		OrDash(r.Code),
		factor(r.RegionalFactor),
		factor(r.DifficultyFactor),
		StyleGreen.Render(location.DisplayFactor(r)),
		TruncID(r.ID),
	}
}

func factor(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
