package domain

import "strings"

// Discipline is a top-level category of work. Its code becomes the code of
// the root WBS node created from it.
type Discipline struct {
	Code   string
	NameEn string
	NameID string
	Color  string // hex color used to tint the discipline's subtree
}

// DefaultDisciplines is the catalog used when configuration supplies none.
func DefaultDisciplines() []Discipline {
	return []Discipline{
		{Code: "S", NameEn: "Structure", NameID: "Struktur", Color: "#83a598"},
		{Code: "A", NameEn: "Architecture", NameID: "Arsitektur", Color: "#fabd2f"},
		{Code: "M", NameEn: "MEP", NameID: "Mekanikal Elektrikal Plumbing", Color: "#fb4934"},
		{Code: "I", NameEn: "Interior", NameID: "Interior", Color: "#d3869b"},
		{Code: "L", NameEn: "Landscape", NameID: "Lanskap", Color: "#8ec07c"},
	}
}

// DisciplineCatalog is a read-only lookup of disciplines keyed by
// uppercased code. It is built once by the caller and passed to whatever
// needs it.
type DisciplineCatalog struct {
	ordered []Discipline
	byCode  map[string]Discipline
}

// NewDisciplineCatalog builds a catalog. Later entries with a code already
// seen are ignored.
func NewDisciplineCatalog(disciplines []Discipline) *DisciplineCatalog {
	c := &DisciplineCatalog{byCode: make(map[string]Discipline, len(disciplines))}
	for _, d := range disciplines {
		key := strings.ToUpper(strings.TrimSpace(d.Code))
		if key == "" {
			continue
		}
		if _, dup := c.byCode[key]; dup {
			continue
		}
		d.Code = key
		c.byCode[key] = d
		c.ordered = append(c.ordered, d)
	}
	return c
}

// Lookup returns the discipline for code, case-insensitively.
func (c *DisciplineCatalog) Lookup(code string) (Discipline, bool) {
	if c == nil {
		return Discipline{}, false
	}
	d, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return d, ok
}

// All returns the disciplines in registration order.
func (c *DisciplineCatalog) All() []Discipline {
	if c == nil {
		return nil
	}
	out := make([]Discipline, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Codes returns the registered (uppercased) codes in registration order.
func (c *DisciplineCatalog) Codes() []string {
	if c == nil {
		return nil
	}
	codes := make([]string, 0, len(c.ordered))
	for _, d := range c.ordered {
		codes = append(codes, d.Code)
	}
	return codes
}
