package domain

import (
	"regexp"
	"time"
)

// BoqDefinition is a named quantity/volume formula. Formula is opaque text
// referencing element symbols.
type BoqDefinition struct {
	ID          string
	WorkspaceID string
	Code        string
	Name        string
	Unit        string
	Formula     string
	Elements    []BoqElement
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BoqElement is a named variable used by a formula. Symbols are not
// required to be unique within a definition.
type BoqElement struct {
	ID           string
	DefinitionID string
	Name         string
	Symbol       string
	Unit         string
	SortOrder    int
}

// ElementPatch carries optional updates for a BoqElement. Nil fields are
// left unchanged.
type ElementPatch struct {
	Name   *string
	Symbol *string
	Unit   *string
}

// Apply returns e with the patch applied.
func (p ElementPatch) Apply(e BoqElement) BoqElement {
	e.Name = StrFromPtrWithDefault(e.Name, p.Name)
	e.Symbol = StrFromPtrWithDefault(e.Symbol, p.Symbol)
	e.Unit = StrFromPtrWithDefault(e.Unit, p.Unit)
	return e
}

// Clone returns a deep copy of the definition including its element list.
func (d *BoqDefinition) Clone() *BoqDefinition {
	out := *d
	out.Elements = make([]BoqElement, len(d.Elements))
	copy(out.Elements, d.Elements)
	return &out
}

// ElementIndex returns the position of the element with the given id, or -1.
func (d *BoqDefinition) ElementIndex(elementID string) int {
	for i, e := range d.Elements {
		if e.ID == elementID {
			return i
		}
	}
	return -1
}

var formulaIdent = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// FormulaSymbols returns the distinct identifier tokens of formula in order
// of first appearance. The formula is not otherwise parsed.
func FormulaSymbols(formula string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range formulaIdent.FindAllString(formula, -1) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// MissingSymbols lists the formula's symbols that no element declares. It
// is a display hint; definitions with missing symbols are still valid.
func (d *BoqDefinition) MissingSymbols() []string {
	declared := make(map[string]bool, len(d.Elements))
	for _, e := range d.Elements {
		declared[e.Symbol] = true
	}
	var missing []string
	for _, s := range FormulaSymbols(d.Formula) {
		if !declared[s] {
			missing = append(missing, s)
		}
	}
	return missing
}
