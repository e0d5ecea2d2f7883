package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormulaSymbols(t *testing.T) {
	tests := []struct {
		formula string
		want    []string
	}{
		{"", nil},
		{"p * l * t", []string{"p", "l", "t"}},
		{"(p1 + p2) * t / 2", []string{"p1", "p2", "t"}},
		{"a*a + b_2", []string{"a", "b_2"}},
		{"3.5 * 2", nil},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			assert.Equal(t, tt.want, FormulaSymbols(tt.formula))
		})
	}
}

func TestMissingSymbols_DuplicatesCountAsDeclared(t *testing.T) {
	d := &BoqDefinition{
		Formula: "p * l * h",
		Elements: []BoqElement{
			{ID: "1", Symbol: "p"},
			{ID: "2", Symbol: "p"},
			{ID: "3", Symbol: "l"},
		},
	}
	assert.Equal(t, []string{"h"}, d.MissingSymbols())
}

func TestElementPatch_ApplyLeavesNilFields(t *testing.T) {
	e := BoqElement{ID: "1", Name: "Length", Symbol: "p", Unit: "m"}
	sym := "L"

	got := ElementPatch{Symbol: &sym}.Apply(e)

	assert.Equal(t, "Length", got.Name)
	assert.Equal(t, "L", got.Symbol)
	assert.Equal(t, "m", got.Unit)
}

func TestLocationPatch_ClearCity(t *testing.T) {
	city := "Denpasar"
	l := LocationFactor{Province: "Bali", City: &city, RegionalFactor: 1.2}
	rf := 1.3

	got := LocationPatch{ClearCity: true, RegionalFactor: &rf}.Apply(l)

	assert.True(t, got.IsProvinceDefault())
	assert.Equal(t, 1.3, got.RegionalFactor)
	assert.Equal(t, "Denpasar", *l.City, "original untouched")
}
