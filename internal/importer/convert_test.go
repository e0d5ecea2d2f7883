package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codesOf(nodes []*domain.WBSNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Code)
	}
	return out
}

func TestConvert_EmptyWorkspace(t *testing.T) {
	plan, err := Convert(validSchema(), "ws", nil, nil, catalog())
	require.NoError(t, err)

	assert.Equal(t, []string{"S", "S.1", "X"}, codesOf(plan.Nodes))
	s, s1 := plan.Nodes[0], plan.Nodes[1]
	assert.Equal(t, "Structure", s.NameEn, "discipline roots take the catalog names")
	assert.Equal(t, "Struktur", s.NameID)
	require.NotNil(t, s1.ParentID)
	assert.Equal(t, s.ID, *s1.ParentID)
	assert.Equal(t, 1, s1.Depth)
	assert.Equal(t, 1, plan.Nodes[2].SortOrder)
	for _, n := range plan.Nodes {
		assert.Empty(t, n.Children)
		assert.Equal(t, "ws", n.WorkspaceID)
	}

	require.Len(t, plan.Classes, 1)
	budget := plan.Classes[0]
	assert.Equal(t, "BUDGET", budget.ClassCode)
	assert.Equal(t, 100.0, budget.Values["S"].Cost)
	assert.Equal(t, "66.67", pricing.Format2(budget.Values["S"].Percentage))
	assert.Equal(t, "33.33", pricing.Format2(budget.Values["X"].Percentage))

	require.Len(t, plan.Locations, 2)
	assert.True(t, plan.Locations[0].IsProvinceDefault())
	assert.Equal(t, 1.0, plan.Locations[0].DifficultyFactor, "omitted factors default to 1")
	assert.Equal(t, "Denpasar", plan.Locations[1].CityName())
}

func TestConvert_ContinuesExistingTree(t *testing.T) {
	s := &domain.WBSNode{ID: "s", Code: "S", NameEn: "Structure"}
	sID := "s"
	existing := []*domain.WBSNode{s, {ID: "s1", Code: "S.1", ParentID: &sID, NameEn: "Foundation"}}
	schema := &ImportSchema{
		Nodes: []NodeImport{
			{Ref: "a", Discipline: "A"},
			{Ref: "a1", ParentRef: ptrStr("a"), Name: "Walls"},
			{Ref: "a2", ParentRef: ptrStr("a"), Name: "Doors"},
			{Ref: "a21", ParentRef: ptrStr("a2"), Name: "Hinges"},
		},
		PricingClasses: []ClassImport{{Code: "P", Costs: map[string]float64{"s.1": 10, "a1": 30}}},
	}

	plan, err := Convert(schema, "ws", existing, []*domain.PricingClass{{ClassCode: "B"}}, catalog())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "A.1", "A.2", "A.2.1"}, codesOf(plan.Nodes))
	assert.Equal(t, 1, plan.Nodes[0].SortOrder)
	assert.Equal(t, 2, plan.Nodes[3].Depth)
	assert.Equal(t, 1, plan.Classes[0].SortOrder)
	assert.Equal(t, 10.0, plan.Classes[0].Values["S.1"].Cost, "existing codes match case-insensitively")
	assert.Equal(t, 30.0, plan.Classes[0].Values["A.1"].Cost)
}

func TestConvert_DuplicateCodes(t *testing.T) {
	existing := []*domain.WBSNode{{ID: "s", Code: "S", NameEn: "Structure"}}

	_, err := Convert(&ImportSchema{Nodes: []NodeImport{{Ref: "s", Discipline: "S"}}}, "ws", existing, nil, catalog())
	require.ErrorIs(t, err, domain.ErrDuplicateCode)

	_, err = Convert(&ImportSchema{Nodes: []NodeImport{{Ref: "m", Code: "m", Name: "Not MEP"}}}, "ws", nil, nil, catalog())
	require.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestConvert_ClassConflictsAndUnknownCostKey(t *testing.T) {
	_, err := Convert(validSchema(), "ws", nil, []*domain.PricingClass{{ClassCode: "Budget"}}, catalog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BUDGET already exists")

	schema := validSchema()
	schema.PricingClasses[0].Costs["nowhere"] = 1
	_, err = Convert(schema, "ws", nil, nil, catalog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nowhere"`)
}

func TestLoadImportSchema_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "seed.json")
	yamlPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
  "nodes": [{"ref": "s", "discipline": "S"}, {"ref": "s1", "parent_ref": "s", "name": "Foundation"}],
  "pricing_classes": [{"code": "B", "costs": {"s": 100}}]
}`), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(`nodes:
  - ref: s
    discipline: S
  - ref: s1
    parent_ref: s
    name: Foundation
locations:
  - province: Bali
    city: Denpasar
    regional_factor: 1.2
`), 0o644))

	fromJSON, err := LoadImportSchema(jsonPath)
	require.NoError(t, err)
	require.Len(t, fromJSON.Nodes, 2)
	assert.Equal(t, "s", *fromJSON.Nodes[1].ParentRef)
	assert.Equal(t, 100.0, fromJSON.PricingClasses[0].Costs["s"])

	fromYAML, err := LoadImportSchema(yamlPath)
	require.NoError(t, err)
	require.Len(t, fromYAML.Nodes, 2)
	assert.Equal(t, "Foundation", fromYAML.Nodes[1].Name)
	require.Len(t, fromYAML.Locations, 1)
	assert.Equal(t, 1.2, *fromYAML.Locations[0].Regional)
	assert.Nil(t, fromYAML.Locations[0].Difficulty)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"nodes": [`), 0o644))
	_, err = LoadImportSchema(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing import file")
}
