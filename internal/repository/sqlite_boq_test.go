package repository

import (
	"context"
	"testing"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBoqRepo(t *testing.T) (*SQLiteBoqRepo, *SQLiteWBSNodeRepo, *domain.Workspace) {
	t.Helper()
	database := testutil.NewTestDB(t)
	ws := testutil.NewTestWorkspace("")
	require.NoError(t, NewSQLiteWorkspaceRepo(database).Create(context.Background(), ws))
	return NewSQLiteBoqRepo(database), NewSQLiteWBSNodeRepo(database), ws
}

func TestBoqRepo_DefinitionWithElements(t *testing.T) {
	repo, _, ws := setupBoqRepo(t)
	ctx := context.Background()

	def := testutil.NewTestDefinition(ws.ID, "BOQ-S.1",
		testutil.WithFormula("p * l * t"),
		testutil.WithElement("Length", "p", "m"),
		testutil.WithElement("Width", "l", "m"),
		testutil.WithElement("Thickness", "t", "m"),
	)
	require.NoError(t, repo.CreateDefinition(ctx, def))

	got, err := repo.GetDefinition(ctx, def.ID)
	require.NoError(t, err)
	assert.Equal(t, "p * l * t", got.Formula)
	require.Len(t, got.Elements, 3)
	assert.Equal(t, "p", got.Elements[0].Symbol)
	assert.Equal(t, "t", got.Elements[2].Symbol)
}

func TestBoqRepo_ElementMutations(t *testing.T) {
	repo, _, ws := setupBoqRepo(t)
	ctx := context.Background()

	def := testutil.NewTestDefinition(ws.ID, "BOQ-A", testutil.WithElement("Area", "a", "m2"))
	require.NoError(t, repo.CreateDefinition(ctx, def))

	extra := domain.BoqElement{ID: "e2", DefinitionID: def.ID, Name: "Area", Symbol: "a", Unit: "m2", SortOrder: 1}
	require.NoError(t, repo.CreateElement(ctx, &extra))

	first := def.Elements[0]
	first.Name = "Floor area"
	require.NoError(t, repo.UpdateElement(ctx, &first))

	got, err := repo.GetDefinition(ctx, def.ID)
	require.NoError(t, err)
	require.Len(t, got.Elements, 2, "duplicate symbols are stored as-is")
	assert.Equal(t, "Floor area", got.Elements[0].Name)

	require.NoError(t, repo.DeleteElement(ctx, first.ID))
	got, err = repo.GetDefinition(ctx, def.ID)
	require.NoError(t, err)
	require.Len(t, got.Elements, 1)
	assert.Equal(t, "e2", got.Elements[0].ID)

	assert.ErrorIs(t, repo.DeleteElement(ctx, first.ID), ErrNotFound)
}

func TestBoqRepo_ListDefinitionsScopesElements(t *testing.T) {
	repo, _, ws := setupBoqRepo(t)
	ctx := context.Background()

	b := testutil.NewTestDefinition(ws.ID, "BOQ-B", testutil.WithElement("Height", "h", "m"))
	a := testutil.NewTestDefinition(ws.ID, "BOQ-A")
	require.NoError(t, repo.CreateDefinition(ctx, b))
	require.NoError(t, repo.CreateDefinition(ctx, a))

	defs, err := repo.ListDefinitions(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "BOQ-A", defs[0].Code)
	assert.Empty(t, defs[0].Elements)
	require.Len(t, defs[1].Elements, 1)
	assert.Equal(t, "h", defs[1].Elements[0].Symbol)
}

func TestBoqRepo_DeleteDefinitionUnlinksNodes(t *testing.T) {
	repo, nodes, ws := setupBoqRepo(t)
	ctx := context.Background()

	def := testutil.NewTestDefinition(ws.ID, "BOQ-S")
	require.NoError(t, repo.CreateDefinition(ctx, def))
	n := testutil.NewTestNode(ws.ID, "S", "Structure", testutil.WithDefinition(def.ID))
	require.NoError(t, nodes.Create(ctx, n))

	require.NoError(t, repo.DeleteDefinition(ctx, def.ID))

	got, err := nodes.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DefinitionID)
	_, err = repo.GetDefinition(ctx, def.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
