package repository

import (
	"context"
	"testing"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWBSRepo(t *testing.T) (*SQLiteWBSNodeRepo, *domain.Workspace) {
	t.Helper()
	database := testutil.NewTestDB(t)
	ws := testutil.NewTestWorkspace("")
	require.NoError(t, NewSQLiteWorkspaceRepo(database).Create(context.Background(), ws))
	return NewSQLiteWBSNodeRepo(database), ws
}

func TestWBSNodeRepo_CreateAndGetByID(t *testing.T) {
	repo, ws := setupWBSRepo(t)
	ctx := context.Background()

	root := testutil.NewTestNode(ws.ID, "S", "Structure", testutil.WithNameID("Struktur"))
	require.NoError(t, repo.Create(ctx, root))
	child := testutil.NewTestNode(ws.ID, "S.1", "Foundation", testutil.WithParent(root), testutil.WithSortOrder(3))
	child.Description = "pile caps and ties"
	require.NoError(t, repo.Create(ctx, child))

	got, err := repo.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "S.1", got.Code)
	assert.Equal(t, "Foundation", got.NameEn)
	assert.Equal(t, "pile caps and ties", got.Description)
	assert.Equal(t, 1, got.Depth)
	assert.Equal(t, 3, got.SortOrder)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)
	assert.Nil(t, got.DefinitionID)

	got, err = repo.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
	assert.Equal(t, "Struktur", got.NameID)
}

func TestWBSNodeRepo_LevelIsDepthPlusOne(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	ws := testutil.NewTestWorkspace("")
	require.NoError(t, NewSQLiteWorkspaceRepo(database).Create(ctx, ws))
	repo := NewSQLiteWBSNodeRepo(database)

	root := testutil.NewTestNode(ws.ID, "A", "Architecture")
	child := testutil.NewTestNode(ws.ID, "A.1", "Walls", testutil.WithParent(root))
	require.NoError(t, repo.Create(ctx, root))
	require.NoError(t, repo.Create(ctx, child))

	var indent, level int
	require.NoError(t, database.QueryRow(`SELECT indent_level, level FROM wbs_nodes WHERE id = ?`, child.ID).Scan(&indent, &level))
	assert.Equal(t, 1, indent)
	assert.Equal(t, 2, level)
}

func TestWBSNodeRepo_ListByWorkspaceOrder(t *testing.T) {
	repo, ws := setupWBSRepo(t)
	ctx := context.Background()

	s := testutil.NewTestNode(ws.ID, "S", "Structure")
	a := testutil.NewTestNode(ws.ID, "A", "Architecture")
	m := testutil.NewTestNode(ws.ID, "M", "MEP", testutil.WithSortOrder(-1))
	for _, n := range []*domain.WBSNode{s, a, m} {
		require.NoError(t, repo.Create(ctx, n))
	}

	nodes, err := repo.ListByWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "M", nodes[0].Code)
	assert.Equal(t, "S", nodes[1].Code, "ties keep insertion order")
	assert.Equal(t, "A", nodes[2].Code)

	other, err := repo.ListByWorkspace(ctx, "other-workspace")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestWBSNodeRepo_UpdateAndSetDefinition(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	ws := testutil.NewTestWorkspace("")
	require.NoError(t, NewSQLiteWorkspaceRepo(database).Create(ctx, ws))
	repo := NewSQLiteWBSNodeRepo(database)
	boq := NewSQLiteBoqRepo(database)

	n := testutil.NewTestNode(ws.ID, "S", "Structure")
	require.NoError(t, repo.Create(ctx, n))

	n.NameEn = "Structural works"
	require.NoError(t, repo.Update(ctx, n))

	def := testutil.NewTestDefinition(ws.ID, "BOQ-S")
	require.NoError(t, boq.CreateDefinition(ctx, def))
	require.NoError(t, repo.SetDefinition(ctx, n.ID, &def.ID))

	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Structural works", got.NameEn)
	require.NotNil(t, got.DefinitionID)
	assert.Equal(t, def.ID, *got.DefinitionID)

	linked, err := repo.ListByDefinition(ctx, def.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)

	require.NoError(t, repo.SetDefinition(ctx, n.ID, nil))
	got, err = repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DefinitionID)
}

func TestWBSNodeRepo_DeleteCascadesToDescendants(t *testing.T) {
	repo, ws := setupWBSRepo(t)
	ctx := context.Background()

	s := testutil.NewTestNode(ws.ID, "S", "Structure")
	s1 := testutil.NewTestNode(ws.ID, "S.1", "Foundation", testutil.WithParent(s))
	s11 := testutil.NewTestNode(ws.ID, "S.1.1", "Pile", testutil.WithParent(s1))
	a := testutil.NewTestNode(ws.ID, "A", "Architecture")
	for _, n := range []*domain.WBSNode{s, s1, s11, a} {
		require.NoError(t, repo.Create(ctx, n))
	}

	require.NoError(t, repo.Delete(ctx, s.ID))

	nodes, err := repo.ListByWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "A", nodes[0].Code)

	_, err = repo.GetByID(ctx, s11.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWBSNodeRepo_MissingRowsReportNotFound(t *testing.T) {
	repo, _ := setupWBSRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Update(ctx, &domain.WBSNode{ID: "missing"}), ErrNotFound)
	assert.ErrorIs(t, repo.SetDefinition(ctx, "missing", nil), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
}
