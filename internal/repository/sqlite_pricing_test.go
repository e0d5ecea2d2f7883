package repository

import (
	"context"
	"testing"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPricingRepo(t *testing.T) (*SQLitePricingClassRepo, *domain.Workspace) {
	t.Helper()
	database := testutil.NewTestDB(t)
	ws := testutil.NewTestWorkspace("")
	require.NoError(t, NewSQLiteWorkspaceRepo(database).Create(context.Background(), ws))
	return NewSQLitePricingClassRepo(database), ws
}

func TestPricingClassRepo_ValuesPersistAsJSON(t *testing.T) {
	repo, ws := setupPricingRepo(t)
	ctx := context.Background()

	c := testutil.NewTestPricingClass(ws.ID, "PREMIUM",
		testutil.WithCost("S", 100),
		testutil.WithCost("S.1", 40.5),
	)
	c.Values["A"] = domain.CostEntry{Cost: 300, Percentage: 75}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "PREMIUM", got.ClassCode)
	assert.Equal(t, c.Values, got.Values)
}

func TestPricingClassRepo_EmptyValuesDecodeToEmptyMap(t *testing.T) {
	repo, ws := setupPricingRepo(t)
	ctx := context.Background()

	c := testutil.NewTestPricingClass(ws.ID, "BUDGET")
	c.Values = nil
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Values)
	assert.Empty(t, got.Values)
}

func TestPricingClassRepo_UpdateListDelete(t *testing.T) {
	repo, ws := setupPricingRepo(t)
	ctx := context.Background()

	premium := testutil.NewTestPricingClass(ws.ID, "PREMIUM", testutil.WithClassSortOrder(2))
	budget := testutil.NewTestPricingClass(ws.ID, "BUDGET", testutil.WithClassSortOrder(1))
	require.NoError(t, repo.Create(ctx, premium))
	require.NoError(t, repo.Create(ctx, budget))

	budget.Values["S"] = domain.CostEntry{Cost: 10, Percentage: 100}
	budget.FinishLevel = "basic"
	require.NoError(t, repo.Update(ctx, budget))

	classes, err := repo.ListByWorkspace(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "BUDGET", classes[0].ClassCode)
	assert.Equal(t, "basic", classes[0].FinishLevel)
	assert.Equal(t, 100.0, classes[0].Values["S"].Percentage)

	require.NoError(t, repo.Delete(ctx, premium.ID))
	_, err = repo.GetByID(ctx, premium.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPricingClassRepo_ClassCodeUniquePerWorkspace(t *testing.T) {
	repo, ws := setupPricingRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestPricingClass(ws.ID, "BUDGET")))
	assert.Error(t, repo.Create(ctx, testutil.NewTestPricingClass(ws.ID, "BUDGET")))
}
