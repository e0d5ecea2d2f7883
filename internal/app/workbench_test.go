package app

import (
	"context"
	"testing"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
	"github.com/adidayastudio/from-adidaya-sub005/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpener_OpenLoadsEveryEditor(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	ws := testutil.NewTestWorkspace("VILLA01")
	require.NoError(t, repository.NewSQLiteWorkspaceRepo(database).Create(ctx, ws))

	s := testutil.NewTestNode(ws.ID, "S", "Structure")
	require.NoError(t, repository.NewSQLiteWBSNodeRepo(database).Create(ctx, s))
	class := testutil.NewTestPricingClass(ws.ID, "X", testutil.WithCost("S", 100))
	require.NoError(t, repository.NewSQLitePricingClassRepo(database).Create(ctx, class))
	require.NoError(t, repository.NewSQLiteLocationFactorRepo(database).Create(ctx,
		testutil.NewTestLocation(ws.ID, "Bali", "", 1.1, 1.0)))

	opener := NewOpener(database, domain.NewDisciplineCatalog(domain.DefaultDisciplines()), nil)
	wb, err := opener.Open(ctx, ws)
	require.NoError(t, err)

	assert.Equal(t, []string{"S"}, wb.WBS.RootCodes())
	assert.Equal(t, 100.0, wb.Cost.GrandTotal(class.ID))
	assert.Len(t, wb.Locations.Records(), 1)
	assert.Empty(t, wb.Boq.Definitions())
}

func TestWorkbench_EditorsShareTheStore(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	ws := testutil.NewTestWorkspace("")
	require.NoError(t, repository.NewSQLiteWorkspaceRepo(database).Create(ctx, ws))

	wb, err := NewOpener(database, domain.NewDisciplineCatalog(domain.DefaultDisciplines()), nil).Open(ctx, ws)
	require.NoError(t, err)

	s, err := wb.WBS.AddRoot(ctx, "S")
	require.NoError(t, err)
	require.NoError(t, wb.Load(ctx))

	assert.Equal(t, []string{"S"}, wb.Cost.RootCodes())
	def, err := wb.Boq.CreateAndLink(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "BOQ-S", def.Code)
}
