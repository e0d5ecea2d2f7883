package service

import (
	"context"
	"errors"
	"testing"

	"github.com/adidayastudio/from-adidaya-sub005/internal/domain"
	"github.com/adidayastudio/from-adidaya-sub005/internal/repository"
	"github.com/adidayastudio/from-adidaya-sub005/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceService_CreateAndResolve(t *testing.T) {
	svc := NewWorkspaceService(repository.NewSQLiteWorkspaceRepo(testutil.NewTestDB(t)))
	ctx := context.Background()

	ws, err := svc.Create(ctx, " villa01 ", "")
	require.NoError(t, err)
	assert.Equal(t, "VILLA01", ws.Code)
	assert.Equal(t, "VILLA01", ws.Name)

	_, err = svc.Create(ctx, "VILLA01", "Again")
	assert.Error(t, err)
	_, err = svc.Create(ctx, "1BAD", "")
	assert.Error(t, err)

	byCode, err := svc.Resolve(ctx, "villa01")
	require.NoError(t, err)
	assert.Equal(t, ws.ID, byCode.ID)
	byID, err := svc.Resolve(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "VILLA01", byID.Code)

	_, err = svc.Resolve(ctx, "NOPE")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = svc.Resolve(ctx, "")
	assert.Error(t, err)
}

func TestWorkspaceService_ListAndDelete(t *testing.T) {
	svc := NewWorkspaceService(repository.NewSQLiteWorkspaceRepo(testutil.NewTestDB(t)))
	ctx := context.Background()

	_, err := svc.Create(ctx, "RSD", "Residence")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "VILLA01", "Villa")
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "RSD", list[0].Code)

	require.NoError(t, svc.Delete(ctx, "rsd"))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
