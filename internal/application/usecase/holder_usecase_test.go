package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/application/usecase"
	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/infrastructure/memory"
)

func TestHolder_UnaSolaCasaMatriz(t *testing.T) {
	uc := usecase.NewHolderUseCase(memory.NewStore().Holders())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateHolderRequest{Type: "head_office", Name: "HQ"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateHolderRequest{Type: "head_office", Name: "HQ 2"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestHolder_IngenieroRequiereSucursal(t *testing.T) {
	uc := usecase.NewHolderUseCase(memory.NewStore().Holders())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateHolderRequest{Type: "engineer", Name: "EngineerX"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	head, err := uc.Create(ctx, dto.CreateHolderRequest{Type: "head_office", Name: "HQ"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateHolderRequest{Type: "engineer", Name: "EngineerX", ParentID: head.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el padre debe ser una sucursal")

	branch, err := uc.Create(ctx, dto.CreateHolderRequest{Type: "branch", Name: "BranchA", ParentID: head.ID})
	require.NoError(t, err)
	assert.Empty(t, branch.ParentID, "solo los ingenieros tienen padre")

	eng, err := uc.Create(ctx, dto.CreateHolderRequest{Type: "engineer", Name: "EngineerX", ParentID: branch.ID})
	require.NoError(t, err)
	assert.Equal(t, branch.ID, eng.ParentID)

	list, err := uc.List(ctx, "engineer", branch.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "EngineerX", list.Items[0].Name)

	_, err = uc.List(ctx, "warehouse", "", 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHolder_Update(t *testing.T) {
	uc := usecase.NewHolderUseCase(memory.NewStore().Holders())
	ctx := context.Background()
	branch, err := uc.Create(ctx, dto.CreateHolderRequest{Type: "branch", Name: "BranchA"})
	require.NoError(t, err)

	name := "  Sucursal   Centro "
	updated, err := uc.Update(ctx, branch.ID, dto.UpdateHolderRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Sucursal Centro", updated.Name)

	missing, err := uc.Update(ctx, "no-existe", dto.UpdateHolderRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, missing)
}
