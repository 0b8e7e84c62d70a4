package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

func TestJob_AtomicidadLineaInsuficiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 10)
	f.seed(t, f.branchA, f.sku2, 10)

	_, err := f.jobs.Submit(ctx, f.cscA, ledger.SubmitJobInput{
		JobNo:    "JOB-1",
		SellFrom: entity.SellFromBranch,
		Batch:    batch(t, line(f.sku1.ID, 5), line(f.sku2.ID, 999999)),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var se *domain.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, f.sku2.ID, se.SKUCodeID, "el error nombra el SKU que no alcanza")

	assert.Equal(t, int64(10), f.position(t, f.branchA, f.sku1).Good)
	assert.Equal(t, int64(10), f.position(t, f.branchA, f.sku2).Good)
	jobs, err := f.jobs.List(ctx, f.admin, repository.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestJob_DescuentaStockDelIngeniero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.engX, f.sku1, 6)

	job, err := f.jobs.Submit(ctx, f.engineerX, ledger.SubmitJobInput{
		JobNo:      " JOB-2 ",
		SellFrom:   entity.SellFromEngineer,
		EngineerID: f.engX.ID,
		Batch:      batch(t, ledger.BatchLine{SKUCodeID: f.sku1.ID, Quantity: 2, Price: decimal.NewFromInt(35)}),
	})
	require.NoError(t, err)
	assert.Equal(t, "JOB-2", job.JobNo)
	require.Len(t, job.Items, 1)
	assert.Equal(t, 1, job.Items[0].Position)
	assert.True(t, job.Items[0].Total().Equal(decimal.NewFromInt(70)))
	assert.Equal(t, int64(4), f.position(t, f.engX, f.sku1).Good)

	got, err := f.jobs.GetByID(ctx, f.cscA, job.ID)
	require.NoError(t, err, "el csc ve trabajos de sus ingenieros")
	assert.Equal(t, job.ID, got.ID)
}

func TestJob_ValidacionDeEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.jobs.Submit(ctx, f.cscA, ledger.SubmitJobInput{SellFrom: entity.SellFromBranch, Batch: batch(t, line(f.sku1.ID, 1))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin número de trabajo")

	_, err = f.jobs.Submit(ctx, f.cscA, ledger.SubmitJobInput{JobNo: "J", SellFrom: entity.SellFromEngineer, Batch: batch(t, line(f.sku1.ID, 1))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin ingeniero")

	_, err = f.jobs.Submit(ctx, f.cscA, ledger.SubmitJobInput{JobNo: "J", SellFrom: entity.SellFromBranch, BranchID: f.engX.ID, Batch: batch(t, line(f.sku1.ID, 1))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un ingeniero no es sucursal")

	_, err = f.jobs.Submit(ctx, f.cscA, ledger.SubmitJobInput{JobNo: "J", SellFrom: entity.SellFromBranch, BranchID: f.branchB.ID, Batch: batch(t, line(f.sku1.ID, 1))})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
