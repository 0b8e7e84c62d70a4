package ledger_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

func TestLedger_CreditYDebitSoloAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := ledger.AdjustInput{HolderID: f.branchA.ID, SKUCodeID: f.sku1.ID, Bucket: entity.BucketGood, Quantity: 1}

	_, err := f.ledger.Credit(ctx, f.cscA, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.ledger.Debit(ctx, f.cscA, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLedger_DebitInsuficienteNoCambia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 3)

	_, err := f.ledger.Debit(ctx, f.admin, ledger.AdjustInput{
		HolderID: f.branchA.ID, SKUCodeID: f.sku1.ID, Bucket: entity.BucketGood, Quantity: 4,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), f.position(t, f.branchA, f.sku1).Good)

	_, err = f.ledger.Debit(ctx, f.admin, ledger.AdjustInput{
		HolderID: f.branchA.ID, SKUCodeID: f.sku1.ID, Bucket: entity.BucketGood, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestLedger_CreditDefectuosoRequiereSKUMarcado(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Credit(context.Background(), f.admin, ledger.AdjustInput{
		HolderID: f.branchA.ID, SKUCodeID: f.sku1.ID, Bucket: entity.BucketDefective, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_CreditDefectuosoReleeMarcaConClaveTomada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	unlock, err := f.deps.Locker.Lock(ctx, ledger.StockKey(f.branchA.ID, f.skuDef.ID))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.ledger.Credit(ctx, f.admin, ledger.AdjustInput{
			HolderID: f.branchA.ID, SKUCodeID: f.skuDef.ID, Bucket: entity.BucketDefective, Quantity: 2,
		})
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)

	// la marca cambia mientras el crédito espera la clave
	off := *f.skuDef
	off.IsDefective = false
	require.NoError(t, f.store.SKUCodes().Update(ctx, &off))
	unlock()

	assert.ErrorIs(t, <-done, domain.ErrInvalidInput)
	pos, err := f.store.Stock().Get(ctx, f.branchA.Ref(), f.skuDef.ID)
	require.NoError(t, err)
	assert.Zero(t, pos.Defective)
}

func TestLedger_MoveBucketFaultyAScrap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ledger.Credit(ctx, f.admin, ledger.AdjustInput{
		HolderID: f.branchA.ID, SKUCodeID: f.sku1.ID, Bucket: entity.BucketFaulty, Quantity: 5,
	})
	require.NoError(t, err)

	pos, err := f.ledger.MoveBucket(ctx, f.cscA, f.branchA.ID, ledger.MoveLine{
		SKUCodeID: f.sku1.ID, Quantity: 2, From: entity.BucketFaulty, To: entity.BucketScrap,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos.Faulty)
	assert.Equal(t, int64(2), pos.Scrap)
	assert.Equal(t, int64(5), pos.Total(), "el movimiento conserva el total")

	_, err = f.ledger.MoveBucket(ctx, f.cscA, f.branchA.ID, ledger.MoveLine{
		SKUCodeID: f.sku1.ID, Quantity: 9, From: entity.BucketFaulty, To: entity.BucketGood,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.ledger.MoveBucket(ctx, f.cscA, f.branchA.ID, ledger.MoveLine{
		SKUCodeID: f.sku1.ID, Quantity: 1, From: entity.BucketFaulty, To: entity.BucketFaulty,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_MoveBatchTodoONada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 4)
	f.seed(t, f.branchA, f.sku2, 1)

	_, err := f.ledger.MoveBatch(ctx, f.cscA, f.branchA.ID, []ledger.MoveLine{
		{SKUCodeID: f.sku1.ID, Quantity: 4, From: entity.BucketGood, To: entity.BucketFaulty},
		{SKUCodeID: f.sku2.ID, Quantity: 2, From: entity.BucketGood, To: entity.BucketFaulty},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(4), f.position(t, f.branchA, f.sku1).Good)
	assert.Zero(t, f.position(t, f.branchA, f.sku1).Faulty)

	events, err := f.store.LedgerEvents().List(ctx, repository.LedgerEventFilter{HolderID: f.branchA.ID})
	require.NoError(t, err)
	for _, ev := range events {
		assert.NotEqual(t, entity.ReasonMove, ev.Reason, "no quedan eventos de una transacción fallida")
	}
}

func TestLedger_RegisterEntryPromedioPonderado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := batch(t,
		ledger.BatchLine{SKUCodeID: f.sku1.ID, Quantity: 10, Price: decimal.NewFromInt(100)},
		ledger.BatchLine{SKUCodeID: f.sku2.ID, Quantity: 1, Price: decimal.NewFromInt(7)},
	)
	_, err := f.ledger.RegisterEntry(ctx, f.cscA, f.branchA.ID, b)
	require.NoError(t, err)

	b2 := batch(t, ledger.BatchLine{SKUCodeID: f.sku1.ID, Quantity: 10, Price: decimal.NewFromInt(200)})
	out, err := f.ledger.RegisterEntry(ctx, f.cscA, f.branchA.ID, b2)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(20), out[0].Good)
	assert.True(t, out[0].AvgPrice.Equal(decimal.NewFromInt(150)), "avg esperado 150, obtenido %s", out[0].AvgPrice)

	_, err = f.ledger.RegisterEntry(ctx, f.engineerX, f.engX.ID, b2)
	assert.ErrorIs(t, err, domain.ErrForbidden, "los ingenieros no registran compras")
}

func TestLedger_RegisterEntryDesbordeEsCantidadInvalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Stock().Upsert(ctx, &entity.StockPosition{
		Holder: f.branchA.Ref(), SKUCodeID: f.sku1.ID, Good: math.MaxInt64, AvgPrice: decimal.NewFromInt(5),
	}))

	b := batch(t, ledger.BatchLine{SKUCodeID: f.sku1.ID, Quantity: 1, Price: decimal.NewFromInt(10)})
	_, err := f.ledger.RegisterEntry(ctx, f.cscA, f.branchA.ID, b)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)

	pos, err := f.store.Stock().Get(ctx, f.branchA.Ref(), f.sku1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), pos.Good)
	assert.True(t, pos.AvgPrice.Equal(decimal.NewFromInt(5)))
}

func TestLedger_TrasladoNoCambiaPromedio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ledger.RegisterEntry(ctx, f.cscA, f.branchA.ID,
		batch(t, ledger.BatchLine{SKUCodeID: f.sku1.ID, Quantity: 10, Price: decimal.NewFromInt(40)}))
	require.NoError(t, err)

	created, err := f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindEngineerIssue, ReceiverID: f.engX.ID, Batch: batch(t, line(f.sku1.ID, 5)),
	})
	require.NoError(t, err)
	_, err = f.transfers.ResolveReceived(ctx, f.engineerX, created[0].ID)
	require.NoError(t, err)

	assert.True(t, f.position(t, f.branchA, f.sku1).AvgPrice.Equal(decimal.NewFromInt(40)))
	assert.True(t, f.position(t, f.engX, f.sku1).AvgPrice.IsZero())
}

func TestLedger_PositionsRespetaPermisos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.engX, f.sku1, 2)

	list, err := f.ledger.Positions(ctx, f.cscA, f.engX.ID)
	require.NoError(t, err, "el csc ve el stock de sus ingenieros")
	require.Len(t, list, 1)

	cscB := ledger.Actor{UserID: "u-cscb", HolderID: f.branchB.ID, Role: entity.RoleCSC}
	_, err = f.ledger.Positions(ctx, cscB, f.engX.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.ledger.Position(ctx, f.admin, f.branchA.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
