package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

// ─── Escenario base ───────────────────────────────────────────────────────────

func TestTransfer_EscenarioBranchAEngineerX(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 20)

	created, err := f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindEngineerIssue, ReceiverID: f.engX.ID, Batch: batch(t, line(f.sku1.ID, 5)),
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, entity.TransferOpen, created[0].Status)
	assert.Equal(t, int64(15), f.position(t, f.branchA, f.sku1).Good, "la reserva descuenta al crear")

	rec, err := f.transfers.ResolveReceived(ctx, f.engineerX, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferReceived, rec.Status)
	assert.NotNil(t, rec.EndAt)
	assert.Equal(t, int64(5), f.position(t, f.engX, f.sku1).Good)
	assert.Equal(t, int64(15), f.position(t, f.branchA, f.sku1).Good)

	_, err = f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindEngineerIssue, ReceiverID: f.engY.ID, Batch: batch(t, line(f.sku1.ID, 20)),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var se *domain.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, f.sku1.ID, se.SKUCodeID)
	assert.Equal(t, int64(15), se.Available)
	assert.Equal(t, int64(20), se.Requested)
	assert.Equal(t, int64(15), f.position(t, f.branchA, f.sku1).Good)
}

// ─── Conservación ─────────────────────────────────────────────────────────────

func TestTransfer_RechazoRestauraEmisor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 8)
	before := f.position(t, f.branchA, f.sku1).Good

	created, err := f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindEngineerIssue, ReceiverID: f.engX.ID, Batch: batch(t, line(f.sku1.ID, 3)),
	})
	require.NoError(t, err)

	_, err = f.transfers.ResolveRejected(ctx, f.engineerX, created[0].ID, "   ")
	require.ErrorIs(t, err, domain.ErrInvalidInput, "rechazo sin nota")

	rej, err := f.transfers.ResolveRejected(ctx, f.engineerX, created[0].ID, "pieza equivocada")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferRejected, rej.Status)
	assert.Equal(t, "pieza equivocada", rej.EndReason)
	assert.Equal(t, before, f.position(t, f.branchA, f.sku1).Good)
	assert.Zero(t, f.position(t, f.engX, f.sku1).Good)
}

func TestTransfer_RecibidoConservaCantidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 10)

	created, err := f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindEngineerIssue, ReceiverID: f.engX.ID, Batch: batch(t, line(f.sku1.ID, 4)),
	})
	require.NoError(t, err)
	_, err = f.transfers.ResolveReceived(ctx, f.engineerX, created[0].ID)
	require.NoError(t, err)

	total := f.position(t, f.branchA, f.sku1).Good + f.position(t, f.engX, f.sku1).Good
	assert.Equal(t, int64(10), total)

	events, err := f.store.LedgerEvents().List(ctx, repository.LedgerEventFilter{SKUCodeID: f.sku1.ID})
	require.NoError(t, err)
	var reserved, received int64
	for _, ev := range events {
		switch ev.Reason {
		case entity.ReasonTransferReserve:
			reserved += ev.Delta
		case entity.ReasonTransferReceive:
			received += ev.Delta
		}
	}
	assert.Equal(t, int64(-4), reserved)
	assert.Equal(t, int64(4), received)
}

// ─── Máquina de estados ───────────────────────────────────────────────────────

func TestTransfer_EstadoTerminalNoMutaDosVeces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 10)

	created, err := f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindEngineerIssue, ReceiverID: f.engX.ID, Batch: batch(t, line(f.sku1.ID, 5)),
	})
	require.NoError(t, err)
	id := created[0].ID
	_, err = f.transfers.ResolveReceived(ctx, f.engineerX, id)
	require.NoError(t, err)

	_, err = f.transfers.ResolveReceived(ctx, f.engineerX, id)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = f.transfers.ResolveRejected(ctx, f.engineerX, id, "tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = f.transfers.Approve(ctx, f.admin, id)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	assert.Equal(t, int64(5), f.position(t, f.engX, f.sku1).Good)
	assert.Equal(t, int64(5), f.position(t, f.branchA, f.sku1).Good)
}

func TestTransfer_AprobacionEntreSucursales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 10)

	created, err := f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindTransfer, ReceiverID: f.branchB.ID, Batch: batch(t, line(f.sku1.ID, 2)),
	})
	require.NoError(t, err)
	id := created[0].ID

	_, err = f.transfers.Approve(ctx, f.cscA, id)
	assert.ErrorIs(t, err, domain.ErrForbidden, "solo admin aprueba")

	approved, err := f.transfers.Approve(ctx, f.admin, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferApproved, approved.Status)
	assert.Equal(t, "Part in Transit", approved.Status.Label())

	cscB := ledger.Actor{UserID: "u-cscb", HolderID: f.branchB.ID, Role: entity.RoleCSC}
	_, err = f.transfers.ResolveReceived(ctx, f.cscA, id)
	assert.ErrorIs(t, err, domain.ErrForbidden, "el emisor no recibe")
	rec, err := f.transfers.ResolveReceived(ctx, cscB, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferReceived, rec.Status)
	assert.Equal(t, int64(2), f.position(t, f.branchB, f.sku1).Good)
}

func TestTransfer_AprobarSinRequerirloFalla(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 10)

	created, err := f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindEngineerIssue, ReceiverID: f.engX.ID, Batch: batch(t, line(f.sku1.ID, 1)),
	})
	require.NoError(t, err)
	_, err = f.transfers.Approve(ctx, f.admin, created[0].ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestTransfer_ResolveDespachaPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 10)
	created, err := f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindEngineerIssue, ReceiverID: f.engX.ID, Batch: batch(t, line(f.sku1.ID, 1)),
	})
	require.NoError(t, err)

	_, err = f.transfers.Resolve(ctx, f.engineerX, created[0].ID, entity.TransferOpen, "")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = f.transfers.Resolve(ctx, f.engineerX, created[0].ID, "perdido", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	rec, err := f.transfers.Resolve(ctx, f.engineerX, created[0].ID, entity.TransferReceived, "")
	require.NoError(t, err)
	assert.Equal(t, entity.TransferReceived, rec.Status)
}

// ─── Tipos de traslado ────────────────────────────────────────────────────────

func TestTransfer_DefectuosoVaACasaMatriz(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ledger.Credit(ctx, f.admin, ledger.AdjustInput{
		HolderID: f.branchA.ID, SKUCodeID: f.skuDef.ID, Bucket: entity.BucketDefective, Quantity: 3,
	})
	require.NoError(t, err)

	created, err := f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindDefective, Batch: batch(t, line(f.skuDef.ID, 3)),
	})
	require.NoError(t, err)
	assert.Equal(t, f.head.ID, created[0].Receiver.ID)
	assert.Equal(t, entity.BucketDefective, created[0].FromBucket)

	_, err = f.transfers.ResolveReceived(ctx, f.admin, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.position(t, f.head, f.skuDef).Defective)
	assert.Zero(t, f.position(t, f.branchA, f.skuDef).Defective)
}

func TestTransfer_DefectuosoRequiereSKUMarcado(t *testing.T) {
	f := newFixture(t)
	_, err := f.transfers.Create(context.Background(), f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindDefective, Batch: batch(t, line(f.sku1.ID, 1)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_IngenieroDevuelveASuSucursal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.engX, f.sku1, 4)

	created, err := f.transfers.Create(ctx, f.engineerX, ledger.CreateTransferInput{
		Kind: entity.KindEngineerReturn, Batch: batch(t, line(f.sku1.ID, 4)),
	})
	require.NoError(t, err)
	assert.Equal(t, f.branchA.ID, created[0].Receiver.ID)
	assert.Zero(t, f.position(t, f.engX, f.sku1).Good)
}

func TestTransfer_IngenieroDeOtraSucursalRechazado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchB, f.sku1, 4)
	cscB := ledger.Actor{UserID: "u-cscb", HolderID: f.branchB.ID, Role: entity.RoleCSC}

	_, err := f.transfers.Create(ctx, cscB, ledger.CreateTransferInput{
		Kind: entity.KindEngineerIssue, ReceiverID: f.engX.ID, Batch: batch(t, line(f.sku1.ID, 1)),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_LoteEsTodoONada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 10)
	f.seed(t, f.branchA, f.sku2, 1)

	_, err := f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindEngineerIssue, ReceiverID: f.engX.ID,
		Batch: batch(t, line(f.sku1.ID, 5), line(f.sku2.ID, 2)),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.position(t, f.branchA, f.sku1).Good)
	assert.Equal(t, int64(1), f.position(t, f.branchA, f.sku2).Good)

	list, err := f.transfers.List(ctx, f.admin, repository.TransferFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransfer_VisibilidadPorHolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 10)
	created, err := f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
		Kind: entity.KindEngineerIssue, ReceiverID: f.engX.ID, Batch: batch(t, line(f.sku1.ID, 1)),
	})
	require.NoError(t, err)

	engY := ledger.Actor{UserID: "u-engy", HolderID: f.engY.ID, Role: entity.RoleEngineer}
	_, err = f.transfers.GetByID(ctx, engY, created[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	list, err := f.transfers.List(ctx, engY, repository.TransferFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := f.transfers.GetByID(ctx, f.engineerX, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, created[0].ID, got.ID)
}

// ─── Concurrencia ─────────────────────────────────────────────────────────────

func TestTransfer_SinDobleGasto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, eng := range []*entity.Holder{f.engX, f.engY} {
		wg.Add(1)
		go func(i int, receiver string) {
			defer wg.Done()
			_, errs[i] = f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
				Kind: entity.KindEngineerIssue, ReceiverID: receiver, Batch: batch(t, line(f.sku1.ID, 7)),
			})
		}(i, eng.ID)
	}
	wg.Wait()

	ok, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, int64(3), f.position(t, f.branchA, f.sku1).Good)
}

func TestTransfer_NoNegatividadBajoCarga(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.branchA, f.sku1, 50)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receiver := f.engX.ID
			if i%2 == 0 {
				receiver = f.engY.ID
			}
			_, _ = f.transfers.Create(ctx, f.cscA, ledger.CreateTransferInput{
				Kind: entity.KindEngineerIssue, ReceiverID: receiver, Batch: batch(t, line(f.sku1.ID, 3)),
			})
		}(i)
	}
	wg.Wait()

	pos := f.position(t, f.branchA, f.sku1)
	assert.GreaterOrEqual(t, pos.Good, int64(0))
	list, err := f.transfers.List(ctx, f.admin, repository.TransferFilter{})
	require.NoError(t, err)
	var reserved int64
	for _, tr := range list {
		reserved += tr.Quantity
	}
	assert.Equal(t, int64(50), pos.Good+reserved)
}
