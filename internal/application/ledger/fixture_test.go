package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/infrastructure/memory"
)

// fixture casa matriz, dos sucursales, dos ingenieros de BranchA y dos SKU.
type fixture struct {
	store     *memory.Store
	deps      ledger.Deps
	ledger    *ledger.LedgerUseCase
	transfers *ledger.TransferUseCase
	jobs      *ledger.JobUseCase

	head, branchA, branchB, engX, engY *entity.Holder
	sku1, sku2, skuDef                 *entity.SKUCode

	admin, cscA, engineerX ledger.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()

	f := &fixture{store: s}
	f.head = &entity.Holder{ID: "head", Type: entity.HolderHeadOffice, Name: "Casa Matriz"}
	f.branchA = &entity.Holder{ID: "branch-a", Type: entity.HolderBranch, Name: "BranchA"}
	f.branchB = &entity.Holder{ID: "branch-b", Type: entity.HolderBranch, Name: "BranchB"}
	f.engX = &entity.Holder{ID: "eng-x", Type: entity.HolderEngineer, Name: "EngineerX", ParentID: "branch-a"}
	f.engY = &entity.Holder{ID: "eng-y", Type: entity.HolderEngineer, Name: "EngineerY", ParentID: "branch-a"}
	for _, h := range []*entity.Holder{f.head, f.branchA, f.branchB, f.engX, f.engY} {
		require.NoError(t, s.Holders().Create(ctx, h))
	}

	require.NoError(t, s.Categories().Create(ctx, &entity.Category{ID: "cat", Name: "Smartphones", NameKey: "smartphones"}))
	require.NoError(t, s.Models().Create(ctx, &entity.Model{ID: "model", CategoryID: "cat", Name: "X1", NameKey: "x1"}))
	require.NoError(t, s.Items().Create(ctx, &entity.Item{ID: "item", ModelID: "model", Name: "Pantalla", NameKey: "pantalla"}))
	f.sku1 = &entity.SKUCode{ID: "SKU-1", ItemID: "item", Code: "SKU-1", CodeKey: "sku-1"}
	f.sku2 = &entity.SKUCode{ID: "SKU-2", ItemID: "item", Code: "SKU-2", CodeKey: "sku-2"}
	f.skuDef = &entity.SKUCode{ID: "SKU-D", ItemID: "item", Code: "SKU-D", CodeKey: "sku-d", IsDefective: true}
	for _, sku := range []*entity.SKUCode{f.sku1, f.sku2, f.skuDef} {
		require.NoError(t, s.SKUCodes().Create(ctx, sku))
	}

	f.deps = ledger.Deps{
		Tx:        s,
		SKUs:      s.SKUCodes(),
		Holders:   s.Holders(),
		Stock:     s.Stock(),
		Transfers: s.Transfers(),
		Jobs:      s.Jobs(),
		Locker:    memory.NewKeyLocker(),
	}
	f.ledger = ledger.NewLedgerUseCase(f.deps)
	f.transfers = ledger.NewTransferUseCase(f.deps)
	f.jobs = ledger.NewJobUseCase(f.deps)

	f.admin = ledger.Actor{UserID: "u-admin", HolderID: f.head.ID, Role: entity.RoleAdmin}
	f.cscA = ledger.Actor{UserID: "u-csc", HolderID: f.branchA.ID, Role: entity.RoleCSC}
	f.engineerX = ledger.Actor{UserID: "u-engx", HolderID: f.engX.ID, Role: entity.RoleEngineer}
	return f
}

// seed acredita stock bueno con precio 10.
func (f *fixture) seed(t *testing.T, h *entity.Holder, sku *entity.SKUCode, qty int64) {
	t.Helper()
	price := decimal.NewFromInt(10)
	_, err := f.ledger.Credit(context.Background(), f.admin, ledger.AdjustInput{
		HolderID: h.ID, SKUCodeID: sku.ID, Bucket: entity.BucketGood, Quantity: qty, Price: &price,
	})
	require.NoError(t, err)
}

func (f *fixture) position(t *testing.T, h *entity.Holder, sku *entity.SKUCode) *entity.StockPosition {
	t.Helper()
	pos, err := f.store.Stock().Get(context.Background(), h.Ref(), sku.ID)
	require.NoError(t, err)
	return pos
}

func batch(t *testing.T, lines ...ledger.BatchLine) ledger.PendingBatch {
	t.Helper()
	b, err := ledger.NewPendingBatch(lines...)
	require.NoError(t, err)
	return b
}

func line(sku string, qty int64) ledger.BatchLine {
	return ledger.BatchLine{SKUCodeID: sku, Quantity: qty}
}
