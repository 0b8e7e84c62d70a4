package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/stock"
)

// LedgerUseCase cantidades autoritativas por holder, SKU y bucket.
// Cada operación es una transacción: entradas de compra, ajustes y movimientos entre buckets.
type LedgerUseCase struct {
	*engine
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(deps Deps) *LedgerUseCase {
	return &LedgerUseCase{engine: newEngine(deps)}
}

// AdjustInput entrada para Credit / Debit.
type AdjustInput struct {
	HolderID  string
	SKUCodeID string
	Bucket    entity.Bucket
	Quantity  int64
	Price     *decimal.Decimal // solo Credit sobre good
}

// MoveLine movimiento entre buckets de un mismo holder.
type MoveLine struct {
	SKUCodeID string
	Quantity  int64
	From      entity.Bucket
	To        entity.Bucket
}

// Credit suma cantidad a un bucket (ajuste administrativo).
func (uc *LedgerUseCase) Credit(ctx context.Context, actor Actor, in AdjustInput) (*entity.StockPosition, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	h, sku, err := uc.target(ctx, in.HolderID, in.SKUCodeID)
	if err != nil {
		return nil, err
	}
	if err := checkBucket(sku, in.Bucket); err != nil {
		return nil, err
	}
	var out *entity.StockPosition
	err = uc.execute(ctx, "credit", actor, []string{StockKey(h.ID, sku.ID)}, func(r TxRepos, j *journal) error {
		if err := uc.recheckBuckets(ctx, sku.ID, in.Bucket); err != nil {
			return err
		}
		pos, err := credit(ctx, r, j, h.Ref(), sku.ID, in.Bucket, in.Quantity, in.Price, entity.ReasonEntry, "")
		out = pos
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Debit resta cantidad de un bucket; falla con StockError si no alcanza.
func (uc *LedgerUseCase) Debit(ctx context.Context, actor Actor, in AdjustInput) (*entity.StockPosition, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	h, sku, err := uc.target(ctx, in.HolderID, in.SKUCodeID)
	if err != nil {
		return nil, err
	}
	if !in.Bucket.Valid() {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.StockPosition
	err = uc.execute(ctx, "debit", actor, []string{StockKey(h.ID, sku.ID)}, func(r TxRepos, j *journal) error {
		pos, err := debit(ctx, r, j, h.Ref(), sku.ID, in.Bucket, in.Quantity, entity.ReasonDebit, "")
		out = pos
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MoveBucket débito y crédito en la misma transacción (faulty->good, faulty->scrap, defective->scrap...).
func (uc *LedgerUseCase) MoveBucket(ctx context.Context, actor Actor, holderID string, line MoveLine) (*entity.StockPosition, error) {
	list, err := uc.MoveBatch(ctx, actor, holderID, []MoveLine{line})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

// MoveBatch aplica varios movimientos entre buckets de un holder en una sola transacción.
func (uc *LedgerUseCase) MoveBatch(ctx context.Context, actor Actor, holderID string, lines []MoveLine) ([]*entity.StockPosition, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	h, err := uc.holder(ctx, holderID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, h); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(lines))
	skuIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if l.From == l.To {
			return nil, domain.ErrInvalidInput
		}
		sku, err := uc.sku(ctx, l.SKUCodeID)
		if err != nil {
			return nil, err
		}
		if err := checkBucket(sku, l.From, l.To); err != nil {
			return nil, err
		}
		keys = append(keys, StockKey(h.ID, sku.ID))
		skuIDs = append(skuIDs, sku.ID)
	}
	refID := uuid.New().String()

	var out []*entity.StockPosition
	err = uc.execute(ctx, "move", actor, keys, func(r TxRepos, j *journal) error {
		for _, l := range lines {
			if err := uc.recheckBuckets(ctx, l.SKUCodeID, l.From, l.To); err != nil {
				return err
			}
		}
		positions, err := lockPositions(ctx, r, h.Ref(), skuIDs)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := stock.Move(positions[l.SKUCodeID], l.From, l.To, l.Quantity); err != nil {
				return err
			}
			j.record(h.Ref(), l.SKUCodeID, l.From, -l.Quantity, entity.ReasonMove, refID)
			j.record(h.Ref(), l.SKUCodeID, l.To, l.Quantity, entity.ReasonMove, refID)
		}
		out = out[:0]
		for _, id := range uniqueSorted(skuIDs) {
			pos := positions[id]
			pos.UpdatedAt = j.at
			if err := r.Stock.Upsert(ctx, pos); err != nil {
				return err
			}
			out = append(out, pos)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterEntry entrada de compra: acredita good con el precio de cada línea, todo o nada.
func (uc *LedgerUseCase) RegisterEntry(ctx context.Context, actor Actor, holderID string, batch PendingBatch) ([]*entity.StockPosition, error) {
	if actor.Role == entity.RoleEngineer {
		return nil, domain.ErrForbidden
	}
	if batch.Len() == 0 {
		return nil, domain.ErrInvalidInput
	}
	h, err := uc.holder(ctx, holderID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, h); err != nil {
		return nil, err
	}
	lines := batch.Lines()
	keys := make([]string, 0, len(lines))
	skuIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, err := uc.sku(ctx, l.SKUCodeID); err != nil {
			return nil, err
		}
		keys = append(keys, StockKey(h.ID, l.SKUCodeID))
		skuIDs = append(skuIDs, l.SKUCodeID)
	}
	refID := uuid.New().String()

	var out []*entity.StockPosition
	err = uc.execute(ctx, "entry", actor, keys, func(r TxRepos, j *journal) error {
		positions, err := lockPositions(ctx, r, h.Ref(), skuIDs)
		if err != nil {
			return err
		}
		out = make([]*entity.StockPosition, 0, len(lines))
		for _, l := range lines {
			pos := positions[l.SKUCodeID]
			price := l.Price
			if err := stock.Credit(pos, entity.BucketGood, l.Quantity, &price); err != nil {
				return err
			}
			pos.UpdatedAt = j.at
			if err := r.Stock.Upsert(ctx, pos); err != nil {
				return err
			}
			j.record(h.Ref(), l.SKUCodeID, entity.BucketGood, l.Quantity, entity.ReasonEntry, refID)
			out = append(out, pos)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Position devuelve la posición actual (cero si nunca se tocó).
func (uc *LedgerUseCase) Position(ctx context.Context, actor Actor, holderID, skuCodeID string) (*entity.StockPosition, error) {
	h, sku, err := uc.target(ctx, holderID, skuCodeID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, h); err != nil {
		return nil, err
	}
	return uc.deps.Stock.Get(ctx, h.Ref(), sku.ID)
}

// Positions lista las posiciones de un holder.
func (uc *LedgerUseCase) Positions(ctx context.Context, actor Actor, holderID string) ([]*entity.StockPosition, error) {
	h, err := uc.holder(ctx, holderID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, h); err != nil {
		return nil, err
	}
	return uc.deps.Stock.List(ctx, h.ID)
}

func (uc *LedgerUseCase) target(ctx context.Context, holderID, skuCodeID string) (*entity.Holder, *entity.SKUCode, error) {
	h, err := uc.holder(ctx, holderID)
	if err != nil {
		return nil, nil, err
	}
	sku, err := uc.sku(ctx, skuCodeID)
	if err != nil {
		return nil, nil, err
	}
	return h, sku, nil
}
