package stock

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// Credit suma qty al bucket. Con price en good recalcula AvgPrice por promedio ponderado.
func Credit(p *entity.StockPosition, b entity.Bucket, qty int64, price *decimal.Decimal) error {
	if !b.Valid() {
		return domain.ErrInvalidInput
	}
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	if price != nil && price.IsNegative() {
		return domain.ErrInvalidInput
	}
	current := p.Quantity(b)
	if qty > math.MaxInt64-current {
		return domain.ErrInvalidQuantity
	}
	if b == entity.BucketGood && price != nil {
		p.AvgPrice = CostCalculator(current, p.AvgPrice, qty, *price)
	}
	p.SetQuantity(b, current+qty)
	return nil
}

// Debit resta qty del bucket; nunca deja saldo negativo.
func Debit(p *entity.StockPosition, b entity.Bucket, qty int64) error {
	if !b.Valid() {
		return domain.ErrInvalidInput
	}
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	current := p.Quantity(b)
	if qty > current {
		return &domain.StockError{
			SKUCodeID: p.SKUCodeID,
			HolderID:  p.Holder.ID,
			Bucket:    string(b),
			Requested: qty,
			Available: current,
		}
	}
	p.SetQuantity(b, current-qty)
	return nil
}

// Move pasa qty de un bucket a otro del mismo holder.
func Move(p *entity.StockPosition, from, to entity.Bucket, qty int64) error {
	if from == to {
		return domain.ErrInvalidInput
	}
	if err := Debit(p, from, qty); err != nil {
		return err
	}
	return Credit(p, to, qty, nil)
}
