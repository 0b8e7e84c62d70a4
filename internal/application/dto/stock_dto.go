package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLineRequest línea de entrada, traslado o trabajo.
type StockLineRequest struct {
	SKUCodeID string          `json:"skuCodeId" validate:"required,max=64"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
}

// StockEntryRequest body para POST /api/stock/entry.
type StockEntryRequest struct {
	HolderID string             `json:"holderId" validate:"omitempty,max=64"`
	List     []StockLineRequest `json:"list" validate:"required,min=1,dive"`
}

// MoveLineRequest línea de movimiento entre buckets.
type MoveLineRequest struct {
	SKUCodeID  string `json:"skuCodeId" validate:"required,max=64"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
	FromBucket string `json:"fromBucket" validate:"required,oneof=good defective faulty scrap"`
	ToBucket   string `json:"toBucket" validate:"required,oneof=good defective faulty scrap,nefield=FromBucket"`
}

// StockMoveRequest body para POST /api/stock/move.
type StockMoveRequest struct {
	HolderID string            `json:"holderId" validate:"omitempty,max=64"`
	List     []MoveLineRequest `json:"list" validate:"required,min=1,dive"`
}

// StockAdjustRequest body para POST /api/stock/adjust (solo admin).
// Price aplica a un crédito sobre good y recalcula el promedio.
type StockAdjustRequest struct {
	HolderID  string           `json:"holderId" validate:"required,max=64"`
	SKUCodeID string           `json:"skuCodeId" validate:"required,max=64"`
	Bucket    string           `json:"bucket" validate:"required,oneof=good defective faulty scrap"`
	Direction string           `json:"direction" validate:"required,oneof=credit debit"`
	Quantity  int64            `json:"quantity" validate:"required,gt=0"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// StockPositionResponse posición de stock por holder y SKU.
type StockPositionResponse struct {
	HolderID   string          `json:"holderId"`
	HolderType string          `json:"holderType"`
	SKUCodeID  string          `json:"skuCodeId"`
	Good       int64           `json:"good"`
	Defective  int64           `json:"defective"`
	Faulty     int64           `json:"faulty"`
	Scrap      int64           `json:"scrap"`
	AvgPrice   decimal.Decimal `json:"avgPrice"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// StockPositionListResponse posiciones de un holder.
type StockPositionListResponse struct {
	Items []StockPositionResponse `json:"items"`
}
