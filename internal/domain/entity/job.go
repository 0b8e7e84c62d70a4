package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SellFrom holder del que salen los repuestos de un trabajo.
type SellFrom string

const (
	SellFromBranch   SellFrom = "branch"
	SellFromEngineer SellFrom = "engineer"
)

// JobEntry orden de servicio que consume stock bueno como repuestos.
type JobEntry struct {
	ID          string
	JobNo       string
	AssetsNo    string
	ServiceType string
	SellFrom    SellFrom
	Holder      HolderRef
	CreatedBy   string
	CreatedAt   time.Time
	Items       []JobItem
}

// JobItem línea consumida en un trabajo.
type JobItem struct {
	ID        string
	JobID     string
	Position  int
	SKUCodeID string
	Quantity  int64
	Price     decimal.Decimal
}

// Total devuelve cantidad * precio.
func (i JobItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}
