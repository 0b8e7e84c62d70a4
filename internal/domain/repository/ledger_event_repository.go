package repository

import (
	"context"
	"time"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// LedgerEventFilter filtros de listado de eventos del ledger.
type LedgerEventFilter struct {
	HolderID  string
	SKUCodeID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// LedgerEventRepository define el puerto de persistencia para eventos del ledger (historial append-only).
type LedgerEventRepository interface {
	Create(ctx context.Context, ev *entity.LedgerEvent) error
	List(ctx context.Context, f LedgerEventFilter) ([]*entity.LedgerEvent, error)
}
