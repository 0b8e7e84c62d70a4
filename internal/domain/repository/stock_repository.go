package repository

import (
	"context"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar posiciones de stock por holder+SKU.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve la posición; si no existe devuelve una posición en cero (sin persistirla).
	Get(ctx context.Context, holder entity.HolderRef, skuCodeID string) (*entity.StockPosition, error)
	// GetForUpdate crea la fila si falta y la bloquea hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, holder entity.HolderRef, skuCodeID string) (*entity.StockPosition, error)
	Upsert(ctx context.Context, pos *entity.StockPosition) error
	// List devuelve las posiciones del holder; holderID vacío = todas.
	List(ctx context.Context, holderID string) ([]*entity.StockPosition, error)
	ExistsForSKU(ctx context.Context, skuCodeID string) (bool, error)
}
