package repository

import (
	"context"
	"time"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// TransferFilter filtros de listado de traslados.
type TransferFilter struct {
	HolderID string // emisor o receptor
	Kinds    []entity.TransferKind
	Statuses []entity.TransferStatus
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// TransferRepository define el puerto de persistencia para traslados.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	// GetForUpdate bloquea el registro para resolverlo (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	UpdateStatus(ctx context.Context, t *entity.Transfer) error
	List(ctx context.Context, f TransferFilter) ([]*entity.Transfer, error)
	ExistsForSKU(ctx context.Context, skuCodeID string) (bool, error)
}
