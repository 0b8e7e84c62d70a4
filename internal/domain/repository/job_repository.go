package repository

import (
	"context"
	"time"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// JobFilter filtros de listado de trabajos.
type JobFilter struct {
	HolderID string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// JobRepository define el puerto de persistencia para órdenes de servicio y sus items.
type JobRepository interface {
	Create(ctx context.Context, job *entity.JobEntry) error
	GetByID(ctx context.Context, id string) (*entity.JobEntry, error)
	List(ctx context.Context, f JobFilter) ([]*entity.JobEntry, error)
	ExistsForSKU(ctx context.Context, skuCodeID string) (bool, error)
}
