package repository

import (
	"context"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// HolderRepository define el puerto de persistencia para Holder (DIP).
type HolderRepository interface {
	Create(ctx context.Context, h *entity.Holder) error
	GetByID(ctx context.Context, id string) (*entity.Holder, error)
	GetHeadOffice(ctx context.Context) (*entity.Holder, error)
	Update(ctx context.Context, h *entity.Holder) error
	// List filtra por tipo y padre; valores vacíos no filtran.
	List(ctx context.Context, t entity.HolderType, parentID string, limit, offset int) ([]*entity.Holder, error)
}
