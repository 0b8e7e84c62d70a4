package repository

import (
	"context"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	FindByNameKey(ctx context.Context, nameKey string) (*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	List(ctx context.Context, limit, offset int) ([]*entity.Category, error)
	Delete(ctx context.Context, id string) error
}

// ModelRepository define el puerto de persistencia para Model.
type ModelRepository interface {
	Create(ctx context.Context, m *entity.Model) error
	GetByID(ctx context.Context, id string) (*entity.Model, error)
	FindByNameKey(ctx context.Context, categoryID, nameKey string) (*entity.Model, error)
	Update(ctx context.Context, m *entity.Model) error
	ListByCategory(ctx context.Context, categoryID string, limit, offset int) ([]*entity.Model, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// ItemRepository define el puerto de persistencia para Item.
type ItemRepository interface {
	Create(ctx context.Context, i *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	FindByNameKey(ctx context.Context, modelID, nameKey string) (*entity.Item, error)
	Update(ctx context.Context, i *entity.Item) error
	ListByModel(ctx context.Context, modelID string, limit, offset int) ([]*entity.Item, error)
	CountByModel(ctx context.Context, modelID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// SKUCodeRepository define el puerto de persistencia para SKUCode.
type SKUCodeRepository interface {
	Create(ctx context.Context, s *entity.SKUCode) error
	GetByID(ctx context.Context, id string) (*entity.SKUCode, error)
	FindByCodeKey(ctx context.Context, itemID, codeKey string) (*entity.SKUCode, error)
	Update(ctx context.Context, s *entity.SKUCode) error
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.SKUCode, error)
	CountByItem(ctx context.Context, itemID string) (int, error)
	Delete(ctx context.Context, id string) error
}
