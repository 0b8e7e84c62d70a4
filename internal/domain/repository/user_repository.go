package repository

import (
	"context"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByHolder(ctx context.Context, holderID string, limit, offset int) ([]*entity.User, error)
}
