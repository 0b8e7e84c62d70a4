package usecase

import (
	"context"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

// UserUseCase consultas de usuarios acotadas al holder de quien pregunta.
type UserUseCase struct {
	repo repository.UserRepository
}

func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Me devuelve el perfil del usuario autenticado.
func (uc *UserUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return toUserResponse(u), nil
}

// List lista usuarios. Solo admin elige holder (vacío = todos); el resto ve el suyo.
func (uc *UserUseCase) List(ctx context.Context, role, actorHolderID, holderID string, limit, offset int) ([]dto.UserResponse, error) {
	if role != entity.RoleAdmin {
		holderID = actorHolderID
	}
	users, err := uc.repo.ListByHolder(ctx, holderID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = *toUserResponse(u)
	}
	return out, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		HolderID:  u.HolderID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
