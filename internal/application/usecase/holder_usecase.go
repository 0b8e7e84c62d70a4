package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/catalog"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

// HolderUseCase casos de uso CRUD para holders (casa matriz, sucursales, ingenieros).
type HolderUseCase struct {
	repo repository.HolderRepository
}

// NewHolderUseCase construye el caso de uso.
func NewHolderUseCase(repo repository.HolderRepository) *HolderUseCase {
	return &HolderUseCase{repo: repo}
}

// Create crea un holder. Solo existe una casa matriz y todo ingeniero pertenece a una sucursal.
func (uc *HolderUseCase) Create(ctx context.Context, in dto.CreateHolderRequest) (*dto.HolderResponse, error) {
	t := entity.HolderType(in.Type)
	if !t.Valid() {
		return nil, domain.ErrInvalidInput
	}
	name := catalog.CleanName(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	parentID := strings.TrimSpace(in.ParentID)
	switch t {
	case entity.HolderEngineer:
		parent, err := uc.repo.GetByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
		if parent.Type != entity.HolderBranch {
			return nil, domain.ErrInvalidInput
		}
	case entity.HolderHeadOffice:
		existing, err := uc.repo.GetHeadOffice(ctx)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		parentID = ""
	default:
		parentID = ""
	}

	now := time.Now()
	holder := &entity.Holder{
		ID:        uuid.New().String(),
		Type:      t,
		Name:      name,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, holder); err != nil {
		return nil, err
	}
	return toHolderResponse(holder), nil
}

// GetByID obtiene un holder por ID.
func (uc *HolderUseCase) GetByID(ctx context.Context, id string) (*dto.HolderResponse, error) {
	holder, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if holder == nil {
		return nil, nil
	}
	return toHolderResponse(holder), nil
}

// Update renombra un holder; tipo y sucursal no cambian.
func (uc *HolderUseCase) Update(ctx context.Context, id string, in dto.UpdateHolderRequest) (*dto.HolderResponse, error) {
	holder, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if holder == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := catalog.CleanName(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		holder.Name = name
	}
	holder.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, holder); err != nil {
		return nil, err
	}
	return toHolderResponse(holder), nil
}

// List lista holders filtrando por tipo y sucursal padre.
func (uc *HolderUseCase) List(ctx context.Context, holderType, parentID string, limit, offset int) (*dto.HolderListResponse, error) {
	t := entity.HolderType(holderType)
	if t != "" && !t.Valid() {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.List(ctx, t, parentID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.HolderResponse, 0, len(list))
	for _, h := range list {
		items = append(items, *toHolderResponse(h))
	}
	return &dto.HolderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toHolderResponse(h *entity.Holder) *dto.HolderResponse {
	if h == nil {
		return nil
	}
	return &dto.HolderResponse{
		ID:        h.ID,
		Type:      string(h.Type),
		Name:      h.Name,
		ParentID:  h.ParentID,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}
