package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/service-stock-api/internal/application/dto"
	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/catalog"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

// CatalogRepos puertos de persistencia que usa el catálogo.
// Stock, Transfers y Jobs solo se consultan para saber si un SKU ya está referenciado.
type CatalogRepos struct {
	Categories repository.CategoryRepository
	Models     repository.ModelRepository
	Items      repository.ItemRepository
	SKUCodes   repository.SKUCodeRepository
	Stock      repository.StockRepository
	Transfers  repository.TransferRepository
	Jobs       repository.JobRepository

	// Holders y Locker serializan el cambio de IsDefective con el ledger.
	Holders repository.HolderRepository
	Locker  ledger.KeyLocker
}

// CatalogUseCase CRUD de Category → Model → Item → SKUCode.
// El padre debe existir antes que el hijo y el nombre es único dentro del padre.
type CatalogUseCase struct {
	repos CatalogRepos
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repos CatalogRepos) *CatalogUseCase {
	return &CatalogUseCase{repos: repos}
}

// ─── Category ─────────────────────────────────────────────────────────────────

// CreateCategory crea una categoría raíz.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CatalogNameRequest) (*dto.CatalogNodeResponse, error) {
	name, key, err := names(in.Name)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repos.Categories.FindByNameKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.Category{ID: uuid.New().String(), Name: name, NameKey: key, CreatedAt: now, UpdatedAt: now}
	if err := uc.repos.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return node(c.ID, "", c.Name, c.CreatedAt, c.UpdatedAt), nil
}

// UpdateCategory renombra una categoría.
func (uc *CatalogUseCase) UpdateCategory(ctx context.Context, id string, in dto.CatalogNameRequest) (*dto.CatalogNodeResponse, error) {
	c, err := uc.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	name, key, err := names(in.Name)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repos.Categories.FindByNameKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != c.ID {
		return nil, domain.ErrDuplicate
	}
	c.Name, c.NameKey, c.UpdatedAt = name, key, time.Now()
	if err := uc.repos.Categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return node(c.ID, "", c.Name, c.CreatedAt, c.UpdatedAt), nil
}

// ListCategories lista categorías.
func (uc *CatalogUseCase) ListCategories(ctx context.Context, limit, offset int) (*dto.CatalogListResponse, error) {
	list, err := uc.repos.Categories.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CatalogNodeResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *node(c.ID, "", c.Name, c.CreatedAt, c.UpdatedAt))
	}
	return &dto.CatalogListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// DeleteCategory elimina una categoría sin modelos.
func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, id string) error {
	c, err := uc.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	n, err := uc.repos.Models.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrHasDependents
	}
	return uc.repos.Categories.Delete(ctx, id)
}

// ─── Model ────────────────────────────────────────────────────────────────────

// CreateModel crea un modelo dentro de una categoría existente.
func (uc *CatalogUseCase) CreateModel(ctx context.Context, in dto.CatalogNameRequest) (*dto.CatalogNodeResponse, error) {
	parent, err := uc.repos.Categories.GetByID(ctx, strings.TrimSpace(in.ParentID))
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}
	name, key, err := names(in.Name)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repos.Models.FindByNameKey(ctx, parent.ID, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	m := &entity.Model{ID: uuid.New().String(), CategoryID: parent.ID, Name: name, NameKey: key, CreatedAt: now, UpdatedAt: now}
	if err := uc.repos.Models.Create(ctx, m); err != nil {
		return nil, err
	}
	return node(m.ID, m.CategoryID, m.Name, m.CreatedAt, m.UpdatedAt), nil
}

// UpdateModel renombra un modelo.
func (uc *CatalogUseCase) UpdateModel(ctx context.Context, id string, in dto.CatalogNameRequest) (*dto.CatalogNodeResponse, error) {
	m, err := uc.repos.Models.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	name, key, err := names(in.Name)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repos.Models.FindByNameKey(ctx, m.CategoryID, key)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != m.ID {
		return nil, domain.ErrDuplicate
	}
	m.Name, m.NameKey, m.UpdatedAt = name, key, time.Now()
	if err := uc.repos.Models.Update(ctx, m); err != nil {
		return nil, err
	}
	return node(m.ID, m.CategoryID, m.Name, m.CreatedAt, m.UpdatedAt), nil
}

// ListModels lista modelos de una categoría (vacío = todos).
func (uc *CatalogUseCase) ListModels(ctx context.Context, categoryID string, limit, offset int) (*dto.CatalogListResponse, error) {
	list, err := uc.repos.Models.ListByCategory(ctx, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CatalogNodeResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *node(m.ID, m.CategoryID, m.Name, m.CreatedAt, m.UpdatedAt))
	}
	return &dto.CatalogListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// DeleteModel elimina un modelo sin items.
func (uc *CatalogUseCase) DeleteModel(ctx context.Context, id string) error {
	m, err := uc.repos.Models.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	n, err := uc.repos.Items.CountByModel(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrHasDependents
	}
	return uc.repos.Models.Delete(ctx, id)
}

// ─── Item ─────────────────────────────────────────────────────────────────────

// CreateItem crea un item dentro de un modelo existente.
func (uc *CatalogUseCase) CreateItem(ctx context.Context, in dto.CatalogNameRequest) (*dto.CatalogNodeResponse, error) {
	parent, err := uc.repos.Models.GetByID(ctx, strings.TrimSpace(in.ParentID))
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}
	name, key, err := names(in.Name)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repos.Items.FindByNameKey(ctx, parent.ID, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	i := &entity.Item{ID: uuid.New().String(), ModelID: parent.ID, Name: name, NameKey: key, CreatedAt: now, UpdatedAt: now}
	if err := uc.repos.Items.Create(ctx, i); err != nil {
		return nil, err
	}
	return node(i.ID, i.ModelID, i.Name, i.CreatedAt, i.UpdatedAt), nil
}

// UpdateItem renombra un item.
func (uc *CatalogUseCase) UpdateItem(ctx context.Context, id string, in dto.CatalogNameRequest) (*dto.CatalogNodeResponse, error) {
	i, err := uc.repos.Items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, domain.ErrNotFound
	}
	name, key, err := names(in.Name)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repos.Items.FindByNameKey(ctx, i.ModelID, key)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != i.ID {
		return nil, domain.ErrDuplicate
	}
	i.Name, i.NameKey, i.UpdatedAt = name, key, time.Now()
	if err := uc.repos.Items.Update(ctx, i); err != nil {
		return nil, err
	}
	return node(i.ID, i.ModelID, i.Name, i.CreatedAt, i.UpdatedAt), nil
}

// ListItems lista items de un modelo (vacío = todos).
func (uc *CatalogUseCase) ListItems(ctx context.Context, modelID string, limit, offset int) (*dto.CatalogListResponse, error) {
	list, err := uc.repos.Items.ListByModel(ctx, modelID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CatalogNodeResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *node(i.ID, i.ModelID, i.Name, i.CreatedAt, i.UpdatedAt))
	}
	return &dto.CatalogListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// DeleteItem elimina un item sin códigos SKU.
func (uc *CatalogUseCase) DeleteItem(ctx context.Context, id string) error {
	i, err := uc.repos.Items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if i == nil {
		return domain.ErrNotFound
	}
	n, err := uc.repos.SKUCodes.CountByItem(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrHasDependents
	}
	return uc.repos.Items.Delete(ctx, id)
}

// ─── SKUCode ──────────────────────────────────────────────────────────────────

// CreateSKUCode crea un código SKU dentro de un item existente.
func (uc *CatalogUseCase) CreateSKUCode(ctx context.Context, in dto.CreateSKUCodeRequest) (*dto.SKUCodeResponse, error) {
	parent, err := uc.repos.Items.GetByID(ctx, strings.TrimSpace(in.ItemID))
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}
	code, key, err := names(in.Code)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repos.SKUCodes.FindByCodeKey(ctx, parent.ID, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	s := &entity.SKUCode{
		ID:          uuid.New().String(),
		ItemID:      parent.ID,
		Code:        code,
		CodeKey:     key,
		IsDefective: in.IsDefective,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repos.SKUCodes.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSKUCodeResponse(s), nil
}

// GetSKUCode obtiene un código SKU por ID.
func (uc *CatalogUseCase) GetSKUCode(ctx context.Context, id string) (*dto.SKUCodeResponse, error) {
	s, err := uc.repos.SKUCodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	return toSKUCodeResponse(s), nil
}

// UpdateSKUCode cambia el código o la marca IsDefective.
// IsDefective solo puede cambiar mientras el SKU no tenga stock, traslados ni trabajos (si no ErrConflict).
func (uc *CatalogUseCase) UpdateSKUCode(ctx context.Context, id string, in dto.UpdateSKUCodeRequest) (*dto.SKUCodeResponse, error) {
	if in.IsDefective != nil {
		unlock, err := uc.lockSKU(ctx, id)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}
	s, err := uc.repos.SKUCodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Code != nil {
		code, key, err := names(*in.Code)
		if err != nil {
			return nil, err
		}
		existing, err := uc.repos.SKUCodes.FindByCodeKey(ctx, s.ItemID, key)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != s.ID {
			return nil, domain.ErrDuplicate
		}
		s.Code, s.CodeKey = code, key
	}
	if in.IsDefective != nil && *in.IsDefective != s.IsDefective {
		referenced, err := uc.skuReferenced(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		if referenced {
			return nil, domain.ErrConflict
		}
		s.IsDefective = *in.IsDefective
	}
	s.UpdatedAt = time.Now()
	if err := uc.repos.SKUCodes.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSKUCodeResponse(s), nil
}

// ListSKUCodes lista códigos de un item (vacío = todos).
func (uc *CatalogUseCase) ListSKUCodes(ctx context.Context, itemID string, limit, offset int) (*dto.SKUCodeListResponse, error) {
	list, err := uc.repos.SKUCodes.ListByItem(ctx, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SKUCodeResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSKUCodeResponse(s))
	}
	return &dto.SKUCodeListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// DeleteSKUCode elimina un código SKU que ninguna fila del ledger referencia.
func (uc *CatalogUseCase) DeleteSKUCode(ctx context.Context, id string) error {
	s, err := uc.repos.SKUCodes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	referenced, err := uc.skuReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrHasDependents
	}
	return uc.repos.SKUCodes.Delete(ctx, id)
}

func (uc *CatalogUseCase) skuReferenced(ctx context.Context, id string) (bool, error) {
	checks := []func(context.Context, string) (bool, error){
		uc.repos.Stock.ExistsForSKU,
		uc.repos.Transfers.ExistsForSKU,
		uc.repos.Jobs.ExistsForSKU,
	}
	for _, exists := range checks {
		ok, err := exists(ctx, id)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// lockSKU toma la clave de stock del SKU en cada holder, las mismas que toma el ledger.
// Con todas tomadas no hay operación del ledger en curso sobre el SKU.
func (uc *CatalogUseCase) lockSKU(ctx context.Context, skuCodeID string) (func(), error) {
	if uc.repos.Locker == nil || uc.repos.Holders == nil {
		return func() {}, nil
	}
	holders, err := uc.repos.Holders.List(ctx, "", "", 0, 0)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(holders))
	for _, h := range holders {
		keys = append(keys, ledger.StockKey(h.ID, skuCodeID))
	}
	if len(keys) == 0 {
		return func() {}, nil
	}
	sort.Strings(keys)
	return uc.repos.Locker.Lock(ctx, keys...)
}

// names devuelve el nombre limpio y su clave de unicidad.
func names(raw string) (string, string, error) {
	name := catalog.CleanName(raw)
	if name == "" {
		return "", "", domain.ErrInvalidInput
	}
	return name, catalog.NameKey(name), nil
}

func node(id, parentID, name string, createdAt, updatedAt time.Time) *dto.CatalogNodeResponse {
	return &dto.CatalogNodeResponse{ID: id, ParentID: parentID, Name: name, CreatedAt: createdAt, UpdatedAt: updatedAt}
}

func toSKUCodeResponse(s *entity.SKUCode) *dto.SKUCodeResponse {
	if s == nil {
		return nil
	}
	return &dto.SKUCodeResponse{
		ID:          s.ID,
		ItemID:      s.ItemID,
		Code:        s.Code,
		IsDefective: s.IsDefective,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
