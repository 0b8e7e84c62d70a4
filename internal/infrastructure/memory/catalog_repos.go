package memory

import (
	"context"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.ModelRepository    = (*ModelRepo)(nil)
	_ repository.ItemRepository     = (*ItemRepo)(nil)
	_ repository.SKUCodeRepository  = (*SKUCodeRepo)(nil)
)

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	defer r.s.acquire(nil)()
	for _, x := range r.s.categories {
		if x.NameKey == c.NameKey {
			return domain.ErrDuplicate
		}
	}
	r.s.track(c.ID)
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	defer r.s.acquire(nil)()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) FindByNameKey(_ context.Context, nameKey string) (*entity.Category, error) {
	defer r.s.acquire(nil)()
	for _, c := range r.s.categories {
		if c.NameKey == nameKey {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.s.categories {
		if x.ID != c.ID && x.NameKey == c.NameKey {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	defer r.s.acquire(nil)()
	list := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		c := c
		list = append(list, &c)
	}
	sortOldest(r.s, list, func(c *entity.Category) string { return c.ID })
	return page(list, limit, offset), nil
}

// Delete emula ON DELETE RESTRICT.
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range r.s.models {
		if m.CategoryID == id {
			return domain.ErrHasDependents
		}
	}
	delete(r.s.categories, id)
	return nil
}

// ModelRepo modelos en memoria.
type ModelRepo struct{ s *Store }

func (r *ModelRepo) Create(_ context.Context, m *entity.Model) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.categories[m.CategoryID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.s.models {
		if x.CategoryID == m.CategoryID && x.NameKey == m.NameKey {
			return domain.ErrDuplicate
		}
	}
	r.s.track(m.ID)
	r.s.models[m.ID] = *m
	return nil
}

func (r *ModelRepo) GetByID(_ context.Context, id string) (*entity.Model, error) {
	defer r.s.acquire(nil)()
	m, ok := r.s.models[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *ModelRepo) FindByNameKey(_ context.Context, categoryID, nameKey string) (*entity.Model, error) {
	defer r.s.acquire(nil)()
	for _, m := range r.s.models {
		if m.CategoryID == categoryID && m.NameKey == nameKey {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *ModelRepo) Update(_ context.Context, m *entity.Model) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.models[m.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.s.models {
		if x.ID != m.ID && x.CategoryID == m.CategoryID && x.NameKey == m.NameKey {
			return domain.ErrDuplicate
		}
	}
	r.s.models[m.ID] = *m
	return nil
}

func (r *ModelRepo) ListByCategory(_ context.Context, categoryID string, limit, offset int) ([]*entity.Model, error) {
	defer r.s.acquire(nil)()
	list := make([]*entity.Model, 0)
	for _, m := range r.s.models {
		if categoryID != "" && m.CategoryID != categoryID {
			continue
		}
		m := m
		list = append(list, &m)
	}
	sortOldest(r.s, list, func(m *entity.Model) string { return m.ID })
	return page(list, limit, offset), nil
}

func (r *ModelRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	defer r.s.acquire(nil)()
	n := 0
	for _, m := range r.s.models {
		if m.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *ModelRepo) Delete(_ context.Context, id string) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.models[id]; !ok {
		return domain.ErrNotFound
	}
	for _, i := range r.s.items {
		if i.ModelID == id {
			return domain.ErrHasDependents
		}
	}
	delete(r.s.models, id)
	return nil
}

// ItemRepo items en memoria.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(_ context.Context, i *entity.Item) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.models[i.ModelID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.s.items {
		if x.ModelID == i.ModelID && x.NameKey == i.NameKey {
			return domain.ErrDuplicate
		}
	}
	r.s.track(i.ID)
	r.s.items[i.ID] = *i
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	defer r.s.acquire(nil)()
	i, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (r *ItemRepo) FindByNameKey(_ context.Context, modelID, nameKey string) (*entity.Item, error) {
	defer r.s.acquire(nil)()
	for _, i := range r.s.items {
		if i.ModelID == modelID && i.NameKey == nameKey {
			i := i
			return &i, nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) Update(_ context.Context, i *entity.Item) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.items[i.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.s.items {
		if x.ID != i.ID && x.ModelID == i.ModelID && x.NameKey == i.NameKey {
			return domain.ErrDuplicate
		}
	}
	r.s.items[i.ID] = *i
	return nil
}

func (r *ItemRepo) ListByModel(_ context.Context, modelID string, limit, offset int) ([]*entity.Item, error) {
	defer r.s.acquire(nil)()
	list := make([]*entity.Item, 0)
	for _, i := range r.s.items {
		if modelID != "" && i.ModelID != modelID {
			continue
		}
		i := i
		list = append(list, &i)
	}
	sortOldest(r.s, list, func(i *entity.Item) string { return i.ID })
	return page(list, limit, offset), nil
}

func (r *ItemRepo) CountByModel(_ context.Context, modelID string) (int, error) {
	defer r.s.acquire(nil)()
	n := 0
	for _, i := range r.s.items {
		if i.ModelID == modelID {
			n++
		}
	}
	return n, nil
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	for _, s := range r.s.skus {
		if s.ItemID == id {
			return domain.ErrHasDependents
		}
	}
	delete(r.s.items, id)
	return nil
}

// SKUCodeRepo códigos SKU en memoria.
type SKUCodeRepo struct{ s *Store }

func (r *SKUCodeRepo) Create(_ context.Context, sku *entity.SKUCode) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.items[sku.ItemID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.s.skus {
		if x.ItemID == sku.ItemID && x.CodeKey == sku.CodeKey {
			return domain.ErrDuplicate
		}
	}
	r.s.track(sku.ID)
	r.s.skus[sku.ID] = *sku
	return nil
}

func (r *SKUCodeRepo) GetByID(_ context.Context, id string) (*entity.SKUCode, error) {
	defer r.s.acquire(nil)()
	s, ok := r.s.skus[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SKUCodeRepo) FindByCodeKey(_ context.Context, itemID, codeKey string) (*entity.SKUCode, error) {
	defer r.s.acquire(nil)()
	for _, s := range r.s.skus {
		if s.ItemID == itemID && s.CodeKey == codeKey {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (r *SKUCodeRepo) Update(_ context.Context, sku *entity.SKUCode) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.skus[sku.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.s.skus {
		if x.ID != sku.ID && x.ItemID == sku.ItemID && x.CodeKey == sku.CodeKey {
			return domain.ErrDuplicate
		}
	}
	r.s.skus[sku.ID] = *sku
	return nil
}

func (r *SKUCodeRepo) ListByItem(_ context.Context, itemID string, limit, offset int) ([]*entity.SKUCode, error) {
	defer r.s.acquire(nil)()
	list := make([]*entity.SKUCode, 0)
	for _, s := range r.s.skus {
		if itemID != "" && s.ItemID != itemID {
			continue
		}
		s := s
		list = append(list, &s)
	}
	sortOldest(r.s, list, func(s *entity.SKUCode) string { return s.ID })
	return page(list, limit, offset), nil
}

func (r *SKUCodeRepo) CountByItem(_ context.Context, itemID string) (int, error) {
	defer r.s.acquire(nil)()
	n := 0
	for _, s := range r.s.skus {
		if s.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

// Delete emula las FK RESTRICT de posiciones, traslados e items de trabajo.
func (r *SKUCodeRepo) Delete(_ context.Context, id string) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.skus[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range r.s.positions {
		if p.SKUCodeID == id {
			return domain.ErrHasDependents
		}
	}
	for _, t := range r.s.transfers {
		if t.SKUCodeID == id {
			return domain.ErrHasDependents
		}
	}
	for _, j := range r.s.jobs {
		for _, it := range j.Items {
			if it.SKUCodeID == id {
				return domain.ErrHasDependents
			}
		}
	}
	delete(r.s.skus, id)
	return nil
}
