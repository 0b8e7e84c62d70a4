package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

var (
	_ repository.HolderRepository = (*HolderRepo)(nil)
	_ repository.UserRepository   = (*UserRepo)(nil)
)

// HolderRepo holders en memoria.
type HolderRepo struct{ s *Store }

// Create persiste un holder; solo puede existir una casa matriz.
func (r *HolderRepo) Create(_ context.Context, h *entity.Holder) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.holders[h.ID]; ok {
		return domain.ErrDuplicate
	}
	if h.Type == entity.HolderHeadOffice {
		for _, x := range r.s.holders {
			if x.Type == entity.HolderHeadOffice {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.track(h.ID)
	r.s.holders[h.ID] = *h
	return nil
}

func (r *HolderRepo) GetByID(_ context.Context, id string) (*entity.Holder, error) {
	defer r.s.acquire(nil)()
	h, ok := r.s.holders[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (r *HolderRepo) GetHeadOffice(_ context.Context) (*entity.Holder, error) {
	defer r.s.acquire(nil)()
	for _, h := range r.s.holders {
		if h.Type == entity.HolderHeadOffice {
			h := h
			return &h, nil
		}
	}
	return nil, nil
}

func (r *HolderRepo) Update(_ context.Context, h *entity.Holder) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.holders[h.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.holders[h.ID] = *h
	return nil
}

func (r *HolderRepo) List(_ context.Context, t entity.HolderType, parentID string, limit, offset int) ([]*entity.Holder, error) {
	defer r.s.acquire(nil)()
	list := make([]*entity.Holder, 0)
	for _, h := range r.s.holders {
		if t != "" && h.Type != t {
			continue
		}
		if parentID != "" && h.ParentID != parentID {
			continue
		}
		h := h
		list = append(list, &h)
	}
	sortOldest(r.s, list, func(h *entity.Holder) string { return h.ID })
	return page(list, limit, offset), nil
}

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.acquire(nil)()
	for _, x := range r.s.users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.track(u.ID)
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.acquire(nil)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.acquire(nil)()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	defer r.s.acquire(nil)()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) ListByHolder(_ context.Context, holderID string, limit, offset int) ([]*entity.User, error) {
	defer r.s.acquire(nil)()
	list := make([]*entity.User, 0)
	for _, u := range r.s.users {
		if holderID != "" && u.HolderID != holderID {
			continue
		}
		u := u
		list = append(list, &u)
	}
	sortOldest(r.s, list, func(u *entity.User) string { return u.ID })
	return page(list, limit, offset), nil
}
