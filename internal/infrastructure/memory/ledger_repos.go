package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

var (
	_ repository.StockRepository       = (*StockRepo)(nil)
	_ repository.TransferRepository    = (*TransferRepo)(nil)
	_ repository.JobRepository         = (*JobRepo)(nil)
	_ repository.LedgerEventRepository = (*LedgerEventRepo)(nil)
)

func positionKey(holderID, skuCodeID string) string {
	return holderID + "|" + skuCodeID
}

// StockRepo posiciones de stock en memoria.
type StockRepo struct {
	s  *Store
	tx *txState
}

// Get devuelve la posición o una en cero.
func (r *StockRepo) Get(_ context.Context, holder entity.HolderRef, skuCodeID string) (*entity.StockPosition, error) {
	defer r.s.acquire(r.tx)()
	if p, ok := r.s.positions[positionKey(holder.ID, skuCodeID)]; ok {
		return &p, nil
	}
	return &entity.StockPosition{Holder: holder, SKUCodeID: skuCodeID}, nil
}

// GetForUpdate crea la fila si falta; el bloqueo lo da el mutex de la transacción.
func (r *StockRepo) GetForUpdate(_ context.Context, holder entity.HolderRef, skuCodeID string) (*entity.StockPosition, error) {
	defer r.s.acquire(r.tx)()
	if _, ok := r.s.skus[skuCodeID]; !ok {
		return nil, domain.ErrNotFound
	}
	k := positionKey(holder.ID, skuCodeID)
	p, ok := r.s.positions[k]
	if !ok {
		p = entity.StockPosition{Holder: holder, SKUCodeID: skuCodeID}
		put(r.tx, r.s.positions, k, p)
	}
	return &p, nil
}

// Upsert guarda la posición; rechaza cantidades negativas como lo haría el CHECK de la tabla.
func (r *StockRepo) Upsert(_ context.Context, pos *entity.StockPosition) error {
	defer r.s.acquire(r.tx)()
	if pos.Good < 0 || pos.Defective < 0 || pos.Faulty < 0 || pos.Scrap < 0 {
		return domain.ErrInsufficientStock
	}
	put(r.tx, r.s.positions, positionKey(pos.Holder.ID, pos.SKUCodeID), *pos)
	return nil
}

// List posiciones ordenadas por holder y SKU.
func (r *StockRepo) List(_ context.Context, holderID string) ([]*entity.StockPosition, error) {
	defer r.s.acquire(r.tx)()
	list := make([]*entity.StockPosition, 0)
	for _, p := range r.s.positions {
		if holderID != "" && p.Holder.ID != holderID {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Holder.ID != list[j].Holder.ID {
			return list[i].Holder.ID < list[j].Holder.ID
		}
		return list[i].SKUCodeID < list[j].SKUCodeID
	})
	return list, nil
}

// ExistsForSKU indica si algún holder tiene posición del SKU.
func (r *StockRepo) ExistsForSKU(_ context.Context, skuCodeID string) (bool, error) {
	defer r.s.acquire(r.tx)()
	for _, p := range r.s.positions {
		if p.SKUCodeID == skuCodeID {
			return true, nil
		}
	}
	return false, nil
}

// TransferRepo traslados en memoria.
type TransferRepo struct {
	s  *Store
	tx *txState
}

// Create persiste un traslado.
func (r *TransferRepo) Create(_ context.Context, t *entity.Transfer) error {
	defer r.s.acquire(r.tx)()
	if _, ok := r.s.transfers[t.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.track(t.ID)
	put(r.tx, r.s.transfers, t.ID, *t)
	return nil
}

// GetByID obtiene un traslado (nil si no existe).
func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	defer r.s.acquire(r.tx)()
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// GetForUpdate igual que GetByID; el bloqueo lo da la transacción.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

// UpdateStatus guarda estado, nota de cierre y fechas.
func (r *TransferRepo) UpdateStatus(_ context.Context, t *entity.Transfer) error {
	defer r.s.acquire(r.tx)()
	cur, ok := r.s.transfers[t.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = t.Status
	cur.EndReason = t.EndReason
	cur.EndedBy = t.EndedBy
	cur.EndAt = t.EndAt
	put(r.tx, r.s.transfers, t.ID, cur)
	return nil
}

// List filtra y pagina traslados, más recientes primero.
func (r *TransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	defer r.s.acquire(r.tx)()
	list := make([]*entity.Transfer, 0)
	for _, t := range r.s.transfers {
		if f.HolderID != "" && t.Sender.ID != f.HolderID && t.Receiver.ID != f.HolderID {
			continue
		}
		if len(f.Kinds) > 0 && !containsKind(f.Kinds, t.Kind) {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, t.Status) {
			continue
		}
		if !inRange(t.CreatedAt, f.From, f.To) {
			continue
		}
		t := t
		list = append(list, &t)
	}
	sortNewest(r.s, list, func(t *entity.Transfer) time.Time { return t.CreatedAt }, func(t *entity.Transfer) string { return t.ID })
	return page(list, f.Limit, f.Offset), nil
}

// ExistsForSKU indica si hay traslados del SKU.
func (r *TransferRepo) ExistsForSKU(_ context.Context, skuCodeID string) (bool, error) {
	defer r.s.acquire(r.tx)()
	for _, t := range r.s.transfers {
		if t.SKUCodeID == skuCodeID {
			return true, nil
		}
	}
	return false, nil
}

func containsKind(list []entity.TransferKind, k entity.TransferKind) bool {
	for _, x := range list {
		if x == k {
			return true
		}
	}
	return false
}

func containsStatus(list []entity.TransferStatus, s entity.TransferStatus) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// JobRepo órdenes de servicio en memoria.
type JobRepo struct {
	s  *Store
	tx *txState
}

func cloneJob(j entity.JobEntry) *entity.JobEntry {
	items := make([]entity.JobItem, len(j.Items))
	copy(items, j.Items)
	j.Items = items
	return &j
}

// Create persiste el trabajo con sus items.
func (r *JobRepo) Create(_ context.Context, job *entity.JobEntry) error {
	defer r.s.acquire(r.tx)()
	if _, ok := r.s.jobs[job.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.track(job.ID)
	put(r.tx, r.s.jobs, job.ID, *cloneJob(*job))
	return nil
}

// GetByID obtiene un trabajo (nil si no existe).
func (r *JobRepo) GetByID(_ context.Context, id string) (*entity.JobEntry, error) {
	defer r.s.acquire(r.tx)()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, nil
	}
	return cloneJob(j), nil
}

// List filtra y pagina trabajos, más recientes primero.
func (r *JobRepo) List(_ context.Context, f repository.JobFilter) ([]*entity.JobEntry, error) {
	defer r.s.acquire(r.tx)()
	list := make([]*entity.JobEntry, 0)
	for _, j := range r.s.jobs {
		if f.HolderID != "" && j.Holder.ID != f.HolderID {
			continue
		}
		if !inRange(j.CreatedAt, f.From, f.To) {
			continue
		}
		list = append(list, cloneJob(j))
	}
	sortNewest(r.s, list, func(j *entity.JobEntry) time.Time { return j.CreatedAt }, func(j *entity.JobEntry) string { return j.ID })
	return page(list, f.Limit, f.Offset), nil
}

// ExistsForSKU indica si algún trabajo consumió el SKU.
func (r *JobRepo) ExistsForSKU(_ context.Context, skuCodeID string) (bool, error) {
	defer r.s.acquire(r.tx)()
	for _, j := range r.s.jobs {
		for _, it := range j.Items {
			if it.SKUCodeID == skuCodeID {
				return true, nil
			}
		}
	}
	return false, nil
}

// LedgerEventRepo historial de eventos en memoria.
type LedgerEventRepo struct {
	s  *Store
	tx *txState
}

// Create agrega un evento al historial.
func (r *LedgerEventRepo) Create(_ context.Context, ev *entity.LedgerEvent) error {
	defer r.s.acquire(r.tx)()
	if r.tx != nil {
		n := len(r.s.events)
		r.tx.undo = append(r.tx.undo, func() { r.s.events = r.s.events[:n] })
	}
	r.s.events = append(r.s.events, *ev)
	return nil
}

// List filtra y pagina eventos en orden cronológico.
func (r *LedgerEventRepo) List(_ context.Context, f repository.LedgerEventFilter) ([]*entity.LedgerEvent, error) {
	defer r.s.acquire(r.tx)()
	list := make([]*entity.LedgerEvent, 0)
	for _, ev := range r.s.events {
		if f.HolderID != "" && ev.Holder.ID != f.HolderID {
			continue
		}
		if f.SKUCodeID != "" && ev.SKUCodeID != f.SKUCodeID {
			continue
		}
		if !inRange(ev.CreatedAt, f.From, f.To) {
			continue
		}
		ev := ev
		list = append(list, &ev)
	}
	return page(list, f.Limit, f.Offset), nil
}
