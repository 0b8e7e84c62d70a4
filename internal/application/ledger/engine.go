package ledger

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
	"github.com/jhoicas/service-stock-api/internal/domain/stock"
	"github.com/jhoicas/service-stock-api/pkg/logger"
)

// DefaultMaxRetries reintentos ante fallos de serialización antes de devolver ErrConflict.
const DefaultMaxRetries = 3

// Deps dependencias comunes de los casos de uso del ledger.
// Locker y Publisher son opcionales.
type Deps struct {
	Tx         TxRunner
	SKUs       repository.SKUCodeRepository
	Holders    repository.HolderRepository
	Stock      repository.StockRepository
	Transfers  repository.TransferRepository
	Jobs       repository.JobRepository
	Locker     KeyLocker
	Publisher  EventPublisher
	Logger     *logger.Logger
	MaxRetries int
	Clock      func() time.Time
}

// engine ejecuta mutaciones del ledger: bloqueo de claves, transacción, reintentos y publicación.
type engine struct {
	deps Deps
	log  *logger.Logger
	now  func() time.Time
}

func newEngine(deps Deps) *engine {
	if deps.MaxRetries < 0 {
		deps.MaxRetries = 0
	}
	log := deps.Logger.Component("ledger")
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &engine{deps: deps, log: log, now: now}
}

// journal acumula los eventos generados dentro de una transacción.
type journal struct {
	actor  string
	at     time.Time
	events []*entity.LedgerEvent
}

func (j *journal) record(holder entity.HolderRef, skuCodeID string, b entity.Bucket, delta int64, reason entity.LedgerReason, refID string) {
	j.events = append(j.events, &entity.LedgerEvent{
		ID:        uuid.New().String(),
		Holder:    holder,
		SKUCodeID: skuCodeID,
		Bucket:    b,
		Delta:     delta,
		Reason:    reason,
		RefID:     refID,
		CreatedBy: j.actor,
		CreatedAt: j.at,
	})
}

// execute corre fn dentro de una transacción con las claves bloqueadas.
// fn debe ser idempotente respecto de su estado capturado: se vuelve a invocar en cada reintento.
func (e *engine) execute(ctx context.Context, op string, actor Actor, keys []string, fn func(r TxRepos, j *journal) error) error {
	keys = uniqueSorted(keys)
	if e.deps.Locker != nil && len(keys) > 0 {
		unlock, err := e.deps.Locker.Lock(ctx, keys...)
		if err != nil {
			return err
		}
		defer unlock()
	}

	maxAttempts := e.deps.MaxRetries + 1
	for attempt := 1; ; attempt++ {
		j := &journal{actor: actor.UserID, at: e.now()}
		err := e.deps.Tx.Run(ctx, func(r TxRepos) error {
			if err := fn(r, j); err != nil {
				return err
			}
			for _, ev := range j.events {
				if err := r.Events.Create(ctx, ev); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			e.log.Debug().Str("op", op).Int("events", len(j.events)).Int("attempt", attempt).Msg("ledger commit")
			e.publish(ctx, j.events)
			return nil
		}
		if !errors.Is(err, domain.ErrSerializationFailure) {
			return err
		}
		if attempt >= maxAttempts {
			e.log.Warn().Str("op", op).Int("attempts", attempt).Strs("keys", keys).Msg("reintentos agotados")
			return domain.ErrConflict
		}
		e.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("reintentando transacción")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
		}
	}
}

func (e *engine) publish(ctx context.Context, events []*entity.LedgerEvent) {
	if e.deps.Publisher == nil || len(events) == 0 {
		return
	}
	if err := e.deps.Publisher.Publish(ctx, events); err != nil {
		e.log.Error().Err(err).Int("events", len(events)).Msg("publicar eventos del ledger")
	}
}

func (e *engine) holder(ctx context.Context, id string) (*entity.Holder, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	h, err := e.deps.Holders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, domain.ErrNotFound
	}
	return h, nil
}

func (e *engine) sku(ctx context.Context, id string) (*entity.SKUCode, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := e.deps.SKUs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// checkBucket: solo los SKU marcados IsDefective admiten el bucket defective.
func checkBucket(s *entity.SKUCode, buckets ...entity.Bucket) error {
	for _, b := range buckets {
		if !b.Valid() {
			return domain.ErrInvalidInput
		}
		if b == entity.BucketDefective && !s.IsDefective {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// recheckBuckets vuelve a leer el SKU ya con las claves tomadas. IsDefective solo
// cambia con todas las claves StockKey del SKU bloqueadas, así que esta lectura es estable.
func (e *engine) recheckBuckets(ctx context.Context, skuCodeID string, buckets ...entity.Bucket) error {
	defective := false
	for _, b := range buckets {
		defective = defective || b == entity.BucketDefective
	}
	if !defective {
		return nil
	}
	s, err := e.sku(ctx, skuCodeID)
	if err != nil {
		return err
	}
	return checkBucket(s, buckets...)
}

// authorize: admin opera cualquier holder; el resto solo el propio,
// y un csc además los ingenieros de su sucursal.
func authorize(actor Actor, h *entity.Holder) error {
	if actor.IsAdmin() || (actor.HolderID != "" && actor.HolderID == h.ID) {
		return nil
	}
	if actor.Role == entity.RoleCSC && h.Type == entity.HolderEngineer && h.ParentID == actor.HolderID {
		return nil
	}
	return domain.ErrForbidden
}

// StockKey clave de bloqueo de la posición de un SKU en un holder.
func StockKey(holderID, skuCodeID string) string {
	return "stock:" + holderID + ":" + skuCodeID
}

func transferKey(id string) string {
	return "transfer:" + id
}

func uniqueSorted(keys []string) []string {
	if len(keys) == 0 {
		return keys
	}
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Strings(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// lockPositions bloquea las posiciones del holder en orden de SKU para evitar deadlocks.
func lockPositions(ctx context.Context, r TxRepos, holder entity.HolderRef, skuCodeIDs []string) (map[string]*entity.StockPosition, error) {
	ids := uniqueSorted(skuCodeIDs)
	out := make(map[string]*entity.StockPosition, len(ids))
	for _, id := range ids {
		pos, err := r.Stock.GetForUpdate(ctx, holder, id)
		if err != nil {
			return nil, err
		}
		out[id] = pos
	}
	return out, nil
}

// credit suma qty a un bucket bloqueando la fila y registra el evento.
func credit(ctx context.Context, r TxRepos, j *journal, holder entity.HolderRef, skuCodeID string, b entity.Bucket, qty int64, price *decimal.Decimal, reason entity.LedgerReason, refID string) (*entity.StockPosition, error) {
	pos, err := r.Stock.GetForUpdate(ctx, holder, skuCodeID)
	if err != nil {
		return nil, err
	}
	if err := stock.Credit(pos, b, qty, price); err != nil {
		return nil, err
	}
	pos.UpdatedAt = j.at
	if err := r.Stock.Upsert(ctx, pos); err != nil {
		return nil, err
	}
	j.record(holder, skuCodeID, b, qty, reason, refID)
	return pos, nil
}

// debit resta qty de un bucket bloqueando la fila y registra el evento.
func debit(ctx context.Context, r TxRepos, j *journal, holder entity.HolderRef, skuCodeID string, b entity.Bucket, qty int64, reason entity.LedgerReason, refID string) (*entity.StockPosition, error) {
	pos, err := r.Stock.GetForUpdate(ctx, holder, skuCodeID)
	if err != nil {
		return nil, err
	}
	if err := stock.Debit(pos, b, qty); err != nil {
		return nil, err
	}
	pos.UpdatedAt = j.at
	if err := r.Stock.Upsert(ctx, pos); err != nil {
		return nil, err
	}
	j.record(holder, skuCodeID, b, -qty, reason, refID)
	return pos, nil
}
