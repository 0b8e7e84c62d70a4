package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

var _ repository.LedgerEventRepository = (*LedgerEventRepo)(nil)

// LedgerEventRepo historial de ajustes del ledger (outbox), escrito en la misma tx que la mutación.
type LedgerEventRepo struct {
	q Querier
}

// NewLedgerEventRepository construye el adaptador de eventos.
func NewLedgerEventRepository(q Querier) *LedgerEventRepo {
	return &LedgerEventRepo{q: q}
}

// Create inserta un evento.
func (r *LedgerEventRepo) Create(ctx context.Context, ev *entity.LedgerEvent) error {
	query := `
		INSERT INTO ledger_events (id, holder_id, holder_type, sku_code_id, bucket, delta, reason, ref_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		ev.ID, ev.Holder.ID, string(ev.Holder.Type), ev.SKUCodeID, string(ev.Bucket),
		ev.Delta, string(ev.Reason), nullable(ev.RefID), ev.CreatedBy, ev.CreatedAt,
	)
	return wrap("insert ledger event", err)
}

// List filtra y pagina eventos en orden cronológico.
func (r *LedgerEventRepo) List(ctx context.Context, f repository.LedgerEventFilter) ([]*entity.LedgerEvent, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.HolderID != "" {
		where = append(where, "holder_id = "+arg(f.HolderID))
	}
	if f.SKUCodeID != "" {
		where = append(where, "sku_code_id = "+arg(f.SKUCodeID))
	}
	if f.From != nil {
		where = append(where, "created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "created_at <= "+arg(*f.To))
	}
	query := `SELECT id, holder_id, holder_type, sku_code_id, bucket, delta, reason, COALESCE(ref_id::text, ''), created_by, created_at
		FROM ledger_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq LIMIT " + arg(limitArg(f.Limit)) + " OFFSET " + arg(f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list ledger events", err)
	}
	defer rows.Close()
	list := make([]*entity.LedgerEvent, 0)
	for rows.Next() {
		var ev entity.LedgerEvent
		var holderType, bucket, reason string
		if err := rows.Scan(&ev.ID, &ev.Holder.ID, &holderType, &ev.SKUCodeID, &bucket, &ev.Delta, &reason, &ev.RefID, &ev.CreatedBy, &ev.CreatedAt); err != nil {
			return nil, wrap("scan ledger event", err)
		}
		ev.Holder.Type = entity.HolderType(holderType)
		ev.Bucket = entity.Bucket(bucket)
		ev.Reason = entity.LedgerReason(reason)
		list = append(list, &ev)
	}
	return list, rows.Err()
}
