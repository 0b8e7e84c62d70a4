package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traslados.
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, batch_id, kind, sku_code_id, quantity,
	sender_id, sender_type, receiver_id, receiver_type, from_bucket, to_bucket, status,
	note, COALESCE(end_reason, ''), created_by, COALESCE(ended_by::text, ''), created_at, end_at`

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var kind, senderType, receiverType, from, to, status string
	err := row.Scan(
		&t.ID, &t.BatchID, &kind, &t.SKUCodeID, &t.Quantity,
		&t.Sender.ID, &senderType, &t.Receiver.ID, &receiverType, &from, &to, &status,
		&t.Note, &t.EndReason, &t.CreatedBy, &t.EndedBy, &t.CreatedAt, &t.EndAt,
	)
	if err != nil {
		return nil, err
	}
	t.Kind = entity.TransferKind(kind)
	t.Sender.Type = entity.HolderType(senderType)
	t.Receiver.Type = entity.HolderType(receiverType)
	t.FromBucket = entity.Bucket(from)
	t.ToBucket = entity.Bucket(to)
	t.Status = entity.TransferStatus(status)
	return &t, nil
}

// Create persiste un registro de traslado.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (id, batch_id, kind, sku_code_id, quantity,
			sender_id, sender_type, receiver_id, receiver_type, from_bucket, to_bucket, status,
			note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.BatchID, string(t.Kind), t.SKUCodeID, t.Quantity,
		t.Sender.ID, string(t.Sender.Type), t.Receiver.ID, string(t.Receiver.Type),
		string(t.FromBucket), string(t.ToBucket), string(t.Status),
		t.Note, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if missingRef(err) {
			return domain.ErrNotFound
		}
		return wrap("insert transfer", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID; nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea el traslado.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransferRepo) get(ctx context.Context, query, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, wrap("get transfer", err)
	}
	return t, nil
}

// UpdateStatus guarda el nuevo estado y los datos de cierre.
func (r *TransferRepo) UpdateStatus(ctx context.Context, t *entity.Transfer) error {
	query := `
		UPDATE transfers SET status = $2, end_reason = $3, ended_by = $4, end_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, t.ID, string(t.Status), nullable(t.EndReason), nullable(t.EndedBy), t.EndAt)
	if err != nil {
		return wrap("update transfer status", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra y pagina traslados, más recientes primero.
func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.HolderID != "" {
		p := arg(f.HolderID)
		where = append(where, "(sender_id = "+p+" OR receiver_id = "+p+")")
	}
	if len(f.Kinds) > 0 {
		kinds := make([]string, 0, len(f.Kinds))
		for _, k := range f.Kinds {
			kinds = append(kinds, string(k))
		}
		where = append(where, "kind = ANY("+arg(kinds)+")")
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		where = append(where, "status = ANY("+arg(statuses)+")")
	}
	if f.From != nil {
		where = append(where, "created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "created_at <= "+arg(*f.To))
	}
	query := `SELECT ` + transferColumns + ` FROM transfers`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id LIMIT " + arg(limitArg(f.Limit)) + " OFFSET " + arg(f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list transfers", err)
	}
	defer rows.Close()
	list := make([]*entity.Transfer, 0)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, wrap("scan transfer", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ExistsForSKU indica si hay traslados del SKU.
func (r *TransferRepo) ExistsForSKU(ctx context.Context, skuCodeID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transfers WHERE sku_code_id = $1)`, skuCodeID).Scan(&ok)
	if err != nil {
		return false, wrap("transfer exists for sku", err)
	}
	return ok, nil
}
