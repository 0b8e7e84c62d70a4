package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

var _ repository.HolderRepository = (*HolderRepo)(nil)

// HolderRepo implementación del puerto HolderRepository sobre PostgreSQL.
type HolderRepo struct {
	pool *pgxpool.Pool
}

// NewHolderRepository construye el adaptador de persistencia para holders.
func NewHolderRepository(pool *pgxpool.Pool) *HolderRepo {
	return &HolderRepo{pool: pool}
}

const holderColumns = `id, type, name, COALESCE(parent_id::text, ''), created_at, updated_at`

func scanHolder(row pgx.Row) (*entity.Holder, error) {
	var h entity.Holder
	var t string
	if err := row.Scan(&h.ID, &t, &h.Name, &h.ParentID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	h.Type = entity.HolderType(t)
	return &h, nil
}

// Create persiste un nuevo holder. El índice único parcial garantiza una sola casa matriz.
func (r *HolderRepo) Create(ctx context.Context, h *entity.Holder) error {
	query := `
		INSERT INTO holders (id, type, name, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query, h.ID, string(h.Type), h.Name, nullable(h.ParentID), h.CreatedAt, h.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if missingRef(err) {
			return domain.ErrNotFound
		}
		return wrap("insert holder", err)
	}
	return nil
}

// GetByID obtiene un holder por ID.
func (r *HolderRepo) GetByID(ctx context.Context, id string) (*entity.Holder, error) {
	h, err := scanHolder(r.pool.QueryRow(ctx, `SELECT `+holderColumns+` FROM holders WHERE id = $1`, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, wrap("get holder", err)
	}
	return h, nil
}

// GetHeadOffice obtiene la casa matriz.
func (r *HolderRepo) GetHeadOffice(ctx context.Context) (*entity.Holder, error) {
	h, err := scanHolder(r.pool.QueryRow(ctx, `SELECT `+holderColumns+` FROM holders WHERE type = 'head_office'`))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, wrap("get head office", err)
	}
	return h, nil
}

// Update actualiza el nombre de un holder.
func (r *HolderRepo) Update(ctx context.Context, h *entity.Holder) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE holders SET name = $2, updated_at = $3 WHERE id = $1`, h.ID, h.Name, h.UpdatedAt)
	if err != nil {
		return wrap("update holder", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista holders por tipo y padre con paginación.
func (r *HolderRepo) List(ctx context.Context, t entity.HolderType, parentID string, limit, offset int) ([]*entity.Holder, error) {
	query := `
		SELECT ` + holderColumns + ` FROM holders
		WHERE ($1::text IS NULL OR type = $1) AND ($2::uuid IS NULL OR parent_id = $2::uuid)
		ORDER BY created_at, id LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, nullable(string(t)), nullable(parentID), limitArg(limit), offset)
	if err != nil {
		return nil, wrap("list holders", err)
	}
	defer rows.Close()
	list := make([]*entity.Holder, 0)
	for rows.Next() {
		h, err := scanHolder(rows)
		if err != nil {
			return nil, wrap("scan holder", err)
		}
		list = append(list, h)
	}
	return list, rows.Err()
}
