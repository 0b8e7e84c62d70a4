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

var _ repository.JobRepository = (*JobRepo)(nil)

// JobRepo implementación de JobRepository sobre PostgreSQL (usable con pool o tx).
type JobRepo struct {
	q Querier
}

// NewJobRepository construye el adaptador de trabajos.
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

const jobColumns = `id, job_no, assets_no, service_type, sell_from, holder_id, holder_type, created_by, created_at`

func scanJob(row pgx.Row) (*entity.JobEntry, error) {
	var j entity.JobEntry
	var sellFrom, holderType string
	if err := row.Scan(&j.ID, &j.JobNo, &j.AssetsNo, &j.ServiceType, &sellFrom, &j.Holder.ID, &holderType, &j.CreatedBy, &j.CreatedAt); err != nil {
		return nil, err
	}
	j.SellFrom = entity.SellFrom(sellFrom)
	j.Holder.Type = entity.HolderType(holderType)
	return &j, nil
}

// Create persiste el trabajo y sus líneas; debe llamarse dentro de la transacción del débito.
func (r *JobRepo) Create(ctx context.Context, j *entity.JobEntry) error {
	query := `
		INSERT INTO jobs (id, job_no, assets_no, service_type, sell_from, holder_id, holder_type, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		j.ID, j.JobNo, j.AssetsNo, j.ServiceType, string(j.SellFrom),
		j.Holder.ID, string(j.Holder.Type), j.CreatedBy, j.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("insert job", err)
	}
	itemQuery := `
		INSERT INTO job_items (id, job_id, position, sku_code_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, it := range j.Items {
		if _, err := r.q.Exec(ctx, itemQuery, it.ID, j.ID, it.Position, it.SKUCodeID, it.Quantity, it.Price); err != nil {
			if missingRef(err) {
				return domain.ErrNotFound
			}
			return wrap("insert job item", err)
		}
	}
	return nil
}

// GetByID obtiene un trabajo con sus líneas; nil si no existe.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*entity.JobEntry, error) {
	j, err := scanJob(r.q.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, wrap("get job", err)
	}
	if err := r.loadItems(ctx, []*entity.JobEntry{j}); err != nil {
		return nil, err
	}
	return j, nil
}

// List filtra y pagina trabajos, más recientes primero.
func (r *JobRepo) List(ctx context.Context, f repository.JobFilter) ([]*entity.JobEntry, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.HolderID != "" {
		where = append(where, "holder_id = "+arg(f.HolderID))
	}
	if f.From != nil {
		where = append(where, "created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "created_at <= "+arg(*f.To))
	}
	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id LIMIT " + arg(limitArg(f.Limit)) + " OFFSET " + arg(f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list jobs", err)
	}
	list := make([]*entity.JobEntry, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			rows.Close()
			return nil, wrap("scan job", err)
		}
		list = append(list, j)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("list jobs", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *JobRepo) loadItems(ctx context.Context, jobs []*entity.JobEntry) error {
	if len(jobs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.JobEntry, len(jobs))
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
		ids = append(ids, j.ID)
		j.Items = j.Items[:0]
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, job_id, position, sku_code_id, quantity, price
		FROM job_items WHERE job_id = ANY($1) ORDER BY job_id, position`, ids)
	if err != nil {
		return wrap("list job items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.JobItem
		if err := rows.Scan(&it.ID, &it.JobID, &it.Position, &it.SKUCodeID, &it.Quantity, &it.Price); err != nil {
			return wrap("scan job item", err)
		}
		if j := byID[it.JobID]; j != nil {
			j.Items = append(j.Items, it)
		}
	}
	return rows.Err()
}

// ExistsForSKU indica si algún trabajo consumió el SKU.
func (r *JobRepo) ExistsForSKU(ctx context.Context, skuCodeID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_items WHERE sku_code_id = $1)`, skuCodeID).Scan(&ok)
	if err != nil {
		return false, wrap("job exists for sku", err)
	}
	return ok, nil
}
