package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `holder_id, holder_type, sku_code_id, good, defective, faulty, scrap, avg_price, updated_at`

func scanPosition(row pgx.Row) (*entity.StockPosition, error) {
	var p entity.StockPosition
	var holderType string
	if err := row.Scan(&p.Holder.ID, &holderType, &p.SKUCodeID, &p.Good, &p.Defective, &p.Faulty, &p.Scrap, &p.AvgPrice, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Holder.Type = entity.HolderType(holderType)
	return &p, nil
}

// Get obtiene la posición de un holder para un SKU; si no existe devuelve una en cero.
func (r *StockRepo) Get(ctx context.Context, holder entity.HolderRef, skuCodeID string) (*entity.StockPosition, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_positions WHERE holder_id = $1 AND sku_code_id = $2`
	p, err := scanPosition(r.q.QueryRow(ctx, query, holder.ID, skuCodeID))
	if err != nil {
		if isNoRow(err) {
			return &entity.StockPosition{Holder: holder, SKUCodeID: skuCodeID}, nil
		}
		return nil, wrap("get stock", err)
	}
	return p, nil
}

// GetForUpdate crea la fila si falta y la bloquea (SELECT FOR UPDATE).
// Un SKU o holder inexistente viola la FK y devuelve ErrNotFound.
func (r *StockRepo) GetForUpdate(ctx context.Context, holder entity.HolderRef, skuCodeID string) (*entity.StockPosition, error) {
	insert := `
		INSERT INTO stock_positions (holder_id, holder_type, sku_code_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (holder_id, sku_code_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, holder.ID, string(holder.Type), skuCodeID); err != nil {
		if missingRef(err) {
			return nil, domain.ErrNotFound
		}
		return nil, wrap("ensure stock row", err)
	}
	query := `SELECT ` + stockColumns + ` FROM stock_positions WHERE holder_id = $1 AND sku_code_id = $2 FOR UPDATE`
	p, err := scanPosition(r.q.QueryRow(ctx, query, holder.ID, skuCodeID))
	if err != nil {
		return nil, wrap("get stock for update", err)
	}
	return p, nil
}

// Upsert guarda los cuatro buckets y el costo promedio. El CHECK >= 0 de la tabla responde con ErrInsufficientStock.
func (r *StockRepo) Upsert(ctx context.Context, pos *entity.StockPosition) error {
	query := `
		INSERT INTO stock_positions (holder_id, holder_type, sku_code_id, good, defective, faulty, scrap, avg_price, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (holder_id, sku_code_id)
		DO UPDATE SET good = EXCLUDED.good, defective = EXCLUDED.defective, faulty = EXCLUDED.faulty,
		              scrap = EXCLUDED.scrap, avg_price = EXCLUDED.avg_price, updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		pos.Holder.ID, string(pos.Holder.Type), pos.SKUCodeID,
		pos.Good, pos.Defective, pos.Faulty, pos.Scrap, pos.AvgPrice,
	)
	return wrap("upsert stock", err)
}

// List posiciones de un holder (vacío = todos) ordenadas por holder y SKU.
func (r *StockRepo) List(ctx context.Context, holderID string) ([]*entity.StockPosition, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_positions
		WHERE ($1::uuid IS NULL OR holder_id = $1::uuid)
		ORDER BY holder_id, sku_code_id`
	rows, err := r.q.Query(ctx, query, nullable(holderID))
	if err != nil {
		return nil, wrap("list stock", err)
	}
	defer rows.Close()
	list := make([]*entity.StockPosition, 0)
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, wrap("scan stock", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ExistsForSKU indica si algún holder tiene posición del SKU.
func (r *StockRepo) ExistsForSKU(ctx context.Context, skuCodeID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_positions WHERE sku_code_id = $1)`, skuCodeID).Scan(&ok)
	if err != nil {
		return false, wrap("stock exists for sku", err)
	}
	return ok, nil
}
