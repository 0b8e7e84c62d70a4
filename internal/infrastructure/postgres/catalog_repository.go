package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

// catalogWriteErr traduce unique -> ErrDuplicate y FK o id mal formado -> ErrNotFound (padre inexistente).
func catalogWriteErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case missingRef(err):
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// catalogDelete borra por ID; una FK RESTRICT violada se reporta como ErrHasDependents.
func catalogDelete(ctx context.Context, pool *pgxpool.Pool, table, id string) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		if isFKViolation(err) {
			return domain.ErrHasDependents
		}
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func catalogCount(ctx context.Context, pool *pgxpool.Pool, query, parentID string) (int, error) {
	var n int
	if err := pool.QueryRow(ctx, query, parentID).Scan(&n); err != nil {
		return 0, wrap("count", err)
	}
	return n, nil
}

// ─── Category ─────────────────────────────────────────────────────────────────

// CategoryRepo categorías sobre PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

const categoryColumns = `id, name, name_key, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.NameKey, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, wrap("scan category", err)
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO categories (`+categoryColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.NameKey, c.CreatedAt, c.UpdatedAt)
	return catalogWriteErr("insert category", err)
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (r *CategoryRepo) FindByNameKey(ctx context.Context, nameKey string) (*entity.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name_key = $1`, nameKey))
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	_, err := r.pool.Exec(ctx, `UPDATE categories SET name = $2, name_key = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Name, c.NameKey, c.UpdatedAt)
	return catalogWriteErr("update category", err)
}

func (r *CategoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		limitArg(limit), offset)
	if err != nil {
		return nil, wrap("list categories", err)
	}
	defer rows.Close()
	list := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return catalogDelete(ctx, r.pool, "categories", id)
}

// ─── Model ────────────────────────────────────────────────────────────────────

// ModelRepo modelos sobre PostgreSQL.
type ModelRepo struct {
	pool *pgxpool.Pool
}

// NewModelRepository construye el adaptador.
func NewModelRepository(pool *pgxpool.Pool) *ModelRepo {
	return &ModelRepo{pool: pool}
}

const modelColumns = `id, category_id, name, name_key, created_at, updated_at`

func scanModel(row pgx.Row) (*entity.Model, error) {
	var m entity.Model
	if err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.NameKey, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, wrap("scan model", err)
	}
	return &m, nil
}

func (r *ModelRepo) Create(ctx context.Context, m *entity.Model) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO models (`+modelColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.CategoryID, m.Name, m.NameKey, m.CreatedAt, m.UpdatedAt)
	return catalogWriteErr("insert model", err)
}

func (r *ModelRepo) GetByID(ctx context.Context, id string) (*entity.Model, error) {
	return scanModel(r.pool.QueryRow(ctx, `SELECT `+modelColumns+` FROM models WHERE id = $1`, id))
}

func (r *ModelRepo) FindByNameKey(ctx context.Context, categoryID, nameKey string) (*entity.Model, error) {
	return scanModel(r.pool.QueryRow(ctx, `SELECT `+modelColumns+` FROM models WHERE category_id = $1 AND name_key = $2`, categoryID, nameKey))
}

func (r *ModelRepo) Update(ctx context.Context, m *entity.Model) error {
	_, err := r.pool.Exec(ctx, `UPDATE models SET name = $2, name_key = $3, updated_at = $4 WHERE id = $1`,
		m.ID, m.Name, m.NameKey, m.UpdatedAt)
	return catalogWriteErr("update model", err)
}

func (r *ModelRepo) ListByCategory(ctx context.Context, categoryID string, limit, offset int) ([]*entity.Model, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+modelColumns+` FROM models
		WHERE ($1::uuid IS NULL OR category_id = $1::uuid)
		ORDER BY created_at, id LIMIT $2 OFFSET $3`, nullable(categoryID), limitArg(limit), offset)
	if err != nil {
		return nil, wrap("list models", err)
	}
	defer rows.Close()
	list := make([]*entity.Model, 0)
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *ModelRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	return catalogCount(ctx, r.pool, `SELECT count(*) FROM models WHERE category_id = $1`, categoryID)
}

func (r *ModelRepo) Delete(ctx context.Context, id string) error {
	return catalogDelete(ctx, r.pool, "models", id)
}

// ─── Item ─────────────────────────────────────────────────────────────────────

// ItemRepo items sobre PostgreSQL.
type ItemRepo struct {
	pool *pgxpool.Pool
}

// NewItemRepository construye el adaptador.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

const itemColumns = `id, model_id, name, name_key, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	if err := row.Scan(&i.ID, &i.ModelID, &i.Name, &i.NameKey, &i.CreatedAt, &i.UpdatedAt); err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, wrap("scan item", err)
	}
	return &i, nil
}

func (r *ItemRepo) Create(ctx context.Context, i *entity.Item) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO items (`+itemColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		i.ID, i.ModelID, i.Name, i.NameKey, i.CreatedAt, i.UpdatedAt)
	return catalogWriteErr("insert item", err)
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
}

func (r *ItemRepo) FindByNameKey(ctx context.Context, modelID, nameKey string) (*entity.Item, error) {
	return scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE model_id = $1 AND name_key = $2`, modelID, nameKey))
}

func (r *ItemRepo) Update(ctx context.Context, i *entity.Item) error {
	_, err := r.pool.Exec(ctx, `UPDATE items SET name = $2, name_key = $3, updated_at = $4 WHERE id = $1`,
		i.ID, i.Name, i.NameKey, i.UpdatedAt)
	return catalogWriteErr("update item", err)
}

func (r *ItemRepo) ListByModel(ctx context.Context, modelID string, limit, offset int) ([]*entity.Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM items
		WHERE ($1::uuid IS NULL OR model_id = $1::uuid)
		ORDER BY created_at, id LIMIT $2 OFFSET $3`, nullable(modelID), limitArg(limit), offset)
	if err != nil {
		return nil, wrap("list items", err)
	}
	defer rows.Close()
	list := make([]*entity.Item, 0)
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

func (r *ItemRepo) CountByModel(ctx context.Context, modelID string) (int, error) {
	return catalogCount(ctx, r.pool, `SELECT count(*) FROM items WHERE model_id = $1`, modelID)
}

func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	return catalogDelete(ctx, r.pool, "items", id)
}

// ─── SKUCode ──────────────────────────────────────────────────────────────────

// SKUCodeRepo códigos SKU sobre PostgreSQL.
type SKUCodeRepo struct {
	pool *pgxpool.Pool
}

// NewSKUCodeRepository construye el adaptador.
func NewSKUCodeRepository(pool *pgxpool.Pool) *SKUCodeRepo {
	return &SKUCodeRepo{pool: pool}
}

const skuColumns = `id, item_id, code, code_key, is_defective, created_at, updated_at`

func scanSKU(row pgx.Row) (*entity.SKUCode, error) {
	var s entity.SKUCode
	if err := row.Scan(&s.ID, &s.ItemID, &s.Code, &s.CodeKey, &s.IsDefective, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, wrap("scan sku code", err)
	}
	return &s, nil
}

func (r *SKUCodeRepo) Create(ctx context.Context, s *entity.SKUCode) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO sku_codes (`+skuColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.ItemID, s.Code, s.CodeKey, s.IsDefective, s.CreatedAt, s.UpdatedAt)
	return catalogWriteErr("insert sku code", err)
}

func (r *SKUCodeRepo) GetByID(ctx context.Context, id string) (*entity.SKUCode, error) {
	return scanSKU(r.pool.QueryRow(ctx, `SELECT `+skuColumns+` FROM sku_codes WHERE id = $1`, id))
}

func (r *SKUCodeRepo) FindByCodeKey(ctx context.Context, itemID, codeKey string) (*entity.SKUCode, error) {
	return scanSKU(r.pool.QueryRow(ctx, `SELECT `+skuColumns+` FROM sku_codes WHERE item_id = $1 AND code_key = $2`, itemID, codeKey))
}

func (r *SKUCodeRepo) Update(ctx context.Context, s *entity.SKUCode) error {
	_, err := r.pool.Exec(ctx, `UPDATE sku_codes SET code = $2, code_key = $3, is_defective = $4, updated_at = $5 WHERE id = $1`,
		s.ID, s.Code, s.CodeKey, s.IsDefective, s.UpdatedAt)
	return catalogWriteErr("update sku code", err)
}

func (r *SKUCodeRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.SKUCode, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+skuColumns+` FROM sku_codes
		WHERE ($1::uuid IS NULL OR item_id = $1::uuid)
		ORDER BY created_at, id LIMIT $2 OFFSET $3`, nullable(itemID), limitArg(limit), offset)
	if err != nil {
		return nil, wrap("list sku codes", err)
	}
	defer rows.Close()
	list := make([]*entity.SKUCode, 0)
	for rows.Next() {
		s, err := scanSKU(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SKUCodeRepo) CountByItem(ctx context.Context, itemID string) (int, error) {
	return catalogCount(ctx, r.pool, `SELECT count(*) FROM sku_codes WHERE item_id = $1`, itemID)
}

func (r *SKUCodeRepo) Delete(ctx context.Context, id string) error {
	return catalogDelete(ctx, r.pool, "sku_codes", id)
}
