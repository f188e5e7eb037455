package product

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id, name, COALESCE(description, ''), base_price, sale_price, sizes, created_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p    domain.Product
		sale decimal.NullDecimal
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &sale, &p.Sizes, &p.CreatedAt); err != nil {
		return nil, err
	}
	if sale.Valid {
		p.SalePrice = &sale.Decimal
	}
	return &p, nil
}

func (r *postgresRepo) List(ctx context.Context, limit, offset int) ([]domain.Product, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&total); err != nil {
		r.logger.Error("product repo: count", zap.Error(err))
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+productColumns+`
FROM products
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		r.logger.Error("product repo: list", zap.Int("limit", limit), zap.Int("offset", offset), zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows", zap.Error(err))
		return nil, 0, err
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(result)), zap.Int("total", total))
	return result, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, description, base_price, sale_price, sizes)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    base_price = EXCLUDED.base_price,
    sale_price = EXCLUDED.sale_price,
    sizes = EXCLUDED.sizes
RETURNING ` + productColumns
	sale := decimal.NullDecimal{}
	if p.SalePrice != nil {
		sale = decimal.NewNullDecimal(*p.SalePrice)
	}
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	out, err := scanProduct(r.pool.QueryRow(ctx, q, p.ID, p.Name, p.Description, p.BasePrice, sale, sizes))
	if err != nil {
		r.logger.Error("product repo: upsert", zap.String("id", p.ID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: upserted", zap.String("id", out.ID))
	return out, nil
}
