package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart := domain.Cart{UserID: userID, Items: []domain.CartItem{}}
	err := r.pool.QueryRow(ctx, `SELECT updated_at FROM carts WHERE user_id = $1`, userID).Scan(&cart.UpdatedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT product_id, size, COALESCE(name, ''), quantity, unit_price, original_price, added_at
FROM cart_items
WHERE user_id = $1
ORDER BY added_at ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item     domain.CartItem
			original decimal.NullDecimal
		)
		if err := rows.Scan(&item.ProductID, &item.Size, &item.Name, &item.Quantity, &item.UnitPrice, &original, &item.AddedAt); err != nil {
			return nil, err
		}
		if original.Valid {
			item.OriginalPrice = &original.Decimal
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) AddItem(ctx context.Context, userID string, item domain.CartItem) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	original := decimal.NullDecimal{}
	if item.OriginalPrice != nil {
		original = decimal.NewNullDecimal(*item.OriginalPrice)
	}
	cmd, err := tx.Exec(ctx, `
INSERT INTO cart_items (user_id, product_id, size, name, quantity, unit_price, original_price)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
ON CONFLICT (user_id, product_id, size) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity
WHERE cart_items.quantity + EXCLUDED.quantity <= $8
`, userID, item.ProductID, item.Size, item.Name, item.Quantity, item.UnitPrice, original, domain.MaxItemQuantity)
	if err != nil {
		return quantityErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrQuantityLimit
	}

	if err := touchCart(ctx, tx, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) UpdateItem(ctx context.Context, userID, productID string, upd domain.ItemUpdate) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var size string
	var quantity int
	err = tx.QueryRow(ctx, `
SELECT size, quantity
FROM cart_items
WHERE user_id = $1 AND product_id = $2
ORDER BY added_at ASC
LIMIT 1
FOR UPDATE
`, userID, productID).Scan(&size, &quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if upd.Quantity != nil {
		quantity = *upd.Quantity
	}
	newSize := size
	if upd.Size != nil {
		newSize = *upd.Size
	}

	if newSize == size {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items SET quantity = $1
WHERE user_id = $2 AND product_id = $3 AND size = $4
`, quantity, userID, productID, size); err != nil {
			return quantityErr(err)
		}
	} else {
		cmd, err := tx.Exec(ctx, `
UPDATE cart_items SET quantity = quantity + $1
WHERE user_id = $2 AND product_id = $3 AND size = $4
`, quantity, userID, productID, newSize)
		if err != nil {
			return quantityErr(err)
		}
		if cmd.RowsAffected() > 0 {
			_, err = tx.Exec(ctx, `
DELETE FROM cart_items
WHERE user_id = $1 AND product_id = $2 AND size = $3
`, userID, productID, size)
		} else {
			_, err = tx.Exec(ctx, `
UPDATE cart_items SET size = $1, quantity = $2
WHERE user_id = $3 AND product_id = $4 AND size = $5
`, newSize, quantity, userID, productID, size)
		}
		if err != nil {
			return quantityErr(err)
		}
	}

	if err := touchCart(ctx, tx, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, userID, productID, size string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE user_id = $1 AND product_id = $2 AND ($3 = '' OR size = $3)
`, userID, productID, size)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := touchCart(ctx, tx, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if err := touchCart(ctx, tx, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// quantityErr maps the quantity range constraint onto ErrQuantityLimit.
func quantityErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" && pgErr.ConstraintName == "cart_items_quantity_range" {
		return ErrQuantityLimit
	}
	return err
}

func touchCart(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `
INSERT INTO carts (user_id, updated_at) VALUES ($1, now())
ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
`, userID)
	return err
}
