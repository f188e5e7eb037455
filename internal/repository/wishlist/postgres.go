package wishlist

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	rows, err := r.pool.Query(ctx, `
SELECT product_id FROM wishlist_items
WHERE user_id = $1
ORDER BY added_at ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &domain.Wishlist{UserID: userID, ProductIDs: []string{}}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out.ProductIDs = append(out.ProductIDs, id)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Add(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)
ON CONFLICT (user_id, product_id) DO NOTHING
`, userID, productID)
	return err
}

func (r *postgresRepo) Remove(ctx context.Context, userID, productID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
