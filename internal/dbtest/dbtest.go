// Package dbtest opens a migrated, empty Postgres pool for repository tests.
// Tests are skipped unless TEST_DB_DSN is set.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/migrate"
)

func Pool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE wishlist_items, cart_items, carts, products, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}

// InsertUser creates a bare user row and returns its id.
func InsertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, email string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `INSERT INTO users (email, password_hash) VALUES ($1, 'x') RETURNING id::text`, email).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

// InsertProduct creates a product row priced at price.
func InsertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, id, price string) {
	t.Helper()
	if _, err := pool.Exec(ctx, `INSERT INTO products (id, name, base_price, sizes) VALUES ($1, $1, $2::numeric, '{S,M,L}')`, id, price); err != nil {
		t.Fatalf("insert product: %v", err)
	}
}
