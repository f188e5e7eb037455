package product

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
