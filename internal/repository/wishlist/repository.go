package wishlist

import (
	"context"

	"storefront/internal/domain"
)

// Repository stores the set of wished product ids per user, oldest first.
type Repository interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	// Add is idempotent.
	Add(ctx context.Context, userID, productID string) error
	// Remove returns domain.ErrNotFound when the product was not wished.
	Remove(ctx context.Context, userID, productID string) error
}
