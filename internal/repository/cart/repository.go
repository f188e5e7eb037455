package cart

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

// ErrQuantityLimit is returned when a write would leave a line above
// domain.MaxItemQuantity. It wraps domain.ErrInvalidInput.
var ErrQuantityLimit = fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrInvalidInput, domain.MaxItemQuantity)

// Repository stores one cart per user. Lines are identified by
// (productID, size) and kept in the order they were added.
type Repository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem merges into an existing line with the same product and size.
	// A merge past the quantity cap fails with ErrQuantityLimit and leaves
	// the line unchanged; UpdateItem does the same.
	AddItem(ctx context.Context, userID string, item domain.CartItem) error
	// UpdateItem changes the oldest line of productID. Moving it onto a size
	// that already has a line merges the two.
	UpdateItem(ctx context.Context, userID, productID string, upd domain.ItemUpdate) error
	// RemoveItem deletes the product's line of size, or every line when size
	// is empty.
	RemoveItem(ctx context.Context, userID, productID, size string) error
	Clear(ctx context.Context, userID string) error
}
