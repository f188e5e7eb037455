// Package reconcile keeps a local, optimistic mirror of the shopper's cart in
// step with the remote store. The mirror is a write-through cache: mutations
// are applied locally first, confirmed remotely, and either replaced by the
// store's answer, reverted, or refreshed in full on failure.
package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

// ErrItemNotFound is returned when the mirror has no matching line.
var ErrItemNotFound = errors.New("item not in cart")

// CartStore is the remote source of truth.
type CartStore interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddToCart(ctx context.Context, productID string, quantity int, size string) (*domain.Cart, error)
	UpdateCartItem(ctx context.Context, productID string, upd domain.ItemUpdate) (*domain.Cart, error)
	RemoveFromCart(ctx context.Context, productID, size string) (*domain.Cart, error)
	ClearCart(ctx context.Context) (*domain.Cart, error)
}

// Counter is the shared cart-count badge. It tracks the number of lines.
type Counter interface {
	Set(n int)
	Add(delta int) int
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithNotifier sets where failure notices go. The default drops them.
func WithNotifier(n Notifier) Option {
	return func(r *Reconciler) {
		if n != nil {
			r.notifier = n
		}
	}
}

// WithLogger sets the failure logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSizeRollback reverts an optimistic size change when the store rejects
// it. Without it the local size is kept after a failed update.
func WithSizeRollback() Option {
	return func(r *Reconciler) { r.revertSize = true }
}

type discardCounter struct{}

func (discardCounter) Set(int) {}

func (discardCounter) Add(int) int { return 0 }

// Reconciler is safe for concurrent use. The lock is never held across a
// remote call, so concurrent updates to one product resolve as last
// response wins.
type Reconciler struct {
	store      CartStore
	count      Counter
	notifier   Notifier
	logger     *zap.Logger
	revertSize bool

	mu    sync.Mutex
	items []domain.CartItem
}

// New mirrors the cart held by store. count may be nil when no badge is
// shown.
func New(store CartStore, count Counter, opts ...Option) *Reconciler {
	if count == nil {
		count = discardCounter{}
	}
	r := &Reconciler{
		store:    store,
		count:    count,
		notifier: discardNotifier{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Items returns a copy of the mirror.
func (r *Reconciler) Items() []domain.CartItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.CloneItems(r.items)
}

// Refresh replaces the mirror and the count with the store's cart.
func (r *Reconciler) Refresh(ctx context.Context) error {
	cart, err := r.store.GetCart(ctx)
	if err != nil {
		r.fail("refresh", "", "Could not load your cart", err)
		return err
	}
	r.apply(cart)
	return nil
}

// Add asks the store first and writes its answer through to the mirror.
func (r *Reconciler) Add(ctx context.Context, productID string, quantity int, size string) error {
	if quantity < 1 {
		quantity = 1
	}
	cart, err := r.store.AddToCart(ctx, productID, quantity, size)
	if err != nil {
		r.fail("add", productID, "Could not add the item to your cart", err)
		return err
	}
	r.apply(cart)
	return nil
}

// UpdateQuantity moves the first line of productID by delta, never below one.
// It returns the quantity the mirror holds afterwards.
func (r *Reconciler) UpdateQuantity(ctx context.Context, productID string, delta int) (int, error) {
	r.mu.Lock()
	idx := r.indexOf(productID)
	if idx < 0 {
		r.mu.Unlock()
		return 0, ErrItemNotFound
	}
	prev := r.items[idx].Quantity
	next := max(1, prev+delta)
	if next == prev {
		r.mu.Unlock()
		return prev, nil
	}
	r.items[idx].Quantity = next
	size := r.items[idx].Size
	r.mu.Unlock()

	cart, err := r.store.UpdateCartItem(ctx, productID, domain.ItemUpdate{Quantity: &next})
	if err != nil {
		r.mu.Lock()
		// Leave the line alone if a later response already replaced it.
		if i := r.indexOfLine(productID, size); i >= 0 && r.items[i].Quantity == next {
			r.items[i].Quantity = prev
		}
		r.mu.Unlock()
		r.fail("update_quantity", productID, "Could not update the quantity", err)
		return prev, err
	}
	r.apply(cart)
	return next, nil
}

// UpdateItemSize replaces the size of the first line of productID.
func (r *Reconciler) UpdateItemSize(ctx context.Context, productID, newSize string) error {
	r.mu.Lock()
	idx := r.indexOf(productID)
	if idx < 0 {
		r.mu.Unlock()
		return ErrItemNotFound
	}
	prevSize := r.items[idx].Size
	if prevSize == newSize {
		r.mu.Unlock()
		return nil
	}
	r.items[idx].Size = newSize
	r.mu.Unlock()

	cart, err := r.store.UpdateCartItem(ctx, productID, domain.ItemUpdate{Size: &newSize})
	if err != nil {
		if r.revertSize {
			r.mu.Lock()
			if i := r.indexOfLine(productID, newSize); i >= 0 {
				r.items[i].Size = prevSize
			}
			r.mu.Unlock()
		}
		r.fail("update_size", productID, "Could not change the size", err)
		return err
	}
	r.apply(cart)
	return nil
}

// RemoveItem drops the matching lines locally, decrements the count, then
// deletes remotely. An empty size matches every line of the product. A
// failed delete is compensated by a full Refresh.
func (r *Reconciler) RemoveItem(ctx context.Context, productID, size string) error {
	r.mu.Lock()
	kept := make([]domain.CartItem, 0, len(r.items))
	removed := 0
	for _, item := range r.items {
		if item.ProductID == productID && (size == "" || item.Size == size) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed == 0 {
		r.mu.Unlock()
		return ErrItemNotFound
	}
	r.items = kept
	r.mu.Unlock()
	r.count.Add(-removed)

	cart, err := r.store.RemoveFromCart(ctx, productID, size)
	if err != nil {
		r.fail("remove", productID, "Could not remove the item", err)
		if rerr := r.Refresh(ctx); rerr != nil {
			r.logger.Error("cart resync after failed remove", zap.String("product_id", productID), zap.Error(rerr))
		}
		return err
	}
	r.apply(cart)
	return nil
}

// Clear empties the cart remotely and then locally.
func (r *Reconciler) Clear(ctx context.Context) error {
	cart, err := r.store.ClearCart(ctx)
	if err != nil {
		r.fail("clear", "", "Could not clear your cart", err)
		return err
	}
	r.apply(cart)
	return nil
}

// Subtotal is the sum of quantity × unit price over the mirror.
func (r *Reconciler) Subtotal() decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, item := range r.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Savings is the sum of (original − unit) × quantity over sale lines.
func (r *Reconciler) Savings() decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, item := range r.items {
		total = total.Add(item.LineSavings())
	}
	return total
}

func (r *Reconciler) apply(cart *domain.Cart) {
	if cart == nil {
		return
	}
	items := domain.CloneItems(cart.Items)
	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	r.count.Set(len(items))
}

func (r *Reconciler) fail(op, productID, msg string, err error) {
	r.logger.Warn("cart operation failed",
		zap.String("op", op),
		zap.String("product_id", productID),
		zap.Error(err))
	r.notifier.Notify(Notice{Op: op, ProductID: productID, Message: msg, Err: err})
}

// callers hold r.mu
func (r *Reconciler) indexOf(productID string) int {
	for i, item := range r.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (r *Reconciler) indexOfLine(productID, size string) int {
	for i, item := range r.items {
		if item.ProductID == productID && item.Size == size {
			return i
		}
	}
	return -1
}
