package cart

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
)

type memoryCart struct {
	items     []domain.CartItem
	updatedAt time.Time
}

type memoryRepo struct {
	mu    sync.Mutex
	carts map[string]*memoryCart
	now   func() time.Time
}

// NewMemory returns a mutex-guarded in-process cart store.
func NewMemory() Repository {
	return &memoryRepo{
		carts: make(map[string]*memoryCart),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryRepo) cart(userID string) *memoryCart {
	c, ok := r.carts[userID]
	if !ok {
		c = &memoryCart{}
		r.carts[userID] = c
	}
	return c
}

func (r *memoryRepo) Get(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := &domain.Cart{UserID: userID, Items: []domain.CartItem{}}
	if c, ok := r.carts[userID]; ok {
		out.Items = append(out.Items, domain.CloneItems(c.items)...)
		out.UpdatedAt = c.updatedAt
	}
	return out, nil
}

func (r *memoryRepo) AddItem(_ context.Context, userID string, item domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.cart(userID)
	now := r.now()
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID && c.items[i].Size == item.Size {
			if c.items[i].Quantity+item.Quantity > domain.MaxItemQuantity {
				return ErrQuantityLimit
			}
			c.items[i].Quantity += item.Quantity
			c.updatedAt = now
			return nil
		}
	}
	if item.Quantity < 1 || item.Quantity > domain.MaxItemQuantity {
		return ErrQuantityLimit
	}
	item.AddedAt = now
	c.items = append(c.items, domain.CloneItems([]domain.CartItem{item})...)
	c.updatedAt = now
	return nil
}

func (r *memoryRepo) UpdateItem(_ context.Context, userID, productID string, upd domain.ItemUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return domain.ErrNotFound
	}
	idx := -1
	for i := range c.items {
		if c.items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}

	line := &c.items[idx]
	quantity := line.Quantity
	if upd.Quantity != nil {
		quantity = *upd.Quantity
	}
	if quantity < 1 || quantity > domain.MaxItemQuantity {
		return ErrQuantityLimit
	}
	if upd.Size != nil && *upd.Size != line.Size {
		for j := range c.items {
			if j != idx && c.items[j].ProductID == productID && c.items[j].Size == *upd.Size {
				if c.items[j].Quantity+quantity > domain.MaxItemQuantity {
					return ErrQuantityLimit
				}
				c.items[j].Quantity += quantity
				c.items = append(c.items[:idx], c.items[idx+1:]...)
				c.updatedAt = r.now()
				return nil
			}
		}
		line.Size = *upd.Size
	}
	line.Quantity = quantity
	c.updatedAt = r.now()
	return nil
}

func (r *memoryRepo) RemoveItem(_ context.Context, userID, productID, size string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return domain.ErrNotFound
	}
	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if item.ProductID == productID && (size == "" || item.Size == size) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed == 0 {
		return domain.ErrNotFound
	}
	c.items = kept
	c.updatedAt = r.now()
	return nil
}

func (r *memoryRepo) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.cart(userID)
	c.items = nil
	c.updatedAt = r.now()
	return nil
}
