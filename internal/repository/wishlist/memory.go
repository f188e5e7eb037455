package wishlist

import (
	"context"
	"slices"
	"sync"

	"storefront/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	lists map[string][]string
}

func NewMemory() Repository {
	return &memoryRepo{lists: make(map[string][]string)}
}

func (r *memoryRepo) Get(_ context.Context, userID string) (*domain.Wishlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := append([]string{}, r.lists[userID]...)
	return &domain.Wishlist{UserID: userID, ProductIDs: ids}, nil
}

func (r *memoryRepo) Add(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.lists[userID], productID) {
		r.lists[userID] = append(r.lists[userID], productID)
	}
	return nil
}

func (r *memoryRepo) Remove(_ context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.lists[userID]
	idx := slices.Index(ids, productID)
	if idx < 0 {
		return domain.ErrNotFound
	}
	r.lists[userID] = slices.Delete(ids, idx, idx+1)
	return nil
}
