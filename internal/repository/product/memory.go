package product

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain"
)

type memoryRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewMemory returns a process-local catalog, optionally preloaded.
func NewMemory(seed ...domain.Product) Repository {
	r := &memoryRepo{products: make(map[string]domain.Product)}
	for _, p := range seed {
		_, _ = r.Upsert(context.Background(), p)
	}
	return r
}

func (r *memoryRepo) List(_ context.Context, limit, offset int) ([]domain.Product, int, error) {
	r.mu.RLock()
	all := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, p)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	total := len(all)
	if offset >= total {
		return []domain.Product{}, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.products[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.products[p.ID] = p
	return &p, nil
}
