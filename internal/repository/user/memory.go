package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

type memoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewMemory() Repository {
	return &memoryRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, ok := r.byEmail[email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	u.ID = uuid.NewString()
	u.Email = email
	if u.Role == "" {
		u.Role = domain.RoleCustomer
	}
	u.CreatedAt = time.Now().UTC()
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	out := u
	return &out, nil
}

func (r *memoryRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}
