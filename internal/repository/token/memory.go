package token

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
)

type memoryRepo struct {
	mu     sync.Mutex
	tokens map[string]Token
	now    func() time.Time
}

// NewMemory keeps tokens in process; expired entries are dropped on read.
func NewMemory() Repository {
	return &memoryRepo{tokens: make(map[string]Token), now: time.Now}
}

func (r *memoryRepo) Create(_ context.Context, token Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.tokens[token.Token]; ok && existing.ExpiresAt.After(r.now()) {
		return domain.ErrAlreadyExists
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryRepo) Get(_ context.Context, token string) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !t.ExpiresAt.After(r.now()) {
		delete(r.tokens, token)
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *memoryRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}
