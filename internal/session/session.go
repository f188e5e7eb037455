// Package session holds the shopper's credential and cart-count indicator
// as an explicit object with a login/logout lifecycle.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrEmptyToken is returned by Begin for a blank credential.
var ErrEmptyToken = errors.New("empty token")

// Session is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	store TokenStore
	count Counter
}

// New builds a session backed by store. A nil store keeps the token in
// memory only.
func New(store TokenStore) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store}
}

// Restore loads a previously saved token, if any. It reports whether one
// was found.
func (s *Session) Restore() (bool, error) {
	token, err := s.store.Load()
	if err != nil {
		return false, fmt.Errorf("load token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return token != "", nil
}

// Begin starts an authenticated session after login.
func (s *Session) Begin(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// End tears the session down on logout: the stored token is removed and the
// cart count is reset.
func (s *Session) End() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	s.count.Set(0)
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Token returns the bearer credential and whether one is present.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// CartCount is the shared badge counter shown next to the cart.
func (s *Session) CartCount() *Counter {
	return &s.count
}

// Counter is a small mutex-guarded integer that never goes below zero.
type Counter struct {
	mu sync.Mutex
	n  int
}

func (c *Counter) Set(n int) {
	if n < 0 {
		n = 0
	}
	c.mu.Lock()
	c.n = n
	c.mu.Unlock()
}

func (c *Counter) Add(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n += delta
	if c.n < 0 {
		c.n = 0
	}
	return c.n
}

func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
