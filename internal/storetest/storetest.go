// Package storetest runs a seeded in-memory store behind httptest for
// client-side tests.
package storetest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"storefront/internal/app"
	"storefront/internal/httpserver"
	"storefront/internal/seed"
)

// Store is a running in-memory store.
type Store struct {
	*httptest.Server
	Stores   app.Stores
	Services app.Services
}

// New starts a store loaded with seed.Catalog and the demo user. It is
// closed when the test ends.
func New(t *testing.T) *Store {
	t.Helper()
	stores := app.MemoryStores()
	services := app.NewServices(stores, time.Hour, zap.NewNop())
	if err := seed.Apply(context.Background(), stores.Products, services.User, nil); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	srv, err := httpserver.New("", zap.NewNop(), nil, services.Deps(nil))
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &Store{Server: ts, Stores: stores, Services: services}
}

// Login issues a token for the demo user directly through the service.
func (s *Store) Login(t *testing.T) string {
	t.Helper()
	_, token, err := s.Services.User.Login(context.Background(), seed.DemoEmail, seed.DemoPassword)
	if err != nil {
		t.Fatalf("login demo user: %v", err)
	}
	return token
}
