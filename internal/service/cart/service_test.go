package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

type stubRepo struct {
	cart         *domain.Cart
	getErr       error
	addErr       error
	updateErr    error
	removeErr    error
	getCalls     int
	lastAdd      domain.CartItem
	lastUpdateID string
	lastUpdate   domain.ItemUpdate
	lastRemoveID string
	lastRemoveSz string
	cleared      bool
}

func (s *stubRepo) Get(_ context.Context, _ string) (*domain.Cart, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.cart == nil {
		return &domain.Cart{}, nil
	}
	return s.cart, nil
}

func (s *stubRepo) AddItem(_ context.Context, _ string, item domain.CartItem) error {
	s.lastAdd = item
	return s.addErr
}

func (s *stubRepo) UpdateItem(_ context.Context, _, productID string, upd domain.ItemUpdate) error {
	s.lastUpdateID = productID
	s.lastUpdate = upd
	return s.updateErr
}

func (s *stubRepo) RemoveItem(_ context.Context, _, productID, size string) error {
	s.lastRemoveID = productID
	s.lastRemoveSz = size
	return s.removeErr
}

func (s *stubRepo) Clear(_ context.Context, _ string) error {
	s.cleared = true
	return nil
}

type stubProductRepo struct {
	product *domain.Product
	err     error
	lastID  string
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func shirt() *domain.Product {
	sale := dec("15.00")
	return &domain.Product{ID: "shirt", Name: "Shirt", BasePrice: dec("20.00"), SalePrice: &sale, Sizes: []string{"S", "M"}}
}

func TestServiceAddValidation(t *testing.T) {
	svc := New(&stubRepo{}, &stubProductRepo{product: shirt()}, nil)
	cases := []AddInput{
		{ProductID: " ", Quantity: 1, Size: "M"},
		{ProductID: "shirt", Quantity: 0, Size: "M"},
		{ProductID: "shirt", Quantity: 100, Size: "M"},
		{ProductID: "shirt", Quantity: 1},
		{ProductID: "shirt", Quantity: 1, Size: "XXL"},
	}
	for _, in := range cases {
		if _, err := svc.Add(context.Background(), "u", in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("Add(%+v): expected invalid input, got %v", in, err)
		}
	}
}

func TestServiceAddProductErrors(t *testing.T) {
	svc := New(&stubRepo{}, nil, nil)
	_, err := svc.Add(context.Background(), "u", AddInput{ProductID: "shirt", Quantity: 1})
	if err == nil || err.Error() != "product repository unavailable" {
		t.Fatalf("expected product repo error, got %v", err)
	}

	svc = New(&stubRepo{}, &stubProductRepo{err: domain.ErrNotFound}, nil)
	_, err = svc.Add(context.Background(), "u", AddInput{ProductID: "shirt", Quantity: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceAddSnapshotsSalePrice(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, &stubProductRepo{product: shirt()}, nil)
	if _, err := svc.Add(context.Background(), "u", AddInput{ProductID: "shirt", Quantity: 2, Size: "M"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := repo.lastAdd
	if got.ProductID != "shirt" || got.Size != "M" || got.Quantity != 2 || got.Name != "Shirt" {
		t.Fatalf("unexpected item %+v", got)
	}
	if !got.UnitPrice.Equal(dec("15")) || got.OriginalPrice == nil || !got.OriginalPrice.Equal(dec("20")) {
		t.Fatalf("unexpected prices unit=%s original=%v", got.UnitPrice, got.OriginalPrice)
	}
	if repo.getCalls != 2 {
		t.Fatalf("expected cart read before and after add, got %d", repo.getCalls)
	}
}

func TestServiceAddRejectsOverflowingMerge(t *testing.T) {
	repo := &stubRepo{cart: &domain.Cart{Items: []domain.CartItem{{ProductID: "shirt", Size: "M", Quantity: 98}}}}
	svc := New(repo, &stubProductRepo{product: shirt()}, nil)
	_, err := svc.Add(context.Background(), "u", AddInput{ProductID: "shirt", Quantity: 2, Size: "M"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestServiceAddRepoError(t *testing.T) {
	svc := New(&stubRepo{addErr: errors.New("add failed")}, &stubProductRepo{product: shirt()}, nil)
	_, err := svc.Add(context.Background(), "u", AddInput{ProductID: "shirt", Quantity: 1, Size: "S"})
	if err == nil || err.Error() != "add failed" {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestServiceUpdateValidation(t *testing.T) {
	repo := &stubRepo{cart: &domain.Cart{Items: []domain.CartItem{{ProductID: "shirt", Size: "M", Quantity: 1}}}}
	svc := New(repo, &stubProductRepo{product: shirt()}, nil)

	if _, err := svc.Update(context.Background(), "u", UpdateInput{ProductID: "shirt"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "u", UpdateInput{ProductID: "shirt", Quantity: intPtr(0)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "u", UpdateInput{ProductID: "shirt", Size: strPtr("XL")}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid size, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "u", UpdateInput{ProductID: "hat", Quantity: intPtr(2)}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpdateSuccess(t *testing.T) {
	repo := &stubRepo{cart: &domain.Cart{Items: []domain.CartItem{{ProductID: "shirt", Size: "M", Quantity: 1}}}}
	svc := New(repo, &stubProductRepo{product: shirt()}, nil)
	if _, err := svc.Update(context.Background(), "u", UpdateInput{ProductID: "shirt", Quantity: intPtr(3), Size: strPtr("S")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastUpdateID != "shirt" || *repo.lastUpdate.Quantity != 3 || *repo.lastUpdate.Size != "S" {
		t.Fatalf("update not called as expected: %+v", repo.lastUpdate)
	}
}

func TestServiceUpdateRejectsOverflowingSizeMerge(t *testing.T) {
	repo := &stubRepo{cart: &domain.Cart{Items: []domain.CartItem{
		{ProductID: "shirt", Size: "M", Quantity: 50},
		{ProductID: "shirt", Size: "S", Quantity: 50},
	}}}
	svc := New(repo, &stubProductRepo{product: shirt()}, nil)
	_, err := svc.Update(context.Background(), "u", UpdateInput{ProductID: "shirt", Size: strPtr("S")})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestServiceRemove(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil, nil)
	if _, err := svc.Remove(context.Background(), "u", "shirt", " M "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastRemoveID != "shirt" || repo.lastRemoveSz != "M" {
		t.Fatalf("unexpected remove args %q %q", repo.lastRemoveID, repo.lastRemoveSz)
	}

	repo.removeErr = domain.ErrNotFound
	if _, err := svc.Remove(context.Background(), "u", "shirt", ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceClear(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil, nil)
	if _, err := svc.Clear(context.Background(), "u"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.cleared {
		t.Fatalf("expected repo cleared")
	}
}

// laggingRepo widens the gap between the service's read and its write.
type laggingRepo struct {
	cartrepo.Repository
}

func (r laggingRepo) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := r.Repository.Get(ctx, userID)
	time.Sleep(5 * time.Millisecond)
	return cart, err
}

type fixedProductRepo struct {
	product *domain.Product
}

func (r fixedProductRepo) GetByID(context.Context, string) (*domain.Product, error) {
	return r.product, nil
}

func TestServiceConcurrentAddsRespectCap(t *testing.T) {
	ctx := context.Background()
	mem := cartrepo.NewMemory()
	if err := mem.AddItem(ctx, "u", domain.CartItem{ProductID: "shirt", Size: "M", Quantity: 50, UnitPrice: dec("15.00")}); err != nil {
		t.Fatalf("seed line: %v", err)
	}
	svc := New(laggingRepo{Repository: mem}, fixedProductRepo{product: shirt()}, nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, "u", AddInput{ProductID: "shirt", Quantity: 49, Size: "M"})
			if err != nil && !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("unexpected error: %v", err)
			}
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	cart, _ := mem.Get(ctx, "u")
	if len(cart.Items) != 1 || cart.Items[0].Quantity != domain.MaxItemQuantity {
		t.Fatalf("expected one line at the cap, got %+v", cart.Items)
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one add to succeed, got %d", succeeded)
	}
}
