// Package seed loads the demo catalog and shopper used for manual testing.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	usersvc "storefront/internal/service/user"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "Demo12345"
)

type productStore interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type registrar interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, error)
}

// Catalog is the demo assortment: sized apparel, some on sale, and a few
// unsized goods.
func Catalog() []domain.Product {
	apparel := []string{"S", "M", "L", "XL"}
	return []domain.Product{
		{ID: "tee-classic", Name: "Classic Tee", Description: "Soft cotton tee", BasePrice: price("19.99"), Sizes: apparel},
		{ID: "hoodie-zip", Name: "Zip Hoodie", Description: "Midweight fleece", BasePrice: price("59.00"), SalePrice: pricePtr("45.00"), Sizes: apparel},
		{ID: "jacket-rain", Name: "Rain Jacket", Description: "Seam-sealed shell", BasePrice: price("180.00"), SalePrice: pricePtr("149.00"), Sizes: apparel},
		{ID: "sneaker-run", Name: "Running Sneaker", Description: "Daily trainer", BasePrice: price("120.00"), Sizes: []string{"40", "41", "42", "43", "44"}},
		{ID: "coat-wool", Name: "Wool Coat", Description: "Long overcoat", BasePrice: price("520.00"), Sizes: []string{"M", "L"}},
		{ID: "mug-logo", Name: "Logo Mug", Description: "Ceramic mug", BasePrice: price("12.99")},
		{ID: "socks-3pack", Name: "Socks 3-pack", Description: "Crew socks", BasePrice: price("14.00"), SalePrice: pricePtr("9.50")},
	}
}

// Apply upserts the catalog and registers the demo shopper. It is idempotent.
// users may be nil to skip the shopper.
func Apply(ctx context.Context, products productStore, users registrar, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, p := range Catalog() {
		if _, err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	logger.Info("seeded catalog", zap.Int("products", len(Catalog())))

	if users == nil {
		return nil
	}
	_, err := users.Register(ctx, usersvc.RegisterInput{Email: DemoEmail, Password: DemoPassword, Name: "Demo Shopper"})
	switch {
	case err == nil:
		logger.Info("seeded demo user", zap.String("email", DemoEmail))
	case errors.Is(err, domain.ErrAlreadyExists):
		logger.Debug("demo user already present", zap.String("email", DemoEmail))
	default:
		return fmt.Errorf("register demo user: %w", err)
	}
	return nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	d := price(s)
	return &d
}
