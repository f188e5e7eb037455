package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

type wishlistRepo interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo        wishlistRepo
	productRepo productRepo
}

func New(repo wishlistRepo, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

type AddInput struct {
	ProductID string `json:"productId" binding:"required"`
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	return s.repo.Get(ctx, userID)
}

// Add wishes a catalog product; adding it twice is a no-op.
func (s *Service) Add(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		return nil, err
	}
	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("wishlist item %s: %w", productID, domain.ErrNotFound)
		}
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}
