package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

type Service struct {
	repo        cartRepo
	productRepo productRepo
	logger      *zap.Logger
}

type cartRepo interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, item domain.CartItem) error
	UpdateItem(ctx context.Context, userID, productID string, upd domain.ItemUpdate) error
	RemoveItem(ctx context.Context, userID, productID, size string) error
	Clear(ctx context.Context, userID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartRepo, productRepo productRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, productRepo: productRepo, logger: logger}
}

type AddInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Size      string `json:"size"`
}

type UpdateInput struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  *int    `json:"quantity,omitempty"`
	Size      *string `json:"size,omitempty"`
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.Get(ctx, userID)
}

func (s *Service) Add(ctx context.Context, userID string, in AddInput) (*domain.Cart, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, invalid("productId required")
	}
	if err := checkQuantity(in.Quantity); err != nil {
		return nil, err
	}
	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	size := strings.TrimSpace(in.Size)
	if err := checkSize(*product, size); err != nil {
		return nil, err
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing := findLine(cart.Items, productID, size); existing != nil {
		if err := checkQuantity(existing.Quantity + in.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.repo.AddItem(ctx, userID, snapshot(*product, size, in.Quantity)); err != nil {
		return nil, err
	}
	s.logger.Debug("cart add", zap.String("user", userID), zap.String("product", productID), zap.Int("quantity", in.Quantity))
	return s.repo.Get(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (*domain.Cart, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, invalid("productId required")
	}
	if in.Quantity == nil && in.Size == nil {
		return nil, invalid("quantity or size required")
	}
	if in.Quantity != nil {
		if err := checkQuantity(*in.Quantity); err != nil {
			return nil, err
		}
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	target := oldestLine(cart.Items, productID)
	if target == nil {
		return nil, fmt.Errorf("cart item %s: %w", productID, domain.ErrNotFound)
	}

	upd := domain.ItemUpdate{Quantity: in.Quantity}
	if in.Size != nil {
		size := strings.TrimSpace(*in.Size)
		product, err := s.lookupProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if err := checkSize(*product, size); err != nil {
			return nil, err
		}
		if size != target.Size {
			qty := target.Quantity
			if in.Quantity != nil {
				qty = *in.Quantity
			}
			if other := findLine(cart.Items, productID, size); other != nil {
				if err := checkQuantity(other.Quantity + qty); err != nil {
					return nil, err
				}
			}
		}
		upd.Size = &size
	}

	if err := s.repo.UpdateItem(ctx, userID, productID, upd); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, productID, size string) (*domain.Cart, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, invalid("productId required")
	}
	if err := s.repo.RemoveItem(ctx, userID, productID, strings.TrimSpace(size)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("cart item %s: %w", productID, domain.ErrNotFound)
		}
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *Service) lookupProduct(ctx context.Context, id string) (*domain.Product, error) {
	if s.productRepo == nil {
		return nil, errors.New("product repository unavailable")
	}
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func snapshot(p domain.Product, size string, quantity int) domain.CartItem {
	item := domain.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Size:      size,
		Quantity:  quantity,
		UnitPrice: p.EffectivePrice(),
	}
	if item.UnitPrice.LessThan(p.BasePrice) {
		base := p.BasePrice
		item.OriginalPrice = &base
	}
	return item
}

func checkQuantity(q int) error {
	if q < 1 || q > domain.MaxItemQuantity {
		return invalid(fmt.Sprintf("quantity must be between 1 and %d", domain.MaxItemQuantity))
	}
	return nil
}

func checkSize(p domain.Product, size string) error {
	if len(p.Sizes) > 0 && size == "" {
		return invalid("size required")
	}
	if !p.HasSize(size) {
		return invalid(fmt.Sprintf("size %q not offered for %s", size, p.ID))
	}
	return nil
}

func findLine(items []domain.CartItem, productID, size string) *domain.CartItem {
	for i := range items {
		if items[i].ProductID == productID && items[i].Size == size {
			return &items[i]
		}
	}
	return nil
}

func oldestLine(items []domain.CartItem, productID string) *domain.CartItem {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, reason)
}
