package product

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Page is one slice of the catalog.
type Page struct {
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Count   int              `json:"count"`
	Total   int              `json:"total"`
	Results []domain.Product `json:"results"`
}

// List clamps limit to [1, MaxLimit] (DefaultLimit when zero) and offset to ≥0.
func (s *Service) List(ctx context.Context, limit, offset int) (Page, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []domain.Product{}
	}
	return Page{Limit: limit, Offset: offset, Count: len(items), Total: total, Results: items}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: product id required", domain.ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}
