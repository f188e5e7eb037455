package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	BasePrice   decimal.Decimal  `json:"basePrice"`
	SalePrice   *decimal.Decimal `json:"salePrice,omitempty"`
	Sizes       []string         `json:"sizes,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// EffectivePrice is the sale price when one is active, the base price otherwise.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.LessThan(p.BasePrice) {
		return *p.SalePrice
	}
	return p.BasePrice
}

// HasSize reports whether size is offered. Products without sizes accept any.
func (p Product) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return true
	}
	return slices.Contains(p.Sizes, size)
}
