package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxItemQuantity caps a single cart line.
const MaxItemQuantity = 99

type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem is one (product, size) line. UnitPrice is the effective price at
// the time the item was added; OriginalPrice is only set when it was on sale.
type CartItem struct {
	ProductID     string           `json:"productId"`
	Name          string           `json:"name,omitempty"`
	Size          string           `json:"size"`
	Quantity      int              `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	AddedAt       time.Time        `json:"addedAt"`
}

// OnSale reports whether the line was added below its original price.
func (i CartItem) OnSale() bool {
	return i.OriginalPrice != nil && i.OriginalPrice.GreaterThan(i.UnitPrice)
}

// LineTotal is quantity × unit price.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineSavings is (original − unit) × quantity for sale lines, zero otherwise.
func (i CartItem) LineSavings() decimal.Decimal {
	if !i.OnSale() {
		return decimal.Zero
	}
	return i.OriginalPrice.Sub(i.UnitPrice).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemUpdate carries the optional fields of an update call. At least one
// must be set.
type ItemUpdate struct {
	Quantity *int
	Size     *string
}

// CloneItems copies a slice of items including the OriginalPrice pointers.
func CloneItems(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.OriginalPrice != nil {
			p := *item.OriginalPrice
			out[i].OriginalPrice = &p
		}
	}
	return out
}
