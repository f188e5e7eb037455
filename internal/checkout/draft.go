package checkout

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

// OrderDraft is the immutable snapshot produced at submission. Accessors
// hand out copies; the JSON encoding is the submission payload.
type OrderDraft struct {
	id             string
	items          []domain.CartItem
	address        domain.Address
	shippingOption pricing.ShippingOption
	shippingCost   decimal.Decimal
	freeShipping   bool
	discountCode   string
	discount       decimal.Decimal
	subtotal       decimal.Decimal
	savings        decimal.Decimal
	adjustedTotal  decimal.Decimal
	payment        domain.PaymentDetails
	createdAt      time.Time
}

func (d *OrderDraft) ID() string { return d.id }
func (d *OrderDraft) Items() []domain.CartItem { return domain.CloneItems(d.items) }
func (d *OrderDraft) Address() domain.Address { return d.address }
func (d *OrderDraft) ShippingOption() pricing.ShippingOption { return d.shippingOption }
func (d *OrderDraft) ShippingCost() decimal.Decimal { return d.shippingCost }
func (d *OrderDraft) FreeShipping() bool { return d.freeShipping }
func (d *OrderDraft) DiscountCode() string { return d.discountCode }
func (d *OrderDraft) Discount() decimal.Decimal { return d.discount }
func (d *OrderDraft) Subtotal() decimal.Decimal { return d.subtotal }
func (d *OrderDraft) Savings() decimal.Decimal { return d.savings }
func (d *OrderDraft) PaymentDetails() domain.PaymentDetails { return d.payment }
func (d *OrderDraft) CreatedAt() time.Time { return d.createdAt }

// AdjustedTotal is the authoritative order total.
func (d *OrderDraft) AdjustedTotal() decimal.Decimal { return d.adjustedTotal }

type draftPayload struct {
	ID             string                 `json:"id"`
	Items          []domain.CartItem      `json:"items"`
	Address        domain.Address         `json:"address"`
	ShippingOption pricing.ShippingOption `json:"shippingOption"`
	ShippingCost   decimal.Decimal        `json:"shippingCost"`
	FreeShipping   bool                   `json:"freeShipping"`
	DiscountCode   string                 `json:"discountCode,omitempty"`
	Discount       decimal.Decimal        `json:"discount"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	Savings        decimal.Decimal        `json:"savings"`
	AdjustedTotal  decimal.Decimal        `json:"adjustedTotal"`
	Payment        domain.PaymentDetails  `json:"paymentDetails"`
	CreatedAt      time.Time              `json:"createdAt"`
}

func (d *OrderDraft) MarshalJSON() ([]byte, error) {
	return json.Marshal(draftPayload{
		ID:             d.id,
		Items:          d.items,
		Address:        d.address,
		ShippingOption: d.shippingOption,
		ShippingCost:   d.shippingCost,
		FreeShipping:   d.freeShipping,
		DiscountCode:   d.discountCode,
		Discount:       d.discount,
		Subtotal:       d.subtotal,
		Savings:        d.savings,
		AdjustedTotal:  d.adjustedTotal,
		Payment:        d.payment,
		CreatedAt:      d.createdAt,
	})
}
