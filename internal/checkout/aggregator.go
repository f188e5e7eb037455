// Package checkout turns the cart, address, shipping and discount choices and
// the payment outcome into an immutable order draft.
package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrIncompleteAddress  = errors.New("address incomplete")
	ErrPaymentNotApproved = errors.New("payment not approved")
	ErrAlreadySubmitted   = errors.New("order already submitted")
)

// Input is everything the aggregator needs at the moment of confirmation.
type Input struct {
	Items        []domain.CartItem
	Address      domain.Address
	Shipping     pricing.ShippingOption
	DiscountCode string
	Payment      domain.PaymentDetails
}

// Aggregator builds order drafts with one calculator.
type Aggregator struct {
	calc  *pricing.Calculator
	now   func() time.Time
	newID func() string
}

// NewAggregator uses calc, or the default calculator when calc is nil.
func NewAggregator(calc *pricing.Calculator) *Aggregator {
	if calc == nil {
		calc = pricing.DefaultCalculator()
	}
	return &Aggregator{
		calc:  calc,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Build validates in and snapshots it. The draft total is the adjusted
// total: discount applied and shipping waived at the threshold.
func (a *Aggregator) Build(in Input) (*OrderDraft, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if missing := in.Address.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteAddress, strings.Join(missing, ", "))
	}
	if in.Payment.Status != domain.PaymentApproved {
		return nil, fmt.Errorf("%w: status %q", ErrPaymentNotApproved, in.Payment.Status)
	}

	items := domain.CloneItems(in.Items)
	subtotal := decimal.Zero
	savings := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		savings = savings.Add(item.LineSavings())
	}

	quote, err := a.calc.Quote(subtotal, in.Shipping, in.DiscountCode)
	if err != nil {
		return nil, err
	}

	return &OrderDraft{
		id:             a.newID(),
		items:          items,
		address:        in.Address,
		shippingOption: quote.ShippingOption,
		shippingCost:   quote.ShippingCost,
		freeShipping:   quote.FreeShipping,
		discountCode:   quote.DiscountCode,
		discount:       quote.Discount,
		subtotal:       quote.Subtotal,
		savings:        savings,
		adjustedTotal:  quote.AdjustedTotal,
		payment:        in.Payment,
		createdAt:      a.now(),
	}, nil
}
