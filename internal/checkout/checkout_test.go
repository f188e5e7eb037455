package checkout

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

type staticCart struct {
	items []domain.CartItem
}

func (s *staticCart) Items() []domain.CartItem { return domain.CloneItems(s.items) }

func (s *staticCart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func line(productID string, qty int, price string) domain.CartItem {
	return domain.CartItem{ProductID: productID, Size: "M", Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

var fullAddress = domain.Address{
	FullName:   "Ada Lovelace",
	Street:     "12 Analytical Row",
	City:       "London",
	PostalCode: "N1 9GU",
	Country:    "GB",
}

var approved = domain.PaymentDetails{Provider: "card", TransactionID: "tx-1", Status: domain.PaymentApproved}

func fixedAggregator() *Aggregator {
	a := NewAggregator(nil)
	a.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	a.newID = func() string { return "order-1" }
	return a
}

func TestBuild_UsesAdjustedTotal(t *testing.T) {
	draft, err := fixedAggregator().Build(Input{
		Items:        []domain.CartItem{line("p1", 2, "50")},
		Address:      fullAddress,
		Shipping:     pricing.ShippingStandard,
		DiscountCode: "SAVE10",
		Payment:      approved,
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", draft.ID())
	assert.True(t, decimal.NewFromInt(100).Equal(draft.Subtotal()))
	assert.True(t, decimal.NewFromInt(10).Equal(draft.Discount()))
	assert.True(t, decimal.NewFromInt(100).Equal(draft.AdjustedTotal()))
	assert.False(t, draft.FreeShipping())
	assert.Equal(t, "SAVE10", draft.DiscountCode())
}

func TestBuild_FreeShippingAboveThreshold(t *testing.T) {
	draft, err := fixedAggregator().Build(Input{
		Items:    []domain.CartItem{line("p1", 3, "200")},
		Address:  fullAddress,
		Shipping: pricing.ShippingAirplane,
		Payment:  approved,
	})
	require.NoError(t, err)
	assert.True(t, draft.FreeShipping())
	assert.True(t, decimal.NewFromInt(600).Equal(draft.AdjustedTotal()))
}

func TestBuild_Validation(t *testing.T) {
	agg := fixedAggregator()

	_, err := agg.Build(Input{Address: fullAddress, Shipping: pricing.ShippingStandard, Payment: approved})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = agg.Build(Input{Items: []domain.CartItem{line("p1", 1, "5")}, Address: domain.Address{FullName: "x"}, Shipping: pricing.ShippingStandard, Payment: approved})
	assert.ErrorIs(t, err, ErrIncompleteAddress)
	assert.Contains(t, err.Error(), "street")

	declined := approved
	declined.Status = domain.PaymentDeclined
	_, err = agg.Build(Input{Items: []domain.CartItem{line("p1", 1, "5")}, Address: fullAddress, Shipping: pricing.ShippingStandard, Payment: declined})
	assert.ErrorIs(t, err, ErrPaymentNotApproved)

	_, err = agg.Build(Input{Items: []domain.CartItem{line("p1", 1, "5")}, Address: fullAddress, Shipping: "boat", Payment: approved})
	assert.ErrorIs(t, err, pricing.ErrUnknownShippingOption)
}

func TestBuild_SnapshotIsIsolated(t *testing.T) {
	items := []domain.CartItem{line("p1", 1, "5")}
	draft, err := fixedAggregator().Build(Input{Items: items, Address: fullAddress, Shipping: pricing.ShippingStandard, Payment: approved})
	require.NoError(t, err)

	items[0].Quantity = 9
	got := draft.Items()
	got[0].Quantity = 7
	assert.Equal(t, 1, draft.Items()[0].Quantity)
}

func TestDraft_JSONPayload(t *testing.T) {
	draft, err := fixedAggregator().Build(Input{Items: []domain.CartItem{line("p1", 1, "5")}, Address: fullAddress, Shipping: pricing.ShippingFast, Payment: approved})
	require.NoError(t, err)
	raw, err := json.Marshal(draft)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "order-1", decoded["id"])
	assert.Equal(t, "30", decoded["adjustedTotal"])
	assert.Equal(t, "fast", decoded["shippingOption"])
}

func TestCheckout_InvalidCodeClearsStored(t *testing.T) {
	co := New(&staticCart{items: []domain.CartItem{line("p1", 1, "100")}}, nil)
	assert.True(t, co.ApplyDiscountCode("save10"))
	assert.Equal(t, "SAVE10", co.DiscountCode())

	assert.False(t, co.ApplyDiscountCode("BOGUS"))
	assert.Empty(t, co.DiscountCode())

	q, err := co.Quote()
	require.NoError(t, err)
	assert.True(t, q.Discount.IsZero())
	assert.True(t, decimal.NewFromInt(110).Equal(q.AdjustedTotal))
}

func TestCheckout_QuoteTracksSelections(t *testing.T) {
	co := New(&staticCart{items: []domain.CartItem{line("p1", 1, "100")}}, nil)
	require.NoError(t, co.SelectShipping(pricing.ShippingFast))
	co.ApplyDiscountCode("SAVE10")
	q, err := co.Quote()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(115).Equal(q.AdjustedTotal))

	assert.ErrorIs(t, co.SelectShipping("boat"), pricing.ErrUnknownShippingOption)
}

func TestCheckout_ConfirmOnce(t *testing.T) {
	co := New(&staticCart{items: []domain.CartItem{line("p1", 1, "100")}}, nil)
	_, err := co.Confirm(approved)
	assert.ErrorIs(t, err, ErrIncompleteAddress)

	co.SetAddress(fullAddress)
	first, err := co.Confirm(approved)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(110).Equal(first.AdjustedTotal()))

	again, err := co.Confirm(approved)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Same(t, first, again)
}
