package checkout

import (
	"sync"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

// CartView is the part of the cart mirror checkout reads.
type CartView interface {
	Items() []domain.CartItem
	Subtotal() decimal.Decimal
}

// Checkout is the process-local checkout state for one shopper. The shipping
// choice and discount code are never sent to the store.
type Checkout struct {
	cart CartView
	calc *pricing.Calculator
	agg  *Aggregator

	mu        sync.Mutex
	shipping  pricing.ShippingOption
	code      string
	address   domain.Address
	submitted *OrderDraft
}

// New starts a checkout over cart with standard shipping and no code.
func New(cart CartView, calc *pricing.Calculator) *Checkout {
	if calc == nil {
		calc = pricing.DefaultCalculator()
	}
	return &Checkout{
		cart:     cart,
		calc:     calc,
		agg:      NewAggregator(calc),
		shipping: pricing.ShippingStandard,
	}
}

// SelectShipping rejects options without a known cost.
func (c *Checkout) SelectShipping(opt pricing.ShippingOption) error {
	if _, err := opt.Cost(); err != nil {
		return err
	}
	c.mu.Lock()
	c.shipping = opt
	c.mu.Unlock()
	return nil
}

// ApplyDiscountCode stores code when it is on the allow-list. An unknown code
// clears whatever was stored and returns false.
func (c *Checkout) ApplyDiscountCode(code string) bool {
	ok := c.calc.Valid(code)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !ok {
		c.code = ""
		return false
	}
	c.code = pricing.NormalizeCode(code)
	return true
}

func (c *Checkout) DiscountCode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code
}

func (c *Checkout) SetAddress(addr domain.Address) {
	c.mu.Lock()
	c.address = addr
	c.mu.Unlock()
}

// Quote prices the current cart with the current choices.
func (c *Checkout) Quote() (pricing.Quote, error) {
	c.mu.Lock()
	shipping, code := c.shipping, c.code
	c.mu.Unlock()
	return c.calc.Quote(c.cart.Subtotal(), shipping, code)
}

// Confirm builds the order draft once. Later calls return ErrAlreadySubmitted
// together with the draft that was produced.
func (c *Checkout) Confirm(payment domain.PaymentDetails) (*OrderDraft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitted != nil {
		return c.submitted, ErrAlreadySubmitted
	}
	draft, err := c.agg.Build(Input{
		Items:        c.cart.Items(),
		Address:      c.address,
		Shipping:     c.shipping,
		DiscountCode: c.code,
		Payment:      payment,
	})
	if err != nil {
		return nil, err
	}
	c.submitted = draft
	return draft, nil
}
