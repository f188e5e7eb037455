// Package pricing computes shipping qualification, discounts and adjusted
// totals. Everything here is pure and deterministic.
package pricing

import (
	"github.com/shopspring/decimal"
)

// FreeShippingThreshold is the subtotal at or above which shipping is waived.
var FreeShippingThreshold = decimal.NewFromInt(500)

// Qualification is the result of the free-shipping check.
type Qualification struct {
	QualifiesForFreeShipping bool
	AdjustedTotal            decimal.Decimal
	ShippingDisplay          string
}

// Quote is a complete set of totals for a subtotal, option and code.
type Quote struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingOption  ShippingOption  `json:"shippingOption"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	DiscountCode    string          `json:"discountCode,omitempty"`
	DiscountValid   bool            `json:"discountValid"`
	Discount        decimal.Decimal `json:"discount"`
	FreeShipping    bool            `json:"freeShipping"`
	ShippingDisplay string          `json:"shippingDisplay"`
	AdjustedTotal   decimal.Decimal `json:"adjustedTotal"`
}

// Calculator prices a subtotal against a fixed discount allow-list.
type Calculator struct {
	discounts DiscountTable
}

// NewCalculator copies table so later edits by the caller have no effect.
func NewCalculator(table DiscountTable) *Calculator {
	discounts := make(DiscountTable, len(table))
	for code, d := range table {
		discounts[NormalizeCode(code)] = d
	}
	return &Calculator{discounts: discounts}
}

// DefaultCalculator uses DefaultDiscounts.
func DefaultCalculator() *Calculator {
	return NewCalculator(DefaultDiscounts())
}

// Qualify checks the threshold against subtotal and removes shippingCost
// from the caller-supplied total when it is waived.
func Qualify(subtotal, shippingCost, total decimal.Decimal) Qualification {
	free := subtotal.GreaterThanOrEqual(FreeShippingThreshold)
	adjusted := total
	display := "Free"
	if free {
		adjusted = total.Sub(shippingCost)
	} else {
		display = "$" + shippingCost.StringFixed(2)
	}
	return Qualification{
		QualifiesForFreeShipping: free,
		AdjustedTotal:            adjusted,
		ShippingDisplay:          display,
	}
}

// Discount looks code up in the allow-list. Unknown codes give zero and false.
func (c *Calculator) Discount(code string, subtotal decimal.Decimal) (decimal.Decimal, bool) {
	d, ok := c.discounts[NormalizeCode(code)]
	if !ok {
		return decimal.Zero, false
	}
	return d.amount(subtotal), true
}

// Valid reports whether code is on the allow-list.
func (c *Calculator) Valid(code string) bool {
	_, ok := c.discounts[NormalizeCode(code)]
	return ok
}

// Quote computes subtotal − discount + shipping, with shipping waived at the
// threshold. An empty code is not an error and yields DiscountValid=false.
func (c *Calculator) Quote(subtotal decimal.Decimal, option ShippingOption, code string) (Quote, error) {
	shipping, err := option.Cost()
	if err != nil {
		return Quote{}, err
	}
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	discount, valid := c.Discount(code, subtotal)
	total := subtotal.Sub(discount).Add(shipping)
	q := Qualify(subtotal, shipping, total)

	out := Quote{
		Subtotal:        subtotal,
		ShippingOption:  option,
		ShippingCost:    shipping,
		DiscountValid:   valid,
		Discount:        discount,
		FreeShipping:    q.QualifiesForFreeShipping,
		ShippingDisplay: q.ShippingDisplay,
		AdjustedTotal:   q.AdjustedTotal.Round(2),
	}
	if valid {
		out.DiscountCode = NormalizeCode(code)
	}
	return out, nil
}
