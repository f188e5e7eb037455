package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Discount is either a percentage of the subtotal or a flat amount.
type Discount struct {
	PercentOff decimal.Decimal
	FlatOff    decimal.Decimal
}

func Percent(pct int64) Discount { return Discount{PercentOff: decimal.NewFromInt(pct)} }

func Flat(amount decimal.Decimal) Discount { return Discount{FlatOff: amount} }

// amount never exceeds subtotal.
func (d Discount) amount(subtotal decimal.Decimal) decimal.Decimal {
	var off decimal.Decimal
	if d.PercentOff.IsPositive() {
		off = subtotal.Mul(d.PercentOff).Div(decimal.NewFromInt(100))
	} else {
		off = d.FlatOff
	}
	off = off.Round(2)
	if off.IsNegative() {
		return decimal.Zero
	}
	if off.GreaterThan(subtotal) {
		return subtotal
	}
	return off
}

// DiscountTable is the static allow-list of codes. Keys are upper case.
type DiscountTable map[string]Discount

// DefaultDiscounts is the storefront's built-in allow-list.
func DefaultDiscounts() DiscountTable {
	return DiscountTable{
		"SAVE10":    Percent(10),
		"WELCOME20": Percent(20),
		"FLAT50":    Flat(decimal.NewFromInt(50)),
	}
}

// NormalizeCode trims and upper-cases a code the way lookups expect.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
