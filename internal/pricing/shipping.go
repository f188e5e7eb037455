package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownShippingOption is returned for options outside the fixed set.
var ErrUnknownShippingOption = errors.New("unknown shipping option")

type ShippingOption string

const (
	ShippingStandard ShippingOption = "standard"
	ShippingFast     ShippingOption = "fast"
	ShippingAirplane ShippingOption = "airplane"
)

var shippingCosts = map[ShippingOption]decimal.Decimal{
	ShippingStandard: decimal.NewFromInt(10),
	ShippingFast:     decimal.NewFromInt(25),
	ShippingAirplane: decimal.NewFromInt(50),
}

// ParseShippingOption accepts the option name in any case.
func ParseShippingOption(s string) (ShippingOption, error) {
	opt := ShippingOption(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := shippingCosts[opt]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownShippingOption, s)
	}
	return opt, nil
}

// Cost returns the fixed cost of the option.
func (o ShippingOption) Cost() (decimal.Decimal, error) {
	cost, ok := shippingCosts[o]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownShippingOption, string(o))
	}
	return cost, nil
}

// ShippingOptions lists every option in display order.
func ShippingOptions() []ShippingOption {
	return []ShippingOption{ShippingStandard, ShippingFast, ShippingAirplane}
}
