package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity represents an integer count of garment pieces
type Quantity int64

var hundred = decimal.NewFromInt(100)

// Percent converts a percentage such as 5 into the multiplier 1.05
func Percent(pct decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(pct.Div(hundred))
}

// ParseAmount parses a user-entered number. Anything that is not a number,
// including the empty string, is coerced to zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NonNegative clamps negative amounts to zero
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
