// Package money holds display helpers for decimal amounts. Arithmetic stays
// in full precision elsewhere; rounding happens only here.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the precision stored for every persisted amount.
const Places int32 = 2

// Round rounds half away from zero to the given number of places.
func Round(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// Format renders d with exactly places fractional digits.
func Format(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

// Label renders an amount with a currency prefix, e.g. "Rs. 255".
func Label(currency string, d decimal.Decimal, places int32) string {
	symbol := currency
	if currency == "PKR" {
		symbol = "Rs."
	}
	return fmt.Sprintf("%s %s", symbol, Format(d, places))
}
