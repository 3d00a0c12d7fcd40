package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// milliunitExp is the decimal exponent of a milliunit: 1000 milliunits = 1 currency unit.
const milliunitExp = -3

// FromMilliunits converts an integer milliunit amount into currency units.
// The conversion is exact: 12345 milliunits becomes 12.345.
func FromMilliunits(milliunits int64) decimal.Decimal {
	return decimal.New(milliunits, milliunitExp)
}

// ToMilliunits converts a currency amount back into milliunits, truncating anything
// below one milliunit.
func ToMilliunits(amount decimal.Decimal) int64 {
	return amount.Shift(-milliunitExp).IntPart()
}

// FormatCurrency renders an amount as a dollar string with two decimals, e.g. "-$12.50".
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return fmt.Sprintf("-$%s", amount.Neg().StringFixed(2))
	}
	return fmt.Sprintf("$%s", amount.StringFixed(2))
}

// FormatPercent renders a 0-100 percentage with one decimal, e.g. "12.5%".
func FormatPercent(pct decimal.Decimal) string {
	return fmt.Sprintf("%s%%", pct.StringFixed(1))
}
