// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/hfinch/household-forecast/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Rounding goes through decimal arithmetic so ledger balances stay
// consistent with the cent-exact splits computed in the policy package.
func Round(val float64) float64 {
	rounded, _ := decimal.NewFromFloat(val).Round(2).Float64()
	return rounded
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
