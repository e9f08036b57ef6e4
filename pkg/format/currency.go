// Package format provides currency display helpers.
package format

import (
	"math"

	"github.com/Rhymond/go-money"

	"github.com/hfinch/household-forecast/pkg/constants"
)

// Currency returns a currency string with a dollar sign and thousands
// separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	cents := int64(math.Round(amount * constants.DecimalPrecision))
	return money.New(cents, money.AUD).Display()
}
