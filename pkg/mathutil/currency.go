// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundCents rounds half away from zero on the decimal representation so that
// exported amounts do not inherit binary floating point artifacts.
func RoundCents(val float64) decimal.Decimal {
	return decimal.NewFromFloat(val).Round(2)
}

// IsZero checks if a balance is effectively zero.
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.BalanceTolerance
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// CeilDiv returns the ceiling of a/b for positive b.
func CeilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
