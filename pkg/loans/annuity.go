// Package loans implements the mortgage amortization engine: annuity payments,
// schedules over rate segments, prepayment simulation and offer cost
// evaluation.
package loans

import (
	"math"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
)

// PeriodicRate converts an annual nominal percentage into the monthly rate.
func PeriodicRate(annualPercent float64) float64 {
	return annualPercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// AnnuityPayment calculates the fixed payment that amortizes balance over the
// given number of periods at periodicRate. A zero rate falls back to a
// straight-line split; negative rates are used as given.
func AnnuityPayment(balance, periodicRate float64, periods int) (float64, error) {
	if periods <= 0 {
		return 0, &InvalidTermError{Periods: periods}
	}
	if balance <= 0 {
		return 0, &InvalidBalanceError{Balance: balance}
	}

	if periodicRate == 0 {
		return balance / float64(periods), nil
	}

	// (1+r)^n - 1, computed without cancellation for small rates.
	growth := math.Expm1(float64(periods) * math.Log1p(periodicRate))
	return balance * periodicRate * (growth + 1) / growth, nil
}

// RemainingPeriods returns the number of payments of the given amount needed
// to repay balance at periodicRate, the last one being partial.
func RemainingPeriods(balance, periodicRate, payment float64) (int, error) {
	if balance <= constants.BalanceTolerance {
		return 0, nil
	}
	if payment <= 0 || payment <= balance*periodicRate {
		return 0, &NonConvergingAmortizationError{Balance: balance, Payment: payment, Rate: periodicRate}
	}

	var n float64
	if periodicRate == 0 {
		n = balance / payment
	} else {
		n = -math.Log1p(-balance*periodicRate/payment) / math.Log1p(periodicRate)
	}
	// Absorb floating point noise so an exact fit does not round up a month.
	return int(math.Ceil(n - 1e-9)), nil
}

// amortizeMonth splits one month's payment into interest and principal. On the
// final month, or whenever the payment would overshoot the balance, the
// principal is trued up to the remaining balance.
func amortizeMonth(balance, periodicRate, payment float64, final bool) (interest, principal, paid float64) {
	interest = balance * periodicRate
	principal = payment - interest
	if final || principal >= balance {
		principal = balance
	}
	return interest, principal, interest + principal
}
