package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/mathutil"
	"go.uber.org/zap"
)

// Policy selects how a loan continues after a prepayment.
type Policy string

const (
	// ReduceTerm keeps the payment and shortens the loan.
	ReduceTerm Policy = constants.PolicyReduceTerm
	// ReducePayment keeps the remaining term and lowers the payment.
	ReducePayment Policy = constants.PolicyReducePayment
)

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(value) {
	case ReduceTerm, ReducePayment:
		return Policy(value), nil
	default:
		return "", fmt.Errorf("unknown prepayment policy %q, expected %s or %s", value, ReduceTerm, ReducePayment)
	}
}

// PrepaymentEvent is an extra principal payment applied at the start of a
// month, before that month's interest is charged.
type PrepaymentEvent struct {
	Month  int
	Amount float64
	Policy Policy
}

// PrepaymentResult summarizes a simulated loan with one prepayment.
type PrepaymentResult struct {
	Policy          Policy
	MonthsPaid      int
	TotalInterest   float64
	OriginalPayment float64
	NewPayment      float64
	Prepaid         float64
	FullPrepayment  bool
}

// PrepaymentComparison sets both policies against the loan without prepayment.
type PrepaymentComparison struct {
	Baseline             PrepaymentResult
	ReduceTerm           PrepaymentResult
	ReducePayment        PrepaymentResult
	ReduceTermSavings    float64
	ReducePaymentSavings float64
}

// PrepaymentSimulator applies a single prepayment to a fixed-rate loan.
type PrepaymentSimulator struct {
	logger *zap.Logger
}

// NewPrepaymentSimulator creates a new simulator instance
func NewPrepaymentSimulator(logger *zap.Logger) *PrepaymentSimulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrepaymentSimulator{logger: logger}
}

// Simulate runs the regular schedule up to prepayMonth, applies the
// prepayment (capped at the outstanding balance) and continues under policy.
func (s *PrepaymentSimulator) Simulate(balance, periodicRate float64, totalPeriods, prepayMonth int,
	amount float64, policy Policy) (PrepaymentResult, error) {
	if prepayMonth < 1 || prepayMonth > totalPeriods {
		return PrepaymentResult{}, &InvalidTermError{
			Periods: totalPeriods,
			Reason:  fmt.Sprintf("prepayment month %d outside loan of %d months", prepayMonth, totalPeriods),
		}
	}
	if amount < 0 {
		return PrepaymentResult{}, &InvalidBalanceError{
			Balance: amount,
			Reason:  fmt.Sprintf("prepayment amount must not be negative, got %.2f", amount),
		}
	}
	if _, err := ParsePolicy(string(policy)); err != nil {
		return PrepaymentResult{}, err
	}

	payment, err := AnnuityPayment(balance, periodicRate, totalPeriods)
	if err != nil {
		return PrepaymentResult{}, err
	}
	result := PrepaymentResult{Policy: policy, OriginalPayment: payment, NewPayment: payment}

	remaining := balance
	elapsed := prepayMonth - 1
	for month := 1; month <= elapsed; month++ {
		interest, principal, _ := amortizeMonth(remaining, periodicRate, payment, false)
		remaining -= principal
		result.TotalInterest += interest
	}

	result.Prepaid = math.Min(amount, remaining)
	if amount > remaining {
		s.logger.Debug("capping prepayment to outstanding balance",
			zap.String("op", "loans.Simulate"),
			zap.Int("month", prepayMonth),
			zap.Float64("requested", amount),
			zap.Float64("capped_to_balance", remaining),
		)
	}
	remaining -= result.Prepaid
	if mathutil.IsZero(remaining) {
		result.FullPrepayment = true
		result.MonthsPaid = prepayMonth
		result.NewPayment = 0
		return result, nil
	}

	switch policy {
	case ReduceTerm:
		bound := totalPeriods - elapsed + constants.SafetyMarginMonths
		months, interest, err := AmortizeWithPayment(remaining, periodicRate, payment, bound)
		if err != nil {
			return PrepaymentResult{}, err
		}
		result.MonthsPaid = elapsed + months
		result.TotalInterest += interest
	case ReducePayment:
		periods := totalPeriods - elapsed
		newPayment, err := AnnuityPayment(remaining, periodicRate, periods)
		if err != nil {
			return PrepaymentResult{}, err
		}
		for month := 1; month <= periods; month++ {
			interest, principal, _ := amortizeMonth(remaining, periodicRate, newPayment, month == periods)
			remaining -= principal
			result.TotalInterest += interest
		}
		result.NewPayment = newPayment
		result.MonthsPaid = totalPeriods
	}

	s.logger.Debug(fmt.Sprintf("prepayment of %.2f at month %d under %s", result.Prepaid, prepayMonth, policy),
		zap.String("op", "loans.Simulate"),
		zap.Int("months_paid", result.MonthsPaid),
		zap.Float64("total_interest", result.TotalInterest),
	)
	return result, nil
}

// Compare simulates the loan without prepayment and under both policies.
func (s *PrepaymentSimulator) Compare(balance, periodicRate float64, totalPeriods, prepayMonth int,
	amount float64) (PrepaymentComparison, error) {
	baseline, err := NewScheduleBuilder(s.logger).Build(balance,
		[]RateSegment{{Start: 1, End: totalPeriods, Rate: periodicRate}}, totalPeriods)
	if err != nil {
		return PrepaymentComparison{}, err
	}

	reduceTerm, err := s.Simulate(balance, periodicRate, totalPeriods, prepayMonth, amount, ReduceTerm)
	if err != nil {
		return PrepaymentComparison{}, err
	}
	reducePayment, err := s.Simulate(balance, periodicRate, totalPeriods, prepayMonth, amount, ReducePayment)
	if err != nil {
		return PrepaymentComparison{}, err
	}

	comparison := PrepaymentComparison{
		Baseline: PrepaymentResult{
			MonthsPaid:      baseline.Months,
			TotalInterest:   baseline.TotalInterest,
			OriginalPayment: baseline.InitialPayment(),
			NewPayment:      baseline.InitialPayment(),
		},
		ReduceTerm:    reduceTerm,
		ReducePayment: reducePayment,
	}
	comparison.ReduceTermSavings = baseline.TotalInterest - reduceTerm.TotalInterest
	comparison.ReducePaymentSavings = baseline.TotalInterest - reducePayment.TotalInterest
	return comparison, nil
}

// AmortizeWithPayment repays balance with a fixed payment, the last payment
// being trued up, and returns the number of months and the interest paid. A
// payment that does not reduce principal, or a run longer than maxPeriods,
// fails with a NonConvergingAmortizationError.
func AmortizeWithPayment(balance, periodicRate, payment float64, maxPeriods int) (int, float64, error) {
	if balance <= 0 {
		return 0, 0, &InvalidBalanceError{Balance: balance}
	}

	remaining := balance
	totalInterest := 0.0
	for month := 1; month <= maxPeriods; month++ {
		interest, principal, _ := amortizeMonth(remaining, periodicRate, payment, false)
		if principal <= 0 {
			return 0, 0, &NonConvergingAmortizationError{Months: month, Balance: remaining, Payment: payment, Rate: periodicRate}
		}
		remaining -= principal
		totalInterest += interest
		if mathutil.IsZero(remaining) {
			return month, totalInterest, nil
		}
	}
	return 0, 0, &NonConvergingAmortizationError{Months: maxPeriods, Balance: remaining, Payment: payment, Rate: periodicRate}
}
