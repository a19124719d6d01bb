package loans

import (
	"fmt"
	"sort"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/mathutil"
	"go.uber.org/zap"
)

// Fees are the lender charges of an offer. Percentages apply to the
// principal (origination) and to each prepaid amount (prepayment fee).
type Fees struct {
	OriginationPct   float64
	OriginationFixed float64
	PrepaymentFeePct float64
}

// Discount is a loyalty program: a rate reduction in percentage points bought
// with a recurring yearly cost such as bundled insurance.
type Discount struct {
	Name          string
	RateReduction float64
	AnnualCost    float64
}

// Offer is one lender proposal to evaluate.
type Offer struct {
	Name        string
	Terms       LoanTerms
	Fees        Fees
	Discounts   []Discount
	Prepayments []PrepaymentEvent
}

// OfferCostResult is the lifetime cost breakdown of an offer.
type OfferCostResult struct {
	Name           string
	TotalInterest  float64
	OriginationFee float64
	PrepaymentFees float64
	DiscountCost   float64
	GrandTotal     float64
	MonthsPaid     int
	InitialPayment float64
	TotalPrepaid   float64
}

// OfferCostEvaluator folds fees and discount programs into the cost of a loan.
type OfferCostEvaluator struct {
	logger *zap.Logger
}

// NewOfferCostEvaluator creates a new evaluator instance
func NewOfferCostEvaluator(logger *zap.Logger) *OfferCostEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferCostEvaluator{logger: logger}
}

// EvaluateOffers evaluates every offer and returns the results ranked from
// cheapest to most expensive.
func (e *OfferCostEvaluator) EvaluateOffers(offers []Offer) ([]OfferCostResult, error) {
	results := make([]OfferCostResult, 0, len(offers))
	for _, offer := range offers {
		result, err := e.Evaluate(offer.Terms, offer.Fees, offer.Discounts, offer.Prepayments)
		if err != nil {
			return nil, fmt.Errorf("offer %s: %w", offer.Name, err)
		}
		result.Name = offer.Name
		results = append(results, result)
	}
	return RankOffers(results), nil
}

// Evaluate walks the loan month by month applying prepayment events, and
// returns interest, fees and discount program cost.
func (e *OfferCostEvaluator) Evaluate(terms LoanTerms, fees Fees, discounts []Discount,
	events []PrepaymentEvent) (OfferCostResult, error) {
	reduction, annualCost := 0.0, 0.0
	for _, discount := range discounts {
		reduction += discount.RateReduction
		annualCost += discount.AnnualCost
	}

	segments, err := terms.segmentsWithReduction(reduction)
	if err != nil {
		return OfferCostResult{}, err
	}
	ordered, err := orderEvents(events, terms.TermMonths)
	if err != nil {
		return OfferCostResult{}, err
	}

	result := OfferCostResult{
		OriginationFee: mathutil.ApplyPercentage(terms.Principal, fees.OriginationPct) + fees.OriginationFixed,
	}

	remaining := terms.Principal
	horizonEnd := terms.TermMonths
	bound := terms.TermMonths + constants.SafetyMarginMonths
	payment := 0.0
	segmentIndex, eventIndex := 0, 0
	var stall stallGuard

	for month := 1; !mathutil.IsZero(remaining); month++ {
		if month > bound {
			return OfferCostResult{}, &NonConvergingAmortizationError{Months: bound, Balance: remaining, Payment: payment,
				Rate: segments[segmentIndex].Rate}
		}
		for segmentIndex < len(segments)-1 && !segments[segmentIndex].Contains(month) {
			segmentIndex++
		}
		rate := segments[segmentIndex].Rate

		if month == segments[segmentIndex].Start {
			payment, err = AnnuityPayment(remaining, rate, periodsLeft(horizonEnd, month))
			if err != nil {
				return OfferCostResult{}, fmt.Errorf("segment starting at month %d: %w", month, err)
			}
			if month == 1 {
				result.InitialPayment = payment
			}
		}

		for eventIndex < len(ordered) && ordered[eventIndex].Month == month && !mathutil.IsZero(remaining) {
			event := ordered[eventIndex]
			eventIndex++

			prepaid := event.Amount
			if prepaid > remaining {
				prepaid = remaining
			}
			remaining -= prepaid
			result.TotalPrepaid += prepaid
			result.PrepaymentFees += mathutil.ApplyPercentage(prepaid, fees.PrepaymentFeePct)
			if mathutil.IsZero(remaining) {
				e.logger.Debug(fmt.Sprintf("month %d: loan repaid in full by prepayment", month),
					zap.String("op", "loans.Evaluate"),
				)
				break
			}

			switch event.Policy {
			case ReducePayment:
				payment, err = AnnuityPayment(remaining, rate, periodsLeft(horizonEnd, month))
				if err != nil {
					return OfferCostResult{}, err
				}
			case ReduceTerm:
				periods, err := RemainingPeriods(remaining, rate, payment)
				if err != nil {
					return OfferCostResult{}, err
				}
				horizonEnd = month - 1 + periods
			}
			e.logger.Debug(fmt.Sprintf("month %d: prepaid %.2f under %s", month, prepaid, event.Policy),
				zap.String("op", "loans.Evaluate"),
				zap.Float64("payment", payment),
				zap.Int("horizon_end", horizonEnd),
			)
		}

		result.MonthsPaid = month
		if mathutil.IsZero(remaining) {
			break
		}

		interest, principal, _ := amortizeMonth(remaining, rate, payment, month >= horizonEnd)
		if stall.observe(principal) {
			return OfferCostResult{}, &NonConvergingAmortizationError{Months: month, Balance: remaining, Payment: payment, Rate: rate}
		}
		remaining -= principal
		result.TotalInterest += interest
	}

	if eventIndex < len(ordered) {
		e.logger.Debug(fmt.Sprintf("%d prepayment events fall after the loan was repaid", len(ordered)-eventIndex),
			zap.String("op", "loans.Evaluate"),
		)
	}

	years := mathutil.CeilDiv(result.MonthsPaid, constants.MonthsPerYear)
	result.DiscountCost = float64(years) * annualCost
	result.GrandTotal = result.TotalInterest + result.OriginationFee + result.PrepaymentFees + result.DiscountCost
	return result, nil
}

// stallGuard counts consecutive months whose payment does not reduce the
// principal. Payments in Evaluate are always annuity or NPER sized, so it only
// trips on an inconsistent payment.
type stallGuard struct {
	months int
}

// observe records the principal repaid in a month and reports whether the
// run has stalled.
func (g *stallGuard) observe(principal float64) bool {
	if principal > 0 {
		g.months = 0
		return false
	}
	g.months++
	return g.months >= constants.MaxNonPositivePrincipalMonths
}

// RankOffers orders results by grand total, breaking ties by total interest.
func RankOffers(results []OfferCostResult) []OfferCostResult {
	ranked := append([]OfferCostResult(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].GrandTotal != ranked[j].GrandTotal {
			return ranked[i].GrandTotal < ranked[j].GrandTotal
		}
		return ranked[i].TotalInterest < ranked[j].TotalInterest
	})
	return ranked
}

func orderEvents(events []PrepaymentEvent, totalPeriods int) ([]PrepaymentEvent, error) {
	ordered := append([]PrepaymentEvent(nil), events...)
	for _, event := range ordered {
		if event.Month < 1 || event.Month > totalPeriods {
			return nil, &InvalidTermError{
				Periods: totalPeriods,
				Reason:  fmt.Sprintf("prepayment month %d outside loan of %d months", event.Month, totalPeriods),
			}
		}
		if event.Amount < 0 {
			return nil, &InvalidBalanceError{
				Balance: event.Amount,
				Reason:  fmt.Sprintf("prepayment amount must not be negative, got %.2f", event.Amount),
			}
		}
		if _, err := ParsePolicy(string(event.Policy)); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Month < ordered[j].Month
	})
	return ordered, nil
}

func periodsLeft(horizonEnd, month int) int {
	if left := horizonEnd - month + 1; left > 0 {
		return left
	}
	return 1
}
