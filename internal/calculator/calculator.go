// Package calculator defines the results of a configuration run and includes
// functions for computing them.
package calculator

import (
	"fmt"

	"github.com/iwvelando/mortgage-compare/internal/config"
	"github.com/iwvelando/mortgage-compare/pkg/datetime"
	"github.com/iwvelando/mortgage-compare/pkg/loans"
	"go.uber.org/zap"
)

// Result holds everything computed for one scenario.
type Result struct {
	Name       string
	Loans      []LoanResult
	Offers     []loans.OfferCostResult
	Comparison *Comparison
}

// LoanResult holds the schedule of one configured loan and, when it has
// prepayments, their effect.
type LoanResult struct {
	Name       string
	StartDate  string
	Terms      loans.LoanTerms
	Schedule   loans.Schedule
	PayoffDate string
	Prepayment *PrepaymentResult
}

// PrepaymentResult holds the cost of a loan with all of its prepayments
// applied, and for fixed-rate loans the policy comparison of each one.
type PrepaymentResult struct {
	Events      []loans.PrepaymentEvent
	Cost        loans.OfferCostResult
	PayoffDate  string
	Comparisons []loans.PrepaymentComparison
}

// Comparison sets a fixed-rate loan against a mixed one.
type Comparison struct {
	Fixed string
	Mixed string
	loans.ScheduleComparison
}

// Calculate processes every active scenario of the configuration.
func Calculate(logger *zap.Logger, conf config.Configuration) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Result
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "calculator.Calculate"),
			)
			continue
		}

		result, err := CalculateScenario(logger, scenario)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// CalculateScenario computes the schedules, prepayments and offer ranking of
// one scenario.
func CalculateScenario(logger *zap.Logger, scenario config.Scenario) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Result{Name: scenario.Name}
	for _, loan := range scenario.Loans {
		loanResult, err := CalculateLoan(logger, loan)
		if err != nil {
			return Result{}, fmt.Errorf("loan %s: %w", loan.Name, err)
		}
		result.Loans = append(result.Loans, loanResult)
	}

	if len(scenario.Offers) > 0 {
		offers := make([]loans.Offer, 0, len(scenario.Offers))
		for _, offer := range scenario.Offers {
			converted, err := offer.ToOffer()
			if err != nil {
				return Result{}, fmt.Errorf("offer %s: %w", offer.Name, err)
			}
			offers = append(offers, converted)
		}

		ranked, err := loans.NewOfferCostEvaluator(logger).EvaluateOffers(offers)
		if err != nil {
			return Result{}, err
		}
		result.Offers = ranked
	}

	result.Comparison = compareFixedAndMixed(result.Loans)
	if result.Comparison != nil {
		logger.Debug(fmt.Sprintf("comparing %s against %s", result.Comparison.Mixed, result.Comparison.Fixed),
			zap.String("op", "calculator.CalculateScenario"),
			zap.Float64("interest_difference", result.Comparison.InterestDifference),
		)
	}

	return result, nil
}

// CalculateLoan builds the schedule of a loan and applies its prepayments.
func CalculateLoan(logger *zap.Logger, loan config.Loan) (LoanResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	terms := loan.Terms()
	schedule, err := loans.NewScheduleBuilder(logger).BuildTerms(terms)
	if err != nil {
		return LoanResult{}, err
	}

	result := LoanResult{
		Name:      loan.Name,
		StartDate: loan.StartDate,
		Terms:     terms,
		Schedule:  schedule,
	}
	if result.PayoffDate, err = payoffDate(loan.StartDate, schedule.Months); err != nil {
		return LoanResult{}, err
	}

	if len(loan.Prepayments) == 0 {
		return result, nil
	}

	events, err := loan.Events()
	if err != nil {
		return LoanResult{}, err
	}
	cost, err := loans.NewOfferCostEvaluator(logger).Evaluate(terms, loans.Fees{}, nil, events)
	if err != nil {
		return LoanResult{}, err
	}
	cost.Name = loan.Name

	prepayment := &PrepaymentResult{Events: events, Cost: cost}
	if prepayment.PayoffDate, err = payoffDate(loan.StartDate, cost.MonthsPaid); err != nil {
		return LoanResult{}, err
	}

	if terms.IsMixed() {
		logger.Debug(fmt.Sprintf("loan %s is mixed, skipping per-event policy comparison", loan.Name),
			zap.String("op", "calculator.CalculateLoan"),
		)
	} else {
		simulator := loans.NewPrepaymentSimulator(logger)
		rate := loans.PeriodicRate(terms.AnnualRate)
		for _, event := range events {
			comparison, err := simulator.Compare(terms.Principal, rate, terms.TermMonths, event.Month, event.Amount)
			if err != nil {
				return LoanResult{}, err
			}
			prepayment.Comparisons = append(prepayment.Comparisons, comparison)
		}
	}

	result.Prepayment = prepayment
	return result, nil
}

// compareFixedAndMixed returns a comparison when the loans are exactly one
// fixed-rate and one mixed loan.
func compareFixedAndMixed(results []LoanResult) *Comparison {
	if len(results) != 2 {
		return nil
	}

	fixed, mixed := results[0], results[1]
	if fixed.Terms.IsMixed() {
		fixed, mixed = mixed, fixed
	}
	if fixed.Terms.IsMixed() || !mixed.Terms.IsMixed() {
		return nil
	}

	return &Comparison{
		Fixed:              fixed.Name,
		Mixed:              mixed.Name,
		ScheduleComparison: loans.CompareSchedules(fixed.Schedule, mixed.Schedule),
	}
}

func payoffDate(startDate string, months int) (string, error) {
	if startDate == "" || months <= 0 {
		return "", nil
	}
	return datetime.MonthLabel(startDate, months)
}
