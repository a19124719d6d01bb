package config

import (
	"fmt"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/datetime"
	"github.com/iwvelando/mortgage-compare/pkg/events"
	"github.com/iwvelando/mortgage-compare/pkg/loans"
)

// Term returns the loan term in months.
func (loan Loan) Term() int {
	if loan.TermMonths > 0 {
		return loan.TermMonths
	}
	return loan.Years * constants.MonthsPerYear
}

// FixedTerm returns the length of the fixed phase in months, zero for a
// fixed-rate loan.
func (loan Loan) FixedTerm() int {
	if loan.FixedMonths > 0 {
		return loan.FixedMonths
	}
	return loan.FixedYears * constants.MonthsPerYear
}

// Terms converts the loan into the parameters of a simulation run.
func (loan Loan) Terms() loans.LoanTerms {
	return loans.LoanTerms{
		Principal:     loan.Principal,
		AnnualRate:    loan.InterestRate,
		TermMonths:    loan.Term(),
		FixedMonths:   loan.FixedTerm(),
		ReferenceRate: loan.ReferenceRate,
		Spread:        loan.Spread,
	}
}

// Events resolves the configured prepayments into payment numbers, expanding
// recurring ones. A prepayment without a policy reduces the term.
func (loan Loan) Events() ([]loans.PrepaymentEvent, error) {
	var out []loans.PrepaymentEvent
	for i, prepayment := range loan.Prepayments {
		if prepayment.Month != 0 && prepayment.Date != "" {
			return nil, fmt.Errorf("prepayment %d sets both month and date", i+1)
		}
		if prepayment.Month == 0 && prepayment.Date == "" {
			return nil, fmt.Errorf("prepayment %d needs a month or a date", i+1)
		}
		if prepayment.EndMonth != 0 && prepayment.EndDate != "" {
			return nil, fmt.Errorf("prepayment %d sets both endMonth and endDate", i+1)
		}

		if prepayment.Date != "" && prepayment.EndDate != "" {
			before, err := datetime.DateBeforeDate(prepayment.EndDate, prepayment.Date)
			if err != nil {
				return nil, fmt.Errorf("prepayment %d: %w", i+1, err)
			}
			if before {
				return nil, fmt.Errorf("prepayment %d ends on %s before it starts on %s", i+1, prepayment.EndDate, prepayment.Date)
			}
		}

		first, err := loan.resolveMonth(prepayment.Month, prepayment.Date)
		if err != nil {
			return nil, fmt.Errorf("prepayment %d: %w", i+1, err)
		}
		last := prepayment.EndMonth
		if prepayment.EndDate != "" {
			if last, err = loan.resolveMonth(0, prepayment.EndDate); err != nil {
				return nil, fmt.Errorf("prepayment %d: %w", i+1, err)
			}
		}
		if prepayment.Frequency > 0 && last == 0 {
			last = loan.Term()
		}

		months, err := events.Recurrence{First: first, Last: last, Frequency: prepayment.Frequency}.Months()
		if err != nil {
			return nil, fmt.Errorf("prepayment %d: %w", i+1, err)
		}

		policy := loans.ReduceTerm
		if prepayment.Policy != "" {
			policy, err = loans.ParsePolicy(prepayment.Policy)
			if err != nil {
				return nil, fmt.Errorf("prepayment %d: %w", i+1, err)
			}
		}

		for _, month := range months {
			out = append(out, loans.PrepaymentEvent{Month: month, Amount: prepayment.Amount, Policy: policy})
		}
	}
	return out, nil
}

// resolveMonth returns month, or the payment number of date when set.
func (loan Loan) resolveMonth(month int, date string) (int, error) {
	if date == "" {
		return month, nil
	}
	if loan.StartDate == "" {
		return 0, fmt.Errorf("date %s given but the loan has no startDate", date)
	}
	return datetime.MonthIndex(loan.StartDate, date)
}

// Validate checks the loan for values that cannot be computed.
func (loan Loan) Validate() error {
	if loan.Name == "" {
		return fmt.Errorf("loan without a name")
	}
	if loan.Years > 0 && loan.TermMonths > 0 && loan.Years*constants.MonthsPerYear != loan.TermMonths {
		return fmt.Errorf("years (%d) and termMonths (%d) disagree", loan.Years, loan.TermMonths)
	}
	if loan.StartDate != "" {
		if _, err := datetime.MonthLabel(loan.StartDate, 1); err != nil {
			return fmt.Errorf("invalid startDate %q, expected %s", loan.StartDate, DateTimeLayout)
		}
	}
	if err := loan.Terms().Validate(); err != nil {
		return err
	}

	for i, prepayment := range loan.Prepayments {
		if prepayment.Amount < 0 {
			return fmt.Errorf("prepayment %d has a negative amount", i+1)
		}
	}
	events, err := loan.Events()
	if err != nil {
		return err
	}
	for _, event := range events {
		if event.Month < 1 || event.Month > loan.Term() {
			return fmt.Errorf("prepayment in month %d falls outside the %d month term", event.Month, loan.Term())
		}
	}
	return nil
}

// Validate checks the loan, fees and discounts of the offer.
func (offer Offer) Validate() error {
	if err := offer.Loan.Validate(); err != nil {
		return err
	}
	if offer.Fees.OriginationPct < 0 || offer.Fees.OriginationFixed < 0 || offer.Fees.PrepaymentFeePct < 0 {
		return fmt.Errorf("fees must not be negative")
	}
	for _, discount := range offer.Discounts {
		if discount.RateReduction < 0 || discount.AnnualCost < 0 {
			return fmt.Errorf("discount %s must not be negative", discount.Name)
		}
	}
	return nil
}

// ToOffer converts the offer for the cost evaluator.
func (offer Offer) ToOffer() (loans.Offer, error) {
	events, err := offer.Events()
	if err != nil {
		return loans.Offer{}, err
	}

	discounts := make([]loans.Discount, 0, len(offer.Discounts))
	for _, discount := range offer.Discounts {
		discounts = append(discounts, loans.Discount{
			Name:          discount.Name,
			RateReduction: discount.RateReduction,
			AnnualCost:    discount.AnnualCost,
		})
	}

	return loans.Offer{
		Name:  offer.Name,
		Terms: offer.Terms(),
		Fees: loans.Fees{
			OriginationPct:   offer.Fees.OriginationPct,
			OriginationFixed: offer.Fees.OriginationFixed,
			PrepaymentFeePct: offer.Fees.PrepaymentFeePct,
		},
		Discounts:   discounts,
		Prepayments: events,
	}, nil
}
