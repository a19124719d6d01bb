package loans

import "fmt"

// LoanTerms holds the parameters of one simulation run. Rates are annual
// nominal percentages. A loan is mixed when FixedMonths is positive and
// shorter than TermMonths; its variable phase runs at ReferenceRate + Spread.
type LoanTerms struct {
	Principal     float64
	AnnualRate    float64
	TermMonths    int
	FixedMonths   int
	ReferenceRate float64
	Spread        float64
}

// FixedLoan returns the terms of a single-rate loan.
func FixedLoan(principal, annualRate float64, termMonths int) LoanTerms {
	return LoanTerms{Principal: principal, AnnualRate: annualRate, TermMonths: termMonths}
}

// MixedLoan returns the terms of a loan with a fixed phase followed by a
// variable phase at referenceRate + spread.
func MixedLoan(principal, fixedRate float64, fixedMonths, termMonths int, referenceRate, spread float64) LoanTerms {
	return LoanTerms{
		Principal:     principal,
		AnnualRate:    fixedRate,
		TermMonths:    termMonths,
		FixedMonths:   fixedMonths,
		ReferenceRate: referenceRate,
		Spread:        spread,
	}
}

// IsMixed reports whether the loan switches to a variable rate.
func (t LoanTerms) IsMixed() bool {
	return t.FixedMonths > 0 && t.FixedMonths < t.TermMonths
}

// VariableRate returns the annual rate of the variable phase.
func (t LoanTerms) VariableRate() float64 {
	return t.ReferenceRate + t.Spread
}

// Validate guards against mathematically invalid terms only.
func (t LoanTerms) Validate() error {
	if t.TermMonths <= 0 {
		return &InvalidTermError{Periods: t.TermMonths}
	}
	if t.FixedMonths < 0 || t.FixedMonths > t.TermMonths {
		return &InvalidTermError{
			Periods: t.TermMonths,
			Reason:  fmt.Sprintf("fixed phase of %d months does not fit a %d month loan", t.FixedMonths, t.TermMonths),
		}
	}
	if t.Principal <= 0 {
		return &InvalidBalanceError{Balance: t.Principal}
	}
	return nil
}

// Segments derives the rate segments covering the whole term.
func (t LoanTerms) Segments() ([]RateSegment, error) {
	return t.segmentsWithReduction(0)
}

// segmentsWithReduction subtracts a discount in percentage points from every
// segment's annual rate before converting it to a periodic rate.
func (t LoanTerms) segmentsWithReduction(reduction float64) ([]RateSegment, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if !t.IsMixed() {
		return []RateSegment{
			{Start: 1, End: t.TermMonths, Rate: PeriodicRate(discountedRate(t.AnnualRate, reduction))},
		}, nil
	}

	return []RateSegment{
		{Start: 1, End: t.FixedMonths, Rate: PeriodicRate(discountedRate(t.AnnualRate, reduction))},
		{Start: t.FixedMonths + 1, End: t.TermMonths, Rate: PeriodicRate(discountedRate(t.VariableRate(), reduction))},
	}, nil
}

// discountedRate applies a rate reduction. A reduced rate is floored at zero.
func discountedRate(annualRate, reduction float64) float64 {
	if reduction == 0 {
		return annualRate
	}
	rate := annualRate - reduction
	if rate < 0 {
		return 0
	}
	return rate
}
