package loans

import (
	"fmt"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"go.uber.org/zap"
)

// AmortizationRow holds the totals of one reporting period, a year in Rows
// and a single month in Monthly.
type AmortizationRow struct {
	Period             int
	Months             int
	Paid               float64
	Interest           float64
	Principal          float64
	Balance            float64
	CumulativeInterest float64
}

// SegmentPayment records the payment computed at the start of a rate segment.
type SegmentPayment struct {
	Start   int
	End     int
	Rate    float64
	Payment float64
}

// Schedule is the amortization of one loan.
type Schedule struct {
	Rows          []AmortizationRow
	Monthly       []AmortizationRow
	Payments      []SegmentPayment
	Principal     float64
	TotalInterest float64
	TotalPaid     float64
	Months        int
}

// InitialPayment returns the payment of the first rate segment.
func (s Schedule) InitialPayment() float64 {
	if len(s.Payments) == 0 {
		return 0
	}
	return s.Payments[0].Payment
}

// CumulativeInterestByYear returns the interest paid up to the end of each
// reported year.
func (s Schedule) CumulativeInterestByYear() []float64 {
	out := make([]float64, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = row.CumulativeInterest
	}
	return out
}

// yearAccumulator folds monthly figures into yearly rows.
type yearAccumulator struct {
	rows       []AmortizationRow
	current    AmortizationRow
	cumulative float64
}

func (a *yearAccumulator) add(month int, paid, interest, principal, balance float64) {
	if a.current.Months == 0 {
		a.current.Period = (month-1)/constants.MonthsPerYear + 1
	}
	a.current.Months++
	a.current.Paid += paid
	a.current.Interest += interest
	a.current.Principal += principal
	a.current.Balance = balance
	if month%constants.MonthsPerYear == 0 {
		a.close()
	}
}

func (a *yearAccumulator) close() {
	if a.current.Months == 0 {
		return
	}
	a.cumulative += a.current.Interest
	a.current.CumulativeInterest = a.cumulative
	a.rows = append(a.rows, a.current)
	a.current = AmortizationRow{}
}

func (a *yearAccumulator) finish() []AmortizationRow {
	a.close()
	return a.rows
}

// ScheduleBuilder walks a balance month by month over rate segments.
//
// At the first month of every segment the payment is recomputed on the
// current balance over the periods left to the end of the loan, not to the
// end of the segment. For a mixed loan this sizes the fixed phase payment as
// if the whole loan ran at the fixed rate, and the variable phase payment is
// then resized to whatever balance remains. This follows the common commercial
// presentation of mixed mortgages; individual lenders may size them
// differently.
type ScheduleBuilder struct {
	logger *zap.Logger
}

// NewScheduleBuilder creates a new builder instance
func NewScheduleBuilder(logger *zap.Logger) *ScheduleBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleBuilder{logger: logger}
}

// BuildTerms builds the schedule for the given loan terms.
func (b *ScheduleBuilder) BuildTerms(terms LoanTerms) (Schedule, error) {
	segments, err := terms.Segments()
	if err != nil {
		return Schedule{}, err
	}
	return b.Build(terms.Principal, segments, terms.TermMonths)
}

// Build amortizes balance over totalPeriods months using the given segments.
func (b *ScheduleBuilder) Build(balance float64, segments []RateSegment, totalPeriods int) (Schedule, error) {
	if totalPeriods <= 0 {
		return Schedule{}, &InvalidTermError{Periods: totalPeriods}
	}
	if balance <= 0 {
		return Schedule{}, &InvalidBalanceError{Balance: balance}
	}
	if err := ValidateSegments(segments, totalPeriods); err != nil {
		return Schedule{}, err
	}

	schedule := Schedule{
		Principal: balance,
		Months:    totalPeriods,
		Monthly:   make([]AmortizationRow, 0, totalPeriods),
	}
	var years yearAccumulator

	remaining := balance
	payment := 0.0
	segmentIndex := 0
	for month := 1; month <= totalPeriods; month++ {
		if !segments[segmentIndex].Contains(month) {
			segmentIndex++
		}
		segment := segments[segmentIndex]

		if month == segment.Start {
			var err error
			payment, err = AnnuityPayment(remaining, segment.Rate, totalPeriods-month+1)
			if err != nil {
				return Schedule{}, fmt.Errorf("segment starting at month %d: %w", month, err)
			}
			schedule.Payments = append(schedule.Payments, SegmentPayment{
				Start:   segment.Start,
				End:     segment.End,
				Rate:    segment.Rate,
				Payment: payment,
			})
			b.logger.Debug(fmt.Sprintf("month %d: payment set to %.2f on balance %.2f", month, payment, remaining),
				zap.String("op", "loans.Build"),
				zap.Float64("periodic_rate", segment.Rate),
			)
		}

		interest, principal, paid := amortizeMonth(remaining, segment.Rate, payment, month == totalPeriods)
		remaining -= principal

		schedule.TotalInterest += interest
		schedule.TotalPaid += paid
		schedule.Monthly = append(schedule.Monthly, AmortizationRow{
			Period:             month,
			Months:             1,
			Paid:               paid,
			Interest:           interest,
			Principal:          principal,
			Balance:            remaining,
			CumulativeInterest: schedule.TotalInterest,
		})
		years.add(month, paid, interest, principal, remaining)
	}

	schedule.Rows = years.finish()
	return schedule, nil
}
