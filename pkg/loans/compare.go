package loans

import "fmt"

// ScheduleComparison sets two loans side by side, typically a fixed loan
// against a mixed one.
type ScheduleComparison struct {
	First                    Schedule
	Second                   Schedule
	FirstCumulativeInterest  []float64
	SecondCumulativeInterest []float64
	// InterestDifference is the second loan's total interest minus the first's.
	InterestDifference float64
}

// CompareSchedules builds the comparison of two already computed schedules.
func CompareSchedules(first, second Schedule) ScheduleComparison {
	return ScheduleComparison{
		First:                    first,
		Second:                   second,
		FirstCumulativeInterest:  first.CumulativeInterestByYear(),
		SecondCumulativeInterest: second.CumulativeInterestByYear(),
		InterestDifference:       second.TotalInterest - first.TotalInterest,
	}
}

// CompareTerms builds both schedules and compares them.
func (b *ScheduleBuilder) CompareTerms(first, second LoanTerms) (ScheduleComparison, error) {
	firstSchedule, err := b.BuildTerms(first)
	if err != nil {
		return ScheduleComparison{}, fmt.Errorf("first loan: %w", err)
	}
	secondSchedule, err := b.BuildTerms(second)
	if err != nil {
		return ScheduleComparison{}, fmt.Errorf("second loan: %w", err)
	}
	return CompareSchedules(firstSchedule, secondSchedule), nil
}
