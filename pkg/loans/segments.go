package loans

import "fmt"

// RateSegment is a contiguous range of 1-based months, inclusive on both ends,
// charged at one periodic interest rate.
type RateSegment struct {
	Start int
	End   int
	Rate  float64
}

// Length returns the number of months covered by the segment.
func (s RateSegment) Length() int {
	return s.End - s.Start + 1
}

// Contains reports whether month falls inside the segment.
func (s RateSegment) Contains(month int) bool {
	return month >= s.Start && month <= s.End
}

// ValidateSegments checks that segments are ordered, non-overlapping and
// cover [1, totalPeriods] with no gaps.
func ValidateSegments(segments []RateSegment, totalPeriods int) error {
	if totalPeriods <= 0 {
		return &InvalidTermError{Periods: totalPeriods}
	}
	if len(segments) == 0 {
		return &InvalidTermError{Periods: totalPeriods, Reason: "no rate segments"}
	}

	next := 1
	for i, segment := range segments {
		if segment.Start != next {
			return &InvalidTermError{
				Periods: totalPeriods,
				Reason:  fmt.Sprintf("segment %d starts at month %d, expected %d", i, segment.Start, next),
			}
		}
		if segment.End < segment.Start {
			return &InvalidTermError{
				Periods: totalPeriods,
				Reason:  fmt.Sprintf("segment %d ends at month %d before it starts at %d", i, segment.End, segment.Start),
			}
		}
		next = segment.End + 1
	}

	if next-1 != totalPeriods {
		return &InvalidTermError{
			Periods: totalPeriods,
			Reason:  fmt.Sprintf("segments cover %d months, loan runs %d", next-1, totalPeriods),
		}
	}
	return nil
}
