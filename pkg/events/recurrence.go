// Package events expands recurring extra payments into the payment numbers
// they fall on.
package events

import "fmt"

// Recurrence describes an amount paid on First and then every Frequency
// months through Last. Month numbers count payments from 1.
type Recurrence struct {
	First     int
	Last      int
	Frequency int // months, 0 for a one-time payment
}

// Months lists the payment numbers of the recurrence in increasing order.
// Last is included when it falls on the cadence.
func (r Recurrence) Months() ([]int, error) {
	if r.First < 1 {
		return nil, fmt.Errorf("first month must be at least 1, got %d", r.First)
	}
	if r.Frequency < 0 {
		return nil, fmt.Errorf("frequency must not be negative, got %d", r.Frequency)
	}
	if r.Frequency == 0 {
		if r.Last != 0 && r.Last != r.First {
			return nil, fmt.Errorf("an end month of %d needs a frequency", r.Last)
		}
		return []int{r.First}, nil
	}
	if r.Last < r.First {
		return nil, fmt.Errorf("end month %d is before first month %d", r.Last, r.First)
	}

	months := make([]int, 0, (r.Last-r.First)/r.Frequency+1)
	for month := r.First; month <= r.Last; month += r.Frequency {
		months = append(months, month)
	}
	return months, nil
}
