// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files and is also the output
	// date format.
	DateTimeLayout = constants.DateTimeLayout
)

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// MonthLabel returns the calendar month of a loan's n-th payment, the first
// payment falling in the start month.
func MonthLabel(startDate string, month int) (string, error) {
	return OffsetDate(startDate, DateTimeLayout, month-1)
}

// MonthIndex returns the payment number that falls in date for a loan starting
// in startDate. Dates before the start month are an error.
func MonthIndex(startDate, date string) (int, error) {
	start, err := time.Parse(DateTimeLayout, startDate)
	if err != nil {
		return 0, err
	}
	target, err := time.Parse(DateTimeLayout, date)
	if err != nil {
		return 0, err
	}
	months := (target.Year()-start.Year())*constants.MonthsPerYear + int(target.Month()) - int(start.Month())
	if months < 0 {
		return 0, fmt.Errorf("date %s is before the loan start %s", date, startDate)
	}
	return months + 1, nil
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate string, secondDate string) (bool, error) {
	firstDateT, err := time.Parse(DateTimeLayout, firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := time.Parse(DateTimeLayout, secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}
