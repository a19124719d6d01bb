// Package format renders amounts and rates for human readers.
package format

import (
	"math"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns an amount with thousands separators and the currency
// symbol (e.g., "-1,234.56 €").
func Currency(amount float64) string {
	return NumericCurrency(amount) + " " + constants.CurrencySymbol
}

// NumericCurrency returns an amount with separators but without a currency
// symbol (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	rounded := mathutil.Round(amount)
	if rounded == 0 {
		// avoid "-0.00"
		rounded = 0
	}
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	return sign + printer.Sprintf("%.2f", math.Abs(rounded))
}

// Percent returns an annual rate given in percent (e.g., "3.25 %").
func Percent(rate float64) string {
	return printer.Sprintf("%.2f %%", rate)
}

// Months renders a duration in months as years and months (e.g., "18 years 6 months").
func Months(months int) string {
	years, rest := months/constants.MonthsPerYear, months%constants.MonthsPerYear
	switch {
	case years == 0:
		return printer.Sprintf("%d months", rest)
	case rest == 0:
		return printer.Sprintf("%d years", years)
	default:
		return printer.Sprintf("%d years %d months", years, rest)
	}
}
