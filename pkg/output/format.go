// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/mortgage-compare/internal/calculator"
	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/datetime"
	"github.com/iwvelando/mortgage-compare/pkg/format"
	"github.com/iwvelando/mortgage-compare/pkg/loans"
	"github.com/iwvelando/mortgage-compare/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, results []calculator.Result) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		_, _ = fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)
		for _, loan := range result.Loans {
			prettyLoan(w, p, loan)
		}
		if result.Comparison != nil {
			prettyComparison(w, result.Comparison)
		}
		if len(result.Offers) > 0 {
			prettyOffers(w, result.Offers)
		}
		if i < len(results)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

func prettyLoan(w io.Writer, p *message.Printer, loan calculator.LoanResult) {
	terms := loan.Terms
	_, _ = fmt.Fprintf(w, "Loan %s: %s over %s\n", loan.Name, format.Currency(terms.Principal), format.Months(terms.TermMonths))
	for _, payment := range loan.Schedule.Payments {
		_, _ = fmt.Fprintf(w, "Months %d-%d at %s: payment %s\n", payment.Start, payment.End,
			format.Percent(payment.Rate*constants.MonthsPerYear*constants.PercentageMultiplier), format.Currency(payment.Payment))
	}

	_, _ = fmt.Fprintf(w, "Year | Through | Paid | Interest | Principal | Balance | Cumulative interest\n")
	_, _ = fmt.Fprintf(w, "____ | _______ | ____ | ________ | _________ | _______ | ___________________\n")
	month := 0
	for _, row := range loan.Schedule.Rows {
		month += row.Months
		_, _ = p.Fprintf(w, "%d | %s | %.2f | %.2f | %.2f | %.2f | %.2f\n", row.Period, through(loan.StartDate, month),
			row.Paid, row.Interest, row.Principal, row.Balance, row.CumulativeInterest)
	}
	_, _ = fmt.Fprintf(w, "Total interest: %s, total paid: %s", format.Currency(loan.Schedule.TotalInterest),
		format.Currency(loan.Schedule.TotalPaid))
	if loan.PayoffDate != "" {
		_, _ = fmt.Fprintf(w, ", paid off in %s", loan.PayoffDate)
	}
	_, _ = fmt.Fprintf(w, "\n")

	if loan.Prepayment == nil {
		return
	}
	for _, event := range loan.Prepayment.Events {
		_, _ = fmt.Fprintf(w, "Prepayment in month %d: %s (%s)\n", event.Month, format.Currency(event.Amount), event.Policy)
	}
	cost := loan.Prepayment.Cost
	_, _ = fmt.Fprintf(w, "With prepayments: interest %s, saving %s, repaid after %s",
		format.Currency(cost.TotalInterest), format.Currency(loan.Schedule.TotalInterest-cost.TotalInterest),
		format.Months(cost.MonthsPaid))
	if loan.Prepayment.PayoffDate != "" {
		_, _ = fmt.Fprintf(w, " (%s)", loan.Prepayment.PayoffDate)
	}
	_, _ = fmt.Fprintf(w, "\n")
	for i, comparison := range loan.Prepayment.Comparisons {
		event := loan.Prepayment.Events[i]
		_, _ = fmt.Fprintf(w, "Month %d alone: reducing the term saves %s over %s, reducing the payment to %s saves %s\n",
			event.Month, format.Currency(comparison.ReduceTermSavings), format.Months(comparison.ReduceTerm.MonthsPaid),
			format.Currency(comparison.ReducePayment.NewPayment), format.Currency(comparison.ReducePaymentSavings))
	}
}

func prettyComparison(w io.Writer, comparison *calculator.Comparison) {
	difference := comparison.InterestDifference
	verdict := "more"
	if difference < 0 {
		verdict = "less"
		difference = -difference
	}
	_, _ = fmt.Fprintf(w, "Mixed loan %s pays %s %s interest than fixed loan %s\n",
		comparison.Mixed, format.Currency(difference), verdict, comparison.Fixed)
}

func prettyOffers(w io.Writer, offers []loans.OfferCostResult) {
	_, _ = fmt.Fprintf(w, "Rank | Offer | Payment | Interest | Fees | Discount cost | Grand total | Months\n")
	_, _ = fmt.Fprintf(w, "____ | _____ | _______ | ________ | ____ | _____________ | ___________ | ______\n")
	for i, offer := range offers {
		_, _ = fmt.Fprintf(w, "%d | %s | %s | %s | %s | %s | %s | %d\n", i+1, offer.Name,
			format.Currency(offer.InitialPayment), format.Currency(offer.TotalInterest),
			format.Currency(offer.OriginationFee+offer.PrepaymentFees), format.Currency(offer.DiscountCost),
			format.Currency(offer.GrandTotal), offer.MonthsPaid)
	}
}

// CsvFormat writes the yearly schedules in comma-separated value format,
// followed by the ranked offers when there are any.
func CsvFormat(w io.Writer, results []calculator.Result) {
	_, _ = io.WriteString(w, CsvString(results))
}

// CsvString returns the CSV export as a string.
func CsvString(results []calculator.Result) string {
	var b strings.Builder

	b.WriteString(`"scenario","loan","year","through","months","paid","interest","principal","balance","cumulative interest"`)
	b.WriteString("\n")
	for _, result := range results {
		for _, loan := range result.Loans {
			month := 0
			for _, row := range loan.Schedule.Rows {
				month += row.Months
				writeRecord(&b, result.Name, loan.Name, fmt.Sprint(row.Period), through(loan.StartDate, month),
					fmt.Sprint(row.Months), cents(row.Paid), cents(row.Interest), cents(row.Principal),
					cents(row.Balance), cents(row.CumulativeInterest))
			}
		}
	}

	hasOffers := false
	for _, result := range results {
		hasOffers = hasOffers || len(result.Offers) > 0
	}
	if !hasOffers {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(`"scenario","rank","offer","months paid","initial payment","interest","origination fee","prepayment fees","discount cost","grand total"`)
	b.WriteString("\n")
	for _, result := range results {
		for i, offer := range result.Offers {
			writeRecord(&b, result.Name, fmt.Sprint(i+1), offer.Name, fmt.Sprint(offer.MonthsPaid),
				cents(offer.InitialPayment), cents(offer.TotalInterest), cents(offer.OriginationFee),
				cents(offer.PrepaymentFees), cents(offer.DiscountCost), cents(offer.GrandTotal))
		}
	}
	return b.String()
}

func writeRecord(b *strings.Builder, fields ...string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"` + strings.ReplaceAll(field, `"`, `""`) + `"`)
	}
	b.WriteString("\n")
}

func cents(value float64) string {
	return mathutil.RoundCents(value).StringFixed(2)
}

// through labels the last month covered by a yearly row, or its month number
// when the loan has no start date.
func through(startDate string, month int) string {
	if startDate != "" {
		if label, err := datetime.MonthLabel(startDate, month); err == nil {
			return label
		}
	}
	return fmt.Sprintf("month %d", month)
}
