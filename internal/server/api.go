package server

import (
	"github.com/iwvelando/mortgage-compare/internal/calculator"
	"github.com/iwvelando/mortgage-compare/internal/config"
	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/iwvelando/mortgage-compare/pkg/loans"
	"github.com/iwvelando/mortgage-compare/pkg/mathutil"
)

type prepaymentRequest struct {
	config.Loan
	Month  int     `json:"month"`
	Amount float64 `json:"amount"`
}

type offersRequest struct {
	Offers []config.Offer `json:"offers"`
}

type compareRequest struct {
	First  config.Loan `json:"first"`
	Second config.Loan `json:"second"`
}

type rowResponse struct {
	Period             int     `json:"period"`
	Months             int     `json:"months"`
	Paid               float64 `json:"paid"`
	Interest           float64 `json:"interest"`
	Principal          float64 `json:"principal"`
	Balance            float64 `json:"balance"`
	CumulativeInterest float64 `json:"cumulativeInterest"`
}

type segmentResponse struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	AnnualRate float64 `json:"annualRate"`
	Payment    float64 `json:"payment"`
}

type scheduleResponse struct {
	Name          string                  `json:"name,omitempty"`
	Principal     float64                 `json:"principal"`
	Months        int                     `json:"months"`
	TotalInterest float64                 `json:"totalInterest"`
	TotalPaid     float64                 `json:"totalPaid"`
	PayoffDate    string                  `json:"payoffDate,omitempty"`
	Payments      []segmentResponse       `json:"payments"`
	Rows          []rowResponse           `json:"rows"`
	Monthly       []rowResponse           `json:"monthly,omitempty"`
	Prepayment    *prepaymentCostResponse `json:"prepayment,omitempty"`
}

type prepaymentCostResponse struct {
	MonthsPaid    int                  `json:"monthsPaid"`
	TotalInterest float64              `json:"totalInterest"`
	InterestSaved float64              `json:"interestSaved"`
	PayoffDate    string               `json:"payoffDate,omitempty"`
	Comparisons   []comparisonResponse `json:"comparisons,omitempty"`
}

type policyResponse struct {
	Policy          string  `json:"policy,omitempty"`
	MonthsPaid      int     `json:"monthsPaid"`
	TotalInterest   float64 `json:"totalInterest"`
	OriginalPayment float64 `json:"originalPayment"`
	NewPayment      float64 `json:"newPayment"`
	Prepaid         float64 `json:"prepaid"`
	FullPrepayment  bool    `json:"fullPrepayment,omitempty"`
}

type comparisonResponse struct {
	Month                int            `json:"month"`
	Amount               float64        `json:"amount"`
	Baseline             policyResponse `json:"baseline"`
	ReduceTerm           policyResponse `json:"reduceTerm"`
	ReducePayment        policyResponse `json:"reducePayment"`
	ReduceTermSavings    float64        `json:"reduceTermSavings"`
	ReducePaymentSavings float64        `json:"reducePaymentSavings"`
}

type offerResponse struct {
	Rank           int     `json:"rank"`
	Name           string  `json:"name"`
	InitialPayment float64 `json:"initialPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	OriginationFee float64 `json:"originationFee"`
	PrepaymentFees float64 `json:"prepaymentFees"`
	DiscountCost   float64 `json:"discountCost"`
	GrandTotal     float64 `json:"grandTotal"`
	MonthsPaid     int     `json:"monthsPaid"`
	TotalPrepaid   float64 `json:"totalPrepaid"`
}

type compareResponse struct {
	First                    scheduleResponse `json:"first"`
	Second                   scheduleResponse `json:"second"`
	FirstCumulativeInterest  []float64        `json:"firstCumulativeInterest"`
	SecondCumulativeInterest []float64        `json:"secondCumulativeInterest"`
	InterestDifference       float64          `json:"interestDifference"`
}

type fixedMixedResponse struct {
	Fixed                   string    `json:"fixed"`
	Mixed                   string    `json:"mixed"`
	FixedCumulativeInterest []float64 `json:"fixedCumulativeInterest"`
	MixedCumulativeInterest []float64 `json:"mixedCumulativeInterest"`
	InterestDifference      float64   `json:"interestDifference"`
}

type scenarioResponse struct {
	Name       string              `json:"name"`
	Loans      []scheduleResponse  `json:"loans,omitempty"`
	Offers     []offerResponse     `json:"offers,omitempty"`
	Comparison *fixedMixedResponse `json:"comparison,omitempty"`
}

type reportResponse struct {
	Scenarios []scenarioResponse `json:"scenarios"`
	Warnings  []string           `json:"warnings,omitempty"`
	CSV       string             `json:"csv"`
	Duration  string             `json:"duration"`
}

func buildRows(rows []loans.AmortizationRow) []rowResponse {
	out := make([]rowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowResponse{
			Period:             row.Period,
			Months:             row.Months,
			Paid:               mathutil.Round(row.Paid),
			Interest:           mathutil.Round(row.Interest),
			Principal:          mathutil.Round(row.Principal),
			Balance:            mathutil.Round(row.Balance),
			CumulativeInterest: mathutil.Round(row.CumulativeInterest),
		})
	}
	return out
}

func buildSchedule(name, payoffDate string, schedule loans.Schedule, monthly bool) scheduleResponse {
	response := scheduleResponse{
		Name:          name,
		Principal:     schedule.Principal,
		Months:        schedule.Months,
		TotalInterest: mathutil.Round(schedule.TotalInterest),
		TotalPaid:     mathutil.Round(schedule.TotalPaid),
		PayoffDate:    payoffDate,
		Rows:          buildRows(schedule.Rows),
	}
	for _, payment := range schedule.Payments {
		response.Payments = append(response.Payments, segmentResponse{
			Start:      payment.Start,
			End:        payment.End,
			AnnualRate: payment.Rate * constants.MonthsPerYear * constants.PercentageMultiplier,
			Payment:    mathutil.Round(payment.Payment),
		})
	}
	if monthly {
		response.Monthly = buildRows(schedule.Monthly)
	}
	return response
}

func buildLoan(loan calculator.LoanResult, monthly bool) scheduleResponse {
	response := buildSchedule(loan.Name, loan.PayoffDate, loan.Schedule, monthly)
	if loan.Prepayment == nil {
		return response
	}

	cost := loan.Prepayment.Cost
	response.Prepayment = &prepaymentCostResponse{
		MonthsPaid:    cost.MonthsPaid,
		TotalInterest: mathutil.Round(cost.TotalInterest),
		InterestSaved: mathutil.Round(loan.Schedule.TotalInterest - cost.TotalInterest),
		PayoffDate:    loan.Prepayment.PayoffDate,
	}
	for i, comparison := range loan.Prepayment.Comparisons {
		event := loan.Prepayment.Events[i]
		response.Prepayment.Comparisons = append(response.Prepayment.Comparisons,
			buildComparison(event.Month, event.Amount, comparison))
	}
	return response
}

func buildPolicy(result loans.PrepaymentResult) policyResponse {
	return policyResponse{
		Policy:          string(result.Policy),
		MonthsPaid:      result.MonthsPaid,
		TotalInterest:   mathutil.Round(result.TotalInterest),
		OriginalPayment: mathutil.Round(result.OriginalPayment),
		NewPayment:      mathutil.Round(result.NewPayment),
		Prepaid:         mathutil.Round(result.Prepaid),
		FullPrepayment:  result.FullPrepayment,
	}
}

func buildComparison(month int, amount float64, comparison loans.PrepaymentComparison) comparisonResponse {
	return comparisonResponse{
		Month:                month,
		Amount:               amount,
		Baseline:             buildPolicy(comparison.Baseline),
		ReduceTerm:           buildPolicy(comparison.ReduceTerm),
		ReducePayment:        buildPolicy(comparison.ReducePayment),
		ReduceTermSavings:    mathutil.Round(comparison.ReduceTermSavings),
		ReducePaymentSavings: mathutil.Round(comparison.ReducePaymentSavings),
	}
}

func buildOffers(results []loans.OfferCostResult) []offerResponse {
	out := make([]offerResponse, 0, len(results))
	for i, result := range results {
		out = append(out, offerResponse{
			Rank:           i + 1,
			Name:           result.Name,
			InitialPayment: mathutil.Round(result.InitialPayment),
			TotalInterest:  mathutil.Round(result.TotalInterest),
			OriginationFee: mathutil.Round(result.OriginationFee),
			PrepaymentFees: mathutil.Round(result.PrepaymentFees),
			DiscountCost:   mathutil.Round(result.DiscountCost),
			GrandTotal:     mathutil.Round(result.GrandTotal),
			MonthsPaid:     result.MonthsPaid,
			TotalPrepaid:   mathutil.Round(result.TotalPrepaid),
		})
	}
	return out
}

func roundAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, value := range values {
		out[i] = mathutil.Round(value)
	}
	return out
}

func buildScenarios(results []calculator.Result) []scenarioResponse {
	out := make([]scenarioResponse, 0, len(results))
	for _, result := range results {
		scenario := scenarioResponse{Name: result.Name}
		for _, loan := range result.Loans {
			scenario.Loans = append(scenario.Loans, buildLoan(loan, false))
		}
		if len(result.Offers) > 0 {
			scenario.Offers = buildOffers(result.Offers)
		}
		if c := result.Comparison; c != nil {
			scenario.Comparison = &fixedMixedResponse{
				Fixed:                   c.Fixed,
				Mixed:                   c.Mixed,
				FixedCumulativeInterest: roundAll(c.FirstCumulativeInterest),
				MixedCumulativeInterest: roundAll(c.SecondCumulativeInterest),
				InterestDifference:      mathutil.Round(c.InterestDifference),
			}
		}
		out = append(out, scenario)
	}
	return out
}
