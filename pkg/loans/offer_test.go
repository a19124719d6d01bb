package loans

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEvaluateWithoutExtrasMatchesSchedule(t *testing.T) {
	evaluator := NewOfferCostEvaluator(zap.NewNop())
	builder := NewScheduleBuilder(zap.NewNop())

	for _, terms := range []LoanTerms{
		FixedLoan(150000, 3.0, 240),
		MixedLoan(150000, 2.0, 120, 240, 2.0, 1.0),
	} {
		schedule, err := builder.BuildTerms(terms)
		require.NoError(t, err)

		result, err := evaluator.Evaluate(terms, Fees{}, nil, nil)
		require.NoError(t, err)

		assert.InDelta(t, schedule.TotalInterest, result.TotalInterest, 1e-6)
		assert.Equal(t, 240, result.MonthsPaid)
		assert.InDelta(t, schedule.InitialPayment(), result.InitialPayment, 1e-9)
		assert.Equal(t, result.TotalInterest, result.GrandTotal)
	}
}

func TestEvaluateFees(t *testing.T) {
	evaluator := NewOfferCostEvaluator(nil)
	fees := Fees{OriginationPct: 1.0, OriginationFixed: 300, PrepaymentFeePct: 1.0}
	events := []PrepaymentEvent{{Month: 61, Amount: 10000, Policy: ReduceTerm}}

	result, err := evaluator.Evaluate(FixedLoan(150000, 3.0, 240), fees, nil, events)
	require.NoError(t, err)

	assert.InDelta(t, 1800, result.OriginationFee, 1e-9)
	assert.InDelta(t, 100, result.PrepaymentFees, 1e-9)
	assert.InDelta(t, 10000, result.TotalPrepaid, 1e-9)
	assert.InDelta(t, result.TotalInterest+1800+100, result.GrandTotal, 1e-9)
}

func TestEvaluateDiscounts(t *testing.T) {
	evaluator := NewOfferCostEvaluator(nil)
	discounts := []Discount{
		{Name: "payroll", RateReduction: 0.3, AnnualCost: 0},
		{Name: "home insurance", RateReduction: 0.2, AnnualCost: 300},
	}

	result, err := evaluator.Evaluate(FixedLoan(150000, 3.0, 240), Fees{}, discounts, nil)
	require.NoError(t, err)

	discounted, err := NewScheduleBuilder(nil).BuildTerms(FixedLoan(150000, 2.5, 240))
	require.NoError(t, err)

	assert.InDelta(t, discounted.TotalInterest, result.TotalInterest, 1e-6)
	assert.InDelta(t, 6000, result.DiscountCost, 1e-9)
	assert.InDelta(t, result.TotalInterest+6000, result.GrandTotal, 1e-9)
}

func TestEvaluateDiscountFloorsRateAtZero(t *testing.T) {
	result, err := NewOfferCostEvaluator(nil).Evaluate(FixedLoan(150000, 0.5, 240), Fees{},
		[]Discount{{Name: "bundle", RateReduction: 1.0}}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.TotalInterest)
	assert.InDelta(t, 625, result.InitialPayment, 1e-9)
}

func TestEvaluateMatchesSimulator(t *testing.T) {
	evaluator := NewOfferCostEvaluator(nil)
	simulator := NewPrepaymentSimulator(nil)

	for _, policy := range []Policy{ReduceTerm, ReducePayment} {
		t.Run(string(policy), func(t *testing.T) {
			simulated, err := simulator.Simulate(150000, PeriodicRate(3.0), 240, 61, 10000, policy)
			require.NoError(t, err)

			result, err := evaluator.Evaluate(FixedLoan(150000, 3.0, 240), Fees{}, nil,
				[]PrepaymentEvent{{Month: 61, Amount: 10000, Policy: policy}})
			require.NoError(t, err)

			assert.Equal(t, simulated.MonthsPaid, result.MonthsPaid)
			assert.InDelta(t, simulated.TotalInterest, result.TotalInterest, 1e-6)
		})
	}
}

func TestEvaluateFullPrepayment(t *testing.T) {
	discounts := []Discount{{Name: "insurance", RateReduction: 0.1, AnnualCost: 300}}
	fees := Fees{PrepaymentFeePct: 0.5}

	result, err := NewOfferCostEvaluator(nil).Evaluate(FixedLoan(150000, 3.0, 240), fees, discounts,
		[]PrepaymentEvent{
			{Month: 61, Amount: 1e6, Policy: ReduceTerm},
			{Month: 100, Amount: 5000, Policy: ReduceTerm},
		})
	require.NoError(t, err)

	assert.Equal(t, 61, result.MonthsPaid)
	assert.InDelta(t, 1800, result.DiscountCost, 1e-9) // six started years
	assert.Less(t, result.TotalPrepaid, 150000.0)
	assert.InDelta(t, result.TotalPrepaid*0.005, result.PrepaymentFees, 1e-9)
}

func TestEvaluateEventOrdering(t *testing.T) {
	evaluator := NewOfferCostEvaluator(nil)
	terms := FixedLoan(150000, 3.0, 240)

	single, err := evaluator.Evaluate(terms, Fees{}, nil, []PrepaymentEvent{{Month: 61, Amount: 10000, Policy: ReduceTerm}})
	require.NoError(t, err)

	split, err := evaluator.Evaluate(terms, Fees{}, nil, []PrepaymentEvent{
		{Month: 61, Amount: 4000, Policy: ReduceTerm},
		{Month: 61, Amount: 6000, Policy: ReduceTerm},
	})
	require.NoError(t, err)
	assert.Equal(t, single.MonthsPaid, split.MonthsPaid)
	assert.InDelta(t, single.TotalInterest, split.TotalInterest, 1e-6)

	forward, err := evaluator.Evaluate(terms, Fees{}, nil, []PrepaymentEvent{
		{Month: 24, Amount: 5000, Policy: ReducePayment},
		{Month: 120, Amount: 5000, Policy: ReduceTerm},
	})
	require.NoError(t, err)
	backward, err := evaluator.Evaluate(terms, Fees{}, nil, []PrepaymentEvent{
		{Month: 120, Amount: 5000, Policy: ReduceTerm},
		{Month: 24, Amount: 5000, Policy: ReducePayment},
	})
	require.NoError(t, err)
	assert.Equal(t, forward, backward)
	assert.Less(t, forward.MonthsPaid, 240)
}

func TestEvaluateMixedLoanWithPrepayment(t *testing.T) {
	terms := MixedLoan(150000, 2.0, 120, 240, 2.0, 1.0)
	baseline, err := NewScheduleBuilder(nil).BuildTerms(terms)
	require.NoError(t, err)

	result, err := NewOfferCostEvaluator(nil).Evaluate(terms, Fees{}, nil,
		[]PrepaymentEvent{{Month: 61, Amount: 20000, Policy: ReduceTerm}})
	require.NoError(t, err)

	assert.Less(t, result.MonthsPaid, 240)
	assert.Less(t, result.TotalInterest, baseline.TotalInterest)
}

func TestEvaluateInvalidInputs(t *testing.T) {
	evaluator := NewOfferCostEvaluator(nil)
	terms := FixedLoan(150000, 3.0, 240)

	_, err := evaluator.Evaluate(terms, Fees{}, nil, []PrepaymentEvent{{Month: 0, Amount: 1000, Policy: ReduceTerm}})
	assert.True(t, errors.Is(err, ErrInvalidTerm))

	_, err = evaluator.Evaluate(terms, Fees{}, nil, []PrepaymentEvent{{Month: 241, Amount: 1000, Policy: ReduceTerm}})
	assert.True(t, errors.Is(err, ErrInvalidTerm))

	_, err = evaluator.Evaluate(terms, Fees{}, nil, []PrepaymentEvent{{Month: 12, Amount: -5, Policy: ReduceTerm}})
	assert.True(t, errors.Is(err, ErrInvalidBalance))

	_, err = evaluator.Evaluate(terms, Fees{}, nil, []PrepaymentEvent{{Month: 12, Amount: 5, Policy: "skip"}})
	assert.Error(t, err)

	_, err = evaluator.Evaluate(FixedLoan(150000, 3.0, 0), Fees{}, nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidTerm))
}

func TestEvaluateOffers(t *testing.T) {
	offers := []Offer{
		{
			Name:  "expensive",
			Terms: FixedLoan(150000, 3.5, 240),
		},
		{
			Name:  "bundled",
			Terms: FixedLoan(150000, 3.2, 240),
			Fees:  Fees{OriginationPct: 0.5},
			Discounts: []Discount{
				{Name: "insurance", RateReduction: 0.4, AnnualCost: 250},
			},
		},
		{
			Name:  "plain",
			Terms: FixedLoan(150000, 3.0, 240),
		},
	}

	results, err := NewOfferCostEvaluator(nil).EvaluateOffers(offers)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "expensive", results[2].Name)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].GrandTotal, results[i].GrandTotal)
	}

	offers[0].Prepayments = []PrepaymentEvent{{Month: 500, Amount: 1, Policy: ReduceTerm}}
	_, err = NewOfferCostEvaluator(nil).EvaluateOffers(offers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offer expensive")
	assert.True(t, errors.Is(err, ErrInvalidTerm))
}

func TestRankOffers(t *testing.T) {
	results := []OfferCostResult{
		{Name: "c", GrandTotal: 50000, TotalInterest: 45000},
		{Name: "a", GrandTotal: 48000, TotalInterest: 40000},
		{Name: "b", GrandTotal: 50000, TotalInterest: 44000},
	}

	ranked := RankOffers(results)
	names := make([]string, len(ranked))
	for i, result := range ranked {
		names[i] = result.Name
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, "c", results[0].Name, "input must not be reordered")
}

func TestStallGuard(t *testing.T) {
	var guard stallGuard
	for i := 1; i < 12; i++ {
		assert.False(t, guard.observe(0), "month %d", i)
	}
	assert.True(t, guard.observe(-1))

	guard = stallGuard{}
	for i := 0; i < 11; i++ {
		guard.observe(0)
	}
	assert.False(t, guard.observe(0.01), "principal repaid resets the count")
	assert.False(t, guard.observe(0))
	assert.Equal(t, 1, guard.months)
}
