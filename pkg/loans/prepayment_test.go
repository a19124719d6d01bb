package loans

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSimulateReduceTerm(t *testing.T) {
	simulator := NewPrepaymentSimulator(zap.NewNop())

	result, err := simulator.Simulate(150000, PeriodicRate(3.0), 240, 61, 10000, ReduceTerm)
	require.NoError(t, err)

	assert.Equal(t, ReduceTerm, result.Policy)
	assert.Equal(t, 222, result.MonthsPaid)
	assert.InDelta(t, 44320, result.TotalInterest, 10)
	assert.Equal(t, result.OriginalPayment, result.NewPayment)
	assert.Equal(t, 10000.0, result.Prepaid)
	assert.False(t, result.FullPrepayment)
}

func TestSimulateReducePayment(t *testing.T) {
	simulator := NewPrepaymentSimulator(zap.NewNop())

	result, err := simulator.Simulate(150000, PeriodicRate(3.0), 240, 61, 10000, ReducePayment)
	require.NoError(t, err)

	assert.Equal(t, 240, result.MonthsPaid)
	assert.InDelta(t, 762.84, result.NewPayment, 0.05)
	assert.Less(t, result.NewPayment, result.OriginalPayment)
	assert.InDelta(t, 47225, result.TotalInterest, 10)
}

func TestSimulatePolicyOrdering(t *testing.T) {
	simulator := NewPrepaymentSimulator(nil)
	rate := PeriodicRate(3.0)

	baseline, err := NewScheduleBuilder(nil).BuildTerms(FixedLoan(150000, 3.0, 240))
	require.NoError(t, err)

	for _, month := range []int{1, 12, 61, 120, 200, 239} {
		for _, amount := range []float64{0.01, 500, 10000, 50000} {
			reduceTerm, err := simulator.Simulate(150000, rate, 240, month, amount, ReduceTerm)
			require.NoError(t, err)
			reducePayment, err := simulator.Simulate(150000, rate, 240, month, amount, ReducePayment)
			require.NoError(t, err)

			assert.LessOrEqual(t, reduceTerm.TotalInterest, reducePayment.TotalInterest,
				"month %d amount %.2f", month, amount)
			assert.Less(t, reducePayment.TotalInterest, baseline.TotalInterest,
				"month %d amount %.2f", month, amount)
			assert.Less(t, reduceTerm.TotalInterest, baseline.TotalInterest,
				"month %d amount %.2f", month, amount)
			assert.LessOrEqual(t, reduceTerm.MonthsPaid, 240)
			if !reducePayment.FullPrepayment {
				assert.Equal(t, 240, reducePayment.MonthsPaid)
			}
		}
	}
}

func TestSimulateZeroAmountMatchesBaseline(t *testing.T) {
	simulator := NewPrepaymentSimulator(nil)
	baseline, err := NewScheduleBuilder(nil).BuildTerms(FixedLoan(150000, 3.0, 240))
	require.NoError(t, err)

	for _, policy := range []Policy{ReduceTerm, ReducePayment} {
		result, err := simulator.Simulate(150000, PeriodicRate(3.0), 240, 61, 0, policy)
		require.NoError(t, err)
		assert.Equal(t, 240, result.MonthsPaid)
		assert.InDelta(t, baseline.TotalInterest, result.TotalInterest, 1e-6)
	}
}

func TestSimulateFullPrepayment(t *testing.T) {
	simulator := NewPrepaymentSimulator(nil)
	rate := PeriodicRate(3.0)

	baseline, err := NewScheduleBuilder(nil).BuildTerms(FixedLoan(150000, 3.0, 240))
	require.NoError(t, err)
	outstanding := baseline.Monthly[59].Balance
	interestSoFar := baseline.Monthly[59].CumulativeInterest

	for _, policy := range []Policy{ReduceTerm, ReducePayment} {
		t.Run(string(policy), func(t *testing.T) {
			result, err := simulator.Simulate(150000, rate, 240, 61, 1e6, policy)
			require.NoError(t, err)

			assert.True(t, result.FullPrepayment)
			assert.Equal(t, 61, result.MonthsPaid)
			assert.InDelta(t, outstanding, result.Prepaid, 1e-6)
			assert.InDelta(t, interestSoFar, result.TotalInterest, 1e-6)
			assert.Equal(t, 0.0, result.NewPayment)
		})
	}
}

func TestSimulateInvalidInputs(t *testing.T) {
	simulator := NewPrepaymentSimulator(nil)
	rate := PeriodicRate(3.0)

	_, err := simulator.Simulate(150000, rate, 240, 0, 1000, ReduceTerm)
	assert.True(t, errors.Is(err, ErrInvalidTerm))

	_, err = simulator.Simulate(150000, rate, 240, 241, 1000, ReduceTerm)
	assert.True(t, errors.Is(err, ErrInvalidTerm))

	_, err = simulator.Simulate(150000, rate, 240, 12, -1, ReduceTerm)
	assert.True(t, errors.Is(err, ErrInvalidBalance))

	_, err = simulator.Simulate(150000, rate, 240, 12, 1000, Policy("shorten"))
	assert.Error(t, err)

	_, err = simulator.Simulate(0, rate, 240, 12, 1000, ReduceTerm)
	assert.True(t, errors.Is(err, ErrInvalidBalance))
}

func TestCompare(t *testing.T) {
	comparison, err := NewPrepaymentSimulator(nil).Compare(150000, PeriodicRate(3.0), 240, 61, 10000)
	require.NoError(t, err)

	assert.Equal(t, 240, comparison.Baseline.MonthsPaid)
	assert.InDelta(t, 49655, comparison.Baseline.TotalInterest, 10)
	assert.Equal(t, 222, comparison.ReduceTerm.MonthsPaid)
	assert.InDelta(t, comparison.Baseline.TotalInterest-comparison.ReduceTerm.TotalInterest,
		comparison.ReduceTermSavings, 1e-9)
	assert.Greater(t, comparison.ReduceTermSavings, comparison.ReducePaymentSavings)
	assert.Greater(t, comparison.ReducePaymentSavings, 0.0)
}

func TestAmortizeWithPayment(t *testing.T) {
	rate := PeriodicRate(3.0)
	payment, err := AnnuityPayment(150000, rate, 240)
	require.NoError(t, err)

	t.Run("converges on schedule", func(t *testing.T) {
		months, interest, err := AmortizeWithPayment(150000, rate, payment, 240+24)
		require.NoError(t, err)
		assert.Equal(t, 240, months)
		assert.InDelta(t, 49655, interest, 10)
	})

	t.Run("payment equal to interest", func(t *testing.T) {
		_, _, err := AmortizeWithPayment(100000, 0.005, 500, 384)
		assert.True(t, errors.Is(err, ErrNonConverging))

		var nonConverging *NonConvergingAmortizationError
		require.True(t, errors.As(err, &nonConverging))
		assert.Equal(t, 1, nonConverging.Months)
		assert.Equal(t, 500.0, nonConverging.Payment)
	})

	t.Run("payment below interest", func(t *testing.T) {
		_, _, err := AmortizeWithPayment(100000, 0.005, 400, 384)
		assert.True(t, errors.Is(err, ErrNonConverging))
	})

	t.Run("bound exceeded", func(t *testing.T) {
		_, _, err := AmortizeWithPayment(150000, rate, payment, 120)
		assert.True(t, errors.Is(err, ErrNonConverging))
	})

	t.Run("repaid balance", func(t *testing.T) {
		_, _, err := AmortizeWithPayment(0, rate, payment, 120)
		assert.True(t, errors.Is(err, ErrInvalidBalance))
	})
}

func TestParsePolicy(t *testing.T) {
	policy, err := ParsePolicy("reduce_term")
	require.NoError(t, err)
	assert.Equal(t, ReduceTerm, policy)

	policy, err = ParsePolicy("reduce_payment")
	require.NoError(t, err)
	assert.Equal(t, ReducePayment, policy)

	_, err = ParsePolicy("")
	assert.Error(t, err)
}
