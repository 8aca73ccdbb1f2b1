package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

func TestOptimizer_ScenarioA_CreditScore(t *testing.T) {
	result, err := newOptimizer().Optimize(scenarioA(), fixedOnlyTable(t))
	require.NoError(t, err)

	opts := result.OptionsFor(valueobject.DimensionCreditScore)
	require.Len(t, opts, 2)

	head := opts[0]
	assertDec(t, "680", head.CurrentValue.Amount)
	assertDec(t, "720", head.RecommendedValue.Amount)
	assertDec(t, "0.0625", head.RateImprovement)
	assertDec(t, "20.35", head.MonthlySavings)
	assert.Equal(t, valueobject.FeasibilityMedium, head.Feasibility)
	assert.Equal(t, "6-12 months", head.Timeframe)
	assertDec(t, "6.25", head.ResultingQuote.FinalRate)

	assertDec(t, "760", opts[1].RecommendedValue.Amount)
	assertDec(t, "0.125", opts[1].RateImprovement)
	assert.Equal(t, valueobject.FeasibilityLow, opts[1].Feasibility)
	assert.Equal(t, "12+ months", opts[1].Timeframe)
}

func TestOptimizer_ScenarioA_LTV(t *testing.T) {
	result, err := newOptimizer().Optimize(scenarioA(), fixedOnlyTable(t))
	require.NoError(t, err)

	opts := result.OptionsFor(valueobject.DimensionLTV)
	require.Len(t, opts, 3)

	head := opts[0]
	assertDec(t, "80", head.RecommendedValue.Amount)
	assertDec(t, "0.125", head.RateImprovement)
	assertDec(t, "470588.24", head.ResultingQuote.Scenario.LoanAmount)
	assertDec(t, "2878.39", head.ResultingQuote.MonthlyPayment)
	assertDec(t, "220.55", head.MonthlySavings)
	assert.Equal(t, valueobject.FeasibilityHigh, head.Feasibility)

	require.NotNil(t, head.DownPaymentIncrease)
	assertDec(t, "29411.76", *head.DownPaymentIncrease)
	require.NotNil(t, head.ROI)
	assertDec(t, "0.09", *head.ROI)
	require.NotNil(t, head.PaybackMonths)
	assertDec(t, "133.4", *head.PaybackMonths)

	assertDec(t, "70", opts[1].RecommendedValue.Amount)
	assert.Equal(t, valueobject.FeasibilityMedium, opts[1].Feasibility)
	assertDec(t, "60", opts[2].RecommendedValue.Amount)
	assert.Equal(t, valueobject.FeasibilityLow, opts[2].Feasibility)
	assertDec(t, "352941.18", opts[2].ResultingQuote.Scenario.LoanAmount)
}

func TestOptimizer_ScenarioA_LoanAmount(t *testing.T) {
	result, err := newOptimizer().Optimize(scenarioA(), fixedOnlyTable(t))
	require.NoError(t, err)

	opts := result.OptionsFor(valueobject.DimensionLoanAmount)
	require.Len(t, opts, 3)

	// 5% less keeps LTV above 80, so only the payment improves.
	assertDec(t, "475000", opts[0].RecommendedValue.Amount)
	assertDec(t, "80.75", opts[0].ResultingQuote.Scenario.LTV)
	assert.True(t, opts[0].RateImprovement.IsZero())
	assertDec(t, "154.95", opts[0].MonthlySavings)
	assert.Equal(t, valueobject.FeasibilityHigh, opts[0].Feasibility)

	assertDec(t, "450000", opts[1].RecommendedValue.Amount)
	assertDec(t, "76.5", opts[1].ResultingQuote.Scenario.LTV)
	assertDec(t, "0.125", opts[1].RateImprovement)
	assert.Equal(t, valueobject.FeasibilityMedium, opts[1].Feasibility)

	assertDec(t, "425000", opts[2].RecommendedValue.Amount)
	assert.Equal(t, valueobject.FeasibilityLow, opts[2].Feasibility)
}

func TestOptimizer_ScenarioA_Aggregation(t *testing.T) {
	result, err := newOptimizer().Optimize(scenarioA(), fixedOnlyTable(t))
	require.NoError(t, err)

	assertDec(t, "6.3125", result.BaselineQuote.FinalRate)
	assert.Empty(t, result.OptionsFor(valueobject.DimensionLoanType))
	assert.Equal(t, 8, result.OptionCount())

	require.NotNil(t, result.BestOption)
	assert.Equal(t, valueobject.DimensionLTV, result.BestOption.Dimension)
	assertDec(t, "60", result.BestOption.RecommendedValue.Amount)
	assertDec(t, "968.68", result.BestOption.MonthlySavings)
	assertDec(t, "201665.98", result.TotalPotentialSavings)

	require.Len(t, result.RecommendedActions, 3)
	assert.Contains(t, result.RecommendedActions[0], "LTV from 85% to 80%")
	assert.Contains(t, result.RecommendedActions[0], "$29411.76")
	assert.Contains(t, result.RecommendedActions[1], "Borrow $475000.00 instead of $500000.00")
	assert.Contains(t, result.RecommendedActions[2], "credit score from 680 to 720")
	assert.Contains(t, result.RecommendedActions[2], "$20.35 per month")
}

func TestOptimizer_ScenarioA_Groupings(t *testing.T) {
	result, err := newOptimizer().Optimize(scenarioA(), fixedOnlyTable(t))
	require.NoError(t, err)

	require.Len(t, result.BestOptimizations, 3)
	best := result.BestOptimizations[0]
	assert.Equal(t, valueobject.DimensionLTV, best.Dimension)
	assertDec(t, "60", best.RecommendedValue.Amount)
	assertDec(t, "201665.98", best.InterestSavings)
	for i := 1; i < len(result.BestOptimizations); i++ {
		assert.False(t, result.BestOptimizations[i].InterestSavings.GreaterThan(result.BestOptimizations[i-1].InterestSavings),
			"best optimizations ordered by interest savings")
	}

	require.Len(t, result.LongTermImprovements, 2)
	for _, o := range result.LongTermImprovements {
		assert.Equal(t, valueobject.DimensionCreditScore, o.Dimension)
	}
	assertDec(t, "760", result.LongTermImprovements[0].RecommendedValue.Amount)

	require.Len(t, result.QuickWins, 6)
	for _, o := range result.QuickWins {
		assert.NotEqual(t, valueobject.DimensionCreditScore, o.Dimension)
	}
}

func TestOptimizer_ScenarioB_GroupingsEmptyButPresent(t *testing.T) {
	result, err := newOptimizer().Optimize(scenarioB(), fixedOnlyTable(t))
	require.NoError(t, err)

	assert.Empty(t, result.LongTermImprovements)
	assert.NotNil(t, result.LongTermImprovements)
	assert.Len(t, result.QuickWins, len(result.OptionsFor(valueobject.DimensionLoanAmount)))
}

func TestOptimizer_HigherPaymentAlternativeIsWordedAsInterestSavings(t *testing.T) {
	table := newTable(t,
		offerSpec{loanType: valueobject.LoanType30YrFixed, rate: "6.0", apr: "6.2"},
		offerSpec{loanType: valueobject.LoanType15YrFixed, rate: "5.5", apr: "5.7"},
	)
	s := scenarioB()
	s.LoanAmount = dec("100000")

	result, err := newOptimizer().Optimize(s, table)
	require.NoError(t, err)

	opts := result.OptionsFor(valueobject.DimensionLoanType)
	require.Len(t, opts, 1)
	assertDec(t, "-218.23", opts[0].MonthlySavings)
	assertDec(t, "67915.80", opts[0].InterestSavings)

	var action string
	for _, a := range result.RecommendedActions {
		if strings.HasPrefix(a, "Switch from") {
			action = a
		}
	}
	require.NotEmpty(t, action, "loan type head becomes an action")
	assert.Contains(t, action, "pay $218.23 more per month")
	assert.Contains(t, action, "save $67915.80 in interest over the term")
	assert.NotContains(t, action, "$-")

	for _, a := range result.RecommendedActions {
		assert.NotContains(t, a, "$-", "no action advertises a negative amount")
	}
	assert.True(t, strings.HasPrefix(result.RecommendedActions[len(result.RecommendedActions)-1], "Switch from"),
		"the higher payment ranks last")
}

func TestOptimizer_ScenarioB_TopTiersYieldNoOptions(t *testing.T) {
	result, err := newOptimizer().Optimize(scenarioB(), fixedOnlyTable(t))
	require.NoError(t, err)

	assert.Empty(t, result.OptionsFor(valueobject.DimensionCreditScore))
	assert.Empty(t, result.OptionsFor(valueobject.DimensionLTV))
	assert.Len(t, result.Options, 4, "every dimension is reported even when empty")

	for _, opt := range result.OptionsFor(valueobject.DimensionLoanAmount) {
		assert.True(t, opt.RateImprovement.IsZero())
		assert.True(t, opt.MonthlySavings.IsPositive())
	}
}

func TestOptimizer_LoanTypeDimension(t *testing.T) {
	result, err := newOptimizer().Optimize(scenarioA(), marketTable(t))
	require.NoError(t, err)

	opts := result.OptionsFor(valueobject.DimensionLoanType)
	require.Len(t, opts, 3, "FHA and jumbo price above the baseline and are dropped")

	va := opts[0]
	assert.Equal(t, valueobject.LoanTypeVA30Yr, va.RecommendedValue.LoanType)
	assert.Equal(t, valueobject.LoanType30YrFixed, va.CurrentValue.LoanType)
	assertDec(t, "6.0625", va.ResultingQuote.FinalRate)
	assertDec(t, "81.07", va.MonthlySavings)
	assert.Equal(t, valueobject.FeasibilityMedium, va.Feasibility)
	assert.NotEmpty(t, va.Note)
	assert.NotEmpty(t, va.Description)
	assert.NotEmpty(t, va.Considerations)

	arm := opts[1]
	assert.Equal(t, valueobject.LoanType5x1ARM, arm.RecommendedValue.LoanType)
	assertDec(t, "81.07", arm.MonthlySavings)
	assert.Equal(t, valueobject.FeasibilityHigh, arm.Feasibility)
	assert.Empty(t, arm.Note)

	fifteen := opts[2]
	assert.Equal(t, valueobject.LoanType15YrFixed, fifteen.RecommendedValue.LoanType)
	assertDec(t, "0.5", fifteen.RateImprovement)
	assert.True(t, fifteen.MonthlySavings.IsNegative(), "shorter term raises the payment")
	assert.True(t, fifteen.InterestSavings.IsPositive())
}

func TestOptimizer_IneligibleAlternativeIsLowFeasibility(t *testing.T) {
	table := newTable(t,
		offerSpec{loanType: valueobject.LoanType30YrFixed, rate: "6.0", apr: "6.2"},
		offerSpec{loanType: valueobject.LoanTypeJumbo30Yr, rate: "5.0", apr: "5.2"},
	)

	result, err := newOptimizer().Optimize(scenarioA(), table)
	require.NoError(t, err)

	opts := result.OptionsFor(valueobject.DimensionLoanType)
	require.Len(t, opts, 1)
	assert.Equal(t, valueobject.FeasibilityLow, opts[0].Feasibility)
	assert.False(t, opts[0].ResultingQuote.IsEligible)
	assert.Contains(t, opts[0].Considerations, opts[0].ResultingQuote.EligibilityReasons[0])
}

func TestOptimizer_NeverRecommendsHigherRate(t *testing.T) {
	optimizer := newOptimizer()
	table := marketTable(t)

	for _, lt := range table.LoanTypes() {
		for _, score := range []int{560, 640, 690, 730, 790} {
			for _, ltv := range []string{"97", "85", "75", "65", "50"} {
				s := model.BorrowerScenario{LoanAmount: dec("420000"), CreditScore: score, LTV: dec(ltv), LoanType: lt}

				result, err := optimizer.Optimize(s, table)
				require.NoError(t, err)

				for _, dim := range result.Options {
					for _, opt := range dim.Options {
						assert.True(t, opt.ResultingQuote.FinalRate.LessThanOrEqual(result.BaselineQuote.FinalRate),
							"%s %s: %s raises the rate", lt, dim.Dimension, opt.RecommendedValue)
					}
				}
			}
		}
	}
}

func TestOptimizer_IsDeterministic(t *testing.T) {
	optimizer := newOptimizer()
	table := marketTable(t)

	first, err := optimizer.Optimize(scenarioA(), table)
	require.NoError(t, err)
	second, err := optimizer.Optimize(scenarioA(), table)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestOptimizer_PropagatesBaselineErrors(t *testing.T) {
	s := scenarioA()
	s.LoanType = valueobject.LoanTypeVA30Yr

	_, err := newOptimizer().Optimize(s, fixedOnlyTable(t))

	assert.ErrorIs(t, err, model.ErrLoanTypeNotFound)
}
