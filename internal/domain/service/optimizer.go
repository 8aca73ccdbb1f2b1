package service

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Optimizer – searches scenario variations that lower cost
// ---------------------------------------------------------------------------

// Optimizer re-quotes systematically varied scenarios and ranks the ones
// that do not raise the rate and lower either the rate or the payment.
type Optimizer struct {
	quotes *QuoteEngine
	policy OptimizerPolicy
}

// NewOptimizer returns an optimizer that prices through quotes.
func NewOptimizer(quotes *QuoteEngine, policy OptimizerPolicy) *Optimizer {
	return &Optimizer{quotes: quotes, policy: policy}
}

// variation is one candidate scenario of a dimension search.
type variation struct {
	value    model.OptionValue
	scenario model.BorrowerScenario
	step     int
}

// dimensionSearch parameterizes the shared vary-and-compare routine.
// generate lists candidates in order of increasing effort, assess sets
// feasibility and dimension-specific fields, and rank, when set, reorders
// the surviving options.
type dimensionSearch struct {
	dimension valueobject.Dimension
	current   model.OptionValue
	generate  func() ([]variation, error)
	assess    func(v variation, opt *model.OptimizationOption)
	rank      func(a, b model.OptimizationOption) int
}

// Optimize quotes the baseline and searches every dimension. A dimension with
// nothing to offer contributes an empty list.
func (o *Optimizer) Optimize(s model.BorrowerScenario, table *model.RateTable) (model.OptimizationResult, error) {
	baseline, err := o.quotes.ComputeQuote(s, table)
	if err != nil {
		return model.OptimizationResult{}, fmt.Errorf("baseline quote: %w", err)
	}

	propertyValue, err := s.PropertyValue()
	if err != nil {
		return model.OptimizationResult{}, err
	}

	searches := []dimensionSearch{
		o.creditSearch(s),
		o.ltvSearch(s, propertyValue),
		o.amountSearch(s, propertyValue),
		o.loanTypeSearch(s, table),
	}

	result := model.OptimizationResult{
		BaselineQuote:         baseline,
		Options:               make([]model.DimensionOptions, 0, len(searches)),
		TotalPotentialSavings: decimal.Zero,
		RecommendedActions:    make([]string, 0, len(searches)),
		BestOptimizations:     []model.OptionSummary{},
		QuickWins:             []model.OptionSummary{},
		LongTermImprovements:  []model.OptionSummary{},
	}
	for _, search := range searches {
		options, err := o.vary(baseline, table, search)
		if err != nil {
			return model.OptimizationResult{}, fmt.Errorf("optimize %s: %w", search.dimension, err)
		}
		result.Options = append(result.Options, model.DimensionOptions{
			Dimension: search.dimension,
			Options:   options,
		})
	}

	aggregate(&result)
	return result, nil
}

// vary quotes every candidate of one dimension and keeps those that never
// raise the final rate and improve the rate or the payment.
func (o *Optimizer) vary(baseline model.Quote, table *model.RateTable, search dimensionSearch) ([]model.OptimizationOption, error) {
	candidates, err := search.generate()
	if err != nil {
		return nil, err
	}

	options := make([]model.OptimizationOption, 0, len(candidates))
	for _, v := range candidates {
		q, err := o.quotes.ComputeQuote(v.scenario, table)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", v.value, err)
		}
		if q.FinalRate.GreaterThan(baseline.FinalRate) {
			continue
		}

		improvement := baseline.FinalRate.Sub(q.FinalRate)
		savings := baseline.MonthlyPayment.Sub(q.MonthlyPayment)
		if !improvement.IsPositive() && !savings.IsPositive() {
			continue
		}

		opt := model.OptimizationOption{
			Dimension:        search.dimension,
			CurrentValue:     search.current,
			RecommendedValue: v.value,
			ResultingQuote:   q,
			RateImprovement:  improvement,
			MonthlySavings:   savings,
			InterestSavings:  baseline.TotalInterest.Sub(q.TotalInterest),
		}
		search.assess(v, &opt)
		options = append(options, opt)
	}

	if search.rank != nil {
		slices.SortStableFunc(options, search.rank)
	}
	return options, nil
}

// ---------------------------------------------------------------------------
// Dimensions
// ---------------------------------------------------------------------------

func (o *Optimizer) creditSearch(s model.BorrowerScenario) dimensionSearch {
	return dimensionSearch{
		dimension: valueobject.DimensionCreditScore,
		current:   model.NumericValue(decimal.NewFromInt(int64(s.CreditScore))),
		generate: func() ([]variation, error) {
			var out []variation
			for i, target := range o.policy.CreditTargets {
				if target <= s.CreditScore {
					continue
				}
				out = append(out, variation{
					value:    model.NumericValue(decimal.NewFromInt(int64(target))),
					scenario: s.WithCreditScore(target),
					step:     i,
				})
			}
			return out, nil
		},
		assess: func(v variation, opt *model.OptimizationOption) {
			gap := int(v.value.Amount.IntPart()) - s.CreditScore
			switch {
			case gap <= o.policy.CreditGapHigh:
				opt.Feasibility = valueobject.FeasibilityHigh
				opt.Timeframe = "3-6 months"
			case gap <= o.policy.CreditGapMedium:
				opt.Feasibility = valueobject.FeasibilityMedium
				opt.Timeframe = "6-12 months"
			default:
				opt.Feasibility = valueobject.FeasibilityLow
				opt.Timeframe = "12+ months"
			}
		},
	}
}

func (o *Optimizer) ltvSearch(s model.BorrowerScenario, propertyValue decimal.Decimal) dimensionSearch {
	return dimensionSearch{
		dimension: valueobject.DimensionLTV,
		current:   model.NumericValue(s.LTV),
		generate: func() ([]variation, error) {
			var out []variation
			for i, target := range o.policy.LTVTargets {
				if !target.LessThan(s.LTV) {
					continue
				}
				newAmount := propertyValue.Mul(target).Div(hundred).Round(2)
				if !newAmount.IsPositive() {
					return nil, &model.ComputationError{Op: "ltv target " + target.String(), Reason: "derived loan amount is not positive"}
				}
				out = append(out, variation{
					value:    model.NumericValue(target),
					scenario: s.WithLeverage(newAmount, target),
					step:     i,
				})
			}
			return out, nil
		},
		assess: func(v variation, opt *model.OptimizationOption) {
			reduction := s.LTV.Sub(v.value.Amount)
			downPayment := propertyValue.Mul(reduction).Div(hundred).Round(2)
			opt.DownPaymentIncrease = &downPayment

			switch {
			case !opt.MonthlySavings.IsPositive():
				opt.Feasibility = valueobject.FeasibilityLow
				return
			case reduction.LessThanOrEqual(o.policy.LTVReductionHigh):
				opt.Feasibility = valueobject.FeasibilityHigh
			case reduction.LessThanOrEqual(o.policy.LTVReductionMedium):
				opt.Feasibility = valueobject.FeasibilityMedium
			default:
				opt.Feasibility = valueobject.FeasibilityLow
			}

			if downPayment.IsPositive() {
				roi := opt.MonthlySavings.Mul(decimal.NewFromInt(12)).Div(downPayment).Round(4)
				payback := downPayment.Div(opt.MonthlySavings).Round(1)
				opt.ROI = &roi
				opt.PaybackMonths = &payback
			}
		},
	}
}

func (o *Optimizer) amountSearch(s model.BorrowerScenario, propertyValue decimal.Decimal) dimensionSearch {
	return dimensionSearch{
		dimension: valueobject.DimensionLoanAmount,
		current:   model.NumericValue(s.LoanAmount),
		generate: func() ([]variation, error) {
			out := make([]variation, 0, len(o.policy.AmountReductions))
			for i, reduction := range o.policy.AmountReductions {
				newAmount := s.LoanAmount.Mul(decimal.NewFromInt(1).Sub(reduction)).Round(2)
				newLTV := newAmount.Div(propertyValue).Mul(hundred).Round(4)
				if !newAmount.IsPositive() || !newLTV.IsPositive() {
					return nil, &model.ComputationError{Op: "loan amount reduction " + reduction.String(), Reason: "derived scenario is degenerate"}
				}
				out = append(out, variation{
					value:    model.NumericValue(newAmount),
					scenario: s.WithLeverage(newAmount, newLTV),
					step:     i,
				})
			}
			return out, nil
		},
		assess: func(v variation, opt *model.OptimizationOption) {
			switch v.step {
			case 0:
				opt.Feasibility = valueobject.FeasibilityHigh
			case 1:
				opt.Feasibility = valueobject.FeasibilityMedium
			default:
				opt.Feasibility = valueobject.FeasibilityLow
			}
		},
	}
}

func (o *Optimizer) loanTypeSearch(s model.BorrowerScenario, table *model.RateTable) dimensionSearch {
	return dimensionSearch{
		dimension: valueobject.DimensionLoanType,
		current:   model.LoanTypeValue(s.LoanType),
		generate: func() ([]variation, error) {
			var out []variation
			for i, lt := range table.LoanTypes() {
				if lt.Equal(s.LoanType) {
					continue
				}
				out = append(out, variation{
					value:    model.LoanTypeValue(lt),
					scenario: s.WithLoanType(lt),
					step:     i,
				})
			}
			return out, nil
		},
		assess: func(v variation, opt *model.OptimizationOption) {
			lt := v.value.LoanType
			guide := loanTypeGuideFor(lt)
			opt.Description = guide.description
			opt.Considerations = slices.Clone(guide.considerations)

			switch {
			case !opt.ResultingQuote.IsEligible:
				opt.Feasibility = valueobject.FeasibilityLow
				opt.Considerations = append(opt.Considerations, opt.ResultingQuote.EligibilityReasons...)
			case lt.Category() == valueobject.CategoryGovernment && s.CreditScore >= 680:
				opt.Feasibility = valueobject.FeasibilityLow
			case lt.Category() == valueobject.CategoryJumbo && s.LTV.GreaterThan(decimal.NewFromInt(80)):
				opt.Feasibility = valueobject.FeasibilityLow
			case lt.Category() == valueobject.CategoryVeteran:
				opt.Feasibility = valueobject.FeasibilityMedium
			default:
				opt.Feasibility = valueobject.FeasibilityHigh
			}
			opt.Note = guide.note
		},
		rank: func(a, b model.OptimizationOption) int {
			if c := b.MonthlySavings.Cmp(a.MonthlySavings); c != 0 {
				return c
			}
			return a.RecommendedValue.LoanType.Compare(b.RecommendedValue.LoanType)
		},
	}
}

// ---------------------------------------------------------------------------
// Aggregation
// ---------------------------------------------------------------------------

// aggregate picks the best option across dimensions, derives the potential
// savings from it and renders one action per non-empty dimension.
func aggregate(result *model.OptimizationResult) {
	type headline struct {
		option model.OptimizationOption
		order  int
	}
	var (
		heads []headline
		all   []model.OptionSummary
	)

	for i, dim := range result.Options {
		for j := range dim.Options {
			opt := dim.Options[j]
			if result.BestOption == nil || opt.MonthlySavings.GreaterThan(result.BestOption.MonthlySavings) {
				result.BestOption = &opt
			}
			all = append(all, opt.Summarize())
		}
		if top, ok := dim.Top(); ok {
			heads = append(heads, headline{option: top, order: i})
		}
	}

	if result.BestOption != nil {
		result.TotalPotentialSavings = result.BestOption.InterestSavings
	}

	slices.SortStableFunc(heads, func(a, b headline) int {
		if c := b.option.MonthlySavings.Cmp(a.option.MonthlySavings); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})
	for _, h := range heads {
		result.RecommendedActions = append(result.RecommendedActions, actionFor(h.option))
	}

	slices.SortStableFunc(all, func(a, b model.OptionSummary) int {
		return b.InterestSavings.Cmp(a.InterestSavings)
	})
	result.BestOptimizations = append(result.BestOptimizations, all[:min(len(all), maxBestOptimizations)]...)
	for _, sum := range all {
		if sum.Dimension.Equal(valueobject.DimensionCreditScore) {
			result.LongTermImprovements = append(result.LongTermImprovements, sum)
		} else {
			result.QuickWins = append(result.QuickWins, sum)
		}
	}
}

// maxBestOptimizations caps OptimizationResult.BestOptimizations.
const maxBestOptimizations = 3

func actionFor(opt model.OptimizationOption) string {
	benefit, ok := benefitOf(opt)
	switch opt.Dimension {
	case valueobject.DimensionCreditScore:
		action := fmt.Sprintf("Raise your credit score from %s to %s to lower your rate by %s points",
			opt.CurrentValue, opt.RecommendedValue, opt.RateImprovement)
		if ok {
			action += " and " + benefit
		}
		return action + "."
	case valueobject.DimensionLTV:
		down := decimal.Zero
		if opt.DownPaymentIncrease != nil {
			down = *opt.DownPaymentIncrease
		}
		return fmt.Sprintf("Add $%s to your down payment to bring LTV from %s%% to %s%% and %s.",
			down.StringFixed(2), opt.CurrentValue, opt.RecommendedValue, benefitOrRate(opt, benefit, ok))
	case valueobject.DimensionLoanAmount:
		return fmt.Sprintf("Borrow $%s instead of $%s to %s.",
			opt.RecommendedValue.Amount.StringFixed(2), opt.CurrentValue.Amount.StringFixed(2), benefitOrRate(opt, benefit, ok))
	default:
		return fmt.Sprintf("Switch from %s to %s to %s.",
			opt.CurrentValue.LoanType.DisplayName(), opt.RecommendedValue.LoanType.DisplayName(), benefitOrRate(opt, benefit, ok))
	}
}

// benefitOf words what opt saves: the monthly saving when the payment drops,
// otherwise the interest saved over the term. ok is false when neither is
// positive.
func benefitOf(opt model.OptimizationOption) (string, bool) {
	switch {
	case opt.MonthlySavings.IsPositive():
		return fmt.Sprintf("save $%s per month", opt.MonthlySavings.StringFixed(2)), true
	case !opt.InterestSavings.IsPositive():
		return "", false
	case opt.MonthlySavings.IsZero():
		return fmt.Sprintf("keep the same payment and save $%s in interest over the term",
			opt.InterestSavings.StringFixed(2)), true
	default:
		return fmt.Sprintf("pay $%s more per month and save $%s in interest over the term",
			opt.MonthlySavings.Neg().StringFixed(2), opt.InterestSavings.StringFixed(2)), true
	}
}

func benefitOrRate(opt model.OptimizationOption, benefit string, ok bool) string {
	if ok {
		return benefit
	}
	return fmt.Sprintf("lower your rate by %s points", opt.RateImprovement)
}
