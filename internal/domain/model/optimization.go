package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// OptionValue is the value of the varied field: a number for credit score,
// LTV and loan amount, a loan type for the loan-type dimension.
type OptionValue struct {
	Amount   decimal.Decimal      `json:"amount"`
	LoanType valueobject.LoanType `json:"loan_type,omitempty"`
}

// NumericValue wraps a number as an OptionValue.
func NumericValue(d decimal.Decimal) OptionValue { return OptionValue{Amount: d} }

// LoanTypeValue wraps a loan type as an OptionValue.
func LoanTypeValue(lt valueobject.LoanType) OptionValue { return OptionValue{LoanType: lt} }

func (v OptionValue) String() string {
	if !v.LoanType.IsZero() {
		return v.LoanType.String()
	}
	return v.Amount.String()
}

// OptimizationOption is one re-quoted variation of the borrower scenario.
type OptimizationOption struct {
	Dimension        valueobject.Dimension   `json:"dimension"`
	CurrentValue     OptionValue             `json:"current_value"`
	RecommendedValue OptionValue             `json:"recommended_value"`
	ResultingQuote   Quote                   `json:"resulting_quote"`
	RateImprovement  decimal.Decimal         `json:"rate_improvement"`
	MonthlySavings   decimal.Decimal         `json:"monthly_savings"`
	InterestSavings  decimal.Decimal         `json:"interest_savings"`
	Feasibility      valueobject.Feasibility `json:"feasibility"`

	// LTV dimension. ROI and payback are nil when the option saves nothing monthly.
	ROI                 *decimal.Decimal `json:"roi_metric,omitempty"`
	PaybackMonths       *decimal.Decimal `json:"payback_months,omitempty"`
	DownPaymentIncrease *decimal.Decimal `json:"down_payment_increase,omitempty"`

	// Credit-score dimension.
	Timeframe string `json:"timeframe,omitempty"`

	// Loan-type dimension.
	Description    string   `json:"description,omitempty"`
	Considerations []string `json:"considerations,omitempty"`
	Note           string   `json:"note,omitempty"`
}

// DimensionOptions is the ranked option list for one dimension.
type DimensionOptions struct {
	Dimension valueobject.Dimension `json:"dimension"`
	Options   []OptimizationOption  `json:"options"`
}

// Top returns the head of the ranked list.
func (d DimensionOptions) Top() (OptimizationOption, bool) {
	if len(d.Options) == 0 {
		return OptimizationOption{}, false
	}
	return d.Options[0], true
}

// OptionSummary is a compact reference to an option, used by the result's
// groupings.
type OptionSummary struct {
	Dimension        valueobject.Dimension   `json:"dimension"`
	RecommendedValue OptionValue             `json:"recommended_value"`
	MonthlySavings   decimal.Decimal         `json:"monthly_savings"`
	InterestSavings  decimal.Decimal         `json:"interest_savings"`
	Feasibility      valueobject.Feasibility `json:"feasibility"`
}

// Summarize returns the compact form of o.
func (o OptimizationOption) Summarize() OptionSummary {
	return OptionSummary{
		Dimension:        o.Dimension,
		RecommendedValue: o.RecommendedValue,
		MonthlySavings:   o.MonthlySavings,
		InterestSavings:  o.InterestSavings,
		Feasibility:      o.Feasibility,
	}
}

// OptimizationResult is the outcome of searching scenario variations.
//
// BestOptimizations, QuickWins and LongTermImprovements are ordered by
// interest savings, highest first. Quick wins are changes made at closing
// (LTV, loan amount, loan type); credit score changes take months and are
// long-term improvements.
type OptimizationResult struct {
	BaselineQuote         Quote               `json:"baseline_quote"`
	Options               []DimensionOptions  `json:"options"`
	BestOption            *OptimizationOption `json:"best_option,omitempty"`
	TotalPotentialSavings decimal.Decimal     `json:"total_potential_savings"`
	RecommendedActions    []string            `json:"recommended_actions"`
	BestOptimizations     []OptionSummary     `json:"best_optimizations"`
	QuickWins             []OptionSummary     `json:"quick_wins"`
	LongTermImprovements  []OptionSummary     `json:"long_term_improvements"`
}

// OptionsFor returns the ranked options of one dimension.
func (r OptimizationResult) OptionsFor(d valueobject.Dimension) []OptimizationOption {
	for _, opts := range r.Options {
		if opts.Dimension.Equal(d) {
			return opts.Options
		}
	}
	return nil
}

// OptionCount returns the number of options across all dimensions.
func (r OptimizationResult) OptionCount() int {
	n := 0
	for _, opts := range r.Options {
		n += len(opts.Options)
	}
	return n
}
