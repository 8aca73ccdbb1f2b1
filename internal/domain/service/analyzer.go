package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
)

// maxTopSuggestions caps QuoteAnalysis.TopSuggestions.
const maxTopSuggestions = 2

// Analyzer decomposes a quote into an explainable breakdown. It never
// generates prose; NarrativeSlots is left for an external narrator.
type Analyzer struct{}

// NewAnalyzer returns a new analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze explains q using the options found for it.
func (a *Analyzer) Analyze(q model.Quote, result model.OptimizationResult) model.QuoteAnalysis {
	return a.AnalyzeWithMarket(q, result, nil)
}

// AnalyzeWithMarket is Analyze with market context for the quote's loan type.
// market may be nil.
func (a *Analyzer) AnalyzeWithMarket(q model.Quote, result model.OptimizationResult, market *model.RateSummary) model.QuoteAnalysis {
	suggestions := make([]string, 0, maxTopSuggestions)
	for _, action := range result.RecommendedActions {
		if len(suggestions) == maxTopSuggestions {
			break
		}
		suggestions = append(suggestions, action)
	}

	return model.QuoteAnalysis{
		RateBreakdown:  Breakdown(q),
		TopSuggestions: suggestions,
		NarrativeSlots: narrativeSlots(q, result, len(suggestions), market),
	}
}

// Breakdown lists the steps from base rate to final rate. Every line but the
// last sums exactly to the final rate; the last line states the final rate.
func Breakdown(q model.Quote) []model.BreakdownLine {
	lines := []model.BreakdownLine{
		{Label: "base rate", Amount: q.BaseRate, Reason: "best market offer from " + q.Source},
	}

	components := []model.BreakdownLine{
		{Label: "credit score adjustment", Amount: q.Adjustment.CreditScore, Reason: "credit score tier"},
		{Label: "ltv adjustment", Amount: q.Adjustment.LTV, Reason: "loan-to-value tier"},
		{Label: "loan type adjustment", Amount: q.Adjustment.LoanType, Reason: "loan-type premium/discount"},
	}
	sum := decimal.Zero
	for _, c := range components {
		sum = sum.Add(c.Amount)
		if !c.Amount.IsZero() {
			lines = append(lines, c)
		}
	}

	if rounding := q.Adjustment.Total.Sub(sum); !rounding.IsZero() {
		lines = append(lines, model.BreakdownLine{Label: "rounding", Amount: rounding, Reason: "adjustment rounded to one basis point"})
	}

	unfloored := q.BaseRate.Add(q.Adjustment.Total)
	if floor := q.FinalRate.Sub(unfloored); !floor.IsZero() {
		lines = append(lines, model.BreakdownLine{Label: "rate floor", Amount: floor, Reason: "rate floor"})
	}

	return append(lines, model.BreakdownLine{Label: "final rate", Amount: q.FinalRate, Reason: "base rate plus adjustments"})
}

func narrativeSlots(q model.Quote, result model.OptimizationResult, suggestions int, market *model.RateSummary) model.NarrativeSlots {
	slots := model.NarrativeSlots{
		LoanType:              q.Scenario.LoanType.String(),
		BaseRate:              q.BaseRate,
		BaseAPR:               q.BaseAPR,
		AdjustmentTotal:       q.Adjustment.Total,
		FinalRate:             q.FinalRate,
		FinalAPR:              q.FinalAPR,
		MonthlyPayment:        q.MonthlyPayment,
		TotalInterest:         q.TotalInterest,
		IsEligible:            q.IsEligible,
		EligibilityIssueCount: len(q.EligibilityReasons),
		OptionCount:           result.OptionCount(),
		BestRateImprovement:   decimal.Zero,
		BestMonthlySavings:    decimal.Zero,
		TotalPotentialSavings: result.TotalPotentialSavings,
		SuggestionCount:       suggestions,
		MarketMeanRate:        decimal.Zero,
		MarketMinRate:         decimal.Zero,
	}

	if best := result.BestOption; best != nil {
		slots.BestDimension = best.Dimension.String()
		slots.BestRecommendedValue = best.RecommendedValue.String()
		slots.BestFeasibility = best.Feasibility.String()
		slots.BestRateImprovement = best.RateImprovement
		slots.BestMonthlySavings = best.MonthlySavings
	}

	if market != nil {
		slots.MarketOfferCount = market.Count
		slots.MarketMeanRate = market.MeanRate
		slots.MarketMinRate = market.MinRate
	}
	return slots
}
