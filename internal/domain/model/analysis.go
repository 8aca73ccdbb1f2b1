package model

import (
	"github.com/shopspring/decimal"
)

// BreakdownLine is one step of the explanation from base rate to final rate.
type BreakdownLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// NarrativeSlots is a flat, stable-shaped view of a quote and its best
// improvement, meant to be phrased by an external text generator.
type NarrativeSlots struct {
	LoanType              string          `json:"loan_type"`
	BaseRate              decimal.Decimal `json:"base_rate"`
	BaseAPR               decimal.Decimal `json:"base_apr"`
	AdjustmentTotal       decimal.Decimal `json:"adjustment_total"`
	FinalRate             decimal.Decimal `json:"final_rate"`
	FinalAPR              decimal.Decimal `json:"final_apr"`
	MonthlyPayment        decimal.Decimal `json:"monthly_payment"`
	TotalInterest         decimal.Decimal `json:"total_interest"`
	IsEligible            bool            `json:"is_eligible"`
	EligibilityIssueCount int             `json:"eligibility_issue_count"`
	OptionCount           int             `json:"option_count"`
	BestDimension         string          `json:"best_dimension"`
	BestRecommendedValue  string          `json:"best_recommended_value"`
	BestFeasibility       string          `json:"best_feasibility"`
	BestRateImprovement   decimal.Decimal `json:"best_rate_improvement"`
	BestMonthlySavings    decimal.Decimal `json:"best_monthly_savings"`
	TotalPotentialSavings decimal.Decimal `json:"total_potential_savings"`
	SuggestionCount       int             `json:"suggestion_count"`
	MarketOfferCount      int             `json:"market_offer_count"`
	MarketMeanRate        decimal.Decimal `json:"market_mean_rate"`
	MarketMinRate         decimal.Decimal `json:"market_min_rate"`
}

// QuoteAnalysis is the explainable decomposition of a quote.
type QuoteAnalysis struct {
	RateBreakdown  []BreakdownLine `json:"rate_breakdown"`
	TopSuggestions []string        `json:"top_suggestions"`
	NarrativeSlots NarrativeSlots  `json:"narrative_slots"`
}

// RateSummary describes the spread of offers for one loan type.
type RateSummary struct {
	LoanType   string          `json:"loan_type"`
	Count      int             `json:"count"`
	MinRate    decimal.Decimal `json:"min_rate"`
	MaxRate    decimal.Decimal `json:"max_rate"`
	MeanRate   decimal.Decimal `json:"mean_rate"`
	StdDevRate decimal.Decimal `json:"stddev_rate"`
	MinAPR     decimal.Decimal `json:"min_apr"`
	MaxAPR     decimal.Decimal `json:"max_apr"`
	MeanAPR    decimal.Decimal `json:"mean_apr"`
}
