package model

import (
	"github.com/shopspring/decimal"
)

// Adjustment holds the loan-level price adjustments for a scenario, in rate
// percentage points. Total is the sum of the components to one basis point.
type Adjustment struct {
	CreditScore decimal.Decimal `json:"credit_score_component"`
	LTV         decimal.Decimal `json:"ltv_component"`
	LoanType    decimal.Decimal `json:"loan_type_component"`
	Total       decimal.Decimal `json:"total"`
}

// Quote is a priced, eligibility-checked offer for a scenario. It is derived
// entirely from the scenario and the rate table it was computed against.
type Quote struct {
	Scenario           BorrowerScenario `json:"scenario"`
	BaseRate           decimal.Decimal  `json:"base_rate"`
	BaseAPR            decimal.Decimal  `json:"base_apr"`
	Adjustment         Adjustment       `json:"adjustment"`
	FinalRate          decimal.Decimal  `json:"final_rate"`
	FinalAPR           decimal.Decimal  `json:"final_apr"`
	MonthlyPayment     decimal.Decimal  `json:"monthly_payment"`
	TotalInterest      decimal.Decimal  `json:"total_interest"`
	TermMonths         int              `json:"term_months"`
	Fees               decimal.Decimal  `json:"fees"`
	LockPeriodDays     int              `json:"lock_period_days"`
	Source             string           `json:"source"`
	IsEligible         bool             `json:"is_eligible"`
	EligibilityReasons []string         `json:"eligibility_reasons"`
}
