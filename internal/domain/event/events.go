package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	TypeRateTableRefreshed    = "pricing.rate_table.refreshed"
	TypeQuoteComputed         = "pricing.quote.computed"
	TypeOptimizationCompleted = "pricing.optimization.completed"
)

// ---------------------------------------------------------------------------
// Rate table events
// ---------------------------------------------------------------------------

// RateTableRefreshed is raised when a new rate snapshot is published.
type RateTableRefreshed struct {
	events.BaseEvent
	AsOf       time.Time `json:"as_of"`
	OfferCount int       `json:"offer_count"`
	LoanTypes  []string  `json:"loan_types"`
}

func NewRateTableRefreshed(tableID string, asOf time.Time, offerCount int, loanTypes []string) RateTableRefreshed {
	return RateTableRefreshed{
		BaseEvent:  events.NewBaseEvent(TypeRateTableRefreshed, tableID, "RateTable"),
		AsOf:       asOf,
		OfferCount: offerCount,
		LoanTypes:  loanTypes,
	}
}

// ---------------------------------------------------------------------------
// Quote events
// ---------------------------------------------------------------------------

// QuoteComputed is raised for every quote served.
type QuoteComputed struct {
	events.BaseEvent
	LoanType       string          `json:"loan_type"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	CreditScore    int             `json:"credit_score"`
	LTV            decimal.Decimal `json:"ltv"`
	FinalRate      decimal.Decimal `json:"final_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	IsEligible     bool            `json:"is_eligible"`
}

func NewQuoteComputed(
	tableID, loanType string,
	loanAmount decimal.Decimal, creditScore int, ltv decimal.Decimal,
	finalRate, monthlyPayment decimal.Decimal, eligible bool,
) QuoteComputed {
	return QuoteComputed{
		BaseEvent:      events.NewBaseEvent(TypeQuoteComputed, tableID, "RateTable"),
		LoanType:       loanType,
		LoanAmount:     loanAmount,
		CreditScore:    creditScore,
		LTV:            ltv,
		FinalRate:      finalRate,
		MonthlyPayment: monthlyPayment,
		IsEligible:     eligible,
	}
}

// OptimizationCompleted is raised when a scenario optimization finishes.
type OptimizationCompleted struct {
	events.BaseEvent
	LoanType              string          `json:"loan_type"`
	OptionCount           int             `json:"option_count"`
	BestDimension         string          `json:"best_dimension,omitempty"`
	BestMonthlySavings    decimal.Decimal `json:"best_monthly_savings"`
	TotalPotentialSavings decimal.Decimal `json:"total_potential_savings"`
}

func NewOptimizationCompleted(
	tableID, loanType string, optionCount int,
	bestDimension string, bestMonthlySavings, totalPotentialSavings decimal.Decimal,
) OptimizationCompleted {
	return OptimizationCompleted{
		BaseEvent:             events.NewBaseEvent(TypeOptimizationCompleted, tableID, "RateTable"),
		LoanType:              loanType,
		OptionCount:           optionCount,
		BestDimension:         bestDimension,
		BestMonthlySavings:    bestMonthlySavings,
		TotalPotentialSavings: totalPotentialSavings,
	}
}
