package service

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// QuoteEngine – prices a scenario against a rate table
// ---------------------------------------------------------------------------

// QuoteEngine combines a rate table, the adjustment model and amortization
// into a priced, eligibility-checked quote. It holds no mutable state.
type QuoteEngine struct {
	adjustments *AdjustmentModel
	products    map[valueobject.LoanType]ProductRule
}

// NewQuoteEngine builds an engine from a validated policy.
func NewQuoteEngine(policy PricingPolicy) *QuoteEngine {
	return &QuoteEngine{
		adjustments: NewAdjustmentModel(policy.Adjustments),
		products:    policy.Products,
	}
}

// Adjustments exposes the adjustment model the engine prices with.
func (e *QuoteEngine) Adjustments() *AdjustmentModel { return e.adjustments }

// ComputeQuote prices the scenario against the best offer for its loan type.
//
// The best offer has the lowest base rate, then the lowest fees, then comes
// first in the table. The adjustment total is applied to both rate and APR,
// each floored at zero. Eligibility violations are reported on the quote.
func (e *QuoteEngine) ComputeQuote(s model.BorrowerScenario, table *model.RateTable) (model.Quote, error) {
	if err := s.Validate(); err != nil {
		return model.Quote{}, err
	}

	offer, err := table.BestOffer(s.LoanType)
	if err != nil {
		return model.Quote{}, err
	}

	adj := e.adjustments.Adjust(s)
	finalRate := decimal.Max(decimal.Zero, offer.BaseRate().Add(adj.Total))
	finalAPR := decimal.Max(decimal.Zero, offer.BaseAPR().Add(adj.Total))

	term := s.LoanType.TermMonths()
	payment := model.MonthlyPayment(s.LoanAmount, finalRate, term)
	reasons := e.eligibilityReasons(s)

	return model.Quote{
		Scenario:           s,
		BaseRate:           offer.BaseRate(),
		BaseAPR:            offer.BaseAPR(),
		Adjustment:         adj,
		FinalRate:          finalRate,
		FinalAPR:           finalAPR,
		MonthlyPayment:     payment,
		TotalInterest:      model.TotalInterest(s.LoanAmount, payment, term),
		TermMonths:         term,
		Fees:               offer.Fees(),
		LockPeriodDays:     offer.LockPeriodDays(),
		Source:             offer.Source(),
		IsEligible:         len(reasons) == 0,
		EligibilityReasons: reasons,
	}, nil
}

// CompareQuotes prices the scenario under every loan type in the table,
// cheapest final rate first. The scenario's own loan type may be empty.
func (e *QuoteEngine) CompareQuotes(s model.BorrowerScenario, table *model.RateTable) ([]model.Quote, error) {
	probe := s
	if probe.LoanType.IsZero() {
		probe.LoanType = valueobject.LoanType30YrFixed
	}
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	quotes := make([]model.Quote, 0, len(table.LoanTypes()))
	for _, lt := range table.LoanTypes() {
		q, err := e.ComputeQuote(s.WithLoanType(lt), table)
		if err != nil {
			return nil, fmt.Errorf("quote %s: %w", lt, err)
		}
		quotes = append(quotes, q)
	}

	slices.SortStableFunc(quotes, func(a, b model.Quote) int {
		if c := a.FinalRate.Cmp(b.FinalRate); c != 0 {
			return c
		}
		return a.Scenario.LoanType.Compare(b.Scenario.LoanType)
	})
	return quotes, nil
}

func (e *QuoteEngine) eligibilityReasons(s model.BorrowerScenario) []string {
	reasons := make([]string, 0)

	rule, ok := e.products[s.LoanType]
	if !ok {
		return reasons
	}
	if s.CreditScore < rule.MinCreditScore {
		reasons = append(reasons, fmt.Sprintf(
			"credit score %d is below the %d minimum for %s",
			s.CreditScore, rule.MinCreditScore, s.LoanType.DisplayName()))
	}
	if s.LTV.GreaterThan(rule.MaxLTV) {
		reasons = append(reasons, fmt.Sprintf(
			"LTV %s%% exceeds the %s%% maximum for %s",
			s.LTV, rule.MaxLTV, s.LoanType.DisplayName()))
	}
	return reasons
}
