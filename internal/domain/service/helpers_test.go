package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/service"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

var tableAsOf = time.Date(2025, 1, 23, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decFromInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

type offerSpec struct {
	loanType valueobject.LoanType
	rate     string
	apr      string
	fees     string
	source   string
}

func newTable(t *testing.T, specs ...offerSpec) *model.RateTable {
	t.Helper()
	offers := make([]model.RateOffer, 0, len(specs))
	for _, s := range specs {
		fees := s.fees
		if fees == "" {
			fees = "0"
		}
		source := s.source
		if source == "" {
			source = "test-feed"
		}
		o, err := model.NewRateOffer(s.loanType, dec(s.rate), dec(s.apr), dec(fees), 0, source, tableAsOf)
		require.NoError(t, err)
		offers = append(offers, o)
	}
	table, err := model.NewRateTable(offers, tableAsOf)
	require.NoError(t, err)
	return table
}

// fixedOnlyTable carries a single 30-year fixed offer at 6.0 / 6.2.
func fixedOnlyTable(t *testing.T) *model.RateTable {
	return newTable(t, offerSpec{loanType: valueobject.LoanType30YrFixed, rate: "6.0", apr: "6.2"})
}

func marketTable(t *testing.T) *model.RateTable {
	return newTable(t,
		offerSpec{loanType: valueobject.LoanType30YrFixed, rate: "6.0", apr: "6.2"},
		offerSpec{loanType: valueobject.LoanType15YrFixed, rate: "5.5", apr: "5.7"},
		offerSpec{loanType: valueobject.LoanTypeFHA30Yr, rate: "5.75", apr: "6.5"},
		offerSpec{loanType: valueobject.LoanTypeVA30Yr, rate: "5.625", apr: "5.9"},
		offerSpec{loanType: valueobject.LoanTypeJumbo30Yr, rate: "6.25", apr: "6.4"},
		offerSpec{loanType: valueobject.LoanType5x1ARM, rate: "5.875", apr: "6.6"},
	)
}

func scenarioA() model.BorrowerScenario {
	return model.BorrowerScenario{
		LoanAmount:  dec("500000"),
		CreditScore: 680,
		LTV:         dec("85"),
		LoanType:    valueobject.LoanType30YrFixed,
	}
}

func scenarioB() model.BorrowerScenario {
	return model.BorrowerScenario{
		LoanAmount:  dec("500000"),
		CreditScore: 760,
		LTV:         dec("55"),
		LoanType:    valueobject.LoanType30YrFixed,
	}
}

func newEngine() *service.QuoteEngine {
	return service.NewQuoteEngine(service.DefaultPricingPolicy())
}

func newOptimizer() *service.Optimizer {
	policy := service.DefaultPricingPolicy()
	return service.NewOptimizer(service.NewQuoteEngine(policy), policy.Optimizer)
}

func assertDec(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !dec(expected).Equal(actual) {
		require.Failf(t, "decimal mismatch", "expected %s, got %s %v", expected, actual, msgAndArgs)
	}
}
