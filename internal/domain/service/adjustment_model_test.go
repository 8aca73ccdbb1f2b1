package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/service"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

func defaultAdjustments() *service.AdjustmentModel {
	return service.NewAdjustmentModel(service.DefaultPricingPolicy().Adjustments)
}

func TestAdjustmentModel_CreditTiers(t *testing.T) {
	m := defaultAdjustments()

	tests := []struct {
		score    int
		expected string
	}{
		{300, "0.125"},
		{679, "0.125"},
		{680, "0.0625"},
		{719, "0.0625"},
		{720, "0"},
		{759, "0"},
		{760, "-0.0625"},
		{850, "-0.0625"},
	}

	for _, tt := range tests {
		assertDec(t, tt.expected, m.CreditComponent(tt.score), "score", tt.score)
	}
}

func TestAdjustmentModel_LTVTiers(t *testing.T) {
	m := defaultAdjustments()

	tests := []struct {
		ltv      string
		expected string
	}{
		{"100", "0.25"},
		{"80.01", "0.25"},
		{"80", "0.125"},
		{"70.5", "0.125"},
		{"70", "0.0625"},
		{"60.0001", "0.0625"},
		{"60", "0"},
		{"5", "0"},
	}

	for _, tt := range tests {
		assertDec(t, tt.expected, m.LTVComponent(dec(tt.ltv)), "ltv", tt.ltv)
	}
}

func TestAdjustmentModel_LoanTypeComponent(t *testing.T) {
	m := defaultAdjustments()

	tests := []struct {
		loanType valueobject.LoanType
		expected string
	}{
		{valueobject.LoanType30YrFixed, "0"},
		{valueobject.LoanType15YrFixed, "0"},
		{valueobject.LoanTypeFHA30Yr, "0.375"},
		{valueobject.LoanTypeVA30Yr, "0.125"},
		{valueobject.LoanTypeJumbo30Yr, "0.25"},
		{valueobject.LoanType5x1ARM, "-0.125"},
		{valueobject.LoanType7x1ARM, "-0.125"},
		{valueobject.LoanType10x1ARM, "-0.125"},
	}

	for _, tt := range tests {
		t.Run(tt.loanType.String(), func(t *testing.T) {
			assertDec(t, tt.expected, m.LoanTypeComponent(tt.loanType))
		})
	}
}

func TestAdjustmentModel_ScenarioA(t *testing.T) {
	adj := defaultAdjustments().Adjust(scenarioA())

	assertDec(t, "0.0625", adj.CreditScore)
	assertDec(t, "0.25", adj.LTV)
	assertDec(t, "0", adj.LoanType)
	assertDec(t, "0.3125", adj.Total)
}

func TestAdjustmentModel_TotalRoundsToBasisPoint(t *testing.T) {
	table := service.AdjustmentTable{
		CreditTiers: []service.CreditTier{{MinScore: model.MinCreditScore, Delta: dec("0.03333")}},
		LTVTiers:    []service.LTVTier{{Above: dec("0"), Delta: dec("0.03333")}},
	}
	adj := service.NewAdjustmentModel(table).Adjust(scenarioA())

	assertDec(t, "0.0667", adj.Total)
}

func TestDefaultPricingPolicy_IsValid(t *testing.T) {
	require.NoError(t, service.DefaultPricingPolicy().Validate())
}

func TestPricingPolicy_ValidateRejectsNonMonotonicTiers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *service.PricingPolicy)
	}{
		{"no credit tiers", func(p *service.PricingPolicy) { p.Adjustments.CreditTiers = nil }},
		{"credit tiers ascending", func(p *service.PricingPolicy) {
			p.Adjustments.CreditTiers = []service.CreditTier{
				{MinScore: 300, Delta: dec("0.125")},
				{MinScore: 760, Delta: dec("0")},
			}
		}},
		{"better credit costs more", func(p *service.PricingPolicy) {
			p.Adjustments.CreditTiers[0].Delta = dec("0.5")
		}},
		{"credit tiers leave low scores unpriced", func(p *service.PricingPolicy) {
			p.Adjustments.CreditTiers[3].MinScore = 600
		}},
		{"lower ltv costs more", func(p *service.PricingPolicy) {
			p.Adjustments.LTVTiers[2].Delta = dec("1")
		}},
		{"ltv tiers out of order", func(p *service.PricingPolicy) {
			p.Adjustments.LTVTiers[1].Above = dec("90")
		}},
		{"product max ltv above 100", func(p *service.PricingPolicy) {
			p.Products[valueobject.LoanTypeVA30Yr] = service.ProductRule{MinCreditScore: 580, MaxLTV: dec("101")}
		}},
		{"credit target out of range", func(p *service.PricingPolicy) { p.Optimizer.CreditTargets = []int{900} }},
		{"amount reduction of 100 percent", func(p *service.PricingPolicy) {
			p.Optimizer.AmountReductions = []decimal.Decimal{dec("1")}
		}},
		{"gap thresholds reversed", func(p *service.PricingPolicy) {
			p.Optimizer.CreditGapHigh, p.Optimizer.CreditGapMedium = 60, 20
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := service.DefaultPricingPolicy()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), service.ErrInvalidPolicy)
		})
	}
}
