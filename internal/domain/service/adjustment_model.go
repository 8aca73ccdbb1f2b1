package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

var hundred = decimal.NewFromInt(100)

// ---------------------------------------------------------------------------
// AdjustmentModel – loan-level price adjustments
// ---------------------------------------------------------------------------

// AdjustmentModel maps the risk factors of a scenario to rate deltas. It
// holds no state beyond its table and is safe for concurrent use.
type AdjustmentModel struct {
	table AdjustmentTable
}

// NewAdjustmentModel returns a model over the given table.
func NewAdjustmentModel(table AdjustmentTable) *AdjustmentModel {
	return &AdjustmentModel{table: table}
}

// Adjust prices the three risk factors independently. Total is their sum
// rounded to one basis point.
//
// Default tiers:
//
//	credit  >= 760 -0.0625 | >= 720 0 | >= 680 +0.0625 | else +0.125
//	ltv     >  80  +0.25   | >  70 +0.125 | >  60 +0.0625 | else 0
//	product FHA +0.375 | VA +0.125 | jumbo +0.25 | ARM -0.125 | fixed 0
func (m *AdjustmentModel) Adjust(s model.BorrowerScenario) model.Adjustment {
	credit := m.CreditComponent(s.CreditScore)
	ltv := m.LTVComponent(s.LTV)
	product := m.LoanTypeComponent(s.LoanType)

	return model.Adjustment{
		CreditScore: credit,
		LTV:         ltv,
		LoanType:    product,
		Total:       credit.Add(ltv).Add(product).Round(4),
	}
}

// CreditComponent returns the delta of the first tier the score reaches.
func (m *AdjustmentModel) CreditComponent(score int) decimal.Decimal {
	for _, tier := range m.table.CreditTiers {
		if score >= tier.MinScore {
			return tier.Delta
		}
	}
	return decimal.Zero
}

// LTVComponent returns the delta of the first tier the LTV exceeds.
func (m *AdjustmentModel) LTVComponent(ltv decimal.Decimal) decimal.Decimal {
	for _, tier := range m.table.LTVTiers {
		if ltv.GreaterThan(tier.Above) {
			return tier.Delta
		}
	}
	return decimal.Zero
}

// LoanTypeComponent returns the delta for the product category of lt.
func (m *AdjustmentModel) LoanTypeComponent(lt valueobject.LoanType) decimal.Decimal {
	return m.table.CategoryDeltas[lt.Category()]
}
