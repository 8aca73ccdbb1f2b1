package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// ErrInvalidPolicy is returned when a pricing policy would price some valid
// scenario inconsistently.
var ErrInvalidPolicy = errors.New("invalid pricing policy")

// ---------------------------------------------------------------------------
// Adjustment tiers
// ---------------------------------------------------------------------------

// CreditTier applies Delta to scores at or above MinScore.
type CreditTier struct {
	MinScore int
	Delta    decimal.Decimal
}

// LTVTier applies Delta when LTV is strictly above Above.
type LTVTier struct {
	Above decimal.Decimal
	Delta decimal.Decimal
}

// AdjustmentTable holds the loan-level price adjustments.
//
// CreditTiers are ordered by MinScore descending and the first tier the score
// reaches wins. LTVTiers are ordered by Above descending and the first tier
// the LTV exceeds wins; an LTV at or below every boundary gets no adjustment.
type AdjustmentTable struct {
	CreditTiers    []CreditTier
	LTVTiers       []LTVTier
	CategoryDeltas map[valueobject.ProductCategory]decimal.Decimal
}

// ProductRule is the eligibility envelope of one loan type.
type ProductRule struct {
	MinCreditScore int
	MaxLTV         decimal.Decimal
}

// OptimizerPolicy holds the candidate targets and feasibility thresholds the
// optimizer searches with.
type OptimizerPolicy struct {
	CreditTargets      []int
	LTVTargets         []decimal.Decimal
	AmountReductions   []decimal.Decimal
	CreditGapHigh      int
	CreditGapMedium    int
	LTVReductionHigh   decimal.Decimal
	LTVReductionMedium decimal.Decimal
}

// PricingPolicy is the complete set of tunable pricing constants.
type PricingPolicy struct {
	Adjustments AdjustmentTable
	Products    map[valueobject.LoanType]ProductRule
	Optimizer   OptimizerPolicy
}

// DefaultPricingPolicy returns the policy the engine ships with.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		Adjustments: AdjustmentTable{
			CreditTiers: []CreditTier{
				{MinScore: 760, Delta: decimal.RequireFromString("-0.0625")},
				{MinScore: 720, Delta: decimal.Zero},
				{MinScore: 680, Delta: decimal.RequireFromString("0.0625")},
				{MinScore: model.MinCreditScore, Delta: decimal.RequireFromString("0.125")},
			},
			LTVTiers: []LTVTier{
				{Above: decimal.NewFromInt(80), Delta: decimal.RequireFromString("0.25")},
				{Above: decimal.NewFromInt(70), Delta: decimal.RequireFromString("0.125")},
				{Above: decimal.NewFromInt(60), Delta: decimal.RequireFromString("0.0625")},
			},
			CategoryDeltas: map[valueobject.ProductCategory]decimal.Decimal{
				valueobject.CategoryConventional: decimal.Zero,
				valueobject.CategoryGovernment:   decimal.RequireFromString("0.375"),
				valueobject.CategoryVeteran:      decimal.RequireFromString("0.125"),
				valueobject.CategoryJumbo:        decimal.RequireFromString("0.25"),
				valueobject.CategoryAdjustable:   decimal.RequireFromString("-0.125"),
			},
		},
		Products: map[valueobject.LoanType]ProductRule{
			valueobject.LoanType30YrFixed: {MinCreditScore: 620, MaxLTV: decimal.NewFromInt(97)},
			valueobject.LoanType15YrFixed: {MinCreditScore: 620, MaxLTV: decimal.NewFromInt(97)},
			valueobject.LoanTypeFHA30Yr:   {MinCreditScore: 580, MaxLTV: decimal.RequireFromString("96.5")},
			valueobject.LoanTypeVA30Yr:    {MinCreditScore: 580, MaxLTV: decimal.NewFromInt(100)},
			valueobject.LoanTypeJumbo30Yr: {MinCreditScore: 700, MaxLTV: decimal.NewFromInt(80)},
			valueobject.LoanType5x1ARM:    {MinCreditScore: 620, MaxLTV: decimal.NewFromInt(95)},
			valueobject.LoanType7x1ARM:    {MinCreditScore: 620, MaxLTV: decimal.NewFromInt(95)},
			valueobject.LoanType10x1ARM:   {MinCreditScore: 620, MaxLTV: decimal.NewFromInt(95)},
		},
		Optimizer: OptimizerPolicy{
			CreditTargets: []int{680, 720, 760},
			LTVTargets: []decimal.Decimal{
				decimal.NewFromInt(80), decimal.NewFromInt(70), decimal.NewFromInt(60),
			},
			AmountReductions: []decimal.Decimal{
				decimal.RequireFromString("0.05"),
				decimal.RequireFromString("0.10"),
				decimal.RequireFromString("0.15"),
			},
			CreditGapHigh:      20,
			CreditGapMedium:    60,
			LTVReductionHigh:   decimal.NewFromInt(5),
			LTVReductionMedium: decimal.NewFromInt(15),
		},
	}
}

// Validate rejects policies that leave scores unpriced or that would let a
// better credit score or a lower LTV raise the rate.
func (p PricingPolicy) Validate() error {
	if err := p.Adjustments.validate(); err != nil {
		return err
	}
	for lt, rule := range p.Products {
		if rule.MinCreditScore < 0 || rule.MinCreditScore > model.MaxCreditScore {
			return fmt.Errorf("%w: %s minimum credit score %d out of range", ErrInvalidPolicy, lt, rule.MinCreditScore)
		}
		if !rule.MaxLTV.IsPositive() || rule.MaxLTV.GreaterThan(hundred) {
			return fmt.Errorf("%w: %s maximum LTV %s out of range", ErrInvalidPolicy, lt, rule.MaxLTV)
		}
	}
	return p.Optimizer.validate()
}

func (t AdjustmentTable) validate() error {
	if len(t.CreditTiers) == 0 {
		return fmt.Errorf("%w: no credit tiers", ErrInvalidPolicy)
	}
	for i := 1; i < len(t.CreditTiers); i++ {
		prev, cur := t.CreditTiers[i-1], t.CreditTiers[i]
		if cur.MinScore >= prev.MinScore {
			return fmt.Errorf("%w: credit tiers must be ordered by descending score", ErrInvalidPolicy)
		}
		if cur.Delta.LessThan(prev.Delta) {
			return fmt.Errorf("%w: credit tier %d prices below tier %d", ErrInvalidPolicy, cur.MinScore, prev.MinScore)
		}
	}
	if last := t.CreditTiers[len(t.CreditTiers)-1]; last.MinScore > model.MinCreditScore {
		return fmt.Errorf("%w: lowest credit tier must start at or below %d", ErrInvalidPolicy, model.MinCreditScore)
	}

	for i, tier := range t.LTVTiers {
		if tier.Above.IsNegative() || tier.Delta.IsNegative() {
			return fmt.Errorf("%w: ltv tier above %s must be non-negative", ErrInvalidPolicy, tier.Above)
		}
		if i == 0 {
			continue
		}
		prev := t.LTVTiers[i-1]
		if !tier.Above.LessThan(prev.Above) {
			return fmt.Errorf("%w: ltv tiers must be ordered by descending boundary", ErrInvalidPolicy)
		}
		if tier.Delta.GreaterThan(prev.Delta) {
			return fmt.Errorf("%w: ltv tier above %s prices above tier above %s", ErrInvalidPolicy, tier.Above, prev.Above)
		}
	}
	return nil
}

func (o OptimizerPolicy) validate() error {
	for _, target := range o.CreditTargets {
		if target < model.MinCreditScore || target > model.MaxCreditScore {
			return fmt.Errorf("%w: credit target %d out of range", ErrInvalidPolicy, target)
		}
	}
	for _, target := range o.LTVTargets {
		if !target.IsPositive() || target.GreaterThan(hundred) {
			return fmt.Errorf("%w: ltv target %s out of range", ErrInvalidPolicy, target)
		}
	}
	for _, r := range o.AmountReductions {
		if !r.IsPositive() || !r.LessThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: amount reduction %s must be between 0 and 1", ErrInvalidPolicy, r)
		}
	}
	if o.CreditGapHigh > o.CreditGapMedium {
		return fmt.Errorf("%w: credit gap thresholds out of order", ErrInvalidPolicy)
	}
	if o.LTVReductionHigh.GreaterThan(o.LTVReductionMedium) {
		return fmt.Errorf("%w: ltv reduction thresholds out of order", ErrInvalidPolicy)
	}
	return nil
}
