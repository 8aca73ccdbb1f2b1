package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/mortgage-pricing/internal/domain/service"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// policyFile mirrors the YAML layout of a pricing policy. Sections left out
// of the file keep their defaults; a section that is present replaces the
// default section as a whole. Decimals are read as strings so that values
// like 0.0625 are never rounded through float64.
type policyFile struct {
	Adjustments struct {
		CreditTiers []struct {
			MinScore int    `yaml:"min_score"`
			Delta    string `yaml:"delta"`
		} `yaml:"credit_tiers"`
		LTVTiers []struct {
			Above string `yaml:"above"`
			Delta string `yaml:"delta"`
		} `yaml:"ltv_tiers"`
		CategoryDeltas map[string]string `yaml:"category_deltas"`
	} `yaml:"adjustments"`
	Products map[string]struct {
		MinCreditScore int    `yaml:"min_credit_score"`
		MaxLTV         string `yaml:"max_ltv"`
	} `yaml:"products"`
	Optimizer struct {
		CreditTargets      []int    `yaml:"credit_targets"`
		LTVTargets         []string `yaml:"ltv_targets"`
		AmountReductions   []string `yaml:"amount_reductions"`
		CreditGapHigh      *int     `yaml:"credit_gap_high"`
		CreditGapMedium    *int     `yaml:"credit_gap_medium"`
		LTVReductionHigh   string   `yaml:"ltv_reduction_high"`
		LTVReductionMedium string   `yaml:"ltv_reduction_medium"`
	} `yaml:"optimizer"`
}

var categories = map[string]valueobject.ProductCategory{
	string(valueobject.CategoryConventional): valueobject.CategoryConventional,
	string(valueobject.CategoryGovernment):   valueobject.CategoryGovernment,
	string(valueobject.CategoryVeteran):      valueobject.CategoryVeteran,
	string(valueobject.CategoryJumbo):        valueobject.CategoryJumbo,
	string(valueobject.CategoryAdjustable):   valueobject.CategoryAdjustable,
}

// LoadPolicy reads a pricing policy from path on top of the defaults. An
// empty path or a missing file yields the default policy.
func LoadPolicy(path string) (service.PricingPolicy, error) {
	if path == "" {
		return service.DefaultPricingPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return service.DefaultPricingPolicy(), nil
	}
	if err != nil {
		return service.PricingPolicy{}, fmt.Errorf("read pricing policy: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes and validates a YAML pricing policy.
func ParsePolicy(data []byte) (service.PricingPolicy, error) {
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return service.PricingPolicy{}, fmt.Errorf("parse pricing policy: %w", err)
	}

	policy := service.DefaultPricingPolicy()
	if err := f.apply(&policy); err != nil {
		return service.PricingPolicy{}, err
	}
	if err := policy.Validate(); err != nil {
		return service.PricingPolicy{}, err
	}
	return policy, nil
}

func (f policyFile) apply(p *service.PricingPolicy) error {
	adj := f.Adjustments
	if len(adj.CreditTiers) > 0 {
		tiers := make([]service.CreditTier, 0, len(adj.CreditTiers))
		for i, t := range adj.CreditTiers {
			delta, err := parseDecimal(fmt.Sprintf("adjustments.credit_tiers[%d].delta", i), t.Delta)
			if err != nil {
				return err
			}
			tiers = append(tiers, service.CreditTier{MinScore: t.MinScore, Delta: delta})
		}
		p.Adjustments.CreditTiers = tiers
	}
	if adj.LTVTiers != nil {
		tiers := make([]service.LTVTier, 0, len(adj.LTVTiers))
		for i, t := range adj.LTVTiers {
			above, err := parseDecimal(fmt.Sprintf("adjustments.ltv_tiers[%d].above", i), t.Above)
			if err != nil {
				return err
			}
			delta, err := parseDecimal(fmt.Sprintf("adjustments.ltv_tiers[%d].delta", i), t.Delta)
			if err != nil {
				return err
			}
			tiers = append(tiers, service.LTVTier{Above: above, Delta: delta})
		}
		p.Adjustments.LTVTiers = tiers
	}
	for name, raw := range adj.CategoryDeltas {
		category, ok := categories[name]
		if !ok {
			return fmt.Errorf("%w: unknown product category %q", service.ErrInvalidPolicy, name)
		}
		delta, err := parseDecimal("adjustments.category_deltas."+name, raw)
		if err != nil {
			return err
		}
		p.Adjustments.CategoryDeltas[category] = delta
	}

	for name, rule := range f.Products {
		lt, err := valueobject.NewLoanType(name)
		if err != nil {
			return fmt.Errorf("%w: products: %w", service.ErrInvalidPolicy, err)
		}
		maxLTV, err := parseDecimal("products."+name+".max_ltv", rule.MaxLTV)
		if err != nil {
			return err
		}
		p.Products[lt] = service.ProductRule{MinCreditScore: rule.MinCreditScore, MaxLTV: maxLTV}
	}

	return f.applyOptimizer(&p.Optimizer)
}

func (f policyFile) applyOptimizer(o *service.OptimizerPolicy) error {
	opt := f.Optimizer
	if len(opt.CreditTargets) > 0 {
		o.CreditTargets = opt.CreditTargets
	}
	if len(opt.LTVTargets) > 0 {
		targets, err := parseDecimals("optimizer.ltv_targets", opt.LTVTargets)
		if err != nil {
			return err
		}
		o.LTVTargets = targets
	}
	if len(opt.AmountReductions) > 0 {
		reductions, err := parseDecimals("optimizer.amount_reductions", opt.AmountReductions)
		if err != nil {
			return err
		}
		o.AmountReductions = reductions
	}
	if opt.CreditGapHigh != nil {
		o.CreditGapHigh = *opt.CreditGapHigh
	}
	if opt.CreditGapMedium != nil {
		o.CreditGapMedium = *opt.CreditGapMedium
	}
	if opt.LTVReductionHigh != "" {
		v, err := parseDecimal("optimizer.ltv_reduction_high", opt.LTVReductionHigh)
		if err != nil {
			return err
		}
		o.LTVReductionHigh = v
	}
	if opt.LTVReductionMedium != "" {
		v, err := parseDecimal("optimizer.ltv_reduction_medium", opt.LTVReductionMedium)
		if err != nil {
			return err
		}
		o.LTVReductionMedium = v
	}
	return nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %q is not a number", service.ErrInvalidPolicy, field, raw)
	}
	return d, nil
}

func parseDecimals(field string, raw []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(raw))
	for i, r := range raw {
		d, err := parseDecimal(fmt.Sprintf("%s[%d]", field, i), r)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
