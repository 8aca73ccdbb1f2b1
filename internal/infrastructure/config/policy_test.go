package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgage-pricing/internal/domain/service"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

const samplePolicy = `
adjustments:
  credit_tiers:
    - {min_score: 780, delta: "-0.125"}
    - {min_score: 700, delta: "0"}
    - {min_score: 300, delta: "0.25"}
  category_deltas:
    government: "0.5"
products:
  jumbo_30yr: {min_credit_score: 720, max_ltv: "75"}
optimizer:
  credit_targets: [700, 780]
  credit_gap_high: 10
  ltv_reduction_medium: "20"
`

func TestParsePolicy(t *testing.T) {
	t.Run("overlays the file on the defaults", func(t *testing.T) {
		policy, err := ParsePolicy([]byte(samplePolicy))
		require.NoError(t, err)

		defaults := service.DefaultPricingPolicy()

		require.Len(t, policy.Adjustments.CreditTiers, 3)
		assert.Equal(t, 780, policy.Adjustments.CreditTiers[0].MinScore)
		assert.True(t, policy.Adjustments.CreditTiers[0].Delta.Equal(decimal.RequireFromString("-0.125")))
		assert.Equal(t, defaults.Adjustments.LTVTiers, policy.Adjustments.LTVTiers)

		assert.True(t, policy.Adjustments.CategoryDeltas[valueobject.CategoryGovernment].Equal(decimal.RequireFromString("0.5")))
		assert.True(t, policy.Adjustments.CategoryDeltas[valueobject.CategoryJumbo].Equal(decimal.RequireFromString("0.25")))

		jumbo := policy.Products[valueobject.LoanTypeJumbo30Yr]
		assert.Equal(t, 720, jumbo.MinCreditScore)
		assert.True(t, jumbo.MaxLTV.Equal(decimal.NewFromInt(75)))
		assert.Equal(t, 580, policy.Products[valueobject.LoanTypeFHA30Yr].MinCreditScore)

		assert.Equal(t, []int{700, 780}, policy.Optimizer.CreditTargets)
		assert.Equal(t, 10, policy.Optimizer.CreditGapHigh)
		assert.Equal(t, 60, policy.Optimizer.CreditGapMedium)
		assert.True(t, policy.Optimizer.LTVReductionMedium.Equal(decimal.NewFromInt(20)))
	})

	t.Run("an empty document is the default policy", func(t *testing.T) {
		policy, err := ParsePolicy(nil)
		require.NoError(t, err)
		assert.Equal(t, service.DefaultPricingPolicy(), policy)
	})

	tests := []struct {
		name string
		doc  string
	}{
		{name: "malformed yaml", doc: "adjustments: [unclosed"},
		{name: "non-numeric delta", doc: "adjustments:\n  credit_tiers:\n    - {min_score: 300, delta: \"cheap\"}\n"},
		{name: "unknown category", doc: "adjustments:\n  category_deltas:\n    subprime: \"1\"\n"},
		{name: "unknown product", doc: "products:\n  balloon: {min_credit_score: 600, max_ltv: \"80\"}\n"},
		{name: "unpriced low scores", doc: "adjustments:\n  credit_tiers:\n    - {min_score: 700, delta: \"0\"}\n"},
		{name: "better credit priced higher", doc: "adjustments:\n  credit_tiers:\n    - {min_score: 760, delta: \"0.5\"}\n    - {min_score: 300, delta: \"0\"}\n"},
		{name: "reduction outside (0,1)", doc: "optimizer:\n  amount_reductions: [\"1.5\"]\n"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := ParsePolicy([]byte(tt.doc))
			require.Error(t, err)
		})
	}

	t.Run("policy violations unwrap to ErrInvalidPolicy", func(t *testing.T) {
		_, err := ParsePolicy([]byte("optimizer:\n  credit_targets: [900]\n"))
		assert.ErrorIs(t, err, service.ErrInvalidPolicy)
	})
}

func TestLoadPolicy(t *testing.T) {
	t.Run("no path means defaults", func(t *testing.T) {
		policy, err := LoadPolicy("")
		require.NoError(t, err)
		assert.Equal(t, service.DefaultPricingPolicy(), policy)
	})

	t.Run("a missing file means defaults", func(t *testing.T) {
		policy, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, service.DefaultPricingPolicy(), policy)
	})

	t.Run("reads the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte(samplePolicy), 0o600))

		policy, err := LoadPolicy(path)
		require.NoError(t, err)
		assert.Equal(t, []int{700, 780}, policy.Optimizer.CreditTargets)
	})
}
