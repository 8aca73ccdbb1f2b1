package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/application/usecase"
	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/service"
)

func newAnalyze(store *mockRateTableStore) *usecase.AnalyzeQuoteUseCase {
	policy := service.DefaultPricingPolicy()
	optimizer := service.NewOptimizer(service.NewQuoteEngine(policy), policy.Optimizer)
	return usecase.NewAnalyzeQuoteUseCase(store, optimizer, service.NewAnalyzer())
}

func TestAnalyzeQuote_Execute(t *testing.T) {
	t.Run("breaks the quote down and suggests improvements", func(t *testing.T) {
		store := loadedStore(t)
		uc := newAnalyze(store)

		resp, err := uc.Execute(context.Background(), dto.AnalyzeQuoteRequest{ScenarioRequest: scenarioA()})

		require.NoError(t, err)
		assert.Equal(t, store.table.ID().String(), resp.RateTableID)
		assert.True(t, resp.Quote.FinalRate.Equal(dec("6.3125")))

		lines := resp.Analysis.RateBreakdown
		require.GreaterOrEqual(t, len(lines), 3)
		assert.Equal(t, "base rate", lines[0].Label)
		assert.True(t, lines[0].Amount.Equal(dec("6.0")))
		assert.Equal(t, "final rate", lines[len(lines)-1].Label)
		assert.True(t, lines[len(lines)-1].Amount.Equal(dec("6.3125")))

		assert.Len(t, resp.Analysis.TopSuggestions, 2)
		slots := resp.Analysis.NarrativeSlots
		assert.Equal(t, "30yr_fixed", slots.LoanType)
		assert.Equal(t, 1, slots.MarketOfferCount)
		assert.True(t, slots.MarketMeanRate.Equal(dec("6")))
		assert.NotEmpty(t, slots.BestDimension)
	})

	t.Run("rejects an invalid scenario", func(t *testing.T) {
		uc := newAnalyze(loadedStore(t))
		req := dto.AnalyzeQuoteRequest{ScenarioRequest: scenarioA()}
		req.LoanAmount = dec("-1")

		_, err := uc.Execute(context.Background(), req)

		assert.ErrorIs(t, err, model.ErrInvalidScenario)
	})

	t.Run("fails while no snapshot is loaded", func(t *testing.T) {
		uc := newAnalyze(&mockRateTableStore{})

		_, err := uc.Execute(context.Background(), dto.AnalyzeQuoteRequest{ScenarioRequest: scenarioA()})

		assert.ErrorIs(t, err, usecase.ErrRateTableUnavailable)
	})
}
