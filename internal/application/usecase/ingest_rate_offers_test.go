package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/application/usecase"
	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/service"
)

func newIngest(repo *mockRateOfferRepository, store *mockRateTableStore) *usecase.IngestRateOffersUseCase {
	refresh := usecase.NewRefreshRateTableUseCase(repo, store, &mockEventPublisher{}, discardLogger())
	normalizer := service.NewRateNormalizer(nil)
	return usecase.NewIngestRateOffersUseCase(normalizer, repo, refresh, discardLogger())
}

func rawRecords() []model.RawRateRecord {
	return []model.RawRateRecord{
		{Product: "30 Year Fixed", Rate: dec("6.1254"), APR: dec("6.3"), Source: "bank-a", ObservedAt: tableAsOf},
		{Product: "FHA", Rate: dec("5.8"), APR: dec("6.4"), Source: "bank-a", ObservedAt: tableAsOf},
		{Product: "Balloon 7", Rate: dec("5.0"), APR: dec("5.1"), Source: "bank-a", ObservedAt: tableAsOf},
		{Product: "15yr", Rate: dec("45"), APR: dec("45.2"), Source: "bank-a", ObservedAt: tableAsOf},
	}
}

func TestIngestRateOffers_Execute(t *testing.T) {
	t.Run("stores valid records and rebuilds the snapshot", func(t *testing.T) {
		repo := &mockRateOfferRepository{}
		store := &mockRateTableStore{}
		uc := newIngest(repo, store)

		resp, err := uc.Execute(context.Background(), dto.IngestRatesRequest{Records: rawRecords()})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.Accepted)
		require.Len(t, resp.Rejected, 2)
		assert.Equal(t, 2, resp.Rejected[0].Index)
		assert.Equal(t, "Balloon 7", resp.Rejected[0].Product)
		assert.Equal(t, 3, resp.Rejected[1].Index)
		assert.NotEmpty(t, resp.Rejected[1].Reason)

		require.Len(t, repo.saved, 2)
		assert.True(t, repo.saved[0].BaseRate().Equal(dec("6.125")))
		assert.Equal(t, model.DefaultLockPeriodDays, repo.saved[0].LockPeriodDays())

		require.NotNil(t, store.table)
		assert.Equal(t, store.table.ID().String(), resp.RateTableID)
		assert.Equal(t, 2, store.table.Len())
	})

	t.Run("leaves storage untouched when every record is rejected", func(t *testing.T) {
		repo := &mockRateOfferRepository{}
		store := &mockRateTableStore{}
		uc := newIngest(repo, store)

		resp, err := uc.Execute(context.Background(), dto.IngestRatesRequest{Records: rawRecords()[2:]})

		require.NoError(t, err)
		assert.Zero(t, resp.Accepted)
		assert.Len(t, resp.Rejected, 2)
		assert.Empty(t, resp.RateTableID)
		assert.Empty(t, repo.saved)
		assert.Empty(t, store.published)
	})

	t.Run("fails when offers cannot be saved", func(t *testing.T) {
		repo := &mockRateOfferRepository{
			saveOffersFunc: func(_ context.Context, _ []model.RateOffer) error {
				return fmt.Errorf("database unavailable")
			},
		}
		store := &mockRateTableStore{}
		uc := newIngest(repo, store)

		_, err := uc.Execute(context.Background(), dto.IngestRatesRequest{Records: rawRecords()})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save offers")
		assert.Empty(t, store.published)
	})
}
