package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/domain/event"
	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// --- Mock implementations ---

type mockRateTableStore struct {
	table     *model.RateTable
	published []*model.RateTable
}

func (m *mockRateTableStore) Current() *model.RateTable { return m.table }

func (m *mockRateTableStore) Publish(table *model.RateTable) {
	m.table = table
	m.published = append(m.published, table)
}

type mockRateOfferRepository struct {
	saveOffersFunc     func(ctx context.Context, offers []model.RateOffer) error
	fetchOffersFunc    func(ctx context.Context) ([]model.RateOffer, error)
	purgeOlderThanFunc func(ctx context.Context, cutoff time.Time) (int64, error)
	saved              []model.RateOffer
}

func (m *mockRateOfferRepository) SaveOffers(ctx context.Context, offers []model.RateOffer) error {
	if m.saveOffersFunc != nil {
		return m.saveOffersFunc(ctx, offers)
	}
	m.saved = append(m.saved, offers...)
	return nil
}

func (m *mockRateOfferRepository) FetchOffers(ctx context.Context) ([]model.RateOffer, error) {
	if m.fetchOffersFunc != nil {
		return m.fetchOffersFunc(ctx)
	}
	return m.saved, nil
}

func (m *mockRateOfferRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.purgeOlderThanFunc != nil {
		return m.purgeOlderThanFunc(ctx, cutoff)
	}
	return 0, nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockResultCache struct {
	getFunc func(ctx context.Context, key string) ([]byte, bool, error)
	setFunc func(ctx context.Context, key string, value []byte) error
	entries map[string][]byte
}

func (m *mockResultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *mockResultCache) Set(ctx context.Context, key string, value []byte) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value)
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = value
	return nil
}

type mockRateSource struct {
	fetchRatesFunc func(ctx context.Context) ([]model.RawRateRecord, error)
}

func (m *mockRateSource) FetchRates(ctx context.Context) ([]model.RawRateRecord, error) {
	if m.fetchRatesFunc != nil {
		return m.fetchRatesFunc(ctx)
	}
	return nil, nil
}

// --- Fixtures ---

var tableAsOf = time.Date(2025, 1, 23, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustOffer(t *testing.T, lt valueobject.LoanType, rate, apr string) model.RateOffer {
	t.Helper()
	o, err := model.NewRateOffer(lt, dec(rate), dec(apr), decimal.Zero, 0, "test-feed", tableAsOf)
	require.NoError(t, err)
	return o
}

func marketOffers(t *testing.T) []model.RateOffer {
	return []model.RateOffer{
		mustOffer(t, valueobject.LoanType30YrFixed, "6.0", "6.2"),
		mustOffer(t, valueobject.LoanType15YrFixed, "5.5", "5.7"),
		mustOffer(t, valueobject.LoanTypeFHA30Yr, "5.75", "6.5"),
		mustOffer(t, valueobject.LoanTypeVA30Yr, "5.625", "5.9"),
	}
}

func loadedStore(t *testing.T) *mockRateTableStore {
	t.Helper()
	table, err := model.NewRateTable(marketOffers(t), tableAsOf)
	require.NoError(t, err)
	return &mockRateTableStore{table: table}
}

// scenarioA is a 500k 30-year fixed loan at score 680 and LTV 85.
func scenarioA() dto.ScenarioRequest {
	return dto.ScenarioRequest{
		LoanAmount:  dec("500000"),
		CreditScore: 680,
		LTV:         dec("85"),
		LoanType:    "30yr_fixed",
	}
}
