package port

import (
	"context"
	"time"

	"github.com/bibbank/mortgage-pricing/internal/domain/event"
	"github.com/bibbank/mortgage-pricing/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// RateOfferRepository persists rate observations.
type RateOfferRepository interface {
	SaveOffers(ctx context.Context, offers []model.RateOffer) error
	// FetchOffers returns the latest observation per (loan type, source).
	FetchOffers(ctx context.Context) ([]model.RateOffer, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ---------------------------------------------------------------------------
// Snapshot port
// ---------------------------------------------------------------------------

// RateTableStore holds the current rate snapshot. Current returns nil until
// the first Publish; Publish replaces the snapshot atomically.
type RateTableStore interface {
	Current() *model.RateTable
	Publish(table *model.RateTable)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// RateSource supplies raw rate observations, e.g. a seed file or a partner feed.
type RateSource interface {
	FetchRates(ctx context.Context) ([]model.RawRateRecord, error)
}

// ResultCache stores serialized results by key. A miss is (nil, false, nil).
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
