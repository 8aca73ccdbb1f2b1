package usecase

import (
	"errors"

	"go.opentelemetry.io/otel"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/port"
)

var (
	// ErrRateTableUnavailable is returned while no rate snapshot has been published.
	ErrRateTableUnavailable = errors.New("rate table unavailable")
	// ErrNoRateOffers is returned when a refresh finds nothing to publish.
	ErrNoRateOffers = errors.New("no rate offers to publish")
)

var tracer = otel.Tracer("github.com/bibbank/mortgage-pricing/internal/application/usecase")

// currentTable loads the snapshot once; callers use the returned table for
// the whole request so every computation sees the same rates.
func currentTable(store port.RateTableStore) (*model.RateTable, error) {
	table := store.Current()
	if table == nil {
		return nil, ErrRateTableUnavailable
	}
	return table, nil
}
