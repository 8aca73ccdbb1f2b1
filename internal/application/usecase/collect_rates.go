package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/domain/port"
)

// CollectRatesUseCase pulls a batch from a rate source and ingests it.
type CollectRatesUseCase struct {
	source port.RateSource
	ingest *IngestRateOffersUseCase
}

// NewCollectRatesUseCase wires dependencies.
func NewCollectRatesUseCase(source port.RateSource, ingest *IngestRateOffersUseCase) *CollectRatesUseCase {
	return &CollectRatesUseCase{source: source, ingest: ingest}
}

// Execute runs one collection.
func (uc *CollectRatesUseCase) Execute(ctx context.Context) (dto.IngestRatesResponse, error) {
	ctx, span := tracer.Start(ctx, "CollectRates")
	defer span.End()

	records, err := uc.source.FetchRates(ctx)
	if err != nil {
		return dto.IngestRatesResponse{}, fmt.Errorf("fetch rates: %w", err)
	}
	return uc.ingest.Execute(ctx, dto.IngestRatesRequest{Records: records})
}
