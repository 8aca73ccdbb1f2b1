package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/domain/port"
	"github.com/bibbank/mortgage-pricing/internal/domain/service"
)

// IngestRateOffersUseCase normalizes a batch of raw observations, stores the
// valid ones and rebuilds the snapshot.
type IngestRateOffersUseCase struct {
	normalizer *service.RateNormalizer
	repo       port.RateOfferRepository
	refresh    *RefreshRateTableUseCase
	logger     *slog.Logger
}

// NewIngestRateOffersUseCase wires dependencies.
func NewIngestRateOffersUseCase(
	normalizer *service.RateNormalizer,
	repo port.RateOfferRepository,
	refresh *RefreshRateTableUseCase,
	logger *slog.Logger,
) *IngestRateOffersUseCase {
	return &IngestRateOffersUseCase{
		normalizer: normalizer,
		repo:       repo,
		refresh:    refresh,
		logger:     logger,
	}
}

// Execute ingests req.Records. Rejected records are reported, not fatal; a
// batch with nothing valid leaves storage and the snapshot untouched.
func (uc *IngestRateOffersUseCase) Execute(ctx context.Context, req dto.IngestRatesRequest) (dto.IngestRatesResponse, error) {
	ctx, span := tracer.Start(ctx, "IngestRateOffers")
	defer span.End()

	// 1. Normalize.
	offers, rejected := uc.normalizer.Normalize(req.Records)

	resp := dto.IngestRatesResponse{
		Accepted: len(offers),
		Rejected: make([]dto.RejectedRecordResponse, 0, len(rejected)),
	}
	for _, r := range rejected {
		uc.logger.WarnContext(ctx, "rejected rate record",
			"index", r.Index, "product", r.Product, "error", r.Err)
		resp.Rejected = append(resp.Rejected, dto.RejectedRecordResponse{
			Index:   r.Index,
			Product: r.Product,
			Reason:  r.Err.Error(),
		})
	}
	if len(offers) == 0 {
		return resp, nil
	}

	// 2. Persist.
	if err := uc.repo.SaveOffers(ctx, offers); err != nil {
		return dto.IngestRatesResponse{}, fmt.Errorf("save offers: %w", err)
	}

	// 3. Rebuild the snapshot.
	refreshed, err := uc.refresh.Execute(ctx)
	if err != nil {
		return dto.IngestRatesResponse{}, fmt.Errorf("refresh rate table: %w", err)
	}
	resp.RateTableID = refreshed.RateTableID

	return resp, nil
}
