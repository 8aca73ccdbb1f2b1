package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/domain/port"
)

// DefaultRetention is how long rate observations are kept.
const DefaultRetention = 30 * 24 * time.Hour

// PurgeRateHistoryUseCase deletes observations past the retention window.
type PurgeRateHistoryUseCase struct {
	repo      port.RateOfferRepository
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewPurgeRateHistoryUseCase wires dependencies. A non-positive retention
// falls back to DefaultRetention.
func NewPurgeRateHistoryUseCase(repo port.RateOfferRepository, retention time.Duration, logger *slog.Logger) *PurgeRateHistoryUseCase {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &PurgeRateHistoryUseCase{
		repo:      repo,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute removes rows observed before now minus the retention window.
func (uc *PurgeRateHistoryUseCase) Execute(ctx context.Context) (dto.PurgeResponse, error) {
	ctx, span := tracer.Start(ctx, "PurgeRateHistory")
	defer span.End()

	cutoff := uc.now().UTC().Add(-uc.retention)
	deleted, err := uc.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return dto.PurgeResponse{}, fmt.Errorf("purge rate history: %w", err)
	}

	uc.logger.InfoContext(ctx, "purged rate history", "deleted", deleted, "cutoff", cutoff)
	return dto.PurgeResponse{Deleted: deleted, Cutoff: cutoff}, nil
}
