package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/domain/event"
	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/port"
)

// RefreshRateTableUseCase rebuilds the snapshot from persisted offers.
type RefreshRateTableUseCase struct {
	repo      port.RateOfferRepository
	store     port.RateTableStore
	publisher port.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewRefreshRateTableUseCase wires dependencies.
func NewRefreshRateTableUseCase(
	repo port.RateOfferRepository,
	store port.RateTableStore,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *RefreshRateTableUseCase {
	return &RefreshRateTableUseCase{
		repo:      repo,
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute builds a new table from the latest offer per (loan type, source)
// and swaps it in. The previous snapshot stays current on any failure.
func (uc *RefreshRateTableUseCase) Execute(ctx context.Context) (dto.RefreshResponse, error) {
	ctx, span := tracer.Start(ctx, "RefreshRateTable")
	defer span.End()

	// 1. Load the latest observations.
	offers, err := uc.repo.FetchOffers(ctx)
	if err != nil {
		return dto.RefreshResponse{}, fmt.Errorf("fetch offers: %w", err)
	}
	if len(offers) == 0 {
		return dto.RefreshResponse{}, ErrNoRateOffers
	}

	// 2. Build and publish the snapshot.
	table, err := model.NewRateTable(offers, uc.now())
	if err != nil {
		return dto.RefreshResponse{}, fmt.Errorf("build rate table: %w", err)
	}
	uc.store.Publish(table)

	uc.logger.InfoContext(ctx, "rate table refreshed",
		"rate_table_id", table.ID().String(),
		"offers", table.Len(),
		"loan_types", len(table.LoanTypes()),
	)

	// 3. Announce, best effort.
	loanTypes := make([]string, 0, len(table.LoanTypes()))
	for _, lt := range table.LoanTypes() {
		loanTypes = append(loanTypes, lt.String())
	}
	evt := event.NewRateTableRefreshed(table.ID().String(), table.AsOf(), table.Len(), loanTypes)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish rate table event", "error", err)
	}

	return dto.RefreshResponse{
		SnapshotRef: dto.NewSnapshotRef(table),
		OfferCount:  table.Len(),
	}, nil
}
