package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/domain/event"
	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/port"
	"github.com/bibbank/mortgage-pricing/internal/domain/service"
)

// OptimizeScenarioUseCase searches cost-reducing variations of a scenario.
// Results are cached per snapshot, so a refresh invalidates them implicitly.
type OptimizeScenarioUseCase struct {
	store     port.RateTableStore
	optimizer *service.Optimizer
	cache     port.ResultCache
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewOptimizeScenarioUseCase wires dependencies. cache may be nil.
func NewOptimizeScenarioUseCase(
	store port.RateTableStore,
	optimizer *service.Optimizer,
	cache port.ResultCache,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *OptimizeScenarioUseCase {
	return &OptimizeScenarioUseCase{
		store:     store,
		optimizer: optimizer,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute optimizes the scenario against the current snapshot.
func (uc *OptimizeScenarioUseCase) Execute(ctx context.Context, req dto.OptimizeScenarioRequest) (dto.OptimizationResponse, error) {
	ctx, span := tracer.Start(ctx, "OptimizeScenario")
	defer span.End()

	scenario, err := req.ToScenario()
	if err != nil {
		return dto.OptimizationResponse{}, fmt.Errorf("parse scenario: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return dto.OptimizationResponse{}, fmt.Errorf("validate scenario: %w", err)
	}

	table, err := currentTable(uc.store)
	if err != nil {
		return dto.OptimizationResponse{}, err
	}
	ref := dto.NewSnapshotRef(table)
	key := optimizationCacheKey(table, scenario)

	if result, ok := uc.cached(ctx, key); ok {
		return dto.OptimizationResponse{SnapshotRef: ref, Result: result, Cached: true}, nil
	}

	result, err := uc.optimizer.Optimize(scenario, table)
	if err != nil {
		return dto.OptimizationResponse{}, fmt.Errorf("optimize scenario: %w", err)
	}

	uc.remember(ctx, key, result)

	bestDimension, bestSavings := "", decimal.Zero
	if result.BestOption != nil {
		bestDimension = result.BestOption.Dimension.String()
		bestSavings = result.BestOption.MonthlySavings
	}
	evt := event.NewOptimizationCompleted(
		table.ID().String(), scenario.LoanType.String(), result.OptionCount(),
		bestDimension, bestSavings, result.TotalPotentialSavings,
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish optimization event", "error", err)
	}

	return dto.OptimizationResponse{SnapshotRef: ref, Result: result}, nil
}

func (uc *OptimizeScenarioUseCase) cached(ctx context.Context, key string) (model.OptimizationResult, bool) {
	if uc.cache == nil {
		return model.OptimizationResult{}, false
	}
	data, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.WarnContext(ctx, "optimization cache read failed", "key", key, "error", err)
		return model.OptimizationResult{}, false
	}
	if !ok {
		return model.OptimizationResult{}, false
	}

	var result model.OptimizationResult
	if err := json.Unmarshal(data, &result); err != nil {
		uc.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key, "error", err)
		return model.OptimizationResult{}, false
	}
	return result, true
}

func (uc *OptimizeScenarioUseCase) remember(ctx context.Context, key string, result model.OptimizationResult) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		uc.logger.WarnContext(ctx, "failed to encode optimization result", "error", err)
		return
	}
	if err := uc.cache.Set(ctx, key, data); err != nil {
		uc.logger.WarnContext(ctx, "optimization cache write failed", "key", key, "error", err)
	}
}

func optimizationCacheKey(table *model.RateTable, s model.BorrowerScenario) string {
	return fmt.Sprintf("pricing:optimize:%s:%s:%s:%d:%s",
		table.ID(), s.LoanType, s.LoanAmount.String(), s.CreditScore, s.LTV.String())
}
