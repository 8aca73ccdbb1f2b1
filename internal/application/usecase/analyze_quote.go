package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/port"
	"github.com/bibbank/mortgage-pricing/internal/domain/service"
)

// AnalyzeQuoteUseCase explains a quote and attaches its top suggestions.
type AnalyzeQuoteUseCase struct {
	store     port.RateTableStore
	optimizer *service.Optimizer
	analyzer  *service.Analyzer
}

// NewAnalyzeQuoteUseCase wires dependencies.
func NewAnalyzeQuoteUseCase(
	store port.RateTableStore,
	optimizer *service.Optimizer,
	analyzer *service.Analyzer,
) *AnalyzeQuoteUseCase {
	return &AnalyzeQuoteUseCase{
		store:     store,
		optimizer: optimizer,
		analyzer:  analyzer,
	}
}

// Execute optimizes the scenario and analyzes its baseline quote against the
// same snapshot, with market context for the quoted loan type.
func (uc *AnalyzeQuoteUseCase) Execute(ctx context.Context, req dto.AnalyzeQuoteRequest) (dto.AnalysisResponse, error) {
	_, span := tracer.Start(ctx, "AnalyzeQuote")
	defer span.End()

	scenario, err := req.ToScenario()
	if err != nil {
		return dto.AnalysisResponse{}, fmt.Errorf("parse scenario: %w", err)
	}

	table, err := currentTable(uc.store)
	if err != nil {
		return dto.AnalysisResponse{}, err
	}

	result, err := uc.optimizer.Optimize(scenario, table)
	if err != nil {
		return dto.AnalysisResponse{}, fmt.Errorf("optimize scenario: %w", err)
	}

	var market *model.RateSummary
	if summary, ok := service.SummaryFor(table, scenario.LoanType); ok {
		market = &summary
	}
	analysis := uc.analyzer.AnalyzeWithMarket(result.BaselineQuote, result, market)

	return dto.AnalysisResponse{
		SnapshotRef: dto.NewSnapshotRef(table),
		Quote:       result.BaselineQuote,
		Analysis:    analysis,
	}, nil
}
