package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/domain/port"
	"github.com/bibbank/mortgage-pricing/internal/domain/service"
)

// CompareQuotesUseCase quotes a scenario under every loan type on offer.
type CompareQuotesUseCase struct {
	store  port.RateTableStore
	engine *service.QuoteEngine
}

// NewCompareQuotesUseCase wires dependencies.
func NewCompareQuotesUseCase(store port.RateTableStore, engine *service.QuoteEngine) *CompareQuotesUseCase {
	return &CompareQuotesUseCase{store: store, engine: engine}
}

// Execute returns the quotes cheapest first.
func (uc *CompareQuotesUseCase) Execute(ctx context.Context, req dto.CompareQuotesRequest) (dto.CompareQuotesResponse, error) {
	_, span := tracer.Start(ctx, "CompareQuotes")
	defer span.End()

	req.LoanType = ""
	scenario, err := req.ToScenario()
	if err != nil {
		return dto.CompareQuotesResponse{}, fmt.Errorf("parse scenario: %w", err)
	}

	table, err := currentTable(uc.store)
	if err != nil {
		return dto.CompareQuotesResponse{}, err
	}

	quotes, err := uc.engine.CompareQuotes(scenario, table)
	if err != nil {
		return dto.CompareQuotesResponse{}, fmt.Errorf("compare quotes: %w", err)
	}

	return dto.CompareQuotesResponse{
		SnapshotRef: dto.NewSnapshotRef(table),
		Quotes:      quotes,
	}, nil
}
