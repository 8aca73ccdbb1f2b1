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
	"github.com/bibbank/mortgage-pricing/internal/domain/service"
)

// GetQuoteUseCase prices a borrower scenario against the current snapshot.
type GetQuoteUseCase struct {
	store     port.RateTableStore
	engine    *service.QuoteEngine
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewGetQuoteUseCase wires dependencies.
func NewGetQuoteUseCase(
	store port.RateTableStore,
	engine *service.QuoteEngine,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *GetQuoteUseCase {
	return &GetQuoteUseCase{
		store:     store,
		engine:    engine,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute computes the quote and, on request, its amortization schedule.
func (uc *GetQuoteUseCase) Execute(ctx context.Context, req dto.GetQuoteRequest) (dto.QuoteResponse, error) {
	ctx, span := tracer.Start(ctx, "GetQuote")
	defer span.End()

	// 1. Resolve the scenario.
	scenario, err := req.ToScenario()
	if err != nil {
		return dto.QuoteResponse{}, fmt.Errorf("parse scenario: %w", err)
	}

	// 2. Pin the snapshot.
	table, err := currentTable(uc.store)
	if err != nil {
		return dto.QuoteResponse{}, err
	}

	// 3. Price.
	quote, err := uc.engine.ComputeQuote(scenario, table)
	if err != nil {
		return dto.QuoteResponse{}, fmt.Errorf("compute quote: %w", err)
	}

	resp := dto.QuoteResponse{
		SnapshotRef: dto.NewSnapshotRef(table),
		Quote:       quote,
	}
	if req.IncludeSchedule {
		start := req.ScheduleStart
		if start.IsZero() {
			start = time.Now().UTC()
		}
		resp.Schedule = model.GenerateAmortizationSchedule(quote.Scenario.LoanAmount, quote.FinalRate, quote.TermMonths, start)
	}

	// 4. Publish, best effort.
	evt := event.NewQuoteComputed(
		table.ID().String(), quote.Scenario.LoanType.String(),
		quote.Scenario.LoanAmount, quote.Scenario.CreditScore, quote.Scenario.LTV,
		quote.FinalRate, quote.MonthlyPayment, quote.IsEligible,
	)
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish quote event", "error", err)
	}

	return resp, nil
}
