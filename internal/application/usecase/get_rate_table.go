package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/port"
	"github.com/bibbank/mortgage-pricing/internal/domain/service"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// GetRateTableUseCase exposes the current snapshot and its statistics.
type GetRateTableUseCase struct {
	store port.RateTableStore
}

// NewGetRateTableUseCase wires dependencies.
func NewGetRateTableUseCase(store port.RateTableStore) *GetRateTableUseCase {
	return &GetRateTableUseCase{store: store}
}

// Execute lists offers, optionally for a single loan type.
func (uc *GetRateTableUseCase) Execute(ctx context.Context, req dto.GetRateTableRequest) (dto.RateTableResponse, error) {
	_, span := tracer.Start(ctx, "GetRateTable")
	defer span.End()

	table, err := currentTable(uc.store)
	if err != nil {
		return dto.RateTableResponse{}, err
	}

	var (
		offers    []model.RateOffer
		summaries []model.RateSummary
	)
	if req.LoanType == "" {
		offers = table.AllOffers()
		summaries = service.SummarizeRates(table)
	} else {
		lt, err := valueobject.NewLoanType(req.LoanType)
		if err != nil {
			return dto.RateTableResponse{}, fmt.Errorf("parse loan type: %w",
				&model.ValidationError{Field: "loan_type", Reason: "unknown loan type " + req.LoanType})
		}
		summary, ok := service.SummaryFor(table, lt)
		if !ok {
			return dto.RateTableResponse{}, &model.NotFoundError{LoanType: lt.String()}
		}
		offers = table.Offers(lt)
		summaries = []model.RateSummary{summary}
	}

	resp := dto.RateTableResponse{
		SnapshotRef: dto.NewSnapshotRef(table),
		Offers:      make([]dto.RateOfferResponse, 0, len(offers)),
		Summaries:   summaries,
	}
	for _, o := range offers {
		resp.Offers = append(resp.Offers, dto.ToRateOfferResponse(o))
	}
	return resp, nil
}
