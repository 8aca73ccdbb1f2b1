package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/application/usecase"
	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

var readRoles = []string{auth.RolePricingRead, auth.RoleAdmin}

// Compile-time assertion that Handler implements PricingServiceServer.
var _ PricingServiceServer = (*Handler)(nil)

// Handler implements the PricingServiceServer gRPC interface.
type Handler struct {
	UnimplementedPricingServiceServer
	getQuote  *usecase.GetQuoteUseCase
	optimize  *usecase.OptimizeScenarioUseCase
	analyze   *usecase.AnalyzeQuoteUseCase
	compare   *usecase.CompareQuotesUseCase
	rateTable *usecase.GetRateTableUseCase
	logger    *slog.Logger
}

// NewHandler creates a new gRPC Handler.
func NewHandler(
	getQuote *usecase.GetQuoteUseCase,
	optimize *usecase.OptimizeScenarioUseCase,
	analyze *usecase.AnalyzeQuoteUseCase,
	compare *usecase.CompareQuotesUseCase,
	rateTable *usecase.GetRateTableUseCase,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		getQuote:  getQuote,
		optimize:  optimize,
		analyze:   analyze,
		compare:   compare,
		rateTable: rateTable,
		logger:    logger,
	}
}

// GetQuote prices a scenario.
func (h *Handler) GetQuote(ctx context.Context, req *GetQuoteRequest) (*GetQuoteResponse, error) {
	if err := requireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	scenario, err := parseScenario(req.Scenario, true)
	if err != nil {
		return nil, err
	}

	dtoReq := dto.GetQuoteRequest{ScenarioRequest: scenario, IncludeSchedule: req.IncludeSchedule}
	if req.ScheduleStart != nil {
		if err := req.ScheduleStart.CheckValid(); err != nil {
			return nil, status.Error(codes.InvalidArgument, "schedule_start is not a valid timestamp")
		}
		dtoReq.ScheduleStart = req.ScheduleStart.AsTime().UTC()
	}

	resp, err := h.getQuote.Execute(ctx, dtoReq)
	if err != nil {
		return nil, h.toStatus(ctx, "GetQuote", err)
	}
	return &GetQuoteResponse{QuoteResponse: resp}, nil
}

// OptimizeScenario returns cost-reducing variations of a scenario.
func (h *Handler) OptimizeScenario(ctx context.Context, req *OptimizeScenarioRequest) (*OptimizeScenarioResponse, error) {
	if err := requireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	scenario, err := parseScenario(req.Scenario, true)
	if err != nil {
		return nil, err
	}

	resp, err := h.optimize.Execute(ctx, dto.OptimizeScenarioRequest{ScenarioRequest: scenario})
	if err != nil {
		return nil, h.toStatus(ctx, "OptimizeScenario", err)
	}
	return &OptimizeScenarioResponse{OptimizationResponse: resp}, nil
}

// AnalyzeQuote explains a quote.
func (h *Handler) AnalyzeQuote(ctx context.Context, req *AnalyzeQuoteRequest) (*AnalyzeQuoteResponse, error) {
	if err := requireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	scenario, err := parseScenario(req.Scenario, true)
	if err != nil {
		return nil, err
	}

	resp, err := h.analyze.Execute(ctx, dto.AnalyzeQuoteRequest{ScenarioRequest: scenario})
	if err != nil {
		return nil, h.toStatus(ctx, "AnalyzeQuote", err)
	}
	return &AnalyzeQuoteResponse{AnalysisResponse: resp}, nil
}

// CompareQuotes quotes a scenario under every loan type on offer.
func (h *Handler) CompareQuotes(ctx context.Context, req *CompareQuotesRequest) (*CompareQuotesResponse, error) {
	if err := requireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	scenario, err := parseScenario(req.Scenario, false)
	if err != nil {
		return nil, err
	}

	resp, err := h.compare.Execute(ctx, dto.CompareQuotesRequest{ScenarioRequest: scenario})
	if err != nil {
		return nil, h.toStatus(ctx, "CompareQuotes", err)
	}
	return &CompareQuotesResponse{CompareQuotesResponse: resp}, nil
}

// GetRateTable lists the current offers and statistics.
func (h *Handler) GetRateTable(ctx context.Context, req *GetRateTableRequest) (*GetRateTableResponse, error) {
	if err := requireRole(ctx, readRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		req = &GetRateTableRequest{}
	}

	resp, err := h.rateTable.Execute(ctx, dto.GetRateTableRequest{LoanType: req.LoanType})
	if err != nil {
		return nil, h.toStatus(ctx, "GetRateTable", err)
	}
	return &GetRateTableResponse{RateTableResponse: resp}, nil
}

func parseScenario(msg *ScenarioMsg, needLoanType bool) (dto.ScenarioRequest, error) {
	if msg == nil {
		return dto.ScenarioRequest{}, status.Error(codes.InvalidArgument, "scenario is required")
	}
	amount, err := decimal.NewFromString(msg.LoanAmount)
	if err != nil {
		return dto.ScenarioRequest{}, status.Errorf(codes.InvalidArgument, "invalid loan_amount: %v", err)
	}
	ltv, err := decimal.NewFromString(msg.LTV)
	if err != nil {
		return dto.ScenarioRequest{}, status.Errorf(codes.InvalidArgument, "invalid ltv: %v", err)
	}
	if needLoanType && msg.LoanType == "" {
		return dto.ScenarioRequest{}, status.Error(codes.InvalidArgument, "loan_type is required")
	}
	return dto.ScenarioRequest{
		LoanAmount:  amount,
		CreditScore: int(msg.CreditScore),
		LTV:         ltv,
		LoanType:    msg.LoanType,
	}, nil
}

// toStatus maps application errors onto gRPC codes. Unexpected errors are
// logged and hidden from the caller.
func (h *Handler) toStatus(ctx context.Context, method string, err error) error {
	code := codeFor(err)
	if code == codes.Internal {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, method+" failed")
		h.logger.ErrorContext(ctx, method+" failed", "error", err, "trace_id", span.SpanContext().TraceID().String())
		return status.Error(codes.Internal, "internal error")
	}
	h.logger.InfoContext(ctx, method+" rejected", "code", code.String(), "error", err)
	return status.Error(code, err.Error())
}

func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, model.ErrInvalidScenario):
		return codes.InvalidArgument
	case errors.Is(err, model.ErrLoanTypeNotFound):
		return codes.NotFound
	case errors.Is(err, model.ErrComputation):
		return codes.FailedPrecondition
	case errors.Is(err, usecase.ErrRateTableUnavailable):
		return codes.Unavailable
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}
