package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	"github.com/bibbank/mortgage-pricing/internal/application/usecase"
	"github.com/bibbank/mortgage-pricing/internal/domain/model"
)

const maxBodyBytes = 1 << 20

// PricingHandler exposes the pricing use cases as JSON over HTTP.
type PricingHandler struct {
	getQuote  *usecase.GetQuoteUseCase
	optimize  *usecase.OptimizeScenarioUseCase
	analyze   *usecase.AnalyzeQuoteUseCase
	compare   *usecase.CompareQuotesUseCase
	rateTable *usecase.GetRateTableUseCase
	logger    *slog.Logger
}

// NewPricingHandler creates the handler.
func NewPricingHandler(
	getQuote *usecase.GetQuoteUseCase,
	optimize *usecase.OptimizeScenarioUseCase,
	analyze *usecase.AnalyzeQuoteUseCase,
	compare *usecase.CompareQuotesUseCase,
	rateTable *usecase.GetRateTableUseCase,
	logger *slog.Logger,
) *PricingHandler {
	return &PricingHandler{
		getQuote:  getQuote,
		optimize:  optimize,
		analyze:   analyze,
		compare:   compare,
		rateTable: rateTable,
		logger:    logger,
	}
}

// RegisterRoutes attaches the pricing routes, each wrapped by mw.
func (h *PricingHandler) RegisterRoutes(mux *http.ServeMux, mw func(http.Handler) http.Handler) {
	if mw == nil {
		mw = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("POST /v1/quotes", mw(http.HandlerFunc(h.quote)))
	mux.Handle("POST /v1/quotes/compare", mw(http.HandlerFunc(h.compareQuotes)))
	mux.Handle("POST /v1/optimizations", mw(http.HandlerFunc(h.optimization)))
	mux.Handle("POST /v1/analyses", mw(http.HandlerFunc(h.analysis)))
	mux.Handle("GET /v1/rates", mw(http.HandlerFunc(h.rates)))
}

func (h *PricingHandler) quote(w http.ResponseWriter, r *http.Request) {
	var req dto.GetQuoteRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.getQuote.Execute(r.Context(), req)
	h.respond(r.Context(), w, "quote", resp, err)
}

func (h *PricingHandler) compareQuotes(w http.ResponseWriter, r *http.Request) {
	var req dto.CompareQuotesRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.compare.Execute(r.Context(), req)
	h.respond(r.Context(), w, "compare quotes", resp, err)
}

func (h *PricingHandler) optimization(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeScenarioRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.optimize.Execute(r.Context(), req)
	h.respond(r.Context(), w, "optimize", resp, err)
}

func (h *PricingHandler) analysis(w http.ResponseWriter, r *http.Request) {
	var req dto.AnalyzeQuoteRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.analyze.Execute(r.Context(), req)
	h.respond(r.Context(), w, "analyze", resp, err)
}

func (h *PricingHandler) rates(w http.ResponseWriter, r *http.Request) {
	resp, err := h.rateTable.Execute(r.Context(), dto.GetRateTableRequest{LoanType: r.URL.Query().Get("loan_type")})
	h.respond(r.Context(), w, "rate table", resp, err)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}

func (h *PricingHandler) respond(ctx context.Context, w http.ResponseWriter, op string, resp any, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, op+" failed", "error", err)
		writeError(w, code, "internal error")
		return
	}
	writeError(w, code, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidScenario):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrLoanTypeNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrComputation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrRateTableUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
