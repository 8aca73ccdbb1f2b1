package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ScenarioRequest carries a borrower scenario as supplied by a client.
type ScenarioRequest struct {
	LoanAmount  decimal.Decimal `json:"loan_amount"`
	CreditScore int             `json:"credit_score"`
	LTV         decimal.Decimal `json:"ltv"`
	LoanType    string          `json:"loan_type"`
}

// ToScenario resolves the loan type name. Unknown names are reported as a
// validation failure of the loan_type field; range checks are left to the
// quote engine.
func (r ScenarioRequest) ToScenario() (model.BorrowerScenario, error) {
	s := model.BorrowerScenario{
		LoanAmount:  r.LoanAmount,
		CreditScore: r.CreditScore,
		LTV:         r.LTV,
	}
	if r.LoanType == "" {
		return s, nil
	}
	lt, err := valueobject.NewLoanType(r.LoanType)
	if err != nil {
		return model.BorrowerScenario{}, &model.ValidationError{Field: "loan_type", Reason: "unknown loan type " + r.LoanType}
	}
	s.LoanType = lt
	return s, nil
}

// GetQuoteRequest asks for a quote, optionally with its amortization schedule.
type GetQuoteRequest struct {
	ScenarioRequest
	IncludeSchedule bool      `json:"include_schedule"`
	ScheduleStart   time.Time `json:"schedule_start,omitempty"`
}

// OptimizeScenarioRequest asks for cost-reducing scenario variations.
type OptimizeScenarioRequest struct {
	ScenarioRequest
}

// AnalyzeQuoteRequest asks for an explainable breakdown of a quote.
type AnalyzeQuoteRequest struct {
	ScenarioRequest
}

// CompareQuotesRequest asks for quotes across every loan type on offer.
// LoanType is ignored.
type CompareQuotesRequest struct {
	ScenarioRequest
}

// GetRateTableRequest filters the rate table by loan type when set.
type GetRateTableRequest struct {
	LoanType string `json:"loan_type,omitempty"`
}

// IngestRatesRequest carries a batch of raw rate observations.
type IngestRatesRequest struct {
	Records []model.RawRateRecord `json:"records"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// SnapshotRef names the rate snapshot a response was computed against.
type SnapshotRef struct {
	RateTableID string    `json:"rate_table_id"`
	AsOf        time.Time `json:"as_of"`
}

// NewSnapshotRef describes table.
func NewSnapshotRef(table *model.RateTable) SnapshotRef {
	return SnapshotRef{RateTableID: table.ID().String(), AsOf: table.AsOf()}
}

// QuoteResponse is the external representation of a quote.
type QuoteResponse struct {
	SnapshotRef
	Quote    model.Quote               `json:"quote"`
	Schedule []model.AmortizationEntry `json:"schedule,omitempty"`
}

// OptimizationResponse is the external representation of an optimization.
type OptimizationResponse struct {
	SnapshotRef
	Result model.OptimizationResult `json:"result"`
	Cached bool                     `json:"cached"`
}

// AnalysisResponse pairs a quote with its analysis.
type AnalysisResponse struct {
	SnapshotRef
	Quote    model.Quote         `json:"quote"`
	Analysis model.QuoteAnalysis `json:"analysis"`
}

// CompareQuotesResponse lists quotes cheapest first.
type CompareQuotesResponse struct {
	SnapshotRef
	Quotes []model.Quote `json:"quotes"`
}

// RateOfferResponse is the external representation of a rate offer.
type RateOfferResponse struct {
	LoanType       string          `json:"loan_type"`
	BaseRate       decimal.Decimal `json:"base_rate"`
	BaseAPR        decimal.Decimal `json:"base_apr"`
	Fees           decimal.Decimal `json:"fees"`
	LockPeriodDays int             `json:"lock_period_days"`
	Source         string          `json:"source"`
	AsOf           time.Time       `json:"as_of"`
}

// RateTableResponse lists the offers of the current snapshot with statistics.
type RateTableResponse struct {
	SnapshotRef
	Offers    []RateOfferResponse `json:"offers"`
	Summaries []model.RateSummary `json:"summaries"`
}

// RejectedRecordResponse explains a dropped raw record.
type RejectedRecordResponse struct {
	Index   int    `json:"index"`
	Product string `json:"product"`
	Reason  string `json:"reason"`
}

// IngestRatesResponse reports the outcome of an ingestion batch.
type IngestRatesResponse struct {
	Accepted    int                      `json:"accepted"`
	Rejected    []RejectedRecordResponse `json:"rejected"`
	RateTableID string                   `json:"rate_table_id,omitempty"`
}

// RefreshResponse describes a newly published snapshot.
type RefreshResponse struct {
	SnapshotRef
	OfferCount int `json:"offer_count"`
}

// PurgeResponse reports a retention purge.
type PurgeResponse struct {
	Deleted int64     `json:"deleted"`
	Cutoff  time.Time `json:"cutoff"`
}

// ToRateOfferResponse maps a domain offer to its external representation.
func ToRateOfferResponse(o model.RateOffer) RateOfferResponse {
	return RateOfferResponse{
		LoanType:       o.LoanType().String(),
		BaseRate:       o.BaseRate(),
		BaseAPR:        o.BaseAPR(),
		Fees:           o.Fees(),
		LockPeriodDays: o.LockPeriodDays(),
		Source:         o.Source(),
		AsOf:           o.AsOf(),
	}
}
