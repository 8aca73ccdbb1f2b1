package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
	pkgkafka "github.com/bibbank/mortgage-pricing/pkg/kafka"
)

// RateIngester is satisfied by *usecase.IngestRateOffersUseCase.
type RateIngester interface {
	Execute(ctx context.Context, req dto.IngestRatesRequest) (dto.IngestRatesResponse, error)
}

// RateFeedHandler turns raw-rate feed messages into ingestion batches.
type RateFeedHandler struct {
	ingest RateIngester
	logger *slog.Logger
}

// NewRateFeedHandler creates the handler.
func NewRateFeedHandler(ingest RateIngester, logger *slog.Logger) *RateFeedHandler {
	return &RateFeedHandler{ingest: ingest, logger: logger}
}

// Handle is a pkgkafka.Handler. Malformed payloads are logged and committed
// so they cannot block the partition; ingestion failures are retried.
func (h *RateFeedHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var req dto.IngestRatesRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		h.logger.WarnContext(ctx, "dropping malformed rate feed message",
			"key", string(msg.Key),
			"error", err,
		)
		return nil
	}
	if len(req.Records) == 0 {
		return nil
	}

	resp, err := h.ingest.Execute(ctx, req)
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "rate feed batch ingested",
		"source", msg.Headers["source"],
		"accepted", resp.Accepted,
		"rejected", len(resp.Rejected),
		"rate_table_id", resp.RateTableID,
	)
	return nil
}
