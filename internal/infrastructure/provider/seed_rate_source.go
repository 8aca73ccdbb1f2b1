package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
)

// SampleSource labels the built-in market.
const SampleSource = "sample-market"

// SeedRateSource implements port.RateSource from a JSON seed file, or from a
// built-in sample market when no file is configured. Records are re-read on
// every fetch so an edited file takes effect on the next refresh.
type SeedRateSource struct {
	path string
	now  func() time.Time
}

// NewSeedRateSource creates a source reading path. An empty path selects the
// sample market.
func NewSeedRateSource(path string) *SeedRateSource {
	return &SeedRateSource{path: path, now: time.Now}
}

type seedFile struct {
	Records []model.RawRateRecord `json:"records"`
}

// FetchRates returns the seed records. Undated records are stamped with the
// fetch time.
func (s *SeedRateSource) FetchRates(ctx context.Context) ([]model.RawRateRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []model.RawRateRecord
	if s.path == "" {
		records = sampleMarket()
	} else {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		var f seedFile
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode seed file %s: %w", s.path, err)
		}
		records = f.Records
	}

	now := s.now().UTC()
	for i := range records {
		if records[i].ObservedAt.IsZero() {
			records[i].ObservedAt = now
		}
	}
	return records, nil
}

func sampleMarket() []model.RawRateRecord {
	rec := func(product, rate, apr, fees string) model.RawRateRecord {
		return model.RawRateRecord{
			Product: product,
			Rate:    decimal.RequireFromString(rate),
			APR:     decimal.RequireFromString(apr),
			Fees:    decimal.RequireFromString(fees),
			Source:  SampleSource,
		}
	}
	return []model.RawRateRecord{
		rec("30 Year Fixed", "6.000", "6.200", "2500"),
		rec("15 Year Fixed", "5.500", "5.700", "2000"),
		rec("FHA", "5.750", "6.500", "3200"),
		rec("VA", "5.625", "5.900", "2800"),
		rec("Jumbo", "6.375", "6.550", "4500"),
		rec("5/1 ARM", "5.875", "6.400", "2200"),
		rec("7/1 ARM", "6.000", "6.450", "2200"),
		rec("10/1 ARM", "6.125", "6.500", "2300"),
	}
}
