package service

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// SummarizeRates describes the spread of offers per loan type, in catalog
// order. Min and max are exact; mean and standard deviation are rounded to
// four places. A single offer has zero deviation.
func SummarizeRates(table *model.RateTable) []model.RateSummary {
	types := table.LoanTypes()
	out := make([]model.RateSummary, 0, len(types))
	for _, lt := range types {
		out = append(out, summarize(lt, table.Offers(lt)))
	}
	return out
}

// SummaryFor returns the summary of one loan type.
func SummaryFor(table *model.RateTable, lt valueobject.LoanType) (model.RateSummary, bool) {
	offers := table.Offers(lt)
	if len(offers) == 0 {
		return model.RateSummary{}, false
	}
	return summarize(lt, offers), true
}

func summarize(lt valueobject.LoanType, offers []model.RateOffer) model.RateSummary {
	rates := make([]float64, len(offers))
	aprs := make([]float64, len(offers))
	summary := model.RateSummary{
		LoanType: lt.String(),
		Count:    len(offers),
		MinRate:  offers[0].BaseRate(),
		MaxRate:  offers[0].BaseRate(),
		MinAPR:   offers[0].BaseAPR(),
		MaxAPR:   offers[0].BaseAPR(),
	}

	for i, o := range offers {
		rates[i] = o.BaseRate().InexactFloat64()
		aprs[i] = o.BaseAPR().InexactFloat64()
		summary.MinRate = decimal.Min(summary.MinRate, o.BaseRate())
		summary.MaxRate = decimal.Max(summary.MaxRate, o.BaseRate())
		summary.MinAPR = decimal.Min(summary.MinAPR, o.BaseAPR())
		summary.MaxAPR = decimal.Max(summary.MaxAPR, o.BaseAPR())
	}

	summary.MeanRate = decimal.NewFromFloat(stat.Mean(rates, nil)).Round(4)
	summary.MeanAPR = decimal.NewFromFloat(stat.Mean(aprs, nil)).Round(4)
	summary.StdDevRate = decimal.Zero
	if len(rates) > 1 && floats.Max(rates) != floats.Min(rates) {
		summary.StdDevRate = decimal.NewFromFloat(stat.StdDev(rates, nil)).Round(4)
	}
	return summary
}
