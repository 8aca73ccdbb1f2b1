package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// DefaultRateSource names offers whose feed did not state a source.
const DefaultRateSource = "market-feed"

var (
	minSaneRate = decimal.RequireFromString("0.1")
	maxSaneRate = decimal.NewFromInt(20)
)

// ErrRateOutOfRange marks a raw rate outside the plausible percentage range.
var ErrRateOutOfRange = errors.New("rate outside plausible range")

// RejectedRecord explains why a raw record was dropped.
type RejectedRecord struct {
	Index   int
	Product string
	Err     error
}

// RateNormalizer turns raw feed records into validated rate offers.
type RateNormalizer struct {
	now func() time.Time
}

// NewRateNormalizer returns a normalizer stamping undated records with now.
// A nil now uses time.Now.
func NewRateNormalizer(now func() time.Time) *RateNormalizer {
	if now == nil {
		now = time.Now
	}
	return &RateNormalizer{now: now}
}

// Normalize maps product labels to loan types, checks rates against the
// 0.1–20 percent range, rounds rates to three places and defaults the lock
// period and source. When a batch repeats a (loan type, source) pair the
// latest observation wins. Bad records are returned, not fatal.
func (n *RateNormalizer) Normalize(records []model.RawRateRecord) ([]model.RateOffer, []RejectedRecord) {
	var (
		offers   []model.RateOffer
		rejected []RejectedRecord
		index    = make(map[string]int)
	)

	for i, rec := range records {
		offer, err := n.normalize(rec)
		if err != nil {
			rejected = append(rejected, RejectedRecord{Index: i, Product: rec.Product, Err: err})
			continue
		}

		key := offer.LoanType().String() + "|" + offer.Source()
		if at, dup := index[key]; dup {
			if !offer.AsOf().Before(offers[at].AsOf()) {
				offers[at] = offer
			}
			continue
		}
		index[key] = len(offers)
		offers = append(offers, offer)
	}
	return offers, rejected
}

func (n *RateNormalizer) normalize(rec model.RawRateRecord) (model.RateOffer, error) {
	lt, err := valueobject.ParseLoanType(rec.Product)
	if err != nil {
		return model.RateOffer{}, err
	}
	if err := checkRate("rate", rec.Rate); err != nil {
		return model.RateOffer{}, err
	}
	if err := checkRate("apr", rec.APR); err != nil {
		return model.RateOffer{}, err
	}

	source := strings.TrimSpace(rec.Source)
	if source == "" {
		source = DefaultRateSource
	}
	observed := rec.ObservedAt
	if observed.IsZero() {
		observed = n.now()
	}

	return model.NewRateOffer(lt, rec.Rate.Round(3), rec.APR.Round(3), rec.Fees, rec.LockPeriodDays, source, observed)
}

func checkRate(field string, v decimal.Decimal) error {
	if v.LessThan(minSaneRate) || v.GreaterThan(maxSaneRate) {
		return fmt.Errorf("%w: %s %s", ErrRateOutOfRange, field, v)
	}
	return nil
}
