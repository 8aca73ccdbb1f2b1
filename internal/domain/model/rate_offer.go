package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// DefaultLockPeriodDays applies when a feed does not state a lock period.
const DefaultLockPeriodDays = 30

// RawRateRecord is a rate observation as delivered by a feed, before
// normalization.
type RawRateRecord struct {
	Product        string          `json:"product"`
	Rate           decimal.Decimal `json:"rate"`
	APR            decimal.Decimal `json:"apr"`
	Fees           decimal.Decimal `json:"fees"`
	LockPeriodDays int             `json:"lock_period_days,omitempty"`
	Source         string          `json:"source"`
	ObservedAt     time.Time       `json:"timestamp"`
}

// RateOffer is an immutable market quote for one loan type from one source.
type RateOffer struct {
	loanType       valueobject.LoanType
	baseRate       decimal.Decimal
	baseAPR        decimal.Decimal
	fees           decimal.Decimal
	lockPeriodDays int
	source         string
	asOf           time.Time
}

// NewRateOffer creates a RateOffer with validation.
func NewRateOffer(
	loanType valueobject.LoanType,
	baseRate, baseAPR, fees decimal.Decimal,
	lockPeriodDays int,
	source string,
	asOf time.Time,
) (RateOffer, error) {
	if loanType.IsZero() {
		return RateOffer{}, fmt.Errorf("%w: loan type is required", ErrInvalidRateOffer)
	}
	if baseRate.IsNegative() {
		return RateOffer{}, fmt.Errorf("%w: base rate must not be negative", ErrInvalidRateOffer)
	}
	if baseAPR.IsNegative() {
		return RateOffer{}, fmt.Errorf("%w: base APR must not be negative", ErrInvalidRateOffer)
	}
	if fees.IsNegative() {
		return RateOffer{}, fmt.Errorf("%w: fees must not be negative", ErrInvalidRateOffer)
	}
	if lockPeriodDays < 0 {
		return RateOffer{}, fmt.Errorf("%w: lock period must not be negative", ErrInvalidRateOffer)
	}
	if lockPeriodDays == 0 {
		lockPeriodDays = DefaultLockPeriodDays
	}
	if source == "" {
		return RateOffer{}, fmt.Errorf("%w: source is required", ErrInvalidRateOffer)
	}

	return RateOffer{
		loanType:       loanType,
		baseRate:       baseRate,
		baseAPR:        baseAPR,
		fees:           fees,
		lockPeriodDays: lockPeriodDays,
		source:         source,
		asOf:           asOf.UTC(),
	}, nil
}

// ReconstructRateOffer recreates a RateOffer from persistence without validation.
func ReconstructRateOffer(
	loanType valueobject.LoanType,
	baseRate, baseAPR, fees decimal.Decimal,
	lockPeriodDays int,
	source string,
	asOf time.Time,
) RateOffer {
	return RateOffer{
		loanType:       loanType,
		baseRate:       baseRate,
		baseAPR:        baseAPR,
		fees:           fees,
		lockPeriodDays: lockPeriodDays,
		source:         source,
		asOf:           asOf.UTC(),
	}
}

func (o RateOffer) LoanType() valueobject.LoanType { return o.loanType }
func (o RateOffer) BaseRate() decimal.Decimal      { return o.baseRate }
func (o RateOffer) BaseAPR() decimal.Decimal       { return o.baseAPR }
func (o RateOffer) Fees() decimal.Decimal          { return o.fees }
func (o RateOffer) LockPeriodDays() int            { return o.lockPeriodDays }
func (o RateOffer) Source() string                 { return o.source }
func (o RateOffer) AsOf() time.Time                { return o.asOf }

// betterThan reports whether o should be preferred over other: lower base
// rate first, then lower fees. Equal offers keep listing order.
func (o RateOffer) betterThan(other RateOffer) bool {
	if c := o.baseRate.Cmp(other.baseRate); c != 0 {
		return c < 0
	}
	return o.fees.LessThan(other.fees)
}
