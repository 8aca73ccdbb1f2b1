package model

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

// RateTable is an immutable snapshot of market offers grouped by loan type.
// A refresh builds a new table; an existing table is never modified.
type RateTable struct {
	id     uuid.UUID
	asOf   time.Time
	offers map[valueobject.LoanType][]RateOffer
	types  []valueobject.LoanType
	count  int
}

// NewRateTable builds a snapshot from offers, preserving listing order within
// each loan type. At most one offer per (loan type, source) is allowed.
func NewRateTable(offers []RateOffer, asOf time.Time) (*RateTable, error) {
	t := &RateTable{
		id:     uuid.New(),
		asOf:   asOf.UTC(),
		offers: make(map[valueobject.LoanType][]RateOffer),
	}

	seen := make(map[string]struct{}, len(offers))
	for _, o := range offers {
		if o.LoanType().IsZero() {
			return nil, fmt.Errorf("%w: loan type is required", ErrInvalidRateOffer)
		}
		key := o.LoanType().String() + "|" + o.Source()
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s from %s", ErrDuplicateOffer, o.LoanType(), o.Source())
		}
		seen[key] = struct{}{}

		if _, ok := t.offers[o.LoanType()]; !ok {
			t.types = append(t.types, o.LoanType())
		}
		t.offers[o.LoanType()] = append(t.offers[o.LoanType()], o)
		t.count++
	}

	slices.SortFunc(t.types, func(a, b valueobject.LoanType) int { return a.Compare(b) })
	return t, nil
}

// ID identifies the snapshot.
func (t *RateTable) ID() uuid.UUID { return t.id }

// AsOf is when the snapshot was built.
func (t *RateTable) AsOf() time.Time { return t.asOf }

// Len returns the total number of offers.
func (t *RateTable) Len() int { return t.count }

// LoanTypes returns the loan types present, in catalog order.
func (t *RateTable) LoanTypes() []valueobject.LoanType {
	return slices.Clone(t.types)
}

// Has reports whether the loan type has at least one offer.
func (t *RateTable) Has(lt valueobject.LoanType) bool {
	return len(t.offers[lt]) > 0
}

// Offers returns a copy of the offers for a loan type, in listing order.
func (t *RateTable) Offers(lt valueobject.LoanType) []RateOffer {
	return slices.Clone(t.offers[lt])
}

// AllOffers returns every offer grouped by loan type in catalog order.
func (t *RateTable) AllOffers() []RateOffer {
	all := make([]RateOffer, 0, t.count)
	for _, lt := range t.types {
		all = append(all, t.offers[lt]...)
	}
	return all
}

// BestOffer selects the lowest base rate for the loan type, breaking ties by
// lowest fees and then by listing order.
func (t *RateTable) BestOffer(lt valueobject.LoanType) (RateOffer, error) {
	offers := t.offers[lt]
	if len(offers) == 0 {
		return RateOffer{}, &NotFoundError{LoanType: lt.String()}
	}
	best := offers[0]
	for _, o := range offers[1:] {
		if o.betterThan(best) {
			best = o
		}
	}
	return best, nil
}
