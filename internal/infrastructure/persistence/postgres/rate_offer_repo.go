package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/mortgage-pricing/pkg/postgres"
)

// RateOfferRepo implements port.RateOfferRepository.
type RateOfferRepo struct {
	pool *pgxpool.Pool
}

// NewRateOfferRepo creates a new PostgreSQL-backed rate offer repository.
func NewRateOfferRepo(pool *pgxpool.Pool) *RateOfferRepo {
	return &RateOfferRepo{pool: pool}
}

// SaveOffers stores a batch of observations in one transaction. Re-sending an
// observation (same loan type, source and time) overwrites it.
func (r *RateOfferRepo) SaveOffers(ctx context.Context, offers []model.RateOffer) error {
	if len(offers) == 0 {
		return nil
	}

	query := `
		INSERT INTO rate_offers (
			loan_type, source, base_rate, base_apr, fees, lock_period_days, as_of
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (loan_type, source, as_of) DO UPDATE SET
			base_rate        = EXCLUDED.base_rate,
			base_apr         = EXCLUDED.base_apr,
			fees             = EXCLUDED.fees,
			lock_period_days = EXCLUDED.lock_period_days
	`

	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, o := range offers {
			batch.Queue(query,
				o.LoanType().String(), o.Source(), o.BaseRate(), o.BaseAPR(),
				o.Fees(), o.LockPeriodDays(), o.AsOf(),
			)
		}

		results := tx.SendBatch(ctx, batch)
		for i := range offers {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("save rate offer %d (%s): %w", i, offers[i].LoanType(), err)
			}
		}
		return results.Close()
	})
}

// FetchOffers returns the most recent observation for every (loan type,
// source) pair, ordered by loan type then source.
func (r *RateOfferRepo) FetchOffers(ctx context.Context) ([]model.RateOffer, error) {
	query := `
		SELECT DISTINCT ON (loan_type, source)
		       loan_type, source, base_rate, base_apr, fees, lock_period_days, as_of
		FROM rate_offers
		ORDER BY loan_type, source, as_of DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rate offers: %w", err)
	}
	defer rows.Close()

	var offers []model.RateOffer
	for rows.Next() {
		offer, err := scanRateOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

// PurgeOlderThan deletes observations made before cutoff.
func (r *RateOfferRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rate_offers WHERE as_of < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge rate offers: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func scanRateOffer(row pgx.Row) (model.RateOffer, error) {
	var (
		loanTypeStr, source     string
		baseRate, baseAPR, fees decimal.Decimal
		lockPeriodDays          int
		asOf                    time.Time
	)
	if err := row.Scan(&loanTypeStr, &source, &baseRate, &baseAPR, &fees, &lockPeriodDays, &asOf); err != nil {
		return model.RateOffer{}, fmt.Errorf("scan rate offer: %w", err)
	}

	loanType, err := valueobject.NewLoanType(loanTypeStr)
	if err != nil {
		return model.RateOffer{}, fmt.Errorf("parse loan type: %w", err)
	}

	return model.ReconstructRateOffer(loanType, baseRate, baseAPR, fees, lockPeriodDays, source, asOf), nil
}
