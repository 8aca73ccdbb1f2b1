package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var twelveHundred = decimal.NewFromInt(1200)

// MonthlyPayment returns the level monthly payment, rounded to cents, that
// retires principal over termMonths at annualRate percent:
//
//	r       = annualRate / 12 / 100
//	payment = P * r / (1 - (1+r)^-n)     (r > 0)
//	payment = P / n                      (r = 0)
func MonthlyPayment(principal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}

	n := decimal.NewFromInt(int64(termMonths))
	if !annualRate.IsPositive() {
		return principal.Div(n).Round(2)
	}

	// The power term is computed in float64; the result goes back to decimal
	// before any monetary arithmetic.
	r := annualRate.Div(twelveHundred).InexactFloat64()
	factor := math.Pow(1+r, float64(termMonths))
	payment := principal.InexactFloat64() * r * factor / (factor - 1)
	return decimal.NewFromFloat(payment).Round(2)
}

// TotalInterest is what the borrower pays beyond principal over the full term.
func TotalInterest(principal, monthlyPayment decimal.Decimal, termMonths int) decimal.Decimal {
	return monthlyPayment.Mul(decimal.NewFromInt(int64(termMonths))).Sub(principal)
}

// AmortizationEntry is one period of an amortization schedule.
type AmortizationEntry struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Payment          decimal.Decimal `json:"payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// GenerateAmortizationSchedule lays out the month-by-month schedule for a
// fixed-rate loan. The first payment falls one month after startDate and the
// final period absorbs rounding so the balance reaches exactly zero.
func GenerateAmortizationSchedule(
	principal, annualRate decimal.Decimal,
	termMonths int,
	startDate time.Time,
) []AmortizationEntry {
	if termMonths <= 0 || !principal.IsPositive() {
		return nil
	}

	payment := MonthlyPayment(principal, annualRate, termMonths)
	monthlyRate := decimal.Zero
	if annualRate.IsPositive() {
		monthlyRate = annualRate.Div(twelveHundred)
	}

	schedule := make([]AmortizationEntry, 0, termMonths)
	remaining := principal

	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := payment.Sub(interest)
		if period == termMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}
		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          startDate.AddDate(0, period, 0),
			Payment:          principalPart.Add(interest),
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: remaining,
		})

		if remaining.IsZero() {
			break
		}
	}

	return schedule
}
