package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mortgage-pricing/internal/domain/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		term      int
		expected  string
	}{
		{"30yr at 6.3125", "500000", "6.3125", 360, "3098.94"},
		{"30yr at 5", "100000", "5", 360, "536.82"},
		{"15yr at 5.5", "300000", "5.5", 180, "2451.25"},
		{"zero rate", "12000", "0", 12, "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.MonthlyPayment(dec(tt.principal), dec(tt.rate), tt.term)
			assert.True(t, dec(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestMonthlyPayment_DegenerateInputs(t *testing.T) {
	assert.True(t, model.MonthlyPayment(dec("1000"), dec("5"), 0).IsZero())
	assert.True(t, model.MonthlyPayment(decimal.Zero, dec("5"), 360).IsZero())
}

func TestTotalInterest_IsExact(t *testing.T) {
	payment := model.MonthlyPayment(dec("500000"), dec("6.3125"), 360)

	interest := model.TotalInterest(dec("500000"), payment, 360)

	assert.True(t, dec("615618.40").Equal(interest), "got %s", interest)
	assert.True(t, payment.Mul(decimal.NewFromInt(360)).Sub(dec("500000")).Equal(interest))
}

func TestGenerateAmortizationSchedule_30YearMortgage(t *testing.T) {
	principal := decimal.NewFromInt(100_000)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	schedule := model.GenerateAmortizationSchedule(principal, dec("5"), 360, start)

	require.Len(t, schedule, 360)

	first := schedule[0]
	assert.Equal(t, 1, first.Period)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), first.DueDate)
	assert.True(t, dec("536.82").Equal(first.Payment), "got %s", first.Payment)
	assert.True(t, dec("416.67").Equal(first.Interest), "got %s", first.Interest)
	assert.True(t, dec("120.15").Equal(first.Principal), "got %s", first.Principal)

	last := schedule[len(schedule)-1]
	assert.Equal(t, 360, last.Period)
	assert.True(t, last.RemainingBalance.IsZero(), "final balance should be zero, got %s", last.RemainingBalance)

	paid := decimal.Zero
	for _, e := range schedule {
		paid = paid.Add(e.Principal)
	}
	assert.True(t, principal.Equal(paid), "principal repaid should equal original, got %s", paid)
}

func TestGenerateAmortizationSchedule_ZeroRate(t *testing.T) {
	schedule := model.GenerateAmortizationSchedule(decimal.NewFromInt(12_000), decimal.Zero, 12,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, schedule, 12)
	for _, e := range schedule {
		assert.True(t, e.Interest.IsZero())
		assert.True(t, decimal.NewFromInt(1000).Equal(e.Principal), "got %s", e.Principal)
	}
}

func TestGenerateAmortizationSchedule_InvalidInputs(t *testing.T) {
	t.Run("zero term", func(t *testing.T) {
		assert.Nil(t, model.GenerateAmortizationSchedule(dec("1000"), dec("5"), 0, time.Now()))
	})

	t.Run("zero principal", func(t *testing.T) {
		assert.Nil(t, model.GenerateAmortizationSchedule(decimal.Zero, dec("5"), 12, time.Now()))
	})

	t.Run("negative principal", func(t *testing.T) {
		assert.Nil(t, model.GenerateAmortizationSchedule(dec("-1000"), dec("5"), 12, time.Now()))
	})
}
