package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/mortgage-pricing/internal/domain/valueobject"
)

const (
	MinCreditScore = 300
	MaxCreditScore = 850
)

var hundred = decimal.NewFromInt(100)

// BorrowerScenario is the financial profile a quote is priced for.
type BorrowerScenario struct {
	LoanAmount  decimal.Decimal      `json:"loan_amount"`
	CreditScore int                  `json:"credit_score"`
	LTV         decimal.Decimal      `json:"ltv"`
	LoanType    valueobject.LoanType `json:"loan_type"`
}

// Validate checks every field against its domain and names the first offender.
func (s BorrowerScenario) Validate() error {
	if !s.LoanAmount.IsPositive() {
		return &ValidationError{Field: "loan_amount", Reason: "must be greater than 0"}
	}
	if s.CreditScore < MinCreditScore || s.CreditScore > MaxCreditScore {
		return &ValidationError{Field: "credit_score", Reason: "must be between 300 and 850"}
	}
	if !s.LTV.IsPositive() || s.LTV.GreaterThan(hundred) {
		return &ValidationError{Field: "ltv", Reason: "must be greater than 0 and at most 100"}
	}
	if s.LoanType.IsZero() {
		return &ValidationError{Field: "loan_type", Reason: "is required"}
	}
	return nil
}

// PropertyValue derives the property value implied by the loan amount and LTV.
func (s BorrowerScenario) PropertyValue() (decimal.Decimal, error) {
	ratio := s.LTV.Div(hundred)
	if !ratio.IsPositive() {
		return decimal.Zero, &ComputationError{Op: "property value", Reason: "ltv yields a zero property value"}
	}
	pv := s.LoanAmount.Div(ratio)
	if !pv.IsPositive() {
		return decimal.Zero, &ComputationError{Op: "property value", Reason: "derived property value is not positive"}
	}
	return pv, nil
}

func (s BorrowerScenario) WithCreditScore(score int) BorrowerScenario {
	s.CreditScore = score
	return s
}

func (s BorrowerScenario) WithLeverage(loanAmount, ltv decimal.Decimal) BorrowerScenario {
	s.LoanAmount = loanAmount
	s.LTV = ltv
	return s
}

func (s BorrowerScenario) WithLoanType(lt valueobject.LoanType) BorrowerScenario {
	s.LoanType = lt
	return s
}
