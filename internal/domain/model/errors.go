package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidScenario  = errors.New("invalid borrower scenario")
	ErrLoanTypeNotFound = errors.New("loan type not found in rate table")
	ErrComputation      = errors.New("pricing computation failed")
	ErrInvalidRateOffer = errors.New("invalid rate offer")
	ErrDuplicateOffer   = errors.New("duplicate rate offer")
)

// ValidationError reports a scenario field outside its declared domain.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidScenario }

// NotFoundError reports a loan type that has no offers in the rate table.
type NotFoundError struct {
	LoanType string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no rate offers for loan type %q", e.LoanType)
}

func (e *NotFoundError) Unwrap() error { return ErrLoanTypeNotFound }

// ComputationError reports degenerate numeric input discovered mid-calculation.
type ComputationError struct {
	Op     string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ComputationError) Unwrap() error { return ErrComputation }
