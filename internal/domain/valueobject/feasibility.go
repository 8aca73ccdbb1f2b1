package valueobject

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFeasibility = errors.New("invalid feasibility")
	ErrInvalidDimension   = errors.New("invalid optimization dimension")
)

// ---------------------------------------------------------------------------
// Feasibility – immutable value object
// ---------------------------------------------------------------------------

// Feasibility is a qualitative estimate of how attainable a scenario change is.
type Feasibility struct {
	value string
}

const (
	feasibilityHigh   = "high"
	feasibilityMedium = "medium"
	feasibilityLow    = "low"
)

var (
	FeasibilityHigh   = Feasibility{value: feasibilityHigh}
	FeasibilityMedium = Feasibility{value: feasibilityMedium}
	FeasibilityLow    = Feasibility{value: feasibilityLow}
)

var validFeasibilities = map[string]Feasibility{
	feasibilityHigh:   FeasibilityHigh,
	feasibilityMedium: FeasibilityMedium,
	feasibilityLow:    FeasibilityLow,
}

// NewFeasibility creates a Feasibility from a raw string.
func NewFeasibility(s string) (Feasibility, error) {
	v, ok := validFeasibilities[s]
	if !ok {
		return Feasibility{}, fmt.Errorf("%w: %q", ErrInvalidFeasibility, s)
	}
	return v, nil
}

func (f Feasibility) String() string { return f.value }

func (f Feasibility) IsZero() bool { return f.value == "" }

func (f Feasibility) Equal(other Feasibility) bool { return f.value == other.value }

// MarshalText implements encoding.TextMarshaler.
func (f Feasibility) MarshalText() ([]byte, error) { return []byte(f.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Feasibility) UnmarshalText(text []byte) error {
	parsed, err := NewFeasibility(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ---------------------------------------------------------------------------
// Dimension – immutable value object
// ---------------------------------------------------------------------------

// Dimension names the scenario field an optimization option varies.
type Dimension struct {
	value string
}

const (
	dimensionCreditScore = "credit_score"
	dimensionLTV         = "ltv"
	dimensionLoanAmount  = "loan_amount"
	dimensionLoanType    = "loan_type"
)

var (
	DimensionCreditScore = Dimension{value: dimensionCreditScore}
	DimensionLTV         = Dimension{value: dimensionLTV}
	DimensionLoanAmount  = Dimension{value: dimensionLoanAmount}
	DimensionLoanType    = Dimension{value: dimensionLoanType}
)

var validDimensions = map[string]Dimension{
	dimensionCreditScore: DimensionCreditScore,
	dimensionLTV:         DimensionLTV,
	dimensionLoanAmount:  DimensionLoanAmount,
	dimensionLoanType:    DimensionLoanType,
}

// NewDimension creates a Dimension from a raw string.
func NewDimension(s string) (Dimension, error) {
	v, ok := validDimensions[s]
	if !ok {
		return Dimension{}, fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}
	return v, nil
}

// AllDimensions returns the dimensions in the order the optimizer explores them.
func AllDimensions() []Dimension {
	return []Dimension{DimensionCreditScore, DimensionLTV, DimensionLoanAmount, DimensionLoanType}
}

func (d Dimension) String() string { return d.value }

func (d Dimension) IsZero() bool { return d.value == "" }

func (d Dimension) Equal(other Dimension) bool { return d.value == other.value }

// MarshalText implements encoding.TextMarshaler.
func (d Dimension) MarshalText() ([]byte, error) { return []byte(d.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dimension) UnmarshalText(text []byte) error {
	parsed, err := NewDimension(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
