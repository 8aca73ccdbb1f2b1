package valueobject

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidLoanType is returned when a loan type string is not a known product.
var ErrInvalidLoanType = errors.New("invalid loan type")

// ---------------------------------------------------------------------------
// ProductCategory
// ---------------------------------------------------------------------------

// ProductCategory groups loan types that share a pricing adjustment.
type ProductCategory string

const (
	CategoryConventional ProductCategory = "conventional"
	CategoryGovernment   ProductCategory = "government"
	CategoryVeteran      ProductCategory = "veteran"
	CategoryJumbo        ProductCategory = "jumbo"
	CategoryAdjustable   ProductCategory = "adjustable"
)

// ---------------------------------------------------------------------------
// LoanType – immutable value object
// ---------------------------------------------------------------------------

// LoanType identifies a mortgage product in the rate table.
type LoanType struct {
	value string
}

const (
	loanType30YrFixed = "30yr_fixed"
	loanType15YrFixed = "15yr_fixed"
	loanTypeFHA30Yr   = "fha_30yr"
	loanTypeVA30Yr    = "va_30yr"
	loanTypeJumbo30Yr = "jumbo_30yr"
	loanType5x1ARM    = "5_1_arm"
	loanType7x1ARM    = "7_1_arm"
	loanType10x1ARM   = "10_1_arm"
)

var (
	LoanType30YrFixed = LoanType{value: loanType30YrFixed}
	LoanType15YrFixed = LoanType{value: loanType15YrFixed}
	LoanTypeFHA30Yr   = LoanType{value: loanTypeFHA30Yr}
	LoanTypeVA30Yr    = LoanType{value: loanTypeVA30Yr}
	LoanTypeJumbo30Yr = LoanType{value: loanTypeJumbo30Yr}
	LoanType5x1ARM    = LoanType{value: loanType5x1ARM}
	LoanType7x1ARM    = LoanType{value: loanType7x1ARM}
	LoanType10x1ARM   = LoanType{value: loanType10x1ARM}
)

type loanTypeInfo struct {
	category    ProductCategory
	displayName string
	termMonths  int
	ordinal     int
}

// ARMs amortize over 360 months; reset schedules after the initial period are not modelled.
var loanTypeCatalog = map[string]loanTypeInfo{
	loanType30YrFixed: {CategoryConventional, "30-year fixed", 360, 0},
	loanType15YrFixed: {CategoryConventional, "15-year fixed", 180, 1},
	loanTypeFHA30Yr:   {CategoryGovernment, "FHA 30-year", 360, 2},
	loanTypeVA30Yr:    {CategoryVeteran, "VA 30-year", 360, 3},
	loanTypeJumbo30Yr: {CategoryJumbo, "jumbo 30-year", 360, 4},
	loanType5x1ARM:    {CategoryAdjustable, "5/1 ARM", 360, 5},
	loanType7x1ARM:    {CategoryAdjustable, "7/1 ARM", 360, 6},
	loanType10x1ARM:   {CategoryAdjustable, "10/1 ARM", 360, 7},
}

// loanTypeAliases maps feed and client spellings onto canonical identifiers.
var loanTypeAliases = map[string]string{
	"30_year_fixed":       loanType30YrFixed,
	"30-year_fixed":       loanType30YrFixed,
	"30 year fixed":       loanType30YrFixed,
	"30-year fixed":       loanType30YrFixed,
	"30yr":                loanType30YrFixed,
	"30_year":             loanType30YrFixed,
	"standard-30yr-fixed": loanType30YrFixed,
	"conventional_30yr":   loanType30YrFixed,
	"15_year_fixed":       loanType15YrFixed,
	"15-year_fixed":       loanType15YrFixed,
	"15 year fixed":       loanType15YrFixed,
	"15-year fixed":       loanType15YrFixed,
	"15yr":                loanType15YrFixed,
	"15_year":             loanType15YrFixed,
	"fha":                 loanTypeFHA30Yr,
	"fha_30_year":         loanTypeFHA30Yr,
	"fha_30-year":         loanTypeFHA30Yr,
	"va":                  loanTypeVA30Yr,
	"va_30_year":          loanTypeVA30Yr,
	"va_30-year":          loanTypeVA30Yr,
	"jumbo":               loanTypeJumbo30Yr,
	"jumbo_30_year":       loanTypeJumbo30Yr,
	"jumbo_30-year":       loanTypeJumbo30Yr,
	"5/1_arm":             loanType5x1ARM,
	"5/1 arm":             loanType5x1ARM,
	"7/1_arm":             loanType7x1ARM,
	"7/1 arm":             loanType7x1ARM,
	"10/1_arm":            loanType10x1ARM,
	"10/1 arm":            loanType10x1ARM,
}

// Pattern fallbacks for free-form product labels, checked in order.
var loanTypePatterns = []struct {
	re    *regexp.Regexp
	value string
}{
	{regexp.MustCompile(`fha`), loanTypeFHA30Yr},
	{regexp.MustCompile(`\bva\b|veteran`), loanTypeVA30Yr},
	{regexp.MustCompile(`jumbo`), loanTypeJumbo30Yr},
	{regexp.MustCompile(`10.*1.*arm`), loanType10x1ARM},
	{regexp.MustCompile(`7.*1.*arm`), loanType7x1ARM},
	{regexp.MustCompile(`5.*1.*arm`), loanType5x1ARM},
	{regexp.MustCompile(`15.*year.*fixed|15.*yr.*fixed`), loanType15YrFixed},
	{regexp.MustCompile(`30.*year.*fixed|30.*yr.*fixed`), loanType30YrFixed},
}

// NewLoanType creates a LoanType from a canonical identifier or a known alias.
func NewLoanType(s string) (LoanType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := loanTypeCatalog[key]; ok {
		return LoanType{value: key}, nil
	}
	if canonical, ok := loanTypeAliases[key]; ok {
		return LoanType{value: canonical}, nil
	}
	return LoanType{}, fmt.Errorf("%w: %q", ErrInvalidLoanType, s)
}

// ParseLoanType is the lenient form of NewLoanType used for raw feed labels
// such as "Conforming 30 Year Fixed".
func ParseLoanType(product string) (LoanType, error) {
	if lt, err := NewLoanType(product); err == nil {
		return lt, nil
	}
	label := strings.ToLower(strings.TrimSpace(product))
	for _, p := range loanTypePatterns {
		if p.re.MatchString(label) {
			return LoanType{value: p.value}, nil
		}
	}
	return LoanType{}, fmt.Errorf("%w: unrecognised product %q", ErrInvalidLoanType, product)
}

// AllLoanTypes returns every known loan type in catalog order.
func AllLoanTypes() []LoanType {
	return []LoanType{
		LoanType30YrFixed, LoanType15YrFixed, LoanTypeFHA30Yr, LoanTypeVA30Yr,
		LoanTypeJumbo30Yr, LoanType5x1ARM, LoanType7x1ARM, LoanType10x1ARM,
	}
}

// String returns the canonical identifier.
func (l LoanType) String() string { return l.value }

// IsZero returns true if the loan type has not been initialised.
func (l LoanType) IsZero() bool { return l.value == "" }

// Equal returns true when both loan types carry the same value.
func (l LoanType) Equal(other LoanType) bool { return l.value == other.value }

// Category returns the pricing category of the product.
func (l LoanType) Category() ProductCategory { return loanTypeCatalog[l.value].category }

// DisplayName returns a human-readable product name.
func (l LoanType) DisplayName() string { return loanTypeCatalog[l.value].displayName }

// TermMonths returns the amortization term used for pricing.
func (l LoanType) TermMonths() int { return loanTypeCatalog[l.value].termMonths }

// IsAdjustable reports whether the product has an adjustable rate after an initial period.
func (l LoanType) IsAdjustable() bool { return l.Category() == CategoryAdjustable }

// Compare orders loan types by catalog position.
func (l LoanType) Compare(other LoanType) int {
	return loanTypeCatalog[l.value].ordinal - loanTypeCatalog[other.value].ordinal
}

// MarshalText implements encoding.TextMarshaler.
func (l LoanType) MarshalText() ([]byte, error) {
	return []byte(l.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text yields the
// zero LoanType so that absence is reported by validation, not decoding.
func (l *LoanType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*l = LoanType{}
		return nil
	}
	parsed, err := NewLoanType(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
