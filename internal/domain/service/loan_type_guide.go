package service

import "github.com/bibbank/mortgage-pricing/internal/domain/valueobject"

type loanTypeGuide struct {
	description    string
	considerations []string
	note           string
}

var loanTypeGuides = map[valueobject.LoanType]loanTypeGuide{
	valueobject.LoanType15YrFixed: {
		description:    "15-year fixed: lower rate in exchange for a higher payment",
		considerations: []string{"Higher monthly payment", "Much less total interest", "Builds equity faster"},
	},
	valueobject.LoanType30YrFixed: {
		description:    "30-year fixed: stable payment over the full term",
		considerations: []string{"Lowest fixed payment", "Most total interest over the term"},
	},
	valueobject.LoanTypeFHA30Yr: {
		description:    "FHA 30-year: relaxed credit requirements, insured by the FHA",
		considerations: []string{"Mortgage insurance premium required", "Lower credit score minimum", "Higher overall cost for strong borrowers"},
	},
	valueobject.LoanTypeVA30Yr: {
		description:    "VA 30-year: guaranteed for eligible service members and veterans",
		considerations: []string{"VA funding fee applies", "Service eligibility required", "Usually no mortgage insurance"},
		note:           "Requires a certificate of eligibility from the Department of Veterans Affairs",
	},
	valueobject.LoanTypeJumbo30Yr: {
		description:    "Jumbo 30-year: for amounts above the conforming limit",
		considerations: []string{"Stricter credit requirements", "Lower maximum LTV", "Larger cash reserves may be required"},
	},
	valueobject.LoanType5x1ARM: {
		description:    "5/1 ARM: lower initial rate, adjusts yearly after 5 years",
		considerations: []string{"Rate adjusts after 5 years", "Lower initial payment", "Rate caps limit each adjustment"},
	},
	valueobject.LoanType7x1ARM: {
		description:    "7/1 ARM: lower initial rate, adjusts yearly after 7 years",
		considerations: []string{"Rate adjusts after 7 years", "Lower initial payment", "Rate caps limit each adjustment"},
	},
	valueobject.LoanType10x1ARM: {
		description:    "10/1 ARM: lower initial rate, adjusts yearly after 10 years",
		considerations: []string{"Rate adjusts after 10 years", "Lower initial payment", "Rate caps limit each adjustment"},
	},
}

func loanTypeGuideFor(lt valueobject.LoanType) loanTypeGuide {
	if g, ok := loanTypeGuides[lt]; ok {
		return g
	}
	return loanTypeGuide{
		description:    lt.DisplayName(),
		considerations: []string{"Review terms carefully"},
	}
}
