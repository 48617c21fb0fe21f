package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ProductID identifies a universal-life base product.
type ProductID string

const (
	ProductUVL01 ProductID = "UVL01"
	ProductUVL02 ProductID = "UVL02"
	ProductUVL03 ProductID = "UVL03"
	ProductILP01 ProductID = "ILP01"
	ProductILP02 ProductID = "ILP02"
	ProductILP03 ProductID = "ILP03"
)

// IsUniversalLife reports whether the product belongs to the UVL family.
func (p ProductID) IsUniversalLife() bool {
	return strings.HasPrefix(string(p), "UVL")
}

// Gender of the insured. Rate tables key on Code().
type Gender string

const (
	GenderUnknown       Gender = "Unknown"
	GenderMale          Gender = "Male"
	GenderFemale        Gender = "Female"
	GenderNotApplicable Gender = "NotApplicable"
)

// Code returns the numeric gender code used by rate tables.
func (g Gender) Code() int {
	switch g {
	case GenderMale:
		return 1
	case GenderFemale:
		return 2
	case GenderNotApplicable:
		return 9
	default:
		return 0
	}
}

// GenderFromCode is the inverse of Gender.Code.
func GenderFromCode(code int) (Gender, error) {
	switch code {
	case 0:
		return GenderUnknown, nil
	case 1:
		return GenderMale, nil
	case 2:
		return GenderFemale, nil
	case 9:
		return GenderNotApplicable, nil
	}
	return "", fmt.Errorf("unknown gender code %d", code)
}

// PayMode is the premium payment frequency.
type PayMode string

const (
	PayModeAnnual     PayMode = "Annual"
	PayModeSemiAnnual PayMode = "SemiAnnual"
	PayModeQuarterly  PayMode = "Quarterly"
	PayModeMonthly    PayMode = "Monthly"
)

// DeathTPDOption selects the death/TPD benefit basis.
// Option A pays the larger of sum insured and account value, option B pays the sum insured.
type DeathTPDOption string

const (
	DeathTPDOptionA DeathTPDOption = "A"
	DeathTPDOptionB DeathTPDOption = "B"
)

// Fund is an investment fund code. F000 is the traditional (non-unit-linked) fund.
type Fund string

// IsValid reports whether the code is one of F000..F010.
func (f Fund) IsValid() bool {
	if len(f) != 4 || f[0] != 'F' {
		return false
	}
	n, err := strconv.Atoi(string(f[1:]))
	if err != nil {
		return false
	}
	return n >= 0 && n <= 10
}

// FundTraditional is the only fund allowed for UVL products.
const FundTraditional Fund = "F000"

// InterestScenario selects which annual crediting rate applies.
type InterestScenario string

const (
	InterestHigh       InterestScenario = "High"
	InterestLow        InterestScenario = "Low"
	InterestGuaranteed InterestScenario = "Guaranteed"
)

// RiskType selects whether substandard-risk loads apply.
type RiskType string

const (
	RiskStandard RiskType = "Standard"
	RiskSubrisk  RiskType = "Subrisk"
)

// TermScenario selects the premium and excess-premium paying terms.
type TermScenario string

const (
	TermPolicy  TermScenario = "PolicyTerm"
	TermOpted   TermScenario = "OptedTerm"
	TermMustPay TermScenario = "MustPayTerm"
)

// Label is the short tag written into projection rows.
func (t TermScenario) Label() string {
	switch t {
	case TermPolicy:
		return "Policy"
	case TermOpted:
		return "Opted"
	default:
		return "Must-pay"
	}
}

// InterestScenarios lists interest scenarios in enumeration order.
var InterestScenarios = []InterestScenario{InterestHigh, InterestLow, InterestGuaranteed}

// RiskTypes lists risk types in enumeration order.
var RiskTypes = []RiskType{RiskStandard, RiskSubrisk}

// TermScenarios lists premium-term scenarios in enumeration order.
var TermScenarios = []TermScenario{TermPolicy, TermOpted, TermMustPay}
