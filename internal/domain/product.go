package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BigCaseTier grants Rate x annual TP in year 1 when the annual TP is at least MinTP.
type BigCaseTier struct {
	MinTP decimal.Decimal `json:"min_tp"`
	Rate  decimal.Decimal `json:"rate"`
}

// SpecialBonusStep pays Rate x annual TP in policy year Year when start SI is at least MinSI.
type SpecialBonusStep struct {
	Year  int             `json:"year"`
	MinSI decimal.Decimal `json:"min_si"`
	Rate  decimal.Decimal `json:"rate"`
}

// ProductCapability holds the fixed contractual rules of a base product.
// It is resolved once per projection and passed by value.
type ProductCapability struct {
	ID                       ProductID          `json:"id"`
	WholeLifeMaturityAge     int                `json:"whole_life_maturity_age"`
	EndowmentMaturityAge     int                `json:"endowment_maturity_age"`
	AccidentalCoverToAge     int                `json:"accidental_cover_to_age"`
	MustPayPeriod            int                `json:"must_pay_period"`
	MinSumInsured            decimal.Decimal    `json:"min_sum_insured"`
	WithdrawalStartYear      int                `json:"withdrawal_start_year"`
	MonthlyAccidentalCOIRate decimal.Decimal    `json:"monthly_accidental_coi_rate"`
	LoyaltyReviewPeriod      int                `json:"loyalty_review_period"`
	SpecialBonusReviewPeriod int                `json:"special_bonus_review_period"`
	GuaranteedRateApplies    bool               `json:"guaranteed_rate_applies"`
	SingleTraditionalFund    bool               `json:"single_traditional_fund"`
	BigCaseTiers             []BigCaseTier      `json:"big_case_tiers,omitempty"`
	SpecialBonusSteps        []SpecialBonusStep `json:"special_bonus_steps,omitempty"`
}

// MaturityAge returns 100 for maturity option 1 and 66 otherwise.
func (p ProductCapability) MaturityAge(option int) int {
	if option == 1 {
		return p.WholeLifeMaturityAge
	}
	return p.EndowmentMaturityAge
}

// AccidentalBenefitTerm is the number of policy years with accidental cover.
func (p ProductCapability) AccidentalBenefitTerm(entryAge int) int {
	return p.AccidentalCoverToAge - entryAge
}

// MinPAVAfterWithdrawal is the lowest account value a withdrawal may leave.
func (p ProductCapability) MinPAVAfterWithdrawal(annualTP decimal.Decimal) decimal.Decimal {
	return annualTP
}

// BigCaseBonus returns the year-1 bonus added to TP. Tiers are checked highest first.
func (p ProductCapability) BigCaseBonus(annualTP decimal.Decimal) decimal.Decimal {
	for _, tier := range p.BigCaseTiers {
		if annualTP.GreaterThanOrEqual(tier.MinTP) {
			return annualTP.Mul(tier.Rate)
		}
	}
	return decimal.Zero
}

// SpecialBonusRate returns the step-function rate for a 1-based policy year and start SI.
// Steps are checked in order; the first match wins.
func (p ProductCapability) SpecialBonusRate(policyYear int, startSI decimal.Decimal) decimal.Decimal {
	for _, step := range p.SpecialBonusSteps {
		if step.Year == policyYear && startSI.GreaterThanOrEqual(step.MinSI) {
			return step.Rate
		}
	}
	return decimal.Zero
}

var (
	oneBillion     = decimal.NewFromInt(1_000_000_000)
	fiveHundredMil = decimal.NewFromInt(500_000_000)
)

func uvlSpecialBonus() []SpecialBonusStep {
	return []SpecialBonusStep{
		{Year: 10, MinSI: oneBillion, Rate: decimal.RequireFromString("0.4")},
		{Year: 20, MinSI: oneBillion, Rate: decimal.RequireFromString("1.2")},
		{Year: 10, MinSI: fiveHundredMil, Rate: decimal.RequireFromString("0.2")},
		{Year: 20, MinSI: fiveHundredMil, Rate: decimal.RequireFromString("0.6")},
		{Year: 10, MinSI: decimal.Zero, Rate: decimal.RequireFromString("0.2")},
		{Year: 20, MinSI: decimal.Zero, Rate: decimal.RequireFromString("0.6")},
	}
}

func baseCapability(id ProductID) ProductCapability {
	return ProductCapability{
		ID:                       id,
		WholeLifeMaturityAge:     100,
		EndowmentMaturityAge:     66,
		AccidentalCoverToAge:     66,
		MustPayPeriod:            3,
		MinSumInsured:            decimal.NewFromInt(100_000_000),
		WithdrawalStartYear:      2,
		MonthlyAccidentalCOIRate: decimal.RequireFromString("0.000075"),
		LoyaltyReviewPeriod:      3,
		SpecialBonusReviewPeriod: 10,
		GuaranteedRateApplies:    true,
		SingleTraditionalFund:    true,
	}
}

var products = map[ProductID]func() ProductCapability{
	ProductUVL01: func() ProductCapability {
		p := baseCapability(ProductUVL01)
		p.MustPayPeriod = 4
		p.LoyaltyReviewPeriod = 4
		return p
	},
	ProductUVL02: func() ProductCapability {
		p := baseCapability(ProductUVL02)
		p.SpecialBonusSteps = uvlSpecialBonus()
		return p
	},
	ProductUVL03: func() ProductCapability {
		p := baseCapability(ProductUVL03)
		p.SpecialBonusSteps = uvlSpecialBonus()
		return p
	},
	ProductILP01: func() ProductCapability {
		p := baseCapability(ProductILP01)
		p.MonthlyAccidentalCOIRate = decimal.Zero
		p.GuaranteedRateApplies = false
		p.SingleTraditionalFund = false
		p.BigCaseTiers = []BigCaseTier{
			{MinTP: decimal.NewFromInt(100_000_000), Rate: decimal.RequireFromString("0.05")},
			{MinTP: decimal.NewFromInt(50_000_000), Rate: decimal.RequireFromString("0.03")},
		}
		return p
	},
}

// LookupProduct returns the capability record for a product id.
func LookupProduct(id ProductID) (ProductCapability, error) {
	build, ok := products[id]
	if !ok {
		return ProductCapability{}, NewUnsupportedProductError(id)
	}
	return build(), nil
}

// SupportedProducts returns the capability records of every supported product, sorted by id.
func SupportedProducts() []ProductCapability {
	ids := make([]string, 0, len(products))
	for id := range products {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	out := make([]ProductCapability, 0, len(ids))
	for _, id := range ids {
		out = append(out, products[ProductID(id)]())
	}
	return out
}
