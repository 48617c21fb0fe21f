package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
	dec "github.com/ulproj/ul-projector/pkg/decimal"
)

// ModalPremiums are a premium expressed per payment mode.
type ModalPremiums struct {
	Annual     decimal.Decimal `json:"annual"`
	SemiAnnual decimal.Decimal `json:"semi_annual"`
	Quarterly  decimal.Decimal `json:"quarterly"`
	Monthly    decimal.Decimal `json:"monthly"`
}

// For returns the premium of a pay mode.
func (m ModalPremiums) For(mode domain.PayMode) decimal.Decimal {
	switch mode {
	case domain.PayModeSemiAnnual:
		return m.SemiAnnual
	case domain.PayModeQuarterly:
		return m.Quarterly
	case domain.PayModeMonthly:
		return m.Monthly
	default:
		return m.Annual
	}
}

// modalPremiums applies each modal factor to an annual amount and rounds up to 1000.
func modalPremiums(annual decimal.Decimal, f ratetable.ModalFactors) ModalPremiums {
	return ModalPremiums{
		Annual:     dec.CeilToThousand(f.Annual.Mul(annual)),
		SemiAnnual: dec.CeilToThousand(f.SemiAnnual.Mul(annual)),
		Quarterly:  dec.CeilToThousand(f.Quarterly.Mul(annual)),
		Monthly:    dec.CeilToThousand(f.Monthly.Mul(annual)),
	}
}

// PremiumQuote is the policy-level premium and term resolution shared by every scenario.
type PremiumQuote struct {
	Product          domain.ProductCapability `json:"product"`
	EntryAge         int                      `json:"entry_age"`
	Term             int                      `json:"term"`
	PremiumRate      decimal.Decimal          `json:"premium_rate"`
	ExtraPremiumRate decimal.Decimal          `json:"extra_premium_rate"`
	TP               ModalPremiums            `json:"tp"`
	EP               ModalPremiums            `json:"ep"`
	BigCaseBonus     decimal.Decimal          `json:"big_case_bonus"`
	InterestRates    ratetable.InterestRates  `json:"interest_rates"`
}

// quotePolicy resolves everything a projection needs once per policy.
func quotePolicy(rates ratetable.Provider, base *domain.PolicyBase) (*PremiumQuote, error) {
	product, err := domain.LookupProduct(base.ProductID)
	if err != nil {
		return nil, err
	}

	entryAge, err := base.EntryAge()
	if err != nil {
		return nil, domain.NewValidationError("base.insured.dob", "%v", err)
	}
	term := product.MaturityAge(base.MaturityOption) - entryAge
	if term <= 0 {
		return nil, domain.NewValidationError("base.maturity_option",
			"entry age %d leaves no policy term before maturity age %d", entryAge, product.MaturityAge(base.MaturityOption))
	}

	premiumRate, err := rates.PremiumRate(base.ProductID, base.Insured.Gender, entryAge)
	if err != nil {
		return nil, err
	}
	factors, err := rates.ModalFactors(base.ProductID)
	if err != nil {
		return nil, err
	}
	interest, err := rates.InterestRates(base.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.GuaranteedRateApplies {
		interest.Guaranteed = decimal.Zero
	}

	extraRate := decimal.Zero
	if base.HasEMLoad() {
		extraRate, err = rates.ExtraPremiumRate(base.ProductID, base.Insured.Gender, entryAge, base.Load.EMLoadTerm-1)
		if err != nil {
			return nil, err
		}
	}

	crude := premiumRate.Mul(base.SumInsured).Div(dec.Thousand)
	tp := modalPremiums(crude, factors)

	return &PremiumQuote{
		Product:          product,
		EntryAge:         entryAge,
		Term:             term,
		PremiumRate:      premiumRate,
		ExtraPremiumRate: extraRate,
		TP:               tp,
		EP:               modalPremiums(base.ExcessPremium, factors),
		BigCaseBonus:     product.BigCaseBonus(tp.Annual),
		InterestRates:    interest,
	}, nil
}
