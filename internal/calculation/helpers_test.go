package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// flatBook is a hand-computable rate book for UVL01: premium rate 10 per
// mille, TP allocation charge 50%, COI 0.001 at every age, no admin charge.
func flatBook() *ratetable.Book {
	b := ratetable.NewBook()
	p := domain.ProductUVL01
	for year := 1; year <= 100; year++ {
		b.SetAllocationCharge(p, year, d("0.5"), d("0.02"))
	}
	for age := 0; age <= 99; age++ {
		b.SetCOI(p, domain.GenderMale.Code(), age, d("0.001"))
	}
	for age := 0; age <= 60; age++ {
		b.SetPremiumRate(p, domain.GenderMale.Code(), age, d("10"))
		b.SetExtraPremiumRate(p, domain.GenderMale.Code(), age, 9, d("1.5"))
	}
	b.SetModalFactors(p, ratetable.ModalFactors{Annual: d("1"), SemiAnnual: d("0.5"), Quarterly: d("0.25"), Monthly: d("0.083333333")})
	b.SetInterestRates(p, ratetable.InterestRates{High: d("0.07"), Low: d("0.05"), Guaranteed: d("0")})
	b.SetAgeBounds(p, ratetable.AgeBounds{MinEntryAge: -1, MaxEntryAge: 60, MaturityAge: -1})
	return b
}

// flatPolicy is a male aged 30 at RCD with option B cover, term 36.
func flatPolicy() *domain.PolicyBase {
	return &domain.PolicyBase{
		ProductID:      domain.ProductUVL01,
		RCD:            domain.NewDate(2024, 1, 1),
		PayMode:        domain.PayModeAnnual,
		Insured:        domain.Insured{ID: "I-1", DOB: domain.NewDate(1994, 1, 1), Gender: domain.GenderMale},
		SumInsured:     d("100000000"),
		OptedTPTerm:    20,
		ExcessPremium:  decimal.Zero,
		OptedEPTerm:    10,
		DeathTPDOption: domain.DeathTPDOptionB,
		MaturityOption: 2,
		AccBenCoeff:    1,
		FundAllocation: []domain.FundAllocation{{Fund: domain.FundTraditional, TPPct: 100, EPPct: 100}},
	}
}

// samplePolicy is a male aged 33 at RCD with option A cover on the sample book.
func samplePolicy() *domain.PolicyBase {
	return &domain.PolicyBase{
		ProductID:      domain.ProductUVL01,
		RCD:            domain.NewDate(2024, 1, 1),
		PayMode:        domain.PayModeAnnual,
		Insured:        domain.Insured{ID: "I-2", DOB: domain.NewDate(1990, 6, 15), Gender: domain.GenderMale},
		Load:           domain.Load{EMLoad: d("0.5"), EMLoadTerm: 10, PMLoad: 2, PMLoadTerm: 5},
		SumInsured:     d("100000000"),
		OptedTPTerm:    20,
		ExcessPremium:  d("5000000"),
		OptedEPTerm:    10,
		DeathTPDOption: domain.DeathTPDOptionA,
		MaturityOption: 2,
		AccBenCoeff:    2,
		FundAllocation: []domain.FundAllocation{{Fund: domain.FundTraditional, TPPct: 100, EPPct: 100}},
	}
}

// failingCOIBook fails every COI lookup.
type failingCOIBook struct {
	*ratetable.Book
}

func (failingCOIBook) COIRates(product domain.ProductID, _ domain.Gender) (*ratetable.Table, error) {
	return nil, domain.NewMissingRateError(ratetable.TableCOI, string(product))
}
