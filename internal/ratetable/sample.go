package ratetable

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
)

// Illustrative rates for the supported products. They are shaped like a real
// tariff but carry no actuarial authority.

type ageAnchor struct {
	age  int
	rate float64
}

var (
	maleCOIAnchors   = []ageAnchor{{0, 0.00263}, {10, 0.00080}, {26, 0.00172}, {50, 0.00780}, {70, 0.035}, {90, 0.18}, {99, 1.0}}
	femaleCOIAnchors = []ageAnchor{{0, 0.00188}, {10, 0.0006}, {42, 0.00298}, {60, 0.009}, {80, 0.06}, {99, 1.0}}
)

type sampleProduct struct {
	id            domain.ProductID
	tpAllocCharge []string // years 1..n, then the tail rate
	tailAlloc     string
	surrender     []string
	loyalty       func(year int) decimal.Decimal
	adminFrom     int
	admin         func(i int) decimal.Decimal
	premiumScale  string
	modal         ModalFactors
	interest      InterestRates
	ages          AgeBounds
}

func mustDecimals(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

var uvlModal = ModalFactors{
	Annual:     decimal.NewFromInt(1),
	SemiAnnual: decimal.RequireFromString("0.5"),
	Quarterly:  decimal.RequireFromString("0.25"),
	Monthly:    decimal.RequireFromString("0.083333333"),
}

var uvlInterest = InterestRates{
	High:       decimal.RequireFromString("0.07"),
	Low:        decimal.RequireFromString("0.05"),
	Guaranteed: decimal.RequireFromString("0.02"),
}

var uvlAges = AgeBounds{MinEntryAge: ManualIntervention, MaxEntryAge: 60, MaturityAge: ManualIntervention}

func everyNth(n int, rate func(k int) decimal.Decimal) func(int) decimal.Decimal {
	return func(year int) decimal.Decimal {
		if year%n != 0 {
			return decimal.Zero
		}
		return rate(year / n)
	}
}

func growingAdmin(i int) decimal.Decimal {
	return decimal.NewFromInt(int64(min(40000+2000*i, 66000)))
}

var sampleProducts = []sampleProduct{
	{
		id:            domain.ProductUVL01,
		tpAllocCharge: []string{"0.55", "0.40", "0.25", "0.15", "0.10", "0.08", "0.06", "0.05", "0.04"},
		tailAlloc:     "0.02",
		surrender:     []string{"1", "1", "1", "1", "0.8", "0.6", "0.4", "0.2", "0.1"},
		loyalty: everyNth(4, func(k int) decimal.Decimal {
			return decimal.RequireFromString("0.06").Mul(decimal.NewFromInt(int64(k)))
		}),
		adminFrom:    2016,
		admin:        func(int) decimal.Decimal { return decimal.NewFromInt(25000) },
		premiumScale: "1",
		modal:        uvlModal,
		interest:     uvlInterest,
		ages:         uvlAges,
	},
	{
		id:            domain.ProductUVL02,
		tpAllocCharge: []string{"0.60", "0.45", "0.30", "0.20", "0.10", "0.05"},
		tailAlloc:     "0.02",
		surrender:     []string{"1", "1", "1", "0.85", "0.65", "0.45", "0.25", "0.2", "0.1"},
		loyalty: everyNth(3, func(k int) decimal.Decimal {
			return decimal.RequireFromString("0.03").Mul(decimal.NewFromInt(int64(k)))
		}),
		adminFrom:    2024,
		admin:        growingAdmin,
		premiumScale: "1.1",
		modal:        uvlModal,
		interest:     uvlInterest,
		ages:         uvlAges,
	},
	{
		id:            domain.ProductUVL03,
		tpAllocCharge: []string{"0.50", "0.35", "0.20", "0.10", "0.05"},
		tailAlloc:     "0.01",
		surrender:     []string{"0.45", "0.4", "0.3", "0.2", "0.1"},
		loyalty: everyNth(3, func(k int) decimal.Decimal {
			return decimal.RequireFromString("0.02").Add(decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(int64(k))))
		}),
		adminFrom:    2024,
		admin:        growingAdmin,
		premiumScale: "0.9",
		modal:        uvlModal,
		interest:     uvlInterest,
		ages:         uvlAges,
	},
	{
		id:            domain.ProductILP01,
		tpAllocCharge: []string{"0.65", "0.50", "0.35", "0.15", "0.05"},
		tailAlloc:     "0.02",
		surrender:     []string{"1", "1", "0.9", "0.8", "0.6", "0.4", "0.2"},
		loyalty: everyNth(4, func(k int) decimal.Decimal {
			return decimal.RequireFromString("0.06").Mul(decimal.NewFromInt(int64(k)))
		}),
		adminFrom:    2024,
		admin:        growingAdmin,
		premiumScale: "0.8",
		modal: ModalFactors{
			Annual:     decimal.NewFromInt(1),
			SemiAnnual: decimal.RequireFromString("0.52"),
			Quarterly:  decimal.RequireFromString("0.265"),
			Monthly:    decimal.RequireFromString("0.09"),
		},
		interest: InterestRates{
			High:       decimal.RequireFromString("0.08"),
			Low:        decimal.RequireFromString("0.04"),
			Guaranteed: decimal.Zero,
		},
		ages: AgeBounds{MinEntryAge: 0, MaxEntryAge: 60, MaturityAge: 100},
	},
}

// SampleBook returns a Book populated with illustrative rates for UVL01,
// UVL02, UVL03 and ILP01.
func SampleBook() *Book {
	b := NewBook()
	maleCOI := interpolateCOI(maleCOIAnchors)
	femaleCOI := interpolateCOI(femaleCOIAnchors)

	for _, p := range sampleProducts {
		alloc := mustDecimals(p.tpAllocCharge...)
		tail := decimal.RequireFromString(p.tailAlloc)
		epAlloc := decimal.RequireFromString("0.02")
		for year := 1; year <= 100; year++ {
			tp := tail
			if year <= len(alloc) {
				tp = alloc[year-1]
			}
			b.SetAllocationCharge(p.id, year, tp, epAlloc)
			if lb := p.loyalty(year); !lb.IsZero() {
				b.SetLoyaltyBonus(p.id, year, lb)
			}
		}
		for i, rate := range mustDecimals(p.surrender...) {
			b.SetSurrenderCharge(p.id, i+1, rate)
		}
		for i := 0; i < 100; i++ {
			b.SetAdminCharge(p.id, p.adminFrom+i, p.admin(i))
		}

		if p.id == domain.ProductUVL01 {
			for age := 0; age <= 3; age++ {
				b.SetJuvenileLien(p.id, age, decimal.NewFromInt(1))
			}
		} else {
			for age, f := range mustDecimals("0.2", "0.4", "0.6", "0.8") {
				b.SetJuvenileLien(p.id, age, f)
			}
		}

		for age := 0; age <= 99; age++ {
			b.SetCOI(p.id, domain.GenderMale.Code(), age, maleCOI[age])
			b.SetCOI(p.id, domain.GenderFemale.Code(), age, femaleCOI[age])
		}

		scale := decimal.RequireFromString(p.premiumScale)
		for age := 0; age <= 60; age++ {
			b.SetPremiumRate(p.id, domain.GenderMale.Code(), age, premiumRate(10.6128, age).Mul(scale))
			b.SetPremiumRate(p.id, domain.GenderFemale.Code(), age, premiumRate(10.56, age).Mul(scale))
			for term := 0; term <= MaxExtraPremiumTerm; term++ {
				b.SetExtraPremiumRate(p.id, domain.GenderMale.Code(), age, term, extraPremiumRate("0.55", age, term))
				b.SetExtraPremiumRate(p.id, domain.GenderFemale.Code(), age, term, extraPremiumRate("0.53", age, term))
			}
		}

		b.SetModalFactors(p.id, p.modal)
		b.SetInterestRates(p.id, p.interest)
		b.SetAgeBounds(p.id, p.ages)
	}
	return b
}

// premiumGrowth takes the male rate from 10.6128 at age 0 to 21.04068 at age 34.
var premiumGrowth = math.Pow(21.04068/10.6128, 1.0/34)

func premiumRate(base float64, age int) decimal.Decimal {
	return decimal.NewFromFloat(base * math.Pow(premiumGrowth, float64(age))).Round(5)
}

func extraPremiumRate(base string, age, term int) decimal.Decimal {
	step := decimal.RequireFromString("0.02")
	return decimal.RequireFromString(base).
		Add(step.Mul(decimal.NewFromInt(int64(age)))).
		Add(step.Mul(decimal.NewFromInt(int64(term))))
}

// interpolateCOI fills ages 0..99 geometrically between anchors.
func interpolateCOI(anchors []ageAnchor) []decimal.Decimal {
	out := make([]decimal.Decimal, 100)
	for i := 0; i+1 < len(anchors); i++ {
		lo, hi := anchors[i], anchors[i+1]
		span := float64(hi.age - lo.age)
		for age := lo.age; age <= hi.age; age++ {
			r := lo.rate * math.Pow(hi.rate/lo.rate, float64(age-lo.age)/span)
			out[age] = decimal.NewFromFloat(r).Round(5)
		}
	}
	return out
}
