package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

// maxProjectionYears bounds the timeline regardless of term.
const maxProjectionYears = 100

// policyTables are the per-key rate tables a timeline joins against.
type policyTables struct {
	tpAlloc    *ratetable.Table
	epAlloc    *ratetable.Table
	surrender  *ratetable.Table
	loyalty    *ratetable.Table
	coi        *ratetable.Table
	lien       *ratetable.Table
	admin      *ratetable.Table
	withdrawal map[int]decimal.Decimal
}

func loadPolicyTables(rates ratetable.Provider, base *domain.PolicyBase, years int) (*policyTables, error) {
	var t policyTables
	var err error
	product := base.ProductID

	if t.tpAlloc, err = rates.TPAllocationChargeRates(product); err != nil {
		return nil, err
	}
	if t.epAlloc, err = rates.EPAllocationChargeRates(product); err != nil {
		return nil, err
	}
	if t.surrender, err = rates.SurrenderChargeRates(product); err != nil {
		return nil, err
	}
	if t.loyalty, err = rates.LoyaltyBonusRates(product); err != nil {
		return nil, err
	}
	if t.coi, err = rates.COIRates(product, base.Insured.Gender); err != nil {
		return nil, err
	}
	if t.lien, err = rates.JuvenileLienFactors(product); err != nil {
		return nil, err
	}
	if t.admin, err = rates.AdminCharges(product); err != nil {
		return nil, err
	}
	t.withdrawal = base.WithdrawalSchedule(years)
	return &t, nil
}

// BuildTimeline returns the in-force policy years 1..term with their static
// flags and joined rates. Missing keys resolve to each table's default.
func BuildTimeline(rates ratetable.Provider, base *domain.PolicyBase) ([]domain.TimelineRow, error) {
	quote, err := quotePolicy(rates, base)
	if err != nil {
		return nil, err
	}
	return buildTimeline(rates, base, quote)
}

func buildTimeline(rates ratetable.Provider, base *domain.PolicyBase, quote *PremiumQuote) ([]domain.TimelineRow, error) {
	years := min(quote.Term, maxProjectionYears)
	tables, err := loadPolicyTables(rates, base, years)
	if err != nil {
		return nil, err
	}

	accTerm := quote.Product.AccidentalBenefitTerm(quote.EntryAge)
	firstCalendarYear := base.RCD.Year()

	rows := make([]domain.TimelineRow, 0, years)
	for year := 1; year <= years; year++ {
		age := quote.EntryAge - 1 + year
		calYear := firstCalendarYear - 1 + year

		epRate := tables.epAlloc.Lookup(year)
		if epRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, &domain.ConfigurationError{
				Resource: ratetable.TableEPAllocCharge,
				Key:      fmt.Sprintf("%s/%d", base.ProductID, year),
				Reason:   "allocation charge rate must be below 1",
			}
		}

		withdrawal, ok := tables.withdrawal[year]
		if !ok {
			withdrawal = decimal.Zero
		}

		rows = append(rows, domain.TimelineRow{
			Year:                year,
			Age:                 age,
			CalendarYear:        calYear,
			PolicyTermFlag:      year <= quote.Term,
			AccBenTermFlag:      year <= accTerm,
			EMLoadTermFlag:      year <= base.Load.EMLoadTerm,
			PMLoadTermFlag:      year <= base.Load.PMLoadTerm,
			WithdrawalInput:     withdrawal,
			TPAllocChargeRate:   tables.tpAlloc.Lookup(year),
			EPAllocChargeRate:   epRate,
			SurrenderChargeRate: tables.surrender.Lookup(year),
			LoyaltyBonusRate:    tables.loyalty.Lookup(year),
			COIRate:             tables.coi.Lookup(age),
			JuvenileLienRate:    tables.lien.Lookup(age),
			AdminCharge:         tables.admin.Lookup(calYear),
		})
	}
	return rows, nil
}
