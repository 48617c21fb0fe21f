package calculation

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
)

// MonthlyRate converts an annual effective rate to the equivalent monthly rate.
func MonthlyRate(annual decimal.Decimal) float64 {
	return math.Pow(1+annual.InexactFloat64(), 1.0/12) - 1
}

// DueFactor is the annuity-due factor that turns twelve monthly installments
// of 1/12 into a present value at the start of the year:
// ((1+m)^12 - 1) / 12 / (1 - (1+m)^-1) / (1+i). It is 1 when i is zero.
func DueFactor(annual decimal.Decimal) decimal.Decimal {
	if annual.IsZero() {
		return decimal.NewFromInt(1)
	}
	i := annual.InexactFloat64()
	m := MonthlyRate(annual)
	f := (math.Pow(1+m, 12) - 1) / 12 / (1 - math.Pow(1+m, -1)) / (1 + i)
	return decimal.NewFromFloat(f)
}

// premiumTerms returns the TP and EP paying terms of a term scenario.
func premiumTerms(s domain.TermScenario, base *domain.PolicyBase, quote *PremiumQuote) (tpTerm, epTerm int) {
	switch s {
	case domain.TermOpted:
		return base.OptedTPTerm, base.OptedEPTerm
	case domain.TermMustPay:
		return quote.Product.MustPayPeriod, quote.Product.MustPayPeriod
	default:
		return quote.Term, quote.Term
	}
}

// parameterize builds the scenario's row buffer from the shared timeline.
// Forward-computed fields start at their zero defaults.
func parameterize(key domain.ScenarioKey, timeline []domain.TimelineRow, base *domain.PolicyBase, quote *PremiumQuote) []domain.ProjectionRow {
	rate := quote.InterestRates.For(key.Interest)
	due := DueFactor(rate)
	tpTerm, epTerm := premiumTerms(key.Term, base, quote)
	annualTP := quote.TP.Annual
	annualEP := quote.EP.Annual

	rows := make([]domain.ProjectionRow, len(timeline))
	for i, t := range timeline {
		tpFlag := t.Year <= tpTerm

		tp := decimal.Zero
		ep := decimal.Zero
		if tpFlag {
			tp = annualTP
			if t.Year == 1 {
				tp = tp.Add(quote.BigCaseBonus)
			}
			ep = annualEP
		}
		tpAllocCharge := tp.Mul(t.TPAllocChargeRate)
		epAllocCharge := ep.Mul(t.EPAllocChargeRate)

		rows[i] = domain.ProjectionRow{
			Scenario:           key,
			TermTag:            key.Term.Label(),
			TimelineRow:        t,
			AnnualInterestRate: rate,
			DueFactor:          due,
			TPTermFlag:         tpFlag,
			EPTermFlag:         t.Year <= epTerm,
			RiskFlag:           key.IsSubrisk(),
			TP:                 tp,
			EP:                 ep,
			SurrenderCharge:    tp.Mul(t.SurrenderChargeRate),
			TPAllocCharge:      tpAllocCharge,
			EPAllocCharge:      epAllocCharge,
			TPAlloc:            tp.Sub(tpAllocCharge),
			EPAlloc:            ep.Sub(epAllocCharge),
			WithdrawalLog:      domain.WithdrawalNone.Message(),
			Outcome:            domain.WithdrawalNone,
		}
	}
	return rows
}
