package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

func TestDueFactor(t *testing.T) {
	assertDecimal(t, "1", DueFactor(d("0")), "zero rate")

	f, _ := DueFactor(d("0.07")).Float64()
	assert.InDelta(t, 0.96966, f, 0.0005)

	low, _ := DueFactor(d("0.05")).Float64()
	assert.Greater(t, low, f, "a lower rate discounts less")
	assert.Less(t, low, 1.0)
}

func TestMonthlyRate(t *testing.T) {
	m := MonthlyRate(d("0.07"))
	assert.InDelta(t, 0.0056541, m, 1e-6)
	assert.Zero(t, MonthlyRate(d("0")))
}

func TestPremiumTerms(t *testing.T) {
	base := flatPolicy()
	product, err := domain.LookupProduct(domain.ProductUVL01)
	require.NoError(t, err)
	quote := &PremiumQuote{Product: product, Term: 36}

	tests := []struct {
		scenario domain.TermScenario
		tp, ep   int
	}{
		{domain.TermPolicy, 36, 36},
		{domain.TermOpted, 20, 10},
		{domain.TermMustPay, 4, 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.scenario), func(t *testing.T) {
			tp, ep := premiumTerms(tt.scenario, base, quote)
			assert.Equal(t, tt.tp, tp)
			assert.Equal(t, tt.ep, ep)
		})
	}
}

func TestParameterize(t *testing.T) {
	product, err := domain.LookupProduct(domain.ProductILP01)
	require.NoError(t, err)

	base := flatPolicy()
	base.ProductID = domain.ProductILP01
	base.OptedTPTerm = 3
	base.OptedEPTerm = 1

	quote := &PremiumQuote{
		Product:       product,
		Term:          5,
		TP:            ModalPremiums{Annual: d("100000000")},
		EP:            ModalPremiums{Annual: d("1000000")},
		BigCaseBonus:  product.BigCaseBonus(d("100000000")),
		InterestRates: ratetable.InterestRates{High: d("0.07"), Low: d("0.05"), Guaranteed: d("0")},
	}
	timeline := make([]domain.TimelineRow, 5)
	for i := range timeline {
		timeline[i] = domain.TimelineRow{
			Year:                i + 1,
			TPAllocChargeRate:   d("0.1"),
			EPAllocChargeRate:   d("0.02"),
			SurrenderChargeRate: d("0.5"),
		}
	}

	key := domain.ScenarioKey{Interest: domain.InterestLow, Risk: domain.RiskSubrisk, Term: domain.TermOpted}
	rows := parameterize(key, timeline, base, quote)
	require.Len(t, rows, 5)

	y1 := rows[0]
	assert.Equal(t, key, y1.Scenario)
	assert.Equal(t, "Opted", y1.TermTag)
	assert.True(t, y1.RiskFlag)
	assertDecimal(t, "0.05", y1.AnnualInterestRate, "interest")
	assertDecimal(t, "105000000", y1.TP, "tp with big case bonus")
	assertDecimal(t, "52500000", y1.SurrenderCharge, "surrender charge")
	assertDecimal(t, "10500000", y1.TPAllocCharge, "tp alloc charge")
	assertDecimal(t, "94500000", y1.TPAlloc, "tp alloc")
	assertDecimal(t, "20000", y1.EPAllocCharge, "ep alloc charge")
	assertDecimal(t, "980000", y1.EPAlloc, "ep alloc")
	assert.Equal(t, domain.WithdrawalNone, y1.Outcome)
	assert.Equal(t, "No withdrawal.", y1.WithdrawalLog)

	y2 := rows[1]
	assertDecimal(t, "100000000", y2.TP, "tp year 2")
	assert.False(t, y2.EPTermFlag)
	assertDecimal(t, "1000000", y2.EP, "ep follows the TP paying term")

	y4 := rows[3]
	assert.False(t, y4.TPTermFlag)
	assertDecimal(t, "0", y4.TP, "tp after opted term")
	assertDecimal(t, "0", y4.EP, "ep after opted term")
	assertDecimal(t, "0", y4.SurrenderCharge, "surrender charge after opted term")

	for _, r := range rows {
		assert.True(t, r.DueFactor.Equal(rows[0].DueFactor))
		assert.True(t, r.EndPAV.IsZero(), "forward fields start at zero")
	}
}
