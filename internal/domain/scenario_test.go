package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenarioKey(t *testing.T) {
	key, err := ParseScenarioKey("high/subrisk/optedterm")
	require.NoError(t, err)
	assert.Equal(t, ScenarioKey{Interest: InterestHigh, Risk: RiskSubrisk, Term: TermOpted}, key)
	assert.Equal(t, "High/Subrisk/OptedTerm", key.String())
	assert.True(t, key.IsSubrisk())

	for _, bad := range []string{"", "High/Standard", "Medium/Standard/PolicyTerm", "High/Other/PolicyTerm", "High/Standard/Forever"} {
		_, err := ParseScenarioKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestTermScenarioLabel(t *testing.T) {
	assert.Equal(t, "Policy", TermPolicy.Label())
	assert.Equal(t, "Opted", TermOpted.Label())
	assert.Equal(t, "Must-pay", TermMustPay.Label())
}

func TestWithdrawalOutcomeMessages(t *testing.T) {
	assert.Equal(t, "No withdrawal.", WithdrawalNone.Message())
	assert.Equal(t, "Successfully withdraw.", WithdrawalAccepted.Message())
	assert.True(t, WithdrawalSIBelowLimit.Rejected())
	assert.False(t, WithdrawalAccepted.Rejected())
	assert.False(t, WithdrawalNone.Rejected())
}

func TestScenarioSummary(t *testing.T) {
	d := decimal.NewFromInt
	sp := ScenarioProjection{
		Key: ScenarioKey{Interest: InterestLow, Risk: RiskStandard, Term: TermPolicy},
		Rows: []ProjectionRow{
			{TimelineRow: TimelineRow{Year: 1}, TP: d(100), DeductionFlag: true, EndSI: d(1000), EndPAV: d(50), Bonus: d(0)},
			{TimelineRow: TimelineRow{Year: 2}, TP: d(100), Withdrawal: d(10), DeductionFlag: true, EndSI: d(1000), EndPAV: d(80), Bonus: d(5)},
			{TimelineRow: TimelineRow{Year: 3}, TP: d(0), DeductionFlag: false, EndSI: d(1000)},
		},
	}
	assert.True(t, sp.Lapsed())
	s := sp.Summary()
	assert.Equal(t, 3, s.YearsProjected)
	assert.Equal(t, 3, s.LapseYear)
	assert.True(t, s.FinalEndPAV.Equal(d(80)))
	assert.True(t, s.TotalPremium.Equal(d(200)))
	assert.True(t, s.TotalWithdrawals.Equal(d(10)))
	assert.True(t, s.TotalBonus.Equal(d(5)))

	result := ProjectionResult{Scenarios: []ScenarioProjection{sp, {Key: ScenarioKey{Interest: InterestHigh}}}}
	assert.Len(t, result.Rows(), 3)
	assert.Len(t, result.Summaries(), 2)
	assert.NotNil(t, result.Scenario(sp.Key))
	assert.Nil(t, result.Scenario(ScenarioKey{Interest: InterestGuaranteed}))
}
