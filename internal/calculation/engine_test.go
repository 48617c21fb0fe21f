package calculation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
	dec "github.com/ulproj/ul-projector/pkg/decimal"
)

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Debugf(string, ...any) {}
func (l *recordingLogger) Warnf(string, ...any)  {}
func (l *recordingLogger) Infof(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Errorf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func TestEnumerateScenarios(t *testing.T) {
	keys := EnumerateScenarios()
	require.Len(t, keys, 18)

	seen := make(map[domain.ScenarioKey]bool)
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate %s", k)
		seen[k] = true
	}
	assert.Equal(t, domain.ScenarioKey{Interest: domain.InterestHigh, Risk: domain.RiskStandard, Term: domain.TermPolicy}, keys[0])
	assert.Equal(t, domain.ScenarioKey{Interest: domain.InterestHigh, Risk: domain.RiskStandard, Term: domain.TermOpted}, keys[1])
	assert.Equal(t, domain.ScenarioKey{Interest: domain.InterestHigh, Risk: domain.RiskSubrisk, Term: domain.TermPolicy}, keys[3])
	assert.Equal(t, domain.ScenarioKey{Interest: domain.InterestLow, Risk: domain.RiskStandard, Term: domain.TermPolicy}, keys[6])
	assert.Equal(t, domain.ScenarioKey{Interest: domain.InterestGuaranteed, Risk: domain.RiskSubrisk, Term: domain.TermMustPay}, keys[17])
}

func TestProjectInvariants(t *testing.T) {
	SetNowFunc(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) })
	defer SetNowFunc(time.Now)

	base := samplePolicy()
	base.WithdrawalPlan = []domain.WithdrawalRange{{From: 5, To: 7, Amount: d("3000000")}}

	logger := &recordingLogger{}
	engine := NewProjectionEngine(ratetable.SampleBook())
	engine.SetLogger(logger)

	result, err := engine.Project(context.Background(), base)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), result.GeneratedAt)
	assert.Equal(t, domain.ProductUVL01, result.Product)
	assert.Equal(t, 33, result.EntryAge)
	assert.Equal(t, 33, result.Term)
	assert.NotEmpty(t, logger.infos)
	assert.Empty(t, logger.errors)

	keys := EnumerateScenarios()
	require.Len(t, result.Scenarios, len(keys))
	total := 0
	for i, sp := range result.Scenarios {
		assert.Equal(t, keys[i], sp.Key)
		require.NotEmpty(t, sp.Rows, "scenario %s", sp.Key)
		total += len(sp.Rows)

		for j, r := range sp.Rows {
			name := fmt.Sprintf("%s year %d", sp.Key, r.Year)
			assert.Equal(t, j+1, r.Year, name)
			assert.Equal(t, sp.Key, r.Scenario, name)
			assert.LessOrEqual(t, r.Year, result.Term, name)

			if j == 0 {
				assert.True(t, r.StartPAV.IsZero(), name)
				assert.True(t, r.StartSI.Equal(base.SumInsured), name)
			} else {
				prev := sp.Rows[j-1]
				assert.True(t, r.StartEAV.Equal(prev.EndEAV), name)
				assert.True(t, r.StartTAV.Equal(prev.EndTAV), name)
				assert.True(t, r.StartSI.Equal(prev.EndSI), name)
				assert.Equal(t, prev.DeductionFlag, r.ContFlag, name)
			}
			assert.True(t, r.EndPAV.Equal(r.EndEAV.Add(r.EndTAV)), name)
			assert.True(t, r.StartPAV.Equal(r.StartEAV.Add(r.StartTAV)), name)

			for _, load := range [][2]decimal.Decimal{{r.EMLoad, r.UnroundedEMLoad}, {r.PMLoad, r.UnroundedPMLoad}} {
				assert.True(t, load[0].Mod(dec.Thousand).IsZero(), name)
				assert.True(t, load[0].GreaterThanOrEqual(load[1]), name)
			}
			if !sp.Key.IsSubrisk() {
				assert.True(t, r.Load.IsZero(), name)
				assert.True(t, r.EMLoadCOI.IsZero(), name)
				assert.True(t, r.PMLoadCOI.IsZero(), name)
			}

			if r.Outcome == domain.WithdrawalAccepted {
				assert.True(t, r.Withdrawal.Equal(r.EAVWithdrawal.Add(r.TAVWithdrawal)), name)
			} else {
				assert.True(t, r.Withdrawal.IsZero(), name)
			}
			if !r.DeductionFlag {
				assert.Equal(t, len(sp.Rows)-1, j, "only the final row may fail its deduction: %s", name)
				assert.True(t, r.EndPAV.IsZero(), name)
			}
		}
	}
	assert.Len(t, result.Rows(), total)
	assert.Len(t, result.Summaries(), 18)
}

func TestProjectWorkerCountDoesNotChangeResults(t *testing.T) {
	book := ratetable.SampleBook()

	serial := NewProjectionEngine(book)
	serial.Workers = 1
	parallel := NewProjectionEngine(book)
	parallel.Workers = 18

	a, err := serial.Project(context.Background(), samplePolicy())
	require.NoError(t, err)
	b, err := parallel.Project(context.Background(), samplePolicy())
	require.NoError(t, err)

	require.Len(t, b.Scenarios, len(a.Scenarios))
	for i := range a.Scenarios {
		sa, sb := a.Scenarios[i].Summary(), b.Scenarios[i].Summary()
		assert.Equal(t, sa.Key, sb.Key)
		assert.Equal(t, sa.YearsProjected, sb.YearsProjected)
		assert.True(t, sa.FinalEndPAV.Equal(sb.FinalEndPAV), "scenario %s", sa.Key)
	}
}

func TestLoyaltyBonusReviewWindow(t *testing.T) {
	base := flatPolicy()
	base.Insured.DOB = domain.NewDate(1990, 1, 1)
	base.DeathTPDOption = domain.DeathTPDOptionA
	base.WithdrawalPlan = []domain.WithdrawalRange{{From: 6, To: 6, Amount: d("1000")}}

	engine := NewProjectionEngine(ratetable.SampleBook())
	key := domain.ScenarioKey{Interest: domain.InterestGuaranteed, Risk: domain.RiskStandard, Term: domain.TermPolicy}
	sp, err := engine.ProjectScenario(context.Background(), base, key)
	require.NoError(t, err)
	require.Greater(t, len(sp.Rows), 12)

	tp := d("2105000")
	y4, y6, y8, y12 := sp.Rows[3], sp.Rows[5], sp.Rows[7], sp.Rows[11]

	assert.True(t, y4.LBFlag)
	assert.True(t, y4.LoyaltyBonus.Equal(tp.Mul(d("0.06"))), "year 4 bonus %s", y4.LoyaltyBonus)

	assert.Equal(t, domain.WithdrawalAccepted, y6.Outcome, y6.WithdrawalLog)
	assertDecimal(t, "1000", y6.TAVWithdrawal, "year 6 withdrawal")
	assert.True(t, y6.EndSI.Equal(base.SumInsured), "option A keeps SI")

	assert.False(t, y8.LBFlag)
	assertDecimal(t, "1000", y8.LBReviewWithdrawals, "year 8 review")
	assert.True(t, y8.LoyaltyBonus.IsZero())

	assert.True(t, y12.LBFlag)
	assert.True(t, y12.LoyaltyBonus.Equal(tp.Mul(d("0.18"))), "year 12 bonus %s", y12.LoyaltyBonus)

	for _, r := range sp.Rows {
		if r.Year%4 != 0 {
			assert.True(t, r.LoyaltyBonus.IsZero(), "year %d", r.Year)
		}
	}
}

func TestSpecialBonus(t *testing.T) {
	base := flatPolicy()
	base.ProductID = domain.ProductUVL02
	base.SumInsured = d("1000000000")
	base.DeathTPDOption = domain.DeathTPDOptionA

	engine := NewProjectionEngine(ratetable.SampleBook())
	q, err := engine.Quote(base)
	require.NoError(t, err)

	key := domain.ScenarioKey{Interest: domain.InterestHigh, Risk: domain.RiskStandard, Term: domain.TermPolicy}
	sp, err := engine.ProjectScenario(context.Background(), base, key)
	require.NoError(t, err)
	require.Greater(t, len(sp.Rows), 10)

	y10 := sp.Rows[9]
	assertDecimal(t, "0.4", y10.SBRate, "year 10 rate for SI of one billion")
	assert.True(t, y10.SBFlag)
	assert.True(t, y10.SpecialBonus.Equal(q.TP.Annual.Mul(d("0.4"))))
	assert.True(t, y10.Bonus.Equal(y10.LoyaltyBonus.Add(y10.SpecialBonus)))

	for _, r := range sp.Rows[:9] {
		assert.True(t, r.SpecialBonus.IsZero(), "year %d", r.Year)
	}
}

func TestProjectErrors(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	unsupported := samplePolicy()
	unsupported.ProductID = domain.ProductILP02

	tests := []struct {
		name   string
		rates  ratetable.Provider
		ctx    context.Context
		base   *domain.PolicyBase
		target error
	}{
		{"missing COI table", failingCOIBook{ratetable.SampleBook()}, context.Background(), samplePolicy(), domain.ErrMissingRate},
		{"unsupported product", ratetable.SampleBook(), context.Background(), unsupported, domain.ErrUnsupportedProduct},
		{"cancelled", ratetable.SampleBook(), cancelled, samplePolicy(), context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}
			engine := NewProjectionEngine(tt.rates)
			engine.SetLogger(logger)

			result, err := engine.Project(tt.ctx, tt.base)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.NotEmpty(t, logger.errors)
		})
	}
}

func TestProjectPolicy(t *testing.T) {
	engine := NewProjectionEngine(flatBook())
	engine.SetLogger(nil)

	result, err := engine.ProjectPolicy(context.Background(), &domain.Policy{ID: "P-1", Base: *flatPolicy()})
	require.NoError(t, err)
	assert.Equal(t, "P-1", result.PolicyID)
	require.NotNil(t, result.EntryMonthAge)
	assert.Equal(t, 360, *result.EntryMonthAge)
	assertDecimal(t, "1000000", result.AnnualTP, "annual tp")

	sp := result.Scenario(domain.ScenarioKey{Interest: domain.InterestGuaranteed, Risk: domain.RiskStandard, Term: domain.TermPolicy})
	require.NotNil(t, sp)
	assertDecimal(t, "310000", sp.Rows[0].EndTAV, "year 1 end tav")
}

func TestProjectPolicySelectedScenarios(t *testing.T) {
	engine := NewProjectionEngine(flatBook())
	keys := []domain.ScenarioKey{
		{Interest: domain.InterestLow, Risk: domain.RiskSubrisk, Term: domain.TermOpted},
		{Interest: domain.InterestGuaranteed, Risk: domain.RiskStandard, Term: domain.TermPolicy},
	}

	result, err := engine.ProjectPolicy(context.Background(), &domain.Policy{ID: "P-2", Base: *flatPolicy()}, keys...)
	require.NoError(t, err)
	assert.Equal(t, "P-2", result.PolicyID)
	require.Len(t, result.Scenarios, 2)
	assert.Equal(t, keys[0], result.Scenarios[0].Key)
	assert.Equal(t, keys[1], result.Scenarios[1].Key)
	assertDecimal(t, "310000", result.Scenarios[1].Rows[0].EndTAV, "year 1 end tav")
}
