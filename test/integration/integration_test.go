package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulproj/ul-projector/internal/calculation"
	"github.com/ulproj/ul-projector/internal/config"
	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

func fixture(name string) string {
	return filepath.Join("..", "..", "testdata", "policies", name)
}

func projectFile(t *testing.T, book ratetable.Provider, name string) *domain.ProjectionResult {
	t.Helper()
	policy, err := config.NewInputParser(book).LoadFromFile(fixture(name))
	require.NoError(t, err)
	results, err := calculation.NewProjectionEngine(book).ProjectPolicy(context.Background(), policy)
	require.NoError(t, err)
	return results
}

// assertSameSummaries compares summaries by value; decimal exponents may differ.
func assertSameSummaries(t *testing.T, want, got []domain.ScenarioSummary) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.Key, g.Key)
		assert.Equal(t, w.YearsProjected, g.YearsProjected, "%s years", w.Key)
		assert.Equal(t, w.LapseYear, g.LapseYear, "%s lapse year", w.Key)
		for _, pair := range [][2]decimal.Decimal{
			{w.FinalEndSI, g.FinalEndSI},
			{w.FinalEndPAV, g.FinalEndPAV},
			{w.TotalPremium, g.TotalPremium},
			{w.TotalWithdrawals, g.TotalWithdrawals},
			{w.TotalBonus, g.TotalBonus},
		} {
			assert.True(t, pair[0].Equal(pair[1]), "%s: want %s, got %s", w.Key, pair[0], pair[1])
		}
	}
}

func TestEndToEndProjection(t *testing.T) {
	book := ratetable.SampleBook()

	for _, name := range []string{"uvl01_policy.yaml", "ilp01_policy.json"} {
		t.Run(name, func(t *testing.T) {
			results := projectFile(t, book, name)
			require.Len(t, results.Scenarios, 18)
			assert.NotEmpty(t, results.PolicyID)
			assert.True(t, results.AnnualTP.IsPositive())

			for i, key := range calculation.EnumerateScenarios() {
				sp := results.Scenarios[i]
				assert.Equal(t, key, sp.Key)
				require.NotEmpty(t, sp.Rows, "%s", key)

				for j, r := range sp.Rows {
					assert.Equal(t, j+1, r.Year, "%s", key)
					assert.Equal(t, key, r.Scenario)
					assert.True(t, r.EndPAV.Equal(r.EndEAV.Add(r.EndTAV)), "%s year %d", key, r.Year)
					assert.False(t, r.EndPAV.IsNegative(), "%s year %d", key, r.Year)
					if j < len(sp.Rows)-1 {
						assert.True(t, r.DeductionFlag, "%s year %d failed before the last row", key, r.Year)
					}
				}
				if !sp.Lapsed() {
					assert.Len(t, sp.Rows, results.Term, "%s runs to maturity", key)
				}
			}
		})
	}
}

func TestILP01GuaranteedScenarioCreditsNothing(t *testing.T) {
	results := projectFile(t, ratetable.SampleBook(), "ilp01_policy.json")

	for _, sp := range results.Scenarios {
		if sp.Key.Interest != domain.InterestGuaranteed {
			continue
		}
		for _, r := range sp.Rows {
			assert.True(t, r.AnnualInterestRate.IsZero())
			assert.True(t, r.Interest.IsZero(), "%s year %d", sp.Key, r.Year)
		}
	}
}

func TestStandardScenariosCarryNoLoads(t *testing.T) {
	results := projectFile(t, ratetable.SampleBook(), "uvl01_policy.yaml")

	loaded := false
	for _, sp := range results.Scenarios {
		for _, r := range sp.Rows {
			if sp.Key.IsSubrisk() {
				loaded = loaded || r.Load.IsPositive()
				continue
			}
			assert.True(t, r.Load.IsZero(), "%s year %d", sp.Key, r.Year)
			assert.True(t, r.EMLoadCOI.IsZero())
			assert.True(t, r.PMLoadCOI.IsZero())
		}
	}
	assert.True(t, loaded, "the fixture carries EM and PM loads")
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser(ratetable.SampleBook())

	policy, err := parser.LoadFromFile(fixture("uvl01_policy.yaml"))
	require.NoError(t, err)

	policy.Base.FundAllocation = []domain.FundAllocation{{Fund: domain.FundTraditional, TPPct: 90, EPPct: 100}}
	err = config.NewValidator(ratetable.SampleBook()).Validate(policy)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
