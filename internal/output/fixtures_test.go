package output

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
)

// buildTestResult has two scenarios: a standard one in force for two years and
// a subrisk one that lapses in its second year.
func buildTestResult() *domain.ProjectionResult {
	row := func(key domain.ScenarioKey, year int, endPAV int64, ok bool) domain.ProjectionRow {
		return domain.ProjectionRow{
			Scenario:      key,
			TermTag:       key.Term.Label(),
			TimelineRow:   domain.TimelineRow{Year: year, Age: 32 + year, CalendarYear: 2023 + year},
			TP:            decimal.NewFromInt(2_105_000),
			Bonus:         decimal.NewFromInt(int64(year) * 1000),
			DeductionFlag: ok,
			EndSI:         decimal.NewFromInt(100_000_000),
			EndPAV:        decimal.NewFromInt(endPAV),
			WithdrawalLog: domain.WithdrawalNone.Message(),
		}
	}
	standard := domain.ScenarioKey{Interest: domain.InterestHigh, Risk: domain.RiskStandard, Term: domain.TermPolicy}
	subrisk := domain.ScenarioKey{Interest: domain.InterestHigh, Risk: domain.RiskSubrisk, Term: domain.TermPolicy}
	return &domain.ProjectionResult{
		PolicyID:    "POL-1",
		Product:     domain.ProductUVL01,
		EntryAge:    33,
		Term:        33,
		AnnualTP:    decimal.NewFromInt(2_105_000),
		AnnualEP:    decimal.NewFromInt(5_000_000),
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Scenarios: []domain.ScenarioProjection{
			{Key: standard, Rows: []domain.ProjectionRow{row(standard, 1, 1_250_000, true), row(standard, 2, 2_600_000, true)}},
			{Key: subrisk, Rows: []domain.ProjectionRow{row(subrisk, 1, 300_000, true), row(subrisk, 2, 0, false)}},
		},
	}
}
