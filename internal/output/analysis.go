package output

import (
	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
)

// Analysis condenses the scenario set for report footers.
type Analysis struct {
	LapsedScenarios int
	// EarliestLapse is the scenario that lapses first; zero when none lapse.
	EarliestLapse     domain.ScenarioKey
	EarliestLapseYear int
	// Strongest is the in-force scenario with the highest final PAV.
	Strongest         domain.ScenarioKey
	StrongestFinalPAV decimal.Decimal
}

// AnalyzeScenarios scans the summaries in enumeration order; ties keep the earlier scenario.
func AnalyzeScenarios(results *domain.ProjectionResult) Analysis {
	var a Analysis
	strongestSet := false
	for _, s := range results.Summaries() {
		if s.LapseYear > 0 {
			a.LapsedScenarios++
			if a.EarliestLapseYear == 0 || s.LapseYear < a.EarliestLapseYear {
				a.EarliestLapseYear = s.LapseYear
				a.EarliestLapse = s.Key
			}
			continue
		}
		if !strongestSet || s.FinalEndPAV.GreaterThan(a.StrongestFinalPAV) {
			a.Strongest = s.Key
			a.StrongestFinalPAV = s.FinalEndPAV
			strongestSet = true
		}
	}
	return a
}
