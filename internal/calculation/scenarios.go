package calculation

import (
	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/pkg/dateutil"
)

// EnumerateScenarios returns the interest x risk x term cross product in that
// nesting order.
func EnumerateScenarios() []domain.ScenarioKey {
	keys := make([]domain.ScenarioKey, 0, len(domain.InterestScenarios)*len(domain.RiskTypes)*len(domain.TermScenarios))
	for _, interest := range domain.InterestScenarios {
		for _, risk := range domain.RiskTypes {
			for _, term := range domain.TermScenarios {
				keys = append(keys, domain.ScenarioKey{Interest: interest, Risk: risk, Term: term})
			}
		}
	}
	return keys
}

// entryMonthAge is the insured's age in completed months at the risk-commencement date.
func entryMonthAge(base *domain.PolicyBase) (int, error) {
	return dateutil.MonthAge(base.Insured.DOB.Time, base.RCD.Time)
}
