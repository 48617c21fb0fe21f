package output

import (
	"fmt"

	"github.com/ulproj/ul-projector/internal/domain"
)

// GenerateAssumptions lists the crediting rates and premium terms the
// projection actually used, read from the first row of each scenario.
func GenerateAssumptions(results *domain.ProjectionResult) []string {
	var out []string
	seenRate := make(map[domain.InterestScenario]bool)
	seenTerm := make(map[domain.TermScenario]bool)
	for _, sp := range results.Scenarios {
		if len(sp.Rows) == 0 {
			continue
		}
		first := sp.Rows[0]
		if !seenRate[sp.Key.Interest] {
			seenRate[sp.Key.Interest] = true
			out = append(out, fmt.Sprintf("%s interest: %s annually (due factor %s)",
				sp.Key.Interest, FormatPercentage(first.AnnualInterestRate), first.DueFactor.StringFixed(6)))
		}
		if !seenTerm[sp.Key.Term] {
			seenTerm[sp.Key.Term] = true
			out = append(out, fmt.Sprintf("%s premium term: %d years", sp.Key.Term.Label(), paidYears(sp.Rows)))
		}
	}
	out = append(out, "Substandard loads apply in Subrisk scenarios only")
	return out
}

// paidYears counts the rows inside the TP paying term.
func paidYears(rows []domain.ProjectionRow) int {
	n := 0
	for _, r := range rows {
		if r.TPTermFlag {
			n++
		}
	}
	return n
}
