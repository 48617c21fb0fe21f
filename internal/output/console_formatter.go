package output

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ulproj/ul-projector/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	lapseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

const consoleRowFormat = "%-12s %-9s %-12s %6s %6s %18s %18s %16s"

// ConsoleFormatter renders the policy header and one line per scenario.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(results *domain.ProjectionResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, titleStyle.Render("UNIVERSAL LIFE SCENARIO PROJECTION"))
	fmt.Fprintln(&buf, "==================================")
	if results.PolicyID != "" {
		fmt.Fprintf(&buf, "Policy:     %s\n", results.PolicyID)
	}
	fmt.Fprintf(&buf, "Product:    %s\n", results.Product)
	fmt.Fprintf(&buf, "Entry age:  %d\n", results.EntryAge)
	fmt.Fprintf(&buf, "Term:       %d years\n", results.Term)
	fmt.Fprintf(&buf, "Annual TP:  %s\n", FormatAmount(results.AnnualTP))
	fmt.Fprintf(&buf, "Annual EP:  %s\n", FormatAmount(results.AnnualEP))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, headerStyle.Render(fmt.Sprintf(consoleRowFormat,
		"Interest", "Risk", "Term", "Years", "Lapse", "Final PAV", "Final SI", "Total bonus")))
	for _, s := range results.Summaries() {
		lapse := "-"
		if s.LapseYear > 0 {
			lapse = intToString(s.LapseYear)
		}
		line := fmt.Sprintf(consoleRowFormat,
			s.Key.Interest, s.Key.Risk, s.Key.Term,
			intToString(s.YearsProjected), lapse,
			FormatAmount(s.FinalEndPAV), FormatAmount(s.FinalEndSI), FormatAmount(s.TotalBonus))
		if s.LapseYear > 0 {
			line = lapseStyle.Render(line)
		}
		fmt.Fprintln(&buf, line)
	}
	fmt.Fprintln(&buf)
	if a := AnalyzeScenarios(results); a.LapsedScenarios > 0 {
		fmt.Fprintln(&buf, lapseStyle.Render(fmt.Sprintf("%d of %d scenarios lapse; earliest is %s in year %d",
			a.LapsedScenarios, len(results.Scenarios), a.EarliestLapse, a.EarliestLapseYear)))
	} else {
		fmt.Fprintf(&buf, "No scenario lapses; strongest is %s with final PAV %s\n", a.Strongest, FormatAmount(a.StrongestFinalPAV))
	}
	fmt.Fprintln(&buf, mutedStyle.Render(fmt.Sprintf("Generated %s", results.GeneratedAt.Format("2006-01-02 15:04:05"))))
	return buf.Bytes(), nil
}
