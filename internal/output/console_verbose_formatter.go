package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ulproj/ul-projector/internal/domain"
)

// ConsoleVerboseFormatter renders the year-by-year account values of every scenario.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

const verboseRowFormat = "%4s %4s %14s %14s %14s %14s %14s %12s %16s %16s  %s\n"

func (c ConsoleVerboseFormatter) Format(results *domain.ProjectionResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintln(&buf, "DETAILED UNIVERSAL LIFE PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(results) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, sp := range results.Scenarios {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, sp.Key)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		fmt.Fprintf(&buf, verboseRowFormat, "Year", "Age", "Premium", "Withdrawal", "COI", "Deduction", "Interest", "Bonus", "End SI", "End PAV", "Note")
		for _, r := range sp.Rows {
			note := ""
			if r.Outcome != domain.WithdrawalNone {
				note = r.WithdrawalLog
			}
			if !r.DeductionFlag {
				note = "Lapsed: deduction exceeds account value."
			}
			fmt.Fprintf(&buf, verboseRowFormat,
				intToString(r.Year), intToString(r.Age),
				FormatAmount(r.TP.Add(r.EP).Add(r.Load)),
				FormatAmount(r.Withdrawal),
				FormatAmount(r.COI),
				FormatAmount(r.Deduction),
				FormatAmount(r.Interest),
				FormatAmount(r.Bonus),
				FormatAmount(r.EndSI),
				FormatAmount(r.EndPAV),
				note)
		}
		fmt.Fprintln(&buf)
	}

	a := AnalyzeScenarios(results)
	fmt.Fprintf(&buf, "Lapsed scenarios: %d of %d\n", a.LapsedScenarios, len(results.Scenarios))
	if a.EarliestLapseYear > 0 {
		fmt.Fprintf(&buf, "Earliest lapse:   %s in year %d\n", a.EarliestLapse, a.EarliestLapseYear)
	}
	return buf.Bytes(), nil
}
