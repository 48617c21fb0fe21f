package output

import (
	"bytes"
	"encoding/csv"

	"github.com/ulproj/ul-projector/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario,
// in enumeration order).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"InterestScenario", "RiskType", "TermScenario", "YearsProjected", "LapseYear", "FinalEndSI", "FinalEndPAV", "TotalPremium", "TotalWithdrawals", "TotalBonus"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range results.Summaries() {
		row := []string{
			string(s.Key.Interest),
			string(s.Key.Risk),
			string(s.Key.Term),
			intToString(s.YearsProjected),
			intToString(s.LapseYear),
			s.FinalEndSI.StringFixed(2),
			s.FinalEndPAV.StringFixed(2),
			s.TotalPremium.StringFixed(2),
			s.TotalWithdrawals.StringFixed(2),
			s.TotalBonus.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
