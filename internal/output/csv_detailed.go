package output

import (
	"bytes"
	"encoding/csv"

	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
)

type rowColumn struct {
	name  string
	value func(r *domain.ProjectionRow) string
}

func decimalColumn(name string, get func(r *domain.ProjectionRow) decimal.Decimal) rowColumn {
	return rowColumn{name, func(r *domain.ProjectionRow) string { return get(r).String() }}
}

func flagColumn(name string, get func(r *domain.ProjectionRow) bool) rowColumn {
	return rowColumn{name, func(r *domain.ProjectionRow) string { return boolToString(get(r)) }}
}

// detailedColumns follow the rollforward order. Decimals are written unrounded.
var detailedColumns = []rowColumn{
	{"interest_rate_scenario", func(r *domain.ProjectionRow) string { return string(r.Scenario.Interest) }},
	{"risk_scenario", func(r *domain.ProjectionRow) string { return string(r.Scenario.Risk) }},
	{"term_tag", func(r *domain.ProjectionRow) string { return r.TermTag }},
	{"year", func(r *domain.ProjectionRow) string { return intToString(r.Year) }},
	{"age", func(r *domain.ProjectionRow) string { return intToString(r.Age) }},
	{"cal_year", func(r *domain.ProjectionRow) string { return intToString(r.CalendarYear) }},
	flagColumn("acc_ben_term_flag", func(r *domain.ProjectionRow) bool { return r.AccBenTermFlag }),
	flagColumn("tp_term_flag", func(r *domain.ProjectionRow) bool { return r.TPTermFlag }),
	flagColumn("ep_term_flag", func(r *domain.ProjectionRow) bool { return r.EPTermFlag }),
	flagColumn("risk_flag", func(r *domain.ProjectionRow) bool { return r.RiskFlag }),
	decimalColumn("annual_int_rate", func(r *domain.ProjectionRow) decimal.Decimal { return r.AnnualInterestRate }),
	decimalColumn("due_a_n1_m12", func(r *domain.ProjectionRow) decimal.Decimal { return r.DueFactor }),
	decimalColumn("coi_rate", func(r *domain.ProjectionRow) decimal.Decimal { return r.COIRate }),
	decimalColumn("tp", func(r *domain.ProjectionRow) decimal.Decimal { return r.TP }),
	decimalColumn("ep", func(r *domain.ProjectionRow) decimal.Decimal { return r.EP }),
	decimalColumn("srr_chrg", func(r *domain.ProjectionRow) decimal.Decimal { return r.SurrenderCharge }),
	decimalColumn("tp_alloc", func(r *domain.ProjectionRow) decimal.Decimal { return r.TPAlloc }),
	decimalColumn("ep_alloc", func(r *domain.ProjectionRow) decimal.Decimal { return r.EPAlloc }),
	flagColumn("cont_flag", func(r *domain.ProjectionRow) bool { return r.ContFlag }),
	decimalColumn("start_si", func(r *domain.ProjectionRow) decimal.Decimal { return r.StartSI }),
	decimalColumn("start_eav", func(r *domain.ProjectionRow) decimal.Decimal { return r.StartEAV }),
	decimalColumn("start_tav", func(r *domain.ProjectionRow) decimal.Decimal { return r.StartTAV }),
	decimalColumn("start_pav", func(r *domain.ProjectionRow) decimal.Decimal { return r.StartPAV }),
	decimalColumn("srr_val", func(r *domain.ProjectionRow) decimal.Decimal { return r.SurrenderValue }),
	decimalColumn("ben", func(r *domain.ProjectionRow) decimal.Decimal { return r.Benefit }),
	decimalColumn("acc_ben", func(r *domain.ProjectionRow) decimal.Decimal { return r.AccidentalBenefit }),
	decimalColumn("withdrawal", func(r *domain.ProjectionRow) decimal.Decimal { return r.Withdrawal }),
	decimalColumn("eav_withdrawal", func(r *domain.ProjectionRow) decimal.Decimal { return r.EAVWithdrawal }),
	decimalColumn("tav_withdrawal", func(r *domain.ProjectionRow) decimal.Decimal { return r.TAVWithdrawal }),
	{"withdrawal_log", func(r *domain.ProjectionRow) string { return r.WithdrawalLog }},
	decimalColumn("em_load", func(r *domain.ProjectionRow) decimal.Decimal { return r.EMLoad }),
	decimalColumn("pm_load", func(r *domain.ProjectionRow) decimal.Decimal { return r.PMLoad }),
	decimalColumn("load_alloc", func(r *domain.ProjectionRow) decimal.Decimal { return r.LoadAlloc }),
	decimalColumn("alloc_chrg", func(r *domain.ProjectionRow) decimal.Decimal { return r.AllocCharge }),
	decimalColumn("pav_after_wdrl_and_alloc", func(r *domain.ProjectionRow) decimal.Decimal { return r.PAVAfterWithdrawalAlloc }),
	decimalColumn("sar", func(r *domain.ProjectionRow) decimal.Decimal { return r.SAR }),
	decimalColumn("coi", func(r *domain.ProjectionRow) decimal.Decimal { return r.COI }),
	decimalColumn("admin_chrg", func(r *domain.ProjectionRow) decimal.Decimal { return r.AdminCharge }),
	decimalColumn("plan_deduction", func(r *domain.ProjectionRow) decimal.Decimal { return r.PlannedDeduction }),
	flagColumn("deduction_flag", func(r *domain.ProjectionRow) bool { return r.DeductionFlag }),
	decimalColumn("deduction", func(r *domain.ProjectionRow) decimal.Decimal { return r.Deduction }),
	decimalColumn("int", func(r *domain.ProjectionRow) decimal.Decimal { return r.Interest }),
	decimalColumn("lb", func(r *domain.ProjectionRow) decimal.Decimal { return r.LoyaltyBonus }),
	decimalColumn("sb", func(r *domain.ProjectionRow) decimal.Decimal { return r.SpecialBonus }),
	decimalColumn("end_si", func(r *domain.ProjectionRow) decimal.Decimal { return r.EndSI }),
	decimalColumn("end_eav", func(r *domain.ProjectionRow) decimal.Decimal { return r.EndEAV }),
	decimalColumn("end_tav", func(r *domain.ProjectionRow) decimal.Decimal { return r.EndTAV }),
	decimalColumn("end_pav", func(r *domain.ProjectionRow) decimal.Decimal { return r.EndPAV }),
}

// CSVDetailedExporter writes every projection row of every scenario.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := make([]string, len(detailedColumns))
	for i, col := range detailedColumns {
		header[i] = col.name
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	rows := results.Rows()
	for i := range rows {
		record := make([]string, len(detailedColumns))
		for j, col := range detailedColumns {
			record[j] = col.value(&rows[i])
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
