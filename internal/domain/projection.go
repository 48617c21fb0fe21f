package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimelineRow is one in-force policy year with its static flags and joined rates.
// Built once per policy and shared read-only by every scenario.
type TimelineRow struct {
	Year           int  `json:"year"`
	Age            int  `json:"age"`
	CalendarYear   int  `json:"cal_year"`
	PolicyTermFlag bool `json:"pol_term_flag"`
	AccBenTermFlag bool `json:"acc_ben_term_flag"`
	EMLoadTermFlag bool `json:"em_load_term_flag"`
	PMLoadTermFlag bool `json:"pm_load_term_flag"`

	WithdrawalInput     decimal.Decimal `json:"withdrawal_input"`
	TPAllocChargeRate   decimal.Decimal `json:"tp_alloc_chrg_rate"`
	EPAllocChargeRate   decimal.Decimal `json:"ep_alloc_chrg_rate"`
	SurrenderChargeRate decimal.Decimal `json:"srr_chrg_rate"`
	LoyaltyBonusRate    decimal.Decimal `json:"lb_rate"`
	COIRate             decimal.Decimal `json:"coi_rate"`
	JuvenileLienRate    decimal.Decimal `json:"juvenile_lien_rate"`
	AdminCharge         decimal.Decimal `json:"admin_chrg"`
}

// ProjectionRow is one (scenario, year) record of the rollforward.
type ProjectionRow struct {
	Scenario ScenarioKey `json:"scenario"`
	TermTag  string      `json:"term_tag"`
	TimelineRow

	// Scenario parameters
	AnnualInterestRate decimal.Decimal `json:"annual_int_rate"`
	DueFactor          decimal.Decimal `json:"due_a_n1_m12"`
	TPTermFlag         bool            `json:"tp_term_flag"`
	EPTermFlag         bool            `json:"ep_term_flag"`
	RiskFlag           bool            `json:"risk_flag"`
	TP                 decimal.Decimal `json:"tp"`
	EP                 decimal.Decimal `json:"ep"`
	SurrenderCharge    decimal.Decimal `json:"srr_chrg"`
	TPAllocCharge      decimal.Decimal `json:"tp_alloc_chrg"`
	EPAllocCharge      decimal.Decimal `json:"ep_alloc_chrg"`
	TPAlloc            decimal.Decimal `json:"tp_alloc"`
	EPAlloc            decimal.Decimal `json:"ep_alloc"`

	// Start values
	ContFlag bool            `json:"cont_flag"`
	StartSI  decimal.Decimal `json:"start_si"`
	StartEAV decimal.Decimal `json:"start_eav"`
	StartTAV decimal.Decimal `json:"start_tav"`
	StartPAV decimal.Decimal `json:"start_pav"`

	SurrenderValue    decimal.Decimal `json:"srr_val"`
	Benefit           decimal.Decimal `json:"ben"`
	AccidentalBenefit decimal.Decimal `json:"acc_ben"`

	// Withdrawal
	Withdrawal    decimal.Decimal   `json:"withdrawal"`
	EAVWithdrawal decimal.Decimal   `json:"eav_withdrawal"`
	TAVWithdrawal decimal.Decimal   `json:"tav_withdrawal"`
	WithdrawalLog string            `json:"withdrawal_log"`
	Outcome       WithdrawalOutcome `json:"-"`

	// Loads and allocation
	UnroundedEMLoad decimal.Decimal `json:"unrounded_em_load"`
	UnroundedPMLoad decimal.Decimal `json:"unrounded_pm_load"`
	EMLoad          decimal.Decimal `json:"em_load"`
	PMLoad          decimal.Decimal `json:"pm_load"`
	Load            decimal.Decimal `json:"load"`
	LoadAllocCharge decimal.Decimal `json:"load_alloc_chrg"`
	LoadAlloc       decimal.Decimal `json:"load_alloc"`
	AllocCharge     decimal.Decimal `json:"alloc_chrg"`
	Alloc           decimal.Decimal `json:"alloc"`

	EAVAfterWithdrawalAlloc decimal.Decimal `json:"eav_after_wdrl_and_alloc"`
	TAVAfterWithdrawalAlloc decimal.Decimal `json:"tav_after_wdrl_and_alloc"`
	PAVAfterWithdrawalAlloc decimal.Decimal `json:"pav_after_wdrl_and_alloc"`

	// Cost of insurance
	SAR           decimal.Decimal `json:"sar"`
	StandardCOI   decimal.Decimal `json:"standard_coi"`
	EMLoadCOI     decimal.Decimal `json:"em_load_coi"`
	PMLoadCOI     decimal.Decimal `json:"pm_load_coi"`
	AccidentalCOI decimal.Decimal `json:"acc_coi"`
	COI           decimal.Decimal `json:"coi"`

	// Deduction
	PlannedNominalDeduction decimal.Decimal `json:"plan_nom_deduction"`
	PlannedDeduction        decimal.Decimal `json:"plan_deduction"`
	DeductionFlag           bool            `json:"deduction_flag"`
	NominalDeduction        decimal.Decimal `json:"nom_deduction"`
	Deduction               decimal.Decimal `json:"deduction"`
	TAVDeduction            decimal.Decimal `json:"tav_deduction"`
	EAVDeduction            decimal.Decimal `json:"eav_deduction"`

	// Interest
	EAVInterest decimal.Decimal `json:"eav_int"`
	TAVInterest decimal.Decimal `json:"tav_int"`
	Interest    decimal.Decimal `json:"int"`

	// Bonus
	LBReviewWithdrawals decimal.Decimal `json:"lb_tav_withdrawal_review"`
	LBFlag              bool            `json:"lb_flag"`
	LoyaltyBonus        decimal.Decimal `json:"lb"`
	SBRate              decimal.Decimal `json:"sb_rate"`
	SBReviewWithdrawals decimal.Decimal `json:"sb_tav_withdrawal_review"`
	SBFlag              bool            `json:"sb_flag"`
	SpecialBonus        decimal.Decimal `json:"sb"`
	Bonus               decimal.Decimal `json:"bonus"`

	// End values
	EndSI  decimal.Decimal `json:"end_si"`
	EndEAV decimal.Decimal `json:"end_eav"`
	EndTAV decimal.Decimal `json:"end_tav"`
	EndPAV decimal.Decimal `json:"end_pav"`
}

// ScenarioProjection holds the computed years of one scenario.
// Rows stop at the first year whose deduction test fails; that year is included.
type ScenarioProjection struct {
	Key  ScenarioKey     `json:"key"`
	Rows []ProjectionRow `json:"rows"`
}

// Lapsed reports whether the scenario ended on a failed deduction test.
func (sp *ScenarioProjection) Lapsed() bool {
	return len(sp.Rows) > 0 && !sp.Rows[len(sp.Rows)-1].DeductionFlag
}

// ScenarioSummary condenses a scenario for reports.
type ScenarioSummary struct {
	Key              ScenarioKey     `json:"key"`
	YearsProjected   int             `json:"years_projected"`
	LapseYear        int             `json:"lapse_year"`
	FinalEndSI       decimal.Decimal `json:"final_end_si"`
	FinalEndPAV      decimal.Decimal `json:"final_end_pav"`
	TotalPremium     decimal.Decimal `json:"total_premium"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	TotalBonus       decimal.Decimal `json:"total_bonus"`
}

// Summary derives the scenario summary from its rows.
// Final values come from the last year that passed its deduction test.
func (sp *ScenarioProjection) Summary() ScenarioSummary {
	s := ScenarioSummary{
		Key:              sp.Key,
		YearsProjected:   len(sp.Rows),
		FinalEndSI:       decimal.Zero,
		FinalEndPAV:      decimal.Zero,
		TotalPremium:     decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		TotalBonus:       decimal.Zero,
	}
	for _, r := range sp.Rows {
		s.TotalPremium = s.TotalPremium.Add(r.TP).Add(r.EP).Add(r.Load)
		s.TotalWithdrawals = s.TotalWithdrawals.Add(r.Withdrawal)
		s.TotalBonus = s.TotalBonus.Add(r.Bonus)
		if r.DeductionFlag {
			s.FinalEndSI = r.EndSI
			s.FinalEndPAV = r.EndPAV
		} else {
			s.LapseYear = r.Year
		}
	}
	return s
}

// ProjectionResult is the merged output of all scenarios for one policy.
type ProjectionResult struct {
	PolicyID      string               `json:"policy_id,omitempty"`
	Product       ProductID            `json:"product"`
	EntryAge      int                  `json:"entry_age"`
	EntryMonthAge *int                 `json:"entry_month_age,omitempty"`
	Term          int                  `json:"term"`
	AnnualTP      decimal.Decimal      `json:"annual_tp"`
	AnnualEP      decimal.Decimal      `json:"annual_ep"`
	GeneratedAt   time.Time            `json:"generated_at"`
	Scenarios     []ScenarioProjection `json:"scenarios"`
}

// Rows concatenates every scenario's rows in enumeration order.
func (r *ProjectionResult) Rows() []ProjectionRow {
	n := 0
	for i := range r.Scenarios {
		n += len(r.Scenarios[i].Rows)
	}
	rows := make([]ProjectionRow, 0, n)
	for i := range r.Scenarios {
		rows = append(rows, r.Scenarios[i].Rows...)
	}
	return rows
}

// Summaries returns one summary per scenario in enumeration order.
func (r *ProjectionResult) Summaries() []ScenarioSummary {
	out := make([]ScenarioSummary, 0, len(r.Scenarios))
	for i := range r.Scenarios {
		out = append(out, r.Scenarios[i].Summary())
	}
	return out
}

// Scenario returns the projection for a key, or nil.
func (r *ProjectionResult) Scenario(key ScenarioKey) *ScenarioProjection {
	for i := range r.Scenarios {
		if r.Scenarios[i].Key == key {
			return &r.Scenarios[i]
		}
	}
	return nil
}
