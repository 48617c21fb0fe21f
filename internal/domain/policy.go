package domain

import (
	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/pkg/dateutil"
)

// Policy is the top-level input document.
type Policy struct {
	ID          string     `yaml:"id" json:"id"`
	Owner       Owner      `yaml:"owner" json:"owner"`
	CreatedDate Date       `yaml:"created_date" json:"created_date"`
	Base        PolicyBase `yaml:"base" json:"base"`
}

// Owner is the policyholder.
type Owner struct {
	ID  string `yaml:"id" json:"id"`
	DOB Date   `yaml:"dob" json:"dob"`
}

// Insured is the life insured under the base coverage.
type Insured struct {
	ID     string `yaml:"id" json:"id"`
	DOB    Date   `yaml:"dob" json:"dob"`
	Gender Gender `yaml:"gender" json:"gender"`
}

// Load carries substandard-risk loads. EMLoad is a multiple of extra mortality,
// PMLoad is a per-mille load on the benefit.
type Load struct {
	EMLoad     decimal.Decimal `yaml:"em_load" json:"em_load"`
	EMLoadTerm int             `yaml:"em_load_term" json:"em_load_term"`
	PMLoad     int             `yaml:"pm_load" json:"pm_load"`
	PMLoadTerm int             `yaml:"pm_load_term" json:"pm_load_term"`
}

// FundAllocation splits target and excess premium across funds, in whole percent.
type FundAllocation struct {
	Fund  Fund `yaml:"fund" json:"fund"`
	TPPct int  `yaml:"tp_pct" json:"tp_pct"`
	EPPct int  `yaml:"ep_pct" json:"ep_pct"`
}

// WithdrawalRange schedules a level withdrawal for policy years From..To inclusive.
type WithdrawalRange struct {
	From   int             `yaml:"from" json:"from"`
	To     int             `yaml:"to" json:"to"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
}

// PolicyBase is the static input for one projection. The engine treats it as read-only.
type PolicyBase struct {
	ProductID      ProductID         `yaml:"product_id" json:"product_id"`
	RCD            Date              `yaml:"rcd" json:"rcd"`
	PayMode        PayMode           `yaml:"pay_mode" json:"pay_mode"`
	Insured        Insured           `yaml:"insured" json:"insured"`
	Load           Load              `yaml:"load" json:"load"`
	SumInsured     decimal.Decimal   `yaml:"sum_insured" json:"sum_insured"`
	OptedTPTerm    int               `yaml:"opted_tp_term" json:"opted_tp_term"`
	ExcessPremium  decimal.Decimal   `yaml:"excess_premium" json:"excess_premium"`
	OptedEPTerm    int               `yaml:"opted_ep_term" json:"opted_ep_term"`
	DeathTPDOption DeathTPDOption    `yaml:"death_tpd_option" json:"death_tpd_option"`
	MaturityOption int               `yaml:"maturity_option" json:"maturity_option"`
	AccBenCoeff    int               `yaml:"acc_ben_coeff" json:"acc_ben_coeff"`
	FundAllocation []FundAllocation  `yaml:"fund_allocation" json:"fund_allocation"`
	WithdrawalPlan []WithdrawalRange `yaml:"withdrawal_plan,omitempty" json:"withdrawal_plan,omitempty"`
}

// EntryAge is the insured's completed age at the risk-commencement date.
func (b *PolicyBase) EntryAge() (int, error) {
	return dateutil.AgeChecked(b.Insured.DOB.Time, b.RCD.Time)
}

// Term is maturity age minus entry age.
func (b *PolicyBase) Term(product ProductCapability) (int, error) {
	age, err := b.EntryAge()
	if err != nil {
		return 0, err
	}
	return product.MaturityAge(b.MaturityOption) - age, nil
}

// WithdrawalSchedule expands the withdrawal plan into a year -> amount map
// covering policy years 1..lastYear only.
func (b *PolicyBase) WithdrawalSchedule(lastYear int) map[int]decimal.Decimal {
	schedule := make(map[int]decimal.Decimal)
	for _, w := range b.WithdrawalPlan {
		for year := max(w.From, 1); year <= min(w.To, lastYear); year++ {
			schedule[year] = w.Amount
		}
	}
	return schedule
}

// HasEMLoad reports whether an extra-mortality load applies in any year.
func (b *PolicyBase) HasEMLoad() bool {
	return b.Load.EMLoad.IsPositive() && b.Load.EMLoadTerm > 0
}
