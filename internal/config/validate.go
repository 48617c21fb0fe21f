package config

import (
	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

var (
	maxEMLoad    = decimal.RequireFromString("2.5")
	emLoadStep   = decimal.RequireFromString("0.25")
	maxPMLoad    = 15
	maxAccCoeff  = 5
	fullAllocPct = 100
)

// Validator checks policy input before projection. Every rule violation is a
// *domain.ValidationError; unresolvable rate data is returned unchanged.
type Validator struct {
	rates ratetable.Provider
}

// NewValidator creates a validator reading age bounds from rates.
func NewValidator(rates ratetable.Provider) *Validator {
	return &Validator{rates: rates}
}

// Validate checks a policy document.
func (v *Validator) Validate(policy *domain.Policy) error {
	if policy == nil {
		return domain.NewValidationError("", "policy is required")
	}
	if !policy.Owner.DOB.IsZero() && !policy.CreatedDate.IsZero() && policy.Owner.DOB.After(policy.CreatedDate.Time) {
		return domain.NewValidationError("owner.dob", "owner DOB %s cannot be after created date %s", policy.Owner.DOB, policy.CreatedDate)
	}
	return v.ValidateBase(&policy.Base)
}

// ValidateBase checks the base coverage. Checks run in a fixed order and the
// first failure is returned.
func (v *Validator) ValidateBase(base *domain.PolicyBase) error {
	product, err := domain.LookupProduct(base.ProductID)
	if err != nil {
		return domain.NewValidationError("base.product_id", "unsupported product %q", base.ProductID)
	}
	if err := validateEnums(base); err != nil {
		return err
	}

	if !base.SumInsured.IsPositive() {
		return domain.NewValidationError("base.sum_insured", "sum insured must be positive")
	}
	if base.ExcessPremium.IsNegative() {
		return domain.NewValidationError("base.excess_premium", "excess premium cannot be negative")
	}

	if base.RCD.IsZero() {
		return domain.NewValidationError("base.rcd", "risk commencement date is required")
	}
	if base.Insured.DOB.IsZero() {
		return domain.NewValidationError("base.insured.dob", "insured DOB is required")
	}
	if base.Insured.DOB.After(base.RCD.Time) {
		return domain.NewValidationError("base.insured.dob", "insured DOB %s cannot be after RCD %s", base.Insured.DOB, base.RCD)
	}

	if base.MaturityOption != 1 && base.MaturityOption != 2 {
		return domain.NewValidationError("base.maturity_option", "maturity option must be 1 or 2, got %d", base.MaturityOption)
	}
	if base.AccBenCoeff < 1 || base.AccBenCoeff > maxAccCoeff {
		return domain.NewValidationError("base.acc_ben_coeff", "accidental benefit coefficient must be between 1 and %d, got %d", maxAccCoeff, base.AccBenCoeff)
	}

	entryAge, err := base.EntryAge()
	if err != nil {
		return domain.NewValidationError("base.insured.dob", "%v", err)
	}
	if err := v.validateAges(base, product, entryAge); err != nil {
		return err
	}

	term := product.MaturityAge(base.MaturityOption) - entryAge
	if term <= 0 {
		return domain.NewValidationError("base.maturity_option", "entry age %d leaves no policy term", entryAge)
	}

	if err := validateLoad(base.Load, term); err != nil {
		return err
	}
	if err := validateTerms(base, product, term); err != nil {
		return err
	}
	if err := validateFunds(base.FundAllocation, product); err != nil {
		return err
	}
	return validateWithdrawals(base.WithdrawalPlan, product, term)
}

func validateEnums(base *domain.PolicyBase) error {
	switch base.PayMode {
	case domain.PayModeAnnual, domain.PayModeSemiAnnual, domain.PayModeQuarterly, domain.PayModeMonthly:
	default:
		return domain.NewValidationError("base.pay_mode", "unknown pay mode %q", base.PayMode)
	}
	switch base.Insured.Gender {
	case domain.GenderUnknown, domain.GenderMale, domain.GenderFemale, domain.GenderNotApplicable:
	default:
		return domain.NewValidationError("base.insured.gender", "unknown gender %q", base.Insured.Gender)
	}
	switch base.DeathTPDOption {
	case domain.DeathTPDOptionA, domain.DeathTPDOptionB:
	default:
		return domain.NewValidationError("base.death_tpd_option", "death/TPD option must be A or B, got %q", base.DeathTPDOption)
	}
	return nil
}

func (v *Validator) validateAges(base *domain.PolicyBase, product domain.ProductCapability, entryAge int) error {
	bounds, err := v.rates.AgeBounds(base.ProductID)
	if err != nil {
		return err
	}
	if bounds.MinEntryAge != ratetable.ManualIntervention && entryAge < bounds.MinEntryAge {
		return domain.NewValidationError("base.insured.dob", "entry age %d is below the minimum %d", entryAge, bounds.MinEntryAge)
	}
	if bounds.MaxEntryAge != ratetable.ManualIntervention && entryAge > bounds.MaxEntryAge {
		return domain.NewValidationError("base.insured.dob", "entry age %d is above the maximum %d", entryAge, bounds.MaxEntryAge)
	}
	maturity := product.MaturityAge(base.MaturityOption)
	if bounds.MaturityAge != ratetable.ManualIntervention && maturity > bounds.MaturityAge {
		return domain.NewValidationError("base.maturity_option", "maturity age %d is above the maximum %d", maturity, bounds.MaturityAge)
	}
	return nil
}

func validateLoad(load domain.Load, term int) error {
	if load.EMLoad.IsNegative() || load.EMLoad.GreaterThan(maxEMLoad) {
		return domain.NewValidationError("base.load.em_load", "EM load must be between 0 and %s, got %s", maxEMLoad, load.EMLoad)
	}
	if !load.EMLoad.Mod(emLoadStep).IsZero() {
		return domain.NewValidationError("base.load.em_load", "EM load %s is not a multiple of %s", load.EMLoad, emLoadStep)
	}
	if load.PMLoad < 0 || load.PMLoad > maxPMLoad {
		return domain.NewValidationError("base.load.pm_load", "PM load must be between 0 and %d, got %d", maxPMLoad, load.PMLoad)
	}
	if load.EMLoadTerm < 0 || load.EMLoadTerm > term {
		return domain.NewValidationError("base.load.em_load_term", "EM load term %d must be between 0 and policy term %d", load.EMLoadTerm, term)
	}
	if load.PMLoadTerm < 0 || load.PMLoadTerm > term {
		return domain.NewValidationError("base.load.pm_load_term", "PM load term %d must be between 0 and policy term %d", load.PMLoadTerm, term)
	}
	return nil
}

func validateTerms(base *domain.PolicyBase, product domain.ProductCapability, term int) error {
	if base.OptedTPTerm > term {
		return domain.NewValidationError("base.opted_tp_term", "opted TP term %d cannot be greater than policy term %d", base.OptedTPTerm, term)
	}
	if base.OptedEPTerm > base.OptedTPTerm {
		return domain.NewValidationError("base.opted_ep_term", "opted EP term %d cannot be greater than opted TP term %d", base.OptedEPTerm, base.OptedTPTerm)
	}
	if base.OptedEPTerm < product.MustPayPeriod {
		return domain.NewValidationError("base.opted_ep_term", "opted EP term %d cannot be less than must-pay period %d", base.OptedEPTerm, product.MustPayPeriod)
	}
	return nil
}

func validateFunds(funds []domain.FundAllocation, product domain.ProductCapability) error {
	if len(funds) == 0 {
		return domain.NewValidationError("base.fund_allocation", "at least one fund is required")
	}
	if product.SingleTraditionalFund && (len(funds) != 1 || funds[0].Fund != domain.FundTraditional) {
		return domain.NewValidationError("base.fund_allocation", "fund allocation must contain exactly one entry: %q", domain.FundTraditional)
	}

	tpTotal, epTotal := 0, 0
	for _, f := range funds {
		if !f.Fund.IsValid() {
			return domain.NewValidationError("base.fund_allocation", "unknown fund %q", f.Fund)
		}
		if f.TPPct < 0 || f.TPPct > fullAllocPct || f.EPPct < 0 || f.EPPct > fullAllocPct {
			return domain.NewValidationError("base.fund_allocation", "fund %s percentages must be between 0 and 100", f.Fund)
		}
		tpTotal += f.TPPct
		epTotal += f.EPPct
	}
	if tpTotal != fullAllocPct {
		return domain.NewValidationError("base.fund_allocation", "TP allocation sums to %d%%, want 100%%", tpTotal)
	}
	if epTotal != fullAllocPct {
		return domain.NewValidationError("base.fund_allocation", "EP allocation sums to %d%%, want 100%%", epTotal)
	}
	return nil
}

func validateWithdrawals(plan []domain.WithdrawalRange, product domain.ProductCapability, term int) error {
	if len(plan) == 0 {
		return nil
	}
	if plan[0].From < product.WithdrawalStartYear {
		return domain.NewValidationError("base.withdrawal_plan", "withdrawal must start from year %d, got %d", product.WithdrawalStartYear, plan[0].From)
	}
	prevTo := 0
	for i, w := range plan {
		if w.From > w.To {
			return domain.NewValidationError("base.withdrawal_plan", "entry %d: from %d is after to %d", i, w.From, w.To)
		}
		if w.To > term {
			return domain.NewValidationError("base.withdrawal_plan", "entry %d: to %d is beyond policy term %d", i, w.To, term)
		}
		if w.Amount.IsNegative() {
			return domain.NewValidationError("base.withdrawal_plan", "entry %d: amount cannot be negative", i)
		}
		if i > 0 && w.From <= prevTo {
			return domain.NewValidationError("base.withdrawal_plan", "entry %d overlaps the previous range ending in year %d", i, prevTo)
		}
		prevTo = w.To
	}
	return nil
}
