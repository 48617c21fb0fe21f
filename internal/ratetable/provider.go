// Package ratetable resolves the product-keyed rates a projection consumes.
package ratetable

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
)

// ManualIntervention disables an age-validation bound.
const ManualIntervention = -1

// Provider resolves product/age/year-keyed rates. Implementations are read-only.
type Provider interface {
	TPAllocationChargeRates(product domain.ProductID) (*Table, error)
	EPAllocationChargeRates(product domain.ProductID) (*Table, error)
	SurrenderChargeRates(product domain.ProductID) (*Table, error)
	LoyaltyBonusRates(product domain.ProductID) (*Table, error)
	COIRates(product domain.ProductID, gender domain.Gender) (*Table, error)
	JuvenileLienFactors(product domain.ProductID) (*Table, error)
	AdminCharges(product domain.ProductID) (*Table, error)
	ExtraPremiumRate(product domain.ProductID, gender domain.Gender, age, term int) (decimal.Decimal, error)
	PremiumRate(product domain.ProductID, gender domain.Gender, age int) (decimal.Decimal, error)
	ModalFactors(product domain.ProductID) (ModalFactors, error)
	InterestRates(product domain.ProductID) (InterestRates, error)
	AgeBounds(product domain.ProductID) (AgeBounds, error)
}

// Table maps a key (policy year, attained age or calendar year) to a rate.
// Keys that are absent resolve to Default.
type Table struct {
	Name    string
	Default decimal.Decimal
	Values  map[int]decimal.Decimal
}

// NewTable creates an empty table with a default.
func NewTable(name string, def decimal.Decimal) *Table {
	return &Table{Name: name, Default: def, Values: make(map[int]decimal.Decimal)}
}

// Set stores a rate for a key.
func (t *Table) Set(key int, rate decimal.Decimal) {
	t.Values[key] = rate
}

// Lookup returns the rate for key or the table default.
func (t *Table) Lookup(key int) decimal.Decimal {
	if v, ok := t.Values[key]; ok {
		return v
	}
	return t.Default
}

// Keys returns the populated keys in ascending order.
func (t *Table) Keys() []int {
	keys := make([]int, 0, len(t.Values))
	for k := range t.Values {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := NewTable(t.Name, t.Default)
	for k, v := range t.Values {
		c.Values[k] = v
	}
	return c
}

// ModalFactors convert an annual premium to each payment mode.
type ModalFactors struct {
	Annual     decimal.Decimal `json:"annual"`
	SemiAnnual decimal.Decimal `json:"semi_annual"`
	Quarterly  decimal.Decimal `json:"quarterly"`
	Monthly    decimal.Decimal `json:"monthly"`
}

// For returns the factor of a pay mode.
func (m ModalFactors) For(mode domain.PayMode) decimal.Decimal {
	switch mode {
	case domain.PayModeSemiAnnual:
		return m.SemiAnnual
	case domain.PayModeQuarterly:
		return m.Quarterly
	case domain.PayModeMonthly:
		return m.Monthly
	default:
		return m.Annual
	}
}

// InterestRates are the annual crediting rates per interest scenario.
type InterestRates struct {
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Guaranteed decimal.Decimal `json:"guaranteed"`
}

// For returns the rate of an interest scenario.
func (r InterestRates) For(s domain.InterestScenario) decimal.Decimal {
	switch s {
	case domain.InterestHigh:
		return r.High
	case domain.InterestLow:
		return r.Low
	default:
		return r.Guaranteed
	}
}

// AgeBounds are entry-age limits and the maximum maturity age.
// ManualIntervention (-1) means the bound is not checked automatically.
type AgeBounds struct {
	MinEntryAge int `json:"min_entry_age"`
	MaxEntryAge int `json:"max_entry_age"`
	MaturityAge int `json:"maturity_age"`
}

// Table names and their documented defaults.
const (
	TableTPAllocCharge   = "tp_alloc_charge"
	TableEPAllocCharge   = "ep_alloc_charge"
	TableSurrenderCharge = "surrender_charge"
	TableLoyaltyBonus    = "loyalty_bonus"
	TableCOI             = "coi"
	TableJuvenileLien    = "juvenile_lien"
	TableAdminCharge     = "admin_charge"
	TablePremiumRate     = "premium_rate"
	TableExtraPremium    = "extra_premium_rate"
	TableModalFactor     = "modal_factor"
	TableInterestRate    = "interest_rate"
	TableAgeValidation   = "age_validation"
)

// DefaultFor returns the lookup default of a per-key table.
func DefaultFor(table string) decimal.Decimal {
	if table == TableJuvenileLien {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}
