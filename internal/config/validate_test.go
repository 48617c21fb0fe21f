package config

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulproj/ul-projector/internal/domain"
	"github.com/ulproj/ul-projector/internal/ratetable"
)

func validPolicy() *domain.Policy {
	return &domain.Policy{
		ID:          "POL-1",
		Owner:       domain.Owner{ID: "OWN-1", DOB: domain.NewDate(1985, 4, 12)},
		CreatedDate: domain.NewDate(2023, 12, 20),
		Base: domain.PolicyBase{
			ProductID:      domain.ProductUVL01,
			RCD:            domain.NewDate(2024, 1, 1),
			PayMode:        domain.PayModeAnnual,
			Insured:        domain.Insured{ID: "INS-1", DOB: domain.NewDate(1990, 6, 15), Gender: domain.GenderMale},
			Load:           domain.Load{EMLoad: decimal.RequireFromString("0.5"), EMLoadTerm: 10, PMLoad: 2, PMLoadTerm: 5},
			SumInsured:     decimal.NewFromInt(100_000_000),
			OptedTPTerm:    20,
			ExcessPremium:  decimal.NewFromInt(5_000_000),
			OptedEPTerm:    10,
			DeathTPDOption: domain.DeathTPDOptionA,
			MaturityOption: 2,
			AccBenCoeff:    2,
			FundAllocation: []domain.FundAllocation{{Fund: domain.FundTraditional, TPPct: 100, EPPct: 100}},
			WithdrawalPlan: []domain.WithdrawalRange{{From: 5, To: 7, Amount: decimal.NewFromInt(3_000_000)}},
		},
	}
}

func TestValidatorAcceptsValidPolicy(t *testing.T) {
	v := NewValidator(ratetable.SampleBook())
	assert.NoError(t, v.Validate(validPolicy()))

	ilp := validPolicy()
	ilp.Base.ProductID = domain.ProductILP01
	ilp.Base.FundAllocation = []domain.FundAllocation{
		{Fund: "F001", TPPct: 70, EPPct: 20},
		{Fund: "F010", TPPct: 30, EPPct: 80},
	}
	assert.NoError(t, v.Validate(ilp))
}

func TestValidatorRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.Policy)
		field  string
	}{
		{"unsupported product", func(p *domain.Policy) { p.Base.ProductID = domain.ProductILP02 }, "base.product_id"},
		{"unknown pay mode", func(p *domain.Policy) { p.Base.PayMode = "Weekly" }, "base.pay_mode"},
		{"unknown gender", func(p *domain.Policy) { p.Base.Insured.Gender = "X" }, "base.insured.gender"},
		{"unknown option", func(p *domain.Policy) { p.Base.DeathTPDOption = "C" }, "base.death_tpd_option"},
		{"zero sum insured", func(p *domain.Policy) { p.Base.SumInsured = decimal.Zero }, "base.sum_insured"},
		{"negative excess premium", func(p *domain.Policy) { p.Base.ExcessPremium = decimal.NewFromInt(-1) }, "base.excess_premium"},
		{"missing RCD", func(p *domain.Policy) { p.Base.RCD = domain.Date{} }, "base.rcd"},
		{"insured born after RCD", func(p *domain.Policy) { p.Base.Insured.DOB = domain.NewDate(2024, 1, 2) }, "base.insured.dob"},
		{"owner born after creation", func(p *domain.Policy) { p.Owner.DOB = domain.NewDate(2024, 1, 1) }, "owner.dob"},
		{"maturity option 3", func(p *domain.Policy) { p.Base.MaturityOption = 3 }, "base.maturity_option"},
		{"acc ben coeff 0", func(p *domain.Policy) { p.Base.AccBenCoeff = 0 }, "base.acc_ben_coeff"},
		{"acc ben coeff 6", func(p *domain.Policy) { p.Base.AccBenCoeff = 6 }, "base.acc_ben_coeff"},
		{"entry age above maximum", func(p *domain.Policy) { p.Base.Insured.DOB = domain.NewDate(1960, 1, 1) }, "base.insured.dob"},
		{"em load above 2.5", func(p *domain.Policy) { p.Base.Load.EMLoad = decimal.RequireFromString("3.5") }, "base.load.em_load"},
		{"em load off step", func(p *domain.Policy) { p.Base.Load.EMLoad = decimal.RequireFromString("2.15") }, "base.load.em_load"},
		{"negative em load", func(p *domain.Policy) { p.Base.Load.EMLoad = decimal.RequireFromString("-0.25") }, "base.load.em_load"},
		{"pm load above 15", func(p *domain.Policy) { p.Base.Load.PMLoad = 18 }, "base.load.pm_load"},
		{"em load term beyond policy term", func(p *domain.Policy) { p.Base.Load.EMLoadTerm = 34 }, "base.load.em_load_term"},
		{"negative pm load term", func(p *domain.Policy) { p.Base.Load.PMLoadTerm = -1 }, "base.load.pm_load_term"},
		{"opted TP term beyond policy term", func(p *domain.Policy) { p.Base.OptedTPTerm = 34 }, "base.opted_tp_term"},
		{"opted EP term beyond TP term", func(p *domain.Policy) { p.Base.OptedEPTerm = 21 }, "base.opted_ep_term"},
		{"opted EP term below must-pay", func(p *domain.Policy) { p.Base.OptedEPTerm = 3 }, "base.opted_ep_term"},
		{"no funds", func(p *domain.Policy) { p.Base.FundAllocation = nil }, "base.fund_allocation"},
		{"UVL with a unit-linked fund", func(p *domain.Policy) { p.Base.FundAllocation[0].Fund = "F001" }, "base.fund_allocation"},
		{"UVL with two funds", func(p *domain.Policy) {
			p.Base.FundAllocation = append(p.Base.FundAllocation, domain.FundAllocation{Fund: domain.FundTraditional})
		}, "base.fund_allocation"},
		{"allocation short of 100", func(p *domain.Policy) { p.Base.FundAllocation[0].TPPct = 90 }, "base.fund_allocation"},
		{"withdrawal before start year", func(p *domain.Policy) { p.Base.WithdrawalPlan[0].From = 1 }, "base.withdrawal_plan"},
		{"withdrawal from after to", func(p *domain.Policy) { p.Base.WithdrawalPlan[0].To = 4 }, "base.withdrawal_plan"},
		{"withdrawal beyond policy term", func(p *domain.Policy) { p.Base.WithdrawalPlan[0].To = 34 }, "base.withdrawal_plan"},
		{"withdrawal range far past maturity", func(p *domain.Policy) { p.Base.WithdrawalPlan[0].To = 2_000_000_000 }, "base.withdrawal_plan"},
		{"negative withdrawal", func(p *domain.Policy) { p.Base.WithdrawalPlan[0].Amount = decimal.NewFromInt(-5) }, "base.withdrawal_plan"},
		{"overlapping withdrawals", func(p *domain.Policy) {
			p.Base.WithdrawalPlan = append(p.Base.WithdrawalPlan, domain.WithdrawalRange{From: 7, To: 9, Amount: decimal.NewFromInt(1)})
		}, "base.withdrawal_plan"},
	}

	v := NewValidator(ratetable.SampleBook())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPolicy()
			tt.mutate(p)
			err := v.Validate(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidatorILPFunds(t *testing.T) {
	v := NewValidator(ratetable.SampleBook())

	p := validPolicy()
	p.Base.ProductID = domain.ProductILP01
	p.Base.FundAllocation = []domain.FundAllocation{
		{Fund: "F011", TPPct: 100, EPPct: 100},
	}
	err := v.Validate(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fund")

	p.Base.FundAllocation = []domain.FundAllocation{
		{Fund: "F002", TPPct: 50, EPPct: 100},
		{Fund: "F003", TPPct: 50, EPPct: 10},
	}
	err = v.Validate(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EP allocation sums to 110%")
}

func TestValidatorMissingAgeBounds(t *testing.T) {
	book := ratetable.NewBook()
	v := NewValidator(book)

	err := v.Validate(validPolicy())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	assert.False(t, errors.Is(err, domain.ErrValidation))
}

func TestValidatorNilPolicy(t *testing.T) {
	err := NewValidator(ratetable.SampleBook()).Validate(nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
