package calculation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
	dec "github.com/ulproj/ul-projector/pkg/decimal"
)

// rollForward computes each year in order on the scenario's own buffer and
// returns the computed prefix. The first year whose planned deduction exceeds
// the account value is kept with DeductionFlag false and zero end account
// values; later years are dropped.
func rollForward(ctx context.Context, rows []domain.ProjectionRow, base *domain.PolicyBase, quote *PremiumQuote) ([]domain.ProjectionRow, error) {
	product := quote.Product
	optionA := base.DeathTPDOption == domain.DeathTPDOptionA
	accCoeff := decimal.NewFromInt(int64(base.AccBenCoeff))
	emLoad := base.Load.EMLoad
	pmLoad := decimal.NewFromInt(int64(base.Load.PMLoad))
	annualTP := quote.TP.Annual
	minPAV := product.MinPAVAfterWithdrawal(annualTP)
	one := decimal.NewFromInt(1)

	for i := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := &rows[i]

		// Start values
		if i == 0 {
			r.StartSI = base.SumInsured
			r.StartEAV = decimal.Zero
			r.StartTAV = decimal.Zero
			r.ContFlag = true
		} else {
			prev := &rows[i-1]
			r.StartSI = prev.EndSI
			r.StartEAV = prev.EndEAV
			r.StartTAV = prev.EndTAV
			r.ContFlag = prev.DeductionFlag
		}
		r.StartPAV = r.StartTAV.Add(r.StartEAV)

		r.SurrenderValue = dec.Max(r.StartTAV.Sub(r.SurrenderCharge), decimal.Zero).Add(r.StartEAV)

		if optionA {
			r.Benefit = dec.Max(r.StartSI, r.StartPAV).Mul(r.JuvenileLienRate)
		} else {
			r.Benefit = r.StartSI.Mul(r.JuvenileLienRate)
		}
		accFlag := dec.Flag(r.AccBenTermFlag)
		r.AccidentalBenefit = r.StartSI.Mul(accCoeff).Mul(accFlag)

		w := CalculateWithdrawal(WithdrawalRequest{
			Amount: r.WithdrawalInput,
			EAV:    r.StartEAV,
			TAV:    r.StartTAV,
			SI:     r.StartSI,
			Option: base.DeathTPDOption,
			MinPAV: minPAV,
			MinSI:  product.MinSumInsured,
		})
		r.Withdrawal = w.Withdrawal
		r.EAVWithdrawal = w.EAVWithdrawal
		r.TAVWithdrawal = w.TAVWithdrawal
		r.EndSI = w.EndSI
		r.Outcome = w.Outcome
		r.WithdrawalLog = w.Log()

		// Loads are charged on the benefit and grossed up for the EP allocation charge.
		riskFlag := dec.Flag(r.RiskFlag)
		loadBase := r.Benefit.Div(dec.Thousand).Div(one.Sub(r.EPAllocChargeRate))
		r.UnroundedEMLoad = quote.ExtraPremiumRate.Mul(emLoad).Mul(dec.Flag(r.EMLoadTermFlag)).Mul(riskFlag).Mul(loadBase)
		r.EMLoad = dec.CeilToThousand(r.UnroundedEMLoad)
		r.UnroundedPMLoad = pmLoad.Mul(dec.Flag(r.PMLoadTermFlag)).Mul(riskFlag).Mul(loadBase)
		r.PMLoad = dec.CeilToThousand(r.UnroundedPMLoad)
		r.Load = r.EMLoad.Add(r.PMLoad)
		r.LoadAllocCharge = r.Load.Mul(r.EPAllocChargeRate)
		r.LoadAlloc = r.Load.Sub(r.LoadAllocCharge)

		r.AllocCharge = dec.Sum(r.LoadAllocCharge, r.EPAllocCharge, r.TPAllocCharge)
		r.Alloc = dec.Sum(r.LoadAlloc, r.EPAlloc, r.TPAlloc)

		r.EAVAfterWithdrawalAlloc = r.StartEAV.Sub(r.EAVWithdrawal).Add(r.EPAlloc).Add(r.LoadAlloc)
		r.TAVAfterWithdrawalAlloc = r.StartTAV.Sub(r.TAVWithdrawal).Add(r.TPAlloc)
		r.PAVAfterWithdrawalAlloc = r.EAVAfterWithdrawalAlloc.Add(r.TAVAfterWithdrawalAlloc)

		if optionA {
			r.SAR = dec.Max(r.Benefit.Sub(r.StartPAV), decimal.Zero)
		} else {
			r.SAR = r.Benefit
		}

		r.StandardCOI = r.SAR.Mul(r.COIRate)
		r.EMLoadCOI = emLoad.Mul(r.StandardCOI).Mul(riskFlag)
		r.PMLoadCOI = pmLoad.Mul(r.SAR).Mul(riskFlag).Div(dec.Thousand)
		r.AccidentalCOI = r.AccidentalBenefit.Mul(product.MonthlyAccidentalCOIRate).Mul(accFlag).Mul(dec.Twelve)
		r.COI = dec.Sum(r.StandardCOI, r.EMLoadCOI, r.PMLoadCOI, r.AccidentalCOI)

		r.PlannedNominalDeduction = r.COI.Add(r.AdminCharge.Mul(dec.Twelve))
		r.PlannedDeduction = r.PlannedNominalDeduction.Mul(r.DueFactor)
		r.DeductionFlag = r.PlannedDeduction.LessThanOrEqual(r.PAVAfterWithdrawalAlloc)
		if !r.DeductionFlag {
			r.EndEAV = decimal.Zero
			r.EndTAV = decimal.Zero
			r.EndPAV = decimal.Zero
			return rows[:i+1], nil
		}

		r.NominalDeduction = r.PlannedNominalDeduction
		r.Deduction = r.PlannedDeduction
		r.TAVDeduction = dec.Min(r.TAVAfterWithdrawalAlloc, r.Deduction)
		r.EAVDeduction = r.Deduction.Sub(r.TAVDeduction)

		r.EAVInterest = r.EAVAfterWithdrawalAlloc.Sub(r.EAVDeduction).Mul(r.AnnualInterestRate)
		r.TAVInterest = r.TAVAfterWithdrawalAlloc.Sub(r.TAVDeduction).Mul(r.AnnualInterestRate)
		r.Interest = r.EAVInterest.Add(r.TAVInterest)

		if r.LoyaltyBonusRate.IsPositive() {
			r.LBReviewWithdrawals = trailingTAVWithdrawals(rows, i, product.LoyaltyReviewPeriod)
			r.LBFlag = r.LBReviewWithdrawals.IsZero()
		}
		r.LoyaltyBonus = r.LoyaltyBonusRate.Mul(annualTP).Mul(dec.Flag(r.LBFlag))

		r.SBRate = product.SpecialBonusRate(r.Year, r.StartSI)
		if r.SBRate.IsPositive() {
			r.SBReviewWithdrawals = trailingTAVWithdrawals(rows, i, product.SpecialBonusReviewPeriod)
			r.SBFlag = r.SBReviewWithdrawals.IsZero()
		}
		r.SpecialBonus = r.SBRate.Mul(annualTP).Mul(dec.Flag(r.SBFlag))
		r.Bonus = r.LoyaltyBonus.Add(r.SpecialBonus)

		r.EndEAV = r.EAVAfterWithdrawalAlloc.Sub(r.EAVDeduction).Add(r.EAVInterest)
		r.EndTAV = r.TAVAfterWithdrawalAlloc.Sub(r.TAVDeduction).Add(r.TAVInterest).Add(r.Bonus)
		r.EndPAV = r.EndEAV.Add(r.EndTAV)
	}
	return rows, nil
}

// trailingTAVWithdrawals sums TAV withdrawals over the window ending at index i,
// clipped at the first policy year.
func trailingTAVWithdrawals(rows []domain.ProjectionRow, i, window int) decimal.Decimal {
	from := max(i-window+1, 0)
	sum := decimal.Zero
	for j := from; j <= i; j++ {
		sum = sum.Add(rows[j].TAVWithdrawal)
	}
	return sum
}
