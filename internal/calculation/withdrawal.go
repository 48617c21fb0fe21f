package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/ulproj/ul-projector/internal/domain"
	dec "github.com/ulproj/ul-projector/pkg/decimal"
)

// WithdrawalRequest is a scheduled partial withdrawal checked against the
// start-of-year account values.
type WithdrawalRequest struct {
	Amount decimal.Decimal
	EAV    decimal.Decimal
	TAV    decimal.Decimal
	SI     decimal.Decimal
	Option domain.DeathTPDOption
	// MinPAV is the lowest account value the withdrawal may leave.
	MinPAV decimal.Decimal
	// MinSI is the lowest sum insured the withdrawal may leave.
	MinSI decimal.Decimal
}

// WithdrawalResult is the outcome of a withdrawal request. Rejected and empty
// requests carry zero amounts and the original SI.
type WithdrawalResult struct {
	Outcome       domain.WithdrawalOutcome
	Withdrawal    decimal.Decimal
	EAVWithdrawal decimal.Decimal
	TAVWithdrawal decimal.Decimal
	EndSI         decimal.Decimal
}

// Log is the fixed reason string for the outcome.
func (r WithdrawalResult) Log() string {
	return r.Outcome.Message()
}

// CalculateWithdrawal applies the withdrawal checks in priority order:
// nothing requested, more than the account value, account value left below
// the minimum, sum insured left below the minimum, otherwise accepted.
// EAV is drawn first.
func CalculateWithdrawal(req WithdrawalRequest) WithdrawalResult {
	unchanged := func(o domain.WithdrawalOutcome) WithdrawalResult {
		return WithdrawalResult{
			Outcome:       o,
			Withdrawal:    decimal.Zero,
			EAVWithdrawal: decimal.Zero,
			TAVWithdrawal: decimal.Zero,
			EndSI:         req.SI,
		}
	}

	if req.Amount.IsZero() {
		return unchanged(domain.WithdrawalNone)
	}

	pav := req.EAV.Add(req.TAV)
	if req.Amount.GreaterThan(pav) {
		return unchanged(domain.WithdrawalExceedsAccountValue)
	}

	eavW := dec.Min(req.EAV, req.Amount)
	tavW := req.Amount.Sub(eavW)
	endPAV := req.EAV.Sub(eavW).Add(req.TAV.Sub(tavW))
	if endPAV.LessThan(req.MinPAV) {
		return unchanged(domain.WithdrawalPAVBelowLimit)
	}

	endSI := req.SI
	if req.Option != domain.DeathTPDOptionA {
		endSI = dec.Max(pav, req.SI).Sub(req.Amount)
	}
	if endSI.LessThan(req.MinSI) {
		return unchanged(domain.WithdrawalSIBelowLimit)
	}

	return WithdrawalResult{
		Outcome:       domain.WithdrawalAccepted,
		Withdrawal:    req.Amount,
		EAVWithdrawal: eavW,
		TAVWithdrawal: tavW,
		EndSI:         endSI,
	}
}
