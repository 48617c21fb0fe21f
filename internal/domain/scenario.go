package domain

import (
	"fmt"
	"strings"
)

// ScenarioKey identifies one of the 18 projection scenarios.
type ScenarioKey struct {
	Interest InterestScenario `json:"interest_rate_scenario"`
	Risk     RiskType         `json:"risk_scenario"`
	Term     TermScenario     `json:"term_scenario"`
}

func (k ScenarioKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Interest, k.Risk, k.Term)
}

// IsSubrisk reports whether substandard loads apply.
func (k ScenarioKey) IsSubrisk() bool {
	return k.Risk == RiskSubrisk
}

// ParseScenarioKey parses "High/Standard/PolicyTerm" style keys, case-insensitively.
func ParseScenarioKey(s string) (ScenarioKey, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return ScenarioKey{}, fmt.Errorf("invalid scenario %q: expected interest/risk/term", s)
	}
	var key ScenarioKey
	var ok bool
	if key.Interest, ok = matchEnum(parts[0], InterestScenarios); !ok {
		return ScenarioKey{}, fmt.Errorf("invalid interest rate scenario %q", parts[0])
	}
	if key.Risk, ok = matchEnum(parts[1], RiskTypes); !ok {
		return ScenarioKey{}, fmt.Errorf("invalid risk type %q", parts[1])
	}
	if key.Term, ok = matchEnum(parts[2], TermScenarios); !ok {
		return ScenarioKey{}, fmt.Errorf("invalid term scenario %q", parts[2])
	}
	return key, nil
}

func matchEnum[T ~string](s string, values []T) (T, bool) {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// WithdrawalOutcome is the result class of a scheduled withdrawal.
// Rejections are expected outcomes, not errors.
type WithdrawalOutcome int

const (
	WithdrawalNone WithdrawalOutcome = iota
	WithdrawalExceedsAccountValue
	WithdrawalPAVBelowLimit
	WithdrawalSIBelowLimit
	WithdrawalAccepted
)

// Message is the log reason written into projection rows.
func (o WithdrawalOutcome) Message() string {
	switch o {
	case WithdrawalExceedsAccountValue:
		return "Withdrawal amount exceeds policy account value."
	case WithdrawalPAVBelowLimit:
		return "After withdrawal, end PAV is below acceptable limit."
	case WithdrawalSIBelowLimit:
		return "After withdrawal, end SI is below acceptable limit."
	case WithdrawalAccepted:
		return "Successfully withdraw."
	default:
		return "No withdrawal."
	}
}

// Rejected reports whether a requested withdrawal was refused.
func (o WithdrawalOutcome) Rejected() bool {
	return o == WithdrawalExceedsAccountValue || o == WithdrawalPAVBelowLimit || o == WithdrawalSIBelowLimit
}
