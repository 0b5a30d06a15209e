package models

import (
	"fmt"
	"math"
	"strings"
)

// Policy represents a staking policy
type Policy string

const (
	// PolicyBaseline keeps the stake flat through losing streaks
	PolicyBaseline Policy = "baseline"
	// PolicyMartingale doubles the stake after every loss
	PolicyMartingale Policy = "martingale"
)

// ParsePolicy parses a policy name, case-insensitively
func ParsePolicy(name string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(name))) {
	case PolicyBaseline:
		return PolicyBaseline, nil
	case PolicyMartingale:
		return PolicyMartingale, nil
	default:
		return "", fmt.Errorf("%w: unknown policy %q", ErrInvalidParameter, name)
	}
}

// StakeParams holds the strategy parameters of one simulation run
type StakeParams struct {
	BaseBet      float64 `json:"base_bet"`
	StartBalance float64 `json:"start_balance"`
	Refill       float64 `json:"refill"`
}

// Validate checks the parameters that the staking engine cannot run without.
// Every value must be finite, and so must both refill targets.
func (p StakeParams) Validate() error {
	if !(p.BaseBet > 0) || math.IsInf(p.BaseBet, 0) {
		return fmt.Errorf("%w: base bet must be positive and finite, got %v", ErrInvalidParameter, p.BaseBet)
	}
	if !(p.Refill > 0) || math.IsInf(p.Refill, 0) {
		return fmt.Errorf("%w: refill factor must be positive and finite, got %v", ErrInvalidParameter, p.Refill)
	}
	if math.IsNaN(p.StartBalance) || math.IsInf(p.StartBalance, 0) {
		return fmt.Errorf("%w: start balance must be finite, got %v", ErrInvalidParameter, p.StartBalance)
	}
	if math.IsInf(p.Refill*p.BaseBet, 0) || math.IsInf((math.Pow(2, p.Refill)-1)*p.BaseBet, 0) {
		return fmt.Errorf("%w: refill factor %v overflows the refill balance", ErrInvalidParameter, p.Refill)
	}
	return nil
}

// String returns a compact representation used in logs and metric labels
func (p StakeParams) String() string {
	return fmt.Sprintf("base_bet=%g start_balance=%g refill=%g", p.BaseBet, p.StartBalance, p.Refill)
}
