package backtest

import (
	"math"
	"strconv"

	"github.com/yourusername/martingale-lab/internal/models"
)

// SimulationState tracks bet, balance and cumulative earnings through one season
type SimulationState struct {
	CurrentBet         float64
	Balance            float64
	CumulativeEarnings float64
	Refills            int

	params models.StakeParams
	policy models.Policy
}

// NewSimulationState initializes state at the start of a season
func NewSimulationState(params models.StakeParams, policy models.Policy) *SimulationState {
	return &SimulationState{
		CurrentBet: params.BaseBet,
		Balance:    params.StartBalance,
		params:     params,
		policy:     policy,
	}
}

// Guard runs the pre-bet check and refills the balance when the pending bet
// exceeds it. Refill money is counted against earnings. Reports whether a
// refill happened.
func (s *SimulationState) Guard() bool {
	if s.CurrentBet <= s.Balance {
		return false
	}

	switch s.policy {
	case models.PolicyMartingale:
		s.CurrentBet = s.params.BaseBet
		if s.CurrentBet > s.Balance {
			s.refillTo((math.Pow(2, s.params.Refill) - 1) * s.params.BaseBet)
			return true
		}
		return false
	default:
		s.refillTo(s.params.Refill * s.params.BaseBet)
		return true
	}
}

func (s *SimulationState) refillTo(target float64) {
	s.CumulativeEarnings -= target - s.Balance
	s.Balance = target
	s.Refills++
}

// Settle applies a game outcome to the state and returns the payout
func (s *SimulationState) Settle(record models.GameRecord) float64 {
	var payout float64
	if record.Result.IsWin() {
		payout = Payout(record.Line, s.CurrentBet)
		s.CurrentBet = s.params.BaseBet
	} else {
		payout = -s.CurrentBet
		if s.policy == models.PolicyMartingale {
			s.CurrentBet *= 2
		}
	}

	s.Balance += payout
	s.CumulativeEarnings += payout
	return payout
}

// Payout returns the winnings of a stake at an American moneyline,
// rounded to cents. line must be non-zero.
func Payout(line int, bet float64) float64 {
	if line > 0 {
		return Round2(0.01 * float64(line) * bet)
	}
	return Round2(-100 / float64(line) * bet)
}

// Round2 rounds half-to-even on the exact binary value of v
func Round2(v float64) float64 {
	return roundTo(v, 2)
}

func roundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
