package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Result represents the outcome of a single game (WIN or LOSS)
type Result string

const (
	ResultWin  Result = "W"
	ResultLoss Result = "L"
)

// IsWin reports whether the result is a win
func (r Result) IsWin() bool {
	return r == ResultWin
}

// GameRecord represents one played game of one team-season
type GameRecord struct {
	Order  int    `json:"game" validate:"gte=0"`
	Result Result `json:"result" validate:"required,oneof=W L"`
	Line   int    `json:"line" validate:"required"`
}

// IsUnderdog reports whether the moneyline pays more than the stake
func (g GameRecord) IsUnderdog() bool {
	return g.Line > 0
}

// ParseResultLine splits a combined "result and moneyline" field such as
// "W +150", "L-110" or "W+150" into its result and signed moneyline.
func ParseResultLine(field string) (Result, int, error) {
	s := strings.TrimSpace(field)
	if len(s) < 2 {
		return "", 0, fmt.Errorf("%w: result field %q too short", ErrInvalidRecord, field)
	}

	result := Result(strings.ToUpper(s[:1]))
	if result != ResultWin && result != ResultLoss {
		return "", 0, fmt.Errorf("%w: unknown result marker %q", ErrInvalidRecord, s[:1])
	}

	rest := s[1:]
	// Exported sheets put a single separator between marker and line
	if rest[0] != '+' && rest[0] != '-' && (rest[0] < '0' || rest[0] > '9') {
		rest = rest[1:]
	}
	rest = strings.TrimSpace(rest)

	line, err := strconv.Atoi(rest)
	if err != nil {
		return "", 0, fmt.Errorf("%w: moneyline %q: %v", ErrInvalidRecord, rest, err)
	}
	return result, line, nil
}
