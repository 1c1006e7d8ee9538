package engine

import (
	"errors"
	"fmt"
)

// Move rejections. None of them is fatal: a caller receiving one should try
// a different move.
var (
	ErrOutOfBounds         = errors.New("destination out of bounds")
	ErrDieUnavailable      = errors.New("die value not available")
	ErrDestinationMismatch = errors.New("destination does not match die value")
	ErrBearOffNotEligible  = errors.New("bearing off not allowed yet")
	ErrPointBlocked        = errors.New("point blocked by opponent")
	ErrNoCheckerAtSource   = errors.New("no checker at source")
	ErrBarPriority         = errors.New("checker on bar must enter first")
)

// Turn state rejections.
var (
	ErrDiceNotRolled   = errors.New("dice not rolled")
	ErrAlreadyRolled   = errors.New("dice already rolled this turn")
	ErrGameOver        = errors.New("game is over")
	ErrInvalidDice     = errors.New("dice values must be 1-6")
	ErrInvalidPosition = errors.New("invalid position")
)

// MoveError reports why a move was rejected.
type MoveError struct {
	Move  Move
	Color Color
	Err   error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("%s %s (die %d): %v", e.Color, e.Move, e.Move.Die, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// ErrorCode returns a stable upper-case code for a rule error, used by the
// analysis service. Unknown errors map to "INTERNAL".
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrOutOfBounds):
		return "OUT_OF_BOUNDS"
	case errors.Is(err, ErrDieUnavailable):
		return "DIE_VALUE_UNAVAILABLE"
	case errors.Is(err, ErrDestinationMismatch):
		return "DESTINATION_MISMATCH"
	case errors.Is(err, ErrBearOffNotEligible):
		return "BEAR_OFF_NOT_ELIGIBLE"
	case errors.Is(err, ErrPointBlocked):
		return "POINT_BLOCKED"
	case errors.Is(err, ErrNoCheckerAtSource):
		return "NO_CHECKER_AT_SOURCE"
	case errors.Is(err, ErrBarPriority):
		return "BAR_PRIORITY_VIOLATION"
	case errors.Is(err, ErrDiceNotRolled):
		return "DICE_NOT_ROLLED"
	case errors.Is(err, ErrAlreadyRolled):
		return "ALREADY_ROLLED"
	case errors.Is(err, ErrGameOver):
		return "GAME_OVER"
	case errors.Is(err, ErrInvalidDice):
		return "INVALID_DICE"
	case errors.Is(err, ErrInvalidPosition):
		return "INVALID_POSITION"
	}
	return "INTERNAL"
}
