package engine

import (
	"fmt"
	"strings"
)

// Move is a single checker moved by a single die.
type Move struct {
	From Location `json:"from"`
	To   Location `json:"to"`
	Die  int      `json:"die"`
}

// String renders the move in "from/to" notation, e.g. "1/4", "bar/3", "20/off".
func (m Move) String() string {
	return m.From.String() + "/" + m.To.String()
}

// ParseMove parses "from/to" notation for color. The die is inferred from
// the distance; for bearing off with overshoot the smallest available die
// that reaches Off is used.
func ParseMove(s string, color Color, dice TurnDice) (Move, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return Move{}, fmt.Errorf("move %q should be in format 'from/to'", s)
	}
	from, err := ParseLocation(parts[0])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseLocation(parts[1])
	if err != nil {
		return Move{}, err
	}
	m := Move{From: from, To: to}
	if to == Off && from.IsPoint() {
		for _, die := range dice.Distinct() {
			if DestinationOf(from, die, color) == Off {
				m.Die = die
				return m, nil
			}
		}
		if die := ProgressOff - ProgressOf(from, color); validDie(die) {
			m.Die = die
			return m, nil
		}
		return m, &MoveError{Move: m, Color: color, Err: ErrDestinationMismatch}
	}
	die, ok := DieValueNeeded(from, to, color)
	if !ok {
		return m, &MoveError{Move: m, Color: color, Err: ErrDestinationMismatch}
	}
	m.Die = die
	return m, nil
}

// FormatMoves joins moves in notation, e.g. "1/4 1/6".
func FormatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// CheckMove validates m for color against the board alone: it does not know
// which dice remain.
func CheckMove(board *Board, m Move, color Color) error {
	var err error
	switch {
	case !m.To.IsPoint() && m.To != Off:
		err = ErrOutOfBounds
	case !validDie(m.Die):
		err = ErrDieUnavailable
	default:
		err = checkSource(board, color, m.From)
	}
	if err == nil {
		switch {
		case DestinationOf(m.From, m.Die, color) != m.To:
			err = ErrDestinationMismatch
		case m.To == Off && !CanBearOff(board, color):
			err = ErrBearOffNotEligible
		case IsBlocked(board, color, m.To):
			err = ErrPointBlocked
		}
	}
	if err != nil {
		return &MoveError{Move: m, Color: color, Err: err}
	}
	return nil
}

// ApplyToBoard validates m and, if legal, performs it on board: a lone
// opposing checker on the destination goes to the bar, then the mover's
// checker is relocated. It reports whether a hit occurred. On error the
// board is untouched.
func ApplyToBoard(board *Board, m Move, color Color) (bool, error) {
	if err := CheckMove(board, m, color); err != nil {
		return false, err
	}
	opp := color.Opponent()
	hit := m.To.IsPoint() && board.CountAt(opp, m.To) == 1
	if hit {
		board.Adjust(opp, m.To, -1)
		board.Adjust(opp, Bar, 1)
	}
	board.Adjust(color, m.From, -1)
	board.Adjust(color, m.To, 1)
	return hit, nil
}
