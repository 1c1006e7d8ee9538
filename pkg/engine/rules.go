package engine

import "slices"

// Progress bounds. Progress is the color-relative distance traveled:
// 0 on the bar, 1..24 on the points, 25 once borne off.
const (
	ProgressBar  = 0
	ProgressOff  = 25
	ProgressHome = 19 // first progress value of the home quadrant
)

// ProgressOf converts a location to progress for color.
func ProgressOf(loc Location, color Color) int {
	switch {
	case loc == Bar:
		return ProgressBar
	case loc == Off:
		return ProgressOff
	case color == White:
		return int(loc)
	case loc >= 13:
		return int(loc) - 12
	default:
		return int(loc) + 12
	}
}

// LocationFromProgress is the inverse of ProgressOf for p in 0..25.
func LocationFromProgress(p int, color Color) Location {
	switch {
	case p <= ProgressBar:
		return Bar
	case p >= ProgressOff:
		return Off
	case color == White:
		return Point(p)
	case p <= 12:
		return Point(p + 12)
	default:
		return Point(p - 12)
	}
}

// DestinationOf returns where a checker of color lands when moved from by die.
// Any progress at or past 25 is Off; bearing off does not need an exact roll.
func DestinationOf(from Location, die int, color Color) Location {
	if from == Bar {
		if color == White {
			return Point(die)
		}
		return Point(12 + die)
	}
	p := ProgressOf(from, color) + die
	if p >= ProgressOff {
		return Off
	}
	return LocationFromProgress(p, color)
}

// DieValueNeeded returns the die value that moves a checker of color from
// one location to another, if a single die can.
func DieValueNeeded(from, to Location, color Color) (int, bool) {
	var die int
	if from == Bar {
		if !to.IsPoint() {
			return 0, false
		}
		die = int(to)
		if color == Black {
			die -= 12
		}
	} else {
		die = ProgressOf(to, color) - ProgressOf(from, color)
	}
	if !validDie(die) {
		return 0, false
	}
	return die, true
}

// CanBearOff reports whether every checker of color is borne off or in the
// home quadrant, with none on the bar.
func CanBearOff(board *Board, color Color) bool {
	if board.CountAt(color, Bar) > 0 {
		return false
	}
	for p := 1; p < ProgressHome; p++ {
		if board.CountAt(color, LocationFromProgress(p, color)) > 0 {
			return false
		}
	}
	return true
}

// CheckWin reports whether all of color's checkers are borne off.
func CheckWin(board *Board, color Color) bool {
	return board.CountAt(color, Off) == CheckersPerSide
}

// IsBlocked reports whether the opponent holds loc with two or more checkers.
func IsBlocked(board *Board, color Color, loc Location) bool {
	return loc.IsPoint() && board.CountAt(color.Opponent(), loc) >= 2
}

// checkSource returns the reason from is not a permitted source, or nil.
func checkSource(board *Board, color Color, from Location) error {
	if from == Off || !from.Valid() {
		return ErrNoCheckerAtSource
	}
	if board.CountAt(color, from) == 0 {
		return ErrNoCheckerAtSource
	}
	if from != Bar && board.CountAt(color, Bar) > 0 {
		return ErrBarPriority
	}
	return nil
}

// reachable reports whether a checker may land on dest, ignoring dice.
func reachable(board *Board, color Color, dest Location) bool {
	if dest == Off {
		return CanBearOff(board, color)
	}
	return !IsBlocked(board, color, dest)
}

// LegalDestinationsFrom lists the locations a checker of color at from can
// reach with one of the remaining dice. Hitting a single opposing checker is
// legal; a point held by two or more is not.
func LegalDestinationsFrom(board *Board, dice TurnDice, color Color, from Location) ([]Location, error) {
	if err := checkSource(board, color, from); err != nil {
		return nil, &MoveError{Move: Move{From: from}, Color: color, Err: err}
	}
	var dests []Location
	for _, die := range dice.Distinct() {
		dest := DestinationOf(from, die, color)
		if reachable(board, color, dest) && !slices.Contains(dests, dest) {
			dests = append(dests, dest)
		}
	}
	return dests, nil
}

// AllLegalMoves lists every single-die move color may make. A color with a
// checker on the bar may only move from the bar. Moves are ordered by
// source progress, then die value.
func AllLegalMoves(board *Board, dice TurnDice, color Color) []Move {
	if dice.Empty() {
		return nil
	}
	sources := board.Occupied(color)
	if board.CountAt(color, Bar) > 0 {
		sources = []Location{Bar}
	}
	distinct := dice.Distinct()
	var moves []Move
	for _, from := range sources {
		for _, die := range distinct {
			dest := DestinationOf(from, die, color)
			if reachable(board, color, dest) {
				moves = append(moves, Move{From: from, To: dest, Die: die})
			}
		}
	}
	return moves
}
