package engine

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestApplyToBoardNormalMove(t *testing.T) {
	is := is.New(t)
	board := StartingBoard()
	hit, err := ApplyToBoard(&board, Move{From: Point(1), To: Point(4), Die: 3}, White)
	is.NoErr(err)
	is.True(!hit)
	is.Equal(board.CountAt(White, Point(1)), 14)
	is.Equal(board.CountAt(White, Point(4)), 1)
	is.NoErr(board.Validate())
}

func TestApplyToBoardHit(t *testing.T) {
	is := is.New(t)
	board := boardWith(
		map[Location]int{Point(1): 14, Point(16): 1},
		map[Location]int{Point(13): 14, Point(20): 1},
	)
	hit, err := ApplyToBoard(&board, Move{From: Point(16), To: Point(20), Die: 4}, White)
	is.NoErr(err)
	is.True(hit)
	is.Equal(board.CountAt(Black, Point(20)), 0)
	is.Equal(board.CountAt(Black, Bar), 1)
	is.Equal(board.CountAt(White, Point(20)), 1)
	is.NoErr(board.Validate())
}

func TestApplyToBoardEntryHit(t *testing.T) {
	is := is.New(t)
	board := boardWith(
		map[Location]int{Point(3): 1, Point(20): 14},
		map[Location]int{Bar: 1, Point(13): 14},
	)
	// Black enters on 12+3 = 15; White's blot is on 3, so no hit there.
	hit, err := ApplyToBoard(&board, Move{From: Bar, To: Point(15), Die: 3}, Black)
	is.NoErr(err)
	is.True(!hit)

	board = boardWith(
		map[Location]int{Bar: 1, Point(20): 14},
		map[Location]int{Point(3): 1, Point(13): 14},
	)
	hit, err = ApplyToBoard(&board, Move{From: Bar, To: Point(3), Die: 3}, White)
	is.NoErr(err)
	is.True(hit)
	is.Equal(board.CountAt(Black, Bar), 1)
}

func TestApplyToBoardRejections(t *testing.T) {
	blocked := boardWith(
		map[Location]int{Point(1): 15},
		map[Location]int{Point(4): 2, Point(13): 13},
	)
	onBar := boardWith(
		map[Location]int{Bar: 1, Point(5): 14},
		map[Location]int{Point(13): 15},
	)
	tests := []struct {
		name  string
		board Board
		move  Move
		want  error
	}{
		{"to bar", StartingBoard(), Move{From: Point(1), To: Bar, Die: 3}, ErrOutOfBounds},
		{"to nowhere", StartingBoard(), Move{From: Point(1), To: Location(30), Die: 3}, ErrOutOfBounds},
		{"bad die", StartingBoard(), Move{From: Point(1), To: Point(8), Die: 7}, ErrDieUnavailable},
		{"empty source", StartingBoard(), Move{From: Point(2), To: Point(5), Die: 3}, ErrNoCheckerAtSource},
		{"opponent source", StartingBoard(), Move{From: Point(13), To: Point(16), Die: 3}, ErrNoCheckerAtSource},
		{"from off", StartingBoard(), Move{From: Off, To: Point(3), Die: 3}, ErrNoCheckerAtSource},
		{"mismatch", StartingBoard(), Move{From: Point(1), To: Point(5), Die: 3}, ErrDestinationMismatch},
		{"early bear off", StartingBoard(), Move{From: Point(1), To: Off, Die: 6}, ErrDestinationMismatch},
		{"blocked", blocked, Move{From: Point(1), To: Point(4), Die: 3}, ErrPointBlocked},
		{"bar first", onBar, Move{From: Point(5), To: Point(7), Die: 2}, ErrBarPriority},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			board := tc.board
			before := board
			_, err := ApplyToBoard(&board, tc.move, White)
			is.True(errors.Is(err, tc.want))
			var me *MoveError
			is.True(errors.As(err, &me))
			is.Equal(me.Move, tc.move)
			is.Equal(board, before) // untouched
		})
	}
}

func TestApplyToBoardBearOffNotEligible(t *testing.T) {
	is := is.New(t)
	board := boardWith(
		map[Location]int{Point(10): 1, Point(24): 14},
		map[Location]int{Point(13): 15},
	)
	_, err := ApplyToBoard(&board, Move{From: Point(24), To: Off, Die: 3}, White)
	is.True(errors.Is(err, ErrBearOffNotEligible))
	is.Equal(ErrorCode(err), "BEAR_OFF_NOT_ELIGIBLE")
}

func TestMoveString(t *testing.T) {
	is := is.New(t)
	is.Equal(Move{From: Point(1), To: Point(4), Die: 3}.String(), "1/4")
	is.Equal(Move{From: Bar, To: Point(15), Die: 3}.String(), "bar/15")
	is.Equal(Move{From: Point(22), To: Off, Die: 6}.String(), "22/off")
	is.Equal(FormatMoves([]Move{{From: Point(1), To: Point(4)}, {From: Point(1), To: Point(6)}}), "1/4 1/6")
}

func TestParseMove(t *testing.T) {
	is := is.New(t)
	dice := NewTurnDice(DiceRoll{3, 6})

	m, err := ParseMove("1/4", White, dice)
	is.NoErr(err)
	is.Equal(m, Move{From: Point(1), To: Point(4), Die: 3})

	m, err = ParseMove("bar/18", Black, dice)
	is.NoErr(err)
	is.Equal(m, Move{From: Bar, To: Point(18), Die: 6})

	m, err = ParseMove("24/3", Black, dice)
	is.NoErr(err)
	is.Equal(m.Die, 3)

	// Overshoot picks the smallest die that still bears off.
	m, err = ParseMove("23/off", White, dice)
	is.NoErr(err)
	is.Equal(m.Die, 3)

	// Exact distance is used when no available die reaches off.
	m, err = ParseMove("20/off", White, NewTurnDice(DiceRoll{1, 2}))
	is.NoErr(err)
	is.Equal(m.Die, 5)

	_, err = ParseMove("1-4", White, dice)
	is.True(err != nil)
	_, err = ParseMove("1/30", White, dice)
	is.True(errors.Is(err, ErrOutOfBounds))
	_, err = ParseMove("1/12", White, dice)
	is.True(errors.Is(err, ErrDestinationMismatch))
	_, err = ParseMove("10/off", White, dice)
	is.True(errors.Is(err, ErrDestinationMismatch))
}
