package positionid

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

// White stacked on point 1, Black stacked on point 13.
func startingBoard() Board {
	var board Board
	board[0][1] = 15
	board[1][13] = 15
	return board
}

// A mid-game position with checkers on the bar and borne off.
func midgameBoard() Board {
	var board Board
	board[0][0] = 1  // bar
	board[0][3] = 2
	board[0][7] = 4
	board[0][19] = 3
	board[0][25] = 5 // off
	board[1][0] = 2
	board[1][14] = 6
	board[1][2] = 1
	board[1][9] = 3
	board[1][25] = 3
	return board
}

const startingPositionID = "f/8AAAAAA//4AA"

func TestPositionIDStartingPosition(t *testing.T) {
	is := is.New(t)
	is.Equal(PositionID(startingBoard()), startingPositionID)
}

func TestPositionIDRoundTrip(t *testing.T) {
	for _, board := range []Board{startingBoard(), midgameBoard()} {
		is := is.New(t)
		posID := PositionID(board)
		is.Equal(len(posID), PositionIDLength)

		board2, err := BoardFromPositionID(posID)
		is.NoErr(err)
		is.Equal(board2, board)
	}
}

func TestPositionKeyRoundTrip(t *testing.T) {
	is := is.New(t)
	board := midgameBoard()
	key := MakePositionKey(board)
	is.Equal(BoardFromKey(key), board)
	is.Equal(PositionIDFromKey(key), PositionID(board))
	is.Equal(len(key.Bytes()), 28)
}

func TestDistinctBoardsHaveDistinctKeys(t *testing.T) {
	is := is.New(t)
	a := startingBoard()
	b := startingBoard()
	b[0][1] = 14
	b[0][4] = 1
	is.True(!EqualKeys(MakePositionKey(a), MakePositionKey(b)))
	is.True(PositionID(a) != PositionID(b))
}

func TestBoardFromPositionIDInvalid(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"too short", "f/8AAAA"},
		{"too long", startingPositionID + "A"},
		{"bad character", "f/8AAAAAA//4A!"},
		{"no checkers", "AAAAAAAAAAAAAA"},
		{"too many checkers", "//////////////"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			_, err := BoardFromPositionID(tc.id)
			is.True(errors.Is(err, ErrInvalidPositionID))
		})
	}
}

func TestCheckPosition(t *testing.T) {
	is := is.New(t)
	is.NoErr(CheckPosition(startingBoard()))
	is.NoErr(CheckPosition(midgameBoard()))

	short := startingBoard()
	short[0][1] = 14
	is.True(errors.Is(CheckPosition(short), ErrInvalidPositionID))

	shared := startingBoard()
	shared[0][1] = 13
	shared[0][5] = 2
	shared[1][13] = 13
	shared[1][5] = 2
	is.True(errors.Is(CheckPosition(shared), ErrInvalidPositionID))
}
