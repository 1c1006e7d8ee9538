package engine

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestStartingBoard(t *testing.T) {
	is := is.New(t)
	b := StartingBoard()
	is.Equal(b.CountAt(White, Point(1)), 15)
	is.Equal(b.CountAt(Black, Point(13)), 15)
	is.Equal(b.Total(White), CheckersPerSide)
	is.Equal(b.Total(Black), CheckersPerSide)
	is.NoErr(b.Validate())
	is.Equal(ProgressOf(Point(1), White), ProgressOf(Point(13), Black))
}

func TestBoardCloneIsIndependent(t *testing.T) {
	is := is.New(t)
	b := StartingBoard()
	c := b.Clone()
	c.Adjust(White, Point(1), -1)
	c.Adjust(White, Point(2), 1)
	is.Equal(b.CountAt(White, Point(1)), 15)
	is.True(!b.Equal(&c))
}

func TestBoardAdjustPanicsBelowZero(t *testing.T) {
	b := StartingBoard()
	defer func() {
		if recover() == nil {
			t.Error("Adjust below zero should panic")
		}
	}()
	b.Adjust(White, Point(2), -1)
}

func TestBoardOccupied(t *testing.T) {
	is := is.New(t)
	b := boardWith(
		map[Location]int{Bar: 1, Point(5): 4, Point(20): 5, Off: 5},
		map[Location]int{Point(2): 3, Point(13): 4, Point(24): 8},
	)
	is.Equal(b.Occupied(White), []Location{Bar, Point(5), Point(20)})
	// Black in progress order: 13 (1), 24 (12), 2 (14).
	is.Equal(b.Occupied(Black), []Location{Point(13), Point(24), Point(2)})
}

func TestBoardValidate(t *testing.T) {
	is := is.New(t)
	b := StartingBoard()
	b[Black][Point(13)] = 14
	is.True(errors.Is(b.Validate(), ErrInvalidPosition))
}

func TestBoardPositionIDRoundTrip(t *testing.T) {
	is := is.New(t)
	b := boardWith(
		map[Location]int{Bar: 1, Point(5): 4, Point(20): 5, Off: 5},
		map[Location]int{Point(2): 3, Point(13): 4, Point(24): 8},
	)
	got, err := BoardFromPositionID(b.PositionID())
	is.NoErr(err)
	is.Equal(got, b)

	_, err = BoardFromPositionID("nonsense")
	is.True(errors.Is(err, ErrInvalidPosition))
}

func TestParseColorAndLocation(t *testing.T) {
	is := is.New(t)
	c, err := ParseColor("Black")
	is.NoErr(err)
	is.Equal(c, Black)
	is.Equal(c.Opponent(), White)
	_, err = ParseColor("red")
	is.True(err != nil)

	l, err := ParseLocation("bar")
	is.NoErr(err)
	is.Equal(l, Bar)
	l, err = ParseLocation("off")
	is.NoErr(err)
	is.Equal(l, Off)
	l, err = ParseLocation("17")
	is.NoErr(err)
	is.Equal(l, Point(17))
	_, err = ParseLocation("0")
	is.True(errors.Is(err, ErrOutOfBounds))
}
