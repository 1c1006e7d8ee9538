// Package engine provides the rules of long nardy: the board, the dice,
// single-checker move legality and the turn state machine.
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/nardy/internal/positionid"
)

// CheckersPerSide is the number of checkers each color owns.
const CheckersPerSide = 15

// NumLocations is the number of distinct locations: bar, 24 points, off.
const NumLocations = 26

// Color identifies a side. White travels 1..24, Black travels 13..24 then 1..12.
type Color int

const (
	White Color = iota
	Black
)

// Opponent returns the other color.
func (c Color) Opponent() Color {
	return 1 - c
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "color(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c is White or Black.
func (c Color) Valid() bool {
	return c == White || c == Black
}

// ParseColor parses "white"/"w" or "black"/"b".
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// Location is Bar, a point 1..24, or Off.
// The numeric value orders locations for progress purposes only.
type Location int

const (
	Bar Location = 0
	Off Location = 25
)

// Point returns the location of board point p (1..24).
func Point(p int) Location {
	return Location(p)
}

// IsPoint reports whether l is one of the 24 board points.
func (l Location) IsPoint() bool {
	return l >= 1 && l <= 24
}

// Valid reports whether l is Bar, a point or Off.
func (l Location) Valid() bool {
	return l >= Bar && l <= Off
}

func (l Location) String() string {
	switch {
	case l == Bar:
		return "bar"
	case l == Off:
		return "off"
	case l.IsPoint():
		return strconv.Itoa(int(l))
	}
	return "loc(" + strconv.Itoa(int(l)) + ")"
}

// ParseLocation parses "bar", "off" or a point number.
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bar", "b":
		return Bar, nil
	case "off", "o":
		return Off, nil
	}
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Bar, fmt.Errorf("invalid location %q: %w", s, err)
	}
	if !Point(p).IsPoint() {
		return Bar, fmt.Errorf("invalid location %q: %w", s, ErrOutOfBounds)
	}
	return Point(p), nil
}

// Board holds checker counts per color per location.
// Index [color][location]; location 0 is the bar, 1-24 the points, 25 off.
// The board is a passive container: it does not know about blocking or hits.
type Board [2][NumLocations]uint8

// EmptyBoard returns a board with no checkers. It does not satisfy the
// conservation invariant and is only useful for building test positions.
func EmptyBoard() Board {
	return Board{}
}

// StartingBoard returns the initial position: all White checkers on point 1
// and all Black checkers on point 13.
func StartingBoard() Board {
	var b Board
	b[White][Point(1)] = CheckersPerSide
	b[Black][Point(13)] = CheckersPerSide
	return b
}

// CountAt returns the number of checkers of color at loc.
func (b *Board) CountAt(color Color, loc Location) int {
	return int(b[color][loc])
}

// Adjust changes the count of color at loc by delta.
// Driving a count negative is a defect in the caller and panics.
func (b *Board) Adjust(color Color, loc Location, delta int) {
	n := int(b[color][loc]) + delta
	if n < 0 || n > CheckersPerSide {
		panic(fmt.Sprintf("engine: %s count at %s would become %d", color, loc, n))
	}
	b[color][loc] = uint8(n)
}

// Clone returns an independent copy of the board.
func (b Board) Clone() Board {
	return b
}

// Total returns the number of checkers of color across all locations.
func (b *Board) Total(color Color) int {
	total := 0
	for _, n := range b[color] {
		total += int(n)
	}
	return total
}

// Occupied returns the locations holding color's checkers, excluding Off,
// in ascending progress order.
func (b *Board) Occupied(color Color) []Location {
	locs := make([]Location, 0, 8)
	for p := ProgressBar; p < ProgressOff; p++ {
		loc := LocationFromProgress(p, color)
		if b[color][loc] > 0 {
			locs = append(locs, loc)
		}
	}
	return locs
}

// Validate checks the conservation invariant for both colors.
func (b *Board) Validate() error {
	for _, c := range []Color{White, Black} {
		if n := b.Total(c); n != CheckersPerSide {
			return fmt.Errorf("%w: %s has %d checkers", ErrInvalidPosition, c, n)
		}
	}
	return nil
}

// Equal reports whether two boards are identical.
func (b *Board) Equal(other *Board) bool {
	return *b == *other
}

// PositionID returns the compact text ID of the board.
func (b *Board) PositionID() string {
	return positionid.PositionID(positionid.Board(*b))
}

// BoardFromPositionID decodes a position ID and checks conservation.
func BoardFromPositionID(id string) (Board, error) {
	pb, err := positionid.BoardFromPositionID(id)
	if err != nil {
		return Board{}, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	b := Board(pb)
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}
