// Package positionid implements compact position encoding for long nardy
// boards.
//
// A position ID is a 14-character base64 string. The board is written as a
// bit stream, location by location and color by color: a run of 1-bits for
// the checkers on the location followed by a single 0-bit. Fifteen checkers
// per side over 26 locations always fit in 82 bits.
package positionid

import (
	"errors"
	"fmt"
)

const (
	// PositionIDLength is the length of a position ID string
	PositionIDLength = 14
	// NumLocations is bar, 24 points and off
	NumLocations = 26
	// CheckersPerSide is the number of checkers each color owns
	CheckersPerSide = 15

	keyBytes = 11 // 82 bits rounded up
)

// Base64 alphabet used for position ID encoding
const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Board is [color][location]; location 0 is the bar, 1-24 the points, 25 off.
type Board [2][NumLocations]uint8

// PositionKey is a fixed-size binary form of a board, 4 bits per location.
// It is cheap to compare and hash.
type PositionKey struct {
	Data [7]uint32
}

// bitKey is the unary bit stream behind a position ID.
type bitKey struct {
	Data [keyBytes]uint8
}

// ErrInvalidPositionID is returned when a position ID is invalid
var ErrInvalidPositionID = errors.New("invalid position ID")

// MakePositionKey packs a board into a PositionKey.
func MakePositionKey(board Board) PositionKey {
	var key PositionKey
	n := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < NumLocations; j++ {
			key.Data[n/8] |= uint32(board[i][j]&0x0f) << (4 * (n % 8))
			n++
		}
	}
	return key
}

// BoardFromKey reconstructs a board from a position key.
func BoardFromKey(key PositionKey) Board {
	var board Board
	n := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < NumLocations; j++ {
			board[i][j] = uint8((key.Data[n/8] >> (4 * (n % 8))) & 0x0f)
			n++
		}
	}
	return board
}

// Bytes returns the key in little-endian byte order, for hashing.
func (k PositionKey) Bytes() []byte {
	b := make([]byte, 0, 4*len(k.Data))
	for _, w := range k.Data {
		b = append(b, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	return b
}

// setBits sets nBits consecutive bits starting at bitPos.
func (k *bitKey) setBits(bitPos, nBits int) {
	for i := bitPos; i < bitPos+nBits; i++ {
		k.Data[i/8] |= 1 << (i % 8)
	}
}

func (k *bitKey) bit(pos int) uint8 {
	return (k.Data[pos/8] >> (pos % 8)) & 1
}

func makeBitKey(board Board) bitKey {
	var key bitKey
	bitPos := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < NumLocations; j++ {
			nc := int(board[i][j])
			key.setBits(bitPos, nc)
			bitPos += nc + 1
		}
	}
	return key
}

func boardFromBitKey(key bitKey) (Board, error) {
	var board Board
	i, j := 0, 0
	for pos := 0; pos < keyBytes*8 && i < 2; pos++ {
		if key.bit(pos) == 0 {
			j++
			if j == NumLocations {
				i++
				j = 0
			}
			continue
		}
		if board[i][j] == CheckersPerSide {
			return board, fmt.Errorf("%w: too many checkers", ErrInvalidPositionID)
		}
		board[i][j]++
	}
	return board, nil
}

// PositionID generates the base64 position ID of a board.
// The board must satisfy CheckPosition.
func PositionID(board Board) string {
	key := makeBitKey(board)
	result := make([]byte, PositionIDLength)
	for c := 0; c < PositionIDLength; c++ {
		var v uint8
		for b := 0; b < 6; b++ {
			pos := c*6 + b
			if pos < keyBytes*8 && key.bit(pos) == 1 {
				v |= 1 << (5 - b)
			}
		}
		result[c] = base64Chars[v]
	}
	return string(result)
}

// PositionIDFromKey generates a position ID from a position key.
func PositionIDFromKey(key PositionKey) string {
	return PositionID(BoardFromKey(key))
}

// base64Decode decodes a base64 character to its value
func base64Decode(ch byte) uint8 {
	if ch >= 'A' && ch <= 'Z' {
		return ch - 'A'
	}
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 26
	}
	if ch >= '0' && ch <= '9' {
		return ch - '0' + 52
	}
	if ch == '+' {
		return 62
	}
	if ch == '/' {
		return 63
	}
	return 255
}

// BoardFromPositionID decodes a position ID and validates the result.
func BoardFromPositionID(posID string) (Board, error) {
	if len(posID) != PositionIDLength {
		return Board{}, ErrInvalidPositionID
	}
	var key bitKey
	for c := 0; c < PositionIDLength; c++ {
		v := base64Decode(posID[c])
		if v == 255 {
			return Board{}, ErrInvalidPositionID
		}
		for b := 0; b < 6; b++ {
			pos := c*6 + b
			if v&(1<<(5-b)) == 0 {
				continue
			}
			if pos >= keyBytes*8 {
				return Board{}, ErrInvalidPositionID
			}
			key.setBits(pos, 1)
		}
	}

	board, err := boardFromBitKey(key)
	if err != nil {
		return board, err
	}
	if err := CheckPosition(board); err != nil {
		return board, err
	}
	return board, nil
}

// CheckPosition validates that a board position is legal: 15 checkers per
// color and no point held by two or more checkers of both colors.
func CheckPosition(board Board) error {
	for i := 0; i < 2; i++ {
		total := 0
		for j := 0; j < NumLocations; j++ {
			total += int(board[i][j])
		}
		if total != CheckersPerSide {
			return fmt.Errorf("%w: color %d has %d checkers", ErrInvalidPositionID, i, total)
		}
	}
	for j := 1; j <= 24; j++ {
		if board[0][j] >= 2 && board[1][j] >= 2 {
			return fmt.Errorf("%w: point %d held by both colors", ErrInvalidPositionID, j)
		}
	}
	return nil
}

// EqualKeys returns true if two position keys are identical
func EqualKeys(k1, k2 PositionKey) bool {
	return k1 == k2
}
