package external

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/nardy/pkg/engine"
)

// BoardLine is a parsed position line:
//
//	board:<position id>:<turn>[:<roll>[:<remaining>]]
//
// e.g. "board:f/8AAAAAA//4AA:w:31" or "board::b:66:66". An empty position
// id is the starting position; roll and remaining are digit strings.
type BoardLine struct {
	Board engine.Board
	Turn  engine.Color
	Dice  engine.TurnDice
}

// ParseBoardLine parses a position line. The "board:" prefix is optional.
func ParseBoardLine(s string) (*BoardLine, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "board:")

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return nil, fmt.Errorf("%w: expected 2 to 4 fields, got %d", engine.ErrInvalidPosition, len(parts))
	}

	bl := &BoardLine{Board: engine.StartingBoard()}
	if parts[0] != "" {
		b, err := engine.BoardFromPositionID(parts[0])
		if err != nil {
			return nil, err
		}
		bl.Board = b
	}

	turn, err := engine.ParseColor(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrInvalidPosition, err)
	}
	bl.Turn = turn

	if len(parts) < 3 || parts[2] == "" {
		if len(parts) == 4 {
			return nil, fmt.Errorf("%w: remaining dice without a roll", engine.ErrInvalidDice)
		}
		return bl, nil
	}

	roll, err := parseDigits(parts[2])
	if err != nil || len(roll) != 2 {
		return nil, fmt.Errorf("%w: roll %q", engine.ErrInvalidDice, parts[2])
	}
	dr := engine.DiceRoll{roll[0], roll[1]}
	if !dr.Valid() {
		return nil, fmt.Errorf("%w: roll %q", engine.ErrInvalidDice, parts[2])
	}
	bl.Dice = engine.NewTurnDice(dr)

	if len(parts) == 4 {
		rem, err := parseDigits(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: remaining %q", engine.ErrInvalidDice, parts[3])
		}
		if bl.Dice, err = engine.TurnDiceFromRemaining(dr, rem); err != nil {
			return nil, err
		}
	}
	return bl, nil
}

func parseDigits(s string) ([]int, error) {
	out := make([]int, 0, len(s))
	for _, r := range s {
		v, err := strconv.Atoi(string(r))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// String formats the line back, omitting unrolled dice.
func (bl *BoardLine) String() string {
	var sb strings.Builder
	sb.WriteString("board:")
	sb.WriteString(bl.Board.PositionID())
	sb.WriteString(":")
	sb.WriteString(turnLetter(bl.Turn))
	if bl.Dice.Rolled() {
		r := bl.Dice.Roll()
		fmt.Fprintf(&sb, ":%d%d", r[0], r[1])
		if bl.Dice.Len() != len(r.Units()) {
			sb.WriteString(":")
			for _, v := range bl.Dice.Remaining() {
				sb.WriteString(strconv.Itoa(v))
			}
		}
	}
	return sb.String()
}

func turnLetter(c engine.Color) string {
	if c == engine.Black {
		return "b"
	}
	return "w"
}
