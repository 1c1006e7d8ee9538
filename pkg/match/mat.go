package match

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/yourusername/nardy/pkg/engine"
)

// The transcript format follows the Jellyfish/gnubg MAT layout with one
// turn per line:
//
//	 ; [White "lookahead"]
//	 ; [Black "heuristic"]
//	 ; [Date "2026-10-15"]
//
//	 Game 1
//	   1) W 31: 1/4 1/2
//	   2) B 52: 13/18 13/15
//	   3) W 66: (no move)
//	 ...
//	 White wins
//
// Bear-off moves carry their die in parentheses, e.g. "22/off(5)", since
// an overshooting checker may use either die.

var (
	gameHeaderRE = regexp.MustCompile(`^Game\s+(\d+)$`)
	turnLineRE   = regexp.MustCompile(`^(\d+)\)\s+([WB])\s+([1-6])([1-6]):\s*(.*)$`)
	resultRE     = regexp.MustCompile(`^(White|Black)\s+wins$`)
	tagRE        = regexp.MustCompile(`\[(\w+)\s+"([^"]*)"\]`)
	dieSuffixRE  = regexp.MustCompile(`^(.+)\(([1-6])\)$`)
)

const noMove = "(no move)"

// ErrSyntax is returned for transcript lines that cannot be parsed.
var ErrSyntax = errors.New("transcript syntax error")

// ImportMAT reads a match transcript.
func ImportMAT(r io.Reader) (*Match, error) {
	scanner := bufio.NewScanner(r)
	match := NewMatch("", "")

	var current *Game
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ";") {
			if m := tagRE.FindStringSubmatch(line); m != nil {
				switch strings.ToLower(m[1]) {
				case "white":
					match.White = m[2]
				case "black":
					match.Black = m[2]
				case "event":
					match.Event = m[2]
				case "date":
					match.Date = m[2]
				}
			}
			continue
		}

		if m := gameHeaderRE.FindStringSubmatch(line); m != nil {
			current = match.NewGame()
			current.Number, _ = strconv.Atoi(m[1])
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("%w: line %d: %q outside a game", ErrSyntax, lineNo, line)
		}

		if m := resultRE.FindStringSubmatch(line); m != nil {
			c, _ := engine.ParseColor(m[1])
			current.SetWinner(c)
			continue
		}

		m := turnLineRE.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%w: line %d: %q", ErrSyntax, lineNo, line)
		}
		turn, err := parseTurn(m)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		current.Turns = append(current.Turns, turn)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	return match, nil
}

// parseTurn builds a turn from a matched turn line. Dice are tracked across
// the moves so each move's die is resolved against what is still unused.
func parseTurn(m []string) (Turn, error) {
	color, _ := engine.ParseColor(m[2])
	d1, _ := strconv.Atoi(m[3])
	d2, _ := strconv.Atoi(m[4])
	t := Turn{Color: color, Roll: engine.DiceRoll{d1, d2}}

	text := strings.TrimSpace(m[5])
	if text == "" || text == noMove {
		return t, nil
	}

	dice := engine.NewTurnDice(t.Roll)
	for _, part := range strings.Fields(text) {
		mv, err := parseMove(part, color, dice)
		if err != nil {
			return t, err
		}
		if err := dice.Consume(mv.Die); err != nil {
			return t, fmt.Errorf("%w: move %s", err, part)
		}
		t.Moves = append(t.Moves, mv)
	}
	return t, nil
}

func parseMove(s string, color engine.Color, dice engine.TurnDice) (engine.Move, error) {
	die := 0
	if m := dieSuffixRE.FindStringSubmatch(s); m != nil {
		s = m[1]
		die, _ = strconv.Atoi(m[2])
	}
	mv, err := engine.ParseMove(s, color, dice)
	if err != nil {
		return mv, err
	}
	if die != 0 {
		mv.Die = die
	}
	return mv, nil
}

// ExportMAT writes a match transcript.
func ExportMAT(w io.Writer, match *Match) error {
	bw := bufio.NewWriter(w)

	if match.Event != "" {
		fmt.Fprintf(bw, " ; [Event \"%s\"]\n", match.Event)
	}
	if match.Date != "" {
		fmt.Fprintf(bw, " ; [Date \"%s\"]\n", match.Date)
	}
	fmt.Fprintf(bw, " ; [White \"%s\"]\n", match.White)
	fmt.Fprintf(bw, " ; [Black \"%s\"]\n\n", match.Black)

	for _, game := range match.Games {
		exportGameMAT(bw, game)
	}
	return bw.Flush()
}

func exportGameMAT(w io.Writer, game *Game) {
	fmt.Fprintf(w, " Game %d\n", game.Number)
	for i, t := range game.Turns {
		fmt.Fprintf(w, "%4d) %s %d%d: %s\n", i+1, colorLetter(t.Color), t.Roll[0], t.Roll[1], formatMoves(t.Moves))
	}
	if game.Finished {
		fmt.Fprintf(w, " %s wins\n", titleColor(game.Winner))
	}
	fmt.Fprintln(w)
}

func formatMoves(moves []engine.Move) string {
	if len(moves) == 0 {
		return noMove
	}
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
		if m.To == engine.Off {
			parts[i] += "(" + strconv.Itoa(m.Die) + ")"
		}
	}
	return strings.Join(parts, " ")
}

func colorLetter(c engine.Color) string {
	if c == engine.Black {
		return "B"
	}
	return "W"
}

func titleColor(c engine.Color) string {
	if c == engine.Black {
		return "Black"
	}
	return "White"
}
