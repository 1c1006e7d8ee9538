package match

import (
	"errors"
	"fmt"

	"github.com/yourusername/nardy/pkg/engine"
)

// Replay errors.
var (
	ErrOutOfTurn      = errors.New("turn played by the wrong color")
	ErrResultMismatch = errors.New("recorded result does not match the game")
)

// Replayed is the outcome of replaying a game.
type Replayed struct {
	Board    engine.Board
	Winner   engine.Color
	Finished bool
	Turns    int
	Moves    int
}

// Replay plays a game through a fresh session from the starting position,
// rejecting the first illegal turn or move. The recorded result, if any,
// must agree with the replayed one.
func (g *Game) Replay() (Replayed, error) {
	var out Replayed
	if len(g.Turns) == 0 {
		out.Board = engine.StartingBoard()
		if g.Finished {
			return out, ErrResultMismatch
		}
		return out, nil
	}

	s := engine.NewSession(g.Turns[0].Color)
	for i, t := range g.Turns {
		if t.Color != s.Turn() {
			return out, fmt.Errorf("turn %d: %w: %s to move", i+1, ErrOutOfTurn, s.Turn())
		}
		if err := s.SetDice(t.Roll); err != nil {
			return out, fmt.Errorf("turn %d: %w", i+1, err)
		}
		for _, m := range t.Moves {
			if _, err := s.ApplyMove(m); err != nil {
				return out, fmt.Errorf("turn %d: %w", i+1, err)
			}
			out.Moves++
		}
		out.Turns++
		if _, won := s.Winner(); won {
			if i != len(g.Turns)-1 {
				return out, fmt.Errorf("turn %d: %w", i+2, engine.ErrGameOver)
			}
			break
		}
		if err := s.EndTurn(); err != nil {
			return out, fmt.Errorf("turn %d: %w", i+1, err)
		}
	}

	out.Board = s.Board()
	out.Winner, out.Finished = s.Winner()
	if g.Finished != out.Finished || (g.Finished && g.Winner != out.Winner) {
		return out, ErrResultMismatch
	}
	return out, nil
}
