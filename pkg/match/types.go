// Package match provides game transcripts for long nardy: recording games
// turn by turn, reading and writing them in a MAT-style text format, and
// replaying them through the rule engine.
package match

import (
	"github.com/yourusername/nardy/pkg/engine"
)

// Match is a series of games between the same two players.
type Match struct {
	White string  // name of the White player
	Black string  // name of the Black player
	Event string  // event name
	Date  string  // YYYY-MM-DD
	Games []*Game // games in play order
}

// Game is one game as a sequence of turns.
type Game struct {
	Number   int          // 1-indexed
	Turns    []Turn       // turns in play order
	Winner   engine.Color // valid when Finished
	Finished bool         // false for abandoned or in-progress games
}

// Turn is one roll and the single-die moves played with it. A turn with no
// moves is a pass.
type Turn struct {
	Color engine.Color
	Roll  engine.DiceRoll
	Moves []engine.Move
}

// NewMatch creates a new empty match.
func NewMatch(white, black string) *Match {
	return &Match{
		White: white,
		Black: black,
		Games: make([]*Game, 0),
	}
}

// NewGame appends a new empty game to the match and returns it.
func (m *Match) NewGame() *Game {
	g := &Game{Number: len(m.Games) + 1, Turns: make([]Turn, 0)}
	m.Games = append(m.Games, g)
	return g
}

// AddTurn records a turn. moves is copied.
func (g *Game) AddTurn(color engine.Color, roll engine.DiceRoll, moves []engine.Move) {
	g.Turns = append(g.Turns, Turn{
		Color: color,
		Roll:  roll,
		Moves: append([]engine.Move(nil), moves...),
	})
}

// SetWinner marks the game finished.
func (g *Game) SetWinner(c engine.Color) {
	g.Winner = c
	g.Finished = true
}

// MoveCount returns the number of single-die moves in the game.
func (g *Game) MoveCount() int {
	n := 0
	for _, t := range g.Turns {
		n += len(t.Moves)
	}
	return n
}
