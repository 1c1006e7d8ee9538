package ai

import (
	"errors"
	"slices"
	"testing"

	"github.com/matryer/is"

	"github.com/yourusername/nardy/pkg/engine"
)

func dice(a, b int) engine.TurnDice {
	return engine.NewTurnDice(engine.DiceRoll{a, b})
}

// blockedBoard leaves Black on the bar facing six closed entry points.
func blockedBoard() engine.Board {
	white := map[engine.Location]int{}
	for p := 13; p <= 18; p++ {
		white[engine.Point(p)] = 2
	}
	white[engine.Point(1)] = 3
	return boardWith(white, map[engine.Location]int{engine.Bar: 1, engine.Point(12): 14})
}

func TestParseDifficulty(t *testing.T) {
	is := is.New(t)
	cases := map[string]Difficulty{
		"random":    Random,
		"1":         Random,
		"Heuristic": Heuristic,
		"medium":    Heuristic,
		" hard ":    Lookahead,
		"lookahead": Lookahead,
	}
	for s, want := range cases {
		d, err := ParseDifficulty(s)
		is.NoErr(err)
		is.Equal(d, want)
	}
	_, err := ParseDifficulty("expert")
	is.True(err != nil)
}

func TestNewStrategies(t *testing.T) {
	is := is.New(t)
	for _, d := range []Difficulty{Random, Heuristic, Lookahead} {
		s, err := New(d, DefaultOptions())
		is.NoErr(err)
		is.Equal(s.Name(), d.String())
	}
	_, err := New(Difficulty(9), DefaultOptions())
	is.True(err != nil)
}

func TestStrategiesNoLegalMoves(t *testing.T) {
	is := is.New(t)
	b := blockedBoard()
	is.NoErr(b.Validate())
	d := dice(1, 6)
	is.Equal(len(engine.AllLegalMoves(&b, d, engine.Black)), 0)

	for _, diff := range []Difficulty{Random, Heuristic, Lookahead} {
		s, err := New(diff, DefaultOptions())
		is.NoErr(err)
		_, err = s.ChooseMove(b, d, engine.Black)
		is.True(errors.Is(err, ErrNoLegalMoves))
	}
	// no dice at all
	r := NewRandomPlayer(nil)
	_, err := r.ChooseMove(engine.StartingBoard(), engine.TurnDice{}, engine.White)
	is.True(errors.Is(err, ErrNoLegalMoves))
}

func TestRandomPlayerPicksLegalMoves(t *testing.T) {
	is := is.New(t)
	rng := engine.SeededRNG(3)
	p := NewRandomPlayer(rng)
	roller := engine.NewSeededRoller(4)
	b := engine.StartingBoard()
	seen := map[engine.Move]bool{}
	for i := 0; i < 200; i++ {
		d := engine.NewTurnDice(roller.Roll())
		m, err := p.ChooseMove(b, d, engine.Black)
		is.NoErr(err)
		is.True(slices.Contains(engine.AllLegalMoves(&b, d, engine.Black), m))
		seen[m] = true
	}
	// every opening move of Black should turn up
	is.Equal(len(seen), 6)
}

func TestStrategiesDoNotMutateInputs(t *testing.T) {
	is := is.New(t)
	b := engine.StartingBoard()
	before := b.Clone()
	d := dice(4, 4)
	for _, diff := range []Difficulty{Random, Heuristic, Lookahead} {
		s, err := New(diff, Options{Weights: DefaultWeights(), Source: engine.SeededRNG(1), Cache: NewEvalCache(64)})
		is.NoErr(err)
		_, err = s.ChooseMove(b, d, engine.White)
		is.NoErr(err)
		is.True(b.Equal(&before))
		is.Equal(d.Len(), 4)
	}
}
