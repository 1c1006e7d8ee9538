package ai

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/yourusername/nardy/pkg/engine"
)

// ErrNoLegalMoves is returned when the color to move cannot move.
var ErrNoLegalMoves = errors.New("no legal moves")

// Strategy picks one move for color. The board is passed by value: a
// strategy works on its own copy and can never touch a live session.
type Strategy interface {
	Name() string
	ChooseMove(board engine.Board, dice engine.TurnDice, color engine.Color) (engine.Move, error)
}

// Source is the randomness a strategy draws from. *frand.RNG satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// globalSource draws from the process-wide frand generator, which is safe
// for concurrent use.
type globalSource struct{}

func (globalSource) Intn(n int) int   { return frand.Intn(n) }
func (globalSource) Float64() float64 { return frand.Float64() }

// Difficulty selects one of the three built-in strategies.
type Difficulty int

const (
	Random Difficulty = iota
	Heuristic
	Lookahead
)

func (d Difficulty) String() string {
	switch d {
	case Random:
		return "random"
	case Heuristic:
		return "heuristic"
	case Lookahead:
		return "lookahead"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// ParseDifficulty accepts the strategy name or its tier number (1-3).
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "random", "easy", "1":
		return Random, nil
	case "heuristic", "medium", "2":
		return Heuristic, nil
	case "lookahead", "hard", "3":
		return Lookahead, nil
	}
	return Random, fmt.Errorf("unknown difficulty %q", s)
}

// Options configure a strategy built with New.
type Options struct {
	Weights Weights
	Source  Source     // nil uses the global frand generator
	Cache   *EvalCache // optional, Lookahead only
}

// DefaultOptions returns stock weights, global randomness and no cache.
func DefaultOptions() Options {
	return Options{Weights: DefaultWeights()}
}

// New builds the strategy for difficulty d.
func New(d Difficulty, opts Options) (Strategy, error) {
	src := opts.Source
	if src == nil {
		src = globalSource{}
	}
	switch d {
	case Random:
		return &RandomPlayer{src: src}, nil
	case Heuristic:
		return &HeuristicPlayer{Weights: opts.Weights.Heuristic, src: src}, nil
	case Lookahead:
		return &LookaheadPlayer{Weights: opts.Weights.Position, Cache: opts.Cache}, nil
	}
	return nil, fmt.Errorf("unknown difficulty %d", int(d))
}

// RandomPlayer picks uniformly among the legal moves.
type RandomPlayer struct {
	src Source
}

// NewRandomPlayer returns a random player drawing from src (nil: global).
func NewRandomPlayer(src Source) *RandomPlayer {
	if src == nil {
		src = globalSource{}
	}
	return &RandomPlayer{src: src}
}

// Name implements Strategy.
func (p *RandomPlayer) Name() string { return Random.String() }

// ChooseMove implements Strategy.
func (p *RandomPlayer) ChooseMove(board engine.Board, dice engine.TurnDice, color engine.Color) (engine.Move, error) {
	moves := engine.AllLegalMoves(&board, dice, color)
	if len(moves) == 0 {
		return engine.Move{}, ErrNoLegalMoves
	}
	m := moves[p.src.Intn(len(moves))]
	log.Debug().Str("strategy", p.Name()).Stringer("color", color).Stringer("move", m).
		Int("candidates", len(moves)).Msg("move-chosen")
	return m, nil
}
