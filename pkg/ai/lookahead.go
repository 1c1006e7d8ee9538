package ai

import (
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/nardy/pkg/engine"
)

// LookaheadPlayer plays every candidate move on a private copy of the board
// and keeps the move whose resulting position evaluates best. Ties go to the
// first candidate in legal-move order.
type LookaheadPlayer struct {
	Weights PositionWeights
	Cache   *EvalCache // optional
}

// NewLookaheadPlayer returns a one-ply search player.
func NewLookaheadPlayer(w PositionWeights, cache *EvalCache) *LookaheadPlayer {
	return &LookaheadPlayer{Weights: w, Cache: cache}
}

// Name implements Strategy.
func (p *LookaheadPlayer) Name() string { return Lookahead.String() }

// ScoredMove is a candidate move with the score of its resulting position.
type ScoredMove struct {
	Move  engine.Move `json:"move"`
	Score float64     `json:"score"`
	Hit   bool        `json:"hit"`
}

// evaluate scores a position, going through the cache when one is set.
func (p *LookaheadPlayer) evaluate(board *engine.Board, color engine.Color) float64 {
	if p.Cache == nil {
		return Evaluate(board, color, p.Weights).Score
	}
	if score, ok := p.Cache.Lookup(board, color); ok {
		return score
	}
	score := Evaluate(board, color, p.Weights).Score
	p.Cache.Add(board, color, score)
	return score
}

// Score simulates every legal move on a clone of board and scores the
// result, in legal-move order.
func (p *LookaheadPlayer) Score(board engine.Board, dice engine.TurnDice, color engine.Color) []ScoredMove {
	moves := engine.AllLegalMoves(&board, dice, color)
	scored := make([]ScoredMove, 0, len(moves))
	for _, m := range moves {
		sim := board.Clone()
		hit, err := engine.ApplyToBoard(&sim, m, color)
		if err != nil {
			// AllLegalMoves and ApplyToBoard disagree: a rules defect.
			log.Error().Err(err).Stringer("move", m).Msg("lookahead-simulation-rejected")
			continue
		}
		scored = append(scored, ScoredMove{Move: m, Score: p.evaluate(&sim, color), Hit: hit})
	}
	return scored
}

// Rank returns the scored moves best first. Equal scores keep legal-move order.
func (p *LookaheadPlayer) Rank(board engine.Board, dice engine.TurnDice, color engine.Color) []ScoredMove {
	scored := p.Score(board, dice, color)
	slices.SortStableFunc(scored, func(a, b ScoredMove) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	return scored
}

// ChooseMove implements Strategy.
func (p *LookaheadPlayer) ChooseMove(board engine.Board, dice engine.TurnDice, color engine.Color) (engine.Move, error) {
	scored := p.Score(board, dice, color)
	if len(scored) == 0 {
		return engine.Move{}, ErrNoLegalMoves
	}
	best := scored[0]
	for _, s := range scored[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	log.Debug().Str("strategy", p.Name()).Stringer("color", color).Stringer("move", best.Move).
		Float64("score", best.Score).Int("candidates", len(scored)).Msg("move-chosen")
	return best.Move, nil
}
