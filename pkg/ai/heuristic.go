package ai

import (
	"github.com/rs/zerolog/log"

	"github.com/yourusername/nardy/pkg/engine"
)

// HeuristicPlayer scores each candidate move from its immediate features,
// without simulating the resulting position, and plays the best one. A small
// uniform noise term breaks ties.
type HeuristicPlayer struct {
	Weights HeuristicWeights
	src     Source
}

// NewHeuristicPlayer returns a heuristic player drawing noise from src
// (nil: global).
func NewHeuristicPlayer(w HeuristicWeights, src Source) *HeuristicPlayer {
	if src == nil {
		src = globalSource{}
	}
	return &HeuristicPlayer{Weights: w, src: src}
}

// Name implements Strategy.
func (p *HeuristicPlayer) Name() string { return Heuristic.String() }

// MoveScore is the noiseless heuristic value of m for color on board.
func MoveScore(board *engine.Board, m engine.Move, color engine.Color, w HeuristicWeights) float64 {
	opp := color.Opponent()
	score := 0.0
	if m.To.IsPoint() {
		if board.CountAt(opp, m.To) == 1 {
			score += w.Hit
		}
		if board.CountAt(color, m.To) >= 1 {
			score += w.Stack
		}
	}
	score += w.Distance * float64(engine.ProgressOf(m.To, color)-engine.ProgressOf(m.From, color))
	if m.To == engine.Off {
		score += w.BearOff
	}
	if m.From.IsPoint() && board.CountAt(color, m.From) == 2 {
		score -= w.BreakPoint
	}
	return score
}

// ChooseMove implements Strategy.
func (p *HeuristicPlayer) ChooseMove(board engine.Board, dice engine.TurnDice, color engine.Color) (engine.Move, error) {
	moves := engine.AllLegalMoves(&board, dice, color)
	if len(moves) == 0 {
		return engine.Move{}, ErrNoLegalMoves
	}
	best, bestScore := moves[0], 0.0
	for i, m := range moves {
		score := MoveScore(&board, m, color, p.Weights) + p.Weights.Noise*p.src.Float64()
		if i == 0 || score > bestScore {
			best, bestScore = m, score
		}
	}
	log.Debug().Str("strategy", p.Name()).Stringer("color", color).Stringer("move", best).
		Float64("score", bestScore).Int("candidates", len(moves)).Msg("move-chosen")
	return best, nil
}
