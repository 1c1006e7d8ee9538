package ai

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/yourusername/nardy/pkg/engine"
)

// SkillType rates a played move against the best available one.
type SkillType int

const (
	SkillVeryBad  SkillType = iota // blunder: loses >= 12 score units
	SkillBad                       // error: loses 6-12
	SkillDoubtful                  // questionable: loses 2-6
	SkillNone                      // best or close to it
)

// String returns the display name of the skill type.
func (s SkillType) String() string {
	return [...]string{"Very Bad", "Bad", "Doubtful", "None"}[s]
}

// Abbr returns the annotation mark (??, ?, ?!).
func (s SkillType) Abbr() string {
	return [...]string{"??", "?", "?!", ""}[s]
}

// SkillThresholds are the score losses at which each rating starts.
var SkillThresholds = [3]float64{
	12, // SkillVeryBad
	6,  // SkillBad
	2,  // SkillDoubtful
}

// ClassifySkill rates a score loss. loss is positive for moves worse than best.
func ClassifySkill(loss float64) SkillType {
	switch {
	case loss >= SkillThresholds[0]:
		return SkillVeryBad
	case loss >= SkillThresholds[1]:
		return SkillBad
	case loss >= SkillThresholds[2]:
		return SkillDoubtful
	}
	return SkillNone
}

// MoveAnalysis is the tutor's verdict on one played move.
type MoveAnalysis struct {
	Move      engine.Move  `json:"move"`
	BestMove  engine.Move  `json:"best_move"`
	Score     float64      `json:"score"`
	BestScore float64      `json:"best_score"`
	Loss      float64      `json:"loss"`
	Skill     SkillType    `json:"skill"`
	IsForced  bool         `json:"is_forced"`
	TopMoves  []ScoredMove `json:"top_moves"`
}

// TopMovesShown is how many ranked alternatives an analysis carries.
const TopMovesShown = 5

// RankMoves returns every legal move with its lookahead score, best first.
func RankMoves(board engine.Board, dice engine.TurnDice, color engine.Color, w PositionWeights) []ScoredMove {
	return NewLookaheadPlayer(w, nil).Rank(board, dice, color)
}

// AnalyzeMove rates played against the best move for the position. played
// must be legal for board and dice.
func AnalyzeMove(board engine.Board, dice engine.TurnDice, color engine.Color, played engine.Move, w PositionWeights) (*MoveAnalysis, error) {
	ranked := RankMoves(board, dice, color, w)
	if len(ranked) == 0 {
		return nil, ErrNoLegalMoves
	}
	idx := lo.IndexOf(lo.Map(ranked, func(s ScoredMove, _ int) engine.Move { return s.Move }), played)
	if idx < 0 {
		if err := engine.CheckMove(&board, played, color); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("move %s: %w", played, engine.ErrDieUnavailable)
	}

	best := ranked[0]
	a := &MoveAnalysis{
		Move:      played,
		BestMove:  best.Move,
		Score:     ranked[idx].Score,
		BestScore: best.Score,
		IsForced:  len(ranked) == 1,
		TopMoves:  ranked[:min(TopMovesShown, len(ranked))],
	}
	a.Loss = a.BestScore - a.Score
	a.Skill = ClassifySkill(a.Loss)
	return a, nil
}
