// Package api provides the HTTP/JSON and WebSocket analysis service for the
// long nardy engine. The service is stateless: every request carries the
// position, the color to move and the dice.
package api

import (
	"github.com/yourusername/nardy/pkg/ai"
	"github.com/yourusername/nardy/pkg/engine"
)

// ============================================================================
// Request Types
// ============================================================================

// PositionRequest identifies a position and the dice of the color to move.
type PositionRequest struct {
	Position  string `json:"position,omitempty"`  // Position ID; empty = starting position
	Turn      string `json:"turn,omitempty"`      // "white" or "black" (default white)
	Dice      [2]int `json:"dice,omitempty"`      // Dice rolled this turn; [0,0] = not rolled
	Remaining []int  `json:"remaining,omitempty"` // Dice still unused; omitted = the full roll
}

// LegalRequest asks for the legal moves, or the destinations from one source.
type LegalRequest struct {
	PositionRequest
	From string `json:"from,omitempty"` // "bar" or a point; empty = every move
}

// MoveRequest asks the computer to choose a move.
type MoveRequest struct {
	PositionRequest
	Difficulty string `json:"difficulty,omitempty"` // random, heuristic, lookahead (default)
}

// ApplyRequest validates and plays one move.
type ApplyRequest struct {
	PositionRequest
	Move string `json:"move"` // e.g. "1/4", "bar/15", "22/off"
}

// EvaluateRequest scores a position; with dice it also ranks the moves.
type EvaluateRequest struct {
	PositionRequest
	NumMoves int `json:"num_moves,omitempty"` // Max ranked moves (default 5)
}

// TutorRequest rates a played move.
type TutorRequest struct {
	PositionRequest
	Move string `json:"move"` // Move played, in the position before it
}

// SelfPlayRequest runs a batch of computer-versus-computer games.
type SelfPlayRequest struct {
	Games    int    `json:"games,omitempty"`     // Number of games (default 100, max 10000)
	White    string `json:"white,omitempty"`     // White difficulty (default lookahead)
	Black    string `json:"black,omitempty"`     // Black difficulty (default heuristic)
	Seed     int64  `json:"seed,omitempty"`      // Random seed (0 = random)
	Workers  int    `json:"workers,omitempty"`   // Parallel workers (0 = all cores)
	MaxTurns int    `json:"max_turns,omitempty"` // Per-game turn cap
}

// ============================================================================
// Response Types
// ============================================================================

// BoardView lists checker counts by location index: 0 bar, 1-24 points, 25 off.
type BoardView struct {
	White [engine.NumLocations]uint8 `json:"white"`
	Black [engine.NumLocations]uint8 `json:"black"`
}

func boardView(b engine.Board) BoardView {
	return BoardView{White: b[engine.White], Black: b[engine.Black]}
}

// StartResponse describes the opening position.
type StartResponse struct {
	Position string    `json:"position"`
	Turn     string    `json:"turn"`
	Board    BoardView `json:"board"`
}

// MoveView is a move in notation plus its parts.
type MoveView struct {
	Move string `json:"move"` // "from/to"
	From string `json:"from"`
	To   string `json:"to"`
	Die  int    `json:"die"`
}

func moveView(m engine.Move) MoveView {
	return MoveView{Move: m.String(), From: m.From.String(), To: m.To.String(), Die: m.Die}
}

func moveViews(moves []engine.Move) []MoveView {
	out := make([]MoveView, len(moves))
	for i, m := range moves {
		out[i] = moveView(m)
	}
	return out
}

// LegalResponse lists the legal moves for the position.
type LegalResponse struct {
	Position     string     `json:"position"`
	Turn         string     `json:"turn"`
	Remaining    []int      `json:"remaining"`
	Moves        []MoveView `json:"moves"`
	Destinations []string   `json:"destinations,omitempty"` // only when From was given
}

// ChosenMoveResponse is the computer's choice. Pass is set, and Move nil,
// when there is no legal move.
type ChosenMoveResponse struct {
	Move     *MoveView `json:"move,omitempty"`
	Pass     bool      `json:"pass"`
	Strategy string    `json:"strategy"`
	NumLegal int       `json:"num_legal"`
}

// ApplyResponse is the position after a move.
type ApplyResponse struct {
	Position  string    `json:"position"`
	Move      MoveView  `json:"move"`
	Hit       bool      `json:"hit"`
	Won       bool      `json:"won"`
	Remaining []int     `json:"remaining"`
	TurnOver  bool      `json:"turn_over"` // no dice left, no legal move left, or game won
	Board     BoardView `json:"board"`
}

// RankedMove is a move with the score of its resulting position.
type RankedMove struct {
	MoveView
	Score float64 `json:"score"`
	Hit   bool    `json:"hit"`
}

func rankedMoves(scored []ai.ScoredMove) []RankedMove {
	out := make([]RankedMove, len(scored))
	for i, s := range scored {
		out[i] = RankedMove{MoveView: moveView(s.Move), Score: s.Score, Hit: s.Hit}
	}
	return out
}

// EvaluateResponse is the evaluator's view of a position.
type EvaluateResponse struct {
	Position string       `json:"position"`
	Turn     string       `json:"turn"`
	Score    float64      `json:"score"`           // from Turn's point of view
	Features ai.Features  `json:"features"`        // raw evaluator terms
	Moves    []RankedMove `json:"moves,omitempty"` // ranked, best first, when dice were given
	NumLegal int          `json:"num_legal"`
}

// TutorResponse is the tutor's rating of a played move.
type TutorResponse struct {
	Skill      string       `json:"skill"`      // "None", "Doubtful", "Bad", "Very Bad"
	SkillAbbr  string       `json:"skill_abbr"` // "", "?!", "?", "??"
	Loss       float64      `json:"loss"`       // score lost against the best move
	Played     MoveView     `json:"played"`
	BestMove   MoveView     `json:"best_move"`
	Score      float64      `json:"score"`
	BestScore  float64      `json:"best_score"`
	IsForced   bool         `json:"is_forced"`
	TopMoves   []RankedMove `json:"top_moves"`
	Suggestion string       `json:"suggestion,omitempty"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error   string `json:"error"`             // Error message
	Code    string `json:"code,omitempty"`    // Error code
	Details string `json:"details,omitempty"` // Additional details
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status  string     `json:"status"`          // "ok" or "error"
	Version string     `json:"version"`         // Service version
	Ready   bool       `json:"ready"`           // Whether the service accepts work
	Pool    *PoolStats `json:"pool,omitempty"`  // Worker pool statistics
	Cache   *CacheInfo `json:"cache,omitempty"` // Evaluation cache statistics
}

// CacheInfo reports evaluation cache usage.
type CacheInfo struct {
	Size    int     `json:"size"`
	Lookups uint64  `json:"lookups"`
	Hits    uint64  `json:"hits"`
	HitRate float64 `json:"hit_rate"` // percentage
}

// ReplayRequest carries a game transcript to check.
type ReplayRequest struct {
	Transcript string `json:"transcript"`
}

// ReplayedGame is the outcome of one transcript game. Error and Code are
// set when the game contains an illegal turn.
type ReplayedGame struct {
	Number   int        `json:"number"`
	Position string     `json:"position,omitempty"`
	Board    *BoardView `json:"board,omitempty"`
	Winner   string     `json:"winner,omitempty"`
	Finished bool       `json:"finished"`
	Turns    int        `json:"turns"`
	Moves    int        `json:"moves"`
	Error    string     `json:"error,omitempty"`
	Code     string     `json:"code,omitempty"`
}

// ReplayResponse is the response for /api/replay.
type ReplayResponse struct {
	White string         `json:"white"`
	Black string         `json:"black"`
	Games []ReplayedGame `json:"games"`
	Valid bool           `json:"valid"` // every game replayed cleanly
}
