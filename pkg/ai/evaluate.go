// Package ai implements the computer opponent: a position evaluator and
// three move-selection strategies of increasing strength.
package ai

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/nardy/pkg/engine"
)

// Features are the raw position terms the evaluator weighs, all from the
// point of view of one color.
type Features struct {
	OwnOff       int     `json:"own_off"`       // own checkers borne off
	OwnBar       int     `json:"own_bar"`       // own checkers on the bar
	MeanProgress float64 `json:"mean_progress"` // mean progress of own checkers on points
	SafePoints   int     `json:"safe_points"`   // own points with two or more checkers
	Blots        int     `json:"blots"`         // own points with exactly one checker
	HomeCheckers int     `json:"home_checkers"` // own checkers on points with progress >= 19
	PrimePairs   int     `json:"prime_pairs"`   // adjacent pairs of own safe points
	OppBar       int     `json:"opp_bar"`       // opposing checkers on the bar
	OppBlots     int     `json:"opp_blots"`     // opposing points with exactly one checker
	OppOff       int     `json:"opp_off"`       // opposing checkers borne off
}

func (f Features) vector() []float64 {
	return []float64{
		float64(f.OwnOff),
		float64(f.OwnBar),
		f.MeanProgress,
		float64(f.SafePoints),
		float64(f.Blots),
		float64(f.HomeCheckers),
		float64(f.PrimePairs),
		float64(f.OppBar),
		float64(f.OppBlots),
		float64(f.OppOff),
	}
}

// Evaluation is a scored position.
type Evaluation struct {
	Features Features
	Score    float64
}

// ExtractFeatures measures board from color's point of view.
func ExtractFeatures(board *engine.Board, color engine.Color) Features {
	opp := color.Opponent()
	f := Features{
		OwnOff: board.CountAt(color, engine.Off),
		OwnBar: board.CountAt(color, engine.Bar),
		OppBar: board.CountAt(opp, engine.Bar),
		OppOff: board.CountAt(opp, engine.Off),
	}

	var progress, counts []float64
	var safe []int
	for p := 1; p < engine.ProgressOff; p++ {
		n := board.CountAt(color, engine.LocationFromProgress(p, color))
		if n == 0 {
			continue
		}
		progress = append(progress, float64(p))
		counts = append(counts, float64(n))
		if p >= engine.ProgressHome {
			f.HomeCheckers += n
		}
		if n >= 2 {
			safe = append(safe, p)
		} else {
			f.Blots++
		}
	}
	if len(progress) > 0 {
		f.MeanProgress = stat.Mean(progress, counts)
	}
	f.SafePoints = len(safe)
	for i := 1; i < len(safe); i++ {
		if safe[i] == safe[i-1]+1 {
			f.PrimePairs++
		}
	}

	for loc := engine.Point(1); loc <= engine.Point(24); loc++ {
		if board.CountAt(opp, loc) == 1 {
			f.OppBlots++
		}
	}
	return f
}

// Score weighs f with w.
func (w PositionWeights) Score(f Features) float64 {
	return floats.Dot(w.vector(), f.vector())
}

// Evaluate scores board for color; higher is better for color.
func Evaluate(board *engine.Board, color engine.Color, w PositionWeights) Evaluation {
	f := ExtractFeatures(board, color)
	return Evaluation{Features: f, Score: w.Score(f)}
}
