package ai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HeuristicWeights are the per-move coefficients of the heuristic player.
type HeuristicWeights struct {
	Hit        float64 `yaml:"hit"`         // destination holds a lone opposing checker
	Stack      float64 `yaml:"stack"`       // destination already holds our checker
	Distance   float64 `yaml:"distance"`    // per pip of progress gained
	BearOff    float64 `yaml:"bear_off"`    // move bears a checker off
	BreakPoint float64 `yaml:"break_point"` // penalty: source point drops from 2 to a blot
	Noise      float64 `yaml:"noise"`       // upper bound of the uniform tie-break noise
}

// PositionWeights are the coefficients of the position evaluator. Penalties
// are stored as positive magnitudes and subtracted.
type PositionWeights struct {
	Off          float64 `yaml:"off"`
	Bar          float64 `yaml:"bar"`
	MeanProgress float64 `yaml:"mean_progress"`
	SafePoint    float64 `yaml:"safe_point"`
	Blot         float64 `yaml:"blot"`
	Home         float64 `yaml:"home"`
	Prime        float64 `yaml:"prime"`
	OppBar       float64 `yaml:"opp_bar"`
	OppBlot      float64 `yaml:"opp_blot"`
	OppOff       float64 `yaml:"opp_off"`
}

// Weights holds every tunable coefficient of the AI.
type Weights struct {
	Heuristic HeuristicWeights `yaml:"heuristic"`
	Position  PositionWeights  `yaml:"position"`
}

// DefaultWeights returns the stock coefficients.
func DefaultWeights() Weights {
	return Weights{
		Heuristic: HeuristicWeights{
			Hit:        10,
			Stack:      5,
			Distance:   3,
			BearOff:    8,
			BreakPoint: 3,
			Noise:      0.5,
		},
		Position: PositionWeights{
			Off:          20,
			Bar:          20,
			MeanProgress: 2,
			SafePoint:    8,
			Blot:         5,
			Home:         10,
			Prime:        12,
			OppBar:       15,
			OppBlot:      3,
			OppOff:       10,
		},
	}
}

// ParseWeights overlays YAML onto the default weights. Keys absent from the
// document keep their default value.
func ParseWeights(data []byte) (Weights, error) {
	w := DefaultWeights()
	if err := yaml.Unmarshal(data, &w); err != nil {
		return DefaultWeights(), fmt.Errorf("parse weights: %w", err)
	}
	if w.Heuristic.Noise < 0 {
		return DefaultWeights(), fmt.Errorf("parse weights: noise must be non-negative, got %v", w.Heuristic.Noise)
	}
	return w, nil
}

// LoadWeights reads a YAML weights file. An empty path yields the defaults.
func LoadWeights(path string) (Weights, error) {
	if path == "" {
		return DefaultWeights(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultWeights(), fmt.Errorf("failed to read weights: %w", err)
	}
	return ParseWeights(data)
}

// vector lays the weights out in Features.vector order, penalties negated.
func (w PositionWeights) vector() []float64 {
	return []float64{
		w.Off,
		-w.Bar,
		w.MeanProgress,
		w.SafePoint,
		-w.Blot,
		w.Home,
		w.Prime,
		w.OppBar,
		w.OppBlot,
		-w.OppOff,
	}
}
