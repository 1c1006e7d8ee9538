package ai

import (
	"testing"

	"github.com/matryer/is"

	"github.com/yourusername/nardy/pkg/engine"
)

func TestLookaheadOpening(t *testing.T) {
	is := is.New(t)
	p := NewLookaheadPlayer(DefaultWeights().Position, nil)
	b := engine.StartingBoard()

	scored := p.Score(b, dice(3, 5), engine.White)
	is.Equal(len(scored), 2)
	// 1/4: mean 18/15, one safe point, one blot
	is.True(approx(scored[0].Score, 2*18.0/15+8-5))
	// 1/6: mean 20/15
	is.True(approx(scored[1].Score, 2*20.0/15+8-5))

	m, err := p.ChooseMove(b, dice(3, 5), engine.White)
	is.NoErr(err)
	is.Equal(m, engine.Move{From: engine.Point(1), To: engine.Point(6), Die: 5})
}

func TestLookaheadTiesGoToFirstMove(t *testing.T) {
	is := is.New(t)
	p := NewLookaheadPlayer(PositionWeights{}, nil)
	b := engine.StartingBoard()
	d := dice(2, 6)
	m, err := p.ChooseMove(b, d, engine.Black)
	is.NoErr(err)
	is.Equal(m, engine.AllLegalMoves(&b, d, engine.Black)[0])
}

func TestLookaheadHitReflected(t *testing.T) {
	is := is.New(t)
	b := boardWith(
		map[engine.Location]int{engine.Point(1): 13, engine.Point(5): 2},
		map[engine.Location]int{engine.Point(7): 1, engine.Point(13): 14},
	)
	scored := NewLookaheadPlayer(DefaultWeights().Position, nil).Score(b, dice(2, 1), engine.White)
	hits := 0
	for _, s := range scored {
		if s.Hit {
			hits++
			is.Equal(s.Move, engine.Move{From: engine.Point(5), To: engine.Point(7), Die: 2})
		}
	}
	is.Equal(hits, 1)
}

func TestLookaheadRank(t *testing.T) {
	is := is.New(t)
	p := NewLookaheadPlayer(DefaultWeights().Position, nil)
	b := engine.StartingBoard()
	ranked := p.Rank(b, dice(6, 6), engine.White)
	is.True(len(ranked) > 0)
	for i := 1; i < len(ranked); i++ {
		is.True(ranked[i-1].Score >= ranked[i].Score)
	}
	best, err := p.ChooseMove(b, dice(6, 6), engine.White)
	is.NoErr(err)
	is.Equal(best, ranked[0].Move)
}

func TestLookaheadCacheConsistent(t *testing.T) {
	is := is.New(t)
	cache := NewEvalCache(256)
	plain := NewLookaheadPlayer(DefaultWeights().Position, nil)
	cached := NewLookaheadPlayer(DefaultWeights().Position, cache)
	roller := engine.NewSeededRoller(21)
	b := engine.StartingBoard()
	for i := 0; i < 50; i++ {
		d := engine.NewTurnDice(roller.Roll())
		is.Equal(cached.Score(b, d, engine.Black), plain.Score(b, d, engine.Black))
	}
	_, hits, adds := cache.Stats()
	is.True(hits > 0)
	is.True(adds > 0)
}
