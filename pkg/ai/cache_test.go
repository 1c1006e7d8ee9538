package ai

import (
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/yourusername/nardy/pkg/engine"
)

func TestEvalCacheLookupAdd(t *testing.T) {
	is := is.New(t)
	c := NewEvalCache(1000)
	is.Equal(c.Size(), 1024)

	b := engine.StartingBoard()
	_, ok := c.Lookup(&b, engine.White)
	is.True(!ok)

	c.Add(&b, engine.White, 42)
	score, ok := c.Lookup(&b, engine.White)
	is.True(ok)
	is.Equal(score, 42.0)

	// color is part of the key
	_, ok = c.Lookup(&b, engine.Black)
	is.True(!ok)

	lookups, hits, adds := c.Stats()
	is.Equal(lookups, uint64(3))
	is.Equal(hits, uint64(1))
	is.Equal(adds, uint64(1))
	is.True(approx(c.HitRate(), 100.0/3))

	c.Flush()
	_, ok = c.Lookup(&b, engine.White)
	is.True(!ok)
	lookups, hits, adds = c.Stats()
	is.Equal(lookups, uint64(1))
	is.Equal(hits, uint64(0))
	is.Equal(adds, uint64(0))
}

func TestEvalCacheTwoWay(t *testing.T) {
	is := is.New(t)
	c := NewEvalCache(2) // a single slot: every key collides
	a := engine.StartingBoard()
	b := boardWith(
		map[engine.Location]int{engine.Point(1): 14, engine.Point(4): 1},
		map[engine.Location]int{engine.Point(13): 15},
	)
	x := boardWith(
		map[engine.Location]int{engine.Point(1): 14, engine.Point(6): 1},
		map[engine.Location]int{engine.Point(13): 15},
	)

	c.Add(&a, engine.White, 1)
	c.Add(&b, engine.White, 2)
	s, ok := c.Lookup(&a, engine.White)
	is.True(ok)
	is.Equal(s, 1.0)
	s, ok = c.Lookup(&b, engine.White)
	is.True(ok)
	is.Equal(s, 2.0)

	c.Add(&x, engine.White, 3)
	_, ok = c.Lookup(&a, engine.White)
	is.True(!ok) // oldest entry evicted
	_, ok = c.Lookup(&b, engine.White)
	is.True(ok)
	_, ok = c.Lookup(&x, engine.White)
	is.True(ok)
}

func TestEvalCacheConcurrent(t *testing.T) {
	is := is.New(t)
	c := NewEvalCache(128)
	w := DefaultWeights().Position
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			roller := engine.NewSeededRoller(seed)
			b := engine.StartingBoard()
			for i := 0; i < 100; i++ {
				for _, m := range engine.AllLegalMoves(&b, engine.NewTurnDice(roller.Roll()), engine.White) {
					sim := b.Clone()
					if _, err := engine.ApplyToBoard(&sim, m, engine.White); err != nil {
						t.Error(err)
						return
					}
					if _, ok := c.Lookup(&sim, engine.White); !ok {
						c.Add(&sim, engine.White, Evaluate(&sim, engine.White, w).Score)
					}
				}
			}
		}(int64(g))
	}
	wg.Wait()
	lookups, hits, _ := c.Stats()
	is.True(lookups > 0)
	is.True(hits > 0)
}
