// Package bearoff provides an exact one-sided bear-off database for long
// nardy endgames. The database is generated in memory: for every home-board
// position it holds the distribution of the number of rolls needed to bear
// off all checkers, playing each roll to minimize the expected count.
package bearoff

import (
	"fmt"
	"math"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/nardy/pkg/engine"
)

// MaxRolls bounds the stored distribution; longer bear-offs are folded
// into the last bucket.
const MaxRolls = 32

// MaxCheckers is the largest supported table.
const MaxCheckers = 15

// Database is a generated one-sided bear-off table.
type Database struct {
	maxCheckers int
	mean        []float32
	dist        [][MaxRolls]float32
}

// Entry is the bear-off outlook of one position.
type Entry struct {
	Mean   float64 // expected rolls to bear off
	StdDev float64
	Dist   [MaxRolls]float32 // Dist[n] = probability of finishing in exactly n rolls
}

// roll is one of the 21 distinct rolls with its probability.
type roll struct {
	a, b int
	p    float32
}

var rolls = func() []roll {
	var out []roll
	for a := 1; a <= 6; a++ {
		for b := a; b <= 6; b++ {
			p := float32(2.0 / 36)
			if a == b {
				p = 1.0 / 36
			}
			out = append(out, roll{a, b, p})
		}
	}
	return out
}()

// Generate builds the table for positions of up to maxCheckers checkers.
// Positions are solved in increasing pip order, since every move lowers
// the pip count.
func Generate(maxCheckers int) (*Database, error) {
	if maxCheckers < 1 || maxCheckers > MaxCheckers {
		return nil, fmt.Errorf("bear-off table size must be 1-%d, got %d", MaxCheckers, maxCheckers)
	}

	n := NumPositions(maxCheckers)
	db := &Database{
		maxCheckers: maxCheckers,
		mean:        make([]float32, n),
		dist:        make([][MaxRolls]float32, n),
	}

	order := make([]int, n)
	pips := make([]int, n)
	for id := range order {
		order[id] = id
		pips[id] = FromIndex(id, maxCheckers).Pips()
	}
	slices.SortStableFunc(order, func(a, b int) int { return pips[a] - pips[b] })

	db.dist[0][0] = 1
	for _, id := range order[1:] {
		db.solve(id, FromIndex(id, maxCheckers))
	}

	log.Debug().Int("checkers", maxCheckers).Int("positions", n).Msg("bearoff-generated")
	return db, nil
}

// solve fills in id from its already solved successors.
func (db *Database) solve(id int, p Position) {
	var mean float32 = 1
	var dist [MaxRolls]float32
	for _, r := range rolls {
		best := db.bestAfter(p, r)
		mean += r.p * db.mean[best]
		for k := 0; k < MaxRolls; k++ {
			dst := min(k+1, MaxRolls-1)
			dist[dst] += r.p * db.dist[best][k]
		}
	}
	db.mean[id] = mean
	db.dist[id] = dist
}

// bestAfter returns the index of the reachable position with the lowest
// expected rolls after playing r from p.
func (db *Database) bestAfter(p Position, r roll) int {
	var reach []Position
	if r.a == r.b {
		reach = []Position{p}
		for i := 0; i < 4; i++ {
			reach = step(reach, r.a)
		}
	} else {
		reach = append(step(step([]Position{p}, r.a), r.b), step(step([]Position{p}, r.b), r.a)...)
	}

	ids := lo.Uniq(lo.Map(reach, func(q Position, _ int) int { return Index(q) }))
	return lo.MinBy(ids, func(a, b int) bool { return db.mean[a] < db.mean[b] })
}

// step plays die once from every position in set. Any checker may move;
// a move past the last point bears the checker off.
func step(set []Position, die int) []Position {
	out := make([]Position, 0, len(set)*NumPoints)
	for _, p := range set {
		if p.Checkers() == 0 {
			out = append(out, p)
			continue
		}
		for i, c := range p {
			if c == 0 {
				continue
			}
			q := p
			q[i]--
			if j := i - die; j >= 0 {
				q[j]++
			}
			out = append(out, q)
		}
	}
	return lo.Uniq(out)
}

// MaxCheckers returns the table size.
func (db *Database) MaxCheckers() int {
	return db.maxCheckers
}

// NumPositions returns the number of positions in the table.
func (db *Database) NumPositions() int {
	return len(db.mean)
}

// Lookup returns the outlook for p.
func (db *Database) Lookup(p Position) (Entry, error) {
	if n := p.Checkers(); n > db.maxCheckers {
		return Entry{}, fmt.Errorf("position has %d checkers, table holds up to %d", n, db.maxCheckers)
	}
	id := Index(p)
	e := Entry{Dist: db.dist[id]}
	e.Mean, e.StdDev = AverageRolls(e.Dist)
	return e, nil
}

// AverageRolls returns the mean and standard deviation of a distribution
// of rolls to bear off.
func AverageRolls(dist [MaxRolls]float32) (mean, stddev float64) {
	x := make([]float64, MaxRolls)
	w := make([]float64, MaxRolls)
	for i, p := range dist {
		x[i], w[i] = float64(i), float64(p)
	}
	mean = stat.Mean(x, w)
	return mean, math.Sqrt(stat.Moment(2, x, w))
}

// HomePosition extracts color's bear-off position from board. It reports
// false unless every checker color has not borne off is in its home.
func HomePosition(board *engine.Board, color engine.Color) (Position, bool) {
	var p Position
	home := 0
	for prog := engine.ProgressHome; prog < engine.ProgressOff; prog++ {
		c := board.CountAt(color, engine.LocationFromProgress(prog, color))
		p[engine.ProgressOff-1-prog] = uint8(c)
		home += c
	}
	left := board.Total(color) - board.CountAt(color, engine.Off)
	return p, home == left
}
