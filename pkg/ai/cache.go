package ai

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"

	"github.com/yourusername/nardy/internal/positionid"
	"github.com/yourusername/nardy/pkg/engine"
)

// DefaultCacheSize is the entry count used when NewEvalCache gets zero.
const DefaultCacheSize = 1 << 16

type cacheEntry struct {
	key   positionid.PositionKey
	color engine.Color
	valid bool
	score float64
}

// cacheNode holds the primary and secondary entries of one slot.
type cacheNode struct {
	primary   cacheEntry
	secondary cacheEntry
}

// EvalCache is a two-way associative cache of position scores, safe for
// concurrent use. A new entry takes the primary way and demotes the old
// primary to the secondary way.
type EvalCache struct {
	mu       sync.RWMutex
	nodes    []cacheNode
	hashMask uint64

	lookups atomic.Uint64
	hits    atomic.Uint64
	adds    atomic.Uint64
}

// NewEvalCache creates a cache of at least size entries, rounded up to a
// power of two.
func NewEvalCache(size int) *EvalCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if size > 1<<30 {
		size = 1 << 30
	}
	p := 2
	for p < size {
		p <<= 1
	}
	return &EvalCache{
		nodes:    make([]cacheNode, p/2),
		hashMask: uint64(p/2 - 1),
	}
}

func (c *EvalCache) slot(key positionid.PositionKey, color engine.Color) uint64 {
	b := append(key.Bytes(), byte(color))
	return xxhash.Sum64(b) & c.hashMask
}

func cacheKey(board *engine.Board) positionid.PositionKey {
	return positionid.MakePositionKey(positionid.Board(*board))
}

// Lookup returns the cached score of board for color.
func (c *EvalCache) Lookup(board *engine.Board, color engine.Color) (float64, bool) {
	key := cacheKey(board)
	slot := c.slot(key, color)
	c.lookups.Add(1)

	c.mu.RLock()
	node := c.nodes[slot]
	c.mu.RUnlock()

	for _, e := range [2]cacheEntry{node.primary, node.secondary} {
		if e.valid && e.color == color && positionid.EqualKeys(e.key, key) {
			c.hits.Add(1)
			return e.score, true
		}
	}
	return 0, false
}

// Add stores the score of board for color.
func (c *EvalCache) Add(board *engine.Board, color engine.Color, score float64) {
	key := cacheKey(board)
	slot := c.slot(key, color)

	c.mu.Lock()
	node := &c.nodes[slot]
	node.secondary = node.primary
	node.primary = cacheEntry{key: key, color: color, valid: true, score: score}
	c.mu.Unlock()

	c.adds.Add(1)
}

// Flush clears every entry and resets the statistics.
func (c *EvalCache) Flush() {
	c.mu.Lock()
	clear(c.nodes)
	c.mu.Unlock()
	c.lookups.Store(0)
	c.hits.Store(0)
	c.adds.Store(0)
}

// Size is the number of entries the cache can hold.
func (c *EvalCache) Size() int {
	return 2 * len(c.nodes)
}

// Stats returns cache statistics
func (c *EvalCache) Stats() (lookups, hits, adds uint64) {
	return c.lookups.Load(), c.hits.Load(), c.adds.Load()
}

// HitRate returns the cache hit rate as a percentage
func (c *EvalCache) HitRate() float64 {
	lookups := c.lookups.Load()
	if lookups == 0 {
		return 0
	}
	return float64(c.hits.Load()) / float64(lookups) * 100
}
