package visibility

import (
	"sync/atomic"

	"github.com/prishaAgg/nuggets-server/internal/mapgrid"
)

// Cache memoizes each player's last computed perspective grid. It computes
// at most one line-of-sight pass per live player per broadcast, so a
// per-entry cache-with-counters shape avoids recomputing a player's frame
// when nothing that could affect it (their own move, another occupant's
// move, a gold pickup) has happened since the last broadcast.
//
// The coordinator runs single-threaded, so Cache needs no locking of its
// own. The hit/miss counters are read through Stats, which the
// coordinator's broadcast copies into the metrics gauges.
type Cache struct {
	entries map[uint32]*mapgrid.Grid
	dirty   map[uint32]bool

	hits   uint64
	misses uint64
}

// NewCache constructs an empty perspective cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[uint32]*mapgrid.Grid),
		dirty:   make(map[uint32]bool),
	}
}

// Invalidate marks id's cached frame stale, forcing Get to recompute on its
// next call. The coordinator does not call it; broadcast uses InvalidateAll.
func (c *Cache) Invalidate(id uint32) {
	c.dirty[id] = true
}

// InvalidateAll marks every cached frame stale. Called after any mutation
// that could change what anyone sees: a move, a swap, a gold pickup, a
// join, or a quit.
func (c *Cache) InvalidateAll() {
	for id := range c.entries {
		c.dirty[id] = true
	}
}

// Remove drops id's entry entirely, called when a player quits.
func (c *Cache) Remove(id uint32) {
	delete(c.entries, id)
	delete(c.dirty, id)
}

// Get returns id's perspective grid, recomputing via Render only if the
// entry is missing or marked dirty.
func (c *Cache) Get(g *mapgrid.Grid, id uint32, v Viewer) *mapgrid.Grid {
	if cached, ok := c.entries[id]; ok && !c.dirty[id] {
		atomic.AddUint64(&c.hits, 1)
		return cached
	}
	atomic.AddUint64(&c.misses, 1)
	frame := Render(g, v)
	c.entries[id] = frame
	c.dirty[id] = false
	return frame
}

// Stats returns cumulative hit/miss counts for metrics export.
func (c *Cache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}
