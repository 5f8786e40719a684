package ai

import (
	"sync"

	"github.com/thekrainbow/connect6/internal/game"
)

// CacheEntry is one slot of a MoveCache. Fields are exported for gob snapshots.
type CacheEntry struct {
	Key    uint64
	Player game.Player
	Depth  int
	Move   game.Move
	Hits   uint32
	Valid  bool
}

// MoveCache memoises root search results in a direct-mapped table keyed by position hash.
// A slot only answers for the same key, side and depth it was written with, so a hit returns
// exactly the move a fresh search would.
type MoveCache struct {
	mu      sync.Mutex
	mask    uint64
	entries []CacheEntry
	probes  uint64
	hits    uint64
}

type CacheStats struct {
	Capacity int    `json:"capacity"`
	Entries  int    `json:"entries"`
	Probes   uint64 `json:"probes"`
	Hits     uint64 `json:"hits"`
}

func NewMoveCache(size int) *MoveCache {
	capacity := uint64(1)
	if size > 1 {
		capacity = nextPowerOfTwo(uint64(size))
	}
	return &MoveCache{
		mask:    capacity - 1,
		entries: make([]CacheEntry, capacity),
	}
}

func (c *MoveCache) Probe(key uint64, player game.Player, depth int) (game.Move, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes++
	entry := &c.entries[key&c.mask]
	if !entry.Valid || entry.Key != key || entry.Player != player || entry.Depth != depth {
		return game.NoMove, false
	}
	entry.Hits++
	c.hits++
	return entry.Move, true
}

func (c *MoveCache) Store(key uint64, player game.Player, depth int, move game.Move) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key&c.mask] = CacheEntry{
		Key:    key,
		Player: player,
		Depth:  depth,
		Move:   move,
		Valid:  true,
	}
}

func (c *MoveCache) Capacity() int {
	return len(c.entries)
}

func (c *MoveCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		c.entries[i] = CacheEntry{}
	}
	c.probes = 0
	c.hits = 0
}

func (c *MoveCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Capacity: len(c.entries),
		Entries:  countValidEntries(c.entries),
		Probes:   c.probes,
		Hits:     c.hits,
	}
}

func (c *MoveCache) snapshotEntries() []CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CacheEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *MoveCache) loadEntries(entries []CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy(c.entries, entries)
}

func countValidEntries(entries []CacheEntry) int {
	count := 0
	for _, entry := range entries {
		if entry.Valid {
			count++
		}
	}
	return count
}

func nextPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}
