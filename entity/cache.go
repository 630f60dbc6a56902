package entity

import "sync/atomic"

// entityCache is a LIFO of free indices awaiting reuse. popAtomic is safe for
// any number of concurrent shared borrowers; it only moves the length
// indicator, never touching the backing slice. maintain/extend require
// exclusive access and are the only operations that mutate the slice itself.
//
// Ordering is relaxed throughout: publication of freed indices is sequenced
// by the merge barrier in the planner, not by the cache's own atomics (see
// Allocator.Merge / Allocator.Kill, both called only under exclusive world
// access).
type entityCache struct {
	cache []Index
	len   atomic.Uint64
}

// popAtomic pops an index with a CAS retry loop over the length indicator.
// Returns (0, false) if the cache is empty. Safe to call from many
// concurrent shared borrowers: it does not mutate cache, only len.
func (c *entityCache) popAtomic() (Index, bool) {
	prev := c.len.Load()
	for prev != 0 {
		if c.len.CompareAndSwap(prev, prev-1) {
			return c.cache[prev-1], true
		}
		prev = c.len.Load()
	}
	return 0, false
}

// maintain truncates the backing slice to the length indicator, reconciling
// any speculative pops that only decremented len without removing the slot.
// Must be called only under exclusive world access.
func (c *entityCache) maintain() {
	n := c.len.Load()
	if uint64(len(c.cache)) > n {
		c.cache = c.cache[:n]
	}
}

// extend maintains the cache, appends the given indices, and republishes the
// new length. Must be called only with exclusive access.
func (c *entityCache) extend(indices []Index) {
	c.maintain()
	c.cache = append(c.cache, indices...)
	c.len.Store(uint64(len(c.cache)))
}
