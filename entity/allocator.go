package entity

import (
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/slide-rs/parsec/bitset"
	"github.com/slide-rs/parsec/metrics"
)

// Allocator owns generations, the live/raised/killed bitsets, the free-index
// cache, and max_id. It supports two allocation regimes: a synchronous
// mutable path (allocate/kill, exclusive access) and an atomic shared-read
// path (allocate_atomic/kill_atomic, shared access) that merge deterministically
// at Merge.
type Allocator struct {
	generations []Generation

	alive   *bitset.Set
	raised  *bitset.AtomicSet
	killed  *bitset.AtomicSet
	cache   entityCache
	maxID   atomic.Uint64
	metrics *metrics.Planner
}

// NewAllocator returns an empty Allocator.
func NewAllocator() *Allocator {
	return &Allocator{
		alive:  bitset.NewSet(),
		raised: bitset.NewAtomicSet(),
		killed: bitset.NewAtomicSet(),
	}
}

// SetMetrics attaches a *metrics.Planner sink that Kill/KillAtomic report
// WrongGeneration errors to. Optional: a nil sink (the default) makes
// wrongGeneration's reporting a no-op.
func (a *Allocator) SetMetrics(m *metrics.Planner) {
	a.metrics = m
}

func (a *Allocator) generationAt(id Index) Generation {
	if int(id) < len(a.generations) {
		return a.generations[id]
	}
	return Generation(1)
}

// growGenerations pads generations up to and including index id. Requires
// exclusive access.
func (a *Allocator) growGenerations(id Index) {
	for len(a.generations) <= int(id) {
		a.generations = append(a.generations, Generation(0))
	}
}

// IsAlive reports whether e is alive: the stored generation at e.ID,
// possibly promoted via raised() if the slot is dead but pending promotion,
// equals e.Gen.
func (a *Allocator) IsAlive(e Entity) bool {
	return e.Gen() == a.projectedGeneration(e.ID())
}

// projectedGeneration returns the slot's generation at idx, projecting
// through raised() if the slot is currently dead but has an atomically
// pending promotion.
func (a *Allocator) projectedGeneration(idx Index) Generation {
	if int(idx) >= len(a.generations) {
		return Generation(1)
	}
	g := a.generations[idx]
	if !g.IsAlive() && a.raised.Contains(idx) {
		return g.raised()
	}
	return g
}

// EntityAt returns an Entity for the given index with its current-or-projected
// generation. Makes no liveness claim.
func (a *Allocator) EntityAt(id Index) Entity {
	return New(id, a.projectedGeneration(id))
}

// Allocate synchronously produces a fresh live entity. Requires exclusive
// access.
func (a *Allocator) Allocate() Entity {
	id, ok := a.cache.popAtomic()
	if !ok {
		next := a.maxID.Load()
		if next >= uint64(maxIndex) {
			panic("entity: no Index left to allocate")
		}
		a.maxID.Store(next + 1)
		id = Index(next)
	}

	a.growGenerations(id)
	a.alive.Add(id)
	a.generations[id] = a.generations[id].raised()

	return New(id, a.generations[id])
}

// AllocateAtomic produces a tentatively-live entity and registers it in
// raised. Safe for shared-read use by many concurrent callers.
func (a *Allocator) AllocateAtomic() Entity {
	id, ok := a.cache.popAtomic()
	if !ok {
		id = a.bumpMaxID()
	}

	a.raised.AddAtomic(id)
	gen := a.generationAt(id)
	if !gen.IsAlive() {
		gen = gen.raised()
	}
	return New(id, gen)
}

func (a *Allocator) bumpMaxID() Index {
	for {
		prev := a.maxID.Load()
		if prev >= uint64(maxIndex) {
			panic("entity: no Index left to allocate")
		}
		if a.maxID.CompareAndSwap(prev, prev+1) {
			return Index(prev)
		}
	}
}

// maxIndex is the exhaustion bound: the allocator hands out indices up to
// maxIndex-1, and reaching maxIndex panics (spec §7), matching the practical
// ~4e9-slot headroom of a 32-bit index.
const maxIndex Index = ^Index(0)

// Kill synchronously kills a batch of entities. Requires exclusive access.
// Every failing entity in the batch contributes a *WrongGeneration to the
// returned error (via multierr); entities that succeed are still killed
// even when others in the batch fail.
func (a *Allocator) Kill(toDelete []Entity) error {
	var errs error
	for _, e := range toDelete {
		if !a.IsAlive(e) {
			errs = multierr.Append(errs, a.wrongGeneration("delete", e))
			continue
		}

		id := e.ID()
		a.alive.Remove(id)
		a.growGenerations(id)

		if a.raised.Remove(id) {
			a.generations[id] = a.generations[id].raised()
		}
		a.dieLocked(id)

		a.cache.extend([]Index{id})
	}
	return errs
}

func (a *Allocator) dieLocked(id Index) {
	g := a.generations[id]
	g.die()
	a.generations[id] = g
}

func (a *Allocator) wrongGeneration(action string, e Entity) *WrongGeneration {
	a.metrics.IncKillErrors()
	return &WrongGeneration{
		Action:    action,
		Entity:    e,
		ActualGen: a.generationAt(e.ID()),
	}
}

// KillAtomic registers e in killed, pending finalization at the next Merge.
// Safe for shared-read use by many concurrent callers.
func (a *Allocator) KillAtomic(e Entity) error {
	if !a.IsAlive(e) {
		return a.wrongGeneration("delete", e)
	}
	a.killed.AddAtomic(e.ID())
	return nil
}

// Merge applies pending raised then killed entities: promotes every raised
// index (grows generations, raises the slot, adds to alive, clears raised),
// then finalizes every killed index (removes from alive, records the deleted
// entity, dies the slot, clears killed), then extends the cache with all
// just-deleted indices. Requires exclusive access. Returns the entities that
// were deleted by this merge.
func (a *Allocator) Merge() []Entity {
	var deleted []Entity

	a.raised.Iter(func(i Index) {
		a.growGenerations(i)
		a.generations[i] = a.generations[i].raised()
		a.alive.Add(i)
	})
	a.raised.Clear()

	a.killed.Iter(func(i Index) {
		a.alive.Remove(i)
		deleted = append(deleted, New(i, a.generations[i]))
		a.dieLocked(i)
	})
	a.killed.Clear()

	if len(deleted) > 0 {
		ids := make([]Index, len(deleted))
		for i, e := range deleted {
			ids[i] = e.ID()
		}
		a.cache.extend(ids)
	}

	return deleted
}

// AliveCount returns the number of entities currently in the alive set. Only
// meaningful right after a Merge — it does not account for pending raised or
// killed entities.
func (a *Allocator) AliveCount() int {
	n := 0
	a.alive.Iter(func(Index) { n++ })
	return n
}

// AliveOrRaised returns the union bitset presenting the "currently visible"
// view used by joins over EntitiesRes: alive ∨ raised.
func (a *Allocator) AliveOrRaised() *bitset.Set {
	raisedSnapshot := bitset.NewSet()
	a.raised.Iter(func(i Index) { raisedSnapshot.Add(i) })
	return bitset.Or(a.alive, raisedSnapshot)
}
