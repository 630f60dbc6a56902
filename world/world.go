// Package world implements World: a resource bag providing typed
// read/write storage views, the atomic allocator resource, and Maintain to
// flush deferred creates/deletes and merge the generational allocator's
// pending state.
package world

import (
	"github.com/slide-rs/parsec/entity"
	"github.com/slide-rs/parsec/storage"
)

// LazyUpdate queues deferred entity creates/deletes, applied at the next
// Maintain. Systems reach it through RunArg.Create/RunArg.Delete rather than
// touching it directly.
type LazyUpdate struct {
	entities *entity.EntitiesRes
}

// CreateLater atomically creates an entity. IsAlive reports it alive at
// once; Maintain promotes it into the allocator's alive set.
func (l *LazyUpdate) CreateLater() entity.Entity {
	return l.entities.Create()
}

// DeleteLater atomically marks an entity for deletion, finalized at the
// next Maintain. A stale delete is simply a no-op once Maintain runs,
// because IsAlive will already be false.
func (l *LazyUpdate) DeleteLater(e entity.Entity) {
	_ = l.entities.Delete(e)
}

// World is the top-level ECS resource bag: it owns the entities resource,
// the component registry, and the lazy-update queue, and exposes
// Maintain as the single safe point where atomic allocator state is merged
// back into the synchronous view.
type World struct {
	entities   *entity.EntitiesRes
	registry   *storage.Registry
	lazyUpdate *LazyUpdate
	stores     componentStores
}

// New returns a fresh, empty World.
func New() *World {
	ents := entity.NewEntitiesRes()
	return &World{
		entities:   ents,
		registry:   storage.NewRegistry(),
		lazyUpdate: &LazyUpdate{entities: ents},
	}
}

// Entities returns the entities resource (shared-borrow-friendly; see
// entity.EntitiesRes doc comment on mutable borrow being a scheduling
// hazard).
func (w *World) Entities() *entity.EntitiesRes { return w.entities }

// Registry returns the component store registry, used to Register new
// component stores before they are joined or written to.
func (w *World) Registry() *storage.Registry { return w.registry }

// LazyUpdate returns the deferred create/delete queue.
func (w *World) LazyUpdate() *LazyUpdate { return w.lazyUpdate }

// CreateEntity synchronously creates a fresh live entity. Requires
// exclusive access to the World (only valid from Planner.MutWorld or before
// any Planner.Dispatch has run).
func (w *World) CreateEntity() entity.Entity {
	return w.entities.Alloc.Allocate()
}

// Alive reports whether e is alive.
func (w *World) Alive(e entity.Entity) bool {
	return w.entities.IsAlive(e)
}

// Maintain merges the allocator's pending raised/killed sets and clears the
// component data of every entity actually deleted by the merge.
func (w *World) Maintain() []entity.Entity {
	deleted := w.entities.Alloc.Merge()
	for _, e := range deleted {
		w.registry.RemoveAll(e.ID())
	}
	return deleted
}
