package entity

import "github.com/slide-rs/parsec/bitset"

// CreateIterAtomic is an infinite lazy sequence of atomically-created
// entities, returned from EntitiesRes.CreateIter. It must be consumed: each
// call to Next allocates one more entity.
type CreateIterAtomic struct {
	alloc *Allocator
}

// Next allocates and returns the next entity. The sequence is infinite
// (bounded only by Index exhaustion, which panics).
func (c *CreateIterAtomic) Next() Entity {
	return c.alloc.AllocateAtomic()
}

// EntitiesRes is the entities resource stored in the World, a thin
// shared-borrow-friendly facade over Allocator. Systems should read-borrow
// this; mutable borrow is reserved for maintenance (see planner.RunArg and
// world.World.Maintain).
type EntitiesRes struct {
	Alloc *Allocator
}

// NewEntitiesRes returns a fresh, empty EntitiesRes.
func NewEntitiesRes() *EntitiesRes {
	return &EntitiesRes{Alloc: NewAllocator()}
}

// Create creates a new entity atomically. Persistent as soon as
// World.Maintain is called.
func (r *EntitiesRes) Create() Entity {
	return r.Alloc.AllocateAtomic()
}

// CreateIter returns an iterator which creates new entities atomically.
func (r *EntitiesRes) CreateIter() *CreateIterAtomic {
	return &CreateIterAtomic{alloc: r.Alloc}
}

// BuildEntity creates an entity atomically and returns a builder for
// attaching components. Callers must eventually call Build or Close (see
// EntityResBuilder).
func (r *EntitiesRes) BuildEntity() *EntityResBuilder {
	return &EntityResBuilder{
		Entity:   r.Create(),
		entities: r,
	}
}

// Delete deletes an entity atomically. The associated components are
// deleted as soon as World.Maintain is called.
func (r *EntitiesRes) Delete(e Entity) error {
	return r.Alloc.KillAtomic(e)
}

// EntityAt returns an entity with the given id. No liveness guarantee.
func (r *EntitiesRes) EntityAt(id Index) Entity {
	return r.Alloc.EntityAt(id)
}

// IsAlive reports whether e is alive.
func (r *EntitiesRes) IsAlive(e Entity) bool {
	return r.Alloc.IsAlive(e)
}

// AliveCount returns the number of entities currently alive. See
// Allocator.AliveCount for the staleness caveat.
func (r *EntitiesRes) AliveCount() int {
	return r.Alloc.AliveCount()
}

// Mask returns the "currently visible" alive ∨ raised bitset, used by join
// to iterate (&EntitiesRes).
func (r *EntitiesRes) Mask() *bitset.Set {
	return r.Alloc.AliveOrRaised()
}

// Get implements join.View[Entity] for *EntitiesRes: at idx it yields the
// entity with its current-or-projected generation.
func (r *EntitiesRes) Get(idx Index) Entity {
	return r.Alloc.EntityAt(idx)
}

// EntityResBuilder builds an entity with its components. Attach components
// with With, then finalize with Build. If Close is called (typically via
// defer, immediately after BuildEntity) without Build having run first, the
// entity is deleted atomically — callers should `defer builder.Close()`
// immediately after BuildEntity so a failed build, including one that
// panics, leaks no identity.
type EntityResBuilder struct {
	Entity   Entity
	entities *EntitiesRes
	built    bool
}

// With associates a component with the entity being built, via a mutable
// component-storage borrow. Returns the builder for chaining.
func (b *EntityResBuilder) With(insert func(Entity)) *EntityResBuilder {
	insert(b.Entity)
	return b
}

// Build finishes building and returns the entity. After Build, Close is a
// no-op.
func (b *EntityResBuilder) Build() Entity {
	b.built = true
	return b.Entity
}

// Close deletes the entity atomically if Build was never called. Safe to
// call multiple times.
func (b *EntityResBuilder) Close() {
	if b.built {
		return
	}
	b.built = true
	// The entity was just atomically created by BuildEntity and is
	// guaranteed alive, so KillAtomic cannot fail with WrongGeneration here.
	_ = b.entities.Delete(b.Entity)
}
