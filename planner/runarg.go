package planner

import (
	"sync/atomic"

	"github.com/slide-rs/parsec/entity"
	"github.com/slide-rs/parsec/world"
)

// RunArg is the per-system handle a dispatched system receives: a one-shot
// fetch of borrows out of the World, plus a deferred create/delete path that
// never needs to borrow the World at all.
type RunArg struct {
	world    *world.World
	pulse    *pulseT
	consumed atomic.Bool
}

// Create atomically creates an entity. IsAlive reports it alive at once; it
// is promoted into the allocator's alive set at the next
// Planner.Wait/Maintain.
func (r *RunArg) Create() entity.Entity {
	return r.world.LazyUpdate().CreateLater()
}

// Delete defers an entity deletion until the next Planner.Wait/Maintain.
func (r *RunArg) Delete(e entity.Entity) {
	r.world.LazyUpdate().DeleteLater(e)
}

// consume marks the one-shot fetch as used, panicking on a second call.
func (r *RunArg) consume() {
	if !r.consumed.CompareAndSwap(false, true) {
		panic("planner: RunArg.Fetch/FetchNew called more than once")
	}
}

// Fetch runs f with exclusive, synchronous access to the World's storages
// and returns whatever f returns. May be called at most once per RunArg;
// calling it a second time panics. Firing the handle's pulse here is what
// releases the dispatcher to spawn the next system, implementing the
// "sequential fetch, parallel execute" scheduling discipline.
//
// Fetch is a package-level function rather than a method because Go methods
// cannot introduce their own type parameters.
func Fetch[U any](arg *RunArg, f func(*world.World) U) U {
	arg.consume()
	u := f(arg.world)
	arg.pulse.fire(nil)
	return u
}

// FetchNew reserves n fresh entity ids — via the shared allocator's atomic
// path — then runs f during the same synchronized fetch phase as Fetch,
// passing it the reserved ids so components can be attached to them right
// away, before any other system's execution phase can observe the World.
func FetchNew[U any](arg *RunArg, n int, f func(w *world.World, ents []entity.Entity) U) ([]entity.Entity, U) {
	ents := make([]entity.Entity, 0, n)
	alloc := arg.world.Entities().Alloc
	for i := 0; i < n; i++ {
		ents = append(ents, alloc.AllocateAtomic())
	}
	u := Fetch(arg, func(w *world.World) U {
		return f(w, ents)
	})
	return ents, u
}
