package main

import (
	"go.uber.org/zap"

	"github.com/slide-rs/parsec/entity"
	"github.com/slide-rs/parsec/planner"
	"github.com/slide-rs/parsec/world"
)

// MovementSystem advances Position by Velocity*dt for every entity carrying
// both, exercising the write+read join (Run1W1R).
type MovementSystem struct{}

func (MovementSystem) Run(arg *planner.RunArg, ctx Tick) {
	planner.Fetch(arg, func(w *world.World) struct{} {
		dt := ctx.DT.Seconds()
		planner.Run1W1R[Position, Velocity](w, func(_ entity.Index, pos *Position, vel *Velocity) {
			pos.X += vel.X * dt
			pos.Y += vel.Y * dt
		})
		return struct{}{}
	})
}

// RegenSystem heals every entity with Health by a fixed amount each tick, up
// to its Max. Exercises the write-only join (Run1W0R).
type RegenSystem struct {
	Amount int32
}

func (s RegenSystem) Run(arg *planner.RunArg, ctx Tick) {
	planner.Fetch(arg, func(w *world.World) struct{} {
		planner.Run1W0R[Health](w, func(_ entity.Index, hp *Health) {
			hp.Current += s.Amount
			if hp.Current > hp.Max {
				hp.Current = hp.Max
			}
		})
		return struct{}{}
	})
}

// SpawnSystem creates a fresh entity with starting components every Every
// ticks, exercising FetchNew's atomic reservation path.
type SpawnSystem struct {
	Every int
	Log   *zap.Logger
}

func (s SpawnSystem) Run(arg *planner.RunArg, ctx Tick) {
	if s.Every <= 0 || int(ctx.N)%s.Every != 0 {
		planner.Fetch(arg, func(*world.World) struct{} { return struct{}{} })
		return
	}

	ents, _ := planner.FetchNew(arg, 1, func(w *world.World, ents []entity.Entity) struct{} {
		id := ents[0].ID()
		world.Write[Position](w).Insert(id, &Position{})
		world.Write[Velocity](w).Insert(id, &Velocity{X: 1, Y: 0})
		world.Write[Health](w).Insert(id, &Health{Current: 100, Max: 100})
		return struct{}{}
	})
	s.Log.Debug("spawned entity", zap.Uint64("tick", ctx.N), zap.Stringer("entity", ents[0]))
}

// ReaperSystem deletes any entity whose Health has dropped to zero, deferring
// through RunArg.Delete so the removal is finalized at the next Maintain.
type ReaperSystem struct{}

func (ReaperSystem) Run(arg *planner.RunArg, ctx Tick) {
	planner.Fetch(arg, func(w *world.World) struct{} {
		planner.Run0W1R[Health](w, func(idx entity.Index, hp *Health) {
			if hp.Current <= 0 {
				arg.Delete(w.Entities().EntityAt(idx))
			}
		})
		return struct{}{}
	})
}
