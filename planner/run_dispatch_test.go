package planner_test

import (
	"testing"

	"github.com/slide-rs/parsec/planner"
	"github.com/slide-rs/parsec/world"
)

type Pos struct{ X int }
type Vel struct{ X int }
type Tag struct{}

func TestRun1W1RJoinsOnIntersection(t *testing.T) {
	w := world.New()
	e0 := w.CreateEntity()
	e1 := w.CreateEntity()
	_ = w.CreateEntity() // no Vel: must not be visited

	world.Write[Pos](w).Insert(e0.ID(), &Pos{X: 1})
	world.Write[Vel](w).Insert(e0.ID(), &Vel{X: 10})
	world.Write[Pos](w).Insert(e1.ID(), &Pos{X: 2})
	world.Write[Vel](w).Insert(e1.ID(), &Vel{X: 20})

	var visited int
	planner.Run1W1R[Pos, Vel](w, func(_ uint32, pos *Pos, vel *Vel) {
		visited++
		pos.X += vel.X
	})
	if visited != 2 {
		t.Fatalf("visited = %d, want 2", visited)
	}

	if got := world.Read[Pos](w).Get(e0.ID()); got.X != 11 {
		t.Fatalf("e0.Pos.X = %d, want 11", got.X)
	}
	if got := world.Read[Pos](w).Get(e1.ID()); got.X != 22 {
		t.Fatalf("e1.Pos.X = %d, want 22", got.X)
	}
}

func TestRun0W1RSkipsEntitiesWithoutComponent(t *testing.T) {
	w := world.New()
	e0 := w.CreateEntity()
	_ = w.CreateEntity()

	world.Write[Tag](w).Insert(e0.ID(), &Tag{})

	var seen []uint32
	planner.Run0W1R[Tag](w, func(idx uint32, _ *Tag) {
		seen = append(seen, idx)
	})
	if len(seen) != 1 || seen[0] != e0.ID() {
		t.Fatalf("Run0W1R visited %v, want [%d]", seen, e0.ID())
	}
}

func TestRun2W1RThreeWayIntersection(t *testing.T) {
	w := world.New()
	e0 := w.CreateEntity()
	e1 := w.CreateEntity()

	world.Write[Pos](w).Insert(e0.ID(), &Pos{X: 1})
	world.Write[Vel](w).Insert(e0.ID(), &Vel{X: 1})
	world.Write[Tag](w).Insert(e0.ID(), &Tag{})

	// e1 is missing Tag, so must not be visited.
	world.Write[Pos](w).Insert(e1.ID(), &Pos{X: 1})
	world.Write[Vel](w).Insert(e1.ID(), &Vel{X: 1})

	var visited int
	planner.Run2W1R[Pos, Vel, Tag](w, func(_ uint32, _ *Pos, _ *Vel, _ *Tag) {
		visited++
	})
	if visited != 1 {
		t.Fatalf("visited = %d, want 1", visited)
	}
}
