package entity

import "fmt"

// Index is the id of an Entity's allocation slot.
type Index = uint32

// Generation is an epoch on an index slot. Its sign carries liveness: g > 0
// means alive, g <= 0 means dead. Generation(0) is the never-used sentinel
// for a slot that has never been allocated.
type Generation int32

// IsAlive reports whether entities of this Generation are alive.
func (g Generation) IsAlive() bool {
	return g > 0
}

// die flips an alive Generation to its dead counterpart.
//
// Panics if g is not alive.
func (g *Generation) die() {
	if !g.IsAlive() {
		panic("entity: die called on a dead Generation")
	}
	*g = -*g
}

// raised returns the next-alive Generation for a dead slot.
//
// Panics if g is alive.
func (g Generation) raised() Generation {
	if g.IsAlive() {
		panic("entity: raised called on an alive Generation")
	}
	return 1 - g
}

func (g Generation) String() string {
	return fmt.Sprintf("Generation(%d)", int32(g))
}
