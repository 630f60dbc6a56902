package planner

import (
	"github.com/slide-rs/parsec/bitset"
	"github.com/slide-rs/parsec/entity"
	"github.com/slide-rs/parsec/join"
	"github.com/slide-rs/parsec/world"
)

// This file provides one generic dispatch function per read/write arity
// combination a system might join over: Run0W1R .. Run0W2R for read-only
// joins and Run1W0R .. Run1W7R plus Run2W0R .. Run2W2R for joins that also
// write. Single-view forms (Run0W1R, Run1W0R) walk that view's mask
// directly; two- and three-view forms use join.Iter2/join.Iter3; the rest
// use join.IterN. The 1-write family is dense, covering every read arity
// from zero through seven with no gap.

// Run0W1R iterates entities carrying component R1, calling fn for each.
func Run0W1R[R1 any](w *world.World, fn func(idx entity.Index, r1 *R1)) {
	rs1 := world.Read[R1](w)
	rs1.Mask().Iter(func(idx entity.Index) {
		fn(idx, rs1.Get(idx))
	})
}

// Run0W2R iterates entities carrying components R1 and R2.
func Run0W2R[R1, R2 any](w *world.World, fn func(idx entity.Index, r1 *R1, r2 *R2)) {
	rs1 := world.Read[R1](w)
	rs2 := world.Read[R2](w)
	join.Iter2(rs1, rs2, func(idx entity.Index, a *R1, b *R2) {
		fn(idx, a, b)
	})
}

// Run1W0R iterates entities carrying component W1, with write access.
func Run1W0R[W1 any](w *world.World, fn func(idx entity.Index, w1 *W1)) {
	ws1 := world.Write[W1](w)
	ws1.Mask().Iter(func(idx entity.Index) {
		fn(idx, ws1.Get(idx))
	})
}

// Run1W1R iterates entities carrying W1 (write) and R1 (read).
func Run1W1R[W1, R1 any](w *world.World, fn func(idx entity.Index, w1 *W1, r1 *R1)) {
	ws1 := world.Write[W1](w)
	rs1 := world.Read[R1](w)
	join.Iter2(ws1, rs1, func(idx entity.Index, a *W1, b *R1) {
		fn(idx, a, b)
	})
}

// Run1W2R iterates entities carrying W1 (write) and R1, R2 (read).
func Run1W2R[W1, R1, R2 any](w *world.World, fn func(idx entity.Index, w1 *W1, r1 *R1, r2 *R2)) {
	ws1 := world.Write[W1](w)
	rs1 := world.Read[R1](w)
	rs2 := world.Read[R2](w)
	join.Iter3(ws1, rs1, rs2, func(idx entity.Index, a *W1, b *R1, c *R2) {
		fn(idx, a, b, c)
	})
}

// Run1W3R iterates entities carrying W1 (write) and R1..R3 (read).
func Run1W3R[W1, R1, R2, R3 any](w *world.World, fn func(idx entity.Index, w1 *W1, r1 *R1, r2 *R2, r3 *R3)) {
	ws1 := world.Write[W1](w)
	rs1 := world.Read[R1](w)
	rs2 := world.Read[R2](w)
	rs3 := world.Read[R3](w)
	join.IterN([]*bitset.Set{ws1.Mask(), rs1.Mask(), rs2.Mask(), rs3.Mask()}, func(idx entity.Index) {
		fn(idx, ws1.Get(idx), rs1.Get(idx), rs2.Get(idx), rs3.Get(idx))
	})
}

// Run1W4R iterates entities carrying W1 (write) and R1..R4 (read).
func Run1W4R[W1, R1, R2, R3, R4 any](w *world.World, fn func(idx entity.Index, w1 *W1, r1 *R1, r2 *R2, r3 *R3, r4 *R4)) {
	ws1 := world.Write[W1](w)
	rs1 := world.Read[R1](w)
	rs2 := world.Read[R2](w)
	rs3 := world.Read[R3](w)
	rs4 := world.Read[R4](w)
	join.IterN([]*bitset.Set{ws1.Mask(), rs1.Mask(), rs2.Mask(), rs3.Mask(), rs4.Mask()}, func(idx entity.Index) {
		fn(idx, ws1.Get(idx), rs1.Get(idx), rs2.Get(idx), rs3.Get(idx), rs4.Get(idx))
	})
}

// Run1W5R iterates entities carrying W1 (write) and R1..R5 (read).
func Run1W5R[W1, R1, R2, R3, R4, R5 any](w *world.World, fn func(idx entity.Index, w1 *W1, r1 *R1, r2 *R2, r3 *R3, r4 *R4, r5 *R5)) {
	ws1 := world.Write[W1](w)
	rs1 := world.Read[R1](w)
	rs2 := world.Read[R2](w)
	rs3 := world.Read[R3](w)
	rs4 := world.Read[R4](w)
	rs5 := world.Read[R5](w)
	join.IterN([]*bitset.Set{ws1.Mask(), rs1.Mask(), rs2.Mask(), rs3.Mask(), rs4.Mask(), rs5.Mask()}, func(idx entity.Index) {
		fn(idx, ws1.Get(idx), rs1.Get(idx), rs2.Get(idx), rs3.Get(idx), rs4.Get(idx), rs5.Get(idx))
	})
}

// Run1W6R iterates entities carrying W1 (write) and R1..R6 (read).
func Run1W6R[W1, R1, R2, R3, R4, R5, R6 any](w *world.World, fn func(idx entity.Index, w1 *W1, r1 *R1, r2 *R2, r3 *R3, r4 *R4, r5 *R5, r6 *R6)) {
	ws1 := world.Write[W1](w)
	rs1 := world.Read[R1](w)
	rs2 := world.Read[R2](w)
	rs3 := world.Read[R3](w)
	rs4 := world.Read[R4](w)
	rs5 := world.Read[R5](w)
	rs6 := world.Read[R6](w)
	join.IterN([]*bitset.Set{ws1.Mask(), rs1.Mask(), rs2.Mask(), rs3.Mask(), rs4.Mask(), rs5.Mask(), rs6.Mask()}, func(idx entity.Index) {
		fn(idx, ws1.Get(idx), rs1.Get(idx), rs2.Get(idx), rs3.Get(idx), rs4.Get(idx), rs5.Get(idx), rs6.Get(idx))
	})
}

// Run1W7R iterates entities carrying W1 (write) and R1..R7 (read).
func Run1W7R[W1, R1, R2, R3, R4, R5, R6, R7 any](w *world.World, fn func(idx entity.Index, w1 *W1, r1 *R1, r2 *R2, r3 *R3, r4 *R4, r5 *R5, r6 *R6, r7 *R7)) {
	ws1 := world.Write[W1](w)
	rs1 := world.Read[R1](w)
	rs2 := world.Read[R2](w)
	rs3 := world.Read[R3](w)
	rs4 := world.Read[R4](w)
	rs5 := world.Read[R5](w)
	rs6 := world.Read[R6](w)
	rs7 := world.Read[R7](w)
	join.IterN([]*bitset.Set{ws1.Mask(), rs1.Mask(), rs2.Mask(), rs3.Mask(), rs4.Mask(), rs5.Mask(), rs6.Mask(), rs7.Mask()}, func(idx entity.Index) {
		fn(idx, ws1.Get(idx), rs1.Get(idx), rs2.Get(idx), rs3.Get(idx), rs4.Get(idx), rs5.Get(idx), rs6.Get(idx), rs7.Get(idx))
	})
}

// Run2W0R iterates entities carrying W1 and W2 (both write).
func Run2W0R[W1, W2 any](w *world.World, fn func(idx entity.Index, w1 *W1, w2 *W2)) {
	ws1 := world.Write[W1](w)
	ws2 := world.Write[W2](w)
	join.Iter2(ws1, ws2, func(idx entity.Index, a *W1, b *W2) {
		fn(idx, a, b)
	})
}

// Run2W1R iterates entities carrying W1, W2 (write) and R1 (read).
func Run2W1R[W1, W2, R1 any](w *world.World, fn func(idx entity.Index, w1 *W1, w2 *W2, r1 *R1)) {
	ws1 := world.Write[W1](w)
	ws2 := world.Write[W2](w)
	rs1 := world.Read[R1](w)
	join.Iter3(ws1, ws2, rs1, func(idx entity.Index, a *W1, b *W2, c *R1) {
		fn(idx, a, b, c)
	})
}

// Run2W2R iterates entities carrying W1, W2 (write) and R1, R2 (read).
func Run2W2R[W1, W2, R1, R2 any](w *world.World, fn func(idx entity.Index, w1 *W1, w2 *W2, r1 *R1, r2 *R2)) {
	ws1 := world.Write[W1](w)
	ws2 := world.Write[W2](w)
	rs1 := world.Read[R1](w)
	rs2 := world.Read[R2](w)
	join.IterN([]*bitset.Set{ws1.Mask(), ws2.Mask(), rs1.Mask(), rs2.Mask()}, func(idx entity.Index) {
		fn(idx, ws1.Get(idx), ws2.Get(idx), rs1.Get(idx), rs2.Get(idx))
	})
}
