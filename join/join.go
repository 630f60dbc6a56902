// Package join iterates the intersection of bitmask-bearing views: storage
// reads/writes and the entities resource itself.
package join

import (
	"github.com/slide-rs/parsec/bitset"
	"github.com/slide-rs/parsec/entity"
)

// View is anything that can participate in a join: it knows which entity
// indices it has data for (Mask) and can produce the value at a given index
// (Get, only ever called for an index the Mask reports present).
type View[T any] interface {
	Mask() *bitset.Set
	Get(idx entity.Index) T
}

// Iter2 iterates the intersection of two views, smallest-mask-first:
// iterate the smaller store's bits and check the larger one, rather than
// the other way around.
func Iter2[A, B any](a View[A], b View[B], fn func(entity.Index, A, B)) {
	ma, mb := a.Mask(), b.Mask()
	small := ma
	if countBits(mb) < countBits(ma) {
		small = mb
	}
	small.Iter(func(idx entity.Index) {
		if !ma.Contains(idx) || !mb.Contains(idx) {
			return
		}
		fn(idx, a.Get(idx), b.Get(idx))
	})
}

// Iter3 iterates the intersection of three views, smallest-mask-first.
func Iter3[A, B, C any](a View[A], b View[B], c View[C], fn func(entity.Index, A, B, C)) {
	ma, mb, mc := a.Mask(), b.Mask(), c.Mask()
	smallest := ma
	if countBits(mb) < countBits(smallest) {
		smallest = mb
	}
	if countBits(mc) < countBits(smallest) {
		smallest = mc
	}
	smallest.Iter(func(idx entity.Index) {
		if !ma.Contains(idx) || !mb.Contains(idx) || !mc.Contains(idx) {
			return
		}
		fn(idx, a.Get(idx), b.Get(idx), c.Get(idx))
	})
}

// IterN iterates the intersection of an arbitrary number of masks, given
// their Mask()s directly, calling fn with the matching index. Useful for
// callers that already hold typed storage handles and only need the index
// set, fetching each component's value themselves.
func IterN(masks []*bitset.Set, fn func(entity.Index)) {
	if len(masks) == 0 {
		return
	}
	smallest := masks[0]
	for _, m := range masks[1:] {
		if countBits(m) < countBits(smallest) {
			smallest = m
		}
	}
	smallest.Iter(func(idx entity.Index) {
		for _, m := range masks {
			if !m.Contains(idx) {
				return
			}
		}
		fn(idx)
	})
}

func countBits(s *bitset.Set) int {
	n := 0
	s.Iter(func(entity.Index) { n++ })
	return n
}
