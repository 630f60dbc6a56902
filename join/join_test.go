package join_test

import (
	"sort"
	"testing"

	"github.com/slide-rs/parsec/bitset"
	"github.com/slide-rs/parsec/join"
)

type intView struct {
	mask *bitset.Set
	data map[uint32]int
}

func newIntView() *intView {
	return &intView{mask: bitset.NewSet(), data: map[uint32]int{}}
}

func (v *intView) set(i uint32, x int) {
	v.mask.Add(i)
	v.data[i] = x
}

func (v *intView) Mask() *bitset.Set { return v.mask }
func (v *intView) Get(i uint32) int  { return v.data[i] }

func TestIter2Intersection(t *testing.T) {
	a := newIntView()
	a.set(1, 10)
	a.set(2, 20)
	a.set(3, 30)

	b := newIntView()
	b.set(2, 200)
	b.set(3, 300)
	b.set(4, 400)

	var idxs []uint32
	join.Iter2[int, int](a, b, func(idx uint32, av, bv int) {
		idxs = append(idxs, idx)
		if av != int(idx)*10 || bv != int(idx)*100 {
			t.Fatalf("idx %d: got a=%d b=%d", idx, av, bv)
		}
	})

	sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
	if len(idxs) != 2 || idxs[0] != 2 || idxs[1] != 3 {
		t.Fatalf("Iter2 visited %v, want [2 3]", idxs)
	}
}

func TestIter3Intersection(t *testing.T) {
	a := newIntView()
	b := newIntView()
	c := newIntView()
	for _, i := range []uint32{1, 2, 3, 4} {
		a.set(i, 0)
	}
	for _, i := range []uint32{2, 3, 4, 5} {
		b.set(i, 0)
	}
	for _, i := range []uint32{3, 4, 6} {
		c.set(i, 0)
	}

	var idxs []uint32
	join.Iter3[int, int, int](a, b, c, func(idx uint32, _, _, _ int) {
		idxs = append(idxs, idx)
	})
	sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
	if len(idxs) != 2 || idxs[0] != 3 || idxs[1] != 4 {
		t.Fatalf("Iter3 visited %v, want [3 4]", idxs)
	}
}

func TestIterNIntersection(t *testing.T) {
	a := bitset.NewSet()
	b := bitset.NewSet()
	c := bitset.NewSet()
	for _, i := range []uint32{1, 2, 3} {
		a.Add(i)
	}
	for _, i := range []uint32{2, 3, 4} {
		b.Add(i)
	}
	for _, i := range []uint32{3, 4, 5} {
		c.Add(i)
	}

	var idxs []uint32
	join.IterN([]*bitset.Set{a, b, c}, func(idx uint32) {
		idxs = append(idxs, idx)
	})
	if len(idxs) != 1 || idxs[0] != 3 {
		t.Fatalf("IterN visited %v, want [3]", idxs)
	}
}

func TestIterNEmptyMasks(t *testing.T) {
	var called bool
	join.IterN(nil, func(uint32) { called = true })
	if called {
		t.Fatal("IterN with no masks should never call fn")
	}
}
