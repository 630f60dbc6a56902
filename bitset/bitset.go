// Package bitset implements the two bitset flavors the allocator needs:
// an owner-mutated Set and a shared-mutated AtomicSet. Neither is backed by
// a third-party bitset library — none was found anywhere in the retrieved
// reference corpus, so both are plain word-sliced []uint64.
package bitset

import (
	"math/bits"
	"sort"
	"sync"
	"sync/atomic"
)

const wordBits = 64

// Set is a growable bitset for exclusive-access use only (the owner path of
// the allocator: alive).
type Set struct {
	words []uint64
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{}
}

func (s *Set) ensure(word int) {
	if word >= len(s.words) {
		grown := make([]uint64, word+1)
		copy(grown, s.words)
		s.words = grown
	}
}

// Add sets bit i.
func (s *Set) Add(i uint32) {
	word, bit := int(i/wordBits), i%wordBits
	s.ensure(word)
	s.words[word] |= 1 << bit
}

// Remove clears bit i. Returns true if it was set.
func (s *Set) Remove(i uint32) bool {
	word, bit := int(i/wordBits), i%wordBits
	if word >= len(s.words) {
		return false
	}
	mask := uint64(1) << bit
	had := s.words[word]&mask != 0
	s.words[word] &^= mask
	return had
}

// Contains reports whether bit i is set.
func (s *Set) Contains(i uint32) bool {
	word, bit := int(i/wordBits), i%wordBits
	if word >= len(s.words) {
		return false
	}
	return s.words[word]&(1<<bit) != 0
}

// Clear empties the set without releasing backing storage.
func (s *Set) Clear() {
	for i := range s.words {
		s.words[i] = 0
	}
}

// Iter calls fn for every set bit, in ascending index order.
func (s *Set) Iter(fn func(i uint32)) {
	for word, w := range s.words {
		for w != 0 {
			bit := bits.TrailingZeros64(w)
			fn(uint32(word)*wordBits + uint32(bit))
			w &= w - 1
		}
	}
}

// Or returns a new Set containing the union of a and b. Used to present the
// "currently visible" alive ∨ raised view (spec §3, §9).
func Or(a, b *Set) *Set {
	n := len(a.words)
	if len(b.words) > n {
		n = len(b.words)
	}
	out := &Set{words: make([]uint64, n)}
	for i := 0; i < n; i++ {
		var wa, wb uint64
		if i < len(a.words) {
			wa = a.words[i]
		}
		if i < len(b.words) {
			wb = b.words[i]
		}
		out.words[i] = wa | wb
	}
	return out
}

// shardWords is the number of 64-bit words per AtomicSet page: 1024 words =
// 65536 bits ≈ 8KiB per page. Pages are created lazily, on first touch, so
// AddAtomic never needs an exclusive-access growth step — unlike owner-only
// Set, an AtomicSet must support minting a bit for an index nobody has ever
// seen before from purely shared access (entity.Allocator.AllocateAtomic can
// mint a brand-new index concurrently with any number of other readers).
const shardWords = 1024

type atomicPage struct {
	words [shardWords]atomic.Uint64
}

// AtomicSet is a bitset safe for concurrent AddAtomic/Contains from many
// shared borrowers (the allocator's raised/killed sets). It is organized as
// a sparse map of fixed-size pages, each created lazily and exactly once via
// sync.Map.LoadOrStore, so growth needs no exclusive access and no
// pre-sizing — only individual bit flips are CAS loops.
type AtomicSet struct {
	pages sync.Map // map[uint32]*atomicPage, keyed by page index
}

// NewAtomicSet returns an empty AtomicSet.
func NewAtomicSet() *AtomicSet {
	return &AtomicSet{}
}

func pageIndex(i uint32) uint32 { return i / (shardWords * wordBits) }

func wordInPage(i uint32) int { return int(i/wordBits) % shardWords }

func (s *AtomicSet) pageFor(i uint32) *atomicPage {
	key := pageIndex(i)
	if v, ok := s.pages.Load(key); ok {
		return v.(*atomicPage)
	}
	page, _ := s.pages.LoadOrStore(key, &atomicPage{})
	return page.(*atomicPage)
}

// existingPageFor returns the page for i without creating one, or nil.
func (s *AtomicSet) existingPageFor(i uint32) *atomicPage {
	v, ok := s.pages.Load(pageIndex(i))
	if !ok {
		return nil
	}
	return v.(*atomicPage)
}

// AddAtomic sets bit i using a CAS retry loop, creating the backing page on
// first touch if necessary. Safe for any number of concurrent callers.
func (s *AtomicSet) AddAtomic(i uint32) {
	page := s.pageFor(i)
	word, bit := wordInPage(i), i%wordBits
	mask := uint64(1) << bit
	w := &page.words[word]
	for {
		old := w.Load()
		if old&mask != 0 {
			return
		}
		if w.CompareAndSwap(old, old|mask) {
			return
		}
	}
}

// Contains reports whether bit i is set. Safe for concurrent use.
func (s *AtomicSet) Contains(i uint32) bool {
	page := s.existingPageFor(i)
	if page == nil {
		return false
	}
	return page.words[wordInPage(i)].Load()&(1<<(i%wordBits)) != 0
}

// Remove clears bit i via CAS. Returns true if it had been set.
func (s *AtomicSet) Remove(i uint32) bool {
	page := s.existingPageFor(i)
	if page == nil {
		return false
	}
	word, bit := wordInPage(i), i%wordBits
	mask := uint64(1) << bit
	w := &page.words[word]
	for {
		old := w.Load()
		if old&mask == 0 {
			return false
		}
		if w.CompareAndSwap(old, old&^mask) {
			return true
		}
	}
}

// Clear empties the set. Must be called only under exclusive world access
// (merge barrier), matching the allocator's usage.
func (s *AtomicSet) Clear() {
	s.pages.Range(func(_, v any) bool {
		page := v.(*atomicPage)
		for i := range page.words {
			page.words[i].Store(0)
		}
		return true
	})
}

// Iter calls fn for every set bit, in ascending index order. Intended for
// use only at the merge barrier (exclusive access), not concurrently with
// AddAtomic.
func (s *AtomicSet) Iter(fn func(i uint32)) {
	var pageKeys []uint32
	pages := make(map[uint32]*atomicPage)
	s.pages.Range(func(k, v any) bool {
		key := k.(uint32)
		pageKeys = append(pageKeys, key)
		pages[key] = v.(*atomicPage)
		return true
	})
	sort.Slice(pageKeys, func(i, j int) bool { return pageKeys[i] < pageKeys[j] })

	for _, key := range pageKeys {
		page := pages[key]
		base := key * shardWords * wordBits
		for word, wv := range page.words {
			w := wv.Load()
			for w != 0 {
				bit := bits.TrailingZeros64(w)
				fn(base + uint32(word)*wordBits + uint32(bit))
				w &= w - 1
			}
		}
	}
}
