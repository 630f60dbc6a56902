package entity

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/slide-rs/parsec/metrics"
)

// S1: fresh allocator, allocate twice.
func TestAllocatorAllocateFresh(t *testing.T) {
	a := NewAllocator()

	e0 := a.Allocate()
	e1 := a.Allocate()

	if e0.ID() != 0 || e0.Gen() != Generation(1) {
		t.Fatalf("first allocate = %v, want Entity(0, Generation(1))", e0)
	}
	if e1.ID() != 1 || e1.Gen() != Generation(1) {
		t.Fatalf("second allocate = %v, want Entity(1, Generation(1))", e1)
	}
	if a.maxID.Load() != 2 {
		t.Fatalf("maxID = %d, want 2", a.maxID.Load())
	}
}

// S2: kill then reallocate bumps the generation and recycles the index.
func TestAllocatorKillThenReallocate(t *testing.T) {
	a := NewAllocator()
	e0 := a.Allocate()
	_ = a.Allocate()

	if err := a.Kill([]Entity{e0}); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if a.IsAlive(e0) {
		t.Fatal("e0 still alive after Kill")
	}

	reused := a.Allocate()
	if reused.ID() != 0 {
		t.Fatalf("reallocate did not recycle index 0, got %d", reused.ID())
	}
	if reused.Gen() != Generation(2) {
		t.Fatalf("reallocate gen = %v, want Generation(2)", reused.Gen())
	}
}

// S3: two goroutines racing AllocateAtomic must produce disjoint ids, no
// duplicates, and every id must report alive before Merge.
func TestAllocatorAllocateAtomicConcurrent(t *testing.T) {
	a := NewAllocator()

	const perGoroutine = 10000
	results := make([][]Entity, 2)
	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			out := make([]Entity, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				out[i] = a.AllocateAtomic()
			}
			results[g] = out
		}(g)
	}
	wg.Wait()

	seen := make(map[Index]bool, 2*perGoroutine)
	for _, out := range results {
		for _, e := range out {
			if e.ID() >= 2*perGoroutine {
				t.Fatalf("id %d out of expected range", e.ID())
			}
			if seen[e.ID()] {
				t.Fatalf("duplicate id %d across goroutines", e.ID())
			}
			seen[e.ID()] = true
			if !a.IsAlive(e) {
				t.Fatalf("entity %v not alive before merge", e)
			}
		}
	}
	if len(seen) != 2*perGoroutine {
		t.Fatalf("got %d distinct ids, want %d", len(seen), 2*perGoroutine)
	}
}

// S4: a synchronously-allocated entity killed atomically stays alive until
// merge, and a stale kill_atomic after merge reports WrongGeneration.
func TestAllocatorKillAtomicThenMerge(t *testing.T) {
	a := NewAllocator()
	e := a.Allocate()

	if err := a.KillAtomic(e); err != nil {
		t.Fatalf("KillAtomic: %v", err)
	}
	if !a.IsAlive(e) {
		t.Fatal("entity should still be alive before merge")
	}

	deleted := a.Merge()
	if len(deleted) != 1 || deleted[0].ID() != e.ID() {
		t.Fatalf("Merge deleted = %v, want [%v]", deleted, e)
	}
	if a.IsAlive(e) {
		t.Fatal("entity should be dead after merge")
	}

	err := a.KillAtomic(e)
	if err == nil {
		t.Fatal("KillAtomic on a stale token should fail")
	}
	if _, ok := err.(*WrongGeneration); !ok {
		t.Fatalf("error = %v (%T), want *WrongGeneration", err, err)
	}
}

// Kill aggregates per-entity failures with multierr instead of stopping at
// the first one, and still applies the valid kills in the same batch.
func TestAllocatorKillAggregatesErrors(t *testing.T) {
	a := NewAllocator()
	good := a.Allocate()
	stale := a.Allocate()
	if err := a.Kill([]Entity{stale}); err != nil {
		t.Fatalf("priming kill of stale: %v", err)
	}

	err := a.Kill([]Entity{good, stale})
	if err == nil {
		t.Fatal("expected an error for the stale entity in the batch")
	}
	if got := len(multierr.Errors(err)); got != 1 {
		t.Fatalf("multierr.Errors = %d errors, want 1", got)
	}
	if a.IsAlive(good) {
		t.Fatal("good entity should still have been killed despite the batch error")
	}
}

// A WrongGeneration from either Kill or KillAtomic increments the attached
// metrics sink's kill-error counter.
func TestAllocatorWrongGenerationIncrementsMetrics(t *testing.T) {
	a := NewAllocator()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	a.SetMetrics(m)

	stale := a.Allocate()
	if err := a.Kill([]Entity{stale}); err != nil {
		t.Fatalf("priming kill: %v", err)
	}

	if err := a.Kill([]Entity{stale}); err == nil {
		t.Fatal("expected WrongGeneration from re-killing an already-dead entity")
	}
	if err := a.KillAtomic(stale); err == nil {
		t.Fatal("expected WrongGeneration from KillAtomic on an already-dead entity")
	}

	families, gatherErr := reg.Gather()
	if gatherErr != nil {
		t.Fatalf("Gather: %v", gatherErr)
	}
	var got float64
	for _, f := range families {
		if f.GetName() != "parsec_entity_wrong_generation_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			got += metric.GetCounter().GetValue()
		}
	}
	if got != 2 {
		t.Fatalf("parsec_entity_wrong_generation_total = %v, want 2", got)
	}
}

// A nil metrics sink (the default) leaves WrongGeneration reporting a no-op.
func TestAllocatorWrongGenerationNilMetricsIsNoOp(t *testing.T) {
	a := NewAllocator()
	stale := a.Allocate()
	if err := a.Kill([]Entity{stale}); err != nil {
		t.Fatalf("priming kill: %v", err)
	}
	if err := a.Kill([]Entity{stale}); err == nil {
		t.Fatal("expected WrongGeneration")
	}
}

// Merge is idempotent: calling it again with nothing pending changes
// nothing and deletes nothing.
func TestAllocatorMergeIdempotent(t *testing.T) {
	a := NewAllocator()
	e := a.AllocateAtomic()
	a.Merge()
	if !a.IsAlive(e) {
		t.Fatal("entity should be alive after first merge")
	}

	deleted := a.Merge()
	if len(deleted) != 0 {
		t.Fatalf("second merge with nothing pending deleted %v", deleted)
	}
	if !a.IsAlive(e) {
		t.Fatal("entity should still be alive after idempotent merge")
	}
}

// Exhaustion panics once the index space is used up.
func TestAllocatorExhaustion(t *testing.T) {
	a := NewAllocator()
	a.maxID.Store(uint64(maxIndex))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on index exhaustion")
		}
	}()
	a.Allocate()
}
