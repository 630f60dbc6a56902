package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFixedPoolRunsAllSubmittedTasks(t *testing.T) {
	p := New(4)
	defer p.Close()

	const n = 200
	var count int32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		p.Submit(func() {
			defer wg.Done()
			atomic.AddInt32(&count, 1)
		})
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("not all submitted tasks completed")
	}

	if got := atomic.LoadInt32(&count); got != n {
		t.Fatalf("count = %d, want %d", got, n)
	}
}

func TestFixedPoolDefaultsWorkerCount(t *testing.T) {
	p := New(0)
	defer p.Close()

	done := make(chan struct{})
	p.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task submitted to a zero-worker-count pool never ran")
	}
}
