package planner

import "sync/atomic"

// pulseT is a single-use, cross-goroutine completion token: the sender fires
// exactly once (CAS-guarded), the receiver waits for that single send.
type pulseT struct {
	ch    chan error
	fired atomic.Bool
}

func newPulse() *pulseT {
	return &pulseT{ch: make(chan error, 1)}
}

// fire attempts to deliver err as the one-and-only completion signal.
// Reports whether this call was the one that actually fired it — false
// means someone else (usually RunArg's own Fetch) already fired first.
func (p *pulseT) fire(err error) (firedByMe bool) {
	if p.fired.CompareAndSwap(false, true) {
		p.ch <- err
		return true
	}
	return false
}

// wait blocks until fire is called, returning whatever error it was fired
// with (nil on normal completion).
func (p *pulseT) wait() error {
	return <-p.ch
}
