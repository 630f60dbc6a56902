package planner

import (
	"errors"

	"github.com/slide-rs/parsec/metrics"
)

// systemGuard always posts exactly one completion message when its owning
// task finishes, whether that task returned normally, panicked, or simply
// never called Fetch/FetchNew. The spawned goroutine must `defer
// guard.release()` itself; see planner.go's spawn helper, which is the only
// place a systemGuard is ever constructed.
//
// This is what keeps waitInternal's in-flight counter from stalling forever
// under a worker panic or a misbehaving system.
type systemGuard[C any] struct {
	info    SystemInfo[C]
	hasInfo bool
	out     chan<- SystemInfo[C]
	pulse   *pulseT
	metrics *metrics.Planner
}

// errNeverFetched fires the dispatcher's pulse when a system's Run returns
// normally without ever calling Fetch/FetchNew, so the dispatcher's
// pl.wait() does not block forever waiting for a pulse nobody was ever going
// to fire. (A pre-fetch panic has already fired the pulse with its own error
// via recoverPanic, so release's fire is then a no-op.)
var errNeverFetched = errors.New("planner: system returned without calling Fetch/FetchNew")

// release posts the completion message. If this guard was constructed for a
// Dispatch-spawned system (hasInfo), the posted message carries its
// SystemInfo so the Planner re-registers it for the next tick; a
// RunCustom-spawned task (hasInfo == false) posts an empty SystemInfo, which
// waitInternal recognizes and discards. If the system's pulse was never
// fired (no Fetch/FetchNew call, and no earlier panic already fired it),
// release fires it with errNeverFetched so the dispatcher observes the
// failure instead of hanging.
func (g *systemGuard[C]) release() {
	g.pulse.fire(errNeverFetched)
	g.metrics.DecInFlight()
	if g.hasInfo {
		g.out <- g.info
		return
	}
	g.out <- SystemInfo[C]{}
}
