// Package metrics instruments the planner with Prometheus metrics. A
// *Planner works fine without metrics — every method is a nil-safe no-op —
// and a caller who wants observability passes a prometheus.Registerer to
// New, getting the planner's metrics registered on it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Planner instruments one Planner's dispatch ticks. A nil *Planner is valid
// and every method is a no-op, so the core planner package never pays for
// metrics unless a caller opts in (cmd/parsecdemo does).
type Planner struct {
	dispatchDuration prometheus.Histogram
	inFlightSystems  prometheus.Gauge
	entitiesAlive    prometheus.Gauge
	killErrors       prometheus.Counter
}

// New registers planner metrics on reg and returns a *Planner ready to pass
// to PlannerBuilder.WithMetrics (and Allocator.SetMetrics). reg must not be
// nil; pass a nil *Planner instead if metrics are not wanted.
func New(reg prometheus.Registerer) *Planner {
	m := &Planner{
		dispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parsec",
			Subsystem: "planner",
			Name:      "dispatch_duration_seconds",
			Help:      "Wall-clock time spent in one Planner.Dispatch call, including the fetch-phase barrier for every system.",
			Buckets:   prometheus.DefBuckets,
		}),
		inFlightSystems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "parsec",
			Subsystem: "planner",
			Name:      "in_flight_systems",
			Help:      "Number of systems spawned but not yet reported complete via their SystemGuard.",
		}),
		entitiesAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "parsec",
			Subsystem: "entity",
			Name:      "alive",
			Help:      "Number of entities the allocator considers alive after the most recent merge.",
		}),
		killErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parsec",
			Subsystem: "entity",
			Name:      "wrong_generation_total",
			Help:      "Count of WrongGeneration errors returned by Kill/KillAtomic.",
		}),
	}
	reg.MustRegister(m.dispatchDuration, m.inFlightSystems, m.entitiesAlive, m.killErrors)
	return m
}

// ObserveDispatch records the duration of one Dispatch call.
func (m *Planner) ObserveDispatch(d time.Duration) {
	if m == nil {
		return
	}
	m.dispatchDuration.Observe(d.Seconds())
}

// IncInFlight increments the in-flight system gauge.
func (m *Planner) IncInFlight() {
	if m == nil {
		return
	}
	m.inFlightSystems.Inc()
}

// DecInFlight decrements the in-flight system gauge.
func (m *Planner) DecInFlight() {
	if m == nil {
		return
	}
	m.inFlightSystems.Dec()
}

// SetEntitiesAlive records the live entity count observed at a merge.
func (m *Planner) SetEntitiesAlive(n int) {
	if m == nil {
		return
	}
	m.entitiesAlive.Set(float64(n))
}

// IncKillErrors counts one WrongGeneration error.
func (m *Planner) IncKillErrors() {
	if m == nil {
		return
	}
	m.killErrors.Inc()
}
