// Package planner implements a priority-ordered, sequential-fetch/
// parallel-execute system dispatcher. A Planner owns a *world.World, a
// pool.Pool of worker goroutines, and the queue of systems registered for
// the next tick; Dispatch spawns one task per system in descending-priority
// order, blocking the calling goroutine on each system's fetch before
// spawning the next, then lets execution continue concurrently.
package planner

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/slide-rs/parsec/metrics"
	"github.com/slide-rs/parsec/pool"
	"github.com/slide-rs/parsec/world"
)

// completionQueueSize bounds how many completion messages can be in flight
// between a tick's spawned tasks and the Planner's own wait loop. A single
// Dispatch spawns at most len(systems) tasks and RunCustom spawns one at a
// time awaited immediately, so this only needs headroom for one tick's worth
// of systems; 1024 is comfortably above any realistic system roster.
const completionQueueSize = 1024

// PlannerBuilder configures a Planner before Build. WithNumThreads and
// WithThreadPool are mutually exclusive, panicking if both are set.
type PlannerBuilder[C any] struct {
	world *world.World

	numThreads    int
	hasNumThreads bool

	pool    pool.Pool
	hasPool bool

	logger  *zap.Logger
	metrics *metrics.Planner
}

// NewBuilder returns an empty PlannerBuilder.
func NewBuilder[C any]() *PlannerBuilder[C] {
	return &PlannerBuilder[C]{}
}

// WithWorld sets the world the Planner will dispatch systems against.
// Required before Build.
func (b *PlannerBuilder[C]) WithWorld(w *world.World) *PlannerBuilder[C] {
	b.world = w
	return b
}

// WithNumThreads sizes the default worker pool. Panics if WithThreadPool was
// already called.
func (b *PlannerBuilder[C]) WithNumThreads(n int) *PlannerBuilder[C] {
	if b.hasPool {
		panic("planner: WithNumThreads and WithThreadPool are mutually exclusive")
	}
	b.numThreads = n
	b.hasNumThreads = true
	return b
}

// WithThreadPool supplies a caller-owned pool.Pool. Panics if WithNumThreads
// was already called.
func (b *PlannerBuilder[C]) WithThreadPool(p pool.Pool) *PlannerBuilder[C] {
	if b.hasNumThreads {
		panic("planner: WithNumThreads and WithThreadPool are mutually exclusive")
	}
	b.pool = p
	b.hasPool = true
	return b
}

// WithLogger sets the *zap.Logger used for panic/error diagnostics. Defaults
// to zap.NewNop() if never called.
func (b *PlannerBuilder[C]) WithLogger(l *zap.Logger) *PlannerBuilder[C] {
	b.logger = l
	return b
}

// WithMetrics attaches a *metrics.Planner sink. Optional: a nil sink is
// always safe to use.
func (b *PlannerBuilder[C]) WithMetrics(m *metrics.Planner) *PlannerBuilder[C] {
	b.metrics = m
	return b
}

// Build constructs the Planner. Panics if no World was set.
func (b *PlannerBuilder[C]) Build() *Planner[C] {
	if b.world == nil {
		panic("planner: a world is required for planner creation")
	}

	p := b.pool
	if p == nil {
		n := 0
		if b.hasNumThreads {
			n = b.numThreads
		}
		p = pool.New(n)
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ch := make(chan SystemInfo[C], completionQueueSize)

	return &Planner[C]{
		world:   b.world,
		pool:    p,
		chanOut: ch,
		chanIn:  ch,
		logger:  logger,
		metrics: b.metrics,
	}
}

// Planner dispatches registered systems in descending-priority order, one
// worker-pool task per system, blocking on each system's fetch before
// spawning the next. Not safe for concurrent use of its own methods — it
// expects a single dispatch-thread owner; the World it wraps is safe to
// read concurrently from in-flight systems.
type Planner[C any] struct {
	world   *world.World
	systems []SystemInfo[C]

	waitCount int
	chanOut   chan<- SystemInfo[C]
	chanIn    <-chan SystemInfo[C]

	pool    pool.Pool
	logger  *zap.Logger
	metrics *metrics.Planner
}

// New returns a Planner over w with a default pool sized to numThreads (<=0
// meaning runtime.NumCPU()). Equivalent to NewBuilder[C]().WithWorld(w).
// WithNumThreads(numThreads).Build().
func New[C any](w *world.World, numThreads int) *Planner[C] {
	return NewBuilder[C]().WithWorld(w).WithNumThreads(numThreads).Build()
}

// AddSystem registers a system to run on the next Dispatch, at the given
// priority. name must be non-empty: it is how the system is identified in
// logs and how waitInternal recognizes a real completion message.
func (p *Planner[C]) AddSystem(sys System[C], name string, priority Priority) {
	if name == "" {
		panic("planner: system name must not be empty")
	}
	p.systems = append(p.systems, SystemInfo[C]{Name: name, Priority: priority, System: sys})
}

// recoverPanic is deferred inside every spawned task. If the task panicked,
// it converts the panic into an error and tries to deliver it through pl: if
// this is the first (and therefore only) firing of pl, the panic happened
// before the system ever called Fetch, so the dispatcher — still blocked on
// pl.wait() — will see the error and re-panic on its own goroutine, making
// the panic fatal for the tick. If pl had already fired (the system
// panicked after a normal Fetch), nobody is waiting on it anymore, so the
// panic is only logged; the guard still runs and in-flight accounting still
// completes.
func (p *Planner[C]) recoverPanic(pl *pulseT, name string) {
	r := recover()
	if r == nil {
		return
	}
	err := fmt.Errorf("planner: system %q panicked: %v", name, r)
	if firedByMe := pl.fire(err); !firedByMe {
		p.logger.Error("system panicked after fetch", zap.String("system", name), zap.Any("panic", r))
	}
}

// spawn submits one task to the pool, wires its guard and pulse, blocks on
// the pulse, and panics on the dispatcher's own goroutine if the task
// reports a pre-fetch panic or returns without ever calling Fetch/FetchNew.
func (p *Planner[C]) spawn(info SystemInfo[C], hasInfo bool, body func(arg *RunArg)) {
	pl := newPulse()
	guard := &systemGuard[C]{info: info, hasInfo: hasInfo, out: p.chanOut, pulse: pl, metrics: p.metrics}
	arg := &RunArg{world: p.world, pulse: pl}

	p.metrics.IncInFlight()
	p.pool.Submit(func() {
		defer guard.release()
		defer p.recoverPanic(pl, info.Name)
		body(arg)
	})
	p.waitCount++

	if err := pl.wait(); err != nil {
		panic(err)
	}
}

// RunCustom spawns a one-off task not tied to any registered System. It is
// never re-dispatched: its SystemInfo is discarded by waitInternal. Useful
// for ad-hoc maintenance work that still needs to run inside the same
// fetch/execute discipline as ordinary systems.
func (p *Planner[C]) RunCustom(name string, fn func(arg *RunArg)) {
	if name == "" {
		name = "<run_custom>"
	}
	p.spawn(SystemInfo[C]{Name: name}, false, fn)
}

// waitInternal drains completion messages until every spawned task has
// reported in, re-registering any that carried a real SystemInfo (i.e. came
// from Dispatch, not RunCustom) for the next tick.
func (p *Planner[C]) waitInternal() {
	for p.waitCount > 0 {
		info := <-p.chanIn
		p.waitCount--
		if info.Name != "" {
			p.systems = append(p.systems, info)
		}
	}
}

// MutWorld drains all in-flight systems, then returns the World for
// exclusive mutation. Callers must not retain the pointer across the next
// Dispatch/RunCustom call — nothing enforces this statically, so treat it as
// a borrow that expires the moment the next tick starts.
func (p *Planner[C]) MutWorld() *world.World {
	p.waitInternal()
	return p.world
}

// Wait drains all in-flight systems and merges the World's deferred
// create/delete queue (World.Maintain), recording the resulting entity count
// and updating registered systems for the next tick. Called automatically at
// the start of Dispatch; exposed directly for callers that want to flush
// without immediately starting a new tick.
func (p *Planner[C]) Wait() {
	w := p.MutWorld()
	w.Maintain()
	p.metrics.SetEntitiesAlive(w.Entities().AliveCount())
}

// Dispatch runs one tick: Wait()s for any prior in-flight work, sorts
// registered systems by descending priority (ties keep insertion order), then
// spawns them one at a time, blocking on each system's Fetch before spawning
// the next. Systems run concurrently with each other once fetched; Dispatch
// itself returns once every system for this tick has fetched (not
// necessarily finished running) — call Wait before the next Dispatch (or let
// the next Dispatch do it) to ensure they have all finished.
func (p *Planner[C]) Dispatch(ctx C) {
	p.Wait()

	sort.SliceStable(p.systems, func(i, j int) bool {
		return p.systems[i].Priority > p.systems[j].Priority
	})
	pending := p.systems
	p.systems = nil

	start := time.Now()
	for _, info := range pending {
		sys := info.System
		p.spawn(info, true, func(arg *RunArg) {
			sys.Run(arg, ctx)
		})
	}
	p.metrics.ObserveDispatch(time.Since(start))
}
