package planner

// Priority orders systems within one Dispatch: higher runs (and, crucially,
// fetches) before lower. Ties keep insertion order (stable sort).
type Priority int32

// System is one unit of per-tick work. Run receives a fresh RunArg (valid for
// exactly one Fetch/FetchNew call) and a caller-supplied context value.
type System[C any] interface {
	Run(arg *RunArg, ctx C)
}

// SystemInfo pairs a System with the bookkeeping the Planner needs to
// re-dispatch it on the next tick: its display name and priority.
type SystemInfo[C any] struct {
	Name     string
	Priority Priority
	System   System[C]
}

// SystemFunc adapts a plain function to System, the same convenience shape
// as net/http.HandlerFunc.
type SystemFunc[C any] func(arg *RunArg, ctx C)

// Run implements System.
func (f SystemFunc[C]) Run(arg *RunArg, ctx C) { f(arg, ctx) }
