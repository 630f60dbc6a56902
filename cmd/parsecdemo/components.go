package main

import "time"

// Tick is the per-dispatch context every demo system receives: the tick
// counter and the configured tick interval. Passed by value.
type Tick struct {
	N  uint64
	DT time.Duration
}

// Position is a demo component: world-space coordinates.
type Position struct {
	X, Y float64
}

// Velocity is a demo component: per-second displacement.
type Velocity struct {
	X, Y float64
}

// Health is a demo component: current/max hit points.
type Health struct {
	Current, Max int32
}
