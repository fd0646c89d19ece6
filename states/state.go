// Package states implements one type per lifecycle state (C3, spec §4.2):
// Creating, Applying, Idle, Running, CoolingDown, Destroying and Exiting.
// Each implements a single-step Iterate; entry side effects run in the
// constructor (RAII-style), exit side effects in Close where a state has
// any (spec §3.3, §9 "state objects with side-effectful constructors").
package states

import (
	"context"

	"github.com/edgecore/wedge/lifecycle"
)

// Result is the outcome of one Iterate call.
type Result int

const (
	Ok Result = iota
	Err
	Break
)

// State is the uniform interface every lifecycle state implements.
type State interface {
	// Kind reports which lifecycle.State this object represents.
	Kind() lifecycle.State
	// Iterate performs one step of this state's work.
	Iterate(ctx context.Context) Result
}

// Closer is implemented by states with exit side effects (Running joins
// its worker and calls onStop; most states have nothing to do on exit and
// don't implement it).
type Closer interface {
	Close(ctx context.Context)
}
