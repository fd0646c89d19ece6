// Package lifecycle defines the closed set of engine states, the
// feasibility table that gates transitions between them, and the
// result-code taxonomy used throughout the engine.
package lifecycle

import "fmt"

// State is one of the seven lifecycle states the engine can occupy.
type State int

const (
	Creating State = iota
	Idle
	Running
	Destroying
	Exiting
	CoolingDown
	Applying
	count // used only for table sizing
)

func (s State) String() string {
	switch s {
	case Creating:
		return "CREATING"
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Destroying:
		return "DESTROYING"
	case Exiting:
		return "EXITING"
	case CoolingDown:
		return "COOLINGDOWN"
	case Applying:
		return "APPLYING"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ProcessState is the DTDL-facing process_state enum, distinct from State
// because the document only ever names IDLE, RUNNING or (internally)
// DESTROYING — never the transient states.
type ProcessState int

const (
	ProcessStateUnspecified ProcessState = 0
	ProcessStateIdle        ProcessState = 1
	ProcessStateRunning     ProcessState = 2
	ProcessStateDestroying  ProcessState = 3
)

// AsProcessState reports the DTDL process_state that corresponds to s, for
// states where that mapping is defined (IDLE, RUNNING and DESTROYING; every
// other state reports ok=false and callers hold the last reported value).
func (s State) AsProcessState() (ProcessState, bool) {
	switch s {
	case Idle:
		return ProcessStateIdle, true
	case Running:
		return ProcessStateRunning, true
	case Destroying:
		return ProcessStateDestroying, true
	default:
		return ProcessStateUnspecified, false
	}
}

// feasible is the 7x7 transition authorization matrix from spec §6.3.
// Row = from, column = to. Self-loops are always feasible.
var feasible = [count][count]bool{
	Creating:    {Creating: true, Running: true, Destroying: true},
	Idle:        {Idle: true, Running: true, Destroying: true, Applying: true},
	Running:     {Idle: true, Running: true, Destroying: true, CoolingDown: true, Applying: true},
	Destroying:  {Destroying: true, Exiting: true},
	Exiting:     {Exiting: true},
	CoolingDown: {Destroying: true, CoolingDown: true},
	Applying:    {Idle: true, Running: true, Destroying: true, Applying: true},
}

// Feasible reports whether the configurator is permitted to drive the
// engine from s to to. Self-loops are always feasible by construction of
// the table above (I8: the table is the sole authority).
func Feasible(from, to State) bool {
	return feasible[from][to]
}
