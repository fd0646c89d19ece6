// Package runloop implements the state-machine core loop (C5, spec
// §4.3): the top-level run() that sequences state.Iterate calls,
// constructs and swaps in the next state when it changes (re-dispatching
// if construction itself changes the target), and emits pending state
// reports.
package runloop

import (
	"context"

	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/states"
	"github.com/edgecore/wedge/transport"
)

// Run drives ectx's state machine from CREATING until DESTROYING's
// single iterate() call completes, then returns.
func Run(ctx context.Context, ectx *engine.Context) {
	current := states.New(ctx, lifecycle.Creating, ectx)
	ectx.SetCurrentState(current.Kind())

	for {
		current.Iterate(ctx)

		if current.Kind() == lifecycle.Destroying {
			return
		}

		if next := ectx.NextState(); next != current.Kind() {
			current = advance(ctx, ectx, current, next)
		}

		if ectx.TakeNotification() {
			_ = ectx.Transport.SendState(ctx, transport.TopicState, ectx.Model.Serialize(), nil)
		}
	}
}

// advance constructs the next state object, re-dispatching if
// construction itself changes `next` again before the swap completes
// (spec §4.3 step 3: "this is the only place the core re-dispatches
// construction" — e.g. Running's constructor failing onStart and setting
// next back to IDLE). A state object discarded by re-dispatch has its exit
// side effects run before the replacement is constructed. It then runs the
// outgoing state's exit side
// effects, if any, and mirrors the new state into process_state
// reporting (I5).
func advance(ctx context.Context, ectx *engine.Context, outgoing states.State, next lifecycle.State) states.State {
	nextState := states.New(ctx, next, ectx)
	for ectx.NextState() != next {
		if closer, ok := nextState.(states.Closer); ok {
			closer.Close(ctx)
		}
		next = ectx.NextState()
		nextState = states.New(ctx, next, ectx)
	}

	if closer, ok := outgoing.(states.Closer); ok {
		closer.Close(ctx)
	}

	ectx.SetCurrentState(nextState.Kind())
	if ps, ok := nextState.Kind().AsProcessState(); ok {
		ectx.Model.SetProcessStateReport(ps)
	}

	return nextState
}
