package states

import (
	"context"

	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/lifecycle"
)

// New is the state factory (C3 §4.2.7): a single function producing a
// freshly constructed state object for a given enum value, used both by
// the run loop on transitions and in recovery when construction itself
// changes next (spec §4.3).
func New(ctx context.Context, kind lifecycle.State, ectx *engine.Context) State {
	switch kind {
	case lifecycle.Creating:
		return NewCreating(ctx, ectx)
	case lifecycle.Applying:
		return NewApplying(ctx, ectx)
	case lifecycle.Running:
		return NewRunning(ctx, ectx)
	case lifecycle.CoolingDown:
		return NewCoolingDown(ctx, ectx)
	case lifecycle.Destroying:
		return NewDestroying(ctx, ectx)
	case lifecycle.Exiting:
		return NewExiting(ctx, ectx)
	case lifecycle.Idle:
		return NewIdle(ctx, ectx)
	default:
		return NewIdle(ctx, ectx)
	}
}
