package states

import (
	"context"

	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/lifecycle"
)

// CoolingDown drains pending export operations after the worker completes
// a bounded-iteration run (spec §4.2.5).
type CoolingDown struct {
	ctx *engine.Context
}

func NewCoolingDown(ctx context.Context, ectx *engine.Context) *CoolingDown {
	return &CoolingDown{ctx: ectx}
}

func (s *CoolingDown) Kind() lifecycle.State { return lifecycle.CoolingDown }

// Iterate returns early if a shutdown is already pending (asymmetric with
// the other states, per spec §9 — preserved as-is), otherwise drains
// pending exports before restoring IDLE.
func (s *CoolingDown) Iterate(ctx context.Context) Result {
	if s.ctx.NextState() == lifecycle.Destroying {
		return Break
	}

	for s.ctx.Dispatcher.HasPendingOperations() {
		_ = s.ctx.Transport.ProcessEvent(ctx, idleEventTimeoutMs)
	}

	s.ctx.SetNext(lifecycle.Idle)
	s.ctx.MarkNotification()
	return Ok
}
