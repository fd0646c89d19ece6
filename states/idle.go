package states

import (
	"context"
	"errors"

	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/transport"
)

// idleEventTimeoutMs is the processEvent deadline Idle and Running share
// (spec §4.2.3/§4.2.4).
const idleEventTimeoutMs = 1000

// Idle pumps transport events, waiting for either a configuration
// document (handled asynchronously by the callback) or shutdown.
type Idle struct {
	ctx *engine.Context
}

func NewIdle(ctx context.Context, ectx *engine.Context) *Idle {
	return &Idle{ctx: ectx}
}

func (s *Idle) Kind() lifecycle.State { return lifecycle.Idle }

func (s *Idle) Iterate(ctx context.Context) Result {
	err := s.ctx.Transport.ProcessEvent(ctx, idleEventTimeoutMs)
	if errors.Is(err, transport.ErrShouldExit) {
		s.ctx.SetNext(lifecycle.Destroying)
	}
	return Ok
}
