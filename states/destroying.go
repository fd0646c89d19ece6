package states

import (
	"context"

	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/lifecycle"
)

// Destroying tears the engine down: onDestroy, stream/core release,
// export uninit (spec §4.2.6). Unlike the other states, its work happens
// in Iterate rather than at construction — the run loop exits once
// current is DESTROYING, without ever transitioning further.
type Destroying struct {
	ctx *engine.Context
}

func NewDestroying(ctx context.Context, ectx *engine.Context) *Destroying {
	return &Destroying{ctx: ectx}
}

func (s *Destroying) Kind() lifecycle.State { return lifecycle.Destroying }

func (s *Destroying) Iterate(ctx context.Context) Result {
	if err := s.ctx.Callbacks.CallDestroy(ctx); err != nil && s.ctx.Logger != nil {
		s.ctx.Logger.WithError(err).Warn("destroying: onDestroy returned an error")
	}

	if stream, ok := s.ctx.Stream(); ok {
		_ = s.ctx.Driver.CloseStream(ctx, stream)
		s.ctx.ClearStream()
	}
	if core, ok := s.ctx.Core(); ok {
		_ = s.ctx.Driver.Close(ctx, core)
		s.ctx.ClearCore()
	}
	_ = s.ctx.Dispatcher.Uninit(ctx)

	return Ok
}
