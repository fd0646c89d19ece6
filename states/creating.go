package states

import (
	"context"

	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/lifecycle"
)

// Creating is the machine's initial state (spec §4.2.1).
type Creating struct {
	ctx     *engine.Context
	initErr error
}

// NewCreating registers the configuration callback on the transport and
// initializes the data-export subsystem — both entry side effects run
// unconditionally at construction.
func NewCreating(ctx context.Context, ectx *engine.Context) *Creating {
	ectx.Transport.SetConfigurationCallback(ectx.HandleConfiguration)
	err := ectx.Dispatcher.Init(ctx)
	return &Creating{ctx: ectx, initErr: err}
}

func (c *Creating) Kind() lifecycle.State { return lifecycle.Creating }

// Iterate advances to IDLE on successful entry, or to DESTROYING naming
// the failed step otherwise. Result is always Ok (the transition itself
// drives progress).
func (c *Creating) Iterate(ctx context.Context) Result {
	if c.initErr != nil {
		c.ctx.Model.ReportFailure(lifecycle.FAILED_PRECONDITION, "export init: "+c.initErr.Error())
		c.ctx.SetNext(lifecycle.Destroying)
		return Ok
	}
	c.ctx.SetNext(lifecycle.Idle)
	c.ctx.MarkNotification()
	return Ok
}
