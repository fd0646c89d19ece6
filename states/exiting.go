package states

import (
	"context"

	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/lifecycle"
)

// Exiting is the terminal state in the feasibility table. The run loop
// returns as soon as DESTROYING's single Iterate call completes, so this
// state is never actually constructed in normal operation; it exists for
// the factory's completeness.
type Exiting struct {
	ctx *engine.Context
}

func NewExiting(ctx context.Context, ectx *engine.Context) *Exiting {
	return &Exiting{ctx: ectx}
}

func (s *Exiting) Kind() lifecycle.State { return lifecycle.Exiting }

func (s *Exiting) Iterate(ctx context.Context) Result { return Break }
