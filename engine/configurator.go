package engine

import "github.com/edgecore/wedge/lifecycle"

// Configurator (C6) is the sole gated path for externally-requested state
// transitions: it consults the feasibility table (lifecycle.Feasible,
// I8) before mutating next, and never mutates on rejection (P1). Internal
// state-driven transitions (Creating -> Idle, worker completion, ...) go
// through Context.SetNext directly and are not subject to this gate.
type Configurator struct {
	ctx *Context
}

// NewConfigurator wraps ctx.
func NewConfigurator(ctx *Context) *Configurator {
	return &Configurator{ctx: ctx}
}

// UpdateProcessState requests a transition to new (spec §4.4): a no-op
// success if new already equals next; otherwise accepted and applied iff
// lifecycle.Feasible(current, new), in which case next is set and a
// notification is marked; rejected (false, no mutation) otherwise.
func (c *Configurator) UpdateProcessState(new lifecycle.State) bool {
	c.ctx.mu.Lock()
	defer c.ctx.mu.Unlock()

	if c.ctx.next == new {
		if c.ctx.Logger != nil {
			c.ctx.Logger.WithField("state", new.String()).Debug("update_process_state: already pending, no-op")
		}
		return true
	}
	if !lifecycle.Feasible(c.ctx.currentKind, new) {
		if c.ctx.Logger != nil {
			c.ctx.Logger.WithField("from", c.ctx.currentKind.String()).
				WithField("to", new.String()).
				Warn("update_process_state: transition rejected")
		}
		return false
	}
	c.ctx.next = new
	c.ctx.notify = true
	return true
}
