package engine

import "github.com/edgecore/wedge/lifecycle"

// View is a read-only accessor over a Context, handed to the status
// surface (httpapi) and the telemetry heartbeat so neither ever touches
// the write path M/T/W share (spec §5 [FULL]: additional readers, not a
// fourth actor in the ordering guarantees).
type View struct {
	ctx *Context
}

// NewView wraps ctx for read-only use.
func NewView(ctx *Context) View { return View{ctx: ctx} }

// State reports the lifecycle state currently occupied.
func (v View) State() lifecycle.State { return v.ctx.CurrentState() }

// NextState reports the pending target state.
func (v View) NextState() lifecycle.State { return v.ctx.NextState() }

// ResultCode reports the most recent res_info.code.
func (v View) ResultCode() lifecycle.ResultCode { return v.ctx.Model.ResInfo().Code() }

// ResultDetail reports the most recent res_info.detail_msg.
func (v View) ResultDetail() string { return v.ctx.Model.ResInfo().Detail() }

// IterationCount reports how many onIterate calls have completed.
func (v View) IterationCount() int64 { return v.ctx.IterationCount() }

// Document returns the full current state document (spec §6.4 shape).
func (v View) Document() []byte { return v.ctx.Model.Serialize() }
