package states

import (
	"context"
	"strconv"

	"github.com/edgecore/wedge/callback"
	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/lifecycle"
)

// Applying reconciles a pending configuration document into the DTDL
// model (spec §4.2.2). Its lazy entry sequence (sensor core init, stream
// open, initializeValues, onCreate) runs exactly once across the
// engine's whole lifetime — tracked by engine.Context, not by this
// object, since the engine may revisit APPLYING many times.
type Applying struct {
	ctx *engine.Context
}

// NewApplying does no entry work itself; the lazy sequence runs on the
// first Iterate call.
func NewApplying(ctx context.Context, ectx *engine.Context) *Applying {
	return &Applying{ctx: ectx}
}

func (a *Applying) Kind() lifecycle.State { return lifecycle.Applying }

func (a *Applying) Iterate(ctx context.Context) Result {
	if !a.ctx.ApplyingInitialized() {
		if res := a.initialize(ctx); res != Ok {
			a.ctx.MarkApplyingInitialized()
			return res
		}
		a.ctx.MarkApplyingInitialized()
	}

	if doc := a.ctx.TakePendingConfig(); doc != nil {
		verifyFailed, _ := a.ctx.Model.Update(ctx, doc)
		if verifyFailed {
			a.ctx.SetNext(lifecycle.Idle)
			a.ctx.MarkNotification()
			return Ok
		}
	}

	a.ctx.SetNext(a.ctx.Model.TargetState())
	a.ctx.MarkNotification()
	return Ok
}

// initialize runs the four-step lazy sequence from spec §4.2.2, unwinding
// whatever it acquired on each failure path.
func (a *Applying) initialize(ctx context.Context) Result {
	core, err := a.ctx.Driver.Init(ctx)
	if err != nil {
		a.ctx.Model.ReportFailure(lifecycle.FAILED_PRECONDITION, "SENSOR_CORE_INIT: "+err.Error())
		a.ctx.SetNext(lifecycle.Destroying)
		return Err
	}
	a.ctx.SetCore(core)

	stream, err := a.ctx.Driver.OpenStream(ctx, core, a.ctx.StreamKey)
	if err != nil {
		_ = a.ctx.Driver.Close(ctx, core)
		a.ctx.ClearCore()
		a.ctx.Model.ReportFailure(lifecycle.FAILED_PRECONDITION, "SENSOR_CORE_OPEN_STREAM: "+err.Error())
		a.ctx.SetNext(lifecycle.Destroying)
		return Err
	}
	a.ctx.SetStream(stream)

	if err := a.ctx.Model.InitializeValues(ctx); err != nil && a.ctx.Logger != nil {
		a.ctx.Logger.WithError(err).Warn("applying: initializeValues failed, continuing with node defaults")
	}

	if err := a.ctx.Callbacks.CallCreate(ctx); err != nil {
		_ = a.ctx.Driver.CloseStream(ctx, stream)
		a.ctx.ClearStream()
		_ = a.ctx.Driver.Close(ctx, core)
		a.ctx.ClearCore()
		detail := "onCreate call gave error res=" + strconv.Itoa(callback.ResultCode(err))
		a.ctx.Model.ReportFailure(lifecycle.FAILED_PRECONDITION, detail)
		a.ctx.SetNext(lifecycle.Idle)
		return Err
	}
	return Ok
}
