package states

import (
	"context"
	"errors"
	"strconv"

	"github.com/edgecore/wedge/callback"
	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/transport"
	"github.com/edgecore/wedge/worker"
)

// Running drives onIterate through the worker thread (C8) for as long as
// the engine occupies RUNNING (spec §4.2.4).
type Running struct {
	ctx           *engine.Context
	failedOnStart bool
}

// NewRunning calls onStart. On failure it records the precondition
// failure and requests a fallback to IDLE without spawning a worker
// (spec §8 S4); on success it emits a state report and starts the
// worker.
func NewRunning(ctx context.Context, ectx *engine.Context) *Running {
	r := &Running{ctx: ectx}

	if err := ectx.Callbacks.CallStart(ctx); err != nil {
		r.failedOnStart = true
		detail := "onStart call gave error res=" + strconv.Itoa(callback.ResultCode(err))
		ectx.Model.ReportFailure(lifecycle.FAILED_PRECONDITION, detail)
		ectx.SetNext(lifecycle.Idle)
		return r
	}

	ectx.Model.SetRunning(true)
	ectx.MarkNotification()

	w := worker.New(ectx)
	w.StartThread(ctx)
	ectx.SetWorker(w)

	return r
}

func (r *Running) Kind() lifecycle.State { return lifecycle.Running }

func (r *Running) Iterate(ctx context.Context) Result {
	err := r.ctx.Transport.ProcessEvent(ctx, idleEventTimeoutMs)
	if errors.Is(err, transport.ErrShouldExit) {
		r.ctx.SetNext(lifecycle.Destroying)
	}
	return Ok
}

// Close stops the worker (joining with its 60s timeout) and calls
// onStop. If this instance failed on start, res_info is left untouched
// even if onStop itself fails (spec §4.2.4).
func (r *Running) Close(ctx context.Context) {
	if w := r.ctx.Worker(); w != nil {
		w.StopThread(ctx)
		r.ctx.ClearWorker()
	}
	r.ctx.Model.SetRunning(false)

	if err := r.ctx.Callbacks.CallStop(ctx); err != nil && !r.failedOnStart {
		detail := "onStop call gave error res=" + strconv.Itoa(callback.ResultCode(err))
		r.ctx.Model.ReportFailure(lifecycle.FAILED_PRECONDITION, detail)
	}
}
