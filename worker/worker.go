// Package worker implements the running worker thread (C8): a dedicated
// goroutine that drives onIterate while the engine occupies RUNNING,
// honoring a bounded-iteration setting and signaling COOLINGDOWN when it
// completes (spec §4.5).
package worker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/edgecore/wedge/callback"
	"github.com/edgecore/wedge/dtdl"
	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/lifecycle"
)

// command is the worker's own tiny FSM (spec §3.3): transitions are
// monotonic, EXIT is terminal.
type command int

const (
	uninitialized command = iota
	running
	exit
)

// joinTimeout bounds how long stop_thread waits for the goroutine to
// finish (spec §9: undocumented in the source but load-bearing; preserve
// exactly).
const joinTimeout = 60 * time.Second

// pumpInterval is the transport.ProcessEvent timeout stop_thread uses
// while waiting for the worker to join (spec §4.5).
const pumpInterval = 1000 * time.Millisecond

// Worker is the C8 thread object. Constructed and started by
// states.Running on entry; stopped by states.Running on exit.
type Worker struct {
	mu      sync.Mutex
	cond    *sync.Cond
	cmd     command
	done    chan struct{}
	engine  *engine.Context
	io      callback.IO
	started bool
}

// New constructs a worker bound to ectx, ready to be started.
func New(ectx *engine.Context) *Worker {
	w := &Worker{engine: ectx, io: engine.NewFacade(ectx), done: make(chan struct{})}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// StartThread spawns the worker goroutine and blocks until it has moved
// from UNINITIALIZED to RUNNING (spec §4.5).
func (w *Worker) StartThread(ctx context.Context) {
	go w.run(ctx)

	w.mu.Lock()
	for w.cmd == uninitialized {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

// StopThread atomically requests EXIT and joins with a 60s upper bound,
// pumping transport events while waiting (spec §4.5: the worker may be
// blocked inside a synchronous export serviced by those same events). On
// timeout it returns without joining; the goroutine is left to finish on
// its own.
func (w *Worker) StopThread(ctx context.Context) {
	w.mu.Lock()
	w.cmd = exit
	w.cond.Broadcast()
	w.mu.Unlock()

	deadline := time.Now().Add(joinTimeout)
	for {
		select {
		case <-w.done:
			return
		default:
		}
		if time.Now().After(deadline) {
			return
		}
		if w.engine.Transport != nil {
			_ = w.engine.Transport.ProcessEvent(ctx, int(pumpInterval/time.Millisecond))
		} else {
			time.Sleep(pumpInterval)
		}
	}
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	w.mu.Lock()
	w.cmd = running
	w.started = true
	w.cond.Broadcast()
	w.mu.Unlock()

	bound := dtdl.NumberOfIterations(w.engine.Model.CommonSettings().InferenceSettings())
	count := 0
	for {
		w.mu.Lock()
		cmd := w.cmd
		w.mu.Unlock()
		if cmd == exit {
			return
		}

		if err := w.engine.Callbacks.CallIterate(ctx, w.io); err != nil {
			w.engine.Model.ReportFailure(lifecycle.FAILED_PRECONDITION, onIterateFailureDetail(err))
			w.engine.SetNext(lifecycle.Idle)
			return
		}

		count++
		w.engine.IncrementIterationCount()
		if bound > 0 && count >= bound {
			w.engine.SetNext(lifecycle.CoolingDown)
			return
		}
	}
}

func onIterateFailureDetail(err error) string {
	return "onIterate call gave error res=" + strconv.Itoa(callback.ResultCode(err))
}
