package worker

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edgecore/wedge/callback"
	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/export"
	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/sensor"
	"github.com/edgecore/wedge/transport"
)

func newWorkerFixture(t *testing.T, callbacks callback.Set, iterations int) *engine.Context {
	t.Helper()
	ectx := engine.New(engine.Deps{
		Driver:     sensor.NewMockDriver(),
		Transport:  transport.NewMock(),
		Dispatcher: export.NewInMemoryDispatcher(0, 0),
		Callbacks:  callbacks,
		StreamKey:  "test",
	})
	ectx.SetCurrentState(lifecycle.Running)
	ectx.SetNext(lifecycle.Running)
	if iterations > 0 {
		verifyFailed, err := ectx.Model.Update(context.Background(), []byte(
			`{"req_info":{"req_id":"r1"},"common_settings":{"inference_settings":{"number_of_iterations":`+
				strconv.Itoa(iterations)+`}}}`))
		if verifyFailed || err != nil {
			t.Fatalf("fixture config rejected: verifyFailed=%v err=%v", verifyFailed, err)
		}
	}
	return ectx
}

// TestWorkerCompletesBoundedIterationsAndSignalsCoolingDown covers spec
// §4.5: a bounded number_of_iterations completes and requests
// COOLINGDOWN.
func TestWorkerCompletesBoundedIterationsAndSignalsCoolingDown(t *testing.T) {
	ectx := newWorkerFixture(t, callback.Set{}, 3)

	w := New(ectx)
	w.StartThread(context.Background())

	assert.Eventually(t, func() bool {
		return ectx.NextState() == lifecycle.CoolingDown
	}, time.Second, time.Millisecond)
}

// TestWorkerStopsOnIterateFailure covers the onIterate-error path: the
// worker reports the failure and requests IDLE.
func TestWorkerStopsOnIterateFailure(t *testing.T) {
	ectx := newWorkerFixture(t, callback.Set{
		OnIterate: func(ctx context.Context, io callback.IO) error {
			return &callback.Failure{Code: -3}
		},
	}, 0)

	w := New(ectx)
	w.StartThread(context.Background())

	assert.Eventually(t, func() bool {
		return ectx.NextState() == lifecycle.Idle
	}, time.Second, time.Millisecond)
	assert.Contains(t, ectx.Model.ResInfo().Detail(), "res=-3")
}

// TestWorkerStopThreadJoinsWhilePumpingTransport covers P7: StopThread
// must join a long-running (unbounded) worker within its timeout,
// pumping transport events while it waits.
func TestWorkerStopThreadJoinsWhilePumpingTransport(t *testing.T) {
	ectx := newWorkerFixture(t, callback.Set{}, 0)

	w := New(ectx)
	w.StartThread(context.Background())

	done := make(chan struct{})
	go func() {
		w.StopThread(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("StopThread did not join within a reasonable bound")
	}
}
