package runloop

import (
	"context"
	"sync/atomic"
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

// TestRunDrivesFullLifecycle exercises the entire CREATING -> APPLYING ->
// RUNNING -> COOLINGDOWN -> IDLE -> DESTROYING path end to end using the
// engine's own mocks, covering the happy path (S1) and bounded iterations
// (S5) of spec §8 in one pass: a cloud-delivered document moves the engine
// into RUNNING with a bounded iteration count, the worker drains back to
// IDLE on completion, and a cloud SHOULDEXIT moves the engine to
// DESTROYING where Run returns. RUNNING lasts only as long as the two
// iterations, so entry into it is observed through the onStart hook.
func TestRunDrivesFullLifecycle(t *testing.T) {
	var startCalls atomic.Int32
	mockTransport := transport.NewMock()
	ectx := engine.New(engine.Deps{
		Driver:     sensor.NewMockDriver(),
		Transport:  mockTransport,
		Dispatcher: export.NewInMemoryDispatcher(0, 0),
		Callbacks: callback.Set{
			OnStart: func(ctx context.Context) error { startCalls.Add(1); return nil },
		},
		StreamKey: "test",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		Run(ctx, ectx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return ectx.CurrentState() == lifecycle.Idle
	}, time.Second, time.Millisecond)

	mockTransport.Deliver("config", []byte(
		`{"req_info":{"req_id":"r1"},"common_settings":{"process_state":2,"inference_settings":{"number_of_iterations":2}}}`))

	assert.Eventually(t, func() bool {
		return startCalls.Load() == 1
	}, time.Second, time.Millisecond)

	// Bounded iterations drain the worker back through COOLINGDOWN to IDLE.
	assert.Eventually(t, func() bool {
		return ectx.CurrentState() == lifecycle.Idle
	}, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, ectx.IterationCount(), int64(2))

	mockTransport.RequestExit()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run loop did not reach DESTROYING and return")
	}

	assert.Equal(t, lifecycle.Destroying, ectx.CurrentState())
	assert.Greater(t, mockTransport.StateCount(), 0)
}
