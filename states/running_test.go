package states

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgecore/wedge/callback"
	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/export"
	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/sensor"
	"github.com/edgecore/wedge/transport"
)

func newRunningFixture(callbacks callback.Set) *engine.Context {
	ectx := engine.New(engine.Deps{
		Driver:     sensor.NewMockDriver(),
		Transport:  transport.NewMock(),
		Dispatcher: export.NewInMemoryDispatcher(0, 0),
		Callbacks:  callbacks,
		StreamKey:  "test",
	})
	ectx.SetCurrentState(lifecycle.Running)
	ectx.SetNext(lifecycle.Running)
	return ectx
}

// TestRunningOnStartFailureFallsBackToIdle covers spec §8 scenario S4:
// onStart failure reports "onStart call gave error res=-1" and falls back
// to IDLE without spawning a worker.
func TestRunningOnStartFailureFallsBackToIdle(t *testing.T) {
	ectx := newRunningFixture(callback.Set{
		OnStart: func(ctx context.Context) error { return &callback.Failure{Code: -1} },
	})

	NewRunning(context.Background(), ectx)

	assert.Equal(t, lifecycle.Idle, ectx.NextState())
	assert.Equal(t, "onStart call gave error res=-1", ectx.Model.ResInfo().Detail())
	assert.Nil(t, ectx.Worker())
}

// TestRunningOnStartSuccessSpawnsWorker covers the happy path: the worker
// is started and tracked on the context for Close to stop later.
func TestRunningOnStartSuccessSpawnsWorker(t *testing.T) {
	ectx := newRunningFixture(callback.Set{})

	r := NewRunning(context.Background(), ectx)
	assert.NotNil(t, ectx.Worker())

	r.Close(context.Background())
	assert.Nil(t, ectx.Worker())
}

// TestRunningCloseSkipsReportWhenAlreadyFailedOnStart ensures a failing
// onStop doesn't overwrite res_info if the state never really started
// (spec §4.2.4).
func TestRunningCloseSkipsReportWhenAlreadyFailedOnStart(t *testing.T) {
	ectx := newRunningFixture(callback.Set{
		OnStart: func(ctx context.Context) error { return &callback.Failure{Code: -1} },
		OnStop:  func(ctx context.Context) error { return &callback.Failure{Code: -2} },
	})

	r := NewRunning(context.Background(), ectx)
	r.Close(context.Background())

	assert.Equal(t, "onStart call gave error res=-1", ectx.Model.ResInfo().Detail())
}
