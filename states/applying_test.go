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

func newApplyingFixture(callbacks callback.Set) *engine.Context {
	ectx := engine.New(engine.Deps{
		Driver:     sensor.NewMockDriver(),
		Transport:  transport.NewMock(),
		Dispatcher: export.NewInMemoryDispatcher(0, 0),
		Callbacks:  callbacks,
		StreamKey:  "test",
	})
	ectx.SetCurrentState(lifecycle.Applying)
	ectx.SetNext(lifecycle.Applying)
	return ectx
}

// TestApplyingLazyInitRunsOnce covers spec §4.2.2's module-scoped
// initialization: constructing and iterating Applying twice across the
// engine's lifetime must only call onCreate once.
func TestApplyingLazyInitRunsOnce(t *testing.T) {
	createCalls := 0
	ectx := newApplyingFixture(callback.Set{
		OnCreate: func(ctx context.Context) error { createCalls++; return nil },
	})

	a1 := NewApplying(context.Background(), ectx)
	a1.Iterate(context.Background())
	assert.Equal(t, 1, createCalls)
	assert.True(t, ectx.ApplyingInitialized())

	// Re-entering APPLYING later in the engine's lifetime must not redo
	// the lazy sequence.
	a2 := NewApplying(context.Background(), ectx)
	a2.Iterate(context.Background())
	assert.Equal(t, 1, createCalls)
}

// TestApplyingRestoresIdleOnVerifyFailure covers spec §4.2.2: a document
// that fails verify forces next=IDLE regardless of its requested
// process_state.
func TestApplyingRestoresIdleOnVerifyFailure(t *testing.T) {
	ectx := newApplyingFixture(callback.Set{})
	ectx.SetPendingConfig([]byte(`{"common_settings":{"process_state":99}}`))

	a := NewApplying(context.Background(), ectx)
	a.Iterate(context.Background())

	assert.Equal(t, lifecycle.Idle, ectx.NextState())
}

// TestApplyingTargetsRunningOnValidDocument covers the success path: a
// document requesting process_state RUNNING restores next=RUNNING.
func TestApplyingTargetsRunningOnValidDocument(t *testing.T) {
	ectx := newApplyingFixture(callback.Set{})
	ectx.SetPendingConfig([]byte(`{"req_info":{"req_id":"r1"},"common_settings":{"process_state":2}}`))

	a := NewApplying(context.Background(), ectx)
	a.Iterate(context.Background())

	assert.Equal(t, lifecycle.Running, ectx.NextState())
}

// TestApplyingUnwindsToDestroyingOnSensorInitFailure covers the first
// unwind path of the lazy sequence (spec §4.2.2).
func TestApplyingUnwindsToDestroyingOnSensorInitFailure(t *testing.T) {
	drv := sensor.NewMockDriver()
	drv.FailInit = true
	ectx := engine.New(engine.Deps{
		Driver:     drv,
		Transport:  transport.NewMock(),
		Dispatcher: export.NewInMemoryDispatcher(0, 0),
		Callbacks:  callback.Set{},
		StreamKey:  "test",
	})
	ectx.SetCurrentState(lifecycle.Applying)
	ectx.SetNext(lifecycle.Applying)

	a := NewApplying(context.Background(), ectx)
	a.Iterate(context.Background())

	assert.Equal(t, lifecycle.Destroying, ectx.NextState())
	assert.Equal(t, lifecycle.FAILED_PRECONDITION, ectx.Model.ResInfo().Code())
}

// TestApplyingUnwindsToIdleOnCreateFailure covers the onCreate failure
// unwind path (spec §4.2.2): core and stream acquired earlier in the
// sequence are released before falling back to IDLE.
func TestApplyingUnwindsToIdleOnCreateFailure(t *testing.T) {
	ectx := newApplyingFixture(callback.Set{
		OnCreate: func(ctx context.Context) error { return &callback.Failure{Code: -7} },
	})

	a := NewApplying(context.Background(), ectx)
	a.Iterate(context.Background())

	assert.Equal(t, lifecycle.Idle, ectx.NextState())
	assert.Contains(t, ectx.Model.ResInfo().Detail(), "res=-7")
	_, haveCore := ectx.Core()
	assert.False(t, haveCore)
}
