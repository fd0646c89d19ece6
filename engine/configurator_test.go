package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgecore/wedge/callback"
	"github.com/edgecore/wedge/export"
	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/sensor"
	"github.com/edgecore/wedge/transport"
)

func newTestContext() *Context {
	return New(Deps{
		Driver:     sensor.NewMockDriver(),
		Transport:  transport.NewMock(),
		Dispatcher: export.NewInMemoryDispatcher(0, 0),
		Callbacks:  callback.Set{},
		StreamKey:  "test",
	})
}

// TestUpdateProcessStateRejectsInfeasible covers P1/S6: a transition the
// feasibility table disallows is rejected without mutating next.
func TestUpdateProcessStateRejectsInfeasible(t *testing.T) {
	ctx := newTestContext()
	ctx.SetCurrentState(lifecycle.Destroying)
	ctx.SetNext(lifecycle.Destroying)

	ok := NewConfigurator(ctx).UpdateProcessState(lifecycle.Applying)
	assert.False(t, ok)
	assert.Equal(t, lifecycle.Destroying, ctx.NextState())
}

func TestUpdateProcessStateAcceptsFeasible(t *testing.T) {
	ctx := newTestContext()
	ctx.SetCurrentState(lifecycle.Idle)
	ctx.SetNext(lifecycle.Idle)

	ok := NewConfigurator(ctx).UpdateProcessState(lifecycle.Applying)
	assert.True(t, ok)
	assert.Equal(t, lifecycle.Applying, ctx.NextState())
	assert.True(t, ctx.TakeNotification())
}

// TestUpdateProcessStateNoOpWhenAlreadyPending covers the no-mutation,
// no-notification no-op path.
func TestUpdateProcessStateNoOpWhenAlreadyPending(t *testing.T) {
	ctx := newTestContext()
	ctx.SetCurrentState(lifecycle.Idle)
	ctx.SetNext(lifecycle.Applying)
	ctx.TakeNotification()

	ok := NewConfigurator(ctx).UpdateProcessState(lifecycle.Applying)
	assert.True(t, ok)
	assert.False(t, ctx.TakeNotification())
}

// TestHandleConfigurationRejectsMalformedEnvelope covers spec §4.4 step 1:
// a document missing req_info.req_id never reaches the pending-config slot
// or requests a transition.
func TestHandleConfigurationRejectsMalformedEnvelope(t *testing.T) {
	ctx := newTestContext()
	ctx.SetCurrentState(lifecycle.Idle)
	ctx.SetNext(lifecycle.Idle)

	ctx.HandleConfiguration("config", []byte(`{"common_settings":{}}`))

	assert.Nil(t, ctx.TakePendingConfig())
	assert.Equal(t, lifecycle.Idle, ctx.NextState())
}

// TestHandleConfigurationStagesAndRequestsApplying covers the happy path
// of C7, and P3's "latest document wins" coalescing when two documents
// arrive before Applying consumes either.
func TestHandleConfigurationStagesAndRequestsApplying(t *testing.T) {
	ctx := newTestContext()
	ctx.SetCurrentState(lifecycle.Idle)
	ctx.SetNext(lifecycle.Idle)

	ctx.HandleConfiguration("config", []byte(`{"req_info":{"req_id":"first"}}`))
	ctx.HandleConfiguration("config", []byte(`{"req_info":{"req_id":"second"}}`))

	assert.Equal(t, lifecycle.Applying, ctx.NextState())
	doc := ctx.TakePendingConfig()
	if assert.NotNil(t, doc) {
		assert.Contains(t, string(doc), "second")
		assert.NotContains(t, string(doc), "first")
	}
}
