package states

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgecore/wedge/callback"
	"github.com/edgecore/wedge/engine"
	"github.com/edgecore/wedge/export"
	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/sensor"
	"github.com/edgecore/wedge/transport"
)

// failingDispatcher forces export.Dispatcher.Init to fail, exercising
// Creating's unwind-to-DESTROYING path (spec §4.2.1).
type failingDispatcher struct{ *export.InMemoryDispatcher }

func (f *failingDispatcher) Init(ctx context.Context) error {
	return errors.New("dispatcher: forced init failure")
}

func TestCreatingAdvancesToIdleOnSuccess(t *testing.T) {
	ectx := engine.New(engine.Deps{
		Driver:     sensor.NewMockDriver(),
		Transport:  transport.NewMock(),
		Dispatcher: export.NewInMemoryDispatcher(0, 0),
		Callbacks:  callback.Set{},
		StreamKey:  "test",
	})
	ectx.SetCurrentState(lifecycle.Creating)
	ectx.SetNext(lifecycle.Creating)

	c := NewCreating(context.Background(), ectx)
	result := c.Iterate(context.Background())

	assert.Equal(t, Ok, result)
	assert.Equal(t, lifecycle.Idle, ectx.NextState())
}

func TestCreatingFallsBackToDestroyingOnDispatcherInitFailure(t *testing.T) {
	ectx := engine.New(engine.Deps{
		Driver:     sensor.NewMockDriver(),
		Transport:  transport.NewMock(),
		Dispatcher: &failingDispatcher{export.NewInMemoryDispatcher(0, 0)},
		Callbacks:  callback.Set{},
		StreamKey:  "test",
	})
	ectx.SetCurrentState(lifecycle.Creating)
	ectx.SetNext(lifecycle.Creating)

	c := NewCreating(context.Background(), ectx)
	result := c.Iterate(context.Background())

	assert.Equal(t, Ok, result)
	assert.Equal(t, lifecycle.Destroying, ectx.NextState())
	assert.Equal(t, lifecycle.FAILED_PRECONDITION, ectx.Model.ResInfo().Code())
}
