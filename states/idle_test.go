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

func TestIdleRequestsDestroyingOnShouldExit(t *testing.T) {
	mockTransport := transport.NewMock()
	mockTransport.RequestExit()

	ectx := engine.New(engine.Deps{
		Driver:     sensor.NewMockDriver(),
		Transport:  mockTransport,
		Dispatcher: export.NewInMemoryDispatcher(0, 0),
		Callbacks:  callback.Set{},
		StreamKey:  "test",
	})
	ectx.SetCurrentState(lifecycle.Idle)
	ectx.SetNext(lifecycle.Idle)

	s := NewIdle(context.Background(), ectx)
	result := s.Iterate(context.Background())

	assert.Equal(t, Ok, result)
	assert.Equal(t, lifecycle.Destroying, ectx.NextState())
}

func TestIdleStaysIdleWithoutShouldExit(t *testing.T) {
	ectx := engine.New(engine.Deps{
		Driver:     sensor.NewMockDriver(),
		Transport:  transport.NewMock(),
		Dispatcher: export.NewInMemoryDispatcher(0, 0),
		Callbacks:  callback.Set{},
		StreamKey:  "test",
	})
	ectx.SetCurrentState(lifecycle.Idle)
	ectx.SetNext(lifecycle.Idle)

	s := NewIdle(context.Background(), ectx)
	s.Iterate(context.Background())

	assert.Equal(t, lifecycle.Idle, ectx.NextState())
}
