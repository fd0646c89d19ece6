package sensor

import (
	"context"
	"sync"
	"time"
)

// MockDriver is an in-process stand-in for the real sensor driver, used by
// the engine's own test suite the way original_source/libs/tests/mocks'
// mock_sensor.hpp backs the C++ unit tests. It is not a production driver.
type MockDriver struct {
	mu         sync.Mutex
	nextHandle Handle
	props      map[Handle]map[PropertyKey]any
	streams    map[Handle]Handle // stream -> core
	lastCause  ErrorCause
	lastMsg    string

	// FrameFunc, when set, is called by GetFrame to synthesize a frame.
	// Tests use this to drive specific channel/subframe scenarios.
	FrameFunc func(stream Handle) (*Frame, error)

	// FailInit, FailOpenStream force every corresponding call to fail for
	// as long as they stay set.
	FailInit       bool
	FailOpenStream bool

	// RejectProperty, when non-nil, is consulted by SetProperty; returning
	// an error simulates a driver-side rejection (e.g. OUT_OF_RANGE).
	RejectProperty func(key PropertyKey, value any) error
}

// NewMockDriver constructs a ready-to-use mock sensor driver.
func NewMockDriver() *MockDriver {
	return &MockDriver{
		nextHandle: 1,
		props:      make(map[Handle]map[PropertyKey]any),
		streams:    make(map[Handle]Handle),
	}
}

func (m *MockDriver) alloc() Handle {
	m.nextHandle++
	return m.nextHandle
}

func (m *MockDriver) Init(ctx context.Context) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInit {
		m.lastCause, m.lastMsg = CauseOther, "mock: forced init failure"
		return 0, m.errLocked()
	}
	h := m.alloc()
	m.props[h] = make(map[PropertyKey]any)
	return h, nil
}

func (m *MockDriver) Close(ctx context.Context, core Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.props, core)
	return nil
}

func (m *MockDriver) OpenStream(ctx context.Context, core Handle, streamKey string) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailOpenStream {
		m.lastCause, m.lastMsg = CauseOther, "mock: forced open-stream failure"
		return 0, m.errLocked()
	}
	h := m.alloc()
	m.streams[h] = core
	m.props[h] = make(map[PropertyKey]any)
	return h, nil
}

func (m *MockDriver) CloseStream(ctx context.Context, stream Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.streams, stream)
	delete(m.props, stream)
	return nil
}

func (m *MockDriver) GetProperty(ctx context.Context, stream Handle, key PropertyKey) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.props[stream]; ok {
		return p[key], nil
	}
	return nil, nil
}

func (m *MockDriver) SetProperty(ctx context.Context, stream Handle, key PropertyKey, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RejectProperty != nil {
		if err := m.RejectProperty(key, value); err != nil {
			m.lastCause, m.lastMsg = CauseInvalidCameraOperationParameter, err.Error()
			return err
		}
	}
	if m.props[stream] == nil {
		m.props[stream] = make(map[PropertyKey]any)
	}
	m.props[stream][key] = value
	return nil
}

func (m *MockDriver) LastError(ctx context.Context) (ErrorCause, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCause, m.lastMsg
}

func (m *MockDriver) errLocked() error {
	return &driverError{cause: m.lastCause, msg: m.lastMsg}
}

func (m *MockDriver) GetFrame(ctx context.Context, stream Handle, timeout time.Duration) (*Frame, error) {
	m.mu.Lock()
	fn := m.FrameFunc
	m.mu.Unlock()
	if fn == nil {
		return nil, ErrTimeout
	}
	return fn(stream)
}

func (m *MockDriver) ReleaseFrame(ctx context.Context, frame *Frame) error {
	return nil
}

type driverError struct {
	cause ErrorCause
	msg   string
}

func (e *driverError) Error() string { return e.msg }
