package transport

import (
	"context"
	"sync"
)

// Mock is an in-process transport used throughout the engine's test
// suite. Tests drive it by calling Deliver (simulating a cloud-pushed
// configuration document) and RequestExit (simulating SHOULDEXIT), and
// assert against the SentStates/SentTelemetry logs it accumulates.
type Mock struct {
	mu sync.Mutex

	cb ConfigurationCallback

	pendingEvents []error // queued ProcessEvent results; nil entries mean "no event, return nil"
	exitRequested bool

	SentStates    [][]byte
	SentTelemetry [][]TelemetryEntry
	Blobs         map[string][]byte
}

// NewMock constructs a ready-to-use in-process mock transport.
func NewMock() *Mock {
	return &Mock{Blobs: make(map[string][]byte)}
}

func (m *Mock) Initialize(ctx context.Context) error { return nil }

func (m *Mock) SetConfigurationCallback(cb ConfigurationCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cb = cb
}

// Deliver simulates the cloud pushing a configuration document on topic,
// invoking the registered callback synchronously (the real transport
// would do so from its own thread; tests don't need that distinction).
func (m *Mock) Deliver(topic string, value []byte) {
	m.mu.Lock()
	cb := m.cb
	m.mu.Unlock()
	if cb != nil {
		cb(topic, value)
	}
}

// RequestExit makes every ProcessEvent call from then on return
// ErrShouldExit, simulating a cloud-initiated graceful shutdown.
func (m *Mock) RequestExit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exitRequested = true
}

func (m *Mock) ProcessEvent(ctx context.Context, timeoutMs int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.exitRequested {
		return ErrShouldExit
	}
	if len(m.pendingEvents) > 0 {
		err := m.pendingEvents[0]
		m.pendingEvents = m.pendingEvents[1:]
		return err
	}
	return nil
}

func (m *Mock) SendState(ctx context.Context, topic string, payload []byte, cb SendCallback) error {
	m.mu.Lock()
	cp := append([]byte(nil), payload...)
	m.SentStates = append(m.SentStates, cp)
	m.mu.Unlock()
	if cb != nil {
		cb(nil)
	}
	return nil
}

func (m *Mock) BlobOperation(ctx context.Context, op BlobOp, urlPath string, payload []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch op {
	case BlobPut:
		m.Blobs[urlPath] = append([]byte(nil), payload...)
		return nil, nil
	default:
		return m.Blobs[urlPath], nil
	}
}

func (m *Mock) SendTelemetry(ctx context.Context, entries []TelemetryEntry, cb SendCallback) error {
	m.mu.Lock()
	m.SentTelemetry = append(m.SentTelemetry, entries)
	m.mu.Unlock()
	if cb != nil {
		cb(nil)
	}
	return nil
}

func (m *Mock) Close(ctx context.Context) error { return nil }

// LastState returns the most recently sent state document, or nil if none
// has been sent yet.
func (m *Mock) LastState() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SentStates) == 0 {
		return nil
	}
	return m.SentStates[len(m.SentStates)-1]
}

// StateCount returns how many times SendState has been called, used by
// tests checking that state reports were emitted.
func (m *Mock) StateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentStates)
}
