// Package transport defines the event/cloud transport boundary (spec
// §6.2): a client the engine drives from its main loop to pump events,
// push state documents, and exchange blobs/telemetry with the cloud side.
// The production transport is an external collaborator (spec §1); this
// package types the contract and ships a Mock (used by all engine tests)
// and a WebSocketClient (a real, local-dev-oriented implementation).
package transport

import (
	"context"
	"errors"
)

// ErrShouldExit is the SHOULDEXIT sentinel from spec §6.2: ProcessEvent
// returns it to signal a graceful shutdown request from the cloud side.
var ErrShouldExit = errors.New("transport: should exit")

// ConfigurationCallback is invoked by the transport when the cloud
// delivers a new configuration document (spec §4.4, C7). It runs on a
// transport-owned thread and must not perform long work.
type ConfigurationCallback func(topic string, value []byte)

// SendCallback is invoked asynchronously when a SendState/SendTelemetry
// operation completes.
type SendCallback func(err error)

// Client is the engine's view of the cloud transport (spec §6.2).
type Client interface {
	// Initialize creates/connects the transport client.
	Initialize(ctx context.Context) error
	// SetConfigurationCallback registers the callback invoked on
	// configuration delivery (spec §4.4).
	SetConfigurationCallback(cb ConfigurationCallback)
	// ProcessEvent pumps one event batch, blocking up to timeout. Returns
	// ErrShouldExit on a graceful-shutdown request.
	ProcessEvent(ctx context.Context, timeoutMs int) error
	// SendState delivers the current DTDL document under topic.
	SendState(ctx context.Context, topic string, payload []byte, cb SendCallback) error
	// BlobOperation performs an asynchronous blob PUT/GET (e.g. AI model
	// bundle download), identified by op and the given URL path.
	BlobOperation(ctx context.Context, op BlobOp, urlPath string, payload []byte) ([]byte, error)
	// SendTelemetry asynchronously sends a batch of telemetry entries.
	SendTelemetry(ctx context.Context, entries []TelemetryEntry, cb SendCallback) error
	// Close releases the transport client.
	Close(ctx context.Context) error
}

// BlobOp distinguishes a blob PUT from a GET.
type BlobOp int

const (
	BlobPut BlobOp = iota
	BlobGet
)

// TelemetryEntry is one row of an outbound telemetry batch.
type TelemetryEntry struct {
	CorrelationID string
	Key           string
	Value         string
}

// Topic names used by the engine when calling SendState.
const (
	TopicState = "state"
)
