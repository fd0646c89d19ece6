// Package sensor defines the boundary the image-sensor driver exposes to
// the engine: opaque core/stream handles, typed property access, and
// frame iteration. The real driver lives outside this module (spec §1);
// this package only types the contract and ships an in-process mock used
// by the engine's own tests, mirroring original_source/libs/tests/mocks.
package sensor

import (
	"context"
	"errors"
	"time"
)

// Handle is an opaque driver-issued identifier. Zero is never a valid
// handle.
type Handle uint64

// ErrorCause is the sensor driver's own closed error taxonomy, queried via
// LastError and mapped onto lifecycle.ResultCode by the sensor-backed
// property leaves (spec §7.1).
type ErrorCause int

const (
	CauseNone ErrorCause = iota
	CauseOutOfRange
	CauseInvalidCameraOperationParameter
	CauseTimeout
	CauseOther
)

// ErrTimeout is returned by GetFrame when no frame arrived within the
// requested deadline. It is not a driver fault (spec §7.1: "non-fatal").
var ErrTimeout = errors.New("sensor: frame wait timed out")

// PropertyKey names a settable/gettable sensor stream property. The
// concrete key space (crop, exposure, white balance, channel mask, ...) is
// owned by the pq_settings / port_settings DTDL nodes; this package only
// needs an opaque comparable key.
type PropertyKey string

// Driver is the sensor-core boundary: acquire/release of the core handle
// and the nested stream handle.
type Driver interface {
	// Init acquires the sensor core. Called once, at Applying entry.
	Init(ctx context.Context) (Handle, error)
	// Close releases the sensor core. Called once, at Destroying exit.
	Close(ctx context.Context, core Handle) error
	// OpenStream opens a stream nested inside core, keyed by a
	// driver-specific stream identifier.
	OpenStream(ctx context.Context, core Handle, streamKey string) (Handle, error)
	// CloseStream closes a previously opened stream.
	CloseStream(ctx context.Context, stream Handle) error
	// GetProperty reads the current value of a stream property.
	GetProperty(ctx context.Context, stream Handle, key PropertyKey) (any, error)
	// SetProperty writes a stream property. Implementations must be safe
	// to call concurrently with GetFrame on the same stream (spec §5).
	SetProperty(ctx context.Context, stream Handle, key PropertyKey, value any) error
	// LastError returns the cause of the most recent driver-side failure,
	// used to map a sensor error onto a lifecycle.ResultCode.
	LastError(ctx context.Context) (ErrorCause, string)
	// GetFrame blocks up to timeout for the next frame on stream.
	GetFrame(ctx context.Context, stream Handle, timeout time.Duration) (*Frame, error)
	// ReleaseFrame releases a frame obtained via GetFrame. Every frame
	// obtained must be released exactly once (I2).
	ReleaseFrame(ctx context.Context, frame *Frame) error
}
