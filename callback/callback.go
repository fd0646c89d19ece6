// Package callback types the user-supplied lifecycle hooks (spec §6.1).
// Sample applications and data-processor plugins that implement these are
// out of scope (spec §1); the engine only needs the shape of the contract
// and a default no-op/testing implementation.
package callback

import (
	"context"
	"fmt"
)

// Failure lets a user callback report the non-zero integer return code the
// original C ABI used (spec §6.1: "each returns a signed integer... 0 =
// success, non-zero = failure"), so the engine can render messages like
// "onStart call gave error res=-1" (spec §8, S4). Any other error value is
// treated as an unspecified failure (res=-1).
type Failure struct {
	Code int
}

func (f *Failure) Error() string { return fmt.Sprintf("callback returned %d", f.Code) }

// ResultCode extracts the integer return code from err, defaulting to -1
// for callbacks that returned a plain error instead of *Failure.
func ResultCode(err error) int {
	if f, ok := err.(*Failure); ok {
		return f.Code
	}
	return -1
}

// IO is the façade C9 hands to OnIterate: a way to pull the next frame's
// enabled channel payloads and push them to export. Kept as an interface
// here (rather than importing the sensor/export packages directly) so
// user code can be written against callback without pulling in the
// engine's internal wiring; the concrete implementation lives in
// engine.Facade.
type IO interface {
	// InputTensorEnabled/MetadataEnabled report which export paths are
	// currently active (port_settings, spec §4.1).
	InputTensorEnabled() bool
	MetadataEnabled() bool
	// SendInputTensor and SendMetadata pull one frame's worth of data for
	// the named channel and dispatch it to export. A return of (false,
	// nil) means "no data this iteration" (disabled channel, timeout, or
	// a skipped subframe) and is not an error.
	SendInputTensor(ctx context.Context) (bool, error)
	SendMetadata(ctx context.Context) (bool, error)
}

// Set bundles the five lifecycle hooks plus OnConfigure. A nil field is
// treated as an immediately-successful no-op.
type Set struct {
	OnCreate    func(ctx context.Context) error
	OnStart     func(ctx context.Context) error
	OnIterate   func(ctx context.Context, io IO) error
	OnStop      func(ctx context.Context) error
	OnDestroy   func(ctx context.Context) error
	OnConfigure func(ctx context.Context, topic string, value []byte) error
}

func (s Set) callCreate(ctx context.Context) error {
	if s.OnCreate == nil {
		return nil
	}
	return s.OnCreate(ctx)
}

func (s Set) callStart(ctx context.Context) error {
	if s.OnStart == nil {
		return nil
	}
	return s.OnStart(ctx)
}

func (s Set) callIterate(ctx context.Context, io IO) error {
	if s.OnIterate == nil {
		return nil
	}
	return s.OnIterate(ctx, io)
}

func (s Set) callStop(ctx context.Context) error {
	if s.OnStop == nil {
		return nil
	}
	return s.OnStop(ctx)
}

func (s Set) callDestroy(ctx context.Context) error {
	if s.OnDestroy == nil {
		return nil
	}
	return s.OnDestroy(ctx)
}

// Call dispatches to the named hook, treating a nil function as success.
// Exported as methods below rather than a switch so call sites read like
// the C++ source's direct onX() calls.
func (s Set) CallCreate(ctx context.Context) error  { return s.callCreate(ctx) }
func (s Set) CallStart(ctx context.Context) error   { return s.callStart(ctx) }
func (s Set) CallStop(ctx context.Context) error    { return s.callStop(ctx) }
func (s Set) CallDestroy(ctx context.Context) error { return s.callDestroy(ctx) }
func (s Set) CallIterate(ctx context.Context, io IO) error {
	return s.callIterate(ctx, io)
}
