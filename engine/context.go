// Package engine implements the state-machine context (C4), the
// configurator (C6), the configuration callback (C7), and the
// sensor/export façade (C9) — the process-wide collaborators every
// lifecycle state (package states) and the worker thread (package
// worker) are built around.
package engine

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/edgecore/wedge/callback"
	"github.com/edgecore/wedge/dtdl"
	"github.com/edgecore/wedge/export"
	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/sensor"
	"github.com/edgecore/wedge/transport"
)

// WorkerHandle is the subset of worker.Worker the context needs to hold
// without importing package worker (which itself imports engine for
// *Context — holding the concrete type here would be a cycle).
type WorkerHandle interface {
	StopThread(ctx context.Context)
}

// Deps bundles the engine's external collaborators, supplied once at
// startup (spec §9: "a single owning handle created at main").
type Deps struct {
	Driver     sensor.Driver
	Transport  transport.Client
	Dispatcher export.Dispatcher
	Callbacks  callback.Set
	Logger     *logrus.Logger
	StreamKey  string
}

// Context is the process-wide singleton (C4): current/next lifecycle
// state, sensor core/stream handles, the pending-configuration buffer,
// the DTDL model, the pending-notification flag, and the transport
// client.
type Context struct {
	mu sync.Mutex

	currentKind lifecycle.State
	next        lifecycle.State

	core       sensor.Handle
	haveCore   bool
	stream     sensor.Handle
	haveStream bool

	pendingConfig []byte
	notify        bool

	applyingInitialized bool
	iterationCount      int64

	worker WorkerHandle

	Driver     sensor.Driver
	Transport  transport.Client
	Dispatcher export.Dispatcher
	Callbacks  callback.Set
	Logger     *logrus.Logger
	StreamKey  string

	Model *dtdl.Model
}

// New constructs a fresh Context wired to deps, current state CREATING
// (spec §3.1: the machine always starts there).
func New(deps Deps) *Context {
	c := &Context{
		Driver:     deps.Driver,
		Transport:  deps.Transport,
		Dispatcher: deps.Dispatcher,
		Callbacks:  deps.Callbacks,
		Logger:     deps.Logger,
		StreamKey:  deps.StreamKey,
		next:       lifecycle.Creating,
	}
	c.Model = dtdl.New(dtdl.Deps{
		Stream:      c.StreamAccessor,
		Notify:      c.MarkNotification,
		OnConfigure: c.callbackOnConfigure,
		OnLogLevel:  c.callbackOnLogLevel,
	})
	return c
}

func (c *Context) callbackOnConfigure(ctx context.Context, value []byte) error {
	if c.Callbacks.OnConfigure == nil {
		return nil
	}
	return c.Callbacks.OnConfigure(ctx, "custom_settings", value)
}

func (c *Context) callbackOnLogLevel(ctx context.Context, level int64) error {
	if c.Logger != nil {
		c.Logger.SetLevel(logLevelFromDTDL(level))
	}
	return nil
}

func logLevelFromDTDL(level int64) logrus.Level {
	switch level {
	case 0:
		return logrus.FatalLevel
	case 1:
		return logrus.ErrorLevel
	case 2:
		return logrus.WarnLevel
	case 3:
		return logrus.InfoLevel
	case 4:
		return logrus.DebugLevel
	case 5:
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

// CurrentState reports the currently-occupied lifecycle state (I1).
func (c *Context) CurrentState() lifecycle.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentKind
}

// NextState reports the pending target state (I1: next == current or one
// transition ahead).
func (c *Context) NextState() lifecycle.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// SetCurrentState records which lifecycle state now occupies "current",
// after the run loop (C5) has constructed and swapped in its state
// object. The object itself lives in the run loop's own local variable,
// not in the context, so engine never needs to import package states.
func (c *Context) SetCurrentState(s lifecycle.State) {
	c.mu.Lock()
	c.currentKind = s
	c.mu.Unlock()
}

// SetNext sets the next state directly, bypassing the feasibility table
// (spec §4.2: internal state-driven transitions, e.g. Creating -> Idle,
// are not gated the way externally-requested ones are — see
// Configurator.UpdateProcessState for the gated path, C6).
func (c *Context) SetNext(s lifecycle.State) {
	c.mu.Lock()
	c.next = s
	c.mu.Unlock()
}

// MarkNotification flags that the current DTDL document should be pushed
// to the transport on the next run-loop turn (P8).
func (c *Context) MarkNotification() {
	c.mu.Lock()
	c.notify = true
	c.mu.Unlock()
}

// TakeNotification reads and clears the pending-notification flag.
func (c *Context) TakeNotification() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.notify
	c.notify = false
	return v
}

// SetPendingConfig deep-copies value into the pending-configuration slot,
// releasing any previous value (spec §4.4 step 2; I3).
func (c *Context) SetPendingConfig(value []byte) {
	cp := append([]byte(nil), value...)
	c.mu.Lock()
	c.pendingConfig = cp
	c.mu.Unlock()
}

// TakePendingConfig reads and clears the pending-configuration buffer. A
// nil return means no configuration was staged.
func (c *Context) TakePendingConfig() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.pendingConfig
	c.pendingConfig = nil
	return v
}

// SetCore/ClearCore/HasCore and SetStream/ClearStream/HasStream track the
// sensor handles' strict ownership scope (spec §3.1): core acquired at
// Applying entry, released at Destroying exit; stream nested inside core.
func (c *Context) SetCore(h sensor.Handle) {
	c.mu.Lock()
	c.core, c.haveCore = h, true
	c.mu.Unlock()
}

func (c *Context) ClearCore() {
	c.mu.Lock()
	c.haveCore = false
	c.mu.Unlock()
}

func (c *Context) Core() (sensor.Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.core, c.haveCore
}

func (c *Context) SetStream(h sensor.Handle) {
	c.mu.Lock()
	c.stream, c.haveStream = h, true
	c.mu.Unlock()
}

func (c *Context) ClearStream() {
	c.mu.Lock()
	c.haveStream = false
	c.mu.Unlock()
}

func (c *Context) Stream() (sensor.Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream, c.haveStream
}

// StreamAccessor implements property.StreamAccessor: sensor-backed leaf
// nodes use it to reach the currently-open stream without the property
// package holding engine lifetime concerns.
func (c *Context) StreamAccessor() (sensor.Driver, sensor.Handle, bool) {
	stream, ok := c.Stream()
	if !ok {
		return nil, 0, false
	}
	return c.Driver, stream, true
}

// ApplyingInitialized reports whether Applying's lazy entry sequence
// (sensor_core_init, open_stream, initializeValues, onCreate) has ever
// run. This flag is module-scoped (spec §4.2.2), not per-Applying-object:
// the sequence runs exactly once across the engine's whole lifetime, even
// though the engine may revisit APPLYING many times as configuration
// documents arrive.
func (c *Context) ApplyingInitialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyingInitialized
}

// MarkApplyingInitialized records that Applying's lazy entry sequence has
// run (successfully or not; a failed attempt is never retried). After an
// onCreate failure the engine falls back to IDLE, and later visits to
// APPLYING run without a sensor core or stream.
func (c *Context) MarkApplyingInitialized() {
	c.mu.Lock()
	c.applyingInitialized = true
	c.mu.Unlock()
}

// IncrementIterationCount records that the worker completed one onIterate
// call, for the telemetry heartbeat's iteration counter.
func (c *Context) IncrementIterationCount() {
	c.mu.Lock()
	c.iterationCount++
	c.mu.Unlock()
}

// IterationCount reports the number of onIterate calls completed since the
// engine started (not reset across RUNNING entries).
func (c *Context) IterationCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.iterationCount
}

// SetWorker/Worker/ClearWorker let states.Running stash the spawned
// worker for its own Close (destructor) to stop later.
func (c *Context) SetWorker(w WorkerHandle) {
	c.mu.Lock()
	c.worker = w
	c.mu.Unlock()
}

func (c *Context) Worker() WorkerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worker
}

func (c *Context) ClearWorker() {
	c.mu.Lock()
	c.worker = nil
	c.mu.Unlock()
}

// ParseConfigurationEnvelope validates a raw delivered document per spec
// §4.4 step 1: must parse as a JSON object and carry a non-empty
// req_info.req_id.
func ParseConfigurationEnvelope(value []byte) (reqID string, ok bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(value, &probe); err != nil {
		return "", false
	}
	reqInfoRaw, present := probe["req_info"]
	if !present {
		return "", false
	}
	var reqInfo struct {
		ReqID string `json:"req_id"`
	}
	if err := json.Unmarshal(reqInfoRaw, &reqInfo); err != nil || reqInfo.ReqID == "" {
		return "", false
	}
	return reqInfo.ReqID, true
}
