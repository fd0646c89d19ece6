package dtdl

import (
	"context"
	"strconv"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/property"
)

var guardedFields = []string{"pq_settings", "port_settings", "codec_settings", "number_of_inference_per_message"}

// CommonSettings composes process_state, log_level, inference_settings,
// pq_settings, port_settings, codec_settings and
// number_of_inference_per_message (spec §3.1), and enforces the
// state-dependent apply semantics of spec §4.1: while the engine is
// RUNNING, a change to any guarded field is rejected wholesale;
// process_state and log_level are always applied.
type CommonSettings struct {
	*property.Composite

	mu      sync.Mutex
	running bool

	processState *property.ValueNode
	logLevel     *property.ValueNode
	inference    *property.ValueNode
	pq           *property.Composite
	port         *PortSettings
	codec        *property.ValueNode
	numPerMsg    *property.ValueNode

	reportedProcessState lifecycle.ProcessState
}

// NewCommonSettings constructs the common_settings node.
func NewCommonSettings(stream property.StreamAccessor, notify property.NotifyFunc, onLogLevel func(ctx context.Context, level int64) error) *CommonSettings {
	c := &CommonSettings{Composite: property.NewComposite("common_settings")}

	c.processState = property.NewValueNode("process_state", []byte("1"), nil,
		property.Rule{Field: "", Kind: property.Ge, Target: 1.0},
		property.Rule{Field: "", Kind: property.Le, Target: 2.0},
	)
	c.logLevel = property.NewValueNode("log_level", []byte("3"), func(ctx context.Context, v []byte) error {
		if onLogLevel == nil {
			return nil
		}
		return onLogLevel(ctx, gjson.ParseBytes(v).Int())
	},
		property.Rule{Field: "", Kind: property.Ge, Target: 0.0},
		property.Rule{Field: "", Kind: property.Le, Target: 5.0},
	)
	c.inference = buildInferenceSettings()
	c.pq = buildPQSettings(stream, notify)
	c.port = buildPortSettings(stream)
	c.codec = buildCodecSettings()
	c.numPerMsg = property.NewValueNode("number_of_inference_per_message", []byte("0"), nil,
		property.Rule{Field: "", Kind: property.Ge, Target: 0.0},
	)

	c.AddChild("process_state", c.processState)
	c.AddChild("log_level", c.logLevel)
	c.AddChild("inference_settings", c.inference)
	c.AddChild("pq_settings", c.pq)
	c.AddChild("port_settings", c.port)
	c.AddChild("codec_settings", c.codec)
	c.AddChild("number_of_inference_per_message", c.numPerMsg)

	return c
}

// SetRunning records whether the engine currently occupies RUNNING.
func (c *CommonSettings) SetRunning(running bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = running
}

func (c *CommonSettings) isRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// InferenceSettings exposes the inference_settings child for C8's worker
// to read number_of_iterations from.
func (c *CommonSettings) InferenceSettings() *property.ValueNode { return c.inference }

// PortSettings exposes the port_settings child for the façade (C9) to
// query which channels are enabled.
func (c *CommonSettings) PortSettings() *PortSettings { return c.port }

// setProcessStateReport mirrors the engine's current lifecycle state into
// process_state for reporting (I5).
func (c *CommonSettings) setProcessStateReport(ps lifecycle.ProcessState) {
	c.mu.Lock()
	c.reportedProcessState = ps
	c.mu.Unlock()
	_ = c.processState.Apply(context.Background(), []byte(strconv.Itoa(int(ps))))
}

// Apply applies process_state and log_level unconditionally, then — only
// when the engine is not RUNNING — the guarded fields (pq_settings,
// port_settings, codec_settings, number_of_inference_per_message). While
// RUNNING, if any guarded field would change, none of them are applied
// and res_info reports FAILED_PRECONDITION (spec §4.1).
func (c *CommonSettings) Apply(ctx context.Context, in []byte) *lifecycle.Error {
	if in == nil {
		return nil
	}

	var first *lifecycle.Error
	applyIfPresent := func(field string, node property.Node) {
		f := gjson.GetBytes(in, field)
		if !f.Exists() {
			return
		}
		if err := node.Apply(ctx, []byte(f.Raw)); err != nil && first == nil {
			first = err
		}
	}

	applyIfPresent("process_state", c.processState)
	applyIfPresent("log_level", c.logLevel)

	if c.isRunning() {
		anyGuardedChanged := false
		for _, field := range guardedFields {
			incoming := gjson.GetBytes(in, field)
			if !incoming.Exists() {
				continue
			}
			var current []byte
			switch field {
			case "pq_settings":
				current = c.pq.JSON()
			case "port_settings":
				current = c.port.JSON()
			case "codec_settings":
				current = c.codec.JSON()
			case "number_of_inference_per_message":
				current = c.numPerMsg.JSON()
			}
			if property.Changed(current, []byte(incoming.Raw)) {
				anyGuardedChanged = true
				break
			}
		}
		if anyGuardedChanged {
			return lifecycle.New(lifecycle.FAILED_PRECONDITION,
				"Ignoring Port Settings and Pq Settings since state is Running.")
		}
		return first
	}

	applyIfPresent("inference_settings", c.inference)
	applyIfPresent("pq_settings", c.pq)
	applyIfPresent("port_settings", c.port)
	applyIfPresent("codec_settings", c.codec)
	applyIfPresent("number_of_inference_per_message", c.numPerMsg)

	return first
}
