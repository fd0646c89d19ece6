// Package dtdl implements the DTDL Model (spec §3.1/§4.1, C2): the root
// of the property-node tree composing req_info, res_info,
// common_settings, custom_settings and ai_models, and the serializer for
// the full state document exchanged with the cloud (spec §6.4).
package dtdl

import (
	"context"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/edgecore/wedge/lifecycle"
	"github.com/edgecore/wedge/property"
)

// Model is the DTDL property-node tree root.
type Model struct {
	mu sync.Mutex

	root     *property.Composite
	reqInfo  *ReqInfo
	resInfo  *ResInfo
	common   *CommonSettings
	custom   *CustomSettings
	aiModels *AIModels

	// NextProcessState is read by states.Applying after Update to decide
	// the state machine's next state (spec §4.2.2).
	NextProcessState lifecycle.ProcessState
}

// Deps bundles the collaborators the model needs to construct its
// sensor-backed children.
type Deps struct {
	Stream      property.StreamAccessor
	Notify      property.NotifyFunc
	OnConfigure func(ctx context.Context, value []byte) error
	OnLogLevel  func(ctx context.Context, level int64) error
}

// New constructs a fresh DTDL model with all children in their zero
// state.
func New(deps Deps) *Model {
	m := &Model{
		reqInfo:  NewReqInfo(),
		resInfo:  NewResInfo(),
		custom:   NewCustomSettings(deps.OnConfigure),
		aiModels: NewAIModels(),
	}
	m.common = NewCommonSettings(deps.Stream, deps.Notify, deps.OnLogLevel)

	m.root = property.NewComposite("dtdl").
		AddChild("req_info", m.reqInfo).
		AddChild("res_info", m.resInfo).
		AddChild("common_settings", m.common).
		AddChild("custom_settings", m.custom).
		AddChild("ai_models", m.aiModels)
	return m
}

// ReqInfo, ResInfo, CommonSettings, AIModels expose their typed
// views for callers that need more than the generic Node contract (the
// engine's state-dependent wiring, mostly).
func (m *Model) ReqInfo() *ReqInfo             { return m.reqInfo }
func (m *Model) ResInfo() *ResInfo             { return m.resInfo }
func (m *Model) CommonSettings() *CommonSettings { return m.common }
func (m *Model) AIModels() *AIModels           { return m.aiModels }

// SetRunning tells common_settings whether the engine currently occupies
// RUNNING, gating pq_settings/port_settings/codec_settings/
// number_of_inference_per_message (spec §4.1).
func (m *Model) SetRunning(running bool) {
	m.common.SetRunning(running)
}

// InitializeValues reads live sensor properties into every leaf that has
// one, called once on first entering Applying (spec §4.2.2).
func (m *Model) InitializeValues(ctx context.Context) error {
	return m.root.InitializeValues(ctx)
}

// Update performs verify+apply of a raw configuration document (spec
// §4.2.2). On verify failure, res_info is populated, the document is not
// applied, and verifyFailed is true — callers (states.Applying) use this
// to force the next state to IDLE regardless of the requested
// process_state. On success, res_info.code is OK iff every visited node
// succeeded (I6). req_info.req_id is always echoed into res_info.res_id
// (P4), regardless of verify/apply outcome.
func (m *Model) Update(ctx context.Context, doc []byte) (verifyFailed bool, err *lifecycle.Error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reqID := gjson.GetBytes(doc, "req_info.req_id").String()
	m.resInfo.setResID(reqID)
	if reqField := gjson.GetBytes(doc, "req_info"); reqField.Exists() {
		_ = m.reqInfo.Apply(ctx, []byte(reqField.Raw))
	}

	m.NextProcessState = lifecycle.ProcessStateUnspecified
	if ps := gjson.GetBytes(doc, "common_settings.process_state"); ps.Exists() {
		m.NextProcessState = lifecycle.ProcessState(ps.Int())
	}

	if verr := m.root.Verify(doc); verr != nil {
		m.resInfo.setResult(verr.Code, verr.Detail)
		return true, verr
	}

	if aerr := m.root.Apply(ctx, doc); aerr != nil {
		m.resInfo.setResult(aerr.Code, aerr.Detail)
		return false, aerr
	}
	m.resInfo.setResult(lifecycle.OK, "")
	return false, nil
}

// TargetState converts the most recently requested process_state into the
// lifecycle state Applying should restore `next` to once update completes
// (spec §4.2.2: "restore next state to the process_state field requested
// by the document"). Unspecified or malformed values default to IDLE.
func (m *Model) TargetState() lifecycle.State {
	if m.NextProcessState == lifecycle.ProcessStateRunning {
		return lifecycle.Running
	}
	return lifecycle.Idle
}

// ReportFailure writes a result code/detail directly into res_info,
// bypassing the node tree — used by state-machine failures that happen
// outside of a document apply (sensor core init, callback failures).
func (m *Model) ReportFailure(code lifecycle.ResultCode, detail string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resInfo.setResult(code, detail)
}

// Serialize returns the full current state document (spec §6.4 response
// document shape).
func (m *Model) Serialize() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.root.JSON()
}

// SetProcessStateReport mirrors the engine's current lifecycle state into
// common_settings.process_state for reporting (I5). The run loop calls it
// for IDLE, RUNNING and DESTROYING; process_state only accepts 1 or 2, so
// a DESTROYING report is rejected and the last stable value stays in place.
// Other transient states never call it.
func (m *Model) SetProcessStateReport(ps lifecycle.ProcessState) {
	m.common.setProcessStateReport(ps)
}

// mergeField sets path to value in doc via sjson, returning doc unchanged
// if the write fails. No node constructor in this package calls it; they
// seed their initial JSON from literals.
func mergeField(doc []byte, path string, value any) []byte {
	out, err := sjson.SetBytes(doc, path, value)
	if err != nil {
		return doc
	}
	return out
}
