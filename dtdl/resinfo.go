package dtdl

import (
	"context"
	"sync"

	"github.com/tidwall/sjson"

	"github.com/edgecore/wedge/lifecycle"
)

// ResInfo is the per-apply response node (spec §3.1): {code, res_id,
// detail_msg}. It is written by the engine after every Update, never by
// the cloud, so Verify/Apply are no-ops from the document's perspective —
// its state changes only via setResult/setResID.
type ResInfo struct {
	mu   sync.Mutex
	code lifecycle.ResultCode
	id   string
	msg  string
}

// NewResInfo constructs a res_info node reporting OK with no detail.
func NewResInfo() *ResInfo {
	return &ResInfo{code: lifecycle.OK}
}

func (r *ResInfo) setResID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.id = id
}

func (r *ResInfo) setResult(code lifecycle.ResultCode, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code = code
	r.msg = msg
}

// Code returns the most recently recorded result code.
func (r *ResInfo) Code() lifecycle.ResultCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.code
}

// Detail returns the most recently recorded detail message, used by the
// telemetry heartbeat to surface the last sensor/callback failure.
func (r *ResInfo) Detail() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msg
}

func (r *ResInfo) JSON() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := []byte("{}")
	doc, _ = sjson.SetBytes(doc, "code", int(r.code))
	doc, _ = sjson.SetBytes(doc, "res_id", r.id)
	doc, _ = sjson.SetBytes(doc, "detail_msg", r.msg)
	return doc
}

func (r *ResInfo) Delete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code, r.id, r.msg = lifecycle.OK, "", ""
}

func (r *ResInfo) InitializeValues(ctx context.Context) error { return nil }
func (r *ResInfo) Verify(in []byte) *lifecycle.Error           { return nil }
func (r *ResInfo) Apply(ctx context.Context, in []byte) *lifecycle.Error {
	return nil
}
